package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/urbe-dev/urbe-backend/internal/application"
	"github.com/urbe-dev/urbe-backend/pkg/response"
	"github.com/urbe-dev/urbe-backend/pkg/validation"
)

type ProjectHandler struct {
	Svc    *application.ProjectService
	Logger *logrus.Logger
}

func NewProjectHandler(svc *application.ProjectService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Svc: svc, Logger: logger}
}

type projectRequest struct {
	Title    string `json:"title" binding:"required"`
	SDGs     string `json:"sdgs" binding:"required"`
	Overview string `json:"overview" binding:"required"`
	Start    string `json:"start" binding:"required,dateonly"`
	End      string `json:"end" binding:"required,dateonly"`
}

var projectMessages = map[string]string{
	"title":    "Champs réquis! Veuillez indiquer le titre de votre projet",
	"sdgs":     "Veuillez sélectionner au moins un objectif de développement durable",
	"overview": "Champs réquis! Veuillez décrire brièvement l'objectif, le démarche et le cible de votre projet",
	"start":    "Champs réquis! Veuillez indiquer la date de déclenchement de votre projet",
	"end":      "Champs réquis! Veuillez indiquer la date prévisionnelle de clôture de votre projet",
}

type taskRequest struct {
	Title      string `json:"title" binding:"required"`
	Desc       string `json:"desc" binding:"required"`
	DateStart  string `json:"dateStart" binding:"required,dateonly"`
	DateEnd    string `json:"dateEnd" binding:"required,dateonly"`
	IsFinished *bool  `json:"isFinished"`
}

var taskMessages = map[string]string{
	"title":     "Indiquez le titre de la tâche",
	"desc":      "Rédigez une description brêve de la tâche",
	"dateStart": "Indiquer la date du début de la tâche",
	"dateEnd":   "Indiquer la date prévue pour la fin de la tâche",
}

type budgetRequest struct {
	Tool        string  `json:"tool" binding:"required"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	IsAvailable *bool   `json:"isAvailable" binding:"required"`
}

var budgetMessages = map[string]string{
	"tool":        "Précisez l'outil à acheter!",
	"isAvailable": "Indiquez s'il est disponible!...",
}

const dateLayout = "2006-01-02"

// Create creates the caller's project, or updates it if one already exists.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, projectMessages))
		return
	}

	start, _ := time.Parse(dateLayout, req.Start)
	end, _ := time.Parse(dateLayout, req.End)
	p, err := h.Svc.Upsert(c.GetString("userID"), application.ProjectInput{
		Title:    req.Title,
		SDGs:     req.SDGs,
		Overview: req.Overview,
		Start:    start,
		End:      end,
	})
	if err != nil {
		h.Logger.WithError(err).Error("project upsert failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.Svc.List()
	if err != nil {
		h.Logger.WithError(err).Error("project list failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) GetByID(c *gin.Context) {
	p, err := h.Svc.GetByID(c.Param("id"))
	if err != nil {
		response.Msg(c, http.StatusBadRequest, "Projet Non Trouvable!...")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) GetByUser(c *gin.Context) {
	p, err := h.Svc.GetByUser(c.Param("userId"))
	if err != nil {
		response.Msg(c, http.StatusBadRequest, "Projet Non Trouvable!...")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Param("id"), c.GetString("userID"))
	switch {
	case err == nil:
		response.Msg(c, http.StatusOK, "Projet Supprimé!...")
	case errors.Is(err, application.ErrProjectNotFound):
		response.Msg(c, http.StatusBadRequest, "Projet Non Trouvable!...")
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "Vous n'êtes pas autorisé à faire cette action!...")
	default:
		h.Logger.WithError(err).Error("project delete failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// AddTask prepends a task and returns the tasks list.
func (h *ProjectHandler) AddTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, taskMessages))
		return
	}

	dateStart, _ := time.Parse(dateLayout, req.DateStart)
	dateEnd, _ := time.Parse(dateLayout, req.DateEnd)
	tasks, err := h.Svc.AddTask(c.Param("projectId"), c.GetString("userID"), application.TaskInput{
		Title:      req.Title,
		Desc:       req.Desc,
		DateStart:  dateStart,
		DateEnd:    dateEnd,
		IsFinished: req.IsFinished,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, tasks)
	case errors.Is(err, application.ErrProjectNotFound):
		response.Msg(c, http.StatusBadRequest, "Projet Non Trouvable!...")
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "Vous n'êtes pas autorisés!...")
	default:
		h.Logger.WithError(err).Error("task add failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// RemoveTask removes a task and returns the tasks list.
func (h *ProjectHandler) RemoveTask(c *gin.Context) {
	tasks, err := h.Svc.RemoveTask(c.Param("projectId"), c.Param("taskId"), c.GetString("userID"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, tasks)
	case errors.Is(err, application.ErrTaskNotFound):
		response.Msg(c, http.StatusNotFound, "Tâche non-existante!...")
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "Vous n'êtes pas autorisés!...")
	case errors.Is(err, application.ErrProjectNotFound):
		response.Msg(c, http.StatusBadRequest, "Projet Non Trouvable!...")
	default:
		h.Logger.WithError(err).Error("task remove failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// FinishTask marks a task done and returns the updated project.
func (h *ProjectHandler) FinishTask(c *gin.Context) {
	p, err := h.Svc.FinishTask(c.Param("projectId"), c.Param("taskId"), c.GetString("userID"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, application.ErrTaskNotFound):
		response.Msg(c, http.StatusNotFound, "Tâche non-existante!...")
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "Vous n'êtes pas autorisés!...")
	case errors.Is(err, application.ErrAlreadyFinished):
		response.Msg(c, http.StatusBadRequest, "Tâche déja finie!")
	case errors.Is(err, application.ErrProjectNotFound):
		response.Msg(c, http.StatusBadRequest, "Projet Non Trouvable!...")
	default:
		h.Logger.WithError(err).Error("task finish failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// UnfinishTask reopens a task and returns the updated project.
func (h *ProjectHandler) UnfinishTask(c *gin.Context) {
	p, err := h.Svc.UnfinishTask(c.Param("projectId"), c.Param("taskId"), c.GetString("userID"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, application.ErrTaskNotFound):
		response.Msg(c, http.StatusNotFound, "Tâche non-existante!...")
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "Vous n'êtes pas autorisés!...")
	case errors.Is(err, application.ErrNotYetFinished):
		response.Msg(c, http.StatusBadRequest, "Tâche pas encore commencée!")
	case errors.Is(err, application.ErrProjectNotFound):
		response.Msg(c, http.StatusBadRequest, "Projet Non Trouvable!...")
	default:
		h.Logger.WithError(err).Error("task unfinish failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// AddBudget prepends a budget line and returns the updated project.
func (h *ProjectHandler) AddBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, budgetMessages))
		return
	}

	available := req.IsAvailable != nil && *req.IsAvailable
	p, err := h.Svc.AddBudgetItem(c.Param("projectId"), c.GetString("userID"), application.BudgetInput{
		Tool:        req.Tool,
		Quantity:    req.Quantity,
		Price:       req.Price,
		IsAvailable: available,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, application.ErrProjectNotFound):
		response.Msg(c, http.StatusBadRequest, "Projet Non Trouvable!...")
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "Vous n'êtes pas autorisés!...")
	default:
		h.Logger.WithError(err).Error("budget add failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// RemoveBudget removes a budget line and returns the updated project.
func (h *ProjectHandler) RemoveBudget(c *gin.Context) {
	p, err := h.Svc.RemoveBudgetItem(c.Param("projectId"), c.Param("elementId"), c.GetString("userID"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, application.ErrBudgetItemNotFound):
		response.Msg(c, http.StatusNotFound, "Element non-existant!...")
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "Vous n'êtes pas autorisés!...")
	case errors.Is(err, application.ErrProjectNotFound):
		response.Msg(c, http.StatusBadRequest, "Projet Non Trouvable!...")
	default:
		h.Logger.WithError(err).Error("budget remove failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}
