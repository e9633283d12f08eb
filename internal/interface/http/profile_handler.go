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

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type profileRequest struct {
	Birthdate      string `json:"birthdate" binding:"required,dateonly"`
	Bio            string `json:"bio"`
	Address        string `json:"adress"`
	Job            string `json:"job" binding:"required"`
	JobLocation    string `json:"jobLocation"`
	JobGovernorate string `json:"jobGovernorate"`
	JobCity        string `json:"jobCity"`
	Skills         string `json:"skills"`
	LastDegree     string `json:"lastDegree" binding:"required"`
	LastInstitute  string `json:"lastInstitute" binding:"required"`
}

var profileMessages = map[string]string{
	"birthdate":     "Veuillez indiquer votre date de naissance!",
	"job":           "Veuillez indiquer votre profession actuelle!",
	"lastDegree":    "Veuillez indiquer le dernier diplôme obtenu!",
	"lastInstitute": "Veuillez indiquer le dernier établissement secondaire/supérieur/de formation professionelle!",
}

type curriculumRequest struct {
	Year      string `json:"year" binding:"required,len=4,number"`
	Title     string `json:"title" binding:"required"`
	Institute string `json:"institute" binding:"required"`
}

var curriculumMessages = map[string]string{
	"year":      "Champs réquis! Veuillez indiquer l'année de l'obtention de votre diplôme",
	"title":     "Champs réquis! Veuillez indiquer le titre de votre diplôme",
	"institute": "Champs réquis! Veuillez indiquer le nom de l'établissement supérieur/de formation professionelle",
}

// Me returns the caller's profile with the owner's public fields attached.
func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.Svc.GetByUser(c.GetString("userID"))
	if err != nil {
		response.Msg(c, http.StatusBadRequest, "No Profile found!...")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.Svc.ListAll()
	if err != nil {
		h.Logger.WithError(err).Error("profile list failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) GetByUser(c *gin.Context) {
	p, err := h.Svc.GetByUser(c.Param("user_id"))
	if err != nil {
		response.Msg(c, http.StatusBadRequest, "No Profile found!...")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Upsert creates the caller's profile, or updates it if one already exists.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, profileMessages))
		return
	}

	birthdate, _ := time.Parse(dateLayout, req.Birthdate)
	p, err := h.Svc.Upsert(c.GetString("userID"), application.ProfileInput{
		Birthdate:      birthdate,
		Bio:            req.Bio,
		Address:        req.Address,
		Job:            req.Job,
		JobLocation:    req.JobLocation,
		JobGovernorate: req.JobGovernorate,
		JobCity:        req.JobCity,
		Skills:         req.Skills,
		LastDegree:     req.LastDegree,
		LastInstitute:  req.LastInstitute,
	})
	if err != nil {
		h.Logger.WithError(err).Error("profile upsert failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete removes the caller's profile and the account behind it.
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteWithUser(c.GetString("userID")); err != nil {
		h.Logger.WithError(err).Error("profile delete failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	response.Msg(c, http.StatusOK, "Utilisateur Supprimé!...")
}

// AddCurriculum prepends a degree entry and returns the profile.
func (h *ProfileHandler) AddCurriculum(c *gin.Context) {
	var req curriculumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, curriculumMessages))
		return
	}

	p, err := h.Svc.AddCurriculum(c.GetString("userID"), req.Year, req.Title, req.Institute)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, application.ErrProfileNotFound):
		response.Msg(c, http.StatusBadRequest, "No Profile found!...")
	default:
		h.Logger.WithError(err).Error("curriculum add failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// RemoveCurriculum removes a degree entry and returns the profile.
func (h *ProfileHandler) RemoveCurriculum(c *gin.Context) {
	p, err := h.Svc.RemoveCurriculum(c.GetString("userID"), c.Param("curr_id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, application.ErrProfileNotFound):
		response.Msg(c, http.StatusBadRequest, "No Profile found!...")
	default:
		h.Logger.WithError(err).Error("curriculum remove failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}
