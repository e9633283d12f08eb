package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/urbe-dev/urbe-backend/internal/application"
	"github.com/urbe-dev/urbe-backend/pkg/response"
	"github.com/urbe-dev/urbe-backend/pkg/validation"
)

type PetitionHandler struct {
	Svc    *application.PetitionService
	Logger *logrus.Logger
}

func NewPetitionHandler(svc *application.PetitionService, logger *logrus.Logger) *PetitionHandler {
	return &PetitionHandler{Svc: svc, Logger: logger}
}

type petitionRequest struct {
	Subject    string `json:"subject" binding:"required"`
	Categories string `json:"categories" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

var petitionMessages = map[string]string{
	"subject":    "Champs Réquis! Veuillez indiquer le sujet de la pétition",
	"categories": "Champs Réquis! Indiquez au moins une catégorie qu'on peut labelliser la pétition",
	"content":    "Champs Réquis! Veuillez rédiger la pétition",
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// Create creates the caller's petition, or updates it if one already exists.
func (h *PetitionHandler) Create(c *gin.Context) {
	var req petitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, petitionMessages))
		return
	}

	p, err := h.Svc.Upsert(c.Request.Context(), c.GetString("userID"), application.PetitionInput{
		Subject:    req.Subject,
		Categories: req.Categories,
		Content:    req.Content,
	})
	if err != nil {
		h.Logger.WithError(err).Error("petition upsert failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PetitionHandler) List(c *gin.Context) {
	petitions, err := h.Svc.List()
	if err != nil {
		h.Logger.WithError(err).Error("petition list failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	c.JSON(http.StatusOK, petitions)
}

func (h *PetitionHandler) GetByID(c *gin.Context) {
	p, err := h.Svc.GetByID(c.Param("id"))
	if err != nil {
		response.Msg(c, http.StatusBadRequest, "Petition Non Trouvable!...")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PetitionHandler) GetByUser(c *gin.Context) {
	p, err := h.Svc.GetByUser(c.Param("userId"))
	if err != nil {
		response.Msg(c, http.StatusBadRequest, "Petition Non Trouvable!...")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Search queries the petitions index.
func (h *PetitionHandler) Search(c *gin.Context) {
	results, err := h.Svc.Search(c.Request.Context(), c.Query("q"), 10)
	if err != nil {
		h.Logger.WithError(err).Error("petition search failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *PetitionHandler) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Param("id"), c.GetString("userID"))
	switch {
	case err == nil:
		response.Msg(c, http.StatusOK, "Pétition Supprimée!...")
	case errors.Is(err, application.ErrPetitionNotFound):
		response.Msg(c, http.StatusBadRequest, "Petition Non Trouvable!...")
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "Vous n'êtes pas autorisé à faire cette action!...")
	default:
		h.Logger.WithError(err).Error("petition delete failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// Support adds the caller's signature and returns the supports list.
func (h *PetitionHandler) Support(c *gin.Context) {
	supports, err := h.Svc.AddSupport(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, supports)
	case errors.Is(err, application.ErrAlreadySupported):
		response.Msg(c, http.StatusBadRequest, "Petition déja supportée!...")
	case errors.Is(err, application.ErrPetitionNotFound):
		response.Msg(c, http.StatusBadRequest, "Petition Non Trouvable!...")
	default:
		h.Logger.WithError(err).Error("petition support failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// Unsupport removes the caller's signature and returns the supports list.
func (h *PetitionHandler) Unsupport(c *gin.Context) {
	supports, err := h.Svc.RemoveSupport(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, supports)
	case errors.Is(err, application.ErrNotSupported):
		response.Msg(c, http.StatusBadRequest, "Petition pas encore supportée!...")
	case errors.Is(err, application.ErrPetitionNotFound):
		response.Msg(c, http.StatusBadRequest, "Petition Non Trouvable!...")
	default:
		h.Logger.WithError(err).Error("petition unsupport failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// Comment prepends a comment and returns the comments list.
func (h *PetitionHandler) Comment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, map[string]string{"text": "Contenu Vide!..."}))
		return
	}

	comments, err := h.Svc.AddComment(c.Request.Context(), c.Param("id"), c.GetString("userID"), req.Text)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, comments)
	case errors.Is(err, application.ErrEmptyText):
		response.Errors(c, http.StatusBadRequest, []response.Item{{Msg: "Contenu Vide!...", Param: "text"}})
	case errors.Is(err, application.ErrPetitionNotFound):
		response.Msg(c, http.StatusBadRequest, "Petition Non Trouvable!...")
	default:
		h.Logger.WithError(err).Error("petition comment failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}

// Uncomment removes a comment and returns the comments list.
func (h *PetitionHandler) Uncomment(c *gin.Context) {
	comments, err := h.Svc.RemoveComment(c.Request.Context(), c.Param("id"), c.GetString("userID"), c.Param("cId"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, comments)
	case errors.Is(err, application.ErrCommentNotFound):
		response.Msg(c, http.StatusNotFound, "Commentaire non-existant!...")
	case errors.Is(err, application.ErrForbidden):
		response.Msg(c, http.StatusUnauthorized, "Vous n'êtes pas autorisés!...")
	case errors.Is(err, application.ErrPetitionNotFound):
		response.Msg(c, http.StatusBadRequest, "Petition Non Trouvable!...")
	default:
		h.Logger.WithError(err).Error("petition uncomment failed")
		response.ServerError(c, "Problème du serveur!...")
	}
}
