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

type AuthHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var loginMessages = map[string]string{
	"email":    "Champ réquis! Veuillez indiquer votre adresse électronique (email)",
	"password": "Champ réquis! Veuillez indiquer votre mot de passe",
}

type resetRequest struct {
	Email string `json:"email" binding:"required"`
}

type confirmRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

// Me returns the logged-in user, password hash excluded.
func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetByID(c.GetString("userID"))
	if err != nil {
		response.ServerError(c, "Problème du Serveur!...")
		return
	}
	c.JSON(http.StatusOK, u)
}

// Login authenticates by email/password and answers with a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, loginMessages))
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Errors(c, http.StatusBadRequest, []response.Item{
				{Msg: "Identifiants non valides! Veuillez vérifier vos entrées ou bien s'enregistrer"},
			})
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.ServerError(c, "Server Error!")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Reset issues a password reset token and mails the link. The send is
// blocking: a mail fault is the caller's error.
func (h *AuthHandler) Reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, []response.Item{
			{Msg: "Adresse non valide! Veuillez vérifier votre entrée"},
		})
		return
	}

	if err := h.Svc.InitReset(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			response.Errors(c, http.StatusBadRequest, []response.Item{
				{Msg: "Adresse non valide! Veuillez vérifier votre entrée"},
			})
		case errors.Is(err, application.ErrMailSend):
			h.Logger.WithError(err).Error("reset mail failed")
			response.ServerError(c, "Server Error! cannot send mail")
		default:
			h.Logger.WithError(err).Error("reset token issue failed")
			response.ServerError(c, "Server Error! cannot assign new password")
		}
		return
	}
	response.Msg(c, http.StatusOK, "Email envoyé!...")
}

// ConfirmGet resolves a pending reset token to its user.
func (h *AuthHandler) ConfirmGet(c *gin.Context) {
	u, err := h.Svc.UserByResetToken(c.Param("token"))
	if err != nil {
		response.Errors(c, http.StatusBadRequest, []response.Item{{Msg: "Invalid or Expired Token!..."}})
		return
	}
	c.JSON(http.StatusOK, u)
}

// ConfirmPost sets the new password behind a pending token and mails a
// confirmation, again blocking.
func (h *AuthHandler) ConfirmPost(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, map[string]string{
			"password": "Champ réquis! Veuillez poser un mot de passe ( minimum 8 caractères de longueur et ne contient pas de caractères spéciaux )",
		}))
		return
	}

	if err := h.Svc.ConfirmReset(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidResetToken):
			response.Errors(c, http.StatusBadRequest, []response.Item{{Msg: "Invalid or Expired Token!..."}})
		case errors.Is(err, application.ErrMailSend):
			h.Logger.WithError(err).Error("confirmation mail failed")
			response.ServerError(c, "Server Error! cannot send mail")
		default:
			h.Logger.WithError(err).Error("password confirm failed")
			response.ServerError(c, "Server Error! cannot assign new password")
		}
		return
	}
	response.Msg(c, http.StatusOK, "Mot de passe changé avec succès")
}
