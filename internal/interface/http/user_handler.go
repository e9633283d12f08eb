package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/urbe-dev/urbe-backend/internal/application"
	"github.com/urbe-dev/urbe-backend/pkg/response"
	"github.com/urbe-dev/urbe-backend/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
}

var signupMessages = map[string]string{
	"firstName": "Champ réquis! Veuillez indiquer votre prénom",
	"lastName":  "Champ réquis! Veuillez indiquer votre nom de famille",
	"email":     "Votre adresse email doit être du format: 'adresse@site.com'",
	"password":  "Champ réquis! Veuillez poser un mot de passe ( minimum 8 caractères de longueur et ne contient pas de caractères spéciaux )",
}

// Signup registers a new account and answers with a signed token.
func (h *UserHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, signupMessages))
		return
	}

	token, err := h.Svc.Register(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if err == application.ErrEmailTaken {
			response.Errors(c, http.StatusBadRequest, []response.Item{
				{Msg: "Il existe déja un utilisateur avec ces identifiants! Veuillez vérifier vos entrées ou bien se connecter"},
			})
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.ServerError(c, "Server Error!")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// UploadAvatar replaces the caller's avatar with an uploaded image.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString("userID")

	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Errors(c, http.StatusBadRequest, []response.Item{{Msg: "Veuillez joindre une image", Param: "avatar"}})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.Logger.WithError(err).Error("avatar open failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		h.Logger.WithError(err).Error("avatar upload failed")
		response.ServerError(c, "Problème du serveur!...")
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}
