package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urbe-dev/urbe-backend/internal/container"
	handlers "github.com/urbe-dev/urbe-backend/internal/interface/http"
	"github.com/urbe-dev/urbe-backend/internal/interface/middleware"
)

// AuthModule wires login, the logged-in user lookup and the password reset
// flow.
// Public: POST /api/auth, POST /api/auth/reset, GET+POST /api/auth/confirm/:token
// Protected: GET /api/auth

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)         // 10 req/min per IP
	resetLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)   // reset mail is expensive
	confirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth", loginLimiter, m.Handler.Login)
	rg.POST("/auth/reset", resetLimiter, m.Handler.Reset)
	rg.GET("/auth/confirm/:token", confirmLimiter, m.Handler.ConfirmGet)
	rg.POST("/auth/confirm/:token", confirmLimiter, m.Handler.ConfirmPost)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(container.GetJWT()))
	{
		auth.GET("", m.Handler.Me)
	}
}
