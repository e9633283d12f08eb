package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urbe-dev/urbe-backend/internal/container"
	handlers "github.com/urbe-dev/urbe-backend/internal/interface/http"
	"github.com/urbe-dev/urbe-backend/internal/interface/middleware"
)

// UserModule wires signup and the avatar upload.
// Public: POST /api/users
// Protected: POST /api/users/avatar

type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP

	rg.POST("/users", signupLimiter, m.Handler.Signup)

	auth := rg.Group("/users")
	auth.Use(middleware.Auth(container.GetJWT()))
	{
		auth.POST("/avatar", m.Handler.UploadAvatar)
	}
}
