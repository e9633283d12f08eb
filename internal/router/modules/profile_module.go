package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/urbe-dev/urbe-backend/internal/container"
	handlers "github.com/urbe-dev/urbe-backend/internal/interface/http"
	"github.com/urbe-dev/urbe-backend/internal/interface/middleware"
)

// ProfileModule wires the profile routes, including the curriculum
// sub-collection.

type ProfileModule struct {
	Handler *handlers.ProfileHandler
}

func NewProfileModule(h *handlers.ProfileHandler) *ProfileModule {
	return &ProfileModule{Handler: h}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", m.Handler.List)
	rg.GET("/profile/user/:user_id", m.Handler.GetByUser)

	auth := rg.Group("/profile")
	auth.Use(middleware.Auth(container.GetJWT()))
	{
		auth.GET("/me", m.Handler.Me)
		auth.POST("", m.Handler.Upsert)
		auth.DELETE("", m.Handler.Delete)
		auth.PUT("/curriculum", m.Handler.AddCurriculum)
		auth.PUT("/curriculum/:curr_id", m.Handler.RemoveCurriculum)
	}
}
