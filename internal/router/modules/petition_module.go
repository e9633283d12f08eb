package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/urbe-dev/urbe-backend/internal/container"
	handlers "github.com/urbe-dev/urbe-backend/internal/interface/http"
	"github.com/urbe-dev/urbe-backend/internal/interface/middleware"
)

// PetitionModule wires the petition aggregate routes.
// Public: GET /api/petitions, /:id, /user/:userId, /search
// Protected: create, delete, support, unsupport, comment, uncomment

type PetitionModule struct {
	Handler *handlers.PetitionHandler
}

func NewPetitionModule(h *handlers.PetitionHandler) *PetitionModule {
	return &PetitionModule{Handler: h}
}

func (m *PetitionModule) Register(rg *gin.RouterGroup) {
	rg.GET("/petitions", m.Handler.List)
	rg.GET("/petitions/search", m.Handler.Search)
	rg.GET("/petitions/user/:userId", m.Handler.GetByUser)
	rg.GET("/petitions/:id", m.Handler.GetByID)

	auth := rg.Group("/petitions")
	auth.Use(middleware.Auth(container.GetJWT()))
	{
		auth.POST("", m.Handler.Create)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.PUT("/support/:id", m.Handler.Support)
		auth.PUT("/unsupport/:id", m.Handler.Unsupport)
		auth.POST("/comment/:id", m.Handler.Comment)
		auth.DELETE("/comment/:id/:cId", m.Handler.Uncomment)
	}
}
