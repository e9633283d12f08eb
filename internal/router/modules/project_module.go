package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/urbe-dev/urbe-backend/internal/container"
	handlers "github.com/urbe-dev/urbe-backend/internal/interface/http"
	"github.com/urbe-dev/urbe-backend/internal/interface/middleware"
)

// ProjectModule wires the project aggregate routes: the document itself plus
// its tasks and budget sub-collections.

type ProjectModule struct {
	Handler *handlers.ProjectHandler
}

func NewProjectModule(h *handlers.ProjectHandler) *ProjectModule {
	return &ProjectModule{Handler: h}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	rg.GET("/projects", m.Handler.List)
	rg.GET("/projects/user/:userId", m.Handler.GetByUser)
	rg.GET("/projects/:id", m.Handler.GetByID)

	auth := rg.Group("/projects")
	auth.Use(middleware.Auth(container.GetJWT()))
	{
		auth.POST("", m.Handler.Create)
		auth.DELETE("/:id", m.Handler.Delete)

		auth.POST("/tasks/:projectId", m.Handler.AddTask)
		auth.DELETE("/tasks/:projectId/:taskId", m.Handler.RemoveTask)
		auth.PUT("/tasks/finish/:projectId/:taskId", m.Handler.FinishTask)
		auth.PUT("/tasks/unfinish/:projectId/:taskId", m.Handler.UnfinishTask)

		auth.POST("/budget/:projectId", m.Handler.AddBudget)
		auth.DELETE("/budget/:projectId/:elementId", m.Handler.RemoveBudget)
	}
}
