package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/urbe-dev/urbe-backend/internal/interface/http"
)

// LocationModule keeps the location placeholder route alive.

type LocationModule struct {
	Handler *handlers.LocationHandler
}

func NewLocationModule(h *handlers.LocationHandler) *LocationModule {
	return &LocationModule{Handler: h}
}

func (m *LocationModule) Register(rg *gin.RouterGroup) {
	rg.GET("/locations", m.Handler.Get)
}
