package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct{}

func NewLocationHandler() *LocationHandler {
	return &LocationHandler{}
}

// Get is the placeholder the location feature has always answered with.
func (h *LocationHandler) Get(c *gin.Context) {
	c.String(http.StatusOK, "Location Route...")
}
