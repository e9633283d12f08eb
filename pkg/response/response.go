package response

import (
	"github.com/gin-gonic/gin"
)

// The API predates any unified envelope: some routes answer {"msg": ...},
// validation failures answer {"Errors": [{msg, param}]}, and unexpected
// faults answer a plain-text body. Clients depend on each shape, so they
// are kept as-is per route.

// Item is one element of the Errors array.
type Item struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// Msg writes a {"msg": ...} body.
func Msg(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"msg": msg})
}

// Errors writes an {"Errors": [...]} body.
func Errors(c *gin.Context, status int, items []Item) {
	c.JSON(status, gin.H{"Errors": items})
}

// ServerError writes the plain-text 500 body used across the API.
func ServerError(c *gin.Context, msg string) {
	c.String(500, msg)
}
