// Package root contains endpoints that don't belong to a collection
package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}

func Validate(c *gin.Context) {
	c.Status(http.StatusOK)
}
