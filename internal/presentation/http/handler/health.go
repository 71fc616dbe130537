package handler

import (
	"github.com/gin-gonic/gin"
)

// Health handles the liveness endpoint
func Health(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	}
}
