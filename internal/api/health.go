package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SimpleHealthCheck 健康检查
func SimpleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
