package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/service"
)

// Ok 统一成功响应
func Ok(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Fail 统一失败响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// FailWithError 根据业务错误映射状态码
func FailWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInsufficientStock):
		Fail(c, http.StatusConflict, err.Error())
	default:
		Fail(c, http.StatusBadRequest, err.Error())
	}
}
