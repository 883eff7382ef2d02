package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/api"
	"github.com/linqiu919/ldc-store/internal/service"
)

// GetSystemInfo 后台首页概览统计
func GetSystemInfo(c *gin.Context) {
	info, err := service.Statistics.GetSystemInfo()
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取统计数据失败")
		return
	}

	api.Ok(c, "", gin.H{
		"system_info": info,
		"refund_mode": service.Refund.Mode(),
	})
}
