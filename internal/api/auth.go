package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linqiu919/ldc-store/internal/middleware"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
	"github.com/linqiu919/ldc-store/internal/pkg/logger"
	"github.com/linqiu919/ldc-store/internal/service"
)

// GetOAuthURL 获取OAuth授权跳转链接
func GetOAuthURL(c *gin.Context) {
	state := uuid.New().String()
	Ok(c, "", gin.H{
		"url":   service.OAuth.BuildAuthURL(state),
		"state": state,
	})
}

// OAuthCallback OAuth授权回调：换token、落库、签发JWT
func OAuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		Fail(c, http.StatusBadRequest, "缺少授权码")
		return
	}

	user, err := service.OAuth.HandleCallback(code)
	if err != nil {
		logger.Errorf("OAuth回调处理失败: %v", err)
		Fail(c, http.StatusUnauthorized, "登录失败: "+err.Error())
		return
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		Fail(c, http.StatusInternalServerError, "生成token失败")
		return
	}

	Ok(c, "登录成功", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"nickname": user.Nickname,
			"avatar":   user.Avatar,
		},
	})
}

// GetProfile 获取当前用户信息
func GetProfile(c *gin.Context) {
	userId := c.GetUint("userId")

	var user model.User
	if err := database.DB.First(&user, userId).Error; err != nil {
		Fail(c, http.StatusNotFound, "用户不存在")
		return
	}

	Ok(c, "", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"nickname": user.Nickname,
		"avatar":   user.Avatar,
		"email":    user.Email,
	})
}
