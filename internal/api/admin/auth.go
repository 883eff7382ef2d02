package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/linqiu919/ldc-store/internal/api"
	"github.com/linqiu919/ldc-store/internal/middleware"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
	"github.com/linqiu919/ldc-store/internal/pkg/logger"
)

// LoginRequest 管理员登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员账号密码登录（OAuth之外的后台入口）
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}

	var user model.User
	err := database.DB.Where("username = ? AND is_admin = ?", req.Username, true).First(&user).Error
	if err != nil {
		recordLoginLog(c, req.Username, false, "用户不存在")
		api.Fail(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	if user.Password == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		recordLoginLog(c, req.Username, false, "密码错误")
		api.Fail(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "生成token失败")
		return
	}

	recordLoginLog(c, req.Username, true, "")
	api.Ok(c, "登录成功", gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"nickname": user.Nickname,
		},
	})
}

// recordLoginLog 记录管理员登录日志，失败不影响主流程
func recordLoginLog(c *gin.Context, username string, success bool, failReason string) {
	log := model.AdminLoginLog{
		Username:   username,
		IP:         c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		IsSuccess:  success,
		FailReason: failReason,
		LoginTime:  time.Now(),
	}
	if err := database.DB.Create(&log).Error; err != nil {
		logger.Warnf("记录登录日志失败: %v", err)
	}
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword 管理员修改自己的密码
func ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误，新密码至少6位")
		return
	}

	user := c.MustGet("admin_user").(model.User)
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		api.Fail(c, http.StatusUnauthorized, "原密码错误")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "密码加密失败")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashed)).Error; err != nil {
		api.Fail(c, http.StatusInternalServerError, "密码更新失败")
		return
	}

	api.Ok(c, "密码修改成功", nil)
}

// GetLoginLogs 管理员登录日志列表
func GetLoginLogs(c *gin.Context) {
	var logs []model.AdminLoginLog
	err := database.DB.Order("id DESC").Limit(100).Find(&logs).Error
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取登录日志失败")
		return
	}
	api.Ok(c, "", logs)
}
