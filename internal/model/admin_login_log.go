package model

import (
	"time"

	"gorm.io/gorm"
)

// AdminLoginLog 管理员登录日志
type AdminLoginLog struct {
	ID         uint   `gorm:"primarykey"`
	Username   string `gorm:"size:64;index"`
	IP         string `gorm:"size:64"`
	UserAgent  string `gorm:"size:255"`
	IsSuccess  bool
	FailReason string `gorm:"size:128"`
	LoginTime  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}
