package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint   `gorm:"primarykey"`
	OAuthID   string `gorm:"column:oauth_id;size:64;index"` // OAuth提供方的用户标识
	Username  string `gorm:"size:64"`
	Password  string `gorm:"size:64"` // bcrypt哈希，仅管理员密码登录使用
	Nickname  string `gorm:"size:64"`
	Avatar    string `gorm:"size:255"`
	Email     string `gorm:"size:128"`
	IsAdmin   bool   `gorm:"default:false"` // 是否是管理员
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
