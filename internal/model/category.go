package model

import (
	"time"

	"gorm.io/gorm"
)

// Category 商品分类
type Category struct {
	ID          uint   `gorm:"primarykey"`
	Slug        string `gorm:"size:64;uniqueIndex"` // URL标识
	Name        string `gorm:"size:64"`
	Description string `gorm:"size:255"`
	SortOrder   int    `gorm:"default:0;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
