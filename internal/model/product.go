package model

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品模型
// 库存不落库，始终通过统计可用卡密数量得到，避免出现第二份会漂移的事实来源
type Product struct {
	ID            uint     `gorm:"primarykey"`
	CategoryID    uint     `gorm:"index"`
	Category      Category `gorm:"foreignKey:CategoryID"`
	Slug          string   `gorm:"size:64;uniqueIndex"` // URL标识
	Name          string   `gorm:"size:128"`
	Description   string   `gorm:"type:text"` // 商品详情，Markdown
	Price         float64
	OriginalPrice *float64 // 划线价，为空则不展示折扣
	CoverImage    string   `gorm:"size:255"`
	IsActive      bool     `gorm:"default:true;index"`  // 是否上架
	IsFeatured    bool     `gorm:"default:false;index"` // 是否推荐
	SortOrder     int      `gorm:"default:0;index"`
	MinQuantity   int      `gorm:"default:1"` // 单笔最小购买数量
	MaxQuantity   int      `gorm:"default:0"` // 单笔最大购买数量，0为不限制
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
