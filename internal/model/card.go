package model

import (
	"time"

	"gorm.io/gorm"
)

// 卡密状态
const (
	CardStatusAvailable = "available" // 可售
	CardStatusLocked    = "locked"    // 占用中
	CardStatusSold      = "sold"      // 已售出
)

// Card 卡密模型
// 状态只允许 available -> locked -> sold 或 locked/sold -> available（释放）
type Card struct {
	ID        uint       `gorm:"primarykey"`
	ProductID uint       `gorm:"index"`
	Secret    string     `gorm:"type:text"`                            // 卡密内容
	Status    string     `gorm:"size:20;default:'available';index"`    // available, locked, sold
	OrderID   *uint      `gorm:"index"`                                // 售出后归属的订单，一张卡密至多属于一个订单
	SoldAt    *time.Time // 售出时间
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
