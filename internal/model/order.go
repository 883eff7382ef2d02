package model

import (
	"time"

	"gorm.io/gorm"
)

// 订单状态
const (
	OrderStatusPending       = "pending"        // 待支付
	OrderStatusPaid          = "paid"           // 已支付待发货
	OrderStatusCompleted     = "completed"      // 已完成（终态）
	OrderStatusRefundPending = "refund_pending" // 退款待审核
	OrderStatusRefunded      = "refunded"       // 已退款（终态）
)

type Order struct {
	ID            uint    `gorm:"primarykey"`
	OrderNo       string  `gorm:"size:64;uniqueIndex"`
	UserID        uint    `gorm:"index"`
	User          User    `gorm:"foreignKey:UserID"`
	ProductID     uint    `gorm:"index"`
	Product       Product `gorm:"foreignKey:ProductID"`
	Quantity      int     `gorm:"default:1"`
	TotalAmount   float64
	PaymentMethod string     `gorm:"size:20"`  // 支付方式
	Email         string     `gorm:"size:128"` // 联系邮箱
	Status        string     `gorm:"size:20;index"`
	RefundReason  string     `gorm:"size:512"` // 退款原因，拒绝时追加拒绝原因
	TradeNo       string     `gorm:"size:64"`  // 支付网关流水号
	PayTime       *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// IsTerminal 订单是否处于终态。completed 与 refunded 互斥，且都不允许再流转
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusRefunded
}
