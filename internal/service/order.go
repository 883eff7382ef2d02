package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

var Order = new(OrderService)

type OrderService struct{}

// CreateOrderInput 下单参数
type CreateOrderInput struct {
	ProductID uint
	Quantity  int
	Email     string
}

// Create 创建订单（待支付）
// 库存在此处只做预检，权威校验发生在发卡分配时
func (s *OrderService) Create(userID uint, input CreateOrderInput) (*model.Order, error) {
	var product model.Product
	err := database.DB.Where("id = ? AND is_active = ?", input.ProductID, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// 购买数量限制
	if input.Quantity < product.MinQuantity {
		return nil, fmt.Errorf("单笔最少购买%d件", product.MinQuantity)
	}
	if product.MaxQuantity > 0 && input.Quantity > product.MaxQuantity {
		return nil, fmt.Errorf("单笔最多购买%d件", product.MaxQuantity)
	}

	// 库存预检
	available, err := Card.AvailableCount(product.ID)
	if err != nil {
		return nil, err
	}
	if available < int64(input.Quantity) {
		return nil, ErrInsufficientStock
	}

	order := &model.Order{
		OrderNo:     generateOrderNo(),
		UserID:      userID,
		ProductID:   product.ID,
		Quantity:    input.Quantity,
		TotalAmount: product.Price * float64(input.Quantity),
		Email:       input.Email,
		Status:      model.OrderStatusPending,
	}

	if err := database.DB.Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// MarkPaid 支付回调：pending -> paid
// 条件更新保证回调重放不会重复流转
func (s *OrderService) MarkPaid(orderNo, paymentMethod, tradeNo string) (*model.Order, error) {
	var order model.Order
	if err := database.DB.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	result := database.DB.Model(&model.Order{}).
		Where("id = ? AND status = ?", order.ID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":         model.OrderStatusPaid,
			"payment_method": paymentMethod,
			"trade_no":       tradeNo,
			"pay_time":       &now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidState
	}

	order.Status = model.OrderStatusPaid
	order.PaymentMethod = paymentMethod
	order.TradeNo = tradeNo
	order.PayTime = &now
	return &order, nil
}

// Complete 完成订单：pending/paid -> completed，同一事务内分配卡密
// 库存不足时整体回滚，订单状态保持不变；
// 条件更新影响行数为0说明状态已被并发操作改掉，返回ErrInvalidState
func (s *OrderService) Complete(orderID uint) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if order.Status != model.OrderStatusPending && order.Status != model.OrderStatusPaid {
			return ErrInvalidState
		}

		// 分配卡密，不足则报错回滚
		if _, err := Card.Allocate(tx, order.ProductID, order.ID, order.Quantity); err != nil {
			return err
		}

		now := time.Now()
		result := tx.Model(&model.Order{}).
			Where("id = ? AND status IN ?", order.ID,
				[]string{model.OrderStatusPending, model.OrderStatusPaid}).
			Updates(map[string]interface{}{
				"status":       model.OrderStatusCompleted,
				"completed_at": &now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidState
		}
		return nil
	})
}

// GetOrderCards 查询订单名下已售出的卡密（已完成订单展示卡密内容用）
func (s *OrderService) GetOrderCards(orderID uint) ([]model.Card, error) {
	var cards []model.Card
	err := database.DB.Where("order_id = ? AND status = ?", orderID, model.CardStatusSold).
		Order("id ASC").
		Find(&cards).Error
	return cards, err
}

// BulkDelete 批量删除订单
// 只要有一个订单不在终态（completed/refunded），整批拒绝并列出拦截订单号，
// 不做部分删除。终态订单的库存已结清，删除无需级联释放卡密
func (s *OrderService) BulkDelete(orderIDs []uint) (int64, error) {
	if len(orderIDs) == 0 {
		return 0, fmt.Errorf("未选择订单")
	}

	var blocking []string
	err := database.DB.Model(&model.Order{}).
		Where("id IN ? AND status NOT IN ?", orderIDs,
			[]string{model.OrderStatusCompleted, model.OrderStatusRefunded}).
		Pluck("order_no", &blocking).Error
	if err != nil {
		return 0, err
	}
	if len(blocking) > 0 {
		return 0, fmt.Errorf("%w: 以下订单未完结，无法删除: %s",
			ErrInvalidState, strings.Join(blocking, ", "))
	}

	result := database.DB.Where("id IN ?", orderIDs).Delete(&model.Order{})
	return result.RowsAffected, result.Error
}

// generateOrderNo 生成订单号：时间戳 + UUID前8位
func generateOrderNo() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return "LDC" + time.Now().Format("20060102150405") + strings.ToUpper(suffix)
}
