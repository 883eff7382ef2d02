package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linqiu919/ldc-store/internal/config"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
	"github.com/linqiu919/ldc-store/internal/pkg/logger"
	"github.com/linqiu919/ldc-store/internal/pkg/payment"
)

var Refund = new(RefundService)

// 退款模式
const (
	RefundModeProxy    = "proxy"    // 服务端代理调用网关
	RefundModeClient   = "client"   // 管理员浏览器直连网关
	RefundModeDisabled = "disabled" // 退款功能关闭
)

// ErrRefundDisabled 退款功能未启用
var ErrRefundDisabled = errors.New("退款功能未启用")

// ErrClientSettlement 客户端直连模式下服务端不代为调用网关
var ErrClientSettlement = errors.New("当前为浏览器直连退款模式，请走客户端退款流程")

// RefundSettler 退款结算策略，启动时根据配置选定一种，不在调用点分支
type RefundSettler interface {
	Mode() string
	// Settle 执行外部结算。浏览器直连模式返回ErrClientSettlement
	Settle(order *model.Order) error
}

// ServerSideSettlement 服务端代理结算：服务端直接调用网关退款接口
type ServerSideSettlement struct {
	Client *payment.Client
}

func (s *ServerSideSettlement) Mode() string { return RefundModeProxy }

func (s *ServerSideSettlement) Settle(order *model.Order) error {
	return s.Client.Refund(order.TradeNo, payment.FormatMoney(order.TotalAmount))
}

// ClientDelegatedSettlement 浏览器直连结算：服务端只下发调用参数、记录结果
// 网关对服务端来源的流量有人机验证，管理员浏览器的会话可以通过，
// 因此由浏览器直接调网关，服务端信任浏览器上报的结果。这是已知的信任缺口，
// 是反机器人限制下的刻意取舍，不要在服务端补一次校验调用（会重新撞上拦截）
type ClientDelegatedSettlement struct {
	Client *payment.Client
}

func (s *ClientDelegatedSettlement) Mode() string { return RefundModeClient }

func (s *ClientDelegatedSettlement) Settle(order *model.Order) error {
	return ErrClientSettlement
}

type RefundService struct {
	settler RefundSettler
}

// Setup 根据配置选定结算策略，进程内只选一次
func (s *RefundService) Setup() {
	cfg := config.GlobalConfig.Payment
	client := payment.NewClient(cfg.APIURL, cfg.PayURL, cfg.PID, cfg.Key)

	switch cfg.RefundMode {
	case RefundModeProxy:
		s.settler = &ServerSideSettlement{Client: client}
	case RefundModeClient:
		s.settler = &ClientDelegatedSettlement{Client: client}
	default:
		s.settler = nil
	}
}

// SetSettler 注入结算策略（测试用）
func (s *RefundService) SetSettler(settler RefundSettler) {
	s.settler = settler
}

// Mode 当前退款模式
func (s *RefundService) Mode() string {
	if s.settler == nil {
		return RefundModeDisabled
	}
	return s.settler.Mode()
}

// Request 用户申请退款：paid -> refund_pending，原因可以为空
func (s *RefundService) Request(userID, orderID uint, reason string) error {
	var order model.Order
	err := database.DB.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	result := database.DB.Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPaid).
		Updates(map[string]interface{}{
			"status":        model.OrderStatusRefundPending,
			"refund_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidState
	}
	return nil
}

// Approve 管理员通过退款（服务端代理模式）
// 先调网关结算，成功后再落库流转；网关失败订单保持refund_pending，由操作员手动重试
func (s *RefundService) Approve(orderID uint) error {
	if s.settler == nil {
		return ErrRefundDisabled
	}

	var order model.Order
	if err := database.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if order.Status != model.OrderStatusRefundPending {
		return ErrInvalidState
	}

	if err := s.settler.Settle(&order); err != nil {
		logger.Warnf("订单 %s 退款结算失败: %v", order.OrderNo, err)
		return err
	}

	return s.finalize(order.ID)
}

// ClientRefundData 下发浏览器直连退款所需的网关调用参数
func (s *RefundService) ClientRefundData(orderID uint) (*payment.RefundParams, error) {
	if s.settler == nil {
		return nil, ErrRefundDisabled
	}
	settler, ok := s.settler.(*ClientDelegatedSettlement)
	if !ok {
		return nil, fmt.Errorf("当前退款模式为 %s，不支持浏览器直连", s.settler.Mode())
	}

	var order model.Order
	if err := database.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if order.Status != model.OrderStatusRefundPending {
		return nil, ErrInvalidState
	}

	return settler.Client.RefundParams(order.TradeNo, payment.FormatMoney(order.TotalAmount)), nil
}

// MarkRefunded 浏览器直连模式：浏览器上报网关退款成功后，服务端只做账本流转
// 这里不回查网关（见ClientDelegatedSettlement的说明），流转本身仍然有状态守卫
func (s *RefundService) MarkRefunded(orderID uint) error {
	if s.settler == nil {
		return ErrRefundDisabled
	}
	if _, ok := s.settler.(*ClientDelegatedSettlement); !ok {
		return fmt.Errorf("当前退款模式为 %s，不支持浏览器直连", s.settler.Mode())
	}
	return s.finalize(orderID)
}

// Reject 管理员拒绝退款：refund_pending -> paid，不触网关
// 退款申请只可能从paid进入，所以回退目标固定为paid；拒绝原因追加到退款原因里
func (s *RefundService) Reject(orderID uint, reason string) error {
	var order model.Order
	if err := database.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	refundReason := order.RefundReason
	if reason != "" {
		if refundReason != "" {
			refundReason += "；"
		}
		refundReason += "拒绝原因: " + reason
	}

	result := database.DB.Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusRefundPending).
		Updates(map[string]interface{}{
			"status":        model.OrderStatusPaid,
			"refund_reason": refundReason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidState
	}
	return nil
}

// finalize 账本流转 refund_pending -> refunded
// 按配置决定是否把订单名下卡密释放回库存（默认不释放：卡密已对买家展示过）
func (s *RefundService) finalize(orderID uint) error {
	releaseCards := config.GlobalConfig != nil && config.GlobalConfig.Payment.ReleaseCardsOnRefund

	return database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Order{}).
			Where("id = ? AND status = ?", orderID, model.OrderStatusRefundPending).
			Update("status", model.OrderStatusRefunded)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidState
		}

		if releaseCards {
			if err := Card.ReleaseByOrder(tx, orderID); err != nil {
				return err
			}
		}
		return nil
	})
}
