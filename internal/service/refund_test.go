package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/linqiu919/ldc-store/internal/config"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/payment"
)

// spySettler 记录结算调用的测试替身
type spySettler struct {
	mode    string
	err     error
	settled []string
}

func (s *spySettler) Mode() string { return s.mode }

func (s *spySettler) Settle(order *model.Order) error {
	s.settled = append(s.settled, order.OrderNo)
	return s.err
}

func TestRequestOnlyFromPaid(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)

	paid := createTestOrder(t, product.ID, 1, model.OrderStatusPaid)
	if err := Refund.Request(paid.UserID, paid.ID, "买错了"); err != nil {
		t.Fatalf("申请退款失败: %v", err)
	}
	reloaded := getOrder(t, paid.ID)
	if reloaded.Status != model.OrderStatusRefundPending || reloaded.RefundReason != "买错了" {
		t.Fatalf("退款申请未落库: %+v", reloaded)
	}

	for _, status := range []string{
		model.OrderStatusPending,
		model.OrderStatusCompleted,
		model.OrderStatusRefundPending,
		model.OrderStatusRefunded,
	} {
		order := createTestOrder(t, product.ID, 1, status)
		if err := Refund.Request(order.UserID, order.ID, ""); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("状态%s不允许申请退款，实际: %v", status, err)
		}
	}

	// 只能操作自己的订单
	other := createTestOrder(t, product.ID, 1, model.OrderStatusPaid)
	if err := Refund.Request(other.UserID+1, other.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("期望ErrNotFound，实际: %v", err)
	}
}

func TestApproveSettlesThenFinalizes(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)
	order := createTestOrder(t, product.ID, 1, model.OrderStatusRefundPending)

	spy := &spySettler{mode: RefundModeProxy}
	Refund.SetSettler(spy)

	if err := Refund.Approve(order.ID); err != nil {
		t.Fatalf("退款审批失败: %v", err)
	}
	if len(spy.settled) != 1 || spy.settled[0] != order.OrderNo {
		t.Fatalf("结算调用不符: %v", spy.settled)
	}

	reloaded := getOrder(t, order.ID)
	if reloaded.Status != model.OrderStatusRefunded {
		t.Fatalf("退款后状态应为refunded，实际%s", reloaded.Status)
	}

	// 终态不允许再审批
	if err := Refund.Approve(order.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("期望ErrInvalidState，实际: %v", err)
	}
}

// 网关结算失败时订单保持refund_pending，由操作员修复后重试
func TestApproveGatewayFailureLeavesPending(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)
	order := createTestOrder(t, product.ID, 1, model.OrderStatusRefundPending)

	spy := &spySettler{
		mode: RefundModeProxy,
		err:  &payment.GatewayError{Kind: payment.ErrKindChallenge, Message: "被人机验证拦截"},
	}
	Refund.SetSettler(spy)

	err := Refund.Approve(order.ID)
	var gatewayErr *payment.GatewayError
	if !errors.As(err, &gatewayErr) || gatewayErr.Kind != payment.ErrKindChallenge {
		t.Fatalf("期望challenge类网关错误，实际: %v", err)
	}

	reloaded := getOrder(t, order.ID)
	if reloaded.Status != model.OrderStatusRefundPending {
		t.Fatalf("结算失败后状态应保持refund_pending，实际%s", reloaded.Status)
	}

	// 修复后重试成功
	spy.err = nil
	if err := Refund.Approve(order.ID); err != nil {
		t.Fatalf("重试失败: %v", err)
	}
	if getOrder(t, order.ID).Status != model.OrderStatusRefunded {
		t.Fatalf("重试后应进入refunded")
	}
}

// 拒绝退款不触网关，订单回到paid，拒绝原因追加记录
func TestRejectRestoresPaidWithoutGateway(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)

	spy := &spySettler{mode: RefundModeProxy}
	Refund.SetSettler(spy)

	order := createTestOrder(t, product.ID, 1, model.OrderStatusPaid)
	if err := Refund.Request(order.UserID, order.ID, "不想要了"); err != nil {
		t.Fatalf("申请退款失败: %v", err)
	}

	if err := Refund.Reject(order.ID, "虚拟商品不支持无理由退款"); err != nil {
		t.Fatalf("拒绝退款失败: %v", err)
	}
	if len(spy.settled) != 0 {
		t.Fatalf("拒绝退款不应触发结算: %v", spy.settled)
	}

	reloaded := getOrder(t, order.ID)
	if reloaded.Status != model.OrderStatusPaid {
		t.Fatalf("拒绝后状态应回到paid，实际%s", reloaded.Status)
	}
	if !strings.Contains(reloaded.RefundReason, "不想要了") ||
		!strings.Contains(reloaded.RefundReason, "拒绝原因: 虚拟商品不支持无理由退款") {
		t.Fatalf("拒绝原因未追加: %s", reloaded.RefundReason)
	}

	// 被拒后可以再次申请
	if err := Refund.Request(order.UserID, order.ID, "再试一次"); err != nil {
		t.Fatalf("再次申请退款失败: %v", err)
	}
}

func TestClientDelegatedFlow(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)
	order := createTestOrder(t, product.ID, 1, model.OrderStatusRefundPending)
	if err := databaseUpdateTradeNo(order.ID, "T789"); err != nil {
		t.Fatalf("更新流水号失败: %v", err)
	}

	client := payment.NewClient("https://gw.example.com/refund", "https://gw.example.com/pay", "1001", "secret")
	Refund.SetSettler(&ClientDelegatedSettlement{Client: client})

	// 直连模式下服务端不代为结算
	if err := Refund.Approve(order.ID); !errors.Is(err, ErrClientSettlement) {
		t.Fatalf("期望ErrClientSettlement，实际: %v", err)
	}
	if getOrder(t, order.ID).Status != model.OrderStatusRefundPending {
		t.Fatalf("直连模式审批不应改变状态")
	}

	// 下发浏览器直连参数
	params, err := Refund.ClientRefundData(order.ID)
	if err != nil {
		t.Fatalf("获取直连参数失败: %v", err)
	}
	if params.TradeNo != "T789" || params.Money != "10.00" || params.PID != "1001" {
		t.Fatalf("直连参数不符: %+v", params)
	}

	// 浏览器上报成功后流转账本
	if err := Refund.MarkRefunded(order.ID); err != nil {
		t.Fatalf("登记退款失败: %v", err)
	}
	if getOrder(t, order.ID).Status != model.OrderStatusRefunded {
		t.Fatalf("登记后应进入refunded")
	}

	// 重复上报是状态错误
	if err := Refund.MarkRefunded(order.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("期望ErrInvalidState，实际: %v", err)
	}
}

func TestClientEndpointsRejectedInProxyMode(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)
	order := createTestOrder(t, product.ID, 1, model.OrderStatusRefundPending)

	Refund.SetSettler(&spySettler{mode: RefundModeProxy})

	if _, err := Refund.ClientRefundData(order.ID); err == nil {
		t.Fatalf("代理模式不应下发直连参数")
	}
	if err := Refund.MarkRefunded(order.ID); err == nil {
		t.Fatalf("代理模式不应接受直连上报")
	}
}

func TestRefundDisabled(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)
	order := createTestOrder(t, product.ID, 1, model.OrderStatusRefundPending)

	if Refund.Mode() != RefundModeDisabled {
		t.Fatalf("未配置结算策略时模式应为disabled")
	}
	if err := Refund.Approve(order.ID); !errors.Is(err, ErrRefundDisabled) {
		t.Fatalf("期望ErrRefundDisabled，实际: %v", err)
	}
	if err := Refund.MarkRefunded(order.ID); !errors.Is(err, ErrRefundDisabled) {
		t.Fatalf("期望ErrRefundDisabled，实际: %v", err)
	}
}

// 默认不回收卡密；打开配置后退款会把订单名下卡密释放回库存
func TestReleaseCardsOnRefund(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)
	importTestCards(t, product.ID, 2)

	run := func(release bool) {
		order := createTestOrder(t, product.ID, 1, model.OrderStatusPaid)
		if err := Order.Complete(order.ID); err != nil {
			t.Fatalf("完成订单失败: %v", err)
		}
		if err := databaseSetStatus(order.ID, model.OrderStatusRefundPending); err != nil {
			t.Fatalf("置退款状态失败: %v", err)
		}

		config.GlobalConfig.Payment.ReleaseCardsOnRefund = release
		Refund.SetSettler(&spySettler{mode: RefundModeProxy})
		if err := Refund.Approve(order.ID); err != nil {
			t.Fatalf("退款失败: %v", err)
		}
	}

	run(false)
	available, _ := Card.AvailableCount(product.ID)
	if available != 1 {
		t.Fatalf("默认不回收卡密，库存应为1，实际%d", available)
	}

	run(true)
	available, _ = Card.AvailableCount(product.ID)
	if available != 1 {
		t.Fatalf("回收后库存应为1，实际%d", available)
	}
}
