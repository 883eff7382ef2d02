package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/config"
	"github.com/linqiu919/ldc-store/internal/pkg/logger"
	"github.com/linqiu919/ldc-store/internal/pkg/payment"
	"github.com/linqiu919/ldc-store/internal/service"
)

// PaymentNotify 支付网关异步回调
// 验签通过后标记已支付并尝试自动发卡；发卡库存不足时订单停在paid，
// 等管理员补卡后手动完成。网关约定返回纯文本 success/fail
func PaymentNotify(c *gin.Context) {
	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	cfg := config.GlobalConfig.Payment
	if !payment.VerifySign(params, cfg.Key) {
		logger.Warnf("支付回调验签失败: out_trade_no=%s", params["out_trade_no"])
		c.String(http.StatusBadRequest, "fail")
		return
	}

	if params["trade_status"] != "TRADE_SUCCESS" {
		c.String(http.StatusOK, "success")
		return
	}

	orderNo := params["out_trade_no"]
	order, err := service.Order.MarkPaid(orderNo, "ldc", params["trade_no"])
	if err != nil {
		// 回调重放：订单已经不在待支付状态，直接应答成功避免网关反复通知
		if errors.Is(err, service.ErrInvalidState) {
			c.String(http.StatusOK, "success")
			return
		}
		logger.Errorf("支付回调处理失败: order_no=%s err=%v", orderNo, err)
		c.String(http.StatusBadRequest, "fail")
		return
	}

	// 自动发卡
	if err := service.Order.Complete(order.ID); err != nil {
		logger.Warnf("订单 %s 自动发卡失败: %v", order.OrderNo, err)
	}

	c.String(http.StatusOK, "success")
}
