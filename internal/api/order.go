package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/config"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
	"github.com/linqiu919/ldc-store/internal/pkg/payment"
	"github.com/linqiu919/ldc-store/internal/service"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Email     string `json:"email" binding:"required,email"`
}

// CreateOrder 下单，返回订单信息和收银台跳转链接
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	userId := c.GetUint("userId")
	order, err := service.Order.Create(userId, service.CreateOrderInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Email:     req.Email,
	})
	if err != nil {
		FailWithError(c, err)
		return
	}

	// 构造收银台跳转链接
	cfg := config.GlobalConfig
	client := payment.NewClient(cfg.Payment.APIURL, cfg.Payment.PayURL, cfg.Payment.PID, cfg.Payment.Key)

	var product model.Product
	database.DB.First(&product, order.ProductID)

	payURL := client.BuildPayURL(
		order.OrderNo,
		product.Name,
		payment.FormatMoney(order.TotalAmount),
		cfg.Server.SiteURL+"/api/v1/payments/notify",
		cfg.Server.SiteURL+"/orders/"+order.OrderNo,
	)

	Ok(c, "下单成功", gin.H{
		"order_no":     order.OrderNo,
		"total_amount": order.TotalAmount,
		"status":       order.Status,
		"pay_url":      payURL,
	})
}

// GetMyOrders 当前用户的订单列表
func GetMyOrders(c *gin.Context) {
	userId := c.GetUint("userId")

	var orders []model.Order
	err := database.DB.Preload("Product").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		Fail(c, http.StatusInternalServerError, "获取订单列表失败")
		return
	}

	items := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		items = append(items, gin.H{
			"id":             order.ID,
			"order_no":       order.OrderNo,
			"product_name":   order.Product.Name,
			"quantity":       order.Quantity,
			"total_amount":   order.TotalAmount,
			"payment_method": order.PaymentMethod,
			"status":         order.Status,
			"created_at":     order.CreatedAt,
		})
	}

	Ok(c, "", items)
}

// GetOrderDetail 订单详情，已完成订单附带卡密内容
func GetOrderDetail(c *gin.Context) {
	userId := c.GetUint("userId")
	orderNo := c.Param("order_no")

	var order model.Order
	err := database.DB.Preload("Product").
		Where("order_no = ? AND user_id = ?", orderNo, userId).
		First(&order).Error
	if err != nil {
		Fail(c, http.StatusNotFound, "订单不存在")
		return
	}

	data := gin.H{
		"id":             order.ID,
		"order_no":       order.OrderNo,
		"product_name":   order.Product.Name,
		"quantity":       order.Quantity,
		"total_amount":   order.TotalAmount,
		"payment_method": order.PaymentMethod,
		"email":          order.Email,
		"status":         order.Status,
		"refund_reason":  order.RefundReason,
		"pay_time":       order.PayTime,
		"completed_at":   order.CompletedAt,
		"created_at":     order.CreatedAt,
	}

	// 只有已完成订单才展示卡密
	if order.Status == model.OrderStatusCompleted {
		cards, err := service.Order.GetOrderCards(order.ID)
		if err != nil {
			Fail(c, http.StatusInternalServerError, "获取卡密失败")
			return
		}
		secrets := make([]string, 0, len(cards))
		for _, card := range cards {
			secrets = append(secrets, card.Secret)
		}
		data["cards"] = secrets
	}

	Ok(c, "", data)
}

// RequestRefundRequest 申请退款请求
type RequestRefundRequest struct {
	Reason string `json:"reason"` // 原因可以为空
}

// RequestRefund 用户申请退款
func RequestRefund(c *gin.Context) {
	userId := c.GetUint("userId")
	orderNo := c.Param("order_no")

	var req RequestRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		Fail(c, http.StatusBadRequest, "参数错误")
		return
	}

	var order model.Order
	err := database.DB.Where("order_no = ? AND user_id = ?", orderNo, userId).First(&order).Error
	if err != nil {
		Fail(c, http.StatusNotFound, "订单不存在")
		return
	}

	if err := service.Refund.Request(userId, order.ID, req.Reason); err != nil {
		FailWithError(c, err)
		return
	}

	Ok(c, "退款申请已提交，请等待审核", nil)
}
