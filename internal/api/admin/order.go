package admin

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/api"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
	"github.com/linqiu919/ldc-store/internal/service"
)

// OrderQuery 订单列表查询参数
type OrderQuery struct {
	Page      int    `form:"page,default=1"`
	Size      int    `form:"size,default=20"`
	Status    string `form:"status"`
	ProductID uint   `form:"product_id"`
	Search    string `form:"search"` // 订单号或邮箱
}

// GetOrders 后台订单列表
func GetOrders(c *gin.Context) {
	var query OrderQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Size <= 0 {
		query.Size = 20
	}

	db := database.DB.Model(&model.Order{})
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.ProductID > 0 {
		db = db.Where("product_id = ?", query.ProductID)
	}
	if query.Search != "" {
		like := "%" + query.Search + "%"
		db = db.Where("order_no LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取订单列表失败")
		return
	}

	var orders []model.Order
	err := db.Preload("Product").Preload("User").
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Size).
		Limit(query.Size).
		Find(&orders).Error
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取订单列表失败")
		return
	}

	items := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		items = append(items, orderItem(&order))
	}

	api.Ok(c, "", gin.H{
		"total": total,
		"items": items,
	})
}

// GetOrder 后台订单详情，附带订单名下卡密
func GetOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var order model.Order
	err := database.DB.Preload("Product").Preload("User").First(&order, id).Error
	if err != nil {
		api.Fail(c, http.StatusNotFound, "订单不存在")
		return
	}

	data := orderItem(&order)
	data["refund_reason"] = order.RefundReason
	data["trade_no"] = order.TradeNo

	cards, err := service.Order.GetOrderCards(order.ID)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取订单卡密失败")
		return
	}
	cardItems := make([]gin.H, 0, len(cards))
	for _, card := range cards {
		cardItems = append(cardItems, gin.H{
			"id":     card.ID,
			"secret": card.Secret,
		})
	}
	data["cards"] = cardItems

	api.Ok(c, "", data)
}

// CompleteOrder 手动完成订单（补卡后重新发卡用）
func CompleteOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := service.Order.Complete(uint(id)); err != nil {
		api.FailWithError(c, err)
		return
	}
	api.Ok(c, "订单已完成", nil)
}

// ApproveRefund 通过退款申请（服务端代理模式下直接调网关结算）
func ApproveRefund(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := service.Refund.Approve(uint(id)); err != nil {
		api.FailWithError(c, err)
		return
	}
	api.Ok(c, "退款成功", nil)
}

// RejectRefundRequest 拒绝退款请求
type RejectRefundRequest struct {
	Reason string `json:"reason"`
}

// RejectRefund 拒绝退款申请，订单回到已支付
func RejectRefund(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req RejectRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		api.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}

	if err := service.Refund.Reject(uint(id), req.Reason); err != nil {
		api.FailWithError(c, err)
		return
	}
	api.Ok(c, "已拒绝退款申请", nil)
}

// GetClientRefundData 下发浏览器直连退款的网关调用参数
func GetClientRefundData(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	params, err := service.Refund.ClientRefundData(uint(id))
	if err != nil {
		api.FailWithError(c, err)
		return
	}
	api.Ok(c, "", params)
}

// MarkRefunded 浏览器直连模式：管理员上报网关退款成功，服务端流转账本
func MarkRefunded(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := service.Refund.MarkRefunded(uint(id)); err != nil {
		api.FailWithError(c, err)
		return
	}
	api.Ok(c, "退款已登记", nil)
}

// OrderIDsRequest 批量操作的订单ID列表
type OrderIDsRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// BulkDeleteOrders 批量删除订单，有未完结订单时整批拒绝
func BulkDeleteOrders(c *gin.Context) {
	var req OrderIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}

	deleted, err := service.Order.BulkDelete(req.IDs)
	if err != nil {
		api.FailWithError(c, err)
		return
	}
	api.Ok(c, fmt.Sprintf("已删除%d个订单", deleted), gin.H{"deleted": deleted})
}

// ExportOrders 导出选中订单为CSV
func ExportOrders(c *gin.Context) {
	var req OrderIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}

	filename := fmt.Sprintf("orders_%s.csv", time.Now().Format("20060102150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := service.Order.ExportOrders(c.Writer, req.IDs); err != nil {
		api.Fail(c, http.StatusInternalServerError, "导出失败")
		return
	}
}

// orderItem 订单的后台展示字段
func orderItem(order *model.Order) gin.H {
	return gin.H{
		"id":             order.ID,
		"order_no":       order.OrderNo,
		"username":       order.User.Username,
		"product_name":   order.Product.Name,
		"quantity":       order.Quantity,
		"total_amount":   order.TotalAmount,
		"payment_method": order.PaymentMethod,
		"email":          order.Email,
		"status":         order.Status,
		"pay_time":       order.PayTime,
		"completed_at":   order.CompletedAt,
		"created_at":     order.CreatedAt,
	}
}
