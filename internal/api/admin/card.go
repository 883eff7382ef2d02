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

// CardQuery 卡密列表查询参数
type CardQuery struct {
	Page      int    `form:"page,default=1"`
	Size      int    `form:"size,default=20"`
	ProductID uint   `form:"product_id"`
	Status    string `form:"status"`
	Search    string `form:"search"`
}

// GetCards 卡密列表
func GetCards(c *gin.Context) {
	var query CardQuery
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

	db := database.DB.Model(&model.Card{})
	if query.ProductID > 0 {
		db = db.Where("product_id = ?", query.ProductID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		db = db.Where("secret LIKE ?", "%"+query.Search+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取卡密列表失败")
		return
	}

	var cards []model.Card
	err := db.Order("id DESC").
		Offset((query.Page - 1) * query.Size).
		Limit(query.Size).
		Find(&cards).Error
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取卡密列表失败")
		return
	}

	items := make([]gin.H, 0, len(cards))
	for _, card := range cards {
		items = append(items, gin.H{
			"id":         card.ID,
			"product_id": card.ProductID,
			"secret":     card.Secret,
			"status":     card.Status,
			"order_id":   card.OrderID,
			"sold_at":    card.SoldAt,
			"created_at": card.CreatedAt,
		})
	}

	api.Ok(c, "", gin.H{
		"total": total,
		"items": items,
	})
}

// ImportCardsRequest 批量导入请求，一行一条卡密
type ImportCardsRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Secrets   string `json:"secrets" binding:"required"`
}

// ImportCards 批量导入卡密
func ImportCards(c *gin.Context) {
	var req ImportCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}

	count, err := service.Card.Import(req.ProductID, req.Secrets)
	if err != nil {
		api.FailWithError(c, err)
		return
	}

	api.Ok(c, fmt.Sprintf("成功导入%d条卡密", count), gin.H{"count": count})
}

// SetCardLockedRequest 锁定/解锁请求
type SetCardLockedRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// SetCardLocked 锁定或解锁卡密
func SetCardLocked(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req SetCardLockedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}

	if err := service.Card.SetLocked(uint(id), *req.Locked); err != nil {
		api.FailWithError(c, err)
		return
	}

	message := "已解锁"
	if *req.Locked {
		message = "已锁定"
	}
	api.Ok(c, message, nil)
}

// DeleteCard 删除卡密，已售出或分配过的不允许删除
func DeleteCard(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := service.Card.Delete(uint(id)); err != nil {
		api.FailWithError(c, err)
		return
	}
	api.Ok(c, "删除成功", nil)
}

// ExportCards 导出某商品的可售卡密CSV
func ExportCards(c *gin.Context) {
	productID, _ := strconv.Atoi(c.Query("product_id"))
	if productID <= 0 {
		api.Fail(c, http.StatusBadRequest, "缺少product_id")
		return
	}

	filename := fmt.Sprintf("cards_%d_%s.csv", productID, time.Now().Format("20060102150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	if err := service.Card.ExportAvailableCards(c.Writer, uint(productID)); err != nil {
		api.Fail(c, http.StatusInternalServerError, "导出失败")
		return
	}
}
