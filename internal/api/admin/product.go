package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/api"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
	"github.com/linqiu919/ldc-store/internal/service"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID    uint     `json:"category_id" binding:"required"`
	Slug          string   `json:"slug" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice *float64 `json:"original_price"`
	CoverImage    string   `json:"cover_image"`
	IsActive      *bool    `json:"is_active"`
	IsFeatured    bool     `json:"is_featured"`
	SortOrder     int      `json:"sort_order"`
	MinQuantity   int      `json:"min_quantity"`
	MaxQuantity   int      `json:"max_quantity"`
}

// GetProducts 后台商品列表，含下架商品和各状态卡密统计
func GetProducts(c *gin.Context) {
	var products []model.Product
	err := database.DB.Preload("Category").
		Order("sort_order ASC, id DESC").
		Find(&products).Error
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取商品列表失败")
		return
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	stats, err := service.Card.Stats(ids)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取库存统计失败")
		return
	}

	items := make([]gin.H, 0, len(products))
	for _, p := range products {
		stock := stats[p.ID]
		if stock == nil {
			stock = &service.StockStats{}
		}
		items = append(items, gin.H{
			"id":             p.ID,
			"slug":           p.Slug,
			"name":           p.Name,
			"category_name":  p.Category.Name,
			"price":          p.Price,
			"original_price": p.OriginalPrice,
			"is_active":      p.IsActive,
			"is_featured":    p.IsFeatured,
			"sort_order":     p.SortOrder,
			"min_quantity":   p.MinQuantity,
			"max_quantity":   p.MaxQuantity,
			"stock":          stock,
			"created_at":     p.CreatedAt,
		})
	}

	api.Ok(c, "", items)
}

// CreateProduct 创建商品
func CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	var category model.Category
	if err := database.DB.First(&category, req.CategoryID).Error; err != nil {
		api.Fail(c, http.StatusBadRequest, "分类不存在")
		return
	}

	minQty := req.MinQuantity
	if minQty <= 0 {
		minQty = 1
	}

	product := model.Product{
		CategoryID:    req.CategoryID,
		Slug:          req.Slug,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CoverImage:    req.CoverImage,
		IsActive:      req.IsActive == nil || *req.IsActive,
		IsFeatured:    req.IsFeatured,
		SortOrder:     req.SortOrder,
		MinQuantity:   minQty,
		MaxQuantity:   req.MaxQuantity,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		api.Fail(c, http.StatusBadRequest, "创建商品失败，slug可能已存在")
		return
	}

	api.Ok(c, "创建成功", gin.H{"id": product.ID})
}

// UpdateProduct 更新商品
func UpdateProduct(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var product model.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		api.Fail(c, http.StatusNotFound, "商品不存在")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误: "+err.Error())
		return
	}

	updates := map[string]interface{}{
		"category_id":    req.CategoryID,
		"slug":           req.Slug,
		"name":           req.Name,
		"description":    req.Description,
		"price":          req.Price,
		"original_price": req.OriginalPrice,
		"cover_image":    req.CoverImage,
		"is_featured":    req.IsFeatured,
		"sort_order":     req.SortOrder,
		"min_quantity":   req.MinQuantity,
		"max_quantity":   req.MaxQuantity,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := database.DB.Model(&product).Updates(updates).Error; err != nil {
		api.Fail(c, http.StatusBadRequest, "更新商品失败")
		return
	}

	api.Ok(c, "更新成功", nil)
}

// ToggleProductActive 上架/下架切换
func ToggleProductActive(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	active, err := service.Product.ToggleActive(uint(id))
	if err != nil {
		api.FailWithError(c, err)
		return
	}

	message := "已下架"
	if active {
		message = "已上架"
	}
	api.Ok(c, message, gin.H{"is_active": active})
}

// DeleteProduct 删除商品，有未完结订单时拒绝
func DeleteProduct(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	if err := service.Product.Delete(uint(id)); err != nil {
		api.FailWithError(c, err)
		return
	}
	api.Ok(c, "删除成功", nil)
}
