package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/service"
)

// ProductQuery 前台商品列表查询参数
type ProductQuery struct {
	Page       int    `form:"page,default=1"`
	Size       int    `form:"size,default=20"`
	CategoryID uint   `form:"category_id"`
	Featured   bool   `form:"featured"`
	Search     string `form:"search"`
}

// GetProducts 前台商品列表（仅上架商品，库存现算）
func GetProducts(c *gin.Context) {
	var query ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		Fail(c, http.StatusBadRequest, "参数错误")
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Size <= 0 {
		query.Size = 20
	}

	products, err := service.Product.ListActive(service.ListActiveOptions{
		CategoryID: query.CategoryID,
		Featured:   query.Featured,
		Search:     query.Search,
		Limit:      query.Size,
		Offset:     (query.Page - 1) * query.Size,
	})
	if err != nil {
		Fail(c, http.StatusInternalServerError, "获取商品列表失败")
		return
	}

	items := make([]gin.H, 0, len(products))
	for _, p := range products {
		items = append(items, productItem(&p))
	}

	Ok(c, "", items)
}

// GetProductBySlug 前台商品详情
func GetProductBySlug(c *gin.Context) {
	product, err := service.Product.GetBySlug(c.Param("slug"))
	if err != nil {
		FailWithError(c, err)
		return
	}

	data := productItem(product)
	data["description"] = product.Description
	Ok(c, "", data)
}

// productItem 商品的对外展示字段
func productItem(p *service.ProductWithStock) gin.H {
	return gin.H{
		"id":             p.ID,
		"slug":           p.Slug,
		"name":           p.Name,
		"price":          p.Price,
		"original_price": p.OriginalPrice,
		"cover_image":    p.CoverImage,
		"is_featured":    p.IsFeatured,
		"min_quantity":   p.MinQuantity,
		"max_quantity":   p.MaxQuantity,
		"stock":          p.Stock,
		"category": gin.H{
			"id":   p.Category.ID,
			"slug": p.Category.Slug,
			"name": p.Category.Name,
		},
	}
}
