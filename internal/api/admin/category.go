package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/api"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

// CategoryRequest 分类创建/更新请求
type CategoryRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// GetCategories 后台分类列表，附带每个分类下的商品数
func GetCategories(c *gin.Context) {
	var categories []model.Category
	if err := database.DB.Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		api.Fail(c, http.StatusInternalServerError, "获取分类列表失败")
		return
	}

	items := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		var productCount int64
		database.DB.Model(&model.Product{}).
			Where("category_id = ?", category.ID).
			Count(&productCount)

		items = append(items, gin.H{
			"id":            category.ID,
			"slug":          category.Slug,
			"name":          category.Name,
			"description":   category.Description,
			"sort_order":    category.SortOrder,
			"product_count": productCount,
			"created_at":    category.CreatedAt,
		})
	}

	api.Ok(c, "", items)
}

// CreateCategory 创建分类
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}

	category := model.Category{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		api.Fail(c, http.StatusBadRequest, "创建分类失败，slug可能已存在")
		return
	}

	api.Ok(c, "创建成功", gin.H{"id": category.ID})
}

// UpdateCategory 更新分类
func UpdateCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var category model.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		api.Fail(c, http.StatusNotFound, "分类不存在")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, "参数错误")
		return
	}

	err := database.DB.Model(&category).Updates(map[string]interface{}{
		"slug":        req.Slug,
		"name":        req.Name,
		"description": req.Description,
		"sort_order":  req.SortOrder,
	}).Error
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "更新分类失败")
		return
	}

	api.Ok(c, "更新成功", nil)
}

// DeleteCategory 删除分类，分类下还有商品时拒绝
func DeleteCategory(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var category model.Category
	if err := database.DB.First(&category, id).Error; err != nil {
		api.Fail(c, http.StatusNotFound, "分类不存在")
		return
	}

	var productCount int64
	database.DB.Model(&model.Product{}).Where("category_id = ?", category.ID).Count(&productCount)
	if productCount > 0 {
		api.Fail(c, http.StatusConflict, "分类下还有商品，不能删除")
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		api.Fail(c, http.StatusInternalServerError, "删除分类失败")
		return
	}
	api.Ok(c, "删除成功", nil)
}
