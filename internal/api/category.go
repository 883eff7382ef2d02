package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

// GetCategories 获取分类列表
func GetCategories(c *gin.Context) {
	var categories []model.Category
	if err := database.DB.Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		Fail(c, http.StatusInternalServerError, "获取分类列表失败")
		return
	}

	items := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		items = append(items, gin.H{
			"id":          category.ID,
			"slug":        category.Slug,
			"name":        category.Name,
			"description": category.Description,
		})
	}

	Ok(c, "", items)
}
