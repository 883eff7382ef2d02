package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

var Product = new(ProductService)

type ProductService struct{}

// ProductWithStock 商品及其现算库存
type ProductWithStock struct {
	model.Product
	Stock int64 `json:"stock"`
}

// ListActiveOptions 前台商品列表筛选参数
type ListActiveOptions struct {
	CategoryID uint
	Featured   bool
	Search     string
	Limit      int
	Offset     int
}

// ListActive 前台商品列表：只含上架商品，库存为可售卡密现算数量
func (s *ProductService) ListActive(opts ListActiveOptions) ([]ProductWithStock, error) {
	db := database.DB.Model(&model.Product{}).
		Preload("Category").
		Where("is_active = ?", true)

	if opts.CategoryID > 0 {
		db = db.Where("category_id = ?", opts.CategoryID)
	}
	if opts.Featured {
		db = db.Where("is_featured = ?", true)
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		db = db.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}

	var products []model.Product
	err := db.Order("is_featured DESC, sort_order ASC, created_at DESC").
		Offset(opts.Offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return s.attachStock(products)
}

// GetBySlug 前台商品详情（仅上架商品）
func (s *ProductService) GetBySlug(slug string) (*ProductWithStock, error) {
	var product model.Product
	err := database.DB.Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	stock, err := Card.AvailableCount(product.ID)
	if err != nil {
		return nil, err
	}
	return &ProductWithStock{Product: product, Stock: stock}, nil
}

// attachStock 为一批商品挂上现算库存
func (s *ProductService) attachStock(products []model.Product) ([]ProductWithStock, error) {
	result := make([]ProductWithStock, 0, len(products))
	if len(products) == 0 {
		return result, nil
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	counts, err := Card.AvailableCounts(ids)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		result = append(result, ProductWithStock{Product: p, Stock: counts[p.ID]})
	}
	return result, nil
}

// Delete 删除商品，有未完结订单引用时拒绝
func (s *ProductService) Delete(productID uint) error {
	var product model.Product
	if err := database.DB.First(&product, productID).Error; err != nil {
		return ErrNotFound
	}

	var activeOrders int64
	err := database.DB.Model(&model.Order{}).
		Where("product_id = ? AND status NOT IN ?", productID,
			[]string{model.OrderStatusCompleted, model.OrderStatusRefunded}).
		Count(&activeOrders).Error
	if err != nil {
		return err
	}
	if activeOrders > 0 {
		return ErrInvalidState
	}

	return database.DB.Delete(&product).Error
}

// ToggleActive 上架/下架切换，被订单引用的商品用下架代替删除
func (s *ProductService) ToggleActive(productID uint) (bool, error) {
	var product model.Product
	if err := database.DB.First(&product, productID).Error; err != nil {
		return false, ErrNotFound
	}

	newState := !product.IsActive
	if err := database.DB.Model(&product).Update("is_active", newState).Error; err != nil {
		return false, err
	}
	return newState, nil
}
