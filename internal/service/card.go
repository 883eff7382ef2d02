package service

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

var Card = new(CardService)

type CardService struct{}

// StockStats 单个商品的卡密状态统计
type StockStats struct {
	Available int64 `json:"available"`
	Locked    int64 `json:"locked"`
	Sold      int64 `json:"sold"`
}

// AvailableCount 商品当前可售卡密数量
// 库存始终现算，不维护计数器
func (s *CardService) AvailableCount(productID uint) (int64, error) {
	var count int64
	err := database.DB.Model(&model.Card{}).
		Where("product_id = ? AND status = ?", productID, model.CardStatusAvailable).
		Count(&count).Error
	return count, err
}

// AvailableCounts 批量查询多个商品的可售数量
func (s *CardService) AvailableCounts(productIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64)
	if len(productIDs) == 0 {
		return result, nil
	}

	type row struct {
		ProductID uint
		Count     int64
	}
	var rows []row
	err := database.DB.Model(&model.Card{}).
		Select("product_id, count(*) as count").
		Where("product_id IN ? AND status = ?", productIDs, model.CardStatusAvailable).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		result[r.ProductID] = r.Count
	}
	return result, nil
}

// Stats 批量查询商品各状态的卡密数量（管理后台用）
func (s *CardService) Stats(productIDs []uint) (map[uint]*StockStats, error) {
	result := make(map[uint]*StockStats)
	if len(productIDs) == 0 {
		return result, nil
	}

	type row struct {
		ProductID uint
		Status    string
		Count     int64
	}
	var rows []row
	err := database.DB.Model(&model.Card{}).
		Select("product_id, status, count(*) as count").
		Where("product_id IN ?", productIDs).
		Group("product_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		stats, ok := result[r.ProductID]
		if !ok {
			stats = &StockStats{}
			result[r.ProductID] = stats
		}
		switch r.Status {
		case model.CardStatusAvailable:
			stats.Available = r.Count
		case model.CardStatusLocked:
			stats.Locked = r.Count
		case model.CardStatusSold:
			stats.Sold = r.Count
		}
	}
	return result, nil
}

// Allocate 为订单分配卡密：取最早入库的quantity张可售卡密标记为已售
// 必须在事务内调用。分配是全有或全无的：可售数量不足时返回ErrInsufficientStock，
// 条件更新影响行数不等于quantity时（并发下卡密被其他订单抢走）同样报错回滚，
// 不会出现部分分配
func (s *CardService) Allocate(tx *gorm.DB, productID, orderID uint, quantity int) ([]model.Card, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("分配数量无效: %d", quantity)
	}

	// 取最早入库的卡密，保证选取顺序确定
	var cards []model.Card
	err := tx.Where("product_id = ? AND status = ?", productID, model.CardStatusAvailable).
		Order("id ASC").
		Limit(quantity).
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	if len(cards) < quantity {
		return nil, ErrInsufficientStock
	}

	ids := make([]uint, 0, len(cards))
	for _, card := range cards {
		ids = append(ids, card.ID)
	}

	now := time.Now()
	// 条件更新：只改仍然可售的行。并发下其他订单先标记了同一批卡密时，
	// 影响行数会小于quantity，此处报错让外层事务整体回滚
	result := tx.Model(&model.Card{}).
		Where("id IN ? AND status = ?", ids, model.CardStatusAvailable).
		Updates(map[string]interface{}{
			"status":   model.CardStatusSold,
			"order_id": orderID,
			"sold_at":  &now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected != int64(quantity) {
		return nil, ErrInsufficientStock
	}

	return cards, nil
}

// Release 将已售卡密释放回库存
// 幂等：已经可售的卡密不受影响，不报错
func (s *CardService) Release(cardIDs []uint) error {
	if len(cardIDs) == 0 {
		return nil
	}
	return database.DB.Model(&model.Card{}).
		Where("id IN ? AND status = ?", cardIDs, model.CardStatusSold).
		Updates(map[string]interface{}{
			"status":   model.CardStatusAvailable,
			"order_id": nil,
			"sold_at":  nil,
		}).Error
}

// ReleaseByOrder 释放某个订单名下的全部已售卡密（退款回收库存时使用）
func (s *CardService) ReleaseByOrder(tx *gorm.DB, orderID uint) error {
	return tx.Model(&model.Card{}).
		Where("order_id = ? AND status = ?", orderID, model.CardStatusSold).
		Updates(map[string]interface{}{
			"status":   model.CardStatusAvailable,
			"order_id": nil,
			"sold_at":  nil,
		}).Error
}

// Import 批量导入卡密，一行一条
// 空行跳过，同一批次内重复的卡密只保留一条，返回实际入库数量
func (s *CardService) Import(productID uint, secrets string) (int, error) {
	// 检查商品是否存在
	var product model.Product
	if err := database.DB.First(&product, productID).Error; err != nil {
		return 0, ErrNotFound
	}

	seen := make(map[string]bool)
	var cards []model.Card
	for _, line := range strings.Split(secrets, "\n") {
		secret := strings.TrimSpace(line)
		if secret == "" || seen[secret] {
			continue
		}
		seen[secret] = true
		cards = append(cards, model.Card{
			ProductID: productID,
			Secret:    secret,
			Status:    model.CardStatusAvailable,
		})
	}

	if len(cards) == 0 {
		return 0, fmt.Errorf("没有可导入的卡密")
	}

	if err := database.DB.Create(&cards).Error; err != nil {
		return 0, err
	}
	return len(cards), nil
}

// SetLocked 锁定/解锁卡密（下架可疑卡密用），只在 available/locked 之间流转
func (s *CardService) SetLocked(cardID uint, locked bool) error {
	from, to := model.CardStatusAvailable, model.CardStatusLocked
	if !locked {
		from, to = model.CardStatusLocked, model.CardStatusAvailable
	}

	result := database.DB.Model(&model.Card{}).
		Where("id = ? AND status = ?", cardID, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 区分不存在和状态不允许
		var card model.Card
		if err := database.DB.First(&card, cardID).Error; err != nil {
			return ErrNotFound
		}
		return ErrInvalidState
	}
	return nil
}

// Delete 删除卡密，只允许删除从未分配过的卡密
func (s *CardService) Delete(cardID uint) error {
	var card model.Card
	if err := database.DB.First(&card, cardID).Error; err != nil {
		return ErrNotFound
	}

	if card.OrderID != nil || card.Status == model.CardStatusSold {
		return ErrInvalidState
	}

	return database.DB.Delete(&card).Error
}
