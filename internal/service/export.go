package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

// ExportOrders 导出选中订单为CSV，只读不改状态
func (s *OrderService) ExportOrders(w io.Writer, orderIDs []uint) error {
	if len(orderIDs) == 0 {
		return fmt.Errorf("未选择订单")
	}

	var orders []model.Order
	err := database.DB.Preload("Product").
		Where("id IN ?", orderIDs).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"订单号", "商品", "数量", "金额", "支付方式", "邮箱", "状态", "创建时间"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, order := range orders {
		row := []string{
			order.OrderNo,
			order.Product.Name,
			strconv.Itoa(order.Quantity),
			strconv.FormatFloat(order.TotalAmount, 'f', 2, 64),
			order.PaymentMethod,
			order.Email,
			order.Status,
			order.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

// ExportAvailableCards 导出某商品未售出的卡密（管理后台盘点用）
func (s *CardService) ExportAvailableCards(w io.Writer, productID uint) error {
	var cards []model.Card
	err := database.DB.Where("product_id = ? AND status = ?", productID, model.CardStatusAvailable).
		Order("id ASC").
		Find(&cards).Error
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"ID", "卡密", "入库时间"}); err != nil {
		return err
	}
	for _, card := range cards {
		row := []string{
			strconv.FormatUint(uint64(card.ID), 10),
			card.Secret,
			card.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}
