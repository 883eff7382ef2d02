package service

import (
	"time"

	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

var Statistics = new(StatisticsService)

type StatisticsService struct{}

// SystemInfo 后台首页概览统计
type SystemInfo struct {
	TotalUsers         int64            `json:"total_users"`          // 总用户数
	TotalProducts      int64            `json:"total_products"`       // 总商品数
	TotalCards         int64            `json:"total_cards"`          // 卡密总数
	AvailableCards     int64            `json:"available_cards"`      // 可售卡密数
	OrdersCount        map[string]int64 `json:"orders_count"`         // 各状态订单数
	TotalIncome        float64          `json:"total_income"`         // 总收入（已完成订单）
	CurrentMonthIncome float64          `json:"current_month_income"` // 当月收入
}

// GetSystemInfo 获取系统概览统计数据
func (s *StatisticsService) GetSystemInfo() (*SystemInfo, error) {
	info := &SystemInfo{
		OrdersCount: make(map[string]int64),
	}

	if err := database.DB.Model(&model.User{}).Count(&info.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&model.Product{}).Count(&info.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&model.Card{}).Count(&info.TotalCards).Error; err != nil {
		return nil, err
	}
	if err := database.DB.Model(&model.Card{}).
		Where("status = ?", model.CardStatusAvailable).
		Count(&info.AvailableCards).Error; err != nil {
		return nil, err
	}

	// 各状态订单数
	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := database.DB.Model(&model.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		info.OrdersCount[c.Status] = c.Count
	}

	// 收入统计：只算已完成订单
	if err := database.DB.Model(&model.Order{}).
		Where("status = ?", model.OrderStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&info.TotalIncome).Error; err != nil {
		return nil, err
	}

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.Local)
	if err := database.DB.Model(&model.Order{}).
		Where("status = ? AND created_at >= ?", model.OrderStatusCompleted, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&info.CurrentMonthIncome).Error; err != nil {
		return nil, err
	}

	return info, nil
}
