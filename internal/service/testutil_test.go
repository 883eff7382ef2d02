package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/linqiu919/ldc-store/internal/config"
	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

// setupTestDB 建一个内存数据库并替换全局连接
// 限制单连接，避免内存库在连接池下各连各的库
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	database.DB = db
	config.GlobalConfig = &config.Config{}
	Refund.SetSettler(nil)
}

// createTestProduct 建一个分类和上架商品
func createTestProduct(t *testing.T, price float64) *model.Product {
	t.Helper()

	category := model.Category{Slug: "games", Name: "游戏"}
	if err := database.DB.Create(&category).Error; err != nil {
		t.Fatalf("创建分类失败: %v", err)
	}

	product := model.Product{
		CategoryID:  category.ID,
		Slug:        fmt.Sprintf("product-%d", category.ID),
		Name:        "测试商品",
		Price:       price,
		IsActive:    true,
		MinQuantity: 1,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		t.Fatalf("创建商品失败: %v", err)
	}
	return &product
}

// importTestCards 给商品导入n条卡密
func importTestCards(t *testing.T, productID uint, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		card := model.Card{
			ProductID: productID,
			Secret:    fmt.Sprintf("CARD-%d-%d", productID, i),
			Status:    model.CardStatusAvailable,
		}
		if err := database.DB.Create(&card).Error; err != nil {
			t.Fatalf("创建卡密失败: %v", err)
		}
	}
}

// createTestOrder 直接落一条指定状态的订单
func createTestOrder(t *testing.T, productID uint, quantity int, status string) *model.Order {
	t.Helper()

	order := model.Order{
		OrderNo:     generateOrderNo(),
		UserID:      1,
		ProductID:   productID,
		Quantity:    quantity,
		TotalAmount: float64(quantity) * 10,
		Email:       "buyer@example.com",
		Status:      status,
	}
	if err := database.DB.Create(&order).Error; err != nil {
		t.Fatalf("创建订单失败: %v", err)
	}
	return &order
}

// databaseSetStatus 直接把订单置为指定状态（构造测试前置状态用）
func databaseSetStatus(orderID uint, status string) error {
	return database.DB.Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

// databaseUpdateTradeNo 直接写入网关流水号
func databaseUpdateTradeNo(orderID uint, tradeNo string) error {
	return database.DB.Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("trade_no", tradeNo).Error
}

// getOrder 重新加载订单
func getOrder(t *testing.T, orderID uint) *model.Order {
	t.Helper()

	var order model.Order
	if err := database.DB.First(&order, orderID).Error; err != nil {
		t.Fatalf("加载订单失败: %v", err)
	}
	return &order
}
