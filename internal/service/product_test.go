package service

import (
	"errors"
	"testing"

	"github.com/linqiu919/ldc-store/internal/model"
	"github.com/linqiu919/ldc-store/internal/pkg/database"
)

func TestListActiveAttachesStock(t *testing.T) {
	setupTestDB(t)

	category := model.Category{Slug: "games", Name: "游戏"}
	database.DB.Create(&category)

	active := model.Product{CategoryID: category.ID, Slug: "a", Name: "A", Price: 1, IsActive: true}
	inactive := model.Product{CategoryID: category.ID, Slug: "b", Name: "B", Price: 1, IsActive: false}
	featured := model.Product{CategoryID: category.ID, Slug: "c", Name: "C", Price: 1, IsActive: true, IsFeatured: true}
	database.DB.Create(&active)
	database.DB.Create(&inactive)
	database.DB.Create(&featured)

	importTestCards(t, active.ID, 2)

	products, err := Product.ListActive(ListActiveOptions{})
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("只应返回上架商品，实际%d个", len(products))
	}
	// 推荐商品排前面
	if products[0].Slug != "c" {
		t.Fatalf("推荐商品应排在最前: %s", products[0].Slug)
	}

	for _, p := range products {
		switch p.Slug {
		case "a":
			if p.Stock != 2 {
				t.Fatalf("商品a库存应为2，实际%d", p.Stock)
			}
		case "c":
			// 没有卡密的商品库存为0而不是缺字段
			if p.Stock != 0 {
				t.Fatalf("商品c库存应为0，实际%d", p.Stock)
			}
		}
	}
}

func TestGetBySlugOnlyActive(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)
	importTestCards(t, product.ID, 1)

	got, err := Product.GetBySlug(product.Slug)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if got.Stock != 1 {
		t.Fatalf("库存应为1，实际%d", got.Stock)
	}

	database.DB.Model(product).Update("is_active", false)
	if _, err := Product.GetBySlug(product.Slug); !errors.Is(err, ErrNotFound) {
		t.Fatalf("下架商品应报ErrNotFound，实际: %v", err)
	}
}

func TestDeleteProductBlockedByActiveOrders(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)

	createTestOrder(t, product.ID, 1, model.OrderStatusPaid)
	if err := Product.Delete(product.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("有未完结订单时删除应被拒绝，实际: %v", err)
	}

	// 订单完结后允许删除
	database.DB.Model(&model.Order{}).
		Where("product_id = ?", product.ID).
		Update("status", model.OrderStatusCompleted)
	if err := Product.Delete(product.ID); err != nil {
		t.Fatalf("删除失败: %v", err)
	}

	if err := Product.Delete(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("期望ErrNotFound，实际: %v", err)
	}
}

func TestToggleActive(t *testing.T) {
	setupTestDB(t)
	product := createTestProduct(t, 10)

	active, err := Product.ToggleActive(product.ID)
	if err != nil || active {
		t.Fatalf("第一次切换应变为下架: active=%v err=%v", active, err)
	}
	active, err = Product.ToggleActive(product.ID)
	if err != nil || !active {
		t.Fatalf("第二次切换应变为上架: active=%v err=%v", active, err)
	}
}
