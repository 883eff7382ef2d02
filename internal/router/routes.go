package router

import (
	"github.com/gin-gonic/gin"

	"github.com/linqiu919/ldc-store/internal/api"
	"github.com/linqiu919/ldc-store/internal/api/admin"
	"github.com/linqiu919/ldc-store/internal/middleware"
)

// SetupRoutes 配置所有路由
func SetupRoutes(r *gin.Engine) {
	// 健康检查接口（不需要任何中间件）
	r.GET("/api/v1/health", api.SimpleHealthCheck)

	apiGroup := r.Group("/api/v1")
	apiGroup.Use(middleware.Cors())

	// 认证相关（不需要登录）
	auth := apiGroup.Group("/auth")
	{
		auth.GET("/oauth/url", api.GetOAuthURL)           // 获取OAuth授权URL
		auth.GET("/oauth/callback", api.OAuthCallback)    // OAuth授权回调
		auth.POST("/admin/login", admin.Login)            // 管理员密码登录兜底
	}

	// 前台商品浏览（不需要登录）
	apiGroup.GET("/categories", api.GetCategories)
	apiGroup.GET("/products", api.GetProducts)
	apiGroup.GET("/products/:slug", api.GetProductBySlug)

	// 支付网关异步回调（不需要认证，靠验签）
	apiGroup.GET("/payments/notify", api.PaymentNotify)

	// 需要登录的路由
	authorized := apiGroup.Group("/")
	authorized.Use(middleware.JWT())
	{
		authorized.GET("/user/profile", api.GetProfile)

		orders := authorized.Group("/orders")
		{
			orders.POST("", api.CreateOrder)
			orders.GET("", api.GetMyOrders)
			orders.GET("/:order_no", api.GetOrderDetail)
			orders.POST("/:order_no/refund", api.RequestRefund)
		}
	}

	// 管理员路由
	setupAdminRoutes(r)
}

// setupAdminRoutes 设置管理员API路由
func setupAdminRoutes(r *gin.Engine) {
	adminGroup := r.Group("/api/v1/admin")
	adminGroup.Use(middleware.Cors())
	adminGroup.Use(middleware.JWT())
	adminGroup.Use(middleware.AdminAuth())
	{
		adminGroup.GET("/statistics", admin.GetSystemInfo)
		adminGroup.POST("/password", admin.ChangePassword)
		adminGroup.GET("/login-logs", admin.GetLoginLogs)

		categories := adminGroup.Group("/categories")
		{
			categories.GET("", admin.GetCategories)
			categories.POST("", admin.CreateCategory)
			categories.PUT("/:id", admin.UpdateCategory)
			categories.DELETE("/:id", admin.DeleteCategory)
		}

		products := adminGroup.Group("/products")
		{
			products.GET("", admin.GetProducts)
			products.POST("", admin.CreateProduct)
			products.PUT("/:id", admin.UpdateProduct)
			products.POST("/:id/toggle", admin.ToggleProductActive)
			products.DELETE("/:id", admin.DeleteProduct)
		}

		cards := adminGroup.Group("/cards")
		{
			cards.GET("", admin.GetCards)
			cards.POST("/import", admin.ImportCards)
			cards.POST("/:id/lock", admin.SetCardLocked)
			cards.DELETE("/:id", admin.DeleteCard)
			cards.GET("/export", admin.ExportCards)
		}

		orders := adminGroup.Group("/orders")
		{
			orders.GET("", admin.GetOrders)
			orders.GET("/:id", admin.GetOrder)
			orders.POST("/:id/complete", admin.CompleteOrder)
			orders.POST("/:id/refund/approve", admin.ApproveRefund)
			orders.POST("/:id/refund/reject", admin.RejectRefund)
			orders.GET("/:id/refund/client-data", admin.GetClientRefundData)
			orders.POST("/:id/refund/mark-refunded", admin.MarkRefunded)
			orders.POST("/bulk-delete", admin.BulkDeleteOrders)
			orders.POST("/export", admin.ExportOrders)
		}
	}
}
