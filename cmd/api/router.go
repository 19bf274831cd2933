package main

import (
	"net/http"

	"inventory-backend/internal/shared/middleware"
	"inventory-backend/internal/shared/response"
	"inventory-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func setupRouter(c *container.Container) *gin.Engine {
	if c.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.Deadline(c.Config.Inventory.RequestDeadline),
	)

	router.GET("/health", func(ctx *gin.Context) {
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			response.Fail(ctx, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		response.OK(ctx, "healthy", gin.H{"app": c.Config.App.Name})
	})

	v1 := router.Group("/api/v1")

	v1.POST("/auth/login", c.UserHandler.Login)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(c.JWTManager))

	// Mutating inventory routes are restricted to ADMIN and MANAGER; reads
	// are open to any authenticated principal.
	manage := authed.Group("")
	manage.Use(middleware.RequireRole("ADMIN", "MANAGER"))

	admin := authed.Group("")
	admin.Use(middleware.RequireRole("ADMIN"))

	authed.GET("/products", c.ProductHandler.List)
	authed.GET("/products/low-stock", c.AnalyticsHandler.LowStock)
	authed.GET("/products/dead-stock", c.AnalyticsHandler.DeadStock)
	authed.GET("/products/code/:code", c.ProductHandler.GetByCode)
	authed.GET("/products/:id", c.ProductHandler.Get)
	manage.POST("/products", c.ProductHandler.Create)
	manage.PUT("/products/:id", c.ProductHandler.Update)
	manage.DELETE("/products/:id", c.ProductHandler.Deactivate)

	authed.GET("/sales", c.DocumentHandler.ListSales)
	authed.GET("/sales/:id", c.DocumentHandler.GetSale)
	manage.POST("/sales", c.DocumentHandler.PostSale)
	manage.POST("/sales/:id/cancel", c.DocumentHandler.CancelSale)

	authed.GET("/purchases", c.DocumentHandler.ListPurchases)
	authed.GET("/purchases/:id", c.DocumentHandler.GetPurchase)
	manage.POST("/purchases", c.DocumentHandler.PostPurchase)
	manage.POST("/purchases/:id/cancel", c.DocumentHandler.CancelPurchase)

	authed.GET("/stock/movements", c.StockHandler.Movements)
	authed.GET("/stock/positions/:productId", c.StockHandler.Positions)
	manage.POST("/stock/adjustments", c.StockHandler.Adjust)
	admin.GET("/stock/verify", c.StockHandler.Verify)
	admin.POST("/stock/rebuild", c.StockHandler.Rebuild)

	authed.GET("/alerts", c.AlertHandler.List)
	manage.PATCH("/alerts", c.AlertHandler.Resolve)

	authed.GET("/analytics/dashboard", c.AnalyticsHandler.Dashboard)
	authed.GET("/analytics/monthly-sales", c.AnalyticsHandler.MonthlySales)
	authed.GET("/analytics/monthly-sales/export", c.AnalyticsHandler.ExportMonthlySales)

	authed.GET("/categories", c.CatalogHandler.ListCategories)
	manage.POST("/categories", c.CatalogHandler.CreateCategory)
	manage.PUT("/categories/:id", c.CatalogHandler.UpdateCategory)
	manage.DELETE("/categories/:id", c.CatalogHandler.DeactivateCategory)

	authed.GET("/suppliers", c.CatalogHandler.ListSuppliers)
	manage.POST("/suppliers", c.CatalogHandler.CreateSupplier)
	manage.PUT("/suppliers/:id", c.CatalogHandler.UpdateSupplier)
	manage.DELETE("/suppliers/:id", c.CatalogHandler.DeactivateSupplier)

	authed.GET("/customers", c.CatalogHandler.ListCustomers)
	manage.POST("/customers", c.CatalogHandler.CreateCustomer)
	manage.PUT("/customers/:id", c.CatalogHandler.UpdateCustomer)
	manage.DELETE("/customers/:id", c.CatalogHandler.DeactivateCustomer)

	authed.GET("/warehouses", c.CatalogHandler.ListWarehouses)
	manage.POST("/warehouses", c.CatalogHandler.CreateWarehouse)
	manage.PUT("/warehouses/:id", c.CatalogHandler.UpdateWarehouse)
	manage.DELETE("/warehouses/:id", c.CatalogHandler.DeactivateWarehouse)

	admin.GET("/users", c.UserHandler.List)
	admin.GET("/users/:id", c.UserHandler.Get)
	admin.POST("/users", c.UserHandler.Create)
	admin.PATCH("/users/:id", c.UserHandler.Update)

	return router
}
