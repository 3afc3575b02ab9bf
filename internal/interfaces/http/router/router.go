package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Supplier *handler.SupplierHandler
	Cart     *handler.CartHandler
	Orders   *handler.OrderHandler
	Address  *handler.AddressHandler
}

// Config holds router dependencies
type Config struct {
	JWTService *auth.JWTService
	Logger     *zap.Logger
	CORS       middleware.CORSConfig
	Handlers   Handlers
}

// New builds the gin engine with all routes mounted under /api/v1
func New(cfg Config) *gin.Engine {
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.CORSWithConfig(cfg.CORS),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	authRequired := middleware.JWTAuth(cfg.JWTService)
	supplierOnly := middleware.RequireSupplier()

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", cfg.Handlers.Auth.Register)
		authGroup.POST("/login", cfg.Handlers.Auth.Login)
		authGroup.POST("/password-reset/request", cfg.Handlers.Auth.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", cfg.Handlers.Auth.ConfirmPasswordReset)
	}

	profile := api.Group("/profile", authRequired)
	{
		profile.GET("", cfg.Handlers.Auth.GetProfile)
		profile.PUT("", cfg.Handlers.Auth.UpdateProfile)
	}

	catalog := api.Group("/catalog")
	{
		catalog.GET("/products", cfg.Handlers.Catalog.ListProducts)
		catalog.GET("/products/:id", cfg.Handlers.Catalog.GetProduct)
		catalog.GET("/categories", cfg.Handlers.Catalog.ListCategories)
	}

	supplier := api.Group("/supplier", authRequired, supplierOnly)
	{
		supplier.GET("/products", cfg.Handlers.Supplier.ListProducts)
		supplier.POST("/products", cfg.Handlers.Supplier.CreateProduct)
		supplier.PUT("/products/:id", cfg.Handlers.Supplier.UpdateProduct)
		supplier.DELETE("/products/:id", cfg.Handlers.Supplier.DeleteProduct)
		supplier.POST("/products/prices", cfg.Handlers.Supplier.BulkUpdatePrices)

		supplier.POST("/catalog/import", cfg.Handlers.Supplier.ImportCatalog)
		supplier.GET("/catalog/export", cfg.Handlers.Supplier.ExportCatalog)
		supplier.POST("/catalog/export/file", cfg.Handlers.Supplier.ExportCatalogToFile)

		supplier.GET("/orders", cfg.Handlers.Supplier.ListOrders)
		supplier.POST("/orders/:id/status", cfg.Handlers.Supplier.UpdateOrderStatus)
		supplier.POST("/toggle-accepting", cfg.Handlers.Supplier.ToggleAcceptingOrders)
	}

	cart := api.Group("/cart", authRequired)
	{
		cart.GET("", cfg.Handlers.Cart.List)
		cart.POST("", cfg.Handlers.Cart.Add)
		cart.PUT("/:id", cfg.Handlers.Cart.UpdateQuantity)
		cart.DELETE("/:id", cfg.Handlers.Cart.Remove)
		cart.POST("/checkout", cfg.Handlers.Cart.Checkout)
	}

	orders := api.Group("/orders", authRequired)
	{
		orders.GET("", cfg.Handlers.Orders.List)
		orders.GET("/:id", cfg.Handlers.Orders.Get)
		orders.POST("/:id/cancel", cfg.Handlers.Orders.Cancel)
	}

	addresses := api.Group("/addresses", authRequired)
	{
		addresses.GET("", cfg.Handlers.Address.List)
		addresses.POST("", cfg.Handlers.Address.Create)
		addresses.PUT("/:id", cfg.Handlers.Address.Update)
		addresses.DELETE("/:id", cfg.Handlers.Address.Delete)
		addresses.POST("/:id/default", cfg.Handlers.Address.SetDefault)
	}

	return engine
}
