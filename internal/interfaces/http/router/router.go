package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/infrastructure/logger"
	"github.com/babel-30/sugarplum-backend/internal/interfaces/http/handler"
	"github.com/babel-30/sugarplum-backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Health       *handler.HealthHandler
	Products     *handler.ProductHandler
	Checkout     *handler.CheckoutHandler
	Shop         *handler.ShopHandler
	AdminProduct *handler.AdminProductHandler
	Orders       *handler.OrderHandler
	Inventory    *handler.InventoryHandler
}

// New builds the gin engine with the shop's routes. Paths mirror what the
// storefront and admin dashboard call; admin routes have no auth layer
// here, the reverse proxy in front of this service gates them.
func New(log *zap.Logger, corsOrigins []string, h Handlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithOrigins(corsOrigins),
	)

	engine.GET("/health", h.Health.Check)

	engine.GET("/products", h.Products.List)
	engine.GET("/kiosk/products", h.Products.ListKiosk)
	engine.POST("/checkout", h.Checkout.Submit)
	engine.GET("/config", h.Shop.Get)

	admin := engine.Group("/admin")
	{
		admin.GET("/products", h.AdminProduct.List)
		admin.PUT("/products", h.AdminProduct.UpdateFlags)
		admin.PUT("/config", h.Shop.Update)
		admin.GET("/orders", h.Orders.List)
		admin.GET("/orders/:id", h.Orders.Get)
		admin.PUT("/orders/:id", h.Orders.Update)
		admin.POST("/inventory/adjust", h.Inventory.Adjust)
		admin.POST("/refresh", h.Inventory.Refresh)
	}

	return engine
}
