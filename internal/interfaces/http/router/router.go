package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// Handlers groups every handler the router wires up
type Handlers struct {
	System  *handler.SystemHandler
	Catalog *handler.CatalogHandler
	Batch   *handler.BatchHandler
	Alert   *handler.AlertHandler
	Sale    *handler.SaleHandler
	Order   *handler.OrderHandler
	Import  *handler.ImportHandler
}

// Config holds router configuration
type Config struct {
	Mode       string
	JWTService *auth.JWTService
	Logger     *zap.Logger
	CORS       middleware.CORSConfig
	Tracing    middleware.TracingConfig
}

// New builds the gin engine with all middleware and routes
func New(cfg Config, h Handlers) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	dto.RegisterValidators()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.TracingWithConfig(cfg.Tracing),
		logger.GinMiddleware(cfg.Logger),
		logger.Recovery(cfg.Logger),
		middleware.Secure(),
		middleware.CORSWithConfig(cfg.CORS),
	)

	engine.GET("/health", h.System.Health)

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWTService,
		Logger:     cfg.Logger,
	}))
	{
		v1.GET("/products", h.Catalog.ListProducts)
		v1.GET("/products/:code", h.Catalog.GetProduct)
		v1.GET("/products/:code/batches", h.Batch.ListAvailable)
		v1.GET("/products/:code/stock", h.Batch.TotalStock)
		v1.GET("/categories", h.Catalog.ListCategories)

		v1.POST("/batches", h.Batch.Receive)
		v1.GET("/batches/:id", h.Batch.Get)

		v1.GET("/alerts/low-stock", h.Alert.LowStock)
		v1.GET("/alerts/expiring", h.Alert.Expiring)

		v1.POST("/sales", h.Sale.Create)
		v1.GET("/sales", h.Sale.List)
		v1.GET("/sales/:id", h.Sale.Get)

		v1.POST("/orders", h.Order.Create)
		v1.GET("/orders", h.Order.List)
		v1.GET("/orders/:id", h.Order.Get)
		v1.POST("/orders/:id/approve", h.Order.Approve)
		v1.POST("/orders/:id/receive", h.Order.Receive)
		v1.POST("/orders/:id/cancel", h.Order.Cancel)
		v1.PUT("/orders/:id/details/:detailId", h.Order.UpdateLine)
		v1.DELETE("/orders/:id", h.Order.Delete)

		v1.POST("/imports/sales", h.Import.ImportSales)
	}

	return engine
}
