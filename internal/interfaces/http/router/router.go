// Package router assembles the gin engine, middleware stack and routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/markethub/backend/internal/infrastructure/auth"
	"github.com/markethub/backend/internal/infrastructure/config"
	"github.com/markethub/backend/internal/interfaces/http/handler"
	"github.com/markethub/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups the route handlers wired by main
type Handlers struct {
	Health       *handler.HealthHandler
	Checkout     *handler.CheckoutHandler
	SubOrder     *handler.SubOrderHandler
	Webhook      *handler.WebhookHandler
	Subscription *handler.SubscriptionHandler
	Catalog      *handler.CatalogHandler
}

// New builds the engine with the full middleware stack and all routes.
// Webhook routes are provider-called and bypass JWT authentication.
func New(cfg *config.Config, jwtService *auth.JWTService, h Handlers, logger *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", h.Health.Health)

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = logger

	v1 := engine.Group("/api/v1")
	v1.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	v1.GET("/health", h.Health.Health)

	v1.POST("/checkout", h.Checkout.Checkout)
	v1.GET("/orders", h.Checkout.ListOrders)
	v1.GET("/orders/:id", h.Checkout.GetOrder)
	v1.GET("/orders/reference/:reference", h.Checkout.GetOrderByReference)

	v1.GET("/vendors/me/sub-orders", h.SubOrder.ListMine)
	v1.PATCH("/sub-orders/:id/delivery-status", h.SubOrder.UpdateDeliveryStatus)

	v1.POST("/webhooks/payment", h.Webhook.PaymentCallback)
	v1.POST("/webhooks/batch", h.Webhook.Batch)

	v1.POST("/subscriptions", h.Subscription.Create)
	v1.GET("/subscriptions/me", h.Subscription.ListMine)

	v1.POST("/products", h.Catalog.CreateProduct)
	v1.GET("/products/:id", h.Catalog.GetProduct)
	v1.POST("/uploads", h.Catalog.UploadImage)

	return engine
}
