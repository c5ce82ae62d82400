package router

import (
	"time"

	"foodhouse/internal/config"
	"foodhouse/internal/handler"
	"foodhouse/internal/middleware"
	"foodhouse/internal/model"
	"foodhouse/internal/repository"
	"foodhouse/internal/service"
	"foodhouse/internal/worker"
	"foodhouse/internal/ws"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, hub *ws.Hub) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(300, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	cartSvc := service.NewCartService(cartRepo, menuRepo, storeRepo, hub)
	checkoutSvc := service.NewCheckoutService(orderRepo, cartRepo, menuRepo, storeRepo, hub, dispatcher)
	orderSvc := service.NewOrderService(orderRepo, dispatcher)
	discountSvc := service.NewDiscountService(orderRepo, userRepo)
	paymentSvc := service.NewPaymentService(orderRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cartH := handler.NewCartHandler(cartSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	discountsH := handler.NewDiscountsHandler(discountSvc)
	paymentsH := handler.NewPaymentsHandler(paymentSvc)
	wsH := handler.NewWSHandler(hub, cartSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Cart and self-checkout are session-scoped: the session id is the
	// capability, no staff token required.
	cart := r.Group("/v1/cart")
	{
		cart.POST("/sessions", cartH.CreateSession)
		cart.GET("/sessions/:sessionId", cartH.GetCart)
		cart.POST("/sessions/:sessionId/items", cartH.AddItem)
		cart.PUT("/sessions/:sessionId/items/:itemId", cartH.UpdateItem)
		cart.DELETE("/sessions/:sessionId/items/:itemId", cartH.RemoveItem)
		cart.DELETE("/sessions/:sessionId/items", cartH.ClearCart)
	}
	r.POST("/v1/checkout", checkoutH.Checkout)

	// WebSocket subscriptions
	r.GET("/v1/ws/sessions/:sessionId", wsH.SessionSocket)

	// Protected staff routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/ws/kitchen/:storeId", wsH.KitchenSocket)

		v1.POST("/orders/quick-sale", checkoutH.QuickSale)
		v1.GET("/orders", ordersH.ListOrders)
		v1.GET("/orders/:id", ordersH.GetOrder)
		v1.PATCH("/orders/:id/status", ordersH.UpdateStatus)

		// Discount tiering happens in the service against the actor's role;
		// the route-level guard only removes unauthenticated traffic. Removal
		// is ADMIN+ outright.
		v1.PUT("/orders/:id/discount", discountsH.ApplyDiscount)
		v1.DELETE("/orders/:id/discount", middleware.RequireRole(model.RoleAdmin), discountsH.RemoveDiscount)

		v1.POST("/orders/:id/payments", paymentsH.RecordPayment)
		v1.POST("/orders/:id/payments/:paymentId/void", middleware.RequireRole(model.RoleAdmin), paymentsH.VoidPayment)
		v1.POST("/orders/:id/refunds", middleware.RequireRole(model.RoleAdmin), paymentsH.CreateRefund)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
