package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sabaidee/pos-api/internal/config"
	domainRepo "github.com/sabaidee/pos-api/internal/domain/repository"
	"github.com/sabaidee/pos-api/internal/presentation/http/handler"
	"github.com/sabaidee/pos-api/internal/presentation/http/middleware"
	"github.com/sabaidee/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Cart        *handler.CartHandler
	Payment     *handler.PaymentHandler
	Product     *handler.ProductHandler
	Category    *handler.CategoryHandler
	Transaction *handler.TransactionHandler
	Settings    *handler.SettingsHandler
	User        *handler.UserHandler
	Dashboard   *handler.DashboardHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile
	protected.GET("/auth/me", h.Auth.Me)

	// Cart and held bills
	registerCartRoutes(protected, h)

	// Payment session
	registerPaymentRoutes(protected, h, deps)

	// Products
	registerProductRoutes(protected, h)

	// Categories
	registerCategoryRoutes(protected, h)

	// Transactions
	registerTransactionRoutes(protected, h)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.GetStats)

	// Settings (Admin)
	registerSettingsRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerCartRoutes(protected *gin.RouterGroup, h *Handlers) {
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items/:productId", h.Cart.SetQuantity)
		cart.DELETE("/items/:productId", h.Cart.RemoveItem)
		cart.DELETE("", h.Cart.ClearCart)
		cart.POST("/hold", h.Cart.Hold)
	}

	bills := protected.Group("/held-bills")
	{
		bills.GET("", h.Cart.ListHeldBills)
		bills.POST("/:billId/recall", h.Cart.Recall)
		bills.DELETE("/:billId", h.Cart.Discard)
	}
}

func registerPaymentRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	payment := protected.Group("/payment")
	{
		payment.POST("/session", h.Payment.Open)
		payment.GET("/session", h.Payment.Get)
		payment.DELETE("/session", h.Payment.Close)
		payment.POST("/session/method", h.Payment.SelectMethod)
		payment.POST("/session/digits", h.Payment.PressDigit)
		payment.POST("/session/backspace", h.Payment.Backspace)
		payment.POST("/session/clear", h.Payment.ClearAmount)
		payment.POST("/session/shortcut", h.Payment.AddShortcut)
		// Confirmation uses idempotency middleware so a retried or
		// double-submitted confirm can never record a sale twice
		payment.POST("/session/confirm", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Payment.Confirm)
		payment.POST("/session/qr/retry", h.Payment.RetryQR)
		payment.POST("/session/qr/demo", h.Payment.UseDemoCode)
		payment.POST("/session/qr/print", h.Printer.PrintPaymentSlip)
		payment.POST("/session/channel/retry", h.Payment.RetryChannel)
		payment.GET("/session/qr.png", h.Payment.QRImage)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.POST("", middleware.RequireAdmin(), h.Product.Create)
		products.PUT("/:id", middleware.RequireAdmin(), h.Product.Update)
		products.DELETE("/:id", middleware.RequireAdmin(), h.Product.Deactivate)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", middleware.RequireAdmin(), h.Category.Create)
		categories.PUT("/:id", middleware.RequireAdmin(), h.Category.Rename)
		categories.DELETE("/:id", middleware.RequireAdmin(), h.Category.Delete)
	}
}

func registerTransactionRoutes(protected *gin.RouterGroup, h *Handlers) {
	transactions := protected.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
	}
}

func registerSettingsRoutes(protected *gin.RouterGroup, h *Handlers) {
	settings := protected.Group("/settings")
	{
		settings.GET("", h.Settings.GetSettings)
		settings.PUT("", middleware.RequireAdmin(), h.Settings.UpdateSettings)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireAdmin())
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.POST("", h.User.Create)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.Status)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt/:id", h.Printer.PrintReceipt)
	}
}
