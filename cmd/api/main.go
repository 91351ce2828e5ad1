package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sabaidee/pos-api/internal/application/service"
	"github.com/sabaidee/pos-api/internal/config"
	"github.com/sabaidee/pos-api/internal/infrastructure/database"
	"github.com/sabaidee/pos-api/internal/infrastructure/gateway"
	"github.com/sabaidee/pos-api/internal/infrastructure/repository"
	"github.com/sabaidee/pos-api/internal/presentation/http/handler"
	"github.com/sabaidee/pos-api/internal/presentation/http/routes"
	"github.com/sabaidee/pos-api/pkg/printer"
	"github.com/sabaidee/pos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	heldBillRepo := repository.NewHeldBillRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize payment gateway client and notification channel
	qrGenerator := gateway.NewPhaJayClient(cfg.Gateway.GenerateURL, &http.Client{
		Timeout: cfg.Gateway.RequestTimeout,
	})
	channelFactory := gateway.NewWSChannelFactory(cfg.Gateway.NotifyURL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	transactionService := service.NewTransactionService(transactionRepo)
	dashboardService := service.NewDashboardService(transactionRepo, productRepo)

	cartService, err := service.NewCartService(cartRepo, heldBillRepo, productRepo)
	if err != nil {
		log.Fatalf("Failed to restore cart: %v", err)
	}

	paymentService := service.NewPaymentService(
		cartService,
		settingsService,
		transactionRepo,
		qrGenerator,
		channelFactory,
		cfg.Gateway,
	)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, transactionRepo, settingsService, cfg.Printer.Type)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService, userService),
		Cart:        handler.NewCartHandler(cartService),
		Payment:     handler.NewPaymentHandler(paymentService),
		Product:     handler.NewProductHandler(productService),
		Category:    handler.NewCategoryHandler(categoryService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Settings:    handler.NewSettingsHandler(settingsService),
		User:        handler.NewUserHandler(userService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Printer:     handler.NewPrinterHandler(printerService, paymentService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
