package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/saascom/storefront-gateway/config"
	"github.com/saascom/storefront-gateway/internal/app/cart"
	"github.com/saascom/storefront-gateway/internal/app/controller"
	"github.com/saascom/storefront-gateway/internal/app/service"
	"github.com/saascom/storefront-gateway/internal/app/session"
	"github.com/saascom/storefront-gateway/internal/middleware"
	"github.com/saascom/storefront-gateway/internal/router"
	"github.com/saascom/storefront-gateway/internal/scheduler"
	"github.com/saascom/storefront-gateway/internal/storage"
	"github.com/saascom/storefront-gateway/pkg/logger"
	"github.com/saascom/storefront-gateway/pkg/redis"
	"github.com/saascom/storefront-gateway/pkg/storeapi"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting SAASCOM storefront gateway", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"upstream":    cfg.Upstream.BaseURL,
		"log_level":   logLevel,
	})

	// Upstream API client
	apiClient, err := storeapi.NewClient(storeapi.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create upstream API client", err)
	}

	// Optional identity cache
	var identityCache session.IdentityCache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		identityCache = redis.NewIdentityCache(redis.GetClient(), cfg.Session.IdentityCache)
	}

	// Cart mirrors
	cartManager := cart.NewManager(cart.PolicyFromConfig(cfg.Cart), cfg.Cart.IdleTTL)

	// Session identity bridge; identity loss drops the user's cart mirror
	bridge := session.NewBridge(
		func(token string) session.Resolver {
			return apiClient.WithToken(token)
		},
		identityCache,
		cartManager.Drop,
	)

	// Services
	catalogService := service.NewCatalogService(apiClient)
	categoryService := service.NewCategoryService(apiClient)
	s3Storage := storage.NewS3Storage(cfg.S3)

	// Controllers
	authController := controller.NewAuthController(bridge, cfg.Session.CookieName)
	catalogController := controller.NewCatalogController(catalogService)
	cartController := controller.NewCartController(cartManager, apiClient)
	categoryController := controller.NewCategoryController(categoryService)
	uploadController := controller.NewUploadController(s3Storage)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(bridge, cfg.Session.CookieName)

	// Background reconciliation
	reconcileScheduler := scheduler.NewCartReconcileScheduler(cartManager, cfg.Cart.ReconcileInterval)
	if err := reconcileScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cart reconcile scheduler", err)
	}
	defer reconcileScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		catalogController,
		cartController,
		categoryController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	bridge.Close()
	logger.Info("Server stopped successfully")
}
