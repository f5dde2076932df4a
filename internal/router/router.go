package router

import (
	"github.com/gin-gonic/gin"
	"github.com/saascom/storefront-gateway/config"
	"github.com/saascom/storefront-gateway/internal/app/controller"
	"github.com/saascom/storefront-gateway/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	catalogController  *controller.CatalogController
	cartController     *controller.CartController
	categoryController *controller.CategoryController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	categoryController *controller.CategoryController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		catalogController:  catalogController,
		cartController:     cartController,
		categoryController: categoryController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "SAASCOM storefront gateway is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		v1.POST("/logout", r.authMiddleware.OptionalAuthenticate(), r.authController.Logout)

		solutions := v1.Group("/solutions")
		{
			solutions.GET("", r.catalogController.ListSolutions)
			solutions.GET("/export", r.authMiddleware.Authenticate(), r.catalogController.ExportSolutions)
			solutions.GET("/:id", r.catalogController.GetSolution)
			solutions.POST("", r.authMiddleware.Authenticate(), r.catalogController.CreateSolution)
			solutions.PUT("/:id", r.authMiddleware.Authenticate(), r.catalogController.UpdateSolution)
			solutions.DELETE("/:id", r.authMiddleware.Authenticate(), r.catalogController.DeleteSolution)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.POST("", r.authMiddleware.Authenticate(), r.categoryController.CreateCategory)
		}

		cart := v1.Group("/cart", r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.PUT("", r.cartController.ReplaceCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.POST("/items/:productId/increment", r.cartController.IncrementItem)
			cart.POST("/items/:productId/decrement", r.cartController.DecrementItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
		}

		uploads := v1.Group("/uploads", r.authMiddleware.Authenticate())
		{
			uploads.POST("/cover", r.uploadController.PresignCover)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Storefront-View")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
