package router

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/pos-app/config"
	"github.com/yeremiapane/pos-app/controllers"
	"github.com/yeremiapane/pos-app/kds"
	"github.com/yeremiapane/pos-app/middlewares"
	"github.com/yeremiapane/pos-app/models"
	"github.com/yeremiapane/pos-app/reports"
	"github.com/yeremiapane/pos-app/services"
	"github.com/yeremiapane/pos-app/utils"
	"gorm.io/gorm"
)

var allowedUploadExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// SetupRouter wires services, controllers and middlewares into a gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB, images services.ImageService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.PrometheusMiddleware())
	r.Use(middlewares.SecurityHeaders(cfg.IsProduction()))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSAllowedOrigins))

	tokens := utils.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	hub := kds.NewHub()

	authService := services.NewAuthService(db, tokens, utils.NewTokenBlacklist())
	userSettingsService := services.NewUserSettingsService(db, images)
	orderService := services.NewOrderService(db, cfg.TaxRate, cfg.Location, cfg.OrderNumberMaxRetries,
		services.WithPublisher(hub))

	authCtrl := controllers.NewAuthController(authService, userSettingsService, tokens, cfg.IsProduction())
	categoryCtrl := controllers.NewCategoryController(services.NewCategoryService(db))
	productCtrl := controllers.NewProductController(services.NewProductService(db, images))
	orderCtrl := controllers.NewOrderController(orderService)
	reportCtrl := controllers.NewSalesReportController(
		services.NewReportService(db, cfg.Location), reports.NewDocumentRenderer(cfg.Location), cfg.Location)
	settingsCtrl := controllers.NewUserSettingsController(userSettingsService)
	feedCtrl := controllers.NewOrderFeedController(hub, cfg.CORSAllowedOrigins)
	healthCtrl := controllers.NewHealthController(db)

	r.GET("/ping", healthCtrl.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.ImageStore == config.ImageStoreLocal && cfg.UploadDir != "" {
		uploads := r.Group("/uploads", func(c *gin.Context) {
			if !allowedUploadExtensions[strings.ToLower(filepath.Ext(c.Request.URL.Path))] {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
		})
		uploads.Static("/", cfg.UploadDir)
	}

	requireAuth := middlewares.AuthMiddleware(tokens)
	adminOnly := middlewares.RequireRole(models.RoleAdmin)
	kasirOnly := middlewares.RequireRole(models.RoleKasir)
	anyRole := middlewares.RequireRole(models.RoleAdmin, models.RoleKasir)
	loginLimiter := middlewares.NewRateLimiter(cfg.LoginRatePerMinute)

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthCtrl.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", loginLimiter.RateLimit(), authCtrl.Register)
			auth.POST("/login", loginLimiter.RateLimit(), authCtrl.Login)
			auth.POST("/refresh", authCtrl.Refresh)
			auth.DELETE("/logout", authCtrl.Logout)
			auth.GET("/me", requireAuth, authCtrl.Me)
		}

		categories := api.Group("/categories", requireAuth, anyRole)
		{
			categories.GET("", categoryCtrl.GetAllCategories)
			categories.GET("/:id", categoryCtrl.GetCategoryByID)
			categories.POST("", adminOnly, categoryCtrl.CreateCategory)
			categories.PUT("/:id", adminOnly, categoryCtrl.UpdateCategory)
			categories.DELETE("/:id", adminOnly, categoryCtrl.DeleteCategory)
		}

		products := api.Group("/products", requireAuth, anyRole)
		{
			products.GET("", productCtrl.GetAllProducts)
			products.GET("/:id", productCtrl.GetProductByID)
			products.POST("", adminOnly, productCtrl.CreateProduct)
			products.PUT("/:id", adminOnly, productCtrl.UpdateProduct)
			products.DELETE("/:id", adminOnly, productCtrl.DeleteProduct)
		}

		orders := api.Group("/orders", requireAuth, anyRole)
		{
			orders.POST("", kasirOnly, orderCtrl.CreateOrder)
			orders.GET("", orderCtrl.GetAllOrders)
			orders.GET("/:id", orderCtrl.GetOrderByID)
		}

		salesReport := api.Group("/sales-report", requireAuth, anyRole)
		{
			salesReport.GET("", reportCtrl.GetSalesReport)
			salesReport.GET("/export/excel", reportCtrl.ExportExcel)
			salesReport.GET("/export/pdf", reportCtrl.ExportPDF)
		}

		settings := api.Group("/user-settings", requireAuth, anyRole)
		{
			settings.GET("", settingsCtrl.GetSettings)
			settings.PATCH("", settingsCtrl.UpdateSettings)
		}

		api.GET("/ws/orders", middlewares.WebSocketAuthMiddleware(tokens), feedCtrl.OrderFeed)
	}

	return r
}
