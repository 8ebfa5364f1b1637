package router

import (
	"time"

	"github.com/ArthurFritz8/Gestao-Empresarial/internal/config"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/handler"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/middleware"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/model"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/repository"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/service"
	"github.com/ArthurFritz8/Gestao-Empresarial/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpirationHours)
	productSvc := service.NewProductService(productRepo, movementRepo, rdb)
	saleSvc := service.NewSaleService(saleRepo, productRepo, movementRepo, dispatcher)
	reportSvc := service.NewReportService(saleRepo, productRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	salesH := handler.NewSalesHandler(saleSvc, saleRepo, cfg.PDFStoragePath)
	reportsH := handler.NewReportsHandler(reportSvc)
	priceH := handler.NewPriceCheckHandler(productRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/api/price/:sku", priceH.GetPriceBySKU)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		api.GET("/auth/me", authH.Me)

		products := api.Group("/products")
		{
			products.GET("", productsH.List)
			products.GET("/stats", productsH.Stats)
			products.GET("/vehicle-compatibility", productsH.Compatibility)
			products.GET("/:id", productsH.Get)
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			// Destructive catalog operations — admin only
			products.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), productsH.Archive)
			products.PATCH("/:id/restore", middleware.RequireRole(model.RoleAdmin), productsH.Restore)
			products.PATCH("/:id/stock", middleware.RequireRole(model.RoleAdmin), productsH.AdjustStock)
		}

		sales := api.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/:id", salesH.Get)
			sales.GET("/:id/receipt", salesH.Receipt)
			sales.PUT("/:id", salesH.UpdateStatus)
			sales.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), salesH.Delete)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/sales", reportsH.Sales)
			reports.GET("/stock", reportsH.Stock)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
