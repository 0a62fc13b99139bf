package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/pharma/backend/internal/application/catalog"
	identityapp "github.com/pharma/backend/internal/application/identity"
	partnerapp "github.com/pharma/backend/internal/application/partner"
	posapp "github.com/pharma/backend/internal/application/pos"
	reportapp "github.com/pharma/backend/internal/application/report"
	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/infrastructure/auth"
	"github.com/pharma/backend/internal/infrastructure/cache"
	"github.com/pharma/backend/internal/infrastructure/config"
	"github.com/pharma/backend/internal/infrastructure/logger"
	"github.com/pharma/backend/internal/infrastructure/persistence"
	"github.com/pharma/backend/internal/interfaces/http/handler"
	"github.com/pharma/backend/internal/interfaces/http/middleware"
	"github.com/pharma/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting pharmacy backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("port", cfg.App.Port),
	)

	location, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal("Invalid timezone", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}

	// Select the entity store backend. The durable backends share the
	// GORM implementation; memory is the zero-dependency reference.
	var store pharmacy.Store
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		store = persistence.NewMemoryStore()
	case config.BackendSQLite, config.BackendPostgres:
		db, err := persistence.NewDatabase(cfg, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		if err := db.Migrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
		store = persistence.NewGormStore(db)
		log.Info("Database connected successfully")
	}

	if cfg.Seed.Enabled {
		if err := persistence.Seed(context.Background(), store, log); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}

	idempotencyStore := cache.NewIdempotencyStore(cfg)
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	productService := catalogapp.NewProductService(store)
	categoryService := catalogapp.NewCategoryService(store)
	supplierService := partnerapp.NewSupplierService(store)
	customerService := partnerapp.NewCustomerService(store)
	userService := identityapp.NewUserService(store)
	authService := identityapp.NewAuthService(store, jwtService)
	checkoutService := posapp.NewCheckoutService(store, idempotencyStore, cfg.Cache.IdempotencyTTL, log)
	dashboardService := reportapp.NewDashboardService(store, location)

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.JWTAuth(jwtService, cfg.JWT.Enforce),
	)

	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(store, version))
	r.Register(handler.NewAuthHandler(authService))
	r.Register(handler.NewUserHandler(userService))
	r.Register(handler.NewProductHandler(productService))
	r.Register(handler.NewCategoryHandler(categoryService))
	r.Register(handler.NewSupplierHandler(supplierService))
	r.Register(handler.NewCustomerHandler(customerService))
	r.Register(handler.NewTransactionHandler(checkoutService))
	r.Register(handler.NewDashboardHandler(dashboardService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
