package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/application/catalogsync"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	orderingapp "github.com/marketplace/backend/internal/application/ordering"
	shoppingapp "github.com/marketplace/backend/internal/application/shopping"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/notification"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Password reset tokens live in Redis when it is configured, otherwise
	// in process memory. The in-memory store is fine for a single instance.
	var resetStore auth.ResetTokenStore
	if cfg.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		resetStore = auth.NewRedisResetTokenStore(redisClient)
		log.Info("Reset token store: redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		resetStore = auth.NewInMemoryResetTokenStore()
		log.Info("Reset token store: in-memory")
	}

	// Outgoing mail. Without SMTP the notifier logs what it would send.
	var mailer notification.Mailer
	if cfg.SMTP.Enabled {
		mailer = notification.NewSMTPMailer(cfg.SMTP, log)
		log.Info("Mailer: smtp", zap.String("host", cfg.SMTP.Host))
	} else {
		mailer = notification.NewLogMailer(log)
		log.Info("Mailer: log only")
	}
	notifier := notification.NewEmailNotifier(mailer, log)

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	cartRepo := persistence.NewGormCartItemRepository(db.DB)
	addressRepo := persistence.NewGormDeliveryAddressRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Transaction scopes
	identityScope := persistence.NewGormIdentityTransactionScope(db.DB)
	catalogScope := persistence.NewGormCatalogTransactionScope(db.DB)
	orderScope := persistence.NewGormOrderTransactionScope(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, identityScope, jwtService, resetStore, notifier, log)
	userService := identityapp.NewUserService(userRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, supplierRepo, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	importService := catalogsync.NewImportService(supplierRepo, catalogScope, log)
	exportService := catalogsync.NewExportService(supplierRepo, productRepo, categoryRepo, cfg.Export, log)
	cartService := shoppingapp.NewCartService(cartRepo, productRepo, log)
	addressService := shoppingapp.NewAddressService(addressRepo, log)
	checkoutService := orderingapp.NewCheckoutService(userRepo, addressRepo, orderScope, notifier, log)
	orderService := orderingapp.NewOrderService(orderRepo, userRepo, supplierRepo, orderScope, notifier, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := router.New(router.Config{
		JWTService: jwtService,
		Logger:     log,
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Handlers: router.Handlers{
			Auth:     handler.NewAuthHandler(authService, userService),
			Catalog:  handler.NewCatalogHandler(productService, categoryService),
			Supplier: handler.NewSupplierHandler(productService, importService, exportService, orderService, userService),
			Cart:     handler.NewCartHandler(cartService, checkoutService),
			Orders:   handler.NewOrderHandler(orderService),
			Address:  handler.NewAddressHandler(addressService),
		},
	})

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	stop()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	// Let queued notification emails drain before the process exits.
	notifier.Wait()

	log.Info("Shutdown complete")
}
