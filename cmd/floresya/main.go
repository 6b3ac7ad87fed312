// FloresYa API server.
// Serves the storefront catalog, cart, checkout, order and admin endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	cartapp "github.com/floresya/floresya/internal/cart/application"
	cartdomain "github.com/floresya/floresya/internal/cart/domain"
	"github.com/floresya/floresya/internal/cart/infrastructure/catalogbridge"
	"github.com/floresya/floresya/internal/cart/infrastructure/persistence/redisstore"
	carthttp "github.com/floresya/floresya/internal/cart/interfaces/http"
	catalogapp "github.com/floresya/floresya/internal/catalog/application"
	catalogdomain "github.com/floresya/floresya/internal/catalog/domain"
	catalogpg "github.com/floresya/floresya/internal/catalog/infrastructure/persistence/postgres"
	cataloghttp "github.com/floresya/floresya/internal/catalog/interfaces/http"
	checkoutapp "github.com/floresya/floresya/internal/checkout/application"
	"github.com/floresya/floresya/internal/checkout/infrastructure/session"
	checkouthttp "github.com/floresya/floresya/internal/checkout/interfaces/http"
	notificationdomain "github.com/floresya/floresya/internal/notification/domain"
	orderapp "github.com/floresya/floresya/internal/order/application"
	orderdomain "github.com/floresya/floresya/internal/order/domain"
	"github.com/floresya/floresya/internal/order/infrastructure/messaging"
	orderpg "github.com/floresya/floresya/internal/order/infrastructure/persistence/postgres"
	orderhttp "github.com/floresya/floresya/internal/order/interfaces/http"
	settingsapp "github.com/floresya/floresya/internal/settings/application"
	settingsdomain "github.com/floresya/floresya/internal/settings/domain"
	settingspg "github.com/floresya/floresya/internal/settings/infrastructure/persistence/postgres"
	settingshttp "github.com/floresya/floresya/internal/settings/interfaces/http"
	userapp "github.com/floresya/floresya/internal/user/application"
	userdomain "github.com/floresya/floresya/internal/user/domain"
	userpg "github.com/floresya/floresya/internal/user/infrastructure/persistence/postgres"
	userhttp "github.com/floresya/floresya/internal/user/interfaces/http"
	"github.com/floresya/floresya/pkg/cache"
	"github.com/floresya/floresya/pkg/config"
	"github.com/floresya/floresya/pkg/db"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/floresya/floresya/pkg/metrics"
	"github.com/floresya/floresya/pkg/middleware"
	"github.com/floresya/floresya/pkg/mq"
	"github.com/floresya/floresya/pkg/ratelimit"
)

func main() {
	configPath := flag.String("config", "configs/floresya/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting FloresYa API",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(
		&catalogdomain.Product{},
		&catalogdomain.Occasion{},
		&settingsdomain.Setting{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&orderdomain.Payment{},
		&userdomain.User{},
		&notificationdomain.Notification{},
	); err != nil {
		logger.Fatal(ctx, "Failed to migrate database", "error", err)
	}

	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Redis", "error", err)
	}
	defer redisCache.Close()

	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Kafka producer", "error", err)
	}
	defer producer.Close()

	m := metrics.New("api")
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			logger.Fatal(ctx, "Failed to register metrics", "error", err)
		}
		metrics.Serve(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	shippingFee, err := decimal.NewFromString(cfg.Store.ShippingFeeUSD)
	if err != nil {
		logger.Fatal(ctx, "Invalid shipping fee in config", "value", cfg.Store.ShippingFeeUSD)
	}
	fallbackRate, err := decimal.NewFromString(cfg.Store.FallbackExchangeRate)
	if err != nil {
		logger.Fatal(ctx, "Invalid fallback exchange rate in config", "value", cfg.Store.FallbackExchangeRate)
	}

	// Settings and catalog back the cart's pricing and product lookups.
	settingsService := settingsapp.NewSettingsService(
		settingspg.NewSettingRepository(database.DB),
		redisCache,
		cfg.Store.ExchangeRateKey,
		fallbackRate,
		time.Duration(cfg.Store.ProductCacheTTL)*time.Second,
	)
	catalogService := catalogapp.NewCatalogService(
		catalogpg.NewProductRepository(database),
		catalogpg.NewOccasionRepository(database),
		redisCache,
		time.Duration(cfg.Store.ProductCacheTTL)*time.Second,
	)

	cartStore := redisstore.NewCartStore(redisCache, time.Duration(cfg.Store.CartTTL)*time.Hour)
	cartService := cartapp.NewCartService(
		cartStore,
		catalogbridge.NewProductProvider(catalogService),
		settingsService,
		shippingFee,
	)
	cartService.OnChange(func(cart *cartdomain.Cart) {
		m.CartUpdates.Inc()
	})

	publisher := messaging.NewInstrumentedPublisher(
		messaging.NewKafkaPublisher(producer, cfg.Kafka.OrderTopic),
		m,
	)
	orderService := orderapp.NewOrderService(orderpg.NewOrderRepository(database), publisher)

	guestSessions := session.NewGuestSessionStore(
		redisCache,
		time.Duration(cfg.Store.GuestSessionTTL)*time.Minute,
	)
	checkoutService := checkoutapp.NewCheckoutService(
		cartService,
		orderService,
		guestSessions,
		cfg.Store.PaymentPageURL,
	)

	userService := userapp.NewUserService(
		userpg.NewUserRepository(database.DB),
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTL)*time.Hour,
	)

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinCORSMiddleware(),
		metricsMiddleware(m),
		middleware.GinRateLimitMiddleware(ratelimit.NewRedisLimiter(redisCache.GetClient()), cfg.RateLimit),
	)

	catalogHandler := cataloghttp.NewCatalogHandler(catalogService)
	settingsHandler := settingshttp.NewSettingsHandler(settingsService)
	cartHandler := carthttp.NewCartHandler(cartService)
	checkoutHandler := checkouthttp.NewCheckoutHandler(checkoutService)
	orderHandler := orderhttp.NewOrderHandler(orderService)
	userHandler := userhttp.NewUserHandler(userService)

	public := engine.Group("")
	catalogHandler.RegisterRoutes(public)
	settingsHandler.RegisterRoutes(public)
	cartHandler.RegisterRoutes(public)
	orderHandler.RegisterRoutes(public)
	userHandler.RegisterRoutes(public)

	// Checkout branches on whether a session token is present, so the token
	// is optional here.
	optional := engine.Group("")
	optional.Use(middleware.GinOptionalAuthMiddleware(userService))
	checkoutHandler.RegisterRoutes(optional)

	authed := engine.Group("")
	authed.Use(middleware.GinAuthMiddleware(userService))
	userHandler.RegisterAuthedRoutes(authed)
	orderHandler.RegisterUserRoutes(authed)

	admin := engine.Group("/api/admin")
	admin.Use(middleware.GinAuthMiddleware(userService), middleware.GinAdminMiddleware())
	catalogHandler.RegisterAdminRoutes(admin)
	settingsHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	userHandler.RegisterAdminRoutes(admin)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info(ctx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "HTTP server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Forced shutdown", "error", err)
	}
	logger.Info(ctx, "Server stopped")
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.HTTPRequestDuration.Observe(time.Since(start).Seconds())
	}
}
