package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	catalogdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/catalog/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon"
	couponhttp "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon/delivery/http"
	coupondomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon/domain"
	couponrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon/repository"
	customerdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/customer/domain"
	inventorydomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
	inventoryhttp "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/delivery/http"
	inventoryrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/repository"
	inventorycommand "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/usecase/command"
	inventoryquery "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/usecase/query"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/middleware"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order"
	orderhttp "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/delivery/http"
	orderdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	ordercommand "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/usecase/command"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/payment"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/scheduler"
	walletdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
	wallethttp "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/delivery/http"
	walletrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/repository"
	walletcommand "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/usecase/command"
	walletquery "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/usecase/query"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/kafka"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/auth"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/database"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/logger"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "order-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting order service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "orderdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&catalogdomain.Outlet{},
		&catalogdomain.Product{},
		&customerdomain.Customer{},
		&inventorydomain.Inventory{},
		&inventorydomain.StockHistory{},
		&walletdomain.Wallet{},
		&walletdomain.WalletTransaction{},
		&coupondomain.Coupon{},
		&coupondomain.CouponUsage{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&orderdomain.Cart{},
		&orderdomain.CartItem{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Payment gateway
	gateway := payment.NewHTTPGateway(
		getEnv("GATEWAY_BASE_URL", "https://api.razorpay.com"),
		getEnv("GATEWAY_KEY_ID", ""),
		getEnv("GATEWAY_KEY_SECRET", ""),
	)
	verifier := payment.NewVerifier(getEnv("GATEWAY_KEY_SECRET", ""))

	// Kafka publisher is optional; the order flow runs without event fan-out
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to connect to Kafka, events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Redis lock client is optional; single-instance deployments skip it
	var redisClient *redis.Client
	if redisAddr := getEnv("REDIS_ADDR", ""); redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
		})
		defer redisClient.Close()
	}

	// Initialize handler with Wire DI
	orderHandler, err := order.InitializeHandler(db, gateway, verifier, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize order handler")
	}

	// Wallet handlers
	walletRepo := walletrepository.NewGormWalletRepository(db)
	walletHandler := wallethttp.NewWalletHandler(
		walletcommand.NewInitiateRechargeHandler(gateway),
		walletcommand.NewRechargeHandler(db, walletRepo, gateway, verifier, publisher),
		walletquery.NewGetWalletHandler(walletRepo),
		walletquery.NewListTransactionsHandler(walletRepo),
	)

	// Coupon preview
	couponHandler := couponhttp.NewCouponHandler(db, coupon.NewEngine(couponrepository.NewGormCouponRepository(db)))

	// Inventory handlers
	inventoryRepo := inventoryrepository.NewGormInventoryRepositoryWithTracing(db)
	inventoryHandler := inventoryhttp.NewInventoryHandler(
		inventorycommand.NewRestockHandler(db, inventoryRepo),
		inventoryquery.NewGetInventoryHandler(inventoryRepo),
		inventoryquery.NewLowStockHandler(inventoryRepo),
	)

	// Daily reconciliation sweep
	schedCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	reconciler := scheduler.NewReconciler(
		order.ProvideOrderRepository(db),
		ordercommand.NewCancelOrderHandler(db, order.ProvideOrderRepository(db), inventoryRepo, walletRepo, publisher),
		redisClient,
	)
	go reconciler.Run(schedCtx)

	// JWT auth
	jwtManager := auth.NewJWTManager(getEnv("JWT_SECRET", "dev-secret"), 24*time.Hour)

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(orderHandler, walletHandler, inventoryHandler, couponHandler, jwtManager, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(
	orderHandler *orderhttp.OrderHandler,
	walletHandler *wallethttp.WalletHandler,
	inventoryHandler *inventoryhttp.InventoryHandler,
	couponHandler *couponhttp.CouponHandler,
	jwtManager *auth.JWTManager,
	db *sql.DB,
	port string,
) {
	// Setup router. Trace goes outermost so the access log and every
	// repository span hang off the server span.
	router := mux.NewRouter()
	router.Use(middleware.Trace)
	router.Use(middleware.Observe)

	// Auth applies to /api routes only; health and metrics stay open
	authMW := middleware.Auth(jwtManager)
	router.Use(func(next http.Handler) http.Handler {
		authed := authMW(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				authed.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	orderHandler.RegisterRoutes(router)
	walletHandler.RegisterRoutes(router)
	inventoryHandler.RegisterRoutes(router)
	couponHandler.RegisterRoutes(router)

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
