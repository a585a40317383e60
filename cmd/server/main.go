package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhishek6717/navodaya-store/internal/cache"
	"github.com/abhishek6717/navodaya-store/internal/gateway"
	"github.com/abhishek6717/navodaya-store/internal/httpapi"
	"github.com/abhishek6717/navodaya-store/internal/repository"
	"github.com/abhishek6717/navodaya-store/internal/service"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Gateway         gateway.Config
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storedb"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Gateway: gateway.Config{
			Environment: getEnv("GATEWAY_ENVIRONMENT", "sandbox"),
			BaseURL:     getEnv("GATEWAY_BASE_URL", ""),
			MerchantID:  getEnv("GATEWAY_MERCHANT_ID", ""),
			PublicKey:   getEnv("GATEWAY_PUBLIC_KEY", ""),
			PrivateKey:  getEnv("GATEWAY_PRIVATE_KEY", ""),
			Timeout:     15 * time.Second,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	cartRepo := repository.NewMongoCartRepository(mongoDB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB)
	catalogRepo := repository.NewMongoCatalogRepository(mongoDB)
	userRepo := repository.NewMongoUserRepository(mongoDB)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	cartCache := cache.NewRedisCache(redisClient)

	// Missing gateway credentials degrade payment endpoints to a per-request
	// failure instead of crashing the process.
	var gw gateway.Gateway
	if cfg.Gateway.Configured() {
		gw, err = gateway.NewClient(cfg.Gateway)
		if err != nil {
			log.Fatalf("Failed to build payment gateway client: %v", err)
		}
		log.Printf("Payment gateway configured for %s environment", cfg.Gateway.Environment)
	} else {
		gw = gateway.Disabled{}
		log.Printf("Payment gateway credentials missing; payment endpoints disabled")
	}

	cartService := service.NewCartService(cartRepo, userRepo, catalogRepo, cartCache)
	checkoutService := service.NewCheckoutService(gw, orderRepo, catalogRepo, cartRepo, cartCache)
	orderService := service.NewOrderService(orderRepo)

	cartHandler := httpapi.NewCartHandler(cartService, cfg.RequestTimeout)
	paymentHandler := httpapi.NewPaymentHandler(checkoutService, cfg.RequestTimeout)
	orderHandler := httpapi.NewOrderHandler(orderService, cfg.RequestTimeout)

	router := httpapi.NewRouter(cartHandler, paymentHandler, orderHandler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Store API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		log.Printf("mongo disconnect error: %v", err)
	}
	log.Println("server exited")
}
