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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/urluvmani/taskeena-storefront/internal/cart"
	"github.com/urluvmani/taskeena-storefront/internal/catalog"
	"github.com/urluvmani/taskeena-storefront/internal/checkout"
	h "github.com/urluvmani/taskeena-storefront/internal/http"
	"github.com/urluvmani/taskeena-storefront/internal/orders"
)

type Config struct {
	HTTPPort        string
	APIBaseURL      string
	DBPath          string
	MigrationsPath  string
	RedisAddr       string
	RedisPassword   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:3000"),
		DBPath:          getEnv("DB_PATH", "storefront.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadConfig()
	ctx := context.Background()

	// Durable cart storage
	repo, err := cart.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open cart database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Cart database ready at %s", cfg.DBPath)

	store := cart.NewStore(ctx, repo)

	// Remote storefront API
	apiClient := catalog.NewClient(cfg.APIBaseURL, nil)
	ordersClient := orders.NewClient(cfg.APIBaseURL, nil)
	submitter := checkout.NewSubmitter(cfg.APIBaseURL, nil)

	// Product cache: Redis when configured, process-local otherwise
	var productCache catalog.ProductCache
	if cfg.RedisAddr != "" {
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
		productCache = catalog.NewRedisCache(redisClient)
	} else {
		productCache = catalog.NewMemoryCache()
	}

	catalogService := catalog.NewService(apiClient, productCache)

	cartHandler := h.NewCartHandler(store, catalogService)
	checkoutHandler := h.NewCheckoutHandler(store, submitter)
	catalogHandler := h.NewCatalogHandler(apiClient, catalogService)
	ordersHandler := h.NewOrdersHandler(ordersClient)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.AuthTokenMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Get("/total", cartHandler.GetTotal)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})

		r.Post("/checkout", checkoutHandler.Checkout)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Post("/filter", catalogHandler.FilterProducts)
			r.Get("/{slug}", catalogHandler.GetProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCategories)
			r.Get("/{slug}/products", catalogHandler.CategoryProducts)
		})

		r.Get("/orders", ordersHandler.MyOrders)

		r.Route("/admin/orders", func(r chi.Router) {
			r.Get("/", ordersHandler.AllOrders)
			r.Put("/{orderID}/status", ordersHandler.UpdateStatus)
			r.Delete("/{orderID}", ordersHandler.DeleteOrder)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront gateway starting on :%s (API %s)", cfg.HTTPPort, cfg.APIBaseURL)
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
}
