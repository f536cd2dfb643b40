package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ziedsaddem/hotelbooking/internal/cache"
	"github.com/ziedsaddem/hotelbooking/internal/clictopay"
	"github.com/ziedsaddem/hotelbooking/internal/config"
	"github.com/ziedsaddem/hotelbooking/internal/handler"
	"github.com/ziedsaddem/hotelbooking/internal/mygo"
	"github.com/ziedsaddem/hotelbooking/internal/obs"
	"github.com/ziedsaddem/hotelbooking/internal/ratelimit"
	"github.com/ziedsaddem/hotelbooking/internal/store"
)

func main() {
	cfg := config.Load()
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.Validator = handler.NewValidator()

	metrics := obs.NewMetrics(prometheus.NewRegistry())

	limiter := ratelimit.NewOperationLimiterWithDefaults()
	limiter.SetOperationLimit("search", 10, 20)
	limiter.SetOperationLimit("booking", 2, 5)

	supplier := mygo.NewClient(mygo.Config{
		BaseURL:  cfg.MyGOBaseURL,
		Login:    cfg.MyGOLogin,
		Password: cfg.MyGOPassword,
		Timeout:  cfg.MyGOTimeout,
		Limiter:  limiter,
		Metrics:  metrics,
	})

	gateway := clictopay.NewClient(clictopay.Config{
		BaseURL:  cfg.ClicToPayBaseURL,
		Username: cfg.ClicToPayUser,
		Password: cfg.ClicToPayPassword,
	})

	var searchCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		searchCache = redisCache
		log.Printf("Redis cache enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.RedisTTL)
	} else {
		searchCache = cache.NewNoOpCache()
		log.Println("Cache disabled")
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	searchHandler := handler.NewSearchHandler(supplier, searchCache, metrics)
	bookingHandler := handler.NewBookingHandler(supplier, gateway, db, cfg.PaymentReturnURL, metrics)
	paymentHandler := handler.NewPaymentHandler(db, cfg.WebhookSecret, metrics)

	api := e.Group("/api/v1")
	api.POST("/hotels/search", searchHandler.Search)
	api.GET("/cities", searchHandler.Cities)
	api.GET("/hotels", searchHandler.Hotels)
	api.POST("/bookings", bookingHandler.Create)
	api.GET("/bookings/:ref", bookingHandler.Get)
	api.POST("/payments/webhook", paymentHandler.Webhook)
	api.POST("/notify", handler.Notify)

	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	log.Printf("Starting hotel booking server on port %s", cfg.Port)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
