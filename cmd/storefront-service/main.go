package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/auth"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/favorite"
	httpserver "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
)

func main() {
	cfg := config.Load()

	logger := log.New(os.Stdout, "[storefront-service] ", log.LstdFlags|log.Lshortfile)

	if err := db.RunMigrations(cfg.DBDSN, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database := db.MustOpen(cfg.DBDSN)
	defer database.Close()

	var provider catalog.Provider = catalog.NewClient(cfg.CatalogURL, cfg.UpstreamTimeout)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		provider = catalog.NewCache(redisClient, provider)
		logger.Printf("catalog cache enabled (%s)", cfg.RedisAddr)
	}

	verifier := auth.NewClient(cfg.AuthURL, cfg.UpstreamTimeout)

	var cartEvents cart.EventPublisher
	var favEvents favorite.EventPublisher
	var publisher *events.Publisher
	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatalf("dial rabbitmq: %v", err)
		}
		defer conn.Close()

		publisher, err = events.NewPublisher(conn, events.NewSequenceRepository(database))
		if err != nil {
			logger.Fatalf("create event publisher: %v", err)
		}
		cartEvents = publisher
		favEvents = publisher
	} else {
		logger.Printf("RABBITMQ_URL not set, event publishing disabled")
	}

	cartSvc := cart.NewService(cart.NewRepository(database), provider, cartEvents, logger)
	favSvc := favorite.NewService(favorite.NewRepository(database), provider, favEvents, logger)

	router := httpserver.NewRouter(cartSvc, favSvc, verifier)

	handler := middleware.Recover(logger)(
		middleware.CorrelationID(
			middleware.CORS(cfg.CORSAllowOrigins)(router)))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront-service listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Printf("publisher close error: %v", err)
		}
	}
}
