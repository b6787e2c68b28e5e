package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"golang.org/x/time/rate"

	"tableqr-backend/config"
	"tableqr-backend/internal/api"
	"tableqr-backend/internal/blob"
	"tableqr-backend/internal/db"
	"tableqr-backend/internal/image"
	"tableqr-backend/internal/notification"
	"tableqr-backend/internal/store"
	"tableqr-backend/internal/sweep"
)

func main() {
	logger := log.New(os.Stdout, "tableqr-backend ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
		logger.Fatalf("VAPID keys must be configured. Please generate them and add them to your config file.")
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	blobStore, err := blob.NewS3Store(&cfg.Storage)
	if err != nil {
		logger.Fatalf("failed to initialize blob storage: %v", err)
	}
	pipeline := image.NewPipeline(blobStore)

	notifier := notification.NewNotifier(appStore, &notification.WebPushSender{Options: &webpushOptions})

	// Expired completed tickets are swept in the background.
	sweeper := sweep.NewService(&cfg.Queue, appStore)
	go sweeper.Run(ctx)

	handler := api.NewHandler(appStore, pipeline, notifier, &webpushOptions, cfg.Server.PublicBaseURL)
	router := api.NewRouter(handler,
		rate.Limit(cfg.Server.RateLimitPerSec),
		cfg.Server.RateLimitBurst,
		time.Duration(cfg.Server.CacheTTLSeconds)*time.Second,
	)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
