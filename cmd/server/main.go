package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doshakada/ordering-api/internal/auth"
	"github.com/doshakada/ordering-api/internal/config"
	"github.com/doshakada/ordering-api/internal/events"
	"github.com/doshakada/ordering-api/internal/handlers"
	"github.com/doshakada/ordering-api/internal/repository"
	"github.com/doshakada/ordering-api/internal/server"
	"github.com/doshakada/ordering-api/internal/service"
	"github.com/doshakada/ordering-api/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting food ordering api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.LogLevel,
	)

	// Initialize repositories
	menuRepo := repository.NewFileMenuRepository(cfg.Storage.MenuFile)
	orderRepo, err := openOrderRepository(cfg.Storage)
	if err != nil {
		log.Error("failed to open order storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}

	// Order events: kitchen websocket, plus SQS when a queue is configured
	hub := events.NewHub(log, nil)
	publishers := events.Multi{hub}
	if cfg.Events.QueueURL != "" {
		sqsPublisher, err := events.NewSQSPublisher(context.Background(), cfg.Events.QueueURL, cfg.Events.AWSRegion)
		if err != nil {
			log.Error("failed to create SQS publisher", "error", err)
			os.Exit(1)
		}
		publishers = append(publishers, sqsPublisher)
		log.Info("publishing order events to SQS", "queue_url", cfg.Events.QueueURL)
	}

	sessions := auth.NewSessions(
		cfg.Auth.AdminPasswordHash,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute,
	)
	if !sessions.Enabled() {
		log.Info("admin password login disabled; kitchen endpoints accept API keys only")
	}

	// Initialize services
	menuService := service.NewMenuService(menuRepo)
	orderService := service.NewOrderService(menuRepo, orderRepo, publishers, cfg.Payment, log)

	healthChecks := map[string]handlers.HealthCheck{
		"menu": func(ctx context.Context) error {
			_, err := menuRepo.GetAll(ctx)
			return err
		},
		"orders": orderRepo.Ping,
	}

	// Create router
	router := server.NewRouter(server.Deps{
		Config:    cfg,
		Log:       log,
		Health:    handlers.NewHealthHandler(log, healthChecks),
		Menu:      handlers.NewMenuHandler(menuService, log),
		Orders:    handlers.NewOrderHandler(orderService, log),
		Admin:     handlers.NewAdminHandler(orderService, sessions, log),
		Sessions:  sessions,
		OrderFeed: hub,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
	srv.RegisterOnShutdown(hub.Close)

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// orderStore is an order repository that can report its own health
type orderStore interface {
	service.OrderRepository
	Ping(ctx context.Context) error
}

func openOrderRepository(cfg config.StorageConfig) (orderStore, error) {
	switch cfg.Driver {
	case config.StoragePostgres:
		db, err := repository.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return repository.NewGormOrderRepository(db), nil
	default:
		repo, err := repository.NewFileOrderRepository(cfg.OrdersFile)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
}
