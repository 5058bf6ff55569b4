// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/app"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/infrastructure/database"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/interfaces/http"
	"github.com/your-org/storefront/internal/pkg/logger"
	"github.com/your-org/storefront/internal/pkg/pdf"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"storage":     cfg.Storage.Driver,
	}).Infof("Starting %s", cfg.App.Name)

	// Open the durable slot; the cart still works in memory without it
	slot, err := database.OpenSlot(cfg, log)
	if err != nil {
		log.WithError(err).Warn("Persistence unavailable, cart will be kept in memory only")
		slot = storage.NewMemorySlot()
	}
	defer func() {
		if err := slot.Close(); err != nil {
			log.WithError(err).Warn("Failed to close storage")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := cart.Open(ctx, slot, cfg.Storage.CartKey, log)
	catalogClient := catalog.NewClient(cfg, log)
	controller := app.NewController(catalogClient, store, log)

	server := http.NewServer(cfg, log, http.Dependencies{
		Controller: controller,
		Products:   catalogClient,
		Summaries:  pdf.NewService(cfg),
		Slot:       slot,
	})

	// Fetch the catalog once, in the background, while the server answers
	// with the loading state
	go func() {
		if err := controller.Start(ctx); err != nil {
			log.WithError(err).Warn("Storefront failed to load, waiting for a reload")
		}
	}()

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	log.Info("Server shutdown completed")
}
