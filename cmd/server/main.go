// Package main runs the store-rating API server.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ratewise/platform/internal/app"
	"github.com/ratewise/platform/internal/app/services/auth"
	"github.com/ratewise/platform/internal/app/storage/postgres"
	"github.com/ratewise/platform/internal/config"
	"github.com/ratewise/platform/internal/database"
	"github.com/ratewise/platform/internal/httpapi"
	"github.com/ratewise/platform/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	// Local development convenience; absent .env files are fine.
	_ = godotenv.Load()

	cfg := config.LoadOrDefault(*configPath)
	log := logger.New("server", cfg.LogLevel)

	stores := app.Stores{}
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("open database")
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			log.WithError(err).Fatal("run migrations")
		}

		pg := postgres.New(db)
		stores = app.Stores{Users: pg, Stores: pg, Ratings: pg}
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory storage")
	}

	application, err := app.New(stores, app.Config{
		Auth: auth.Config{
			Secret:   cfg.JWTSecret,
			TokenTTL: time.Duration(cfg.TokenTTL),
		},
	}, log)
	if err != nil {
		log.WithError(err).Fatal("build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		log.WithError(err).Fatal("start application")
	}

	handler := httpapi.NewRouter(application, httpapi.Config{
		ServiceName:        "ratewise",
		CORSOrigins:        cfg.CORSOrigins,
		RateLimitPerSecond: cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst:     cfg.RateLimit.Burst,
	}, log)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("http server listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server")
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("application shutdown")
	}
	log.Info("stopped")
}
