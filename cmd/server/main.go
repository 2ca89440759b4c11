package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/orchidbooks/storefront/internal/cart"
	"github.com/orchidbooks/storefront/internal/catalog"
	"github.com/orchidbooks/storefront/internal/config"
	"github.com/orchidbooks/storefront/internal/db"
	"github.com/orchidbooks/storefront/internal/es"
	"github.com/orchidbooks/storefront/internal/events"
	"github.com/orchidbooks/storefront/internal/logging"
	loggingmw "github.com/orchidbooks/storefront/internal/middleware/logging"
	"github.com/orchidbooks/storefront/internal/service/auth"
	"github.com/orchidbooks/storefront/internal/service/token"
	transport "github.com/orchidbooks/storefront/internal/transport/http"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error("db_open_failed", "error", err)
		os.Exit(1)
	}

	source := catalog.NewGormSource(database)
	if err := source.Seed(ctx); err != nil {
		logger.Error("seed_failed", "error", err)
		os.Exit(1)
	}

	tokens := &token.Service{DB: database, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret}
	authSvc := &auth.Service{DB: database, Tokens: tokens}
	store := cart.NewStore(cart.NewGormStorage(database))

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka_producer_ready", "brokers", cfg.KafkaBrokers)
	}

	deps := transport.Deps{
		DB:       database,
		Catalog:  source,
		Cart:     store,
		Auth:     authSvc,
		Tokens:   tokens,
		Producer: producer,
		ESIndex:  "products",
	}

	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "error", err)
		} else {
			deps.ES = client
			logger.Info("elasticsearch_ready", "url", cfg.ESURL)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	transport.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server_starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown_started")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("producer_close_failed", "error", err)
		}
	}
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("shutdown_complete")
}
