// Package main initializes and starts the ReelPlan backend server,
// setting up configuration, logging, database connections, repositories,
// services, handlers, and metrics.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/reelplan/reelplan/internal/config"
	"github.com/reelplan/reelplan/internal/db"
	"github.com/reelplan/reelplan/internal/logger"
	"github.com/reelplan/reelplan/internal/metrics"
	"github.com/reelplan/reelplan/internal/middleware"
	"github.com/reelplan/reelplan/internal/repository"
	"github.com/reelplan/reelplan/internal/server/handler/http"
	"github.com/reelplan/reelplan/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Address
	dsn := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(dsn)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Hard-delete tombstoned documents once they age out.
	db.StartTombstoneCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories for accounts and calendar documents.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	recordRepo := repository.NewPostgresRecordRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo)
	recordService := service.NewRecordService(recordRepo)

	// Create HTTP handlers for auth and calendar endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	recordHandler := &http.RecordHandler{Records: recordService}

	// Request metrics and per-client rate limiting.
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	limiter := middleware.NewRateLimiter(rate.Limit(20), 40)
	defer limiter.Close()

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, recordHandler, authService, limiter, collector, registry, zapLogger)

	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
