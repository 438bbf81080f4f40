package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcamoon/trading-backend/internal/api"
	"github.com/dcamoon/trading-backend/internal/config"
	"github.com/dcamoon/trading-backend/internal/database"
	"github.com/dcamoon/trading-backend/internal/marketdata"
	"github.com/dcamoon/trading-backend/internal/repository"
	"github.com/dcamoon/trading-backend/internal/scheduler"
	"github.com/dcamoon/trading-backend/internal/security"
	"github.com/dcamoon/trading-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	marketDataRepo := repository.NewMarketDataRepository(db)
	systemConfigRepo := repository.NewSystemConfigRepository(db)

	// Credential encryption for keys stored in system_config
	securityManager, err := security.NewManager(cfg.Security.MasterKey, systemConfigRepo)
	if err != nil {
		log.Fatalf("Failed to initialize security manager: %v", err)
	}
	if cfg.Security.APIKey != "" {
		// Keep an encrypted copy of the internal API key so it can be
		// recovered from the database if the environment is lost.
		if err := securityManager.StoreAPIKey("internal_api_key", cfg.Security.APIKey); err != nil {
			log.Printf("Failed to store internal API key: %v", err)
		}
	}

	// Market data: Yahoo quotes behind a sqlite-backed cache
	oracle := marketdata.NewCachedOracle(
		marketdata.NewYahooClient(),
		marketDataRepo,
		cfg.MarketData.CacheTTL,
		"yahoo",
	)

	// Create services
	systemService := service.NewSystemService(db)
	ledgerService := service.NewLedgerService(
		db,
		portfolioRepo,
		positionRepo,
		tradeRepo,
		snapshotRepo,
		oracle,
	)

	// Optional scheduled snapshots
	if cfg.Snapshot.CronSpec != "" {
		snapshotScheduler, err := scheduler.New(cfg.Snapshot.CronSpec, ledgerService)
		if err != nil {
			log.Fatalf("Invalid SNAPSHOT_CRON spec %q: %v", cfg.Snapshot.CronSpec, err)
		}
		snapshotScheduler.Start()
		defer snapshotScheduler.Stop()
	}

	// Create router
	router := api.NewRouter(systemService, ledgerService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
