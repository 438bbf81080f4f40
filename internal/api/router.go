package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dcamoon/trading-backend/internal/api/handlers"
	custommiddleware "github.com/dcamoon/trading-backend/internal/api/middleware"
	"github.com/dcamoon/trading-backend/internal/config"
	"github.com/dcamoon/trading-backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(systemService *service.SystemService, ledgerService *service.LedgerService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	apiKey := custommiddleware.NewAPIKeyMiddleware(cfg.Security.APIKey)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(ledgerService)
			r.Get("/", portfolioHandler.Portfolios)
			r.Get("/default", portfolioHandler.DefaultPortfolio)
			r.With(apiKey).Post("/", portfolioHandler.CreatePortfolio)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.Summary)
				r.Get("/positions", portfolioHandler.Positions)
				r.Get("/trades", portfolioHandler.Trades)
				r.Get("/snapshots", portfolioHandler.Snapshots)
				r.With(apiKey).Post("/snapshot", portfolioHandler.CreateSnapshot)
				r.With(apiKey).Post("/deposit", portfolioHandler.Deposit)
				r.With(apiKey).Put("/positions/{ticker}/stop-loss", portfolioHandler.UpdateStopLoss)
			})
		})

		tradeHandler := handlers.NewTradeHandler(ledgerService)
		r.With(apiKey).Post("/trade", tradeHandler.ExecuteTrade)
	})

	return r
}
