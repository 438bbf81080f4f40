package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dcamoon/trading-backend/internal/api/request"
	"github.com/dcamoon/trading-backend/internal/api/response"
	"github.com/dcamoon/trading-backend/internal/repository"
	"github.com/dcamoon/trading-backend/internal/service"
	"github.com/dcamoon/trading-backend/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	ledgerService *service.LedgerService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(ledgerService *service.LedgerService) *PortfolioHandler {
	return &PortfolioHandler{
		ledgerService: ledgerService,
	}
}

// Portfolios lists all portfolios.
//
// Endpoint: GET /api/portfolio
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.ledgerService.GetPortfolios(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, portfolios)
}

// CreatePortfolio creates a new portfolio with a starting cash balance.
//
// Endpoint: POST /api/portfolio
// Response: 201 Created with the new portfolio
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePortfolioRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		respondServiceError(w, err)
		return
	}

	portfolio, err := h.ledgerService.CreatePortfolio(r.Context(), req.Name, req.Description, req.StartingCash)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// DefaultPortfolio returns the oldest active portfolio. Single-portfolio
// deployments use this instead of carrying a UUID around.
//
// Endpoint: GET /api/portfolio/default
func (h *PortfolioHandler) DefaultPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.ledgerService.GetDefaultPortfolio(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, portfolio)
}

// Summary returns cash, valuation, and return figures for one portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledgerService.GetSummary(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, summary)
}

// Positions lists the open positions of a portfolio ordered by ticker.
//
// Endpoint: GET /api/portfolio/{uuid}/positions
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.ledgerService.GetPositions(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, positions)
}

// Trades lists recent trades for a portfolio, newest first. Optional query
// parameters: ticker (filter) and limit (default 100).
//
// Endpoint: GET /api/portfolio/{uuid}/trades
func (h *PortfolioHandler) Trades(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid limit", err.Error())
			return
		}
		limit = parsed
	}

	trades, err := h.ledgerService.GetTradeHistory(r.Context(), chi.URLParam(r, "uuid"), r.URL.Query().Get("ticker"), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, trades)
}

// Snapshots returns snapshot history in date order. Optional query
// parameters start_date and end_date accept YYYY-MM-DD or RFC3339.
//
// Endpoint: GET /api/portfolio/{uuid}/snapshots
func (h *PortfolioHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	var startDate, endDate time.Time
	var err error

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		startDate, err = repository.ParseTime(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid start_date", err.Error())
			return
		}
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		endDate, err = repository.ParseTime(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid end_date", err.Error())
			return
		}
	}

	snapshots, err := h.ledgerService.GetSnapshots(r.Context(), chi.URLParam(r, "uuid"), startDate, endDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, snapshots)
}

// CreateSnapshot values the portfolio at current oracle prices and records
// the result. An optional date query parameter backdates the snapshot.
//
// Endpoint: POST /api/portfolio/{uuid}/snapshot
// Response: 201 Created with the snapshot including per-position rows
func (h *PortfolioHandler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var snapshotDate time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := repository.ParseTime(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
		snapshotDate = parsed
	}

	snapshot, err := h.ledgerService.CreateSnapshot(r.Context(), chi.URLParam(r, "uuid"), snapshotDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, snapshot)
}

// Deposit adds cash to a portfolio.
//
// Endpoint: POST /api/portfolio/{uuid}/deposit
func (h *PortfolioHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req request.DepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateDeposit(req); err != nil {
		respondServiceError(w, err)
		return
	}

	portfolio, err := h.ledgerService.Deposit(r.Context(), chi.URLParam(r, "uuid"), req.Amount)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusOK, portfolio)
}

// UpdateStopLoss sets or clears the advisory stop-loss on a position.
//
// Endpoint: PUT /api/portfolio/{uuid}/positions/{ticker}/stop-loss
func (h *PortfolioHandler) UpdateStopLoss(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateStopLossRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.StopLoss != nil && *req.StopLoss <= 0 {
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{
			"stopLoss": "stopLoss must be positive or null",
		})
		return
	}

	err := h.ledgerService.UpdateStopLoss(r.Context(), chi.URLParam(r, "uuid"), chi.URLParam(r, "ticker"), req.StopLoss)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
