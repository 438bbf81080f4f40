package handlers

import (
	"net/http"

	"github.com/dcamoon/trading-backend/internal/api/request"
	"github.com/dcamoon/trading-backend/internal/api/response"
	"github.com/dcamoon/trading-backend/internal/service"
	"github.com/dcamoon/trading-backend/internal/validation"
)

// TradeHandler handles trade execution requests
type TradeHandler struct {
	ledgerService *service.LedgerService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(ledgerService *service.LedgerService) *TradeHandler {
	return &TradeHandler{
		ledgerService: ledgerService,
	}
}

// ExecuteTrade validates and applies a BUY or SELL. A rejected trade
// returns 400 (bad input) or 422 (insufficient funds or shares) and leaves
// the portfolio untouched.
//
// Endpoint: POST /api/trade
// Response: 201 Created with the filled trade record
func (h *TradeHandler) ExecuteTrade(w http.ResponseWriter, r *http.Request) {
	var req request.ExecuteTradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := validation.ValidateExecuteTrade(req); err != nil {
		respondServiceError(w, err)
		return
	}

	trade, err := h.ledgerService.ExecuteTrade(r.Context(), req.PortfolioID, req.Ticker, req.TradeType, req.Shares, req.Price, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, trade)
}
