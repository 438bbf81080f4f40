// Package handlers implements the HTTP handlers for the ledger API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dcamoon/trading-backend/internal/api/response"
	"github.com/dcamoon/trading-backend/internal/apperrors"
	"github.com/dcamoon/trading-backend/internal/validation"
)

// decodeJSON parses a JSON request body into dst. Unknown fields are
// rejected so typos in field names surface as 400s instead of silently
// zeroed values. Returns false after writing the error response.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// respondServiceError maps service-layer errors onto HTTP status codes:
// missing resources to 404, bad input to 400, rejected trades to 422 with
// required-versus-available detail, everything else to 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", validationErr.Fields)
		return
	}

	var fundsErr *apperrors.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		response.RespondError(w, http.StatusUnprocessableEntity, "insufficient funds", map[string]float64{
			"required":  fundsErr.Required,
			"available": fundsErr.Available,
		})
		return
	}

	var sharesErr *apperrors.InsufficientSharesError
	if errors.As(err, &sharesErr) {
		response.RespondError(w, http.StatusUnprocessableEntity, "insufficient shares", map[string]interface{}{
			"ticker":    sharesErr.Ticker,
			"required":  sharesErr.Required,
			"available": sharesErr.Available,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrPositionNotFound),
		errors.Is(err, apperrors.ErrTradeNotFound),
		errors.Is(err, apperrors.ErrSnapshotNotFound):
		response.RespondError(w, http.StatusNotFound, "not found", err.Error())
	case errors.Is(err, apperrors.ErrInvalidTradeType),
		errors.Is(err, apperrors.ErrInvalidTradeArguments),
		errors.Is(err, apperrors.ErrNegativeAmount),
		errors.Is(err, validation.ErrInvalidUUID):
		response.RespondError(w, http.StatusBadRequest, "invalid request", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
