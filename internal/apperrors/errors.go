// Package apperrors defines the error taxonomy shared across the service.
// Handlers match on these sentinels to choose HTTP status codes; services
// wrap them with context using %w.
package apperrors

import (
	"errors"
	"fmt"
)

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrPositionNotFound indicates that a portfolio holds no position for the given ticker.
	ErrPositionNotFound = errors.New("position not found")

	// ErrTradeNotFound indicates that a trade with the given ID does not exist.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrSnapshotNotFound indicates that no snapshot exists for the portfolio.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrConfigKeyNotFound indicates that a system configuration key has not been set.
	ErrConfigKeyNotFound = errors.New("config key not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidTradeType indicates a trade type other than BUY or SELL.
	ErrInvalidTradeType = errors.New("invalid trade type")

	// ErrInvalidTradeArguments indicates non-positive shares or price on a trade.
	ErrInvalidTradeArguments = errors.New("shares and price must be positive")

	// ErrInsufficientFunds indicates that a buy would take cash negative.
	// Wrapped by InsufficientFundsError, which carries the shortfall detail.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares indicates a sell of more shares than are held.
	// Wrapped by InsufficientSharesError, which carries the shortfall detail.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrNegativeAmount indicates that an amount field has an invalid non-positive value.
	ErrNegativeAmount = errors.New("amount must be positive")
)

// InsufficientFundsError reports the cash shortfall on a rejected buy.
// It unwraps to ErrInsufficientFunds so callers can match with errors.Is.
type InsufficientFundsError struct {
	Required  float64
	Available float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient cash: need $%.2f, have $%.2f", e.Required, e.Available)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// InsufficientSharesError reports the share shortfall on a rejected sell.
// Available is 0 when no position exists for the ticker.
type InsufficientSharesError struct {
	Ticker    string
	Required  float64
	Available float64
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares of %s: need %g, have %g", e.Ticker, e.Required, e.Available)
}

func (e *InsufficientSharesError) Unwrap() error { return ErrInsufficientShares }
