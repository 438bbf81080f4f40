package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dcamoon/trading-backend/internal/apperrors"
	"github.com/dcamoon/trading-backend/internal/marketdata"
	"github.com/dcamoon/trading-backend/internal/model"
	"github.com/dcamoon/trading-backend/internal/repository"
)

// LedgerService is the portfolio ledger engine. It applies trades to cash
// and positions under weighted-average cost accounting, and produces
// point-in-time valuation snapshots. Every mutating operation runs inside
// a single SQL transaction: it either commits fully or leaves no trace.
type LedgerService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	positionRepo  *repository.PositionRepository
	tradeRepo     *repository.TradeRepository
	snapshotRepo  *repository.SnapshotRepository
	oracle        marketdata.Oracle
}

// NewLedgerService creates a LedgerService with the provided dependencies.
// The oracle is consulted only at snapshot time; trade execution never
// touches market data.
func NewLedgerService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	positionRepo *repository.PositionRepository,
	tradeRepo *repository.TradeRepository,
	snapshotRepo *repository.SnapshotRepository,
	oracle marketdata.Oracle,
) *LedgerService {
	return &LedgerService{
		db:            db,
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
		tradeRepo:     tradeRepo,
		snapshotRepo:  snapshotRepo,
		oracle:        oracle,
	}
}

// CreatePortfolio creates a new portfolio and its initial cash-only
// snapshot in one transaction.
func (s *LedgerService) CreatePortfolio(ctx context.Context, name, description string, startingCash float64) (*model.Portfolio, error) {
	if startingCash <= 0 {
		return nil, fmt.Errorf("%w: starting cash", apperrors.ErrNegativeAmount)
	}
	if strings.TrimSpace(name) == "" {
		name = "Main Portfolio"
	}

	now := time.Now().UTC()
	portfolio := &model.Portfolio{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  description,
		StartingCash: startingCash,
		CurrentCash:  startingCash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := s.portfolioRepo.InsertPortfolioTx(tx, portfolio); err != nil {
		return nil, err
	}

	// Initial snapshot: all cash, no positions, zero returns.
	initial := &model.PortfolioSnapshot{
		ID:                  uuid.New().String(),
		PortfolioID:         portfolio.ID,
		SnapshotDate:        now,
		TotalEquity:         startingCash,
		CashBalance:         startingCash,
		TotalPositionsValue: 0,
		DailyReturn:         0,
		TotalReturn:         0,
		TotalReturnPct:      0,
		CreatedAt:           now,
	}
	if err := s.snapshotRepo.InsertSnapshotTx(tx, initial); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Created portfolio %s (%s) with $%.2f", portfolio.Name, portfolio.ID, startingCash)
	return portfolio, nil
}

// ExecuteTrade validates and applies a BUY or SELL against a portfolio.
//
// Validation runs in order and fails fast: portfolio existence, trade type,
// then cash (BUY) or share (SELL) availability. All state changes — the
// trade record, the position, and the cash balance — commit atomically;
// a rejected trade leaves no partial state behind.
func (s *LedgerService) ExecuteTrade(ctx context.Context, portfolioID, ticker, tradeType string, shares, price float64, reason string) (*model.Trade, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	tradeType = strings.ToUpper(strings.TrimSpace(tradeType))

	if shares <= 0 || price <= 0 {
		return nil, apperrors.ErrInvalidTradeArguments
	}

	totalAmount := shares * price

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	portfolio, err := s.portfolioRepo.GetPortfolioTx(tx, portfolioID)
	if err != nil {
		return nil, err
	}

	if tradeType != model.TradeTypeBuy && tradeType != model.TradeTypeSell {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidTradeType, tradeType)
	}

	now := time.Now().UTC()
	trade := &model.Trade{
		ID:            uuid.New().String(),
		PortfolioID:   portfolio.ID,
		Ticker:        ticker,
		TradeType:     tradeType,
		Shares:        shares,
		Price:         price,
		TotalAmount:   totalAmount,
		ExecutionType: model.ExecutionTypeMarket,
		Status:        model.TradeStatusFilled,
		Reason:        reason,
		ExecutedAt:    now,
	}

	if tradeType == model.TradeTypeBuy {
		if totalAmount > portfolio.CurrentCash {
			return nil, &apperrors.InsufficientFundsError{
				Required:  totalAmount,
				Available: portfolio.CurrentCash,
			}
		}
		if err := s.applyBuy(tx, &portfolio, ticker, shares, price, totalAmount, now); err != nil {
			return nil, err
		}
	} else {
		costBasisSold, realizedPnl, err := s.applySell(tx, &portfolio, ticker, shares, totalAmount, now)
		if err != nil {
			return nil, err
		}
		trade.CostBasisSold = &costBasisSold
		trade.RealizedPnl = &realizedPnl
	}

	if err := s.tradeRepo.InsertTradeTx(tx, trade); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Executed %s: %g shares of %s at $%.2f", tradeType, shares, ticker, price)
	return trade, nil
}

// applyBuy debits cash and folds the purchase into the position at
// weighted-average cost. Cost basis is accumulated in dollars, not derived
// from average_cost, so repeated buys do not compound rounding error.
func (s *LedgerService) applyBuy(tx *sql.Tx, portfolio *model.Portfolio, ticker string, shares, price, totalAmount float64, now time.Time) error {
	newCash := portfolio.CurrentCash - totalAmount
	if err := s.portfolioRepo.UpdateCashTx(tx, portfolio.ID, newCash, repository.FormatTime(now)); err != nil {
		return err
	}

	position, err := s.positionRepo.GetPositionTx(tx, portfolio.ID, ticker)
	if err == nil {
		totalShares := position.Shares + shares
		totalCost := position.CostBasis + totalAmount
		return s.positionRepo.UpdatePositionTx(tx, position.ID, totalShares, totalCost/totalShares, totalCost, repository.FormatTime(now))
	}
	if err != apperrors.ErrPositionNotFound {
		return err
	}

	return s.positionRepo.InsertPositionTx(tx, &model.Position{
		ID:          uuid.New().String(),
		PortfolioID: portfolio.ID,
		Ticker:      ticker,
		Shares:      shares,
		AverageCost: price,
		CostBasis:   totalAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// applySell credits cash and reduces the position pro rata, deleting it on
// a full exit. The cost basis sold is taken proportionally from the
// position's tracked cost basis rather than shares*average_cost, which
// avoids drift from the stored average.
func (s *LedgerService) applySell(tx *sql.Tx, portfolio *model.Portfolio, ticker string, shares, totalAmount float64, now time.Time) (costBasisSold, realizedPnl float64, err error) {
	position, err := s.positionRepo.GetPositionTx(tx, portfolio.ID, ticker)
	if err == apperrors.ErrPositionNotFound {
		return 0, 0, &apperrors.InsufficientSharesError{Ticker: ticker, Required: shares, Available: 0}
	}
	if err != nil {
		return 0, 0, err
	}
	if position.Shares < shares {
		return 0, 0, &apperrors.InsufficientSharesError{Ticker: ticker, Required: shares, Available: position.Shares}
	}

	costBasisSold = (shares / position.Shares) * position.CostBasis
	realizedPnl = totalAmount - costBasisSold

	newCash := portfolio.CurrentCash + totalAmount
	if err := s.portfolioRepo.UpdateCashTx(tx, portfolio.ID, newCash, repository.FormatTime(now)); err != nil {
		return 0, 0, err
	}

	if position.Shares == shares {
		// Full exit: the row goes away, never a zero-share position.
		if err := s.positionRepo.DeletePositionTx(tx, position.ID); err != nil {
			return 0, 0, err
		}
		return costBasisSold, realizedPnl, nil
	}

	remainingShares := position.Shares - shares
	remainingCost := position.CostBasis * (remainingShares / position.Shares)
	if err := s.positionRepo.UpdatePositionTx(tx, position.ID, remainingShares, position.AverageCost, remainingCost, repository.FormatTime(now)); err != nil {
		return 0, 0, err
	}

	return costBasisSold, realizedPnl, nil
}

// Deposit adds cash to a portfolio. Both starting_cash and current_cash
// move together so total-return percentages stay relative to contributed
// capital rather than treating deposits as gains.
func (s *LedgerService) Deposit(ctx context.Context, portfolioID string, amount float64) (*model.Portfolio, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: deposit", apperrors.ErrNegativeAmount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	portfolio, err := s.portfolioRepo.GetPortfolioTx(tx, portfolioID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	portfolio.StartingCash += amount
	portfolio.CurrentCash += amount
	portfolio.UpdatedAt = now

	if err := s.portfolioRepo.UpdateCashBalancesTx(tx, portfolio.ID, portfolio.StartingCash, portfolio.CurrentCash, repository.FormatTime(now)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Deposited $%.2f into portfolio %s", amount, portfolioID)
	return &portfolio, nil
}

// UpdateStopLoss stores an advisory stop-loss price on a position. The
// ledger records it but never sells on a breach; that decision belongs to
// external automation.
func (s *LedgerService) UpdateStopLoss(ctx context.Context, portfolioID, ticker string, stopLoss *float64) error {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return err
	}

	return s.positionRepo.UpdateStopLoss(portfolioID, ticker, stopLoss, repository.FormatTime(time.Now()))
}

// GetPortfolio returns a portfolio by ID.
func (s *LedgerService) GetPortfolio(ctx context.Context, portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolio(portfolioID)
}

// GetPortfolios returns all portfolios.
func (s *LedgerService) GetPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios()
}

// GetActivePortfolios returns all active portfolios.
func (s *LedgerService) GetActivePortfolios(ctx context.Context) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetActivePortfolios()
}

// GetDefaultPortfolio returns the oldest active portfolio.
func (s *LedgerService) GetDefaultPortfolio(ctx context.Context) (model.Portfolio, error) {
	return s.portfolioRepo.GetDefaultPortfolio()
}

// GetPositions returns all open positions for a portfolio ordered by ticker.
func (s *LedgerService) GetPositions(ctx context.Context, portfolioID string) ([]model.Position, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.positionRepo.GetPositions(portfolioID)
}

// GetTradeHistory returns recent trades for a portfolio, newest first.
// An empty ticker matches all tickers; limit <= 0 applies the default.
func (s *LedgerService) GetTradeHistory(ctx context.Context, portfolioID, ticker string, limit int) ([]model.Trade, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.tradeRepo.GetTrades(portfolioID, strings.ToUpper(strings.TrimSpace(ticker)), limit)
}

// GetSnapshots returns snapshot history for a portfolio in date order.
func (s *LedgerService) GetSnapshots(ctx context.Context, portfolioID string, startDate, endDate time.Time) ([]model.PortfolioSnapshot, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.snapshotRepo.GetSnapshots(portfolioID, startDate, endDate)
}

// GetSummary returns the portfolio's cash, valuation, and return figures.
// Valuation comes from the latest snapshot when one exists; otherwise the
// summary degrades to cash-only values.
func (s *LedgerService) GetSummary(ctx context.Context, portfolioID string) (model.PortfolioSummary, error) {
	portfolio, err := s.portfolioRepo.GetPortfolio(portfolioID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	positionCount, err := s.positionRepo.CountPositions(portfolioID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	tradeCount, err := s.tradeRepo.CountTrades(portfolioID)
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	summary := model.PortfolioSummary{
		PortfolioID:   portfolio.ID,
		Name:          portfolio.Name,
		StartingCash:  portfolio.StartingCash,
		CurrentCash:   portfolio.CurrentCash,
		PositionCount: positionCount,
		TradeCount:    tradeCount,
	}

	latest, err := s.snapshotRepo.GetLatestSnapshot(portfolioID)
	if err == apperrors.ErrSnapshotNotFound {
		summary.TotalEquity = portfolio.CurrentCash
		summary.LastUpdated = portfolio.CreatedAt
		return summary, nil
	}
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	summary.TotalEquity = latest.TotalEquity
	summary.TotalPositionsValue = latest.TotalPositionsValue
	summary.TotalReturn = latest.TotalReturn
	summary.TotalReturnPct = latest.TotalReturnPct
	summary.DailyReturn = latest.DailyReturn
	summary.LastUpdated = latest.SnapshotDate

	return summary, nil
}
