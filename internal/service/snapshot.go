package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/dcamoon/trading-backend/internal/apperrors"
	"github.com/dcamoon/trading-backend/internal/model"
)

// CreateSnapshot values a portfolio at the given instant and appends an
// immutable snapshot record with one child row per open position.
//
// Prices are resolved through the oracle before the write transaction
// opens, so the database never waits on the network. A position whose
// price cannot be obtained is valued at its average cost — a missing quote
// degrades the snapshot, it never fails it. The operation reads positions
// and cash but mutates neither; re-snapshotting the same date appends a
// new row.
func (s *LedgerService) CreateSnapshot(ctx context.Context, portfolioID string, at time.Time) (*model.PortfolioSnapshot, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	portfolio, err := s.portfolioRepo.GetPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}

	positions, err := s.positionRepo.GetPositions(portfolioID)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, len(positions))
	for i, p := range positions {
		tickers[i] = p.Ticker
	}
	prices := s.oracle.GetCurrentPrices(ctx, tickers)

	snapshotID := uuid.New().String()
	totalPositionsValue := 0.0
	positionSnapshots := make([]model.PositionSnapshot, 0, len(positions))

	for _, position := range positions {
		price, ok := prices[position.Ticker]
		if !ok {
			log.Printf("Could not get price for %s, using average cost", position.Ticker)
			price = position.AverageCost
		}

		marketValue := position.Shares * price
		unrealizedPnl := marketValue - position.CostBasis
		unrealizedPnlPct := 0.0
		if position.CostBasis > 0 {
			unrealizedPnlPct = unrealizedPnl / position.CostBasis * 100
		}

		totalPositionsValue += marketValue

		positionSnapshots = append(positionSnapshots, model.PositionSnapshot{
			ID:                  uuid.New().String(),
			PortfolioSnapshotID: snapshotID,
			Ticker:              position.Ticker,
			Shares:              position.Shares,
			CurrentPrice:        price,
			MarketValue:         marketValue,
			CostBasis:           position.CostBasis,
			UnrealizedPnl:       unrealizedPnl,
			UnrealizedPnlPct:    unrealizedPnlPct,
		})
	}

	totalEquity := portfolio.CurrentCash + totalPositionsValue
	totalReturn := totalEquity - portfolio.StartingCash
	totalReturnPct := 0.0
	if portfolio.StartingCash > 0 {
		totalReturnPct = totalReturn / portfolio.StartingCash * 100
	}

	dailyReturn := 0.0
	previous, err := s.snapshotRepo.GetLatestSnapshot(portfolioID)
	if err != nil && err != apperrors.ErrSnapshotNotFound {
		return nil, err
	}
	if err == nil && previous.TotalEquity != 0 {
		dailyReturn = (totalEquity - previous.TotalEquity) / previous.TotalEquity * 100
	}

	snapshot := &model.PortfolioSnapshot{
		ID:                  snapshotID,
		PortfolioID:         portfolioID,
		SnapshotDate:        at.UTC(),
		TotalEquity:         totalEquity,
		CashBalance:         portfolio.CurrentCash,
		TotalPositionsValue: totalPositionsValue,
		DailyReturn:         dailyReturn,
		TotalReturn:         totalReturn,
		TotalReturnPct:      totalReturnPct,
		CreatedAt:           time.Now().UTC(),
		Positions:           positionSnapshots,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := s.snapshotRepo.InsertSnapshotTx(tx, snapshot); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Created snapshot for portfolio %s: $%.2f total equity", portfolioID, totalEquity)
	return snapshot, nil
}
