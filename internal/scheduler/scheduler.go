// Package scheduler runs the periodic snapshot job. The job values every
// active portfolio at current oracle prices so the snapshot history stays
// continuous without manual snapshot calls.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dcamoon/trading-backend/internal/service"
)

// Scheduler wraps a cron runner around the ledger's snapshot operation.
type Scheduler struct {
	cron   *cron.Cron
	ledger *service.LedgerService
}

// New creates a scheduler with a snapshot job on the given cron spec.
// Standard five-field specs are accepted, e.g. "0 22 * * 1-5" for 22:00
// on weekdays.
func New(spec string, ledger *service.LedgerService) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		ledger: ledger,
	}

	if _, err := s.cron.AddFunc(spec, s.snapshotAll); err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("Snapshot scheduler started")
}

// Stop halts the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Snapshot scheduler stopped")
}

// snapshotAll snapshots every active portfolio. Failures are logged per
// portfolio so one bad portfolio does not block the rest.
func (s *Scheduler) snapshotAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	portfolios, err := s.ledger.GetActivePortfolios(ctx)
	if err != nil {
		log.Printf("Scheduled snapshot: failed to list portfolios: %v", err)
		return
	}

	for _, p := range portfolios {
		if _, err := s.ledger.CreateSnapshot(ctx, p.ID, time.Time{}); err != nil {
			log.Printf("Scheduled snapshot failed for portfolio %s: %v", p.ID, err)
			continue
		}
		log.Printf("Scheduled snapshot recorded for portfolio %s", p.ID)
	}
}
