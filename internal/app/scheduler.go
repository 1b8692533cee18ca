package app

import (
	"context"
	"time"

	"github.com/parkside-eng/ledgerd/internal/common"
	"github.com/parkside-eng/ledgerd/internal/interfaces"
)

// StartSweepScheduler launches the background goroutine that periodically
// completes pending transactions whose date has arrived. One sweep runs
// immediately at startup to catch transfers that came due while the
// process was down.
func (a *App) StartSweepScheduler() {
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	a.sweepCancel = sweepCancel
	go runSweepScheduler(sweepCtx, a.Ledger, a.Logger, a.Config.Sweep.GetInterval())
}

func runSweepScheduler(ctx context.Context, ledger interfaces.LedgerService, logger *common.Logger, interval time.Duration) {
	sweep(ctx, ledger, logger)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Sweep scheduler: stopped")
			return
		case <-ticker.C:
			sweep(ctx, ledger, logger)
		}
	}
}

func sweep(ctx context.Context, ledger interfaces.LedgerService, logger *common.Logger) {
	completed, err := ledger.RunSweep(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Sweep scheduler: sweep failed")
		return
	}
	if completed > 0 {
		logger.Info().Int("completed", completed).Msg("Sweep scheduler: pending transactions completed")
	}
}
