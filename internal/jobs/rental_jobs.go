package jobs

import (
	"context"
	"errors"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/pricing"
	"gearshare-backend/internal/repository"
)

// MarkOverdueReturns sweeps active rentals whose return window has lapsed and
// stamps the fee the renter would owe if they initiated the return right now.
// The figure keeps accruing sweep over sweep until the return actually
// starts.
func (jr *JobRunner) MarkOverdueReturns() {
	jr.runWithRecovery("MarkOverdueReturns", func() {
		ctx := context.Background()
		now := jr.now()

		candidates, err := jr.rentalRepo.ListReturnOverdueCandidates(ctx, now)
		if err != nil {
			logger.Error("Failed to list overdue return candidates", "error", err)
			return
		}

		marked := 0
		for i := range candidates {
			req := &candidates[i]
			window := pricing.ReturnWindowRemaining(req.EndDate, now)
			if window.State != domain.ReturnWindowOverdue {
				continue
			}

			dailyRate := 0.0
			if req.TotalDays > 0 {
				dailyRate = req.TotalPrice / float64(req.TotalDays)
			}
			fee := pricing.CalculateLateFee(req.EndDate, now, dailyRate)

			if err := jr.rentalRepo.MarkReturnOverdue(ctx, req.ID, fee.Amount, fee.DaysLate); err != nil {
				// The renter may have initiated the return between the list
				// and the update; skip and keep sweeping.
				if !errors.Is(err, repository.ErrStale) {
					logger.Error("Failed to mark return overdue", "request_id", req.ID, "error", err)
				}
				continue
			}
			if jr.cache != nil {
				if err := jr.cache.Invalidate(ctx, req.ID); err != nil {
					logger.Warn("Failed to invalidate tracking cache", "request_id", req.ID, "error", err)
				}
			}
			marked++
		}

		if marked > 0 {
			logger.Info("Marked returns overdue", "count", marked)
		}
	})
}

// ExpireStalePending expires pending requests whose start date has arrived
// without an owner decision.
func (jr *JobRunner) ExpireStalePending() {
	jr.runWithRecovery("ExpireStalePending", func() {
		ctx := context.Background()

		count, err := jr.rentalRepo.ExpireStalePending(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to expire stale pending requests", "error", err)
			return
		}
		if count > 0 {
			logger.Info("Expired stale pending requests", "count", count)
		}
	})
}
