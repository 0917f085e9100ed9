package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/repository"
)

// AdvanceDeliveries advances simulated courier runs against their precomputed
// expected timestamps. It never stamps wall-clock time, always the expected
// instant, so the recorded schedule stays consistent however late a tick
// fires. Reruns with no time advance are no-ops.
func (jr *JobRunner) AdvanceDeliveries() {
	jr.runWithRecovery("AdvanceDeliveries", func() {
		ctx := context.Background()
		now := jr.now()

		outbound := jr.advanceOutbound(ctx, now)
		returns := jr.advanceReturns(ctx, now)
		if outbound+returns > 0 {
			logger.Info("Advanced deliveries", "outbound", outbound, "returns", returns)
		}
	})
}

func (jr *JobRunner) advanceOutbound(ctx context.Context, now time.Time) int {
	requests, err := jr.rentalRepo.ListActiveDeliveries(ctx)
	if err != nil {
		logger.Error("Failed to list active deliveries", "error", err)
		return 0
	}

	advanced := 0
	for i := range requests {
		req := &requests[i]
		if jr.advanceLeg(ctx, req.ID, req.Delivery, now, false) {
			advanced++
		}
	}
	return advanced
}

func (jr *JobRunner) advanceReturns(ctx context.Context, now time.Time) int {
	requests, err := jr.rentalRepo.ListActiveReturnDeliveries(ctx)
	if err != nil {
		logger.Error("Failed to list active return deliveries", "error", err)
		return 0
	}

	advanced := 0
	for i := range requests {
		req := &requests[i]
		if jr.advanceLeg(ctx, req.ID, req.Return, now, true) {
			advanced++
		}
	}
	return advanced
}

// advanceLeg moves one leg at most one step forward. Delivered wins over
// en_route when both deadlines have passed. A stale update means a concurrent
// writer already advanced the row; that is not an error.
func (jr *JobRunner) advanceLeg(ctx context.Context, requestID int64, leg domain.DeliveryLeg, now time.Time, isReturn bool) bool {
	if leg.ExpectedDeliveredAt != nil && !now.Before(*leg.ExpectedDeliveredAt) {
		at := *leg.ExpectedDeliveredAt
		var err error
		if isReturn {
			err = jr.rentalRepo.MarkReturnDelivered(ctx, requestID, at)
		} else {
			err = jr.rentalRepo.MarkDeliveryDelivered(ctx, requestID, at)
		}
		if err != nil {
			if !errors.Is(err, repository.ErrStale) {
				logger.Error("Failed to mark delivered", "request_id", requestID, "return", isReturn, "error", err)
			}
			return false
		}
		jr.recordTransition(ctx, requestID, deliveredEventType(isReturn), "Item delivered", at)
		return true
	}

	if leg.Status == domain.DeliveryStatusShipped && leg.ExpectedEnRouteAt != nil && !now.Before(*leg.ExpectedEnRouteAt) {
		at := *leg.ExpectedEnRouteAt
		var err error
		if isReturn {
			err = jr.rentalRepo.MarkReturnEnRoute(ctx, requestID, at)
		} else {
			err = jr.rentalRepo.MarkDeliveryEnRoute(ctx, requestID, at)
		}
		if err != nil {
			if !errors.Is(err, repository.ErrStale) {
				logger.Error("Failed to mark en route", "request_id", requestID, "return", isReturn, "error", err)
			}
			return false
		}
		jr.recordTransition(ctx, requestID, enRouteEventType(isReturn), "Courier is on the way", at)
		return true
	}

	return false
}

func (jr *JobRunner) recordTransition(ctx context.Context, requestID int64, eventType domain.DeliveryEventType, description string, at time.Time) {
	ev := &domain.DeliveryEvent{
		RequestID:   requestID,
		EventType:   eventType,
		Description: fmt.Sprintf("%s at %s", description, at.Format(time.RFC3339)),
		EventTime:   at,
	}
	if err := jr.eventRepo.Append(ctx, ev); err != nil {
		logger.Error("Failed to append delivery event", "request_id", requestID, "event_type", eventType, "error", err)
	}
	if jr.cache != nil {
		if err := jr.cache.Invalidate(ctx, requestID); err != nil {
			logger.Warn("Failed to invalidate tracking cache", "request_id", requestID, "error", err)
		}
	}
}

func deliveredEventType(isReturn bool) domain.DeliveryEventType {
	if isReturn {
		return domain.DeliveryEventReturnDelivered
	}
	return domain.DeliveryEventDelivered
}

func enRouteEventType(isReturn bool) domain.DeliveryEventType {
	if isReturn {
		return domain.DeliveryEventReturnEnRoute
	}
	return domain.DeliveryEventEnRoute
}
