package service

import (
	"context"
	"errors"
	"time"

	"gearshare-backend/internal/apperr"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/pricing"
	"gearshare-backend/internal/repository"
)

type trackingService struct {
	rentalRepo repository.RentalRequestRepository
	eventRepo  repository.DeliveryEventRepository
	cache      SnapshotCache
	now        func() time.Time
}

func NewTrackingService(
	rentalRepo repository.RentalRequestRepository,
	eventRepo repository.DeliveryEventRepository,
	cache SnapshotCache,
) TrackingService {
	return &trackingService{
		rentalRepo: rentalRepo,
		eventRepo:  eventRepo,
		cache:      cache,
		now:        time.Now,
	}
}

func (s *trackingService) GetTracking(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.TrackingSnapshot, error) {
	req, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("rental request")
		}
		return nil, err
	}
	if _, ok := req.RoleOf(actor); !ok {
		return nil, apperr.NotFound("rental request")
	}

	if s.cache != nil {
		snap, err := s.cache.GetSnapshot(ctx, requestID)
		if err != nil {
			// Cache trouble never blocks a read, fall through to the store.
			logger.Warn("tracking cache read failed", "request_id", requestID, "error", err)
		} else if snap != nil {
			return snap, nil
		}
	}

	events, err := s.eventRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	snap := s.buildSnapshot(req, events)
	if s.cache != nil {
		if err := s.cache.SetSnapshot(ctx, snap); err != nil {
			logger.Warn("tracking cache write failed", "request_id", requestID, "error", err)
		}
	}
	return snap, nil
}

func (s *trackingService) buildSnapshot(req *domain.RentalRequest, events []domain.DeliveryEvent) *domain.TrackingSnapshot {
	now := s.now()
	snap := &domain.TrackingSnapshot{
		RequestID:         req.ID,
		Status:            req.Status,
		Delivery:          req.Delivery,
		DeliveryConfirmed: req.DeliveryConfirmed,
		Pickup:            req.Pickup,
		ReturnInitiated:   req.ReturnInitiated,
		Return:            req.Return,
		ReturnHandshake:   req.ReturnHandshake,
		AccruedLateFee:    req.CurrentLateFee,
		LateFeeDays:       req.LateFeeDays,
		Events:            events,
		GeneratedAt:       now,
	}

	window := pricing.ReturnWindowRemaining(req.EndDate, now)
	snap.ReturnWindow = window.State
	snap.HoursRemaining = window.HoursRemaining
	snap.HoursOverdue = window.HoursOverdue

	// While the return is outstanding the fee shown is a live estimate as if
	// the renter initiated it right now.
	if req.Status == domain.RequestStatusPaid && !req.ReturnInitiated && window.State == domain.ReturnWindowOverdue {
		dailyRate := 0.0
		if req.TotalDays > 0 {
			dailyRate = req.TotalPrice / float64(req.TotalDays)
		}
		fee := pricing.CalculateLateFee(req.EndDate, now, dailyRate)
		snap.AccruedLateFee = fee.Amount
		snap.LateFeeDays = fee.DaysLate
	}
	return snap
}
