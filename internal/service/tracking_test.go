package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gearshare-backend/internal/apperr"
	"gearshare-backend/internal/domain"
)

type trackingFixture struct {
	rentalRepo *MockRentalRequestRepo
	eventRepo  *MockDeliveryEventRepo
	cache      *MockSnapshotCache
	svc        *trackingService
}

func newTrackingFixture(now time.Time) *trackingFixture {
	f := &trackingFixture{
		rentalRepo: new(MockRentalRequestRepo),
		eventRepo:  new(MockDeliveryEventRepo),
		cache:      new(MockSnapshotCache),
	}
	f.svc = NewTrackingService(f.rentalRepo, f.eventRepo, f.cache).(*trackingService)
	f.svc.now = func() time.Time { return now }
	return f
}

func TestTrackingService_GetTracking(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)

	activeRequest := func() *domain.RentalRequest {
		req := pendingRequest()
		req.Status = domain.RequestStatusPaid
		req.Delivery = domain.DeliveryLeg{Option: domain.DeliveryOptionDelivery, Paid: true, Status: domain.DeliveryStatusEnRoute}
		return req
	}

	t.Run("CacheHit", func(t *testing.T) {
		f := newTrackingFixture(now)
		cached := &domain.TrackingSnapshot{RequestID: 42, Status: domain.RequestStatusPaid}
		f.rentalRepo.On("GetByID", ctx, int64(42)).Return(activeRequest(), nil)
		f.cache.On("GetSnapshot", ctx, int64(42)).Return(cached, nil)

		snap, err := f.svc.GetTracking(ctx, testRenter, 42)
		assert.NoError(t, err)
		assert.Same(t, cached, snap)
		f.eventRepo.AssertNotCalled(t, "ListByRequest", ctx, int64(42))
	})

	t.Run("CacheMissBuildsAndStores", func(t *testing.T) {
		f := newTrackingFixture(now)
		events := []domain.DeliveryEvent{{ID: 1, RequestID: 42, EventType: domain.DeliveryEventShipped}}
		f.rentalRepo.On("GetByID", ctx, int64(42)).Return(activeRequest(), nil)
		f.cache.On("GetSnapshot", ctx, int64(42)).Return(nil, nil)
		f.eventRepo.On("ListByRequest", ctx, int64(42)).Return(events, nil)
		f.cache.On("SetSnapshot", ctx, mock.AnythingOfType("*domain.TrackingSnapshot")).Return(nil)

		snap, err := f.svc.GetTracking(ctx, testRenter, 42)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), snap.RequestID)
		assert.Equal(t, domain.RequestStatusPaid, snap.Status)
		assert.Len(t, snap.Events, 1)
		assert.Equal(t, now, snap.GeneratedAt)
		f.cache.AssertCalled(t, "SetSnapshot", ctx, mock.AnythingOfType("*domain.TrackingSnapshot"))
	})

	t.Run("CacheFailureFallsThrough", func(t *testing.T) {
		f := newTrackingFixture(now)
		f.rentalRepo.On("GetByID", ctx, int64(42)).Return(activeRequest(), nil)
		f.cache.On("GetSnapshot", ctx, int64(42)).Return(nil, errors.New("redis down"))
		f.eventRepo.On("ListByRequest", ctx, int64(42)).Return([]domain.DeliveryEvent{}, nil)
		f.cache.On("SetSnapshot", ctx, mock.AnythingOfType("*domain.TrackingSnapshot")).Return(errors.New("redis down"))

		snap, err := f.svc.GetTracking(ctx, testRenter, 42)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), snap.RequestID)
	})

	t.Run("OverdueShowsLiveEstimate", func(t *testing.T) {
		// 50 hours past the end date at a 100/day rate: half-day plus one full
		// day, same as if the renter initiated the return right now.
		late := time.Date(2025, 5, 8, 2, 0, 0, 0, time.UTC)
		f := newTrackingFixture(late)
		req := activeRequest()
		req.Delivery.Status = domain.DeliveryStatusDelivered
		req.DeliveryConfirmed = true

		f.rentalRepo.On("GetByID", ctx, int64(42)).Return(req, nil)
		f.cache.On("GetSnapshot", ctx, int64(42)).Return(nil, nil)
		f.eventRepo.On("ListByRequest", ctx, int64(42)).Return([]domain.DeliveryEvent{}, nil)
		f.cache.On("SetSnapshot", ctx, mock.AnythingOfType("*domain.TrackingSnapshot")).Return(nil)

		snap, err := f.svc.GetTracking(ctx, testRenter, 42)
		assert.NoError(t, err)
		assert.Equal(t, domain.ReturnWindowOverdue, snap.ReturnWindow)
		assert.Equal(t, 150.0, snap.AccruedLateFee)
		assert.Equal(t, 1.5, snap.LateFeeDays)
	})

	t.Run("StrangerGetsNotFound", func(t *testing.T) {
		f := newTrackingFixture(now)
		f.rentalRepo.On("GetByID", ctx, int64(42)).Return(activeRequest(), nil)

		_, err := f.svc.GetTracking(ctx, domain.UserRef{Type: domain.UserTypeGoogle, ID: "stranger"}, 42)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}
