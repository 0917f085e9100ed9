package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

// MockRentalRequestRepo
type MockRentalRequestRepo struct {
	mock.Mock
}

func (m *MockRentalRequestRepo) Create(ctx context.Context, req *domain.RentalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) GetByID(ctx context.Context, id int64) (*domain.RentalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRequestRepo) HasOpenRequest(ctx context.Context, listingID int64, renter domain.UserRef) (bool, error) {
	args := m.Called(ctx, listingID, renter)
	return args.Bool(0), args.Error(1)
}
func (m *MockRentalRequestRepo) ListByRenter(ctx context.Context, renter domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	args := m.Called(ctx, renter, status, page, pageSize)
	return args.Get(0).([]domain.RentalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRequestRepo) ListByOwner(ctx context.Context, owner domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	args := m.Called(ctx, owner, status, page, pageSize)
	return args.Get(0).([]domain.RentalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRequestRepo) UpdateDecision(ctx context.Context, id int64, status domain.RequestStatus, denialReason string) error {
	args := m.Called(ctx, id, status, denialReason)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) UpdatePayment(ctx context.Context, id int64, p repository.PaymentUpdate) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) SetDeliveryOption(ctx context.Context, id int64, leg domain.DeliveryLeg) error {
	args := m.Called(ctx, id, leg)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) MarkDeliveryPaid(ctx context.Context, id int64, shippedAt, expectedEnRouteAt, expectedDeliveredAt time.Time) error {
	args := m.Called(ctx, id, shippedAt, expectedEnRouteAt, expectedDeliveredAt)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) ConfirmPickup(ctx context.Context, id int64, role domain.ActorRole) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) SetPickupComplete(ctx context.Context, id int64, deliveredAt time.Time) error {
	args := m.Called(ctx, id, deliveredAt)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) SetDeliveryConfirmed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) InitiateReturn(ctx context.Context, id int64, leg domain.DeliveryLeg, overdue bool, lateFee, lateFeeDays float64) error {
	args := m.Called(ctx, id, leg, overdue, lateFee, lateFeeDays)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) MarkReturnPaid(ctx context.Context, id int64, shippedAt, expectedEnRouteAt, expectedDeliveredAt time.Time) error {
	args := m.Called(ctx, id, shippedAt, expectedEnRouteAt, expectedDeliveredAt)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) ConfirmReturn(ctx context.Context, id int64, role domain.ActorRole) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) Complete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) MarkDeliveryRated(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) MarkOwnerRated(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) ListActiveDeliveries(ctx context.Context) ([]domain.RentalRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRequestRepo) ListActiveReturnDeliveries(ctx context.Context) ([]domain.RentalRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRequestRepo) MarkDeliveryEnRoute(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) MarkDeliveryDelivered(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) MarkReturnEnRoute(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) MarkReturnDelivered(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) ListReturnOverdueCandidates(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.RentalRequest), args.Error(1)
}
func (m *MockRentalRequestRepo) MarkReturnOverdue(ctx context.Context, id int64, lateFee, lateFeeDays float64) error {
	args := m.Called(ctx, id, lateFee, lateFeeDays)
	return args.Error(0)
}
func (m *MockRentalRequestRepo) ExpireStalePending(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockListingRepo
type MockListingRepo struct {
	mock.Mock
}

func (m *MockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepo) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Listing), args.Get(1).(int32), args.Error(2)
}
func (m *MockListingRepo) SetAvailability(ctx context.Context, id int64, isAvailable bool, status domain.ListingRentalStatus) error {
	args := m.Called(ctx, id, isAvailable, status)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByRef(ctx context.Context, ref domain.UserRef) (*domain.User, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockDeliveryEventRepo
type MockDeliveryEventRepo struct {
	mock.Mock
}

func (m *MockDeliveryEventRepo) Append(ctx context.Context, event *domain.DeliveryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockDeliveryEventRepo) ListByRequest(ctx context.Context, requestID int64) ([]domain.DeliveryEvent, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]domain.DeliveryEvent), args.Error(1)
}

// MockRatingRepo
type MockRatingRepo struct {
	mock.Mock
}

func (m *MockRatingRepo) UpsertDeliveryRating(ctx context.Context, rating *domain.DeliveryRating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}
func (m *MockRatingRepo) ListDeliveryRatings(ctx context.Context, requestID int64) ([]domain.DeliveryRating, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]domain.DeliveryRating), args.Error(1)
}
func (m *MockRatingRepo) InsertUserRating(ctx context.Context, rating *domain.UserRating) error {
	args := m.Called(ctx, rating)
	return args.Error(0)
}
func (m *MockRatingRepo) ListUserRatings(ctx context.Context, rated domain.UserRef) ([]domain.UserRating, error) {
	args := m.Called(ctx, rated)
	return args.Get(0).([]domain.UserRating), args.Error(1)
}

// MockGeocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRequestSubmitted(ctx context.Context, to, toName, renterName, listingTitle string) error {
	args := m.Called(ctx, to, toName, renterName, listingTitle)
	return args.Error(0)
}
func (m *MockEmailService) SendRequestDecided(ctx context.Context, to, toName, listingTitle string, approved bool, denialReason string) error {
	args := m.Called(ctx, to, toName, listingTitle, approved, denialReason)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReceived(ctx context.Context, to, toName, listingTitle string, amount float64) error {
	args := m.Called(ctx, to, toName, listingTitle, amount)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnInitiated(ctx context.Context, to, toName, listingTitle string, lateFee float64) error {
	args := m.Called(ctx, to, toName, listingTitle, lateFee)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalCompleted(ctx context.Context, to, toName, listingTitle string) error {
	args := m.Called(ctx, to, toName, listingTitle)
	return args.Error(0)
}

// MockSnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) GetSnapshot(ctx context.Context, requestID int64) (*domain.TrackingSnapshot, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackingSnapshot), args.Error(1)
}
func (m *MockSnapshotCache) SetSnapshot(ctx context.Context, snap *domain.TrackingSnapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}
func (m *MockSnapshotCache) Invalidate(ctx context.Context, requestID int64) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}
