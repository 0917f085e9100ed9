package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gearshare-backend/internal/domain"
)

// MockRentalService
type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) SubmitRequest(ctx context.Context, renter domain.UserRef, listingID int64, startDate, endDate, message string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, renter, listingID, startDate, endDate, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) Decide(ctx context.Context, actor domain.UserRef, requestID int64, status domain.RequestStatus, denialReason string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actor, requestID, status, denialReason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) Pay(ctx context.Context, actor domain.UserRef, requestID int64, method, transactionID string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actor, requestID, method, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) ChooseDelivery(ctx context.Context, actor domain.UserRef, requestID int64, option domain.DeliveryOption, address string) (*domain.RentalRequest, bool, error) {
	args := m.Called(ctx, actor, requestID, option, address)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.RentalRequest), args.Bool(1), args.Error(2)
}
func (m *MockRentalService) PayDeliveryFee(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) ConfirmPickup(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) InitiateReturn(ctx context.Context, actor domain.UserRef, requestID int64, option domain.DeliveryOption, address string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actor, requestID, option, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) PayReturnDeliveryFee(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) ConfirmReturn(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) GetRequest(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}
func (m *MockRentalService) ListForRenter(ctx context.Context, actor domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	args := m.Called(ctx, actor, status, page, pageSize)
	return args.Get(0).([]domain.RentalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalService) ListForOwner(ctx context.Context, actor domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	args := m.Called(ctx, actor, status, page, pageSize)
	return args.Get(0).([]domain.RentalRequest), args.Get(1).(int32), args.Error(2)
}

// MockTrackingService
type MockTrackingService struct {
	mock.Mock
}

func (m *MockTrackingService) GetTracking(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.TrackingSnapshot, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackingSnapshot), args.Error(1)
}

// MockRatingService
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) RateDelivery(ctx context.Context, actor domain.UserRef, requestID int64, delivery, itemCondition, communication int32) (*domain.DeliveryRating, error) {
	args := m.Called(ctx, actor, requestID, delivery, itemCondition, communication)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeliveryRating), args.Error(1)
}
func (m *MockRatingService) RateUser(ctx context.Context, actor domain.UserRef, requestID int64, rating int32, review string) (*domain.UserRating, error) {
	args := m.Called(ctx, actor, requestID, rating, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRating), args.Error(1)
}
func (m *MockRatingService) ListUserRatings(ctx context.Context, rated domain.UserRef) ([]domain.UserRating, error) {
	args := m.Called(ctx, rated)
	return args.Get(0).([]domain.UserRating), args.Error(1)
}

// MockListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) CreateListing(ctx context.Context, owner domain.UserRef, listing *domain.Listing, address string) (*domain.Listing, error) {
	args := m.Called(ctx, owner, listing, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Listing), args.Get(1).(int32), args.Error(2)
}
