package service

import (
	"context"

	"gearshare-backend/internal/domain"
)

type ListingService interface {
	CreateListing(ctx context.Context, owner domain.UserRef, listing *domain.Listing, address string) (*domain.Listing, error)
	GetListing(ctx context.Context, id int64) (*domain.Listing, error)
	ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error)
}

type RentalService interface {
	SubmitRequest(ctx context.Context, renter domain.UserRef, listingID int64, startDate, endDate, message string) (*domain.RentalRequest, error)
	Decide(ctx context.Context, actor domain.UserRef, requestID int64, status domain.RequestStatus, denialReason string) (*domain.RentalRequest, error)
	Pay(ctx context.Context, actor domain.UserRef, requestID int64, method, transactionID string) (*domain.RentalRequest, error)
	// ChooseDelivery additionally reports whether a delivery fee payment step
	// is still required.
	ChooseDelivery(ctx context.Context, actor domain.UserRef, requestID int64, option domain.DeliveryOption, address string) (*domain.RentalRequest, bool, error)
	PayDeliveryFee(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error)
	ConfirmPickup(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error)
	InitiateReturn(ctx context.Context, actor domain.UserRef, requestID int64, option domain.DeliveryOption, address string) (*domain.RentalRequest, error)
	PayReturnDeliveryFee(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error)
	ConfirmReturn(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error)
	GetRequest(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error)
	ListForRenter(ctx context.Context, actor domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error)
	ListForOwner(ctx context.Context, actor domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error)
}

type TrackingService interface {
	GetTracking(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.TrackingSnapshot, error)
}

type RatingService interface {
	RateDelivery(ctx context.Context, actor domain.UserRef, requestID int64, delivery, itemCondition, communication int32) (*domain.DeliveryRating, error)
	RateUser(ctx context.Context, actor domain.UserRef, requestID int64, rating int32, review string) (*domain.UserRating, error)
	ListUserRatings(ctx context.Context, rated domain.UserRef) ([]domain.UserRating, error)
}

// EmailService sends lifecycle notification emails. Callers treat failures
// as best-effort: log and move on, never fail the triggering operation.
type EmailService interface {
	SendRequestSubmitted(ctx context.Context, to, toName, renterName, listingTitle string) error
	SendRequestDecided(ctx context.Context, to, toName, listingTitle string, approved bool, denialReason string) error
	SendPaymentReceived(ctx context.Context, to, toName, listingTitle string, amount float64) error
	SendReturnInitiated(ctx context.Context, to, toName, listingTitle string, lateFee float64) error
	SendRentalCompleted(ctx context.Context, to, toName, listingTitle string) error
}

// SnapshotCache is the read cache in front of tracking snapshots. A nil
// snapshot with nil error is a miss.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, requestID int64) (*domain.TrackingSnapshot, error)
	SetSnapshot(ctx context.Context, snap *domain.TrackingSnapshot) error
	Invalidate(ctx context.Context, requestID int64) error
}
