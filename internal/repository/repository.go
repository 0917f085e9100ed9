package repository

import (
	"context"
	"time"

	"gearshare-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByRef(ctx context.Context, ref domain.UserRef) (*domain.User, error)
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error)
	// SetAvailability flips both availability fields together so the
	// is_available/rental_status invariant cannot be broken halfway.
	SetAvailability(ctx context.Context, id int64, isAvailable bool, status domain.ListingRentalStatus) error
}

// PaymentUpdate carries the fields stamped when a rental payment settles.
type PaymentUpdate struct {
	Method        string
	TransactionID string
	PlatformFee   float64
	PaidAt        time.Time
}

// RentalRequestRepository persists the central aggregate. Every state
// transition method issues a conditional UPDATE scoped by the expected
// current state and returns ErrStale when no row matched; callers translate
// that into an invalid-transition failure. This is the sole synchronization
// point between the request path and the background jobs.
type RentalRequestRepository interface {
	Create(ctx context.Context, req *domain.RentalRequest) error
	GetByID(ctx context.Context, id int64) (*domain.RentalRequest, error)
	HasOpenRequest(ctx context.Context, listingID int64, renter domain.UserRef) (bool, error)
	ListByRenter(ctx context.Context, renter domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error)
	ListByOwner(ctx context.Context, owner domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error)

	UpdateDecision(ctx context.Context, id int64, status domain.RequestStatus, denialReason string) error
	UpdatePayment(ctx context.Context, id int64, p PaymentUpdate) error
	SetDeliveryOption(ctx context.Context, id int64, leg domain.DeliveryLeg) error
	MarkDeliveryPaid(ctx context.Context, id int64, shippedAt, expectedEnRouteAt, expectedDeliveredAt time.Time) error
	ConfirmPickup(ctx context.Context, id int64, role domain.ActorRole) error
	SetPickupComplete(ctx context.Context, id int64, deliveredAt time.Time) error
	SetDeliveryConfirmed(ctx context.Context, id int64) error
	InitiateReturn(ctx context.Context, id int64, leg domain.DeliveryLeg, overdue bool, lateFee, lateFeeDays float64) error
	MarkReturnPaid(ctx context.Context, id int64, shippedAt, expectedEnRouteAt, expectedDeliveredAt time.Time) error
	ConfirmReturn(ctx context.Context, id int64, role domain.ActorRole) error
	Complete(ctx context.Context, id int64) error
	MarkDeliveryRated(ctx context.Context, id int64) error
	MarkOwnerRated(ctx context.Context, id int64) error

	// Simulation engine queries.
	ListActiveDeliveries(ctx context.Context) ([]domain.RentalRequest, error)
	ListActiveReturnDeliveries(ctx context.Context) ([]domain.RentalRequest, error)
	MarkDeliveryEnRoute(ctx context.Context, id int64, at time.Time) error
	MarkDeliveryDelivered(ctx context.Context, id int64, at time.Time) error
	MarkReturnEnRoute(ctx context.Context, id int64, at time.Time) error
	MarkReturnDelivered(ctx context.Context, id int64, at time.Time) error

	// Overdue monitor queries.
	ListReturnOverdueCandidates(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error)
	MarkReturnOverdue(ctx context.Context, id int64, lateFee, lateFeeDays float64) error
	ExpireStalePending(ctx context.Context, asOf time.Time) (int64, error)
}

type DeliveryEventRepository interface {
	Append(ctx context.Context, event *domain.DeliveryEvent) error
	ListByRequest(ctx context.Context, requestID int64) ([]domain.DeliveryEvent, error)
}

type RatingRepository interface {
	// UpsertDeliveryRating overwrites on (request_id, rater_role) conflict.
	UpsertDeliveryRating(ctx context.Context, rating *domain.DeliveryRating) error
	ListDeliveryRatings(ctx context.Context, requestID int64) ([]domain.DeliveryRating, error)
	// InsertUserRating returns ErrDuplicate for a repeated
	// (rater, rated, listing) triple.
	InsertUserRating(ctx context.Context, rating *domain.UserRating) error
	ListUserRatings(ctx context.Context, rated domain.UserRef) ([]domain.UserRating, error)
}
