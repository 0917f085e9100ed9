package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusDenied    RequestStatus = "denied"
	RequestStatusExpired   RequestStatus = "expired"
	RequestStatusPaid      RequestStatus = "paid"
	RequestStatusCompleted RequestStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type DeliveryOption string

const (
	DeliveryOptionPickup   DeliveryOption = "pickup"
	DeliveryOptionDelivery DeliveryOption = "delivery"
)

type DeliveryStatus string

const (
	DeliveryStatusShipped   DeliveryStatus = "shipped"
	DeliveryStatusEnRoute   DeliveryStatus = "en_route"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
)

// TwoPartyHandshake is the small confirmation state machine requiring both
// counterparties to independently acknowledge an event. The same shape gates
// pickup and return.
type TwoPartyHandshake struct {
	RenterConfirmed bool `json:"renter_confirmed"`
	ListerConfirmed bool `json:"lister_confirmed"`
}

func (h *TwoPartyHandshake) Confirm(role ActorRole) {
	switch role {
	case RoleRenter:
		h.RenterConfirmed = true
	case RoleLister:
		h.ListerConfirmed = true
	}
}

func (h TwoPartyHandshake) BothConfirmed() bool {
	return h.RenterConfirmed && h.ListerConfirmed
}

func (h TwoPartyHandshake) ConfirmedBy(role ActorRole) bool {
	if role == RoleRenter {
		return h.RenterConfirmed
	}
	return h.ListerConfirmed
}

// DeliveryLeg captures one simulated courier run. The same shape serves the
// outbound delivery and the return trip; Option is empty until chosen.
// ExpectedEnRouteAt/ExpectedDeliveredAt are computed exactly once when the
// leg's fee is settled and are the scheduling contract the simulation engine
// advances against.
type DeliveryLeg struct {
	Option              DeliveryOption `json:"option,omitempty"`
	Cost                float64        `json:"cost"`
	DistanceKm          float64        `json:"distance_km"`
	Address             string         `json:"address,omitempty"`
	Lat                 float64        `json:"lat,omitempty"`
	Lng                 float64        `json:"lng,omitempty"`
	Paid                bool           `json:"paid"`
	Status              DeliveryStatus `json:"status,omitempty"`
	ShippedAt           *time.Time     `json:"shipped_at,omitempty"`
	EnRouteAt           *time.Time     `json:"en_route_at,omitempty"`
	DeliveredAt         *time.Time     `json:"delivered_at,omitempty"`
	ExpectedEnRouteAt   *time.Time     `json:"expected_en_route_at,omitempty"`
	ExpectedDeliveredAt *time.Time     `json:"expected_delivered_at,omitempty"`
}

// Chosen reports whether a delivery option has been selected for this leg.
func (l DeliveryLeg) Chosen() bool { return l.Option != "" }

// RentalRequest is the central aggregate of the marketplace: one renter's
// request against one listing, from submission through return and completion.
type RentalRequest struct {
	ID        int64   `json:"id"`
	ListingID int64   `json:"listing_id"`
	Renter    UserRef `json:"renter"`
	// Owner is snapshotted from the listing at submission so authorization
	// checks never need a join.
	Owner UserRef `json:"owner"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	TotalDays int32     `json:"total_days"`

	TotalPrice  float64 `json:"total_price"`
	PlatformFee float64 `json:"platform_fee"`

	Status       RequestStatus `json:"status"`
	DenialReason string        `json:"denial_reason,omitempty"`
	Message      string        `json:"message,omitempty"`

	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	TransactionID string        `json:"transaction_id,omitempty"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`

	Delivery          DeliveryLeg       `json:"delivery"`
	DeliveryConfirmed bool              `json:"delivery_confirmed"`
	Pickup            TwoPartyHandshake `json:"pickup"`

	ReturnInitiated bool              `json:"return_initiated"`
	Return          DeliveryLeg       `json:"return"`
	ReturnHandshake TwoPartyHandshake `json:"return_handshake"`

	ReturnOverdue  bool    `json:"return_overdue"`
	CurrentLateFee float64 `json:"current_late_fee"`
	LateFeeDays    float64 `json:"late_fee_days"`

	DeliveryRated bool `json:"delivery_rated"`
	OwnerRated    bool `json:"owner_rated"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// RoleOf returns the actor's role on this request, or false when the actor is
// not a participant.
func (r *RentalRequest) RoleOf(actor UserRef) (ActorRole, bool) {
	switch {
	case r.Renter.Equal(actor):
		return RoleRenter, true
	case r.Owner.Equal(actor):
		return RoleLister, true
	default:
		return "", false
	}
}

// HandedOver reports whether the item has reached the renter: either the
// courier marked it delivered (and the renter confirmed receipt) or both
// parties confirmed an in-person pickup.
func (r *RentalRequest) HandedOver() bool {
	if r.Delivery.Option == DeliveryOptionDelivery {
		return r.DeliveryConfirmed
	}
	return r.Pickup.BothConfirmed()
}
