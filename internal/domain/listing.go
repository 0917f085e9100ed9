package domain

import "time"

type ListingRentalStatus string

const (
	ListingStatusAvailable      ListingRentalStatus = "available"
	ListingStatusPendingPayment ListingRentalStatus = "pending_payment"
	ListingStatusRented         ListingRentalStatus = "rented"
)

// Listing is a tech item offered for rent. IsAvailable must be false whenever
// RentalStatus is anything other than available; the rental state machine is
// the only writer of either field after creation.
type Listing struct {
	ID           int64               `json:"id"`
	Owner        UserRef             `json:"owner"`
	Title        string              `json:"title"`
	Category     string              `json:"category"`
	Description  string              `json:"description,omitempty"`
	PricePerDay  float64             `json:"price_per_day"`
	Lat          float64             `json:"lat"`
	Lng          float64             `json:"lng"`
	IsAvailable  bool                `json:"is_available"`
	RentalStatus ListingRentalStatus `json:"rental_status"`
	CreatedOn    time.Time           `json:"created_on"`
	UpdatedOn    time.Time           `json:"updated_on"`
}
