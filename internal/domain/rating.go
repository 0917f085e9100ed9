package domain

import "time"

// DeliveryRating scores the logistics of one rental. One row per
// (request, rater role); resubmission overwrites.
type DeliveryRating struct {
	ID            int64     `json:"id"`
	RequestID     int64     `json:"request_id"`
	RaterRole     ActorRole `json:"rater_role"`
	Delivery      int32     `json:"delivery"`
	ItemCondition int32     `json:"item_condition"`
	Communication int32     `json:"communication"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

// UserRating is a user-to-user review tied to a listing. One row per
// (rater, rated, listing); duplicates are rejected.
type UserRating struct {
	ID        int64     `json:"id"`
	Rater     UserRef   `json:"rater"`
	Rated     UserRef   `json:"rated"`
	ListingID int64     `json:"listing_id"`
	Rating    int32     `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}
