package domain

import "time"

type DeliveryEventType string

const (
	DeliveryEventShipped   DeliveryEventType = "shipped"
	DeliveryEventEnRoute   DeliveryEventType = "en_route"
	DeliveryEventDelivered DeliveryEventType = "delivered"
	// PickupConfirmed covers the in-person handshake; DeliveryConfirmed is
	// the renter acknowledging receipt of a courier delivery.
	DeliveryEventPickupConfirmed   DeliveryEventType = "pickup_confirmed"
	DeliveryEventDeliveryConfirmed DeliveryEventType = "delivery_confirmed"
	DeliveryEventReturnInitiated   DeliveryEventType = "return_initiated"
	DeliveryEventReturnShipped     DeliveryEventType = "return_shipped"
	DeliveryEventReturnEnRoute     DeliveryEventType = "return_en_route"
	DeliveryEventReturnDelivered   DeliveryEventType = "return_delivered"
	DeliveryEventReturnConfirmed   DeliveryEventType = "return_confirmed"
)

// DeliveryEvent is an append-only audit record; rows are never updated or
// deleted.
type DeliveryEvent struct {
	ID          int64             `json:"id"`
	RequestID   int64             `json:"request_id"`
	EventType   DeliveryEventType `json:"event_type"`
	Description string            `json:"description"`
	EventTime   time.Time         `json:"event_time"`
}

// ReturnWindowState classifies a rental against its 36-hour return grace
// window.
type ReturnWindowState string

const (
	ReturnWindowNotStarted ReturnWindowState = "not_started"
	ReturnWindowOpen       ReturnWindowState = "open"
	ReturnWindowOverdue    ReturnWindowState = "overdue"
)

// TrackingSnapshot is the read model served by the tracking endpoint and
// cached between simulation ticks.
type TrackingSnapshot struct {
	RequestID         int64             `json:"request_id"`
	Status            RequestStatus     `json:"status"`
	Delivery          DeliveryLeg       `json:"delivery"`
	DeliveryConfirmed bool              `json:"delivery_confirmed"`
	Pickup            TwoPartyHandshake `json:"pickup"`
	ReturnInitiated   bool              `json:"return_initiated"`
	Return            DeliveryLeg       `json:"return"`
	ReturnHandshake   TwoPartyHandshake `json:"return_handshake"`
	ReturnWindow      ReturnWindowState `json:"return_window"`
	HoursRemaining    float64           `json:"hours_remaining,omitempty"`
	HoursOverdue      float64           `json:"hours_overdue,omitempty"`
	AccruedLateFee    float64           `json:"accrued_late_fee"`
	LateFeeDays       float64           `json:"late_fee_days"`
	Events            []DeliveryEvent   `json:"events"`
	GeneratedAt       time.Time         `json:"generated_at"`
}
