package model

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID    string    `json:"user_id" bson:"user" validate:"required,mongodb"`
	EventID   string    `json:"event_id" bson:"event" validate:"required,mongodb"`
	Quantity  int       `json:"quantity" bson:"quantity" validate:"required,min=1"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// UserBooking is a booking with its referenced event embedded, as returned
// by the caller-facing booking listing.
type UserBooking struct {
	Booking `bson:",inline"`
	Event   *Event `json:"event,omitempty" bson:"event_doc,omitempty"`
}

// EventBooking is a booking with its owner's public identity embedded, as
// returned by the admin roster for one event.
type EventBooking struct {
	Booking `bson:",inline"`
	User    *UserSummary `json:"user,omitempty" bson:"user_doc,omitempty"`
}
