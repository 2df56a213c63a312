package model

import "time"

type Event struct {
	ID          string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string       `json:"name" bson:"name" validate:"required,min=1,max=200"`
	Description string       `json:"description" bson:"description" validate:"required"`
	Category    CategoryList `json:"category" bson:"category" validate:"required,min=1,dive,category"`
	Date        time.Time    `json:"date" bson:"date" validate:"required"`
	Venue       string       `json:"venue" bson:"venue" validate:"required"`
	Price       float64      `json:"price" bson:"price" validate:"gte=0"`
	Image       string       `json:"image" bson:"image" validate:"required"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// EventUpdate carries a partial update; nil / zero fields are left untouched.
type EventUpdate struct {
	Name        string       `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description string       `json:"description,omitempty"`
	Category    CategoryList `json:"category,omitempty" validate:"omitempty,min=1,dive,category"`
	Date        *time.Time   `json:"date,omitempty"`
	Venue       string       `json:"venue,omitempty"`
	Price       *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	Image       string       `json:"image,omitempty"`
}

// TopBookedEvent is an Event together with its aggregate booking count,
// produced by the top-booked ranking pipeline.
type TopBookedEvent struct {
	Event        `bson:",inline"`
	BookingCount int64 `json:"booking_count" bson:"booking_count"`
}
