package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Header keys carried on every published message.
const (
	HeaderMessageID = "message-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// Event types emitted by the booking service.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

type Message struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// NewEventMessage builds a message for a domain event. The key routes all
// messages for one booking to the same partition.
func NewEventMessage(eventType, key string, payload any) (Message, error) {
	value, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	now := time.Now().UTC()
	return Message{
		Key:   key,
		Value: value,
		Headers: map[string]string{
			HeaderMessageID: uuid.NewString(),
			HeaderEventType: eventType,
			HeaderSource:    "eventy",
			HeaderTimestamp: now.Format(time.RFC3339),
		},
		Timestamp: now,
	}, nil
}
