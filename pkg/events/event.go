package events

import "time"

// Event defines the contract for everything published on the event stream.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PREFERENCE_CHANGED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
