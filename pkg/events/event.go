package events

import "time"

// Event is anything published on the cross-service bus. EventType is the
// upper-case event code; publishers derive the subject from it.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}
