package events

import "time"

// Event is anything forwarded to the external bus.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// WireEvent is the JSON shape written to the bus.
type WireEvent struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func Envelope(e Event) WireEvent {
	data := e.Payload()
	if data == nil {
		data = map[string]interface{}{}
	}
	return WireEvent{
		Type:       e.EventType(),
		OccurredAt: e.Timestamp().UTC(),
		Data:       data,
	}
}
