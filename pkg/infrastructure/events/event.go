package events

import (
	"time"
)

// Event is an immutable fact recorded during a planning run
type Event interface {
	Type() string
	StreamID() string
	Data() interface{}
	Timestamp() time.Time
	Version() int
}

// EventHandler reacts to appended events. Handlers are called on the
// appending goroutine, possibly from several goroutines at once.
type EventHandler interface {
	Handle(event Event) error
}

// HandlerFunc adapts an ordinary function to EventHandler
type HandlerFunc func(event Event) error

// Handle calls f(event)
func (f HandlerFunc) Handle(event Event) error {
	return f(event)
}

// SubscriptionID identifies one Subscribe call
type SubscriptionID uint64

// EventStore appends events to per-stream logs and reads them back
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
}

// EventBus fans appended events out to subscribers.
// Subscribing with no event types receives every event.
type EventBus interface {
	Subscribe(handler EventHandler, eventTypes ...string) SubscriptionID
	Unsubscribe(id SubscriptionID) bool
}

// Record is the stored form of an event, with the version assigned by the store
type Record struct {
	EventType    string      `json:"type"`
	Stream       string      `json:"stream_id"`
	EventData    interface{} `json:"data"`
	EventTime    time.Time   `json:"timestamp"`
	EventVersion int         `json:"version"`
}

func (r Record) Type() string         { return r.EventType }
func (r Record) StreamID() string     { return r.Stream }
func (r Record) Data() interface{}    { return r.EventData }
func (r Record) Timestamp() time.Time { return r.EventTime }
func (r Record) Version() int         { return r.EventVersion }

// NewEvent stamps an event with the current time; the store assigns the version
func NewEvent(eventType, streamID string, data interface{}) Event {
	return Record{
		EventType:    eventType,
		Stream:       streamID,
		EventData:    data,
		EventTime:    time.Now(),
		EventVersion: 1,
	}
}
