package events

import (
	"sync"

	"github.com/vsinha/mrpplan/pkg/infrastructure/logger"
)

type subscription struct {
	id      SubscriptionID
	handler EventHandler
	types   map[string]bool // nil matches every type
}

func (s subscription) matches(eventType string) bool {
	return s.types == nil || s.types[eventType]
}

// InMemoryEventStore keeps every appended event for the life of the process.
// Subscribers are notified synchronously after the event is stored.
type InMemoryEventStore struct {
	mu            sync.RWMutex
	streams       map[string][]Event
	log           []Event
	subscriptions []subscription
	nextID        SubscriptionID
}

var (
	_ EventStore = (*InMemoryEventStore)(nil)
	_ EventBus   = (*InMemoryEventStore)(nil)
)

// NewInMemoryEventStore creates an empty store with no subscribers
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		streams: make(map[string][]Event),
	}
}

// AppendEvent versions the event within its stream, stores it and delivers it
// to matching subscribers. Handler errors are logged, never returned.
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mu.Lock()
	stored := Record{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], stored)
	s.log = append(s.log, stored)

	var handlers []EventHandler
	for _, sub := range s.subscriptions {
		if sub.matches(stored.EventType) {
			handlers = append(handlers, sub.handler)
		}
	}
	s.mu.Unlock()

	for _, handler := range handlers {
		if err := handler.Handle(stored); err != nil {
			logger.Logger.Error().
				Err(err).
				Str("event_type", stored.EventType).
				Str("stream_id", streamID).
				Msg("Event handler failed")
		}
	}
	return nil
}

// ReadEvents returns a stream's events starting at fromVersion (1-based)
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(stream) {
		return []Event{}, nil
	}
	return append([]Event(nil), stream[fromVersion-1:]...), nil
}

// ReadAllEvents returns every event from the 0-based position onwards
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.log) {
		return []Event{}, nil
	}
	return append([]Event(nil), s.log[fromPosition:]...), nil
}

// Len returns the number of events appended across all streams
func (s *InMemoryEventStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}

// Subscribe registers handler for the given event types, or for all events
// when none are given
func (s *InMemoryEventStore) Subscribe(handler EventHandler, eventTypes ...string) SubscriptionID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	sub := subscription{id: s.nextID, handler: handler}
	if len(eventTypes) > 0 {
		sub.types = make(map[string]bool, len(eventTypes))
		for _, eventType := range eventTypes {
			sub.types[eventType] = true
		}
	}
	s.subscriptions = append(s.subscriptions, sub)
	return sub.id
}

// Unsubscribe removes a subscription. It reports whether id was registered.
func (s *InMemoryEventStore) Unsubscribe(id SubscriptionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subscriptions {
		if sub.id == id {
			s.subscriptions = append(s.subscriptions[:i], s.subscriptions[i+1:]...)
			return true
		}
	}
	return false
}
