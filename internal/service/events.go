package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventNodeAdded         EventType = "node_added"
	EventNodeRemoved       EventType = "node_removed"
	EventNodeMoved         EventType = "node_moved"
	EventNodeUpdated       EventType = "node_updated"
	EventNodesDragged      EventType = "nodes_dragged"
	EventConnectionCreated EventType = "connection_created"
	EventConnectionRemoved EventType = "connection_removed"
	EventSelectionChanged  EventType = "selection_changed"
	EventGraphSaved        EventType = "graph_saved"
	EventGraphLoaded       EventType = "graph_loaded"
)

// Event represents an event that occurred in the system
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers. A nil bus drops the event.
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}

	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
