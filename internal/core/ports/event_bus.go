package ports

import "context"

// Event wraps a payload published on a topic.
// Delivery topics and their payload types live in the domain package.
type Event struct {
	Topic string
	Data  any
}

// EventHandler handles one event. Returned errors are only logged.
type EventHandler func(ctx context.Context, event Event) error

// EventBus is the in-process pub/sub used to fan out job lifecycle events
// (metrics, audit logging) without coupling them to the queue.
type EventBus interface {
	// Publish sends an event to all subscribers of a topic.
	// It never blocks on subscribers.
	Publish(ctx context.Context, topic string, data any) error

	// Subscribe registers a handler for a specific topic.
	Subscribe(topic string, handler EventHandler)
}
