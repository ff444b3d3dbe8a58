package metrics

import (
	"CaptionRelay/internal/core/domain"
	"CaptionRelay/internal/core/ports"
	"context"
	"fmt"
)

// SubscribeDeliveryEvents feeds the delivery collectors from the event bus.
func SubscribeDeliveryEvents(bus ports.EventBus) {
	bus.Subscribe(domain.TopicJobEnqueued, onJobEnqueued)
	bus.Subscribe(domain.TopicJobFinished, onJobFinished)
}

func onJobEnqueued(ctx context.Context, e ports.Event) error {
	ev, ok := e.Data.(domain.JobEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
	}
	IncJobEnqueued(string(ev.Job.ChatKind))
	return nil
}

func onJobFinished(ctx context.Context, e ports.Event) error {
	ev, ok := e.Data.(domain.JobEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T on %s", e.Data, e.Topic)
	}
	ObserveJobFinished(string(ev.Outcome), ev.Duration.Seconds())
	return nil
}
