// Package event provides a topic-keyed event bus for notification dispatch.
//
// Delivery is synchronous in the publisher's goroutine, preserving the
// editor's single-threaded input model: a handler runs to completion before
// the next handler or the publisher's continuation. Handler errors are
// collected and returned to the publisher, never swallowed.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/termfix/internal/event/topic"
)

// Handler processes a published event. The event argument is the concrete
// Event[T] value; handlers type-assert the payload they expect.
type Handler func(ctx context.Context, event any) error

// topicCarrier is implemented by Event[T] for type-erased topic extraction.
type topicCarrier interface {
	EventTopic() topic.Topic
}

// Subscription identifies a registered handler for later removal.
type Subscription struct {
	id uint64
	t  topic.Topic
}

// Topic returns the topic the subscription is registered under.
func (s Subscription) Topic() topic.Topic {
	return s.t
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus delivers events to subscribers by exact topic match.
type Bus struct {
	mu     sync.RWMutex
	subs   map[topic.Topic][]registration
	nextID uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[topic.Topic][]registration)}
}

// Subscribe registers a handler for a topic. Handlers for the same topic
// run in subscription order.
func (b *Bus) Subscribe(t topic.Topic, h Handler) (Subscription, error) {
	if !t.IsValid() {
		return Subscription{}, fmt.Errorf("%w: %q", ErrInvalidTopic, t)
	}
	if h == nil {
		return Subscription{}, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[t] = append(b.subs[t], registration{id: b.nextID, handler: h})
	return Subscription{id: b.nextID, t: t}, nil
}

// Unsubscribe removes a previously registered handler. Unknown
// subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.subs[sub.t]
	for i, reg := range regs {
		if reg.id == sub.id {
			b.subs[sub.t] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// PublishSync delivers an event to every subscriber of its topic, in
// subscription order, in the caller's goroutine. All handlers run even
// when earlier ones fail; their errors are joined and returned so listener
// failures stay visible to the publisher.
func (b *Bus) PublishSync(ctx context.Context, event any) error {
	tc, ok := event.(topicCarrier)
	if !ok {
		return ErrNoTopic
	}

	b.mu.RLock()
	regs := make([]registration, len(b.subs[tc.EventTopic()]))
	copy(regs, b.subs[tc.EventTopic()])
	b.mu.RUnlock()

	var errs []error
	for _, reg := range regs {
		if err := reg.handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SubscriberCount returns the number of handlers registered for a topic.
func (b *Bus) SubscriberCount(t topic.Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[t])
}
