// Package eventbus carries optimizer run events from the pipeline to the
// service-layer consumers (history persistence, MQTT publishing, error
// reporting). The concrete event types live in core/events.
package eventbus

import "sync"

// Event is a value published on the bus, typically events.RunCompleted or
// events.RunFailed.
type Event interface{}

// subscriberBuffer bounds each subscriber channel. A consumer that falls
// further behind loses events instead of stalling the optimization run.
const subscriberBuffer = 8

// EventBus is the contract between the optimizer and its subscribers.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the in-process EventBus used by the service. The zero value is
// ready to use; New exists for symmetry with the other constructors.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan Event
	closed      bool
}

// New creates an empty Bus.
func New() *Bus { return &Bus{} }

// Publish delivers the event to every subscriber without blocking the
// publisher. Events published after Close are discarded.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.subscribers {
		select {
		case sub <- e:
		default:
		}
	}
}

// Subscribe registers a consumer and returns its event channel. Subscribing
// to a closed bus yields an already closed channel.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subscribers = append(b.subscribers, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the consumer and closes its channel. Unknown channels
// and calls after Close are no-ops.
func (b *Bus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subscribers {
		if ch == sub {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes every subscriber channel and marks the bus terminated.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
