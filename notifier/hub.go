package notifier

import (
	"log/slog"
	"sync"
)

// subscriberBuffer bounds how many undelivered events a slow client can
// queue before broadcasts to it are dropped.
const subscriberBuffer = 8

// Subscriber is one connected realtime observer. Events arrive on C until
// Unsubscribe, after which the channel stops receiving broadcasts.
type Subscriber struct {
	C chan string
}

// Hub fans change events out to the current set of subscribers. Delivery is
// at-most-once per broadcast per subscriber: a subscriber whose buffer is
// full misses the event, and a broadcast never blocks on a stalled client.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*Subscriber]struct{}
	logger *slog.Logger
}

// New creates an empty hub.
func New(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new observer and returns its handle.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{C: make(chan string, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	count := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("observer subscribed", "observers", count)
	return sub
}

// Unsubscribe removes an observer. Safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	count := len(h.subs)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("observer unsubscribed", "observers", count)
	}
}

// Broadcast delivers event to every current subscriber without blocking.
func (h *Hub) Broadcast(event string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		select {
		case sub.C <- event:
		default:
			// Buffer full; the client re-fetches on reconnect anyway.
		}
	}
}

// Count returns the number of currently registered observers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
