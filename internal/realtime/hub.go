package realtime

import (
	"context"
	"sync"
	"time"
)

const subscriberBuffer = 16

type subscriber struct {
	storeID string
	ch      chan Change
	once    sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// Hub fans changes out to in-process subscribers, typically SSE streams.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers interest in one store's changes plus global ones. The
// returned cancel func must be called to release the subscription.
func (h *Hub) Subscribe(storeID string) (<-chan Change, func()) {
	s := &subscriber{storeID: storeID, ch: make(chan Change, subscriberBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		s.close()
		return s.ch, func() {}
	}
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, s)
		h.mu.Unlock()
		s.close()
	}
	return s.ch, cancel
}

// Close ends every subscription so open streams finish before shutdown.
// Later subscriptions receive an already closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for s := range h.subs {
		delete(h.subs, s)
		s.close()
	}
}

// Notify never blocks. When a subscriber's buffer is full the change is
// dropped for it: the queued changes already make it re-fetch.
func (h *Hub) Notify(_ context.Context, change Change) error {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if change.StoreID != "" && change.StoreID != s.storeID {
			continue
		}
		select {
		case s.ch <- change:
		default:
		}
	}
	return nil
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
