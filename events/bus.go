// Package events is the pub/sub layer behind the SSE stream and the admin
// order websocket. The bus is injected into handlers rather than living as
// a module-level singleton, so subscriptions have an explicit lifecycle.
package events

import (
	"sync"
	"time"
)

const (
	TypeOrderCreated = "order.created"
	TypeOrderUpdated = "order.updated"
	TypeProductStock = "product.stock"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
	At   time.Time   `json:"at"`
}

type Bus interface {
	Publish(evt Event)
	// Subscribe returns a receive channel and a cancel func. Cancel must be
	// called when the consumer goes away (connection close); it closes the
	// channel.
	Subscribe() (<-chan Event, func())
}

// Hub is the single-process implementation.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

func (h *Hub) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			// Slow consumer; drop rather than block the publisher.
		}
	}
}

func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}
