package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/ppiankov/aletheia/internal/metrics"
)

// Observer is one live log stream subscriber.
// Send must not block; an error means the observer is gone or too slow.
type Observer interface {
	Send(msg []byte) error
	Close()
}

// Hub is the registry of live observers
type Hub struct {
	mu        sync.RWMutex
	observers map[Observer]struct{}
}

// NewHub creates an empty registry
func NewHub() *Hub {
	return &Hub{observers: make(map[Observer]struct{})}
}

// Connect registers an observer
func (h *Hub) Connect(o Observer) {
	h.mu.Lock()
	h.observers[o] = struct{}{}
	n := len(h.observers)
	h.mu.Unlock()

	metrics.Observers.Set(float64(n))
}

// Disconnect removes an observer and closes it. Unknown observers are ignored.
func (h *Hub) Disconnect(o Observer) {
	h.mu.Lock()
	_, ok := h.observers[o]
	delete(h.observers, o)
	n := len(h.observers)
	h.mu.Unlock()

	if ok {
		o.Close()
		metrics.Observers.Set(float64(n))
	}
}

// DisconnectAll closes every observer, used on shutdown
func (h *Hub) DisconnectAll() {
	h.mu.Lock()
	targets := make([]Observer, 0, len(h.observers))
	for o := range h.observers {
		targets = append(targets, o)
	}
	h.observers = make(map[Observer]struct{})
	h.mu.Unlock()

	for _, o := range targets {
		o.Close()
	}
	metrics.Observers.Set(0)
}

// Len returns the number of connected observers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// Broadcast sends msg to every observer and drops those whose send fails.
// It returns the number of observers that accepted the message.
func (h *Hub) Broadcast(msg []byte) int {
	h.mu.RLock()
	targets := make([]Observer, 0, len(h.observers))
	for o := range h.observers {
		targets = append(targets, o)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, o := range targets {
		if err := o.Send(msg); err != nil {
			h.Disconnect(o)
			continue
		}
		delivered++
	}
	return delivered
}

// BroadcastJSON encodes v and broadcasts it
func (h *Hub) BroadcastJSON(v interface{}) (int, error) {
	msg, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	return h.Broadcast(msg), nil
}
