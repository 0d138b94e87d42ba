package ws

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"gitlab.com/meshopt-cloud.net/internal/domain"
)

// Hub fans out push events to connected clients without blocking on slow
// listeners. A subscriber may watch a single job; unscoped subscribers receive
// every event.
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*subscriber
	nextSubID   uint64
	closed      bool
	closeOnce   sync.Once
}

type subscriber struct {
	ch    chan domain.PushEvent
	jobID *uuid.UUID
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uint64]*subscriber),
	}
}

// Subscribe registers a listener. A nil jobID subscribes to all events.
// The returned cancel func must be called when the listener goes away.
func (h *Hub) Subscribe(jobID *uuid.UUID) (<-chan domain.PushEvent, func()) {
	ch := make(chan domain.PushEvent, 16)
	id := atomic.AddUint64(&h.nextSubID, 1)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subscribers[id] = &subscriber{ch: ch, jobID: jobID}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if existing, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(existing.ch)
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Publish delivers the event to every matching subscriber. Full subscriber
// buffers are skipped rather than blocking the caller.
func (h *Hub) Publish(event domain.PushEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, sub := range h.subscribers {
		if sub.jobID != nil && *sub.jobID != event.JobID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Close shuts the hub down and closes every subscriber channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		for id, sub := range h.subscribers {
			delete(h.subscribers, id)
			close(sub.ch)
		}
		h.mu.Unlock()
	})
}
