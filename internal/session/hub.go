// Package session fans out auth-state changes to in-process subscribers.
package session

import (
	"sync"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/logger"

	"go.uber.org/zap"
)

// Hub is the single auth-state stream of the process. Publish delivers each
// event to every subscriber in registration order, and events are delivered
// one at a time.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]func(domain.AuthEvent)
	order  []uint64
	nextID uint64

	publish sync.Mutex
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]func(domain.AuthEvent))}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (h *Hub) Subscribe(fn func(domain.AuthEvent)) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = fn
	h.order = append(h.order, id)
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			for i, v := range h.order {
				if v == id {
					h.order = append(h.order[:i:i], h.order[i+1:]...)
					break
				}
			}
			h.mu.Unlock()
		})
	}
}

// Publish calls every subscriber with ev. A panicking subscriber is logged
// and does not stop delivery to the others.
func (h *Hub) Publish(ev domain.AuthEvent) {
	h.publish.Lock()
	defer h.publish.Unlock()

	h.mu.RLock()
	fns := make([]func(domain.AuthEvent), 0, len(h.order))
	for _, id := range h.order {
		fns = append(fns, h.subs[id])
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		deliver(fn, ev)
	}
}

func deliver(fn func(domain.AuthEvent), ev domain.AuthEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Auth subscriber panicked",
				zap.String("event", string(ev.Type)),
				zap.Any("panic", r),
			)
		}
	}()
	fn(ev)
}

// Len is the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
