package notify

import (
	"context"
	"sync"

	"github.com/yukikurage/campus-works/internal/constants"
)

// Hub fans events out to in-process subscribers of a task channel, such as
// open event streams.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan Event
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan Event)}
}

// Subscribe returns a channel receiving the task's events and a function that
// ends the subscription and closes the channel.
func (h *Hub) Subscribe(taskID string) (<-chan Event, func()) {
	ch := make(chan Event, constants.EventStreamBuffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[taskID] == nil {
		h.subs[taskID] = make(map[int]chan Event)
	}
	h.subs[taskID][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[taskID], id)
			if len(h.subs[taskID]) == 0 {
				delete(h.subs, taskID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish never blocks; a subscriber whose buffer is full misses the event.
func (h *Hub) Publish(_ context.Context, taskID string, event Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs[taskID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of open subscriptions on a task.
func (h *Hub) Subscribers(taskID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[taskID])
}
