// Package realtime fans calculator snapshots out to live subscribers.
package realtime

import (
	"log/slog"
	"sync"

	"github.com/mmynk/tipsplit/internal/models"
)

// subscriberBuffer is the number of snapshots a subscriber may lag behind
// before frames are dropped.
const subscriberBuffer = 8

// Subscription receives snapshots for one session until Close is called or
// the session ends.
type Subscription struct {
	C <-chan models.Snapshot

	hub       *Hub
	sessionID string
	ch        chan models.Snapshot
	once      sync.Once
}

// Close detaches the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub tracks subscribers per session.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}

	// onDrop is called when a frame is dropped for a slow subscriber.
	onDrop func(sessionID string)
}

// NewHub creates an empty Hub. onDrop may be nil.
func NewHub(onDrop func(sessionID string)) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		onDrop: onDrop,
	}
}

// Subscribe registers interest in a session's snapshots.
func (h *Hub) Subscribe(sessionID string) *Subscription {
	ch := make(chan models.Snapshot, subscriberBuffer)
	sub := &Subscription{
		C:         ch,
		hub:       h,
		sessionID: sessionID,
		ch:        ch,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[*Subscription]struct{})
	}
	h.subs[sessionID][sub] = struct{}{}
	return sub
}

// Publish delivers snap to every subscriber of the session without blocking.
func (h *Hub) Publish(sessionID string, snap models.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[sessionID] {
		select {
		case sub.ch <- snap:
		default:
			slog.Warn("Dropping snapshot for slow subscriber", "session_id", sessionID, "version", snap.Version)
			if h.onDrop != nil {
				h.onDrop(sessionID)
			}
		}
	}
}

// CloseSession ends every subscription of a session; their channels are closed.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	subs := h.subs[sessionID]
	delete(h.subs, sessionID)
	h.mu.Unlock()

	for sub := range subs {
		sub.once.Do(func() {
			close(sub.ch)
		})
	}
}

// Subscribers returns the number of subscribers of a session.
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sessionID])
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sub.sessionID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.sessionID)
	}
	close(sub.ch)
}
