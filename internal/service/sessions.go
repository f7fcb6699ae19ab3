package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/metrics"
	"github.com/mmynk/tipsplit/internal/models"
	"github.com/mmynk/tipsplit/internal/realtime"
	"github.com/mmynk/tipsplit/internal/session"
	"github.com/mmynk/tipsplit/internal/storage"
)

// Event kinds, used as metric labels and in logs.
const (
	EventBill   = "bill"
	EventTip    = "tip"
	EventPeople = "people"
	EventReset  = "reset"
)

// ErrLiveUpdatesDisabled is returned by Subscribe when Sessions has no hub.
var ErrLiveUpdatesDisabled = errors.New("live updates disabled")

// Sessions drives session lifecycle and input events for every surface. It
// keeps metrics and live subscribers in step with the store.
type Sessions struct {
	store storage.Store
	hub   *realtime.Hub
}

// NewSessions creates a Sessions. hub may be nil when nothing subscribes.
func NewSessions(store storage.Store, hub *realtime.Hub) *Sessions {
	return &Sessions{store: store, hub: hub}
}

// Hub returns the change feed, or nil.
func (s *Sessions) Hub() *realtime.Hub {
	return s.hub
}

// Mount creates a session with default inputs.
func (s *Sessions) Mount(ctx context.Context, mode calculator.Mode) (*models.Session, error) {
	sess, err := s.store.CreateSession(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to mount session: %w", err)
	}
	metrics.SessionsActive.Inc()
	slog.Info("Session created", "session_id", sess.ID, "mode", sess.Mode)
	return sess, nil
}

// Unmount discards a session and ends its subscriptions.
func (s *Sessions) Unmount(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	metrics.SessionsActive.Dec()
	if s.hub != nil {
		s.hub.CloseSession(sessionID)
	}
	slog.Info("Session closed", "session_id", sessionID)
	return nil
}

// Get returns the current session record. Reading a session counts as
// activity for idle expiry.
func (s *Sessions) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	if err := s.store.Touch(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.store.GetSession(ctx, sessionID)
}

// Touch marks a session as active, e.g. on websocket keepalives.
func (s *Sessions) Touch(ctx context.Context, sessionID string) error {
	return s.store.Touch(ctx, sessionID)
}

// Subscribe attaches to a session's change feed. It fails with
// storage.ErrSessionNotFound when the session ended before the
// subscription was in place.
func (s *Sessions) Subscribe(ctx context.Context, sessionID string) (*realtime.Subscription, error) {
	if s.hub == nil {
		return nil, ErrLiveUpdatesDisabled
	}
	sub := s.hub.Subscribe(sessionID)
	if _, err := s.store.GetSession(ctx, sessionID); err != nil {
		sub.Close()
		return nil, err
	}
	return sub, nil
}

// SetBillAmount applies a bill text change.
func (s *Sessions) SetBillAmount(ctx context.Context, sessionID, text string) (*models.Session, error) {
	return s.apply(ctx, sessionID, EventBill, func(c *session.Calculator) error {
		c.SetBillAmount(text)
		return nil
	})
}

// SelectTip applies a tip selection.
func (s *Sessions) SelectTip(ctx context.Context, sessionID, choice string) (*models.Session, error) {
	return s.apply(ctx, sessionID, EventTip, func(c *session.Calculator) error {
		_, err := c.SelectTip(choice)
		return err
	})
}

// SetNumberOfPeople applies a people text change.
func (s *Sessions) SetNumberOfPeople(ctx context.Context, sessionID, text string) (*models.Session, error) {
	return s.apply(ctx, sessionID, EventPeople, func(c *session.Calculator) error {
		c.SetNumberOfPeople(text)
		return nil
	})
}

// Reset restores the default inputs.
func (s *Sessions) Reset(ctx context.Context, sessionID string) (*models.Session, error) {
	return s.apply(ctx, sessionID, EventReset, func(c *session.Calculator) error {
		_, err := c.Reset()
		return err
	})
}

// apply runs one input event against a session, then notifies subscribers.
// Rejected events change nothing and are not published.
func (s *Sessions) apply(ctx context.Context, sessionID, kind string, fn func(*session.Calculator) error) (*models.Session, error) {
	sess, err := s.store.UpdateSession(ctx, sessionID, fn)
	if err != nil {
		slog.Warn("Event rejected", "session_id", sessionID, "event", kind, "error", err)
		return nil, err
	}

	metrics.ObserveEvent(kind, sess.State.Error != "")
	if s.hub != nil {
		s.hub.Publish(sess.ID, sess.State)
	}

	slog.Info("Event applied",
		"session_id", sess.ID,
		"event", kind,
		"version", sess.State.Version,
		"error", sess.State.Error,
	)
	return sess, nil
}
