// Package storage provides abstractions for holding calculator sessions.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/models"
	"github.com/mmynk/tipsplit/internal/session"
)

// ErrSessionNotFound is returned when a session ID is unknown or already closed.
var ErrSessionNotFound = errors.New("session not found")

// Store defines the interface for session lifecycle operations.
// Sessions are ephemeral: implementations keep them only as long as the
// process runs and must not persist them.
type Store interface {
	// CreateSession mounts a new calculator and returns its record.
	// The session ID is generated by the store.
	CreateSession(ctx context.Context, mode calculator.Mode) (*models.Session, error)

	// GetSession returns a copy of the session with its latest snapshot.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// UpdateSession runs fn against the live calculator. Calls for the same
	// session are serialized, so fn observes one event at a time. The returned
	// record reflects the state after fn, even when fn returns an error.
	UpdateSession(ctx context.Context, sessionID string, fn func(*session.Calculator) error) (*models.Session, error)

	// DeleteSession unmounts a session and discards its state.
	DeleteSession(ctx context.Context, sessionID string) error

	// Touch marks a session as seen without changing its state.
	Touch(ctx context.Context, sessionID string) error

	// SweepIdle deletes sessions last seen before cutoff and returns their
	// IDs. Sessions for which keep returns true survive; keep may be nil.
	SweepIdle(ctx context.Context, cutoff time.Time, keep func(sessionID string) bool) ([]string, error)

	// Count returns the number of mounted sessions.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
