// Package memory provides an in-process implementation of the storage.Store interface.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tipsplit/internal/calculator"
	"github.com/mmynk/tipsplit/internal/models"
	"github.com/mmynk/tipsplit/internal/session"
	"github.com/mmynk/tipsplit/internal/storage"
)

// Ensure MemoryStore implements storage.Store
var _ storage.Store = (*MemoryStore)(nil)

// entry pairs a live calculator with its record. mu serializes events.
type entry struct {
	mu        sync.Mutex
	calc      *session.Calculator
	createdAt int64
	lastSeen  int64
}

// MemoryStore implements storage.Store with a map guarded by a mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	closed   bool

	// now is swapped in tests.
	now func() time.Time
}

// New creates an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Close drops every session. Further calls fail.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*entry)
	s.closed = true
	return nil
}

// CreateSession mounts a new calculator with default inputs.
func (s *MemoryStore) CreateSession(ctx context.Context, mode calculator.Mode) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now().Unix()
	id := uuid.New().String()
	e := &entry{
		calc:      session.New(mode),
		createdAt: now,
		lastSeen:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("failed to create session: store is closed")
	}
	s.sessions[id] = e

	return e.record(id), nil
}

// GetSession returns a copy of the session record.
func (s *MemoryStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record(sessionID), nil
}

// UpdateSession applies fn to the live calculator under the session lock.
func (s *MemoryStore) UpdateSession(ctx context.Context, sessionID string, fn func(*session.Calculator) error) (*models.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	fnErr := fn(e.calc)
	e.lastSeen = s.now().Unix()
	return e.record(sessionID), fnErr
}

// DeleteSession removes a session.
func (s *MemoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}
	delete(s.sessions, sessionID)
	return nil
}

// Touch refreshes a session's last seen time.
func (s *MemoryStore) Touch(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, err := s.lookup(sessionID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now().Unix()
	return nil
}

// SweepIdle deletes sessions idle since before cutoff unless keep claims them.
func (s *MemoryStore) SweepIdle(ctx context.Context, cutoff time.Time, keep func(string) bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := e.lastSeen < cutoff.Unix()
		e.mu.Unlock()
		if idle && (keep == nil || !keep(id)) {
			delete(s.sessions, id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

// Count returns the number of live sessions.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

func (s *MemoryStore) lookup(sessionID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrSessionNotFound, sessionID)
	}
	return e, nil
}

// record must be called with e.mu held.
func (e *entry) record(id string) *models.Session {
	return &models.Session{
		ID:        id,
		Mode:      e.calc.Mode(),
		CreatedAt: e.createdAt,
		LastSeen:  e.lastSeen,
		State:     e.calc.Snapshot(),
	}
}
