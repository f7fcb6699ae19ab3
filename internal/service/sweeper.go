package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/tipsplit/internal/metrics"
	"github.com/mmynk/tipsplit/internal/realtime"
	"github.com/mmynk/tipsplit/internal/storage"
)

// Sweeper unmounts sessions whose UI went away without closing them.
type Sweeper struct {
	store    storage.Store
	hub      *realtime.Hub
	idle     time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a Sweeper. hub may be nil.
func NewSweeper(store storage.Store, hub *realtime.Hub, idle, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		hub:      hub,
		idle:     idle,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				slog.Error("Session sweep failed", "error", err)
			}
		}
	}
}

// watched reports whether a page is still subscribed to the session.
func (s *Sweeper) watched(sessionID string) bool {
	return s.hub != nil && s.hub.Subscribers(sessionID) > 0
}

// SweepOnce removes idle sessions that nobody is watching and returns how many were removed.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	removed, err := s.store.SweepIdle(ctx, s.now().Add(-s.idle), s.watched)
	if err != nil {
		return 0, err
	}

	for _, id := range removed {
		if s.hub != nil {
			s.hub.CloseSession(id)
		}
		metrics.SessionsActive.Dec()
		metrics.SessionsExpiredTotal.Inc()
	}
	if len(removed) > 0 {
		slog.Info("Idle sessions swept", "count", len(removed))
	}
	return len(removed), nil
}
