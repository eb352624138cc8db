package server

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionSweeper is a source of expired-session cleanup, satisfied by the
// in-memory store and the Postgres store alike.
type SessionSweeper interface {
	// Sweep removes expired sessions and returns how many were reaped.
	Sweep(ctx context.Context) (int, error)
}

// Sweeper periodically reaps expired combat sessions. Stores already expire
// sessions lazily on access; the sweeper bounds the memory and table growth
// from sessions that are simply abandoned.
type Sweeper struct {
	store    SessionSweeper
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
	stopOnce chan struct{}
}

// NewSweeper creates a Sweeper.
//
// Precondition: store and logger must be non-nil; interval must be > 0.
func NewSweeper(store SessionSweeper, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
		stopOnce: make(chan struct{}, 1),
	}
}

// Start runs the sweep loop until Stop is called. Sweep errors are logged
// and the loop continues; a degraded store should not take the sweeper down
// with it.
//
// Postcondition: Returns nil after Stop.
func (s *Sweeper) Start() error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reaped, err := s.store.Sweep(context.Background())
			if err != nil {
				s.logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if reaped > 0 {
				s.logger.Info("expired sessions reaped", zap.Int("count", reaped))
			}
		case <-s.done:
			return nil
		}
	}
}

// Stop terminates the sweep loop. Safe to call more than once.
func (s *Sweeper) Stop() {
	select {
	case s.stopOnce <- struct{}{}:
		close(s.done)
	default:
	}
}
