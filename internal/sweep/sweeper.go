// Package sweep removes completed tickets once their retention window lapses.
package sweep

import (
	"context"
	"log"
	"time"

	"tableqr-backend/config"
	"tableqr-backend/internal/store"
)

// Service runs the periodic expiry sweep in the background.
type Service struct {
	store     store.Store
	interval  time.Duration
	retention time.Duration
}

// NewService creates a sweeper from the queue configuration.
func NewService(cfg *config.QueueConfig, s store.Store) *Service {
	return &Service{
		store:     s,
		interval:  cfg.SweepInterval,
		retention: cfg.Retention,
	}
}

// Run sweeps once eagerly, then on every tick until the context is canceled.
// Failures are logged and retried on the next tick only.
func (s *Service) Run(ctx context.Context) {
	log.Printf("Expiry sweeper started (interval %s, retention %s)", s.interval, s.retention)
	s.SweepOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(ctx)
		case <-ctx.Done():
			log.Println("Expiry sweeper shutting down")
			return
		}
	}
}

// SweepOnce deletes every completed ticket older than the retention window.
func (s *Service) SweepOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.retention)
	removed, err := s.store.DeleteExpired(ctx, cutoff)
	if err != nil {
		log.Printf("Expiry sweep failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("Expiry sweep removed %d completed tickets", removed)
	}
}
