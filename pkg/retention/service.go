// Package retention periodically enforces Fast Memory's eviction policy
// (spec.md §4.4, optional cap-based eviction), adapted from a
// ticker-driven background cleanup service.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/intentflow/resolver/pkg/memory"
)

// Config holds the retention tunables.
type Config struct {
	// FastMemoryCap is N in spec.md §4.4: "when count exceeds a
	// configured cap N, remove records with smallest created_at". Zero
	// disables eviction.
	FastMemoryCap int
	// SweepInterval is how often the eviction sweep runs.
	SweepInterval time.Duration
}

// Service periodically enforces the Fast Memory eviction policy. All
// sweeps are idempotent and safe to run from multiple pods, since eviction
// only ever removes records past the cap, never resurrects them.
type Service struct {
	config     Config
	fastMemory *memory.Store

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new retention service.
func NewService(cfg Config, fastMemory *memory.Store) *Service {
	return &Service{config: cfg, fastMemory: fastMemory}
}

// Start launches the background eviction loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Retention service started",
		"fast_memory_cap", s.config.FastMemoryCap,
		"interval", s.config.SweepInterval)
}

// Stop signals the eviction loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Retention service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.sweep()

	if s.config.SweepInterval <= 0 {
		return
	}

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	if s.config.FastMemoryCap <= 0 {
		return
	}

	removed := s.fastMemory.EvictExcess(s.config.FastMemoryCap)
	if removed > 0 {
		slog.Info("Retention: evicted Fast Memory records over cap", "removed", removed, "cap", s.config.FastMemoryCap)
	}
}
