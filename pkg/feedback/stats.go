package feedback

import (
	"sync"
	"time"

	"github.com/intentflow/resolver/pkg/intent"
)

// StatsStore is the durability boundary for LearningStats counters.
type StatsStore interface {
	SaveLearningStats(stats intent.LearningStats) error
	LoadLearningStats() (intent.LearningStats, error)
}

// Stats holds LearningStats behind a single lock (spec.md §5: "single
// lock, updates are small").
type Stats struct {
	mu    sync.Mutex
	store StatsStore
	stats intent.LearningStats
}

// NewStats creates a Stats tracker backed by store, loading any
// previously persisted counters.
func NewStats(store StatsStore) (*Stats, error) {
	loaded, err := store.LoadLearningStats()
	if err != nil {
		return nil, err
	}
	return &Stats{store: store, stats: loaded}, nil
}

// recordLocked updates the in-memory counters and persists them. Caller
// must hold mu.
func (s *Stats) recordLocked(correct bool, now time.Time) (intent.LearningStats, error) {
	s.stats.TotalFeedbacks++
	if correct {
		s.stats.CorrectFeedbacks++
	} else {
		s.stats.IncorrectFeedbacks++
	}
	s.stats.LastUpdate = now

	if err := s.store.SaveLearningStats(s.stats); err != nil {
		// Roll back the in-memory counters so a failed persist never
		// leaves the reported snapshot ahead of durable state.
		s.stats.TotalFeedbacks--
		if correct {
			s.stats.CorrectFeedbacks--
		} else {
			s.stats.IncorrectFeedbacks--
		}
		return intent.LearningStats{}, err
	}

	return s.stats, nil
}

// Record updates counters for one feedback outcome and returns the new
// snapshot.
func (s *Stats) Record(correct bool, now time.Time) (intent.LearningStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked(correct, now)
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() intent.LearningStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
