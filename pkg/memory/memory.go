// Package memory implements Fast Memory (spec.md §4.4, Component C4): a
// vector store of golden records with single-writer/many-reader
// concurrency, following the RWMutex-guarded cache idiom used elsewhere in
// this codebase.
package memory

import (
	"sort"
	"sync"

	"github.com/intentflow/resolver/pkg/embedding"
	"github.com/intentflow/resolver/pkg/intent"
)

// Match pairs a stored record with its similarity to a query vector.
type Match struct {
	Record     intent.GoldenRecord
	Similarity float64
}

// Store is the Fast Memory vector store. Zero value is not usable; use New.
type Store struct {
	mu      sync.RWMutex
	records map[string]intent.GoldenRecord
	// protectedIDs holds record ids inserted during the current request's
	// processing window, which must never be evicted mid-flight
	// (spec.md §4.4).
	protectedIDs map[string]struct{}
}

// New creates an empty Fast Memory store.
func New() *Store {
	return &Store{
		records:      make(map[string]intent.GoldenRecord),
		protectedIDs: make(map[string]struct{}),
	}
}

// Insert adds a record. Idempotent on RecordID.
func (s *Store) Insert(record intent.GoldenRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.RecordID] = record
	s.protectedIDs[record.RecordID] = struct{}{}
}

// Query returns the top-k records by cosine similarity to embedding,
// similarity descending, tie-broken by RecordID lexicographic order. K is
// the smaller of the requested k and the current record count.
func (s *Store) Query(vec []float64, k int) []Match {
	s.mu.RLock()
	snapshot := make([]intent.GoldenRecord, 0, len(s.records))
	for _, r := range s.records {
		snapshot = append(snapshot, r)
	}
	s.mu.RUnlock()

	matches := make([]Match, 0, len(snapshot))
	for _, r := range snapshot {
		matches = append(matches, Match{
			Record:     r,
			Similarity: embedding.CosineSimilarity(vec, r.Embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Record.RecordID < matches[j].Record.RecordID
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns every stored record, for persistence.
func (s *Store) Snapshot() []intent.GoldenRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]intent.GoldenRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out
}

// Restore replaces store contents with a previously captured snapshot, for
// replay at startup (spec.md §6, "replayed into Fast Memory at start").
func (s *Store) Restore(records []intent.GoldenRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]intent.GoldenRecord, len(records))
	for _, r := range records {
		s.records[r.RecordID] = r
	}
	s.protectedIDs = make(map[string]struct{})
}

// EvictExcess removes the oldest records (by CreatedAt) once the store
// exceeds cap. Records inserted in the current request window
// (ReleaseProtection not yet called) are never evicted.
func (s *Store) EvictExcess(cap int) int {
	if cap <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) <= cap {
		return 0
	}

	evictable := make([]intent.GoldenRecord, 0, len(s.records))
	for id, r := range s.records {
		if _, protected := s.protectedIDs[id]; protected {
			continue
		}
		evictable = append(evictable, r)
	}

	sort.Slice(evictable, func(i, j int) bool {
		if !evictable[i].CreatedAt.Equal(evictable[j].CreatedAt) {
			return evictable[i].CreatedAt.Before(evictable[j].CreatedAt)
		}
		return evictable[i].RecordID < evictable[j].RecordID
	})

	toRemove := len(s.records) - cap
	if toRemove > len(evictable) {
		toRemove = len(evictable)
	}

	removed := 0
	for i := 0; i < toRemove; i++ {
		delete(s.records, evictable[i].RecordID)
		removed++
	}
	return removed
}

// ReleaseProtection clears the insertion-window protection for a record,
// making it eligible for eviction again. Called once the request that
// inserted it has finished processing.
func (s *Store) ReleaseProtection(recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.protectedIDs, recordID)
}

// ReleaseAllProtection clears every insertion-window protection. Useful
// after replaying a snapshot at startup, when nothing needs protecting.
func (s *Store) ReleaseAllProtection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.protectedIDs = make(map[string]struct{})
}
