package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intentflow/resolver/pkg/intent"
)

func TestInsert_Idempotent(t *testing.T) {
	s := New()
	rec := intent.GoldenRecord{RecordID: "r1", Embedding: []float64{1, 0}, ResolvedIntentID: "x"}
	s.Insert(rec)
	s.Insert(rec)
	assert.Equal(t, 1, s.Count())
}

func TestQuery_OrderedBySimilarityThenID(t *testing.T) {
	s := New()
	s.Insert(intent.GoldenRecord{RecordID: "b", Embedding: []float64{1, 0}})
	s.Insert(intent.GoldenRecord{RecordID: "a", Embedding: []float64{1, 0}})
	s.Insert(intent.GoldenRecord{RecordID: "c", Embedding: []float64{0, 1}})

	matches := s.Query([]float64{1, 0}, 2)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Record.RecordID)
	assert.Equal(t, "b", matches[1].Record.RecordID)
}

func TestQuery_KClampedToCount(t *testing.T) {
	s := New()
	s.Insert(intent.GoldenRecord{RecordID: "a", Embedding: []float64{1, 0}})
	matches := s.Query([]float64{1, 0}, 5)
	assert.Len(t, matches, 1)
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s := New()
	s.Insert(intent.GoldenRecord{RecordID: "a", Embedding: []float64{1, 0}})
	snap := s.Snapshot()

	s2 := New()
	s2.Restore(snap)
	assert.Equal(t, 1, s2.Count())
}

func TestEvictExcess_RemovesOldestUnprotected(t *testing.T) {
	s := New()
	old := intent.GoldenRecord{RecordID: "old", Embedding: []float64{1, 0}, CreatedAt: time.Now().Add(-time.Hour)}
	recent := intent.GoldenRecord{RecordID: "recent", Embedding: []float64{1, 0}, CreatedAt: time.Now()}
	s.Insert(old)
	s.Insert(recent)
	s.ReleaseAllProtection()

	removed := s.EvictExcess(1)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Count())

	matches := s.Query([]float64{1, 0}, 5)
	require.Len(t, matches, 1)
	assert.Equal(t, "recent", matches[0].Record.RecordID)
}

func TestEvictExcess_NeverRemovesProtectedRecord(t *testing.T) {
	s := New()
	old := intent.GoldenRecord{RecordID: "old", Embedding: []float64{1, 0}, CreatedAt: time.Now().Add(-time.Hour)}
	s.Insert(old)
	// old is still "protected" (inserted in this window, not yet released).
	s.Insert(intent.GoldenRecord{RecordID: "new", Embedding: []float64{1, 0}, CreatedAt: time.Now()})

	removed := s.EvictExcess(1)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 2, s.Count())
}

func TestEvictExcess_BelowCapIsNoop(t *testing.T) {
	s := New()
	s.Insert(intent.GoldenRecord{RecordID: "a", Embedding: []float64{1, 0}})
	assert.Equal(t, 0, s.EvictExcess(10))
}
