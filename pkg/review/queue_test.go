package review

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intentflow/resolver/pkg/intent"
)

type memStore struct {
	mu    sync.Mutex
	items map[string]intent.ReviewItem
}

func newMemStore() *memStore {
	return &memStore{items: make(map[string]intent.ReviewItem)}
}

func (m *memStore) InsertReviewItem(_ context.Context, item intent.ReviewItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ItemID] = item
	return nil
}

func (m *memStore) MarkReviewItemReviewed(_ context.Context, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it := m.items[itemID]
	it.Status = intent.ReviewStatusReviewed
	m.items[itemID] = it
	return nil
}

func (m *memStore) ListReviewItems(_ context.Context) ([]intent.ReviewItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]intent.ReviewItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	return out, nil
}

func TestAppend_AddsToPending(t *testing.T) {
	q := New(newMemStore())
	err := q.Append(context.Background(), intent.ReviewItem{
		ItemID:    "item-1",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Len(t, q.ListPending(), 1)
}

func TestMarkReviewed_RemovesFromPending(t *testing.T) {
	q := New(newMemStore())
	require.NoError(t, q.Append(context.Background(), intent.ReviewItem{ItemID: "item-1", CreatedAt: time.Now()}))

	require.NoError(t, q.MarkReviewed(context.Background(), "item-1"))
	assert.Empty(t, q.ListPending())
}

func TestListPending_OrderedOldestFirst(t *testing.T) {
	q := New(newMemStore())
	now := time.Now()
	require.NoError(t, q.Append(context.Background(), intent.ReviewItem{ItemID: "b", CreatedAt: now.Add(time.Minute)}))
	require.NoError(t, q.Append(context.Background(), intent.ReviewItem{ItemID: "a", CreatedAt: now}))

	pending := q.ListPending()
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].ItemID)
	assert.Equal(t, "b", pending[1].ItemID)
}

func TestLoad_PopulatesPendingFromStore(t *testing.T) {
	store := newMemStore()
	store.items["x"] = intent.ReviewItem{ItemID: "x", Status: intent.ReviewStatusPending, CreatedAt: time.Now()}
	store.items["y"] = intent.ReviewItem{ItemID: "y", Status: intent.ReviewStatusReviewed, CreatedAt: time.Now()}

	q := New(store)
	require.NoError(t, q.Load(context.Background()))

	pending := q.ListPending()
	require.Len(t, pending, 1)
	assert.Equal(t, "x", pending[0].ItemID)
}
