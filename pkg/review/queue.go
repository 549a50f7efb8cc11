// Package review implements the Review Queue (spec.md §4.8, Component
// C8): an append-only log of negative feedback awaiting human
// adjudication, following the mutex-guarded in-process registry idiom
// used elsewhere in this stack, backed by a Store for durability.
package review

import (
	"context"
	"sort"
	"sync"

	"github.com/intentflow/resolver/pkg/intent"
)

// Store is the durability boundary the Queue writes through — satisfied by
// the Postgres-backed implementation in pkg/database. Writes durable
// before Append returns successfully (spec.md §4.8).
type Store interface {
	InsertReviewItem(ctx context.Context, item intent.ReviewItem) error
	MarkReviewItemReviewed(ctx context.Context, itemID string) error
	ListReviewItems(ctx context.Context) ([]intent.ReviewItem, error)
}

// Queue serialises appends to the Review Queue and caches pending items
// for fast reads, with the durable Store as source of truth.
type Queue struct {
	mu    sync.Mutex
	store Store

	// pending mirrors Store for cheap ListPending reads; rebuilt from
	// Store on Load.
	pending []intent.ReviewItem
}

// New creates a Queue backed by store.
func New(store Store) *Queue {
	return &Queue{store: store}
}

// Load populates the in-memory pending mirror from the durable store. Call
// once at startup.
func (q *Queue) Load(ctx context.Context) error {
	items, err := q.store.ListReviewItems(ctx)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = q.pending[:0]
	for _, it := range items {
		if it.Status == intent.ReviewStatusPending {
			q.pending = append(q.pending, it)
		}
	}
	return nil
}

// Append persists a new ReviewItem and, on success, adds it to the pending
// mirror. Ordering preserved: appends are serialised.
func (q *Queue) Append(ctx context.Context, item intent.ReviewItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	item.Status = intent.ReviewStatusPending
	if err := q.store.InsertReviewItem(ctx, item); err != nil {
		return err
	}
	q.pending = append(q.pending, item)
	return nil
}

// ListPending returns the current pending items, oldest first.
func (q *Queue) ListPending() []intent.ReviewItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]intent.ReviewItem, len(q.pending))
	copy(out, q.pending)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// MarkReviewed marks an item as reviewed in the durable store and removes
// it from the pending mirror.
func (q *Queue) MarkReviewed(ctx context.Context, itemID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.store.MarkReviewItemReviewed(ctx, itemID); err != nil {
		return err
	}

	for i, it := range q.pending {
		if it.ItemID == itemID {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			break
		}
	}
	return nil
}
