// Package feedback implements the Feedback Manager (spec.md §4.7,
// Component C7): validates feedback, routes it to Fast Memory or the
// Review Queue, and keeps LearningStats counters consistent. The pending
// record cache follows the Redis-backed TTL-store idiom used for
// short-lived checkpoint state elsewhere in this stack (SETNX/Set-with-TTL,
// redis.Nil lookup-miss handling), scaled down to a single key per pending
// record instead of a set-indexed collection.
package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// PendingRecord is what the resolver stashes immediately after a resolve
// call, so a later success feedback can recover the normalised input and
// embedding without re-computing them (spec.md §4.7).
type PendingRecord struct {
	NormalisedInput    string    `json:"normalised_input"`
	Embedding          []float64 `json:"embedding"`
	ContextFingerprint string    `json:"context_fingerprint"`
	// ResolvedIntentID and ConfidenceAtTime capture what the engine actually
	// chose (or the fallback intent, on a miss), for ReviewItem.ResolvedIntentID
	// and ReviewItem.ConfidenceAtTime (spec.md §3).
	ResolvedIntentID string    `json:"resolved_intent_id"`
	ConfidenceAtTime float64   `json:"confidence_at_time"`
	CreatedAt        time.Time `json:"created_at"`
}

// ErrPendingRecordNotFound is returned by PendingCache.Get on a cache miss.
var ErrPendingRecordNotFound = errors.New("pending record not found")

// PendingCache is the short-TTL, request_id-keyed cache of pending records
// (spec.md §4.7: "kept in an in-memory short-TTL cache ... evicted after a
// bounded window"). Backed by Redis so the cache is shareable across pods
// and expiry is enforced natively via key TTL rather than a sweep loop.
type PendingCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewPendingCache creates a PendingCache bound to an existing Redis client.
func NewPendingCache(client *redis.Client, keyPrefix string, ttl time.Duration) *PendingCache {
	if keyPrefix == "" {
		keyPrefix = "resolver:pending"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PendingCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *PendingCache) key(requestID string) string {
	return fmt.Sprintf("%s:%s", c.keyPrefix, requestID)
}

// Put stores a pending record under requestID, with the cache's configured TTL.
func (c *PendingCache) Put(ctx context.Context, requestID string, rec PendingRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling pending record %s: %w", requestID, err)
	}
	if err := c.client.Set(ctx, c.key(requestID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("storing pending record %s: %w", requestID, err)
	}
	return nil
}

// Get retrieves a pending record. Returns ErrPendingRecordNotFound on a
// miss (expired, capacity-evicted, or never stored) — a normal, expected
// outcome that the Feedback Manager handles as "logged_without_memory".
func (c *PendingCache) Get(ctx context.Context, requestID string) (PendingRecord, error) {
	data, err := c.client.Get(ctx, c.key(requestID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return PendingRecord{}, ErrPendingRecordNotFound
	}
	if err != nil {
		return PendingRecord{}, fmt.Errorf("loading pending record %s: %w", requestID, err)
	}

	var rec PendingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return PendingRecord{}, fmt.Errorf("unmarshalling pending record %s: %w", requestID, err)
	}
	return rec, nil
}

// Delete removes a pending record once it has been consumed by feedback.
func (c *PendingCache) Delete(ctx context.Context, requestID string) error {
	return c.client.Del(ctx, c.key(requestID)).Err()
}

// PendingCacheRecorder adapts a PendingCache to the resolver's
// PendingRecorder interface: the resolver calls RecordPending synchronously
// after every resolve, with no error channel back to the caller, so a
// failed write is logged rather than propagated.
type PendingCacheRecorder struct {
	cache *PendingCache
}

// NewPendingCacheRecorder wraps cache for use as a resolver.PendingRecorder.
func NewPendingCacheRecorder(cache *PendingCache) *PendingCacheRecorder {
	return &PendingCacheRecorder{cache: cache}
}

// RecordPending stores the pending record under requestID, logging (not
// returning) any failure.
func (r *PendingCacheRecorder) RecordPending(requestID, normalisedInput string, embedding []float64, contextFingerprint, resolvedIntentID string, confidenceAtTime float64) {
	rec := PendingRecord{
		NormalisedInput:    normalisedInput,
		Embedding:          embedding,
		ContextFingerprint: contextFingerprint,
		ResolvedIntentID:   resolvedIntentID,
		ConfidenceAtTime:   confidenceAtTime,
		CreatedAt:          time.Now(),
	}
	if err := r.cache.Put(context.Background(), requestID, rec); err != nil {
		slog.Error("storing pending record", "request_id", requestID, "error", err)
	}
}
