// Package database provides the PostgreSQL-backed persistence layer:
// connection setup, embedded migrations, and hand-written SQL for the
// three durable streams the resolution engine depends on (golden
// records, review items, learning stats) plus the model-identity guard.
package database

import (
	"context"
	stdsql "database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver for database/sql
	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/intentflow/resolver/pkg/apperr"
	"github.com/intentflow/resolver/pkg/intent"
)

//go:embed migrations
var migrationsFS embed.FS

// Client wraps a pooled Postgres connection and a circuit breaker guarding
// the feedback path's writes.
type Client struct {
	db      *stdsql.DB
	breaker *gobreaker.CircuitBreaker
}

// DB returns the underlying connection pool, for health checks.
func (c *Client) DB() *stdsql.DB {
	return c.db
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// NewClient opens a pooled connection, runs embedded migrations, and
// returns a ready-to-use Client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := stdsql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db, cfg.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "database-writes",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{db: db, breaker: breaker}, nil
}

// NewClientFromDB wraps an already-open *sql.DB (used by tests).
func NewClientFromDB(db *stdsql.DB) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "database-writes"})
	return &Client{db: db, breaker: breaker}
}

func runMigrations(db *stdsql.DB, databaseName string) error {
	hasMigrations, err := hasEmbeddedMigrations()
	if err != nil {
		return fmt.Errorf("failed to check embedded migrations: %w", err)
	}
	if !hasMigrations {
		return fmt.Errorf("no embedded migration files found, binary may be built incorrectly")
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, databaseName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Must not call m.Close(): that closes the driver, which closes the
	// shared *sql.DB passed via postgres.WithInstance.
	if err := sourceDriver.Close(); err != nil {
		return fmt.Errorf("failed to close migration source: %w", err)
	}

	return nil
}

func hasEmbeddedMigrations() (bool, error) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && len(name) > 4 && name[len(name)-4:] == ".sql" {
			return true, nil
		}
	}
	return false, nil
}

// withBreaker runs fn through the write-path circuit breaker, translating
// an open breaker into apperr.KindInternal rather than leaking the raw
// gobreaker error to callers.
func (c *Client) withBreaker(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return apperr.Wrap(apperr.KindInternal, "database write circuit open", err)
		}
		return err
	}
	return nil
}

// BreakerState reports the write-path circuit breaker's current state as
// 0 (closed), 1 (half-open), or 2 (open), for the circuit_breaker_state
// gauge.
func (c *Client) BreakerState() int {
	switch c.breaker.State() {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// InsertGoldenRecord durably appends a golden record. Idempotent on
// record_id, matching pkg/memory.Store's insert semantics.
func (c *Client) InsertGoldenRecord(ctx context.Context, rec intent.GoldenRecord) error {
	return c.withBreaker(ctx, func(ctx context.Context) error {
		_, err := c.db.ExecContext(ctx, `
			INSERT INTO golden_records (record_id, original_input, embedding, resolved_intent_id, confidence_at_time, context_fingerprint, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (record_id) DO NOTHING`,
			rec.RecordID, rec.OriginalInput, pq.Array(rec.Embedding), rec.ResolvedIntentID,
			rec.ConfidenceAtTime, rec.ContextFingerprint, rec.CreatedAt)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "insert golden record failed", err)
		}
		return nil
	})
}

// ListGoldenRecords returns every persisted golden record, oldest first,
// for replay into Fast Memory at startup.
func (c *Client) ListGoldenRecords(ctx context.Context) ([]intent.GoldenRecord, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT record_id, original_input, embedding, resolved_intent_id, confidence_at_time, context_fingerprint, created_at
		FROM golden_records ORDER BY created_at ASC`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list golden records failed", err)
	}
	defer rows.Close()

	var out []intent.GoldenRecord
	for rows.Next() {
		var rec intent.GoldenRecord
		if err := rows.Scan(&rec.RecordID, &rec.OriginalInput, pq.Array(&rec.Embedding), &rec.ResolvedIntentID,
			&rec.ConfidenceAtTime, &rec.ContextFingerprint, &rec.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan golden record failed", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// InsertReviewItem durably appends a review item (review.Store interface).
func (c *Client) InsertReviewItem(ctx context.Context, item intent.ReviewItem) error {
	return c.withBreaker(ctx, func(ctx context.Context) error {
		_, err := c.db.ExecContext(ctx, `
			INSERT INTO review_items (item_id, request_id, original_input, resolved_intent_id, user_correction, confidence_at_time, status, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (item_id) DO NOTHING`,
			item.ItemID, item.RequestID, item.OriginalInput, item.ResolvedIntentID, item.UserCorrection,
			item.ConfidenceAtTime, string(item.Status), item.Notes, item.CreatedAt)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "insert review item failed", err)
		}
		return nil
	})
}

// MarkReviewItemReviewed flips a review item's status (review.Store interface).
func (c *Client) MarkReviewItemReviewed(ctx context.Context, itemID string) error {
	return c.withBreaker(ctx, func(ctx context.Context) error {
		_, err := c.db.ExecContext(ctx, `
			UPDATE review_items SET status = $2, reviewed_at = now() WHERE item_id = $1`,
			itemID, string(intent.ReviewStatusReviewed))
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "mark review item reviewed failed", err)
		}
		return nil
	})
}

// ListReviewItems returns every review item, oldest first (review.Store interface).
func (c *Client) ListReviewItems(ctx context.Context) ([]intent.ReviewItem, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT item_id, request_id, original_input, resolved_intent_id, user_correction, confidence_at_time, status, notes, created_at
		FROM review_items ORDER BY created_at ASC`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list review items failed", err)
	}
	defer rows.Close()

	var out []intent.ReviewItem
	for rows.Next() {
		var item intent.ReviewItem
		var status string
		if err := rows.Scan(&item.ItemID, &item.RequestID, &item.OriginalInput, &item.ResolvedIntentID,
			&item.UserCorrection, &item.ConfidenceAtTime, &status, &item.Notes, &item.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan review item failed", err)
		}
		item.Status = intent.ReviewStatus(status)
		out = append(out, item)
	}
	return out, rows.Err()
}

// SaveLearningStats persists the singleton counter row (feedback.StatsStore interface).
func (c *Client) SaveLearningStats(stats intent.LearningStats) error {
	return c.withBreaker(context.Background(), func(ctx context.Context) error {
		_, err := c.db.ExecContext(ctx, `
			UPDATE learning_stats SET total_feedbacks = $1, correct_feedbacks = $2, incorrect_feedbacks = $3, last_update = $4
			WHERE id = 1`,
			stats.TotalFeedbacks, stats.CorrectFeedbacks, stats.IncorrectFeedbacks, stats.LastUpdate)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "save learning stats failed", err)
		}
		return nil
	})
}

// LoadLearningStats loads the singleton counter row (feedback.StatsStore interface).
func (c *Client) LoadLearningStats() (intent.LearningStats, error) {
	var stats intent.LearningStats
	err := c.db.QueryRowContext(context.Background(), `
		SELECT total_feedbacks, correct_feedbacks, incorrect_feedbacks, last_update FROM learning_stats WHERE id = 1`).
		Scan(&stats.TotalFeedbacks, &stats.CorrectFeedbacks, &stats.IncorrectFeedbacks, &stats.LastUpdate)
	if err != nil {
		return intent.LearningStats{}, apperr.Wrap(apperr.KindInternal, "load learning stats failed", err)
	}
	return stats, nil
}

// ModelIdentity is the persisted embedder model id/dimension golden
// records on disk were encoded with.
type ModelIdentity struct {
	ModelID   string
	Dimension int
}

// LoadModelIdentity returns the persisted model identity, or
// (ModelIdentity{}, false, nil) if none has been recorded yet.
func (c *Client) LoadModelIdentity(ctx context.Context) (ModelIdentity, bool, error) {
	var id ModelIdentity
	err := c.db.QueryRowContext(ctx, `SELECT model_id, dimension FROM model_identity WHERE id = 1`).
		Scan(&id.ModelID, &id.Dimension)
	if errors.Is(err, stdsql.ErrNoRows) {
		return ModelIdentity{}, false, nil
	}
	if err != nil {
		return ModelIdentity{}, false, apperr.Wrap(apperr.KindInternal, "load model identity failed", err)
	}
	return id, true, nil
}

// SaveModelIdentity upserts the current embedder's model identity.
func (c *Client) SaveModelIdentity(ctx context.Context, id ModelIdentity) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO model_identity (id, model_id, dimension, updated_at) VALUES (1, $1, $2, now())
		ON CONFLICT (id) DO UPDATE SET model_id = $1, dimension = $2, updated_at = now()`,
		id.ModelID, id.Dimension)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "save model identity failed", err)
	}
	return nil
}

// ClearGoldenRecords deletes all persisted golden records, used when the
// MemoryModelMismatch policy is "clear" rather than "fail_fast".
func (c *Client) ClearGoldenRecords(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM golden_records`)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "clear golden records failed", err)
	}
	return nil
}
