package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/intentflow/resolver/pkg/apperr"
	"github.com/intentflow/resolver/pkg/corpus"
	"github.com/intentflow/resolver/pkg/intent"
	"github.com/intentflow/resolver/pkg/memory"
	"github.com/intentflow/resolver/pkg/notify"
	"github.com/intentflow/resolver/pkg/review"
)

// Action is the outcome of a Submit call (spec.md §4.7 return shape).
type Action string

const (
	ActionLoggedForLearning   Action = "logged_for_learning"
	ActionQueuedForReview     Action = "queued_for_review"
	ActionLoggedWithoutMemory Action = "logged_without_memory"
)

// Receipt is the FeedbackReceipt returned by Submit.
type Receipt struct {
	Action Action
	Stats  intent.LearningStats
}

// SubmitInput is the validated input to Submit. Notes carries the richer
// feedback shape's optional fields (spec.md §9; the HTTP handler folds
// correct_intent into it): preserved on the resulting ReviewItem but never
// used to change routing.
type SubmitInput struct {
	RequestID      string
	UserCorrection string
	WasSuccessful  bool
	Notes          string
}

// IDGenerator produces ids for new GoldenRecords/ReviewItems.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// GoldenStore is the durability boundary for golden records created by
// positive feedback, satisfied by pkg/database's Postgres-backed Client.
// Fast Memory's own Insert is in-process only; without this, a successful
// resolve's reinforcement would be lost on restart.
type GoldenStore interface {
	InsertGoldenRecord(ctx context.Context, rec intent.GoldenRecord) error
}

// Manager is the Feedback Manager (spec.md §4.7, Component C7).
type Manager struct {
	corpus  *corpus.Corpus
	memory  *memory.Store
	queue   *review.Queue
	pending *PendingCache
	stats   *Stats
	golden  GoldenStore
	notify  *notify.Service
	ids     IDGenerator
	clock   func() time.Time
}

// SetNotifier wires a Slack notification service, announcing new review
// items as they're appended. Optional: a nil notifier (the default) keeps
// Submit silent, matching notify.Service's own nil-safe no-op behavior.
func (m *Manager) SetNotifier(n *notify.Service) {
	m.notify = n
}

// New creates a Manager wiring Fast Memory, the Review Queue, the pending
// record cache, the durable golden-record store, and the LearningStats
// tracker.
func New(c *corpus.Corpus, mem *memory.Store, queue *review.Queue, pending *PendingCache, golden GoldenStore, stats *Stats) *Manager {
	return &Manager{
		corpus:  c,
		memory:  mem,
		queue:   queue,
		pending: pending,
		golden:  golden,
		stats:   stats,
		ids:     uuidGenerator{},
		clock:   time.Now,
	}
}

// Validate checks request_id/user_correction per spec.md §4.7, returning
// apperr.KindInvalidFeedback on the first violation.
func Validate(in SubmitInput) error {
	if _, err := uuid.Parse(in.RequestID); err != nil {
		return apperr.Field(apperr.KindInvalidFeedback, "request_id", "must be a well-formed UUID")
	}
	if l := len(in.UserCorrection); l < 1 || l > 100 {
		return apperr.Field(apperr.KindInvalidFeedback, "user_correction", "must be 1-100 characters")
	}
	return nil
}

// Submit validates and routes one feedback message (spec.md §4.7).
func (m *Manager) Submit(ctx context.Context, in SubmitInput) (Receipt, error) {
	if err := Validate(in); err != nil {
		return Receipt{}, err
	}

	now := m.clock()

	if !in.WasSuccessful {
		item := intent.ReviewItem{
			ItemID:         m.ids.NewID(),
			RequestID:      in.RequestID,
			UserCorrection: in.UserCorrection,
			CreatedAt:      now,
			Notes:          in.Notes,
		}
		if pendingRec, err := m.pending.Get(ctx, in.RequestID); err == nil {
			item.OriginalInput = pendingRec.NormalisedInput
			item.ResolvedIntentID = pendingRec.ResolvedIntentID
			item.ConfidenceAtTime = pendingRec.ConfidenceAtTime
		}

		if err := m.queue.Append(ctx, item); err != nil {
			return Receipt{}, apperr.Wrap(apperr.KindInternal, "appending review item", err)
		}

		m.notify.NotifyReviewItem(ctx, notify.ReviewItemInput{
			ItemID:           item.ItemID,
			OriginalInput:    item.OriginalInput,
			ResolvedIntentID: item.ResolvedIntentID,
			UserCorrection:   item.UserCorrection,
			ConfidenceAtTime: item.ConfidenceAtTime,
		})

		stats, err := m.stats.Record(false, now)
		if err != nil {
			return Receipt{}, apperr.Wrap(apperr.KindInternal, "recording feedback stats", err)
		}

		return Receipt{Action: ActionQueuedForReview, Stats: stats}, nil
	}

	pendingRec, err := m.pending.Get(ctx, in.RequestID)
	action := ActionLoggedWithoutMemory

	if err == nil {
		if _, known := m.corpus.ByID(in.UserCorrection); known {
			record := intent.GoldenRecord{
				RecordID:           m.ids.NewID(),
				OriginalInput:      pendingRec.NormalisedInput,
				Embedding:          pendingRec.Embedding,
				ResolvedIntentID:   in.UserCorrection,
				ConfidenceAtTime:   pendingRec.ConfidenceAtTime,
				ContextFingerprint: pendingRec.ContextFingerprint,
				CreatedAt:          now,
			}
			if m.golden != nil {
				if err := m.golden.InsertGoldenRecord(ctx, record); err != nil {
					return Receipt{}, apperr.Wrap(apperr.KindInternal, "persisting golden record", err)
				}
			}
			m.memory.Insert(record)
			m.memory.ReleaseProtection(record.RecordID)
			_ = m.pending.Delete(ctx, in.RequestID)
			action = ActionLoggedForLearning
		}
	}

	stats, statsErr := m.stats.Record(true, now)
	if statsErr != nil {
		return Receipt{}, apperr.Wrap(apperr.KindInternal, "recording feedback stats", statsErr)
	}

	return Receipt{Action: action, Stats: stats}, nil
}
