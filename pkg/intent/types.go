// Package intent holds the core data model shared by the corpus, the
// context resolution matrix, the hybrid resolver, and the feedback loop:
// Intent, ContextSnapshot, SemanticCandidate, ResolutionFactor,
// VerifiedIntent, GoldenRecord, ReviewItem and LearningStats. Types here
// are transient or immutable per the ownership rules of the resolution
// engine; nothing in this package mutates an Intent after load.
package intent

import "time"

// FallbackIntentID is the reserved pseudo-intent returned when no
// candidate clears the confidence floor.
const FallbackIntentID = "__fallback_uncertain__"

// Intent is a single entry in the static intent corpus. Immutable once
// loaded; never mutated at runtime.
type Intent struct {
	ID                     string
	PureText               string
	Examples               []string
	RequiredLocation       string
	HelpfulLocation        string
	RequiredPurpose        string
	RequiredSituation      string
	AssociatedIntents      map[string]struct{}
	ForbiddenWhenConflicts map[string]struct{}

	// Optional corpus-supplied preferences consumed by the CRM's
	// linguistic_indicators, temporal_context, user_profile and
	// prosodic_features factors. Absent/zero-value fields signal no
	// preference for that factor.
	PreferredLinguisticIndicator string
	TimeWindow                   *TimeWindow
	RequiredProfile              string
	PreferredProfiles            map[string]struct{}
	PreferredProsody             string
}

// TimeWindow is a corpus-declared daily validity window for the
// temporal_context CRM factor. Start/End are minutes since midnight;
// a window that wraps past midnight has End < Start.
type TimeWindow struct {
	Start int
	End   int
}

// Contains reports whether t falls inside the window, in t's local clock
// time-of-day, handling windows that wrap past midnight.
func (w TimeWindow) Contains(t time.Time) bool {
	minutes := t.Hour()*60 + t.Minute()
	if w.Start <= w.End {
		return minutes >= w.Start && minutes <= w.End
	}
	return minutes >= w.Start || minutes <= w.End
}

// ContextSnapshot is the immutable, per-request structured context. Every
// field is optional; the zero value of a pointer/slice/map field means
// "not signalling" rather than a real value. Numeric fields that are
// present must lie within their declared range or context construction
// fails with apperr.KindInvalidContext.
type ContextSnapshot struct {
	AssociationHistory   []string // ordered, most recent last
	ConflictMarkers      map[string]struct{}
	GoalAlignment        string
	SituationContext     string
	LinguisticIndicators string
	SemanticCapacity     *float64 // [0,1]
	SocialPropriety      *float64 // [-1,1]
	LocationContext      string
	TemporalContext      *time.Time
	UserProfile          string
	ProsodicFeatures     string
	InputFidelity        *float64 // [0,1]
}

// SemanticCandidate is a transient Stage-1 output: an intent id, its base
// score, and which retrieval path produced it.
type SemanticCandidate struct {
	IntentID  string
	BaseScore float64
	Source    CandidateSource
}

// CandidateSource identifies which Stage-1 retrieval path produced a candidate.
type CandidateSource string

const (
	SourceCorpus CandidateSource = "corpus"
	SourceMemory CandidateSource = "memory"
)

// FactorInfluence classifies how a ResolutionFactor affected a candidate's score.
type FactorInfluence string

const (
	InfluenceBoost    FactorInfluence = "boost"
	InfluencePenalty  FactorInfluence = "penalty"
	InfluenceHardStop FactorInfluence = "hard_stop"
)

// ResolutionFactor is one CRM factor's verdict against a single candidate.
type ResolutionFactor struct {
	FactorName string
	Delta      float64
	Influence  FactorInfluence
}

// VerifiedIntent is the final, transient result of a resolve call.
type VerifiedIntent struct {
	IntentID         string
	Confidence       float64
	Stage1Candidates []SemanticCandidate
	Stage2Passed     bool
	ActiveFactors    []ResolutionFactor
	FactorDeltas     map[string]float64
	FallbackUsed     bool
	RequestID        string

	// AlternativeIntents holds Stage-2 survivors other than the winner,
	// keyed by intent id, mapped to their adjusted score.
	AlternativeIntents map[string]float64
}

// GoldenRecord is a persistent, positive-feedback reinforcement of the
// engine's memory. Created by feedback, never mutated, optionally
// evictable by age or count.
type GoldenRecord struct {
	RecordID           string
	OriginalInput      string
	Embedding          []float64
	ResolvedIntentID   string
	ConfidenceAtTime   float64
	ContextFingerprint string
	CreatedAt          time.Time
}

// ReviewStatus is the adjudication state of a ReviewItem.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusReviewed ReviewStatus = "reviewed"
)

// ReviewItem is a persistent, append-only negative-feedback record
// awaiting human adjudication.
type ReviewItem struct {
	ItemID           string
	RequestID        string
	OriginalInput    string
	ResolvedIntentID string
	UserCorrection   string
	ConfidenceAtTime float64
	CreatedAt        time.Time
	Status           ReviewStatus

	// Notes carries the richer feedback shape's optional correct_intent/
	// notes fields when the caller supplies them. Never used for routing
	// (spec.md §9): the simplified {request_id, user_correction,
	// was_successful} shape alone decides whether this item is created.
	Notes string
}

// LearningStats is the persistent singleton counter set for the feedback
// loop. Invariant: Correct + Incorrect == Total.
type LearningStats struct {
	TotalFeedbacks     int64
	CorrectFeedbacks   int64
	IncorrectFeedbacks int64
	LastUpdate         time.Time
}
