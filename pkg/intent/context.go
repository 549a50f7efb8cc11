package intent

import (
	"time"

	"github.com/intentflow/resolver/pkg/apperr"
)

// ContextInput is the wire-shaped form of a ContextSnapshot: every
// range-constrained field arrives as a pointer so "absent" is
// distinguishable from the zero value. NewContextSnapshot validates and
// converts it into the immutable ContextSnapshot the engine operates on.
type ContextInput struct {
	AssociationHistory   []string
	ConflictMarkers      []string
	GoalAlignment        string
	SituationContext     string
	LinguisticIndicators string
	SemanticCapacity     *float64
	SocialPropriety      *float64
	LocationContext      string
	TemporalContext      *time.Time
	UserProfile          string
	ProsodicFeatures     string
	InputFidelity        *float64
}

// NewContextSnapshot validates in as the contract requires (every present
// numeric field within its declared range) and builds the immutable
// ContextSnapshot the engine uses. Returns apperr.KindInvalidContext on
// the first violation found.
func NewContextSnapshot(in ContextInput) (ContextSnapshot, error) {
	if in.SemanticCapacity != nil && (*in.SemanticCapacity < 0 || *in.SemanticCapacity > 1) {
		return ContextSnapshot{}, apperr.Field(apperr.KindInvalidContext, "semantic_capacity",
			"must be in [0,1]")
	}
	if in.SocialPropriety != nil && (*in.SocialPropriety < -1 || *in.SocialPropriety > 1) {
		return ContextSnapshot{}, apperr.Field(apperr.KindInvalidContext, "social_propriety",
			"must be in [-1,1]")
	}
	if in.InputFidelity != nil && (*in.InputFidelity < 0 || *in.InputFidelity > 1) {
		return ContextSnapshot{}, apperr.Field(apperr.KindInvalidContext, "input_fidelity",
			"must be in [0,1]")
	}

	var conflicts map[string]struct{}
	if len(in.ConflictMarkers) > 0 {
		conflicts = make(map[string]struct{}, len(in.ConflictMarkers))
		for _, c := range in.ConflictMarkers {
			conflicts[c] = struct{}{}
		}
	}

	history := make([]string, len(in.AssociationHistory))
	copy(history, in.AssociationHistory)

	return ContextSnapshot{
		AssociationHistory:   history,
		ConflictMarkers:      conflicts,
		GoalAlignment:        in.GoalAlignment,
		SituationContext:     in.SituationContext,
		LinguisticIndicators: in.LinguisticIndicators,
		SemanticCapacity:     in.SemanticCapacity,
		SocialPropriety:      in.SocialPropriety,
		LocationContext:      in.LocationContext,
		TemporalContext:      in.TemporalContext,
		UserProfile:          in.UserProfile,
		ProsodicFeatures:     in.ProsodicFeatures,
		InputFidelity:        in.InputFidelity,
	}, nil
}

// SemanticCapacityOrZero returns the semantic_capacity value, or 0 if absent.
func (c ContextSnapshot) SemanticCapacityOrZero() float64 {
	if c.SemanticCapacity == nil {
		return 0
	}
	return *c.SemanticCapacity
}

// HasAssociation reports whether id appears in the association history.
func (c ContextSnapshot) HasAssociation(id string) bool {
	for _, h := range c.AssociationHistory {
		if h == id {
			return true
		}
	}
	return false
}
