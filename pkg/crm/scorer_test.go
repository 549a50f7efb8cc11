package crm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intentflow/resolver/pkg/intent"
)

func ptr(v float64) *float64 { return &v }

func TestScore_BankingDisambiguation(t *testing.T) {
	in := &intent.Intent{
		ID:              "transfer_to_account",
		RequiredPurpose: "finance",
		HelpfulLocation: "bank_branch",
	}
	ctx, err := intent.NewContextSnapshot(intent.ContextInput{
		LocationContext:  "bank_branch",
		GoalAlignment:    "finance",
		UserProfile:      "analyst",
		SemanticCapacity: ptr(0.95),
		InputFidelity:    ptr(0.98),
	})
	require.NoError(t, err)

	candidate := intent.SemanticCandidate{IntentID: in.ID, BaseScore: 0.6}
	res := Score(candidate, in, ctx, DefaultWeights())

	assert.False(t, res.HardStop)
	assert.GreaterOrEqual(t, res.AdjustedScore, 0.9)

	names := factorNames(res.Factors)
	assert.Contains(t, names, "goal_alignment")
	assert.Contains(t, names, "location_context")
}

func TestScore_ConflictHardStop(t *testing.T) {
	in := &intent.Intent{
		ID:                     "start_timer",
		ForbiddenWhenConflicts: map[string]struct{}{"cancel": {}},
	}
	ctx, err := intent.NewContextSnapshot(intent.ContextInput{ConflictMarkers: []string{"cancel"}})
	require.NoError(t, err)

	res := Score(intent.SemanticCandidate{IntentID: in.ID, BaseScore: 0.9}, in, ctx, DefaultWeights())

	assert.True(t, res.HardStop)
	assert.Equal(t, 0.0, res.AdjustedScore)
}

func TestScore_LocationRequiredMismatchHardStops(t *testing.T) {
	in := &intent.Intent{ID: "x", RequiredLocation: "vault"}
	ctx, err := intent.NewContextSnapshot(intent.ContextInput{LocationContext: "kitchen"})
	require.NoError(t, err)

	res := Score(intent.SemanticCandidate{IntentID: in.ID, BaseScore: 0.9}, in, ctx, DefaultWeights())
	assert.True(t, res.HardStop)
}

func TestScore_SocialProprietyPenalty(t *testing.T) {
	in := &intent.Intent{ID: "x"}
	ctx, err := intent.NewContextSnapshot(intent.ContextInput{SocialPropriety: ptr(-0.5)})
	require.NoError(t, err)

	res := Score(intent.SemanticCandidate{IntentID: in.ID, BaseScore: 0.8}, in, ctx, DefaultWeights())
	// 0.8 * (1 + -0.5) = 0.4
	assert.InDelta(t, 0.4, res.AdjustedScore, 1e-9)
}

func TestScore_SocialProprietyFloorsMultiplierAt0_1(t *testing.T) {
	in := &intent.Intent{ID: "x"}
	ctx, err := intent.NewContextSnapshot(intent.ContextInput{SocialPropriety: ptr(-1.0)})
	require.NoError(t, err)

	res := Score(intent.SemanticCandidate{IntentID: in.ID, BaseScore: 1.0}, in, ctx, DefaultWeights())
	assert.InDelta(t, 0.1, res.AdjustedScore, 1e-9)
}

func TestScore_InputFidelityPenalty(t *testing.T) {
	in := &intent.Intent{ID: "x"}
	ctx, err := intent.NewContextSnapshot(intent.ContextInput{InputFidelity: ptr(0.0)})
	require.NoError(t, err)

	res := Score(intent.SemanticCandidate{IntentID: in.ID, BaseScore: 0.8}, in, ctx, DefaultWeights())
	assert.InDelta(t, 0.4, res.AdjustedScore, 1e-9)
}

func TestScore_EmptyContextNoFactorsActive(t *testing.T) {
	in := &intent.Intent{ID: "x"}
	ctx, err := intent.NewContextSnapshot(intent.ContextInput{})
	require.NoError(t, err)

	res := Score(intent.SemanticCandidate{IntentID: in.ID, BaseScore: 0.7}, in, ctx, DefaultWeights())
	assert.False(t, res.HardStop)
	assert.Empty(t, res.Factors)
	assert.InDelta(t, 0.7, res.AdjustedScore, 1e-9)
}

func TestScore_FactorsOrderedByAbsDeltaDescending(t *testing.T) {
	in := &intent.Intent{ID: "x", RequiredPurpose: "navigate", RequiredSituation: "commute"}
	ctx, err := intent.NewContextSnapshot(intent.ContextInput{GoalAlignment: "navigate", SituationContext: "commute"})
	require.NoError(t, err)

	res := Score(intent.SemanticCandidate{IntentID: in.ID, BaseScore: 0.5}, in, ctx, DefaultWeights())
	require.Len(t, res.Factors, 2)
	assert.Equal(t, "goal_alignment", res.Factors[0].FactorName)
	assert.Equal(t, "situation_context", res.Factors[1].FactorName)
}

func TestScore_ClampsAtOne(t *testing.T) {
	in := &intent.Intent{ID: "x", RequiredPurpose: "navigate"}
	ctx, err := intent.NewContextSnapshot(intent.ContextInput{GoalAlignment: "navigate", SemanticCapacity: ptr(1.0)})
	require.NoError(t, err)

	res := Score(intent.SemanticCandidate{IntentID: in.ID, BaseScore: 0.95}, in, ctx, DefaultWeights())
	assert.LessOrEqual(t, res.AdjustedScore, 1.0)
}

func factorNames(factors []intent.ResolutionFactor) []string {
	names := make([]string, len(factors))
	for i, f := range factors {
		names[i] = f.FactorName
	}
	return names
}
