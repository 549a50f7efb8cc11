// Package crm implements the Context Resolution Matrix (spec.md §4.5,
// Component C5): 12 weighted factors applied in a fixed order to a
// candidate, intent, and context, producing an adjusted score plus an
// audit trail of active factors. Per spec.md §9 ("Polymorphism over
// factors"), the factors are a closed enumeration modelled as a
// discriminated union — a slice of factor values implementing a single
// apply contract — rather than via inheritance.
package crm

import (
	"github.com/intentflow/resolver/pkg/intent"
)

// Verdict is what a single factor decided.
type Verdict struct {
	Delta     float64
	Influence intent.FactorInfluence
	HardStop  bool
}

// Weights holds the per-factor deltas for the nine CRM factors whose
// magnitude is a tunable boost (spec.md §4.5). The three remaining factors
// are structural rather than weighted: conflict_markers is a hard stop, and
// social_propriety/input_fidelity scale the running score by a multiplier
// rather than adding a fixed delta. location_context and user_profile also
// hard-stop on a required-location or required-profile mismatch; only
// their boosts are weighted.
type Weights struct {
	AssociationHistoryBoost   float64
	GoalAlignmentBoost        float64
	SituationContextBoost     float64
	LinguisticIndicatorsBoost float64
	SemanticCapacityBoost     float64
	LocationContextBoost      float64
	TemporalContextBoost      float64
	UserProfileBoost          float64
	ProsodicFeaturesBoost     float64
}

// DefaultWeights reproduces the table in spec.md §4.5 exactly.
func DefaultWeights() Weights {
	return Weights{
		AssociationHistoryBoost:   0.15,
		GoalAlignmentBoost:        0.20,
		SituationContextBoost:     0.15,
		LinguisticIndicatorsBoost: 0.08,
		SemanticCapacityBoost:     0.12,
		LocationContextBoost:      0.09,
		TemporalContextBoost:      0.15,
		UserProfileBoost:          0.12,
		ProsodicFeaturesBoost:     0.08,
	}
}

// factor is the uniform contract every one of the 12 CRM factors
// implements (spec.md §9).
type factor struct {
	name  string
	apply func(candidate intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, score float64, w Weights) Verdict
}

// orderedFactors is the fixed evaluation order from spec.md §4.5. Order
// matters: it is the canonical tie-break order for contributing_factors
// (spec.md §8) and the order in which a hard-stop can short-circuit.
var orderedFactors = []factor{
	{"association_history", applyAssociationHistory},
	{"conflict_markers", applyConflictMarkers},
	{"goal_alignment", applyGoalAlignment},
	{"situation_context", applySituationContext},
	{"linguistic_indicators", applyLinguisticIndicators},
	{"semantic_capacity", applySemanticCapacity},
	{"social_propriety", applySocialPropriety},
	{"location_context", applyLocationContext},
	{"temporal_context", applyTemporalContext},
	{"user_profile", applyUserProfile},
	{"prosodic_features", applyProsodicFeatures},
	{"input_fidelity", applyInputFidelity},
}

func applyAssociationHistory(candidate intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, _ float64, w Weights) Verdict {
	if ctx.HasAssociation(in.ID) {
		return Verdict{Delta: w.AssociationHistoryBoost, Influence: intent.InfluenceBoost}
	}
	for assoc := range in.AssociatedIntents {
		if ctx.HasAssociation(assoc) {
			return Verdict{Delta: w.AssociationHistoryBoost, Influence: intent.InfluenceBoost}
		}
	}
	return Verdict{}
}

func applyConflictMarkers(_ intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, _ float64, _ Weights) Verdict {
	for marker := range ctx.ConflictMarkers {
		if _, forbidden := in.ForbiddenWhenConflicts[marker]; forbidden {
			return Verdict{Influence: intent.InfluenceHardStop, HardStop: true}
		}
	}
	return Verdict{}
}

func applyGoalAlignment(_ intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, _ float64, w Weights) Verdict {
	if in.RequiredPurpose != "" && ctx.GoalAlignment != "" && in.RequiredPurpose == ctx.GoalAlignment {
		return Verdict{Delta: w.GoalAlignmentBoost, Influence: intent.InfluenceBoost}
	}
	return Verdict{}
}

func applySituationContext(_ intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, _ float64, w Weights) Verdict {
	if in.RequiredSituation != "" && ctx.SituationContext != "" && in.RequiredSituation == ctx.SituationContext {
		return Verdict{Delta: w.SituationContextBoost, Influence: intent.InfluenceBoost}
	}
	return Verdict{}
}

func applyLinguisticIndicators(_ intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, _ float64, w Weights) Verdict {
	if in.PreferredLinguisticIndicator != "" && ctx.LinguisticIndicators != "" &&
		in.PreferredLinguisticIndicator == ctx.LinguisticIndicators {
		return Verdict{Delta: w.LinguisticIndicatorsBoost, Influence: intent.InfluenceBoost}
	}
	return Verdict{}
}

func applySemanticCapacity(_ intent.SemanticCandidate, _ *intent.Intent, ctx intent.ContextSnapshot, _ float64, w Weights) Verdict {
	if ctx.SemanticCapacity == nil {
		return Verdict{}
	}
	delta := w.SemanticCapacityBoost * *ctx.SemanticCapacity
	if delta == 0 {
		return Verdict{}
	}
	return Verdict{Delta: delta, Influence: intent.InfluenceBoost}
}

func applySocialPropriety(_ intent.SemanticCandidate, _ *intent.Intent, ctx intent.ContextSnapshot, score float64, _ Weights) Verdict {
	if ctx.SocialPropriety == nil || *ctx.SocialPropriety >= 0 {
		return Verdict{}
	}
	multiplier := 1 + *ctx.SocialPropriety
	if multiplier < 0.1 {
		multiplier = 0.1
	}
	adjusted := score * multiplier
	return Verdict{Delta: adjusted - score, Influence: intent.InfluencePenalty}
}

func applyLocationContext(_ intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, _ float64, w Weights) Verdict {
	if in.RequiredLocation != "" && in.RequiredLocation != ctx.LocationContext {
		return Verdict{Influence: intent.InfluenceHardStop, HardStop: true}
	}
	if in.HelpfulLocation != "" && ctx.LocationContext != "" && in.HelpfulLocation == ctx.LocationContext {
		return Verdict{Delta: w.LocationContextBoost, Influence: intent.InfluenceBoost}
	}
	return Verdict{}
}

func applyTemporalContext(_ intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, _ float64, w Weights) Verdict {
	if in.TimeWindow == nil || ctx.TemporalContext == nil {
		return Verdict{}
	}
	if in.TimeWindow.Contains(*ctx.TemporalContext) {
		return Verdict{Delta: w.TemporalContextBoost, Influence: intent.InfluenceBoost}
	}
	return Verdict{}
}

func applyUserProfile(_ intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, _ float64, w Weights) Verdict {
	if in.RequiredProfile != "" && in.RequiredProfile != ctx.UserProfile {
		return Verdict{Influence: intent.InfluenceHardStop, HardStop: true}
	}
	if ctx.UserProfile != "" {
		if _, preferred := in.PreferredProfiles[ctx.UserProfile]; preferred {
			return Verdict{Delta: w.UserProfileBoost, Influence: intent.InfluenceBoost}
		}
	}
	return Verdict{}
}

func applyProsodicFeatures(_ intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, _ float64, w Weights) Verdict {
	if in.PreferredProsody != "" && ctx.ProsodicFeatures != "" && in.PreferredProsody == ctx.ProsodicFeatures {
		return Verdict{Delta: w.ProsodicFeaturesBoost, Influence: intent.InfluenceBoost}
	}
	return Verdict{}
}

func applyInputFidelity(_ intent.SemanticCandidate, _ *intent.Intent, ctx intent.ContextSnapshot, score float64, _ Weights) Verdict {
	if ctx.InputFidelity == nil || *ctx.InputFidelity >= 1 {
		return Verdict{}
	}
	multiplier := 0.5 + 0.5**ctx.InputFidelity
	adjusted := score * multiplier
	return Verdict{Delta: adjusted - score, Influence: intent.InfluencePenalty}
}
