package crm

import (
	"sort"

	"github.com/intentflow/resolver/pkg/intent"
)

// Result is the outcome of scoring one candidate against one intent and
// context (spec.md §4.5).
type Result struct {
	AdjustedScore float64
	Factors       []intent.ResolutionFactor
	HardStop      bool
}

// Score evaluates all 12 CRM factors against candidate/in/ctx in the fixed
// order declared in spec.md §4.5, using weights for the nine tunable boost
// factors. CRM is a pure function of its inputs and never fails (spec.md
// §7).
func Score(candidate intent.SemanticCandidate, in *intent.Intent, ctx intent.ContextSnapshot, weights Weights) Result {
	score := candidate.BaseScore
	var factors []intent.ResolutionFactor

	for _, f := range orderedFactors {
		verdict := f.apply(candidate, in, ctx, score, weights)

		if verdict.HardStop {
			factors = append(factors, intent.ResolutionFactor{
				FactorName: f.name,
				Delta:      0,
				Influence:  intent.InfluenceHardStop,
			})
			return Result{AdjustedScore: 0, Factors: orderFactors(factors), HardStop: true}
		}

		if verdict.Delta != 0 {
			score += verdict.Delta
			factors = append(factors, intent.ResolutionFactor{
				FactorName: f.name,
				Delta:      clampDelta(verdict.Delta),
				Influence:  verdict.Influence,
			})
		}
	}

	return Result{AdjustedScore: clamp01(score), Factors: orderFactors(factors)}
}

// orderFactors sorts by |delta| descending; a hard-stop entry (delta 0 by
// convention) sorts first.
func orderFactors(factors []intent.ResolutionFactor) []intent.ResolutionFactor {
	out := make([]intent.ResolutionFactor, len(factors))
	copy(out, factors)
	sort.SliceStable(out, func(i, j int) bool {
		iHard := out[i].Influence == intent.InfluenceHardStop
		jHard := out[j].Influence == intent.InfluenceHardStop
		if iHard != jHard {
			return iHard
		}
		return absf(out[i].Delta) > absf(out[j].Delta)
	})
	return out
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampDelta(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
