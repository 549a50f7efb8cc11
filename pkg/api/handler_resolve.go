package api

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/intentflow/resolver/pkg/intent"
)

// resolveIntentHandler handles POST /resolve-intent.
func (s *Server) resolveIntentHandler(c *echo.Context) error {
	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctxIn := contextInputFromRequest(req.Context)

	start := time.Now()
	result, err := s.resolver.Resolve(req.CommandText, ctxIn)
	elapsed := time.Since(start)

	if err != nil {
		if s.metrics != nil {
			s.metrics.ObserveResolve("error", elapsed.Seconds())
		}
		return mapServiceError(err)
	}

	if s.metrics != nil {
		resultLabel := "ok"
		if result.FallbackUsed {
			resultLabel = "fallback"
		}
		s.metrics.ObserveResolve(resultLabel, elapsed.Seconds())
	}

	return c.JSON(http.StatusOK, resolveResponseFrom(req.CommandText, result, elapsed))
}

func contextInputFromRequest(r *ContextRequest) intent.ContextInput {
	if r == nil {
		return intent.ContextInput{}
	}
	return intent.ContextInput{
		AssociationHistory:   r.AssociationHistory,
		ConflictMarkers:      r.ConflictMarkers,
		GoalAlignment:        r.GoalAlignment,
		SituationContext:     r.SituationContext,
		LinguisticIndicators: r.LinguisticIndicators,
		SemanticCapacity:     r.SemanticCapacity,
		SocialPropriety:      r.SocialPropriety,
		LocationContext:      r.LocationContext,
		TemporalContext:      r.TemporalContext,
		UserProfile:          r.UserProfile,
		ProsodicFeatures:     r.ProsodicFeatures,
		InputFidelity:        r.InputFidelity,
	}
}

func resolveResponseFrom(inputText string, result intent.VerifiedIntent, elapsed time.Duration) ResolveResponse {
	factors := make([]FactorResponse, len(result.ActiveFactors))
	for i, f := range result.ActiveFactors {
		factors[i] = FactorResponse{FactorName: f.FactorName, Delta: f.Delta, Influence: string(f.Influence)}
	}

	allScores := make(map[string]float64, len(result.Stage1Candidates))
	for _, c := range result.Stage1Candidates {
		allScores[c.IntentID] = c.BaseScore
	}

	alternatives := result.AlternativeIntents
	if alternatives == nil {
		alternatives = map[string]float64{}
	}

	return ResolveResponse{
		ResolvedIntent:      result.IntentID,
		ConfidenceScore:     result.Confidence,
		ContributingFactors: factors,
		AlternativeIntents:  alternatives,
		AuditTrail: AuditTrail{
			InputText:           inputText,
			ActiveFactors:       factors,
			AllScores:           allScores,
			ResolutionTimestamp: time.Now(),
		},
		RequestID:        result.RequestID,
		ProcessingTimeMs: float64(elapsed.Microseconds()) / 1000.0,
	}
}
