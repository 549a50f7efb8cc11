// Package resolver implements the Hybrid Resolver (spec.md §4.6,
// Component C6): orchestrates the Normaliser, Embedder, Intent Corpus,
// Fast Memory and Context Resolution Matrix into a single resolve call
// that produces a VerifiedIntent.
package resolver

import (
	"sort"

	"github.com/google/uuid"

	"github.com/intentflow/resolver/pkg/corpus"
	"github.com/intentflow/resolver/pkg/crm"
	"github.com/intentflow/resolver/pkg/embedding"
	"github.com/intentflow/resolver/pkg/intent"
	"github.com/intentflow/resolver/pkg/memory"
	"github.com/intentflow/resolver/pkg/normalize"
)

// IDGenerator produces a request id. Pluggable so tests can substitute a
// deterministic generator (spec.md §9, "Determinism vs random request_id").
type IDGenerator interface {
	NewID() string
}

// PendingRecorder is notified after every resolve call with the pieces a
// later positive-feedback submission needs to build a GoldenRecord: the
// normalised input, its embedding, the context fingerprint, and what the
// engine actually resolved (spec.md §4.7's "stored pending record for
// request_id"; spec.md §3's ReviewItem.resolved_intent_id/confidence_at_time
// contract). Recording failures are the caller's concern; Resolve itself
// never fails because of them.
type PendingRecorder interface {
	RecordPending(requestID, normalisedInput string, embedding []float64, contextFingerprint, resolvedIntentID string, confidenceAtTime float64)
}

// UUIDGenerator is the production IDGenerator: a random UUID v4 per call.
type UUIDGenerator struct{}

// NewID returns a fresh random UUID v4 string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Config holds the tunables the spec calls out as "implementable as
// config" (spec.md §4.5, §4.6): the Stage-1/Stage-2 retrieval/fallback
// knobs, and the CRM weight table itself.
type Config struct {
	// StageOneK is the number of corpus-ranked candidates retained before
	// Stage 2 (spec.md §4.6: K_stage1 = 5).
	StageOneK int
	// MemoryK is the number of Fast Memory hits queried per resolve
	// (spec.md §4.6: K_mem = 5).
	MemoryK int
	// MemoryBoostAlpha is α in "boost that intent's base score by
	// α·similarity" (spec.md §4.6: α = 0.2).
	MemoryBoostAlpha float64
	// FallbackThreshold is θ in spec.md §4.6 (default 0.6).
	FallbackThreshold float64
	// CRMWeights is the Context Resolution Matrix's per-factor weight
	// table (spec.md §4.5), deployment-configurable.
	CRMWeights crm.Weights
}

// DefaultConfig returns the contract defaults named in spec.md §4.6 and §8.
func DefaultConfig() Config {
	return Config{
		StageOneK:         5,
		MemoryK:           5,
		MemoryBoostAlpha:  0.2,
		FallbackThreshold: 0.6,
		CRMWeights:        crm.DefaultWeights(),
	}
}

// Resolver is the Hybrid Resolver. Stateless beyond its collaborators; safe
// for concurrent use since Normaliser/Embedder are stateless, Corpus is
// read-only, and Fast Memory is internally synchronised.
type Resolver struct {
	corpus     *corpus.Corpus
	normaliser *normalize.Normaliser
	embedder   *embedding.Embedder
	fastMemory *memory.Store
	ids        IDGenerator
	cfg        Config
	pending    PendingRecorder

	// exampleEmbeddings caches each intent's per-example embeddings,
	// precomputed at construction time (spec.md §4.6: "precomputed at
	// load").
	exampleEmbeddings map[string][][]float64
}

// New builds a Resolver. Example embeddings for every corpus intent are
// precomputed once, up front.
func New(c *corpus.Corpus, n *normalize.Normaliser, e *embedding.Embedder, fm *memory.Store, ids IDGenerator, cfg Config) *Resolver {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if cfg.CRMWeights == (crm.Weights{}) {
		cfg.CRMWeights = crm.DefaultWeights()
	}

	r := &Resolver{
		corpus:            c,
		normaliser:        n,
		embedder:          e,
		fastMemory:        fm,
		ids:               ids,
		cfg:               cfg,
		exampleEmbeddings: make(map[string][][]float64),
	}

	for _, in := range c.All() {
		vecs := make([][]float64, len(in.Examples))
		for i, ex := range in.Examples {
			vecs[i] = e.Embed(ex)
		}
		r.exampleEmbeddings[in.ID] = vecs
	}

	return r
}

// SetPendingRecorder wires a PendingRecorder to be notified after every
// resolve call. Optional: a Resolver with no recorder set simply skips the
// notification.
func (r *Resolver) SetPendingRecorder(p PendingRecorder) {
	r.pending = p
}

// stage1Candidate is an internal working value (intent id and Stage-1 base
// score) before the SemanticCandidate conversion.
type stage1Candidate struct {
	intentID  string
	baseScore float64
}

// Resolve runs the full two-stage pipeline (spec.md §4.6). ctxIn may be the
// zero value (an omitted context — spec.md §6).
func (r *Resolver) Resolve(rawInput string, ctxIn intent.ContextInput) (intent.VerifiedIntent, error) {
	text, fidelity := r.normaliser.Normalise(rawInput)
	if ctxIn.InputFidelity == nil {
		ctxIn.InputFidelity = &fidelity
	}

	ctx, err := intent.NewContextSnapshot(ctxIn)
	if err != nil {
		return intent.VerifiedIntent{}, err
	}

	vec := r.embedder.Embed(text)

	stage1 := r.stage1(vec)
	stage1Candidates := make([]intent.SemanticCandidate, 0, len(stage1))
	for _, c := range stage1 {
		stage1Candidates = append(stage1Candidates, intent.SemanticCandidate{
			IntentID:  c.intentID,
			BaseScore: c.baseScore,
			Source:    intent.SourceCorpus,
		})
	}

	requestID := r.ids.NewID()
	fingerprint := intent.ContextFingerprint(ctx)

	type survivor struct {
		intentID string
		result   crm.Result
	}
	survivors := make([]survivor, 0, len(stage1))

	for _, c := range stage1 {
		in, ok := r.corpus.ByID(c.intentID)
		if !ok {
			continue
		}
		res := crm.Score(intent.SemanticCandidate{IntentID: c.intentID, BaseScore: c.baseScore}, in, ctx, r.cfg.CRMWeights)
		if res.HardStop {
			continue
		}
		survivors = append(survivors, survivor{intentID: c.intentID, result: res})
	}

	if len(survivors) == 0 {
		result := r.fallback(requestID, stage1Candidates, "no_candidates_survived")
		r.recordPending(requestID, text, vec, fingerprint, result.IntentID, result.Confidence)
		return result, nil
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].result.AdjustedScore != survivors[j].result.AdjustedScore {
			return survivors[i].result.AdjustedScore > survivors[j].result.AdjustedScore
		}
		if len(survivors[i].result.Factors) != len(survivors[j].result.Factors) {
			return len(survivors[i].result.Factors) > len(survivors[j].result.Factors)
		}
		return survivors[i].intentID < survivors[j].intentID
	})

	winner := survivors[0]

	if winner.result.AdjustedScore < r.cfg.FallbackThreshold {
		result := r.fallback(requestID, stage1Candidates, "below_confidence_floor")
		r.recordPending(requestID, text, vec, fingerprint, result.IntentID, result.Confidence)
		return result, nil
	}

	alternatives := make(map[string]float64, len(survivors)-1)
	for _, s := range survivors[1:] {
		alternatives[s.intentID] = s.result.AdjustedScore
	}

	factorDeltas := make(map[string]float64, len(winner.result.Factors))
	for _, f := range winner.result.Factors {
		factorDeltas[f.FactorName] = f.Delta
	}

	r.recordPending(requestID, text, vec, fingerprint, winner.intentID, winner.result.AdjustedScore)

	return intent.VerifiedIntent{
		IntentID:           winner.intentID,
		Confidence:         winner.result.AdjustedScore,
		Stage1Candidates:   stage1Candidates,
		Stage2Passed:       true,
		ActiveFactors:      winner.result.Factors,
		FactorDeltas:       factorDeltas,
		FallbackUsed:       false,
		RequestID:          requestID,
		AlternativeIntents: alternatives,
	}, nil
}

// recordPending notifies the PendingRecorder, if one is wired, with what the
// engine resolved for this request (spec.md §4.7, §3).
func (r *Resolver) recordPending(requestID, normalisedInput string, vec []float64, fingerprint, resolvedIntentID string, confidence float64) {
	if r.pending == nil {
		return
	}
	r.pending.RecordPending(requestID, normalisedInput, vec, fingerprint, resolvedIntentID, confidence)
}

// stage1 computes Stage-1 base scores: per-intent max cosine similarity
// over its examples, boosted by Fast Memory hits, retaining the top
// StageOneK intents by resulting score (spec.md §4.6, steps 2-3).
func (r *Resolver) stage1(vec []float64) []stage1Candidate {
	scores := make(map[string]float64, len(r.exampleEmbeddings))
	for id, exampleVecs := range r.exampleEmbeddings {
		best := 0.0
		for _, ev := range exampleVecs {
			sim := embedding.CosineSimilarity(vec, ev)
			if sim > best {
				best = sim
			}
		}
		scores[id] = best
	}

	memK := r.cfg.MemoryK
	if memK <= 0 {
		memK = 5
	}
	for _, match := range r.fastMemory.Query(vec, memK) {
		if _, ok := r.corpus.ByID(match.Record.ResolvedIntentID); !ok {
			continue
		}
		scores[match.Record.ResolvedIntentID] += r.cfg.MemoryBoostAlpha * match.Similarity
	}

	candidates := make([]stage1Candidate, 0, len(scores))
	for id, score := range scores {
		candidates = append(candidates, stage1Candidate{intentID: id, baseScore: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].baseScore != candidates[j].baseScore {
			return candidates[i].baseScore > candidates[j].baseScore
		}
		return candidates[i].intentID < candidates[j].intentID
	})

	k := r.cfg.StageOneK
	if k <= 0 {
		k = 5
	}
	if k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates
}

func (r *Resolver) fallback(requestID string, stage1Candidates []intent.SemanticCandidate, reason string) intent.VerifiedIntent {
	return intent.VerifiedIntent{
		IntentID:         intent.FallbackIntentID,
		Confidence:       0,
		Stage1Candidates: stage1Candidates,
		Stage2Passed:     false,
		ActiveFactors: []intent.ResolutionFactor{
			{FactorName: reason, Delta: 0, Influence: intent.InfluencePenalty},
		},
		FactorDeltas:       map[string]float64{},
		FallbackUsed:       true,
		RequestID:          requestID,
		AlternativeIntents: map[string]float64{},
	}
}
