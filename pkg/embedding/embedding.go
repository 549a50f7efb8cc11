// Package embedding implements the Embedder (spec.md §4.3, Component C3):
// a deterministic, fixed-dimension text embedding with L2-normalised
// output so cosine similarity reduces to a dot product. The physical
// choice of embedding model is explicitly out of scope (spec.md §1); this
// is a stand-in hashing embedder suitable for a deterministic test/default
// deployment, not a production semantic model.
package embedding

import (
	"hash/fnv"
	"math"
	"strings"
)

// DefaultDimension is the default vector dimension (spec.md §2 example: 384).
const DefaultDimension = 384

// ModelID identifies this hashing embedder and its version; it equals the
// built-in default of the embedder.model_id setting. The id persisted
// alongside Fast Memory and compared at startup (spec.md §4.7,
// MemoryModelMismatch) is the configured embedder.model_id, not this
// constant.
const ModelID = "hashing-embedder-v1"

// Embedder produces deterministic, L2-normalised, fixed-dimension vectors
// for text. Stateless after construction.
type Embedder struct {
	dim int
}

// New creates an Embedder with the given output dimension. Dimension must
// be fixed for the lifetime of a deployment (spec.md §4.3).
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Embedder{dim: dim}
}

// Dimension returns the embedder's fixed output dimension.
func (e *Embedder) Dimension() int {
	return e.dim
}

// Embed produces a deterministic vector of fixed dimension for text.
// Identical text always yields an identical vector (spec.md §4.3). Each
// whitespace-separated term adds a value in [-1, 1] to every dimension,
// taken from an FNV-1a hash of the term salted with the dimension index and
// finalised with a 64-bit mixer; the summed vector is then L2-normalised.
func (e *Embedder) Embed(text string) []float64 {
	vec := make([]float64, e.dim)

	terms := strings.Fields(text)
	if len(terms) == 0 {
		terms = []string{""}
	}

	for _, term := range terms {
		for d := 0; d < e.dim; d++ {
			h := fnv.New64a()
			h.Write([]byte(term))
			h.Write([]byte{byte(d), byte(d >> 8)})
			sum := h.Sum64()
			// Finalise with the murmur3 fmix64 mixer: without it, the salted
			// vectors of different terms come out strongly correlated.
			sum ^= sum >> 33
			sum *= 0xff51afd7ed558ccd
			sum ^= sum >> 33
			sum *= 0xc4ceb9fe1a85ec53
			sum ^= sum >> 33
			// Map the hash into [-1, 1].
			v := (float64(sum%2000003) / 2000003.0) * 2 - 1
			vec[d] += v
		}
	}

	return normalise(vec)
}

// CosineSimilarity computes a·b assuming both vectors are already
// L2-normalised, per the contract in spec.md §4.3.
func CosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	return dot
}

func normalise(vec []float64) []float64 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += v * v
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return vec
	}
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
