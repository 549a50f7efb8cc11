package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbed_Deterministic(t *testing.T) {
	e := New(32)
	v1 := e.Embed("transfer 500 to john")
	v2 := e.Embed("transfer 500 to john")
	assert.Equal(t, v1, v2)
}

func TestEmbed_FixedDimension(t *testing.T) {
	e := New(16)
	v := e.Embed("anything")
	assert.Len(t, v, 16)
}

func TestEmbed_L2Normalised(t *testing.T) {
	e := New(32)
	v := e.Embed("take me home")
	var sumSquares float64
	for _, x := range v {
		sumSquares += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-9)
}

func TestEmbed_DifferentTextDifferentVector(t *testing.T) {
	e := New(32)
	v1 := e.Embed("transfer money")
	v2 := e.Embed("navigate home")
	assert.NotEqual(t, v1, v2)
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	e := New(32)
	v := e.Embed("transfer money to john")
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_Bounded(t *testing.T) {
	e := New(32)
	a := e.Embed("transfer money")
	b := e.Embed("navigate home")
	sim := CosineSimilarity(a, b)
	assert.GreaterOrEqual(t, sim, -1.0001)
	assert.LessOrEqual(t, sim, 1.0001)
}

func TestNew_DefaultsOnInvalidDimension(t *testing.T) {
	e := New(0)
	assert.Equal(t, DefaultDimension, e.Dimension())
}
