package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalise_Deterministic(t *testing.T) {
	n := New(SlangMap{"wanna": "want to", "gonna": "going to"})

	text1, fidelity1 := n.Normalise("I Wanna transfer $500!!")
	text2, fidelity2 := n.Normalise("I Wanna transfer $500!!")

	assert.Equal(t, text1, text2)
	assert.Equal(t, fidelity1, fidelity2)
}

func TestNormalise_LowercaseAndPunctuation(t *testing.T) {
	n := New(nil)
	text, fidelity := n.Normalise("Transfer $500 to John's account!")
	assert.Equal(t, "transfer 500 to john's account", text)
	assert.Equal(t, 1.0, fidelity)
}

func TestNormalise_SlangSubstitutionLowersFidelity(t *testing.T) {
	n := New(SlangMap{"wanna": "want to"})
	text, fidelity := n.Normalise("wanna transfer money")
	require.Equal(t, "want to transfer money", text)
	// 1 substitution out of 3 tokens: 1 - (1/3)*0.5 = 0.8333...
	assert.InDelta(t, 0.8333, fidelity, 0.001)
}

func TestNormalise_AllTokensSubstituted(t *testing.T) {
	n := New(SlangMap{"u": "you", "r": "are"})
	_, fidelity := n.Normalise("u r")
	assert.Equal(t, 0.5, fidelity)
}

func TestNormalise_EmptyInput(t *testing.T) {
	n := New(nil)
	text, fidelity := n.Normalise("   ")
	assert.Equal(t, "", text)
	assert.Equal(t, 1.0, fidelity)
}

func TestNormalise_CollapsesWhitespace(t *testing.T) {
	n := New(nil)
	text, _ := n.Normalise("take   me\thome\n")
	assert.Equal(t, "take me home", text)
}
