// Package corpus loads and serves the static intent catalogue (spec.md
// §4.1, Component C1). The corpus is loaded once at startup and is
// immutable afterwards; Corpus is therefore safe for concurrent readers
// without any locking.
package corpus

import (
	"fmt"

	"github.com/intentflow/resolver/pkg/apperr"
	"github.com/intentflow/resolver/pkg/intent"
)

// Corpus is the immutable, loaded intent catalogue.
type Corpus struct {
	byID    map[string]*intent.Intent
	ordered []*intent.Intent
}

// New validates intents and builds an immutable Corpus. Fails with
// apperr.KindCorpusError on a duplicate id, an intent with zero examples,
// or an associated_intents reference to an unknown id.
func New(intents []*intent.Intent) (*Corpus, error) {
	byID := make(map[string]*intent.Intent, len(intents))
	for _, in := range intents {
		if in.ID == "" {
			return nil, apperr.New(apperr.KindCorpusError, "intent with empty id")
		}
		if _, dup := byID[in.ID]; dup {
			return nil, apperr.New(apperr.KindCorpusError, fmt.Sprintf("duplicate intent id %q", in.ID))
		}
		if len(in.Examples) == 0 {
			return nil, apperr.New(apperr.KindCorpusError, fmt.Sprintf("intent %q has no examples", in.ID))
		}
		byID[in.ID] = in
	}

	for _, in := range intents {
		for assoc := range in.AssociatedIntents {
			if _, ok := byID[assoc]; !ok {
				return nil, apperr.New(apperr.KindCorpusError,
					fmt.Sprintf("intent %q references unknown associated intent %q", in.ID, assoc))
			}
		}
	}

	ordered := make([]*intent.Intent, len(intents))
	copy(ordered, intents)

	return &Corpus{byID: byID, ordered: ordered}, nil
}

// All returns every intent in the corpus, in load order. The returned
// slice is owned by the caller but the *Intent values must not be mutated.
func (c *Corpus) All() []*intent.Intent {
	out := make([]*intent.Intent, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ByID looks up an intent. Returns false if not found (callers distinguish
// "unknown intent" from a hard error per spec.md §7 — UnknownIntent is
// logged, not surfaced).
func (c *Corpus) ByID(id string) (*intent.Intent, bool) {
	in, ok := c.byID[id]
	return in, ok
}

// Len returns the number of loaded intents.
func (c *Corpus) Len() int {
	return len(c.ordered)
}
