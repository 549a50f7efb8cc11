package corpus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/intentflow/resolver/pkg/apperr"
	"github.com/intentflow/resolver/pkg/intent"
)

// fileIntent is the on-disk JSON shape of a single corpus entry
// (spec.md §6, "Intent corpus file"). encoding/json is used rather than a
// third-party codec because the wire format here is spec-mandated JSON,
// not a format the engine is free to choose.
type fileIntent struct {
	ID                     string   `json:"id"`
	PureText               string   `json:"pure_text"`
	Examples               []string `json:"examples"`
	RequiredLocation       string   `json:"required_location,omitempty"`
	HelpfulLocation        string   `json:"helpful_location,omitempty"`
	RequiredPurpose        string   `json:"required_purpose,omitempty"`
	RequiredSituation      string   `json:"required_situation,omitempty"`
	AssociatedIntents      []string `json:"associated_intents,omitempty"`
	ForbiddenWhenConflicts []string `json:"forbidden_when_conflicts,omitempty"`

	PreferredLinguisticIndicator string          `json:"preferred_linguistic_indicator,omitempty"`
	TimeWindow                   *fileTimeWindow `json:"time_window,omitempty"`
	RequiredProfile              string          `json:"required_profile,omitempty"`
	PreferredProfiles            []string        `json:"preferred_profiles,omitempty"`
	PreferredProsody             string          `json:"preferred_prosody,omitempty"`
}

type fileTimeWindow struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// LoadFile reads and parses the intent corpus JSON document described in
// spec.md §6 and builds a validated Corpus. Hot-reload is not supported
// (spec.md §6): this is called once at service startup.
func LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCorpusError, fmt.Sprintf("reading corpus file %s", path), err)
	}
	return LoadBytes(data)
}

// LoadBytes parses the corpus JSON document from an in-memory buffer.
func LoadBytes(data []byte) (*Corpus, error) {
	var raw []fileIntent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperr.Wrap(apperr.KindCorpusError, "parsing corpus JSON", err)
	}

	intents := make([]*intent.Intent, 0, len(raw))
	for _, fi := range raw {
		in := &intent.Intent{
			ID:                           fi.ID,
			PureText:                     fi.PureText,
			Examples:                     fi.Examples,
			RequiredLocation:             fi.RequiredLocation,
			HelpfulLocation:              fi.HelpfulLocation,
			RequiredPurpose:              fi.RequiredPurpose,
			RequiredSituation:            fi.RequiredSituation,
			PreferredLinguisticIndicator: fi.PreferredLinguisticIndicator,
			RequiredProfile:              fi.RequiredProfile,
			PreferredProsody:             fi.PreferredProsody,
		}

		if len(fi.AssociatedIntents) > 0 {
			in.AssociatedIntents = toSet(fi.AssociatedIntents)
		}
		if len(fi.ForbiddenWhenConflicts) > 0 {
			in.ForbiddenWhenConflicts = toSet(fi.ForbiddenWhenConflicts)
		}
		if len(fi.PreferredProfiles) > 0 {
			in.PreferredProfiles = toSet(fi.PreferredProfiles)
		}
		if fi.TimeWindow != nil {
			in.TimeWindow = &intent.TimeWindow{Start: fi.TimeWindow.StartMinute, End: fi.TimeWindow.EndMinute}
		}

		intents = append(intents, in)
	}

	c, err := New(intents)
	if err != nil {
		return nil, err
	}

	slog.Info("Loaded intent corpus", "intents", c.Len())
	return c, nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
