package api

import "time"

// ContextRequest is the wire shape of ContextSnapshot's 12 factor fields
// (spec.md §3). Every field is optional; omitted means "not signalling".
type ContextRequest struct {
	AssociationHistory   []string   `json:"association_history,omitempty"`
	ConflictMarkers      []string   `json:"conflict_markers,omitempty"`
	GoalAlignment        string     `json:"goal_alignment,omitempty"`
	SituationContext     string     `json:"situation_context,omitempty"`
	LinguisticIndicators string     `json:"linguistic_indicators,omitempty"`
	SemanticCapacity     *float64   `json:"semantic_capacity,omitempty" validate:"omitempty,min=0,max=1"`
	SocialPropriety      *float64   `json:"social_propriety,omitempty" validate:"omitempty,min=-1,max=1"`
	LocationContext      string     `json:"location_context,omitempty"`
	TemporalContext      *time.Time `json:"temporal_context,omitempty"`
	UserProfile          string     `json:"user_profile,omitempty"`
	ProsodicFeatures     string     `json:"prosodic_features,omitempty"`
	InputFidelity        *float64   `json:"input_fidelity,omitempty" validate:"omitempty,min=0,max=1"`
}

// ResolveRequest is the HTTP request body for POST /resolve-intent.
type ResolveRequest struct {
	CommandText string          `json:"command_text" validate:"required,min=1,max=2000"`
	Context     *ContextRequest `json:"context,omitempty" validate:"omitempty"`
}

// FeedbackRequest is the HTTP request body for POST /feedback. Notes and
// CorrectIntent are the richer feedback shape's optional fields (spec.md
// §9): accepted, stored on ReviewItem.Notes, never used for routing.
type FeedbackRequest struct {
	RequestID      string `json:"request_id" validate:"required,uuid4"`
	UserCorrection string `json:"user_correction" validate:"required,min=1,max=100"`
	WasSuccessful  bool   `json:"was_successful"`
	Notes          string `json:"notes,omitempty"`
	CorrectIntent  string `json:"correct_intent,omitempty"`
}

// ResolveReviewItemRequest is the HTTP request body for
// POST /feedback/review-queue/{item_id}/resolve.
type ResolveReviewItemRequest struct {
	ItemID string `param:"item_id" validate:"required"`
}
