package api

import "time"

// FactorResponse is one entry of contributing_factors / audit_trail.active_factors.
type FactorResponse struct {
	FactorName string  `json:"factor_name"`
	Delta      float64 `json:"delta"`
	Influence  string  `json:"influence"`
}

// AuditTrail is VerifiedIntent's audit_trail object (spec.md §6).
type AuditTrail struct {
	InputText           string             `json:"input_text"`
	ActiveFactors       []FactorResponse   `json:"active_factors"`
	AllScores           map[string]float64 `json:"all_scores"`
	ResolutionTimestamp time.Time          `json:"resolution_timestamp"`
}

// ResolveResponse is the HTTP response body for POST /resolve-intent
// (spec.md §6: VerifiedIntent serialised with these exact keys).
type ResolveResponse struct {
	ResolvedIntent      string             `json:"resolved_intent"`
	ConfidenceScore     float64            `json:"confidence_score"`
	ContributingFactors []FactorResponse   `json:"contributing_factors"`
	AlternativeIntents  map[string]float64 `json:"alternative_intents"`
	AuditTrail          AuditTrail         `json:"audit_trail"`
	RequestID           string             `json:"request_id"`
	ProcessingTimeMs    float64            `json:"processing_time_ms"`
}

// LearningStatusResponse mirrors intent.LearningStats for wire serialisation.
type LearningStatusResponse struct {
	TotalFeedbacks     int64     `json:"total_feedbacks"`
	CorrectFeedbacks   int64     `json:"correct_feedbacks"`
	IncorrectFeedbacks int64     `json:"incorrect_feedbacks"`
	LastUpdate         time.Time `json:"last_update"`
}

// FeedbackResponse is the HTTP response body for POST /feedback (spec.md §6).
type FeedbackResponse struct {
	Success        bool                   `json:"success"`
	RequestID      string                 `json:"request_id"`
	ActionTaken    string                 `json:"action_taken"`
	UserCorrection string                 `json:"user_correction"`
	Message        string                 `json:"message"`
	LearningStatus LearningStatusResponse `json:"learning_status"`
	Timestamp      time.Time              `json:"timestamp"`
}

// StatsResponse is the HTTP response body for GET /feedback/stats.
type StatsResponse struct {
	LearningStatusResponse
	Timestamp time.Time `json:"timestamp"`
}

// ReviewItemResponse is one entry of ReviewQueueResponse.Items.
type ReviewItemResponse struct {
	ItemID           string    `json:"item_id"`
	RequestID        string    `json:"request_id"`
	OriginalInput    string    `json:"original_input"`
	ResolvedIntentID string    `json:"resolved_intent_id"`
	UserCorrection   string    `json:"user_correction"`
	ConfidenceAtTime float64   `json:"confidence_at_time"`
	CreatedAt        time.Time `json:"created_at"`
	Status           string    `json:"status"`
	Notes            string    `json:"notes,omitempty"`
}

// ReviewQueueResponse is the HTTP response body for GET /feedback/review-queue.
type ReviewQueueResponse struct {
	PendingReviews int                  `json:"pending_reviews"`
	Items          []ReviewItemResponse `json:"items"`
}

// ReviewItemResolvedResponse is returned by
// POST /feedback/review-queue/{item_id}/resolve.
type ReviewItemResolvedResponse struct {
	ItemID  string `json:"item_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string           `json:"status"`
	Version  string           `json:"version"`
	Database *DatabaseHealth  `json:"database,omitempty"`
	Redis    *ComponentHealth `json:"redis,omitempty"`
	Corpus   ComponentHealth  `json:"corpus"`
}

// DatabaseHealth mirrors database.HealthStatus for the health endpoint.
type DatabaseHealth struct {
	Status          string `json:"status"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	Idle            int    `json:"idle"`
}

// ComponentHealth is a generic up/down status for a dependency that has no
// richer stats to report.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
