package config

import "fmt"

// Validator validates configuration comprehensively with clear error
// messages, stopping at the first failure (fail-fast).
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation.
func (v *Validator) ValidateAll() error {
	if err := v.validateHTTP(); err != nil {
		return fmt.Errorf("http validation failed: %w", err)
	}
	if err := v.validatePostgres(); err != nil {
		return fmt.Errorf("postgres validation failed: %w", err)
	}
	if err := v.validateRedis(); err != nil {
		return fmt.Errorf("redis validation failed: %w", err)
	}
	if err := v.validateCRM(); err != nil {
		return fmt.Errorf("crm validation failed: %w", err)
	}
	if err := v.validateResolver(); err != nil {
		return fmt.Errorf("resolver validation failed: %w", err)
	}
	if err := v.validateMemory(); err != nil {
		return fmt.Errorf("memory validation failed: %w", err)
	}
	if err := v.validateFeedback(); err != nil {
		return fmt.Errorf("feedback validation failed: %w", err)
	}
	if err := v.validateEmbedder(); err != nil {
		return fmt.Errorf("embedder validation failed: %w", err)
	}
	if err := v.validateSlack(); err != nil {
		return fmt.Errorf("slack validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateHTTP() error {
	if v.cfg.HTTP.BindAddress == "" {
		return fmt.Errorf("bind_address must not be empty")
	}
	return nil
}

func (v *Validator) validatePostgres() error {
	p := v.cfg.Postgres
	if p.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", p.Port)
	}
	if p.Database == "" {
		return fmt.Errorf("database must not be empty")
	}
	return nil
}

func (v *Validator) validateRedis() error {
	if v.cfg.Redis.Address == "" {
		return fmt.Errorf("address must not be empty")
	}
	return nil
}

func (v *Validator) validateCRM() error {
	c := v.cfg.CRM
	if c.AssociationHistoryBoost < 0 {
		return fmt.Errorf("association_history_boost must be non-negative, got %v", c.AssociationHistoryBoost)
	}
	if c.GoalAlignmentBoost < 0 {
		return fmt.Errorf("goal_alignment_boost must be non-negative, got %v", c.GoalAlignmentBoost)
	}
	if c.SituationContextBoost < 0 {
		return fmt.Errorf("situation_context_boost must be non-negative, got %v", c.SituationContextBoost)
	}
	if c.LinguisticIndicatorsBoost < 0 {
		return fmt.Errorf("linguistic_indicators_boost must be non-negative, got %v", c.LinguisticIndicatorsBoost)
	}
	if c.SemanticCapacityBoost < 0 {
		return fmt.Errorf("semantic_capacity_boost must be non-negative, got %v", c.SemanticCapacityBoost)
	}
	if c.LocationContextBoost < 0 {
		return fmt.Errorf("location_context_boost must be non-negative, got %v", c.LocationContextBoost)
	}
	if c.TemporalContextBoost < 0 {
		return fmt.Errorf("temporal_context_boost must be non-negative, got %v", c.TemporalContextBoost)
	}
	if c.UserProfileBoost < 0 {
		return fmt.Errorf("user_profile_boost must be non-negative, got %v", c.UserProfileBoost)
	}
	if c.ProsodicFeaturesBoost < 0 {
		return fmt.Errorf("prosodic_features_boost must be non-negative, got %v", c.ProsodicFeaturesBoost)
	}
	return nil
}

func (v *Validator) validateResolver() error {
	r := v.cfg.Resolver
	if r.StageOneK < 1 {
		return fmt.Errorf("stage_one_k must be at least 1, got %d", r.StageOneK)
	}
	if r.MemoryK < 0 {
		return fmt.Errorf("memory_k must be non-negative, got %d", r.MemoryK)
	}
	if r.MemoryBoostAlpha < 0 {
		return fmt.Errorf("memory_boost_alpha must be non-negative, got %v", r.MemoryBoostAlpha)
	}
	if r.FallbackThreshold < 0 || r.FallbackThreshold > 1 {
		return fmt.Errorf("fallback_threshold must be between 0 and 1, got %v", r.FallbackThreshold)
	}
	return nil
}

func (v *Validator) validateMemory() error {
	m := v.cfg.Memory
	if m.EvictionCap < 0 {
		return fmt.Errorf("eviction_cap must be non-negative, got %d", m.EvictionCap)
	}
	switch m.ModelMismatchPolicy {
	case "fail_fast", "clear":
	default:
		return fmt.Errorf("model_mismatch_policy must be \"fail_fast\" or \"clear\", got %q", m.ModelMismatchPolicy)
	}
	return nil
}

func (v *Validator) validateFeedback() error {
	if v.cfg.Feedback.PendingCacheTTL <= 0 {
		return fmt.Errorf("pending_cache_ttl must be positive, got %v", v.cfg.Feedback.PendingCacheTTL)
	}
	return nil
}

func (v *Validator) validateEmbedder() error {
	e := v.cfg.Embedder
	if e.ModelID == "" {
		return fmt.Errorf("model_id must not be empty")
	}
	if e.Dimension < 1 {
		return fmt.Errorf("dimension must be at least 1, got %d", e.Dimension)
	}
	return nil
}

func (v *Validator) validateSlack() error {
	s := v.cfg.Slack
	if s == nil || !s.Enabled {
		return nil
	}
	if s.Channel == "" {
		return fmt.Errorf("channel must be set when slack is enabled")
	}
	return nil
}
