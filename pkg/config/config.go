// Package config loads and validates the resolver service's configuration:
// a service.yaml document merged over documented built-in defaults, with
// environment variable expansion and fail-fast validation.
package config

import "time"

// Config is the umbrella configuration object returned by Initialize and
// used throughout the service.
type Config struct {
	configDir string // configuration directory path (for reference)

	HTTP      HTTPConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	CRM       CRMWeights
	Resolver  ResolverConfig
	Memory    MemoryConfig
	Feedback  FeedbackConfig
	Embedder  EmbedderConfig
	Slack     *SlackConfig
	Retention RetentionConfig
}

// ConfigDir returns the configuration directory path.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// HTTPConfig controls the HTTP transport.
type HTTPConfig struct {
	BindAddress string `yaml:"bind_address"`
}

// PostgresConfig holds Postgres connection settings, assembled into a DSN
// by pkg/database rather than stored pre-joined, so password_env can be
// resolved from the environment at connect time.
type PostgresConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Database    string `yaml:"database"`
	User        string `yaml:"user"`
	PasswordEnv string `yaml:"password_env"`
	SSLMode     string `yaml:"ssl_mode"`
}

// RedisConfig holds the Redis address used for the feedback pending cache.
type RedisConfig struct {
	Address string `yaml:"address"`
}

// CRMWeights holds the Context Resolution Matrix's per-factor deltas
// (spec.md §4.5), threaded through to pkg/crm as a crm.Weights value.
// Weights are implementable as config per the contract; the defaults
// reproduce the table exactly. Hard stops (conflict_markers,
// location_context's required-location mismatch, user_profile's
// required-profile mismatch) and multiplicative factors (social_propriety,
// input_fidelity) are not weighted — their behavior is structural, not a
// tunable magnitude.
type CRMWeights struct {
	AssociationHistoryBoost   float64 `yaml:"association_history_boost"`
	GoalAlignmentBoost        float64 `yaml:"goal_alignment_boost"`
	SituationContextBoost     float64 `yaml:"situation_context_boost"`
	LinguisticIndicatorsBoost float64 `yaml:"linguistic_indicators_boost"`
	SemanticCapacityBoost     float64 `yaml:"semantic_capacity_boost"`
	LocationContextBoost      float64 `yaml:"location_context_boost"`
	TemporalContextBoost      float64 `yaml:"temporal_context_boost"`
	UserProfileBoost          float64 `yaml:"user_profile_boost"`
	ProsodicFeaturesBoost     float64 `yaml:"prosodic_features_boost"`
}

// ResolverConfig holds the Stage-1/Stage-2 tunables.
type ResolverConfig struct {
	StageOneK         int     `yaml:"stage_one_k"`
	MemoryK           int     `yaml:"memory_k"`
	MemoryBoostAlpha  float64 `yaml:"memory_boost_alpha"`
	FallbackThreshold float64 `yaml:"fallback_threshold"`
}

// MemoryConfig holds Fast Memory's eviction cap and the policy applied
// when a restored snapshot's embeddings don't match the running embedder's
// model identity (spec.md §7, MemoryModelMismatch).
type MemoryConfig struct {
	EvictionCap         int    `yaml:"eviction_cap"`
	ModelMismatchPolicy string `yaml:"model_mismatch_policy"` // "fail_fast" or "clear"
}

// FeedbackConfig holds the pending-record cache's TTL.
type FeedbackConfig struct {
	PendingCacheTTL time.Duration `yaml:"pending_cache_ttl"`
}

// EmbedderConfig identifies the embedding model and its output dimension.
type EmbedderConfig struct {
	ModelID   string `yaml:"model_id"`
	Dimension int    `yaml:"dimension"`
}

// SlackConfig holds review-queue notification settings.
type SlackConfig struct {
	Enabled      bool   `yaml:"enabled"`
	TokenEnv     string `yaml:"token_env"`
	Channel      string `yaml:"channel"`
	DashboardURL string `yaml:"dashboard_url"`
}

// RetentionConfig controls the Fast Memory eviction sweep cadence.
type RetentionConfig struct {
	SweepInterval time.Duration `yaml:"sweep_interval"`
}
