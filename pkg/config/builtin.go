package config

import (
	"sync"
	"time"
)

// BuiltinConfig holds the service's documented default configuration. User
// YAML is merged on top of this with dario.cat/mergo; every field here is
// the value a fresh deployment gets with no overrides.
type BuiltinConfig struct {
	HTTP      HTTPConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	CRM       CRMWeights
	Resolver  ResolverConfig
	Memory    MemoryConfig
	Feedback  FeedbackConfig
	Embedder  EmbedderConfig
	Slack     SlackConfig
	Retention RetentionConfig
}

var (
	builtinConfig     *BuiltinConfig
	builtinConfigOnce sync.Once
)

// GetBuiltinConfig returns the singleton built-in configuration
// (thread-safe, lazy-initialized).
func GetBuiltinConfig() *BuiltinConfig {
	builtinConfigOnce.Do(initBuiltinConfig)
	return builtinConfig
}

func initBuiltinConfig() {
	builtinConfig = &BuiltinConfig{
		HTTP: HTTPConfig{
			BindAddress: ":8080",
		},
		Postgres: PostgresConfig{
			Host:        "localhost",
			Port:        5432,
			Database:    "resolver",
			User:        "resolver",
			PasswordEnv: "POSTGRES_PASSWORD",
			SSLMode:     "disable",
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
		},
		// CRM weights reproduce the table in spec.md §4.5 exactly.
		CRM: CRMWeights{
			AssociationHistoryBoost:   0.15,
			GoalAlignmentBoost:        0.20,
			SituationContextBoost:     0.15,
			LinguisticIndicatorsBoost: 0.08,
			SemanticCapacityBoost:     0.12,
			LocationContextBoost:      0.09,
			TemporalContextBoost:      0.15,
			UserProfileBoost:          0.12,
			ProsodicFeaturesBoost:     0.08,
		},
		Resolver: ResolverConfig{
			StageOneK:         5,
			MemoryK:           5,
			MemoryBoostAlpha:  0.2,
			FallbackThreshold: 0.6,
		},
		Memory: MemoryConfig{
			EvictionCap:         10000,
			ModelMismatchPolicy: "fail_fast",
		},
		Feedback: FeedbackConfig{
			PendingCacheTTL: 1 * time.Hour,
		},
		Embedder: EmbedderConfig{
			ModelID:   "hashing-embedder-v1",
			Dimension: 384,
		},
		Slack: SlackConfig{
			Enabled:      false,
			TokenEnv:     "SLACK_BOT_TOKEN",
			DashboardURL: "http://localhost:5173",
		},
		Retention: RetentionConfig{
			SweepInterval: 5 * time.Minute,
		},
	}
}
