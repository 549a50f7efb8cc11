package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServiceYAMLConfig represents the complete service.yaml file structure.
// Every section is a pointer so an omitted section in the user's YAML
// leaves the corresponding built-in default section untouched.
type ServiceYAMLConfig struct {
	HTTP      *HTTPConfig      `yaml:"http"`
	Postgres  *PostgresConfig  `yaml:"postgres"`
	Redis     *RedisConfig     `yaml:"redis"`
	CRM       *CRMWeights      `yaml:"crm"`
	Resolver  *ResolverConfig  `yaml:"resolver"`
	Memory    *MemoryConfig    `yaml:"memory"`
	Feedback  *FeedbackConfig  `yaml:"feedback"`
	Embedder  *EmbedderConfig  `yaml:"embedder"`
	Slack     *SlackConfig     `yaml:"slack"`
	Retention *RetentionConfig `yaml:"retention"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load service.yaml from configDir
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge user-defined configuration over built-in defaults
//  5. Validate the merged result
//  6. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("Configuration initialized successfully",
		"bind_address", cfg.HTTP.BindAddress,
		"embedder_model", cfg.Embedder.ModelID,
		"embedder_dimension", cfg.Embedder.Dimension,
		"fallback_threshold", cfg.Resolver.FallbackThreshold)

	return cfg, nil
}

// load is the internal loader (not exported).
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	userConfig, err := loader.loadServiceYAML()
	if err != nil {
		return nil, NewLoadError("service.yaml", err)
	}

	builtin := GetBuiltinConfig()

	cfg, err := mergeOverBuiltin(builtin, userConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configuration: %w", err)
	}
	cfg.configDir = configDir

	return cfg, nil
}

// validate performs comprehensive validation on loaded configuration.
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// Expand ${VAR}/$VAR references before parsing. Unset variables expand
	// to the empty string; malformed YAML is reported by the parser below.
	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadServiceYAML() (*ServiceYAMLConfig, error) {
	var cfg ServiceYAMLConfig
	if err := l.loadYAML("service.yaml", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
