package config

import "dario.cat/mergo"

// mergeOverBuiltin merges a user-supplied ServiceYAMLConfig's non-zero
// fields over the built-in defaults, section by section, the same
// override-on-non-zero semantics the reference config loader uses for its
// queue configuration.
func mergeOverBuiltin(builtin *BuiltinConfig, user *ServiceYAMLConfig) (*Config, error) {
	http := builtin.HTTP
	if user.HTTP != nil {
		if err := mergo.Merge(&http, *user.HTTP, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	postgres := builtin.Postgres
	if user.Postgres != nil {
		if err := mergo.Merge(&postgres, *user.Postgres, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	redis := builtin.Redis
	if user.Redis != nil {
		if err := mergo.Merge(&redis, *user.Redis, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	crm := builtin.CRM
	if user.CRM != nil {
		if err := mergo.Merge(&crm, *user.CRM, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	resolver := builtin.Resolver
	if user.Resolver != nil {
		if err := mergo.Merge(&resolver, *user.Resolver, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	memory := builtin.Memory
	if user.Memory != nil {
		if err := mergo.Merge(&memory, *user.Memory, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	feedback := builtin.Feedback
	if user.Feedback != nil {
		if err := mergo.Merge(&feedback, *user.Feedback, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	embedder := builtin.Embedder
	if user.Embedder != nil {
		if err := mergo.Merge(&embedder, *user.Embedder, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	slack := builtin.Slack
	if user.Slack != nil {
		if err := mergo.Merge(&slack, *user.Slack, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	retention := builtin.Retention
	if user.Retention != nil {
		if err := mergo.Merge(&retention, *user.Retention, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	return &Config{
		HTTP:      http,
		Postgres:  postgres,
		Redis:     redis,
		CRM:       crm,
		Resolver:  resolver,
		Memory:    memory,
		Feedback:  feedback,
		Embedder:  embedder,
		Slack:     &slack,
		Retention: retention,
	}, nil
}
