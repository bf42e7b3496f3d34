// Package config loads erdmap configuration from erdmap.yml and ERDMAP_*
// environment variables. Flags always win over the file; the file wins over
// the built-in defaults.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the erdmap configuration.
type Config struct {
	ModelsPath string           `mapstructure:"models_path"`
	OutputPath string           `mapstructure:"output_path"`
	Validation ValidationConfig `mapstructure:"validation"`
}

// ValidationConfig represents validator configuration. TimeoutSeconds is
// advisory: the pipeline never enforces it itself, the calling integration
// does.
type ValidationConfig struct {
	Mode           string `mapstructure:"mode"`
	MaxErrors      int    `mapstructure:"max_errors"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Load reads erdmap.yml (or erdmap.yaml) from the working directory. A
// missing file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("models_path", ".")
	v.SetDefault("output_path", "erd.mmd")
	v.SetDefault("validation.mode", "permissive")
	v.SetDefault("validation.max_errors", 100)
	v.SetDefault("validation.timeout_seconds", 30)

	v.SetConfigName("erdmap")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ERDMAP")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Validation.Mode {
	case "strict", "permissive", "report":
	default:
		return fmt.Errorf("invalid validation mode %q: must be strict, permissive, or report", cfg.Validation.Mode)
	}
	if cfg.Validation.MaxErrors < 0 {
		return fmt.Errorf("validation.max_errors must not be negative")
	}
	return nil
}
