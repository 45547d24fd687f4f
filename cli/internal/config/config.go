// Package config provides configuration for the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces the CLI environment variables, e.g. CAREERCLIMB_API_URL.
const EnvPrefix = "CAREERCLIMB"

// Config holds CLI configuration.
type Config struct {
	APIURL  string        `mapstructure:"api_url"`
	UserID  string        `mapstructure:"user_id"`
	Timeout time.Duration `mapstructure:"timeout"`

	// Output format
	Format string `mapstructure:"format"` // json, table, yaml

	Verbose bool `mapstructure:"verbose"`
}

// New returns a viper instance with the CLI defaults and environment
// bindings applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("user_id", "")
	v.SetDefault("timeout", 90*time.Second)
	v.SetDefault("format", "table")
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a YAML config file into v. With an empty path the file
// ~/.careerclimb.yaml is read if it exists.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	v.SetConfigFile(filepath.Join(home, ".careerclimb.yaml"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes v into a Config.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("missing config: api_url")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive")
	}
	return &cfg, nil
}
