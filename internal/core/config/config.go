// Package config handles configuration loading and validation for taskwise.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Lock       LockConfig       `yaml:"lock"`
	Match      MatchConfig      `yaml:"match"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	DataDir    string           `yaml:"-"` // set by caller, not from config file
}

// LockConfig tunes the mutation lock.
type LockConfig struct {
	// Timeout is how long a held operation lock stays valid before it is
	// force-expired.
	Timeout time.Duration `yaml:"timeout"`
}

// MatchConfig tunes fuzzy task-reference resolution.
type MatchConfig struct {
	ScoreThreshold       float64 `yaml:"score_threshold"`
	MinIntersection      int     `yaml:"min_intersection"`
	ShortReferenceTokens int     `yaml:"short_reference_tokens"`
	MaxSuggestions       int     `yaml:"max_suggestions"`
}

// EnrichmentConfig configures the optional remote parsing service. The
// engine always falls back to local parsing when enrichment is disabled or
// fails.
type EnrichmentConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Endpoint  string        `yaml:"endpoint"`
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Lock: LockConfig{
			Timeout: 4 * time.Second,
		},
		Match: MatchConfig{
			ScoreThreshold:       0.5,
			MinIntersection:      2,
			ShortReferenceTokens: 3,
			MaxSuggestions:       3,
		},
		Enrichment: EnrichmentConfig{
			Enabled:   false,
			Endpoint:  "https://openrouter.ai/api/v1/chat/completions",
			Model:     "deepseek/deepseek-chat-v3-0324:free",
			APIKeyEnv: "OPENROUTER_API_KEY",
			Timeout:   15 * time.Second,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Lock.Timeout == 0 {
		c.Lock.Timeout = defaults.Lock.Timeout
	}
	if c.Match.ScoreThreshold == 0 {
		c.Match.ScoreThreshold = defaults.Match.ScoreThreshold
	}
	if c.Match.MinIntersection == 0 {
		c.Match.MinIntersection = defaults.Match.MinIntersection
	}
	if c.Match.ShortReferenceTokens == 0 {
		c.Match.ShortReferenceTokens = defaults.Match.ShortReferenceTokens
	}
	if c.Match.MaxSuggestions == 0 {
		c.Match.MaxSuggestions = defaults.Match.MaxSuggestions
	}
	if c.Enrichment.Endpoint == "" {
		c.Enrichment.Endpoint = defaults.Enrichment.Endpoint
	}
	if c.Enrichment.Model == "" {
		c.Enrichment.Model = defaults.Enrichment.Model
	}
	if c.Enrichment.APIKeyEnv == "" {
		c.Enrichment.APIKeyEnv = defaults.Enrichment.APIKeyEnv
	}
	if c.Enrichment.Timeout == 0 {
		c.Enrichment.Timeout = defaults.Enrichment.Timeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	if c.Lock.Timeout < 0 {
		return fmt.Errorf("lock.timeout cannot be negative")
	}

	if c.Match.ScoreThreshold < 0 {
		return fmt.Errorf("match.score_threshold cannot be negative")
	}
	if c.Match.MinIntersection < 1 {
		return fmt.Errorf("match.min_intersection must be at least 1")
	}
	if c.Match.MaxSuggestions < 1 {
		return fmt.Errorf("match.max_suggestions must be at least 1")
	}

	if c.Enrichment.Enabled && c.Enrichment.Endpoint == "" {
		return fmt.Errorf("enrichment.endpoint is required when enrichment is enabled")
	}

	return nil
}

// DatabaseFile returns the path to the SQLite database file.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "taskwise.db")
}

// LogFile returns the path to the log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "taskwise.log")
}
