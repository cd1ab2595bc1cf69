// Package config loads relay settings from defaults, a TOML file and the
// environment. Command-line flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/queue"
	"github.com/fwojciec/relay/retry"
	"github.com/fwojciec/relay/segment"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey = "GEMINI_API_KEY"
	EnvModel  = "RELAY_MODEL"
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("config: missing API key (set " + EnvAPIKey + " or --api-key)")

// Config holds all user-tunable settings.
type Config struct {
	APIKey      string        `toml:"api_key"`
	Model       string        `toml:"model"`
	MaxChunk    int           `toml:"max_chunk"`
	Spacing     time.Duration `toml:"spacing"`
	MaxAttempts int           `toml:"max_attempts"`
	Debug       bool          `toml:"debug"`
	Width       int           `toml:"width"`
	Generation  Generation    `toml:"generation"`
}

// Generation holds sampling parameters.
type Generation struct {
	Temperature     float64 `toml:"temperature"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	TopP            float64 `toml:"top_p"`
	TopK            int     `toml:"top_k"`
}

// Default returns the built-in settings.
func Default() Config {
	g := relay.DefaultGenerationConfig()
	return Config{
		Model:       relay.DefaultModel,
		MaxChunk:    segment.DefaultMax,
		Spacing:     queue.DefaultSpacing,
		MaxAttempts: retry.DefaultMaxAttempts,
		Width:       80,
		Generation: Generation{
			Temperature:     g.Temperature,
			MaxOutputTokens: g.MaxOutputTokens,
			TopP:            g.TopP,
			TopK:            g.TopK,
		},
	}
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/relay/config.toml or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return filepath.Join(dir, "relay", "config.toml"), nil
}

// Load returns Default overlaid with the TOML file at path. An empty path
// means DefaultPath, which may be absent. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if err := LoadFile(&cfg, path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes the TOML file at path into cfg. Keys absent from the file
// leave cfg unchanged; unknown keys are rejected.
func LoadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// ApplyEnv overrides settings from environment variables looked up with
// getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		c.APIKey = v
	}
	if v := getenv(EnvModel); v != "" {
		c.Model = v
	}
}

// GenerationConfig returns the sampling parameters as a relay value.
func (c Config) GenerationConfig() relay.GenerationConfig {
	return relay.GenerationConfig{
		Temperature:     c.Generation.Temperature,
		MaxOutputTokens: c.Generation.MaxOutputTokens,
		TopP:            c.Generation.TopP,
		TopK:            c.Generation.TopK,
	}
}

// Validate checks that settings are usable. All problems are reported.
func (c Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if _, err := relay.LookupModel(c.Model); err != nil {
		errs = append(errs, fmt.Errorf("config: model: %w", err))
	}
	if c.MaxChunk <= 0 {
		errs = append(errs, fmt.Errorf("config: max_chunk must be positive, got %d", c.MaxChunk))
	}
	if c.Spacing < 0 {
		errs = append(errs, fmt.Errorf("config: spacing must not be negative, got %s", c.Spacing))
	}
	if c.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("config: max_attempts must be positive, got %d", c.MaxAttempts))
	}
	if c.Width < 20 {
		errs = append(errs, fmt.Errorf("config: width must be at least 20, got %d", c.Width))
	}
	if err := c.GenerationConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: generation: %w", err))
	}
	return errors.Join(errs...)
}
