package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// PropagateConfig holds propagation-related configuration
type PropagateConfig struct {
	MaxCommits  int    `toml:"max_commits"`  // how many recent commits to offer for selection
	AutoPush    bool   `toml:"auto_push"`    // push each target branch after replaying
	PushTimeout string `toml:"push_timeout"` // bound for each push, e.g. "60s"
}

// PRConfig holds pull-request configuration
type PRConfig struct {
	DefaultTarget string `toml:"default_target"` // base branch when none is given; empty means detect from origin
}

// AIConfig holds message-generation configuration
type AIConfig struct {
	Model  string `toml:"model"`
	APIKey string `toml:"api_key"` // prefer the GEMINI_API_KEY env var
}

// RefreshConfig holds scheduled branch refresh configuration
type RefreshConfig struct {
	Interval string `toml:"interval"` // e.g. "15m"; used by `gitprop refresh --watch`
}

// Config holds the gitprop configuration
type Config struct {
	Propagate PropagateConfig `toml:"propagate"`
	PR        PRConfig        `toml:"pr"`
	AI        AIConfig        `toml:"ai"`
	Refresh   RefreshConfig   `toml:"refresh"`
}

// DefaultModel is the model used for commit message and PR generation.
const DefaultModel = "gemini-2.5-flash"

// Default returns the default configuration
func Default() Config {
	return Config{
		Propagate: PropagateConfig{
			MaxCommits:  50,
			AutoPush:    false,
			PushTimeout: "60s",
		},
		PR: PRConfig{
			DefaultTarget: "", // detect from origin
		},
		AI: AIConfig{
			Model: DefaultModel,
		},
		Refresh: RefreshConfig{
			Interval: "15m",
		},
	}
}

// PushTimeoutDuration returns the parsed push timeout.
func (c *PropagateConfig) PushTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.PushTimeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// IntervalDuration returns the parsed refresh interval.
func (c *RefreshConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// ResolveAPIKey returns the Gemini API key, preferring the environment
// over the config file so keys stay out of dotfiles.
func (c *AIConfig) ResolveAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return c.APIKey
}

// Path returns the path to the config file
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gitprop", "config.toml"), nil
}

// Load reads config from ~/.config/gitprop/config.toml
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate propagate.max_commits
	if cfg.Propagate.MaxCommits <= 0 {
		return Default(), fmt.Errorf("invalid propagate.max_commits %d: must be positive", cfg.Propagate.MaxCommits)
	}

	// Validate propagate.push_timeout
	if cfg.Propagate.PushTimeout != "" {
		if _, err := time.ParseDuration(cfg.Propagate.PushTimeout); err != nil {
			return Default(), fmt.Errorf("invalid propagate.push_timeout %q: %v", cfg.Propagate.PushTimeout, err)
		}
	}

	// Validate refresh.interval
	if cfg.Refresh.Interval != "" {
		if _, err := time.ParseDuration(cfg.Refresh.Interval); err != nil {
			return Default(), fmt.Errorf("invalid refresh.interval %q: %v", cfg.Refresh.Interval, err)
		}
	}

	// Use defaults for empty values
	if cfg.AI.Model == "" {
		cfg.AI.Model = DefaultModel
	}

	return cfg, nil
}

const defaultConfig = `# gitprop configuration

# Propagation settings
#
# [propagate]
# max_commits = 50       # recent commits offered for selection
# auto_push = false      # push each target branch after replaying
# push_timeout = "60s"   # bound for each push

# Pull request settings for "gitprop pr create"
# An empty default_target uses the origin's default branch.
#
# [pr]
# default_target = ""

# Message generation settings
# The API key is read from the GEMINI_API_KEY environment variable;
# setting it here is a fallback only.
#
# [ai]
# model = "gemini-2.5-flash"
# api_key = ""

# Scheduled refresh settings for "gitprop refresh --watch"
#
# [refresh]
# interval = "15m"
`

// Init creates a default config file at ~/.config/gitprop/config.toml
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	// Check if file already exists (skip if force)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	// Create directory
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	// Write default config
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}
