package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the knobs of one updater run.
type Config struct {
	// ProductName is the display name of the browser distribution.
	// It drives process matching and uninstall-entry lookup.
	ProductName string `yaml:"product_name"`
	// FeedURL is the release feed endpoint. Both a "list all releases"
	// endpoint (JSON array, newest first) and a dedicated "latest release"
	// endpoint (single JSON object) are accepted.
	FeedURL string `yaml:"feed_url"`
	// Timeout bounds every single HTTP request to the feed.
	Timeout time.Duration `yaml:"timeout"`
	// RetryAttempts is the feed fetch retry budget.
	RetryAttempts int `yaml:"retry_attempts"`
	// RetryDelay is the fixed pause between feed fetch attempts.
	RetryDelay time.Duration `yaml:"retry_delay"`
	// TerminatePolls is how many times the prober re-checks the process
	// list after asking processes to exit gracefully.
	TerminatePolls int `yaml:"terminate_polls"`
	// TerminatePollDelay is the pause between those re-checks.
	TerminatePollDelay time.Duration `yaml:"terminate_poll_delay"`
	// KillGrace is the pause after a forced kill before proceeding.
	KillGrace time.Duration `yaml:"kill_grace"`
	// InstallRoot optionally overrides the platform's default install
	// location. Empty means the platform handler decides.
	InstallRoot string `yaml:"install_root,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for updater settings.
	DefaultConfigFilename = "thorium-updater-settings.yaml"

	// DefaultProductName identifies the browser in process lists,
	// uninstall entries and asset names.
	DefaultProductName = "Thorium"

	// DefaultFeedURL lists published Thorium releases, newest first.
	DefaultFeedURL = "https://api.github.com/repos/Alex313031/thorium/releases"

	// DefaultTimeout is the per-request bound for feed calls.
	DefaultTimeout = 20 * time.Second

	// DefaultRetryAttempts is the feed fetch retry budget.
	DefaultRetryAttempts = 3

	// DefaultRetryDelay is the fixed pause between feed fetch attempts.
	DefaultRetryDelay = 2 * time.Second

	// DefaultTerminatePolls is the graceful-termination poll bound.
	DefaultTerminatePolls = 10

	// DefaultTerminatePollDelay is the pause between termination polls.
	DefaultTerminatePollDelay = time.Second

	// DefaultKillGrace is the pause after a forced kill.
	DefaultKillGrace = 2 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errProductNameRequired is returned when the product name is missing.
	errProductNameRequired = errors.New("product name must be provided")
)

// Default returns a configuration describing the canonical Thorium feed.
func Default() *Config {
	return &Config{
		ProductName:        DefaultProductName,
		FeedURL:            DefaultFeedURL,
		Timeout:            DefaultTimeout,
		RetryAttempts:      DefaultRetryAttempts,
		RetryDelay:         DefaultRetryDelay,
		TerminatePolls:     DefaultTerminatePolls,
		TerminatePollDelay: DefaultTerminatePollDelay,
		KillGrace:          DefaultKillGrace,
	}
}

// Load reads configuration from the provided path and validates essential fields.
// A missing settings file is not an error: the updater runs one fixed flow
// and the defaults describe it completely.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling defaults for omitted numeric knobs.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ProductName == "" {
		return errProductNameRequired
	}

	if cfg.FeedURL == "" {
		cfg.FeedURL = DefaultFeedURL
	}

	if _, err := url.ParseRequestURI(cfg.FeedURL); err != nil {
		return fmt.Errorf("invalid feed URL: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = DefaultRetryAttempts
	}

	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	if cfg.TerminatePolls <= 0 {
		cfg.TerminatePolls = DefaultTerminatePolls
	}

	if cfg.TerminatePollDelay <= 0 {
		cfg.TerminatePollDelay = DefaultTerminatePollDelay
	}

	if cfg.KillGrace <= 0 {
		cfg.KillGrace = DefaultKillGrace
	}

	return nil
}
