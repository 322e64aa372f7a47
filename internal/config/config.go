package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Error reports configuration the operator must fix before the tool can run.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return e.Msg
}

// Config is the top-level application configuration, loaded from an optional
// YAML file. Every field has a documented default so a missing file means a
// fully working setup.
type Config struct {
	// TokenPath is where the OAuth token blob is persisted.
	TokenPath string `yaml:"token_path"`

	// CredentialsPath holds the OAuth client configuration (Desktop
	// credentials downloaded from Google Cloud). Read-only input to the
	// interactive authorization flow.
	CredentialsPath string `yaml:"credentials_path"`

	// UseKeyring stores the token in the OS keychain instead of a file.
	UseKeyring bool `yaml:"use_keyring"`

	// Timezone is an optional IANA zone name (e.g. "Asia/Shanghai") used when
	// resolving free-text times. Empty means the process-local zone.
	Timezone string `yaml:"timezone"`

	// TimeoutSeconds, Retries and BackoffBase are the per-request defaults;
	// tool calls may override timeout and retries within bounds.
	TimeoutSeconds int     `yaml:"timeout"`
	Retries        int     `yaml:"retries"`
	BackoffBase    float64 `yaml:"backoff_base"`

	// WatchCron is the cron schedule for the watch command's periodic digest.
	WatchCron string `yaml:"watch_cron"`

	// DisableScopeCheck skips the granted-scope sufficiency check on stored
	// tokens. Leave off unless a token predating scope tracking must be kept.
	DisableScopeCheck bool `yaml:"disable_scope_check"`
}

const configDirName = ".agendabot"

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	return filepath.Join(homeDir(), configDirName, "config.yaml")
}

// Default returns the in-memory default configuration.
func Default() *Config {
	dir := filepath.Join(homeDir(), configDirName)
	return &Config{
		TokenPath:       filepath.Join(dir, "google-token.json"),
		CredentialsPath: filepath.Join(dir, "google-credentials.json"),
		TimeoutSeconds:  60,
		Retries:         3,
		BackoffBase:     1.5,
		WatchCron:       "0 8 * * *",
	}
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist. Fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	conf := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return conf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("invalid config %s: %v", path, err)}
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > 600 {
		return &Error{Msg: fmt.Sprintf("timeout must be between 1 and 600 seconds, got %d", c.TimeoutSeconds)}
	}
	if c.Retries < 0 || c.Retries > 10 {
		return &Error{Msg: fmt.Sprintf("retries must be between 0 and 10, got %d", c.Retries)}
	}
	if c.BackoffBase <= 0 {
		return &Error{Msg: fmt.Sprintf("backoff_base must be positive, got %v", c.BackoffBase)}
	}
	return nil
}

// Location resolves the configured timezone. An empty setting yields the
// process-local zone; an unknown name is an operator error.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, &Error{Msg: fmt.Sprintf("cannot resolve configured timezone %q: %v", c.Timezone, err)}
	}
	return loc, nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
