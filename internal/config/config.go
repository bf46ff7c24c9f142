package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/podrun/internal/runpod"
)

// Config captures everything podrun needs to submit and follow a job.
type Config struct {
	BaseURL        string
	EndpointID     string
	APIKeyEnv      string
	APIKey         string
	PollInterval   time.Duration
	RetryDelay     time.Duration
	MaxPolls       int           // zero means unlimited
	Timeout        time.Duration // zero means unlimited
	RequestTimeout time.Duration
	OutputDir      string // empty means the current working directory
	Theme          string
}

const (
	defaultConfigPath     = "~/.config/podrun/config.toml"
	defaultAPIKeyEnv      = "RUNPOD_API_KEY"
	defaultPollInterval   = 2 * time.Second
	defaultRetryDelay     = 5 * time.Second
	defaultRequestTimeout = 30 * time.Second
	defaultTheme          = "Nightfox"
)

// ErrMissingAPIKey is returned by Validate when the credential variable is
// unset or empty.
var ErrMissingAPIKey = errors.New("api key not set")

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:        runpod.DefaultBaseURL,
		EndpointID:     runpod.DefaultEndpointID,
		APIKeyEnv:      defaultAPIKeyEnv,
		PollInterval:   defaultPollInterval,
		RetryDelay:     defaultRetryDelay,
		RequestTimeout: defaultRequestTimeout,
		Theme:          defaultTheme,
	}
}

// Load locates and parses the podrun config, falling back to defaults when
// missing, then reads the API key from the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		// Without a home directory the default file cannot exist.
		if strings.TrimSpace(path) == "" {
			return cfg.withEnvKey(), nil
		}
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		return cfg.withEnvKey(), nil
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL               string `toml:"base_url"`
		EndpointID            string `toml:"endpoint_id"`
		APIKeyEnv             string `toml:"api_key_env"`
		PollSeconds           *int   `toml:"poll_seconds"`
		RetrySeconds          *int   `toml:"retry_seconds"`
		MaxPolls              int    `toml:"max_polls"`
		TimeoutSeconds        int    `toml:"timeout_seconds"`
		RequestTimeoutSeconds *int   `toml:"request_timeout_seconds"`
		OutputDir             string `toml:"output_dir"`
		Theme                 string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(raw.EndpointID); v != "" {
		cfg.EndpointID = v
	}
	if v := strings.TrimSpace(raw.APIKeyEnv); v != "" {
		cfg.APIKeyEnv = v
	}
	if v := strings.TrimSpace(raw.Theme); v != "" {
		cfg.Theme = v
	}
	if raw.PollSeconds != nil {
		if *raw.PollSeconds <= 0 {
			return Config{}, fmt.Errorf("parse config: poll_seconds must be positive, got %d", *raw.PollSeconds)
		}
		cfg.PollInterval = time.Duration(*raw.PollSeconds) * time.Second
	}
	if raw.RetrySeconds != nil {
		if *raw.RetrySeconds <= 0 {
			return Config{}, fmt.Errorf("parse config: retry_seconds must be positive, got %d", *raw.RetrySeconds)
		}
		cfg.RetryDelay = time.Duration(*raw.RetrySeconds) * time.Second
	}
	if raw.RequestTimeoutSeconds != nil {
		if *raw.RequestTimeoutSeconds <= 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout_seconds must be positive, got %d", *raw.RequestTimeoutSeconds)
		}
		cfg.RequestTimeout = time.Duration(*raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.MaxPolls < 0 || raw.TimeoutSeconds < 0 {
		return Config{}, fmt.Errorf("parse config: max_polls and timeout_seconds must not be negative")
	}
	cfg.MaxPolls = raw.MaxPolls
	cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second

	if dir := strings.TrimSpace(raw.OutputDir); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return Config{}, fmt.Errorf("output_dir: %w", err)
		}
		cfg.OutputDir = expanded
	}

	return cfg.withEnvKey(), nil
}

func (c Config) withEnvKey() Config {
	c.APIKey = strings.TrimSpace(os.Getenv(c.APIKeyEnv))
	return c
}

// Validate checks the preconditions that must hold before any work starts.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		env := c.APIKeyEnv
		if env == "" {
			env = defaultAPIKeyEnv
		}
		return fmt.Errorf("%w: %s environment variable is not set", ErrMissingAPIKey, env)
	}
	return nil
}

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
