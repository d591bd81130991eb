// Package config resolves the service endpoint, request deadlines and the
// API credential for one invocation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/auralynx/auralynx/internal/apperr"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	APIKeyEnv  = "AAI_API_KEY"
	BaseURLEnv = "AAI_BASE_URL"

	DefaultBaseURL = "https://api.assemblyai.com/v2"
)

// Config is the resolved client configuration. The API key never comes from
// the YAML file.
type Config struct {
	APIKey string `yaml:"-"`

	BaseURL            string `yaml:"base_url"`
	UploadTimeout      int    `yaml:"upload_timeout"`       // seconds
	SubmitTimeout      int    `yaml:"submit_timeout"`       // seconds
	PollRequestTimeout int    `yaml:"poll_request_timeout"` // seconds
}

func Default() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		UploadTimeout:      120,
		SubmitTimeout:      180,
		PollRequestTimeout: 30,
	}
}

type LoadOptions struct {
	// Path is the YAML file to read. Empty skips the file.
	Path string
	// Explicit makes a missing file an error instead of falling back to defaults.
	Explicit bool
	// EnvFiles are dotenv files consulted after the process environment.
	EnvFiles []string
	Getenv   func(string) string
}

// Load layers defaults, the YAML file, dotenv files and the environment, then
// validates the result.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	if opts.Path != "" {
		if err := cfg.mergeFile(opts.Path, opts.Explicit); err != nil {
			return Config{}, err
		}
	}

	lookup, err := newLookup(opts.Getenv, opts.EnvFiles)
	if err != nil {
		return Config{}, apperr.Wrap(apperr.KindConfigInvalid, err, "Cannot read env file")
	}

	if base := lookup(BaseURLEnv); base != "" {
		cfg.BaseURL = base
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, apperr.Wrap(apperr.KindConfigInvalid, err, "Invalid configuration")
	}

	cfg.APIKey = strings.TrimSpace(lookup(APIKeyEnv))
	if cfg.APIKey == "" {
		return Config{}, apperr.New(apperr.KindMissingCredential, "%s environment variable is not set.", APIKeyEnv)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return apperr.Wrap(apperr.KindConfigInvalid, err, "Cannot read config file %s", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return apperr.Wrap(apperr.KindConfigInvalid, err, "Cannot parse config file %s", path)
	}
	return nil
}

func (c Config) Validate() error {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base_url has no host: %q", c.BaseURL)
	}

	if c.UploadTimeout < 1 {
		return fmt.Errorf("upload_timeout must be at least 1 second, got %d", c.UploadTimeout)
	}
	if c.SubmitTimeout < 1 {
		return fmt.Errorf("submit_timeout must be at least 1 second, got %d", c.SubmitTimeout)
	}
	if c.PollRequestTimeout < 1 {
		return fmt.Errorf("poll_request_timeout must be at least 1 second, got %d", c.PollRequestTimeout)
	}

	return nil
}

func (c Config) UploadDeadline() time.Duration {
	return time.Duration(c.UploadTimeout) * time.Second
}

func (c Config) SubmitDeadline() time.Duration {
	return time.Duration(c.SubmitTimeout) * time.Second
}

func (c Config) PollRequestDeadline() time.Duration {
	return time.Duration(c.PollRequestTimeout) * time.Second
}

// newLookup reads the process environment first and the dotenv files second.
// Dotenv files that do not exist are ignored.
func newLookup(getenv func(string) string, envFiles []string) (func(string) string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	var present []string
	for _, path := range envFiles {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			present = append(present, path)
		}
	}

	dotenv := map[string]string{}
	if len(present) > 0 {
		values, err := godotenv.Read(present...)
		if err != nil {
			return nil, err
		}
		dotenv = values
	}

	return func(key string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return dotenv[key]
	}, nil
}
