// Package config loads client settings from an optional YAML file and the
// environment.
package config

import (
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// MaxPageSize is the largest page the API serves.
const MaxPageSize = 100

type (
	// Config is the complete client configuration.
	Config struct {
		API    API    `yaml:"api"`
		Retry  Retry  `yaml:"retry"`
		Cache  Cache  `yaml:"cache"`
		Logger Logger `yaml:"logger"`
	}

	// API addresses the content API.
	API struct {
		BaseURL    string        `yaml:"base-url" env:"CONTENTAPI_BASE_URL" env-default:"https://api.elifesciences.org" env-description:"Base URL of the content API"`
		Vendor     string        `yaml:"vendor" env:"CONTENTAPI_VENDOR" env-default:"elife" env-description:"Vendor prefix of the media types"`
		Timeout    time.Duration `yaml:"timeout" env:"CONTENTAPI_TIMEOUT" env-default:"30s" env-description:"Per-request timeout"`
		PageSize   int           `yaml:"page-size" env:"CONTENTAPI_PAGE_SIZE" env-default:"100" env-description:"Page size of full listings (1-100)"`
		RateLimit  float64       `yaml:"rate-limit" env:"CONTENTAPI_RATE_LIMIT" env-default:"10" env-description:"Requests per second, 0 for unlimited"`
		Burst      int           `yaml:"burst" env:"CONTENTAPI_BURST" env-default:"5" env-description:"Rate limiter burst"`
		StrictKeys bool          `yaml:"strict-keys" env:"CONTENTAPI_STRICT_KEYS" env-description:"Reject responses that repeat a key within one object"`
	}

	// Retry bounds the retries of transient failures.
	Retry struct {
		MaxElapsed      time.Duration `yaml:"max-elapsed" env:"CONTENTAPI_RETRY_MAX_ELAPSED" env-default:"30s" env-description:"Give up retrying after this long"`
		InitialInterval time.Duration `yaml:"initial-interval" env:"CONTENTAPI_RETRY_INITIAL_INTERVAL" env-default:"250ms" env-description:"First retry delay"`
	}

	// Cache sizes the HTTP response cache.
	Cache struct {
		Size int `yaml:"size" env:"CONTENTAPI_CACHE_SIZE" env-default:"512" env-description:"Cached responses kept for revalidation"`
	}

	// Logger selects the log output.
	Logger struct {
		Level  string `yaml:"level" env:"CONTENTAPI_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
		Format string `yaml:"format" env:"CONTENTAPI_LOG_FORMAT" env-default:"json" env-description:"json or console"`
	}
)

// Load reads path, when set, then the environment, and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errors.Wrap(err, "config: read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Usage describes every setting and its environment variable.
func Usage() string {
	var cfg Config
	usage, _ := cleanenv.GetDescription(&cfg, nil)
	return usage
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("config: api.base-url %q is not an absolute URL", c.API.BaseURL)
	}
	if c.API.Vendor == "" {
		return errors.New("config: api.vendor cannot be empty")
	}
	if c.API.Timeout <= 0 {
		return errors.New("config: api.timeout must be positive")
	}
	if c.API.PageSize < 1 || c.API.PageSize > MaxPageSize {
		return errors.Errorf("config: api.page-size must be between 1 and %d", MaxPageSize)
	}
	if c.API.RateLimit < 0 {
		return errors.New("config: api.rate-limit cannot be negative")
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		return errors.New("config: api.burst must be at least 1")
	}
	if c.Retry.InitialInterval <= 0 {
		return errors.New("config: retry.initial-interval must be positive")
	}
	if c.Retry.MaxElapsed < c.Retry.InitialInterval {
		return errors.New("config: retry.max-elapsed must not be below retry.initial-interval")
	}
	if c.Cache.Size < 0 {
		return errors.New("config: cache.size cannot be negative")
	}
	switch c.Logger.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("config: unknown logger.level %q", c.Logger.Level)
	}
	switch c.Logger.Format {
	case "json", "console":
	default:
		return errors.Errorf("config: unknown logger.format %q", c.Logger.Format)
	}
	return nil
}
