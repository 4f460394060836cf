// ABOUTME: Configuration loader for the campus-admin client
// ABOUTME: Loads settings from CAMPUS_* environment variables and an optional .env file

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable read by Load
const EnvPrefix = "CAMPUS_"

// DefaultAPIURL is used when neither flag nor environment set the API URL
const DefaultAPIURL = "http://localhost:8080"

// Credential store backends
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	// API
	APIURL  string        `env:"API_URL" envDefault:"http://localhost:8080"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`

	// Local state
	ConfigDir       string `env:"CONFIG_DIR"`
	CredentialStore string `env:"CREDENTIAL_STORE" envDefault:"file"`

	// Redis credential store (optional)
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// RedisConfig holds settings for the redis credential store
type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	Prefix   string `env:"PREFIX" envDefault:"campus-admin"`
}

// Load reads a .env file from the working directory when present, then
// parses CAMPUS_* variables into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	return Parse()
}

// Parse builds a Config from the current environment only
func Parse() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.sanitize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) sanitize() error {
	c.APIURL = strings.TrimRight(ensureScheme(strings.TrimSpace(c.APIURL)), "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.ConfigDir == "" {
		c.ConfigDir = DefaultConfigDir()
	}

	c.CredentialStore = strings.ToLower(strings.TrimSpace(c.CredentialStore))
	switch c.CredentialStore {
	case "":
		c.CredentialStore = StoreFile
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("CAMPUS_CREDENTIAL_STORE must be file, redis or memory, got %q", c.CredentialStore)
	}
	return nil
}

// DefaultConfigDir returns the default config directory following XDG conventions
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "campus-admin")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "campus-admin")
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
