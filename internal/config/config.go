package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, "__" separates nested keys:
// POS_SERVER__PORT, POS_GATEWAY__BASE_URL, POS_REDIS__ADDR
const EnvPrefix = "POS_"

// Config holds all configuration for the application.
// Values are layered: defaults, then an optional YAML file, then environment variables.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Auth       AuthConfig       `koanf:"auth"`
	Gateway    GatewayConfig    `koanf:"gateway"`
	Relay      RelayConfig      `koanf:"relay"`
	Session    SessionConfig    `koanf:"session"`
	Submission SubmissionConfig `koanf:"submission"`
	Redis      RedisConfig      `koanf:"redis"`
	Log        LogConfig        `koanf:"log"`
}

type ServerConfig struct {
	Port            string `koanf:"port"`
	Host            string `koanf:"host"`
	ReadTimeout     int    `koanf:"read_timeout"`
	WriteTimeout    int    `koanf:"write_timeout"`
	ShutdownTimeout int    `koanf:"shutdown_timeout"`
}

type AuthConfig struct {
	APIKeys []string `koanf:"api_keys"` // operator API keys, empty disables the check
}

// GatewayConfig describes how the remote commerce API is reached.
// When RelayURL is set, every call goes through the proxy relay instead of BaseURL.
type GatewayConfig struct {
	BaseURL  string        `koanf:"base_url"`
	RelayURL string        `koanf:"relay_url"`
	Timeout  time.Duration `koanf:"timeout"`
}

type RelayConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Upstream  string        `koanf:"upstream"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"` // requests per second
	Burst     int           `koanf:"burst"`
}

type SessionConfig struct {
	TokenStore string `koanf:"token_store"` // memory, file or redis
	TokenFile  string `koanf:"token_file"`
	Token      string `koanf:"token"` // initial token, overrides the stored one
}

type SubmissionConfig struct {
	Guard    string        `koanf:"guard"` // memory or redis
	GuardTTL time.Duration `koanf:"guard_ttl"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type LogConfig struct {
	Level      string `koanf:"level"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15,
			WriteTimeout:    60,
			ShutdownTimeout: 30,
		},
		Gateway: GatewayConfig{
			BaseURL: "https://app.tablecrm.com/api/v1",
			Timeout: 30 * time.Second,
		},
		Relay: RelayConfig{
			Enabled:   true,
			Upstream:  "https://app.tablecrm.com/api/v1",
			Timeout:   30 * time.Second,
			RateLimit: 20,
			Burst:     40,
		},
		Session: SessionConfig{
			TokenStore: "file",
			TokenFile:  "./data/session.json",
		},
		Submission: SubmissionConfig{
			Guard:    "memory",
			GuardTTL: 2 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load reads configuration from an optional YAML file and the environment.
// An empty path or a missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("env overlay: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envKeyValue maps POS_GATEWAY__BASE_URL to gateway.base_url and splits list values
func envKeyValue(key, value string) (string, interface{}) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(strings.ReplaceAll(key, "__", "."))

	if key == "auth.api_keys" {
		keys := make([]string, 0)
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				keys = append(keys, v)
			}
		}
		return key, keys
	}
	return key, value
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if c.Gateway.BaseURL == "" && c.Gateway.RelayURL == "" {
		return fmt.Errorf("gateway.base_url or gateway.relay_url is required")
	}

	if c.Relay.Enabled {
		if c.Relay.Upstream == "" {
			return fmt.Errorf("relay.upstream is required when the relay is enabled")
		}
		if c.Relay.RateLimit <= 0 || c.Relay.Burst <= 0 {
			return fmt.Errorf("relay.rate_limit and relay.burst must be positive")
		}
	}

	switch c.Session.TokenStore {
	case "memory", "redis":
	case "file":
		if c.Session.TokenFile == "" {
			return fmt.Errorf("session.token_file is required for the file token store")
		}
	default:
		return fmt.Errorf("invalid session.token_store: %s (must be memory, file, or redis)", c.Session.TokenStore)
	}

	switch c.Submission.Guard {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid submission.guard: %s (must be memory or redis)", c.Submission.Guard)
	}

	if (c.Session.TokenStore == "redis" || c.Submission.Guard == "redis") && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when a redis backend is selected")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level)
	}

	return nil
}

// UsesRedis reports whether any component needs a redis client
func (c *Config) UsesRedis() bool {
	return c.Session.TokenStore == "redis" || c.Submission.Guard == "redis"
}
