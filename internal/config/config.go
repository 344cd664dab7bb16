package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/skip405/kickbox-verifier/internal/core"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/kickbox-verifier/")
	v.AddConfigPath("$HOME/.kickbox-verifier")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("KICKBOX_VERIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	cfg := &Config{v: v}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Kickbox API defaults
	v.SetDefault("kickbox.api_key", "")
	v.SetDefault("kickbox.base_url", "https://api.kickbox.com/v2")
	v.SetDefault("kickbox.timeout", 6)

	// Verification defaults
	v.SetDefault("verification.globally_disabled", false)
	v.SetDefault("verification.mode", "")
	v.SetDefault("verification.custom.allow_undeliverable", false)
	v.SetDefault("verification.custom.allow_risky", false)
	v.SetDefault("verification.custom.allow_unknown", false)
	v.SetDefault("verification.custom.min_sendex", "")

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.duration_days", 7)
	v.SetDefault("cache.domain_caching", false)
	v.SetDefault("cache.prune_frequency", "24h")
	v.SetDefault("cache.store", "memory")
	v.SetDefault("cache.sqlite_path", "/data/verification_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/kickbox_verifier")
	v.SetDefault("cache.redis_addr", "")

	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8085")

	// Message defaults (empty means use the built-in templates)
	v.SetDefault("messages.generic", "")
	v.SetDefault("messages.suggested_email", "")
	v.SetDefault("messages.reasons", map[string]string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks configuration values that can be verified at load time.
// Message overrides for unknown Kickbox reasons and out-of-range sendex
// values are rejected here instead of being silently ignored later.
func (c *Config) Validate() error {
	for reason := range c.GetStringMapString("messages.reasons") {
		if !core.IsKnownReason(reason) {
			return fmt.Errorf("unknown kickbox reason in messages.reasons: %q", reason)
		}
	}

	if raw := c.GetString("verification.custom.min_sendex"); raw != "" {
		if _, ok := core.ParseSendex(raw); !ok {
			return fmt.Errorf("verification.custom.min_sendex must be in (0,1], got %q", raw)
		}
	}

	switch mode := c.GetString("verification.mode"); mode {
	case "", "strict", "permissive", "custom":
	default:
		return fmt.Errorf("unsupported verification.mode: %q", mode)
	}

	switch store := c.GetString("cache.store"); store {
	case "memory", "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported cache.store: %q", store)
	}

	return nil
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringMapString gets a string map value from the configuration
func (c *Config) GetStringMapString(key string) map[string]string {
	return c.v.GetStringMapString(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
