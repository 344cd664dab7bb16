package config

import (
	"github.com/skip405/kickbox-verifier/internal/core"
)

// KickboxConfig represents the configuration for the Kickbox API
type KickboxConfig struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// CacheConfig represents the verification cache configuration
type CacheConfig struct {
	Enabled        bool
	DurationDays   int
	DomainCaching  bool
	PruneFrequency string
	Store          string
	SQLitePath     string
	MySQLDSN       string
	RedisAddr      string
}

// ServerConfig represents the HTTP submission source configuration
type ServerConfig struct {
	ListenAddress string
}

// GetKickbox returns the Kickbox API configuration
func (c *Config) GetKickbox() KickboxConfig {
	return KickboxConfig{
		APIKey:         c.GetString("kickbox.api_key"),
		BaseURL:        c.GetString("kickbox.base_url"),
		TimeoutSeconds: c.GetInt("kickbox.timeout"),
	}
}

// GetCache returns the cache configuration
func (c *Config) GetCache() CacheConfig {
	return CacheConfig{
		Enabled:        c.GetBool("cache.enabled"),
		DurationDays:   c.GetInt("cache.duration_days"),
		DomainCaching:  c.GetBool("cache.domain_caching"),
		PruneFrequency: c.GetString("cache.prune_frequency"),
		Store:          c.GetString("cache.store"),
		SQLitePath:     c.GetString("cache.sqlite_path"),
		MySQLDSN:       c.GetString("cache.mysql_dsn"),
		RedisAddr:      c.GetString("cache.redis_addr"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
	}
}

// GetGlobalSettings builds the process-wide verification settings passed to
// the validator and its collaborators.
func (c *Config) GetGlobalSettings() core.GlobalSettings {
	return core.GlobalSettings{
		Disabled:           c.GetBool("verification.globally_disabled"),
		Mode:               c.GetString("verification.mode"),
		AllowUndeliverable: c.GetBool("verification.custom.allow_undeliverable"),
		AllowRisky:         c.GetBool("verification.custom.allow_risky"),
		AllowUnknown:       c.GetBool("verification.custom.allow_unknown"),
		MinSendex:          c.GetString("verification.custom.min_sendex"),
		Messages: core.MessageOverrides{
			Generic:        c.GetString("messages.generic"),
			SuggestedEmail: c.GetString("messages.suggested_email"),
			Reasons:        c.GetStringMapString("messages.reasons"),
		},
	}
}
