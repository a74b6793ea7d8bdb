// Package config loads runtime configuration for the profilectl CLI.
//
// Sources and precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
package config

import "time"

// Config holds runtime settings for profilectl.
//
// An empty DocumentDSN selects the in-memory document store; an empty
// CacheDSN disables the offline field cache; an empty BlobBucket disables
// blob uploads.
type Config struct {
	IdentityEndpoint string
	IdentityAPIKey   string

	DocumentDSN string
	CacheDSN    string

	BlobRegion    string
	BlobEndpoint  string
	BlobBucket    string
	BlobAccessKey string
	BlobSecretKey string

	OpTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.IdentityEndpoint = "https://identitytoolkit.googleapis.com/v1"
	c.CacheDSN = "profile.db"
	c.BlobRegion = "us-east-1"
	c.OpTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
