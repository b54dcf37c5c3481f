// Package config handles configuration for the CodeTrack CLI client,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the client.
//
// Fields:
//   - BackendURL: base URL of the CodeTrack API (e.g. http://localhost:3000/api/v1).
//   - CallbackAddr: host:port the loopback OAuth callback server binds to.
//     The callback URL sent to the backend is derived from it.
//   - RequestTimeout: upper bound for a single API round-trip, including the
//     session verification call. Expiry is treated as a verification failure.
//   - CacheDSN: SQLite file holding the durable credential cache.
type Config struct {
	BackendURL     string
	CallbackAddr   string
	RequestTimeout time.Duration
	CacheDSN       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:3000/api/v1"
	c.CallbackAddr = "127.0.0.1:53682"
	c.RequestTimeout = 15 * time.Second
	c.CacheDSN = "codetrack.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
