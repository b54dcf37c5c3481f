package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, ":3000", cfg.EndpointAddr)
	require.Equal(t, 30*24*time.Hour, cfg.TokenValidity)
	require.Equal(t, []string{"twitter", "linkedin"}, cfg.Providers)
	require.NotEmpty(t, cfg.DatabaseDSN)
	require.NotEmpty(t, cfg.S3Bucket)
}

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("TOKEN_VALIDITY", "1h")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.org, https://beta.example.org")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, ":9090", cfg.EndpointAddr)
	require.Equal(t, "from-env", cfg.SecretKey)
	require.Equal(t, time.Hour, cfg.TokenValidity)
	require.Equal(t, []string{"https://app.example.org", "https://beta.example.org"}, cfg.AllowedOrigins)
}

func TestParseEnv_InvalidDurationKeepsDefault(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, 30*24*time.Hour, cfg.TokenValidity)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()
	os.Args = []string{"server", "-a", ":8081", "-k", "flag-secret", "-ignored", "x"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, ":8081", cfg.EndpointAddr)
	require.Equal(t, "flag-secret", cfg.SecretKey)
}
