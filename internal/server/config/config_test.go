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

	require.Equal(t, ":8080", cfg.EndpointAddr)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	require.Equal(t, 24*time.Hour, cfg.RefreshTokenValidityDuration)
	require.Equal(t, 5000.0, cfg.VolumetricDivisor)
	require.Equal(t, "USD", cfg.Currency)
	require.Empty(t, cfg.AdminAllowedIPs)
	require.Empty(t, cfg.RateTablePath, "default rate table is the built-in slab")
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"app", "-a", ":9090", "-d", "postgres://test/db", "-t", "5", "-i", "10.0.0.1, 10.0.0.2"}

	cfg := LoadConfig()
	require.Equal(t, ":9090", cfg.EndpointAddr)
	require.Equal(t, "postgres://test/db", cfg.DatabaseDSN)
	require.Equal(t, 5*time.Minute, cfg.AccessTokenValidityDuration)
	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.AdminAllowedIPs)
}
