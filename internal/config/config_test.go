package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "fixtures", cfg.Data.Dir)
	assert.Equal(t, "actuals.csv", cfg.Data.Actuals)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 50.0, cfg.RateLimit.RPS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FINSIGHT_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("FINSIGHT_SERVER_PORT", "9090")
	t.Setenv("FINSIGHT_LOGGING_LEVEL", "debug")
	t.Setenv("FINSIGHT_DATA_DIR", "/data/tables")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/data/tables", cfg.Data.Dir)
	assert.Equal(t, filepath.Join("/data/tables", "actuals.csv"), cfg.Data.ActualsPath())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server:\n  port: 3000\ndata:\n  dir: /srv/finance\n"), 0o644))
	t.Setenv("FINSIGHT_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/srv/finance", cfg.Data.Dir)
	// Unset fields still get their defaults.
	assert.Equal(t, "actuals.csv", cfg.Data.Actuals)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("FINSIGHT_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("FINSIGHT_LOGGING_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_PortRange(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

func TestDataConfig_AbsolutePathWins(t *testing.T) {
	d := DataConfig{Dir: "fixtures", Cash: "/abs/cash.csv"}
	assert.Equal(t, "/abs/cash.csv", d.CashPath())
}
