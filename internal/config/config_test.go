package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":2525", cfg.SMTP.BindAddr)
	assert.Equal(t, "localhost", cfg.SMTP.Domain)
	assert.Empty(t, cfg.SMTP.AllowedDomains)
	assert.Equal(t, 10, cfg.SMTP.MaxMessageMB)
	assert.Equal(t, 32, cfg.SMTP.MaxConnections)
	assert.Equal(t, "./archive", cfg.Archive.OutputDir)
	assert.Equal(t, "attach-filename", cfg.Archive.FileNameTag)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("MSGSTG_SMTP_BIND_ADDR", ":25")
	t.Setenv("MSGSTG_SMTP_ALLOWED_DOMAINS", "Example.com, archive.test")
	t.Setenv("MSGSTG_ARCHIVE_OUTPUT_DIR", "/var/lib/msgstg")
	t.Setenv("MSGSTG_ARCHIVE_FILE_NAME_TAG", "display-name")
	t.Setenv("MSGSTG_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":25", cfg.SMTP.BindAddr)
	assert.Equal(t, []string{"example.com", "archive.test"}, cfg.SMTP.AllowedDomains)
	assert.Equal(t, "/var/lib/msgstg", cfg.Archive.OutputDir)
	assert.Equal(t, "display-name", cfg.Archive.FileNameTag)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidFileNameTag(t *testing.T) {
	viper.Reset()
	t.Setenv("MSGSTG_ARCHIVE_FILE_NAME_TAG", "something-else")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsEmptyOutputDir(t *testing.T) {
	viper.Reset()
	t.Setenv("MSGSTG_ARCHIVE_OUTPUT_DIR", "   ")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadClampsInvalidLimits(t *testing.T) {
	viper.Reset()
	t.Setenv("MSGSTG_SMTP_MAX_MESSAGE_MB", "-1")
	t.Setenv("MSGSTG_SMTP_MAX_CONNECTIONS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.SMTP.MaxMessageMB)
	assert.Equal(t, 32, cfg.SMTP.MaxConnections)
}
