package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proplink/internal/property"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, property.DefaultMaxDepth, cfg.MaxDepth)
	assert.True(t, cfg.ChangeLog)
	assert.Empty(t, cfg.DBPath)
	assert.False(t, cfg.Verbose)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PROPLINK_MAX_DEPTH", "64")
	t.Setenv("PROPLINK_CHANGELOG", "false")
	t.Setenv("PROPLINK_DB", "/tmp/proplink.db")
	t.Setenv("PROPLINK_VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{MaxDepth: 64, ChangeLog: false, DBPath: "/tmp/proplink.db", Verbose: true}, cfg)

	s := property.NewSession(cfg.SessionOptions()...)
	assert.Equal(t, 64, s.MaxDepth())
	assert.False(t, s.Log().Enabled())
}

func TestLoad_Error(t *testing.T) {
	t.Setenv("PROPLINK_MAX_DEPTH", "deep")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
