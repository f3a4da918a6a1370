package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TGSTATS_OUTPUT_DIR", "")
	t.Setenv("TGSTATS_FEATURES", "")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.OutputDir)
	assert.True(t, cfg.Parallel)
	assert.Contains(t, cfg.Features, "msg")
	assert.Contains(t, cfg.Features, "day_night")
	assert.Equal(t, 12, cfg.TopN)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
[report]
output-dir = "/tmp/stats"
features = "msg, word"
title = "Our chats"
parallel = false
top-n = 8
`)
	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/stats", cfg.OutputDir)
	assert.Equal(t, []string{"msg", "word"}, cfg.Features)
	assert.Equal(t, "Our chats", cfg.Title)
	assert.False(t, cfg.Parallel)
	assert.Equal(t, 8, cfg.TopN)
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
[report]
title = "Just a title"
`)
	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, "Just a title", cfg.Title)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.True(t, cfg.Parallel)
	assert.Equal(t, Default().Features, cfg.Features)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
[report]
output-dir = "/from/file"
features = "msg"
`)
	t.Setenv("TGSTATS_OUTPUT_DIR", "/from/env")
	t.Setenv("TGSTATS_FEATURES", "word,links")

	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.OutputDir)
	assert.Equal(t, []string{"word", "links"}, cfg.Features)
}

func TestLoad_BadTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `[report`)
	_, err := load(path)
	require.Error(t, err)
}

func TestSplitFeatures(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitFeatures("a, b,,"))
	assert.Empty(t, splitFeatures(" , "))
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t,
		filepath.Join("/xdg", "tgstats", "config.toml"),
		DefaultConfigPath())
}
