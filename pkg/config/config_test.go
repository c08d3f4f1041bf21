package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.SpillDirs)
	assert.Equal(t, 5*1024*1024, cfg.SpillThreshold)
	assert.Equal(t, 256*1024*1024, cfg.MaxRecordSize)
	assert.NotEmpty(t, cfg.Relay.Listen)
	assert.NotEmpty(t, cfg.Relay.MetricsListen)
	assert.Greater(t, cfg.Relay.BufferSize, 0)
}

func TestSaveAndLoadConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.SpillDirs = []string{"/tmp/spill-a", "/tmp/spill-b"}
	cfg.SpillThreshold = 2048
	cfg.Relay.Listen = "127.0.0.1:9999"

	require.NoError(t, SaveConfig(cfg, configPath))
	assert.True(t, ConfigExists(configPath))

	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	cfg, err := LoadConfig("/does/not/exist.yaml")
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_partial_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("spill_threshold_bytes: 4096\n"), 0600))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.SpillThreshold)
	assert.Equal(t, DefaultConfig().MaxRecordSize, cfg.MaxRecordSize)
	assert.Equal(t, DefaultConfig().Relay, cfg.Relay)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config_invalid_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("spill_dirs: [unclosed"), 0600))

	cfg, err := LoadConfig(configPath)
	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Equal(t, ".yaml", filepath.Ext(path))
}
