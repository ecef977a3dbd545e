package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), filePerm))
}

func TestManager_LoadDefaultsWithoutFile(t *testing.T) {
	mgr, err := NewManager(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	assert.Equal(t, DefaultConfig(), mgr.Get())
}

func TestManager_LoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[bridge]
exposed_name = "Native"
signature_prefix = "jsbridge:"
mode = "Shimmed"

[engine]
runtime_version = "2.3.5"
`)
	t.Setenv("JSBRIDGE_BRIDGE_FAILURE_POLICY", "ignore")
	t.Setenv("JSBRIDGE_LOG_LEVEL", "debug")

	mgr, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	cfg := mgr.Get()
	assert.Equal(t, path, mgr.ConfigFileUsed())
	assert.Equal(t, "Native", cfg.Bridge.ExposedName)
	assert.Equal(t, "jsbridge:", cfg.Bridge.SignaturePrefix)
	assert.Equal(t, "shimmed", cfg.Bridge.Mode)
	assert.Equal(t, "ignore", cfg.Bridge.FailurePolicy)
	assert.Equal(t, "2.3.5", cfg.Engine.RuntimeVersion)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultReservedURL, cfg.Bridge.ReservedURL)
}

func TestManager_LoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[bridge]\nmode = \"sometimes\"\n")

	mgr, err := NewManager(path)
	require.NoError(t, err)
	err = mgr.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bridge.mode")

	writeFile(t, path, "[bridge\n")
	require.Error(t, mgr.Load())
}

func TestManager_WatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[bridge]\nexposed_name = \"First\"\n")

	mgr, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())

	changed := make(chan *Config, 4)
	mgr.OnConfigChange(func(cfg *Config) { changed <- cfg })
	require.NoError(t, mgr.Watch(t.Context()))
	require.NoError(t, mgr.Watch(t.Context()))

	writeFile(t, path, "[bridge]\nexposed_name = \"Second\"\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.Bridge.ExposedName == "Second" {
				assert.Equal(t, "Second", mgr.Get().Bridge.ExposedName)
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Bridge.SignaturePrefix = "jsbridge:"
	cfg.Metrics.Enabled = true

	require.NoError(t, WriteConfig(cfg, path))
	require.Error(t, WriteConfig(nil, path))

	mgr, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, mgr.Load())
	assert.Equal(t, cfg, mgr.Get())
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "https://github.com/bnema/jsbridge/config.schema.json", doc["$id"])
	assert.Contains(t, string(data), "failure_policy")
}
