package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9090,
		"model": "gemini-2.5-pro",
		"max_tokens": 4096,
		"database_url": "postgres://localhost/resume"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, int32(4096), cfg.MaxTokens)
	assert.Equal(t, "postgres://localhost/resume", cfg.DatabaseURL)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{"port": `)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("PORT", "7070")
	t.Setenv("RESUME_MAX_TOKENS", "2048")
	t.Setenv("RESUME_VERBOSE", "true")

	cfg := FromEnv()
	assert.Equal(t, "key-123", cfg.APIKey)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, int32(2048), cfg.MaxTokens)
	assert.True(t, cfg.Verbose)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())

	cfg.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Retries = -1
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.ProfilePath = filepath.Join(t.TempDir(), "missing.json")
	assert.Error(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Model: "gemini-2.5-pro"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "gemini-2.5-pro", merged.Model) // explicit value kept
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, int32(8192), merged.MaxTokens)
	assert.Equal(t, 2, merged.Retries)
	assert.Equal(t, "modern", merged.Template)
}

func TestMergeWithDefaults_LayeredSources(t *testing.T) {
	fileCfg := Config{Port: 9090, Model: "from-file"}
	envCfg := Config{Model: "from-env"}

	// Env merges over file, then file-plus-env over defaults.
	merged := envCfg.MergeWithDefaults(fileCfg).MergeWithDefaults(Defaults())
	assert.Equal(t, "from-env", merged.Model)
	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, 2, merged.Retries)
}
