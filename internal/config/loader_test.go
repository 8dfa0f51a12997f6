package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "http://127.0.0.1:5000", cfg.Upstream.BaseURL)
	assert.Equal(t, "/study_plan_creator", cfg.Upstream.Path)
	assert.Equal(t, "all", cfg.Form.Validation)
	assert.Equal(t, "inline", cfg.Form.Presentation)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 1800, cfg.Views.TTLSec)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "bad json", raw: `{`},
		{name: "bad scheme", raw: `{"upstream":{"baseUrl":"ftp://x"}}`},
		{name: "no host", raw: `{"upstream":{"baseUrl":"http://"}}`},
		{name: "relative path", raw: `{"upstream":{"path":"study"}}`},
		{name: "validation", raw: `{"form":{"validation":"some"}}`},
		{name: "presentation", raw: `{"form":{"presentation":"toast"}}`},
		{name: "log format", raw: `{"logging":{"format":"xml"}}`},
		{name: "version", raw: `{"version":-1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvUpstreamURL, "https://plans.example.com")
	t.Setenv(EnvListen, "0.0.0.0:9000")

	cfg, err := Parse([]byte(`{"listen":"127.0.0.1:1","upstream":{"baseUrl":"http://other:5000"}}`))
	require.NoError(t, err)
	assert.Equal(t, "https://plans.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
}

func TestDecodeIgnoresEnv(t *testing.T) {
	t.Setenv(EnvUpstreamURL, "https://plans.example.com")
	t.Setenv(EnvLogLevel, "debug")

	fileCfg, err := Decode([]byte(`{"upstream":{"baseUrl":"http://other:5000"}}`))
	require.NoError(t, err)
	assert.Equal(t, "http://other:5000", fileCfg.Upstream.BaseURL)
	assert.Equal(t, "info", fileCfg.Logging.Level)

	cfg, err := WithEnv(fileCfg)
	require.NoError(t, err)
	assert.Equal(t, "https://plans.example.com", cfg.Upstream.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "http://other:5000", fileCfg.Upstream.BaseURL)
}

func TestWithEnvRejectsBadOverride(t *testing.T) {
	t.Setenv(EnvUpstreamURL, "ftp://plans")
	_, err := WithEnv(Default())
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("STUDYPLAN_TEST_DOTENV=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("STUDYPLAN_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("STUDYPLAN_TEST_DOTENV"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "nope.env")))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Form.Validation = "goal"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "goal", got.Form.Validation)

	_, err = Load("")
	assert.Error(t, err)
}
