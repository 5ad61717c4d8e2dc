package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	d, err := cfg.RequestTimeout()
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, d)
}

func TestConfig_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Services.PublishBaseURL = "http://publisher.local"
	cfg.Generator.Backend = "mock"
	cfg.Publish.PlainText = false
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://publisher.local", loaded.Services.PublishBaseURL)
	assert.Equal(t, "mock", loaded.Generator.Backend)
	assert.False(t, loaded.Publish.PlainText)
}

func TestLoad_PartialJSONKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_addr":":9999","log":{"format":"console"}}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, Default().Services.GenerateURL, cfg.Services.GenerateURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LINKEDIN_SERVICES_API_KEY", "secret")
	t.Setenv("LINKEDIN_GENERATOR_BACKEND", "mock")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Services.APIKey)
	assert.Equal(t, "mock", cfg.Generator.Backend)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Generator.Backend = "bard" }},
		{"openai without key", func(c *Config) { c.Generator.Backend = "openai" }},
		{"deepseek without base url", func(c *Config) {
			c.Generator.Backend = "deepseek"
			c.Generator.LLM.APIKey = "k"
		}},
		{"bad timeout", func(c *Config) { c.Services.Timeout = "soon" }},
		{"missing publish url", func(c *Config) { c.Services.PublishBaseURL = "" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero upload size", func(c *Config) { c.Upload.MaxUploadMB = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
