package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears every variable Load reads so the host environment cannot leak in
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_ADDRESS", "ENVIRONMENT", "LOG_LEVEL", "AWS_LAMBDA_FUNCTION_NAME", "IS_LAMBDA",
		"CONTENT_API_BASE_URL", "CONTENT_API_TIMEOUT", "CACHE_TTL", "STORAGE_BASE_URL", "PLACEHOLDER_IMAGE",
		"BIOGRAPHY_ROUTE", "CHART_PAGE_SIZE", "CHART_MAX_DEPTH", "RATE_LIMIT_RPS", "CORS_ORIGINS",
		"ENABLE_METRICS", "ENABLE_TRACING", "ENABLE_CORS",
	} {
		t.Setenv(key, "")
	}
	return t.TempDir()
}

func TestLoad_Defaults(t *testing.T) {
	// Arrange
	dir := isolate(t)

	// Act
	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 30*time.Second, cfg.ContentAPITimeout)
	assert.Equal(t, 10, cfg.ChartPageSize)
	assert.Equal(t, 5, cfg.ChartMaxDepth)
	assert.False(t, cfg.IsLambda)
	assert.Equal(t, []string{"defaults", "environment"}, cfg.LoadedFrom)
}

func TestLoad_Precedence(t *testing.T) {
	// Arrange
	dir := isolate(t)
	yamlPath := filepath.Join(dir, "lineage.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
content_api_base_url: https://yaml.example.com/api
storage_base_url: https://storage.example.com
chart_page_size: 20
chart_max_depth: 3
content_api_timeout: 10s
cors_origins:
  - https://a.example.com
`), 0o600))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("CHART_PAGE_SIZE=15\nLOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("CHART_PAGE_SIZE")
		os.Unsetenv("LOG_LEVEL")
	})
	os.Unsetenv("CHART_PAGE_SIZE")
	os.Unsetenv("LOG_LEVEL")

	t.Setenv("CHART_MAX_DEPTH", "7")

	// Act
	cfg, err := Load(LoadOptions{ConfigFile: yamlPath, EnvFile: envPath})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://yaml.example.com/api", cfg.ContentAPIBaseURL)
	assert.Equal(t, "https://storage.example.com", cfg.StorageBaseURL)
	assert.Equal(t, 10*time.Second, cfg.ContentAPITimeout)
	assert.Equal(t, []string{"https://a.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 15, cfg.ChartPageSize, ".env overrides YAML")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 7, cfg.ChartMaxDepth, "environment overrides YAML")
	assert.Equal(t, []string{"defaults", yamlPath, envPath, "environment"}, cfg.LoadedFrom)
}

func TestLoad_EnvironmentParsing(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CONTENT_API_TIMEOUT", "45")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test,")
	t.Setenv("ENABLE_TRACING", "yes")
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "lineage-api")

	cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "none.env")})

	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.ContentAPITimeout)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins)
	assert.True(t, cfg.EnableTracing)
	assert.True(t, cfg.IsLambda)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{name: "bad url", key: "CONTENT_API_BASE_URL", value: "not a url", field: "ContentAPIBaseURL"},
		{name: "page size", key: "CHART_PAGE_SIZE", value: "0", field: "ChartPageSize"},
		{name: "negative depth", key: "CHART_MAX_DEPTH", value: "-1", field: "ChartMaxDepth"},
		{name: "route without id", key: "BIOGRAPHY_ROUTE", value: "/awlyaa", field: "BiographyRoute"},
		{name: "environment", key: "ENVIRONMENT", value: "moon", field: "Environment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "none.env")})

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(LoadOptions{ConfigFile: filepath.Join(dir, "nope.yaml"), EnvFile: filepath.Join(dir, "none.env")})

	assert.Error(t, err)
}

func TestConfig_ChartConfig(t *testing.T) {
	cfg := Default()
	cfg.ChartPageSize = 4
	cfg.ChartMaxDepth = 2

	chart := cfg.ChartConfig()

	assert.Equal(t, 4, chart.PageSize)
	assert.Equal(t, 2, chart.MaxDepth)
	assert.NoError(t, chart.Validate())
}
