package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "explorer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "https://en.wikipedia.org/w/api.php", cfg.Wiki.BaseURL)
	assert.Equal(t, 500, cfg.Explorer.DefaultLimit)
	assert.Equal(t, "default", cfg.Explorer.DefaultPreference)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, config.Validate(cfg))
}

func TestLoader_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
version: v1
server:
  addr: ":9090"
explorer:
  default_limit: 25
  default_preference: random
wiki:
  max_link_pages: 2
`)
	l, err := config.NewLoader(path, nil)
	require.NoError(t, err)

	cfg := l.Config()
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 25, cfg.Explorer.DefaultLimit)
	assert.Equal(t, "random", cfg.Explorer.DefaultPreference)
	assert.Equal(t, 2, cfg.Wiki.MaxLinkPages)
	assert.Equal(t, 5.0, cfg.Wiki.RateLimit, "unset fields get defaults")
}

func TestLoader_NoFile(t *testing.T) {
	l, err := config.NewLoader("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server, l.Config().Server)

	_, err = l.Watch()
	assert.Error(t, err)
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv(config.EnvAddr, ":7070")
	t.Setenv(config.EnvLogLevel, "debug")
	t.Setenv(config.EnvDefaultLimit, "12")

	path := writeConfig(t, "version: v1\nserver:\n  addr: \":9090\"\n")
	l, err := config.NewLoader(path, nil)
	require.NoError(t, err)

	assert.Equal(t, ":7070", l.Config().Server.Addr)
	assert.Equal(t, "debug", l.Config().Log.Level)
	assert.Equal(t, 12, l.Config().Explorer.DefaultLimit)
}

func TestLoader_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":        "version: [",
		"bad preference":  "explorer:\n  default_preference: sideways\n",
		"bad threshold":   "wiki:\n  breaker:\n    failure_threshold: 2\n",
		"bad url":         "wiki:\n  base_url: \"not a url\"\n",
		"bad scheme":      "wiki:\n  base_url: \"ftp://example.org/api\"\n",
		"queue < workers": "explorer:\n  lookup_workers: 8\n  lookup_queue_depth: 2\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.NewLoader(writeConfig(t, body), nil)
			assert.Error(t, err)
		})
	}
}

func TestValidate_FieldPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Wiki.Breaker.FailureThreshold = 1.5
	cfg.Log.Level = "loud"

	err := config.Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wiki.breaker.failure_threshold must be <= 1")
	assert.Contains(t, err.Error(), "log.level must be one of: debug info warn error")
}

func TestLoader_ReloadCallbacks(t *testing.T) {
	path := writeConfig(t, "version: v1\n")
	l, err := config.NewLoader(path, nil)
	require.NoError(t, err)

	var got []*config.Config
	l.OnChange(func(c *config.Config) { got = append(got, c) })

	require.NoError(t, os.WriteFile(path, []byte("version: v2\nlog:\n  level: warn\n"), 0o644))
	cfg, err := l.Reload()
	require.NoError(t, err)
	assert.Equal(t, "v2", cfg.Version)
	require.Len(t, got, 1)
	assert.Equal(t, "warn", got[0].Log.Level)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644))
	_, err = l.Reload()
	require.Error(t, err)
	assert.Equal(t, "v2", l.Config().Version, "invalid reload keeps previous config")
	assert.Len(t, got, 1)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("EXPLORER_TEST_DOTENV=yes\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("EXPLORER_TEST_DOTENV") })

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env"), envPath))
	assert.Equal(t, "yes", os.Getenv("EXPLORER_TEST_DOTENV"))
}

func TestShippedConfigMatchesDefaults(t *testing.T) {
	l, err := config.NewLoader(filepath.Join("..", "..", "configs", "explorer.yaml"), nil)
	require.NoError(t, err)

	cfg, def := l.Config(), config.Default()
	assert.Equal(t, def.Wiki, cfg.Wiki)
	assert.Equal(t, def.Explorer, cfg.Explorer)
	assert.Equal(t, def.Log, cfg.Log)
	assert.Empty(t, cfg.Server.AllowedOrigins)
}

func TestLoader_AllowedOrigins(t *testing.T) {
	l, err := config.NewLoader(writeConfig(t, "version: v1\nserver:\n  allowed_origins: [\"https://a.example\", \"\"]\n"), nil)
	require.Error(t, err)
	assert.Nil(t, l)
	assert.Contains(t, err.Error(), "server.allowed_origins")
}
