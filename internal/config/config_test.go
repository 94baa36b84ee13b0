package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Crawler.MaxDepth)
	assert.Equal(t, 50, cfg.Crawler.MaxLinksPerPage)
	assert.Equal(t, 2*time.Second, cfg.Crawler.SettleDelay)
	assert.Equal(t, 30*time.Second, cfg.Crawler.PageTimeout)
	assert.Equal(t, "claude", cfg.Oracle.Provider)
	assert.Empty(t, cfg.Oracle.Model)
	assert.Equal(t, 2.0, cfg.Oracle.RequestsPerSecond)
	assert.Equal(t, "rep_firm_data", cfg.Output.Dir)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repscout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
crawler:
  max_depth: 3
  settle_delay: 500ms
oracle:
  provider: openai
  requests_per_second: 0.5
output:
  dir: /tmp/scrapes
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Crawler.MaxDepth)
	assert.Equal(t, 500*time.Millisecond, cfg.Crawler.SettleDelay)
	assert.Equal(t, "openai", cfg.Oracle.Provider)
	assert.Equal(t, 0.5, cfg.Oracle.RequestsPerSecond)
	assert.Equal(t, "/tmp/scrapes", cfg.Output.Dir)

	// Keys the file omits keep their defaults.
	assert.Equal(t, 50, cfg.Crawler.MaxLinksPerPage)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REPSCOUT_ORACLE_PROVIDER", "openai")
	t.Setenv("REPSCOUT_CRAWLER_MAX_DEPTH", "4")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Oracle.Provider)
	assert.Equal(t, 4, cfg.Crawler.MaxDepth)
}
