package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodMac/go-treesitter-class-analyzer/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 10, cfg.MaxDepthLimit)
	assert.NotEmpty(t, cfg.SourceRoots)
	assert.Contains(t, cfg.FixtureMarkers, "fixtures")
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyzer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
max_depth_limit: 4
source_roots:
  - packages
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxDepthLimit)
	assert.Equal(t, []string{"packages"}, cfg.SourceRoots)
	// 未覆盖的字段保留缺省值
	assert.Equal(t, 500, cfg.MaxFiles)
}

func TestLoad_Missing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
