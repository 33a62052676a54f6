package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdujava/texlab/internal/catalog"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	cfg, err := Load(map[string]any{
		"root":            "/project",
		"rescan_interval": "30s",
	})
	require.NoError(t, err)
	assert.Equal(t, "/project", cfg.Root)
	assert.Equal(t, defaultConfig.FileExtensions, cfg.FileExtensions)

	interval, err := cfg.Interval()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, interval)
}

func TestLoadNil(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromJSON(t *testing.T) {
	cfg, err := LoadFromJSON(strings.NewReader(`{"exclude_dirs": ["tmp"], "rescan_interval": ""}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"tmp"}, cfg.ExcludeDirs)
	assert.True(t, cfg.Excluded("tmp"))
	assert.False(t, cfg.Excluded(".git"))

	interval, err := cfg.Interval()
	require.NoError(t, err)
	assert.Zero(t, interval)

	_, err = LoadFromJSON(strings.NewReader(`{`))
	assert.Error(t, err)
}

func TestInvalidInterval(t *testing.T) {
	_, err := Config{RescanInterval: "soon"}.Interval()
	assert.Error(t, err)
}

func TestHasExtension(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.HasExtension("/a/main.tex"))
	assert.True(t, cfg.HasExtension("/a/REFS.BIB"))
	assert.False(t, cfg.HasExtension("/a/notes.md"))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, Config{Root: dir}.Validate())
	assert.ErrorIs(t, Config{Root: filepath.Join(dir, "missing")}.Validate(), ErrInvalidRoot)
}

func TestLoadCatalog(t *testing.T) {
	c, err := Default().LoadCatalog()
	require.NoError(t, err)
	assert.Same(t, catalog.Default(), c)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry_types:\n  - name: custom\n"), 0o644))
	c, err = Config{Catalog: path}.LoadCatalog()
	require.NoError(t, err)
	require.Len(t, c.EntryTypes, 1)
	assert.Equal(t, "custom", c.EntryTypes[0].Name)
}
