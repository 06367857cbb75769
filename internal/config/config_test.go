package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WANDERER_CONFIG", "")
	t.Setenv("WANDERER_SEED", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 32, cfg.World.TileSize)
	assert.Equal(t, time.Minute, cfg.Autosave.Interval())
}

func TestLoadFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wanderer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
world:
  width: 12
  height: 9
  tile_size: 16
assets:
  color_key: "#00ff00"
autosave:
  interval_seconds: 0
tracing:
  endpoint: localhost:4318
`), 0644))

	t.Setenv("WANDERER_CONFIG", path)
	t.Setenv("WANDERER_SEED", "77")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.World.Width)
	assert.Equal(t, 9, cfg.World.Height)
	assert.Equal(t, 16, cfg.World.TileSize)
	assert.Equal(t, []string{"ground"}, cfg.World.Tiers, "unset keys keep defaults")
	assert.Equal(t, int64(77), cfg.World.Seed)
	assert.Zero(t, cfg.Autosave.Interval())
	assert.Equal(t, "localhost:4318", cfg.Tracing.Endpoint)
	assert.Equal(t, "wanderer", cfg.Tracing.Service)

	key, err := cfg.Assets.Key()
	require.NoError(t, err)
	assert.Equal(t, &color.RGBA{0, 0xff, 0, 0xff}, key)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  width: -1\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestColorKey(t *testing.T) {
	key, err := AssetsConfig{}.Key()
	require.NoError(t, err)
	assert.Nil(t, key)

	_, err = AssetsConfig{ColorKey: "#12"}.Key()
	assert.Error(t, err)
	_, err = AssetsConfig{ColorKey: "zzzzzz"}.Key()
	assert.Error(t, err)
}
