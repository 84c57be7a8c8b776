package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromJSONRequiresTileExtract(t *testing.T) {
	_, err := FromJSON([]byte(`{"mjolnir":{}}`))
	require.Error(t, err)
}

func TestFromJSONBothPaths(t *testing.T) {
	cfg, err := FromJSON([]byte(`{"mjolnir":{"tile_extract":"tiles.tar","traffic_extract":"traffic.tar"}}`))
	require.NoError(t, err)
	require.Equal(t, "tiles.tar", cfg.TileExtract)
	require.Equal(t, "traffic.tar", cfg.TrafficExtract)
}

func TestFromJSONYAML(t *testing.T) {
	cfg, err := FromJSON([]byte("mjolnir:\n  tile_extract: tiles.tar\n"))
	require.NoError(t, err)
	require.Equal(t, "tiles.tar", cfg.TileExtract)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "valhalla.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mjolnir":{"tile_extract":"tiles.tar"}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "tiles.tar", cfg.TileExtract)
}

func TestLoadExistingArchiveFallsBackToTilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiles.tar")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0xFF}, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.TileExtract)
}

func TestLoadBareTilePath(t *testing.T) {
	cfg, err := Load("/data/tiles.tar")
	require.NoError(t, err)
	require.Equal(t, "/data/tiles.tar", cfg.TileExtract)
	require.Empty(t, cfg.TrafficExtract)
}
