package tileset

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
	"github.com/tilegraph/tilegraph-engine/internal/graphtile"
	"github.com/tilegraph/tilegraph-engine/internal/livetraffic"
	"github.com/tilegraph/tilegraph-engine/internal/tiletar"
	"github.com/tilegraph/tilegraph-engine/internal/traffictile"
)

// writeTar writes a ustar archive with one member per (level, tile) -> blob.
func writeTar(t *testing.T, path string, members map[string][]byte) {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for name, data := range members {
		require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(data)), Mode: 0o600}))
		_, err := tw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

// minimalTileBlob builds a header-only tile (no nodes/edges/transitions/
// admins) with the given dataset id, enough for Tileset to decode.
func minimalTileBlob(datasetID uint64, tileID graphid.GraphId) []byte {
	buf := make([]byte, 64)
	graphtile.EncodeHeader(buf, datasetID, tileID, 0, 0, 0, 0, 0, 0)
	return buf
}

func andorraTileID(t *testing.T) graphid.GraphId {
	t.Helper()
	id, err := graphid.Pack(2, 838852, 0)
	require.NoError(t, err)
	return id
}

func TestNewReadsDatasetIDFromFirstTile(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")

	tileID := andorraTileID(t)
	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): minimalTileBlob(12953172102, tileID),
	})

	ts, err := New(Config{TileExtract: graphPath})
	require.NoError(t, err)
	defer ts.Close()

	require.Equal(t, uint64(12953172102), ts.DatasetID())
	require.Len(t, ts.Tiles(), 1)
}

func TestNewRequiresTileExtract(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestMissingTrafficArchiveIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")
	tileID := andorraTileID(t)
	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): minimalTileBlob(1, tileID),
	})

	ts, err := New(Config{
		TileExtract:    graphPath,
		TrafficExtract: filepath.Join(dir, "does-not-exist.tar"),
	})
	require.NoError(t, err)
	defer ts.Close()

	require.Nil(t, ts.TrafficTile(tileID))
}

func TestGraphTileHandleOutlivesTileset(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")
	tileID := andorraTileID(t)
	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): minimalTileBlob(1, tileID),
	})

	ts, err := New(Config{TileExtract: graphPath})
	require.NoError(t, err)

	handle, err := ts.GraphTile(tileID)
	require.NoError(t, err)

	require.NoError(t, ts.Close())

	require.Equal(t, tileID, handle.ID())
	require.NoError(t, handle.Close())
}

func TestGraphTileNotFound(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")
	tileID := andorraTileID(t)
	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): minimalTileBlob(1, tileID),
	})

	ts, err := New(Config{TileExtract: graphPath})
	require.NoError(t, err)
	defer ts.Close()

	other, err := graphid.Pack(2, 1, 0)
	require.NoError(t, err)

	_, err = ts.GraphTile(other)
	require.Error(t, err)
}

func TestTrafficTileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")
	trafficPath := filepath.Join(dir, "traffic.tar")
	tileID := andorraTileID(t)

	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): minimalTileBlob(1, tileID),
	})

	trafficBlob := make([]byte, traffictile.HeaderSize+2*8)
	traffictile.EncodeHeader(trafficBlob, tileID, 1000, 0, 2)
	writeTar(t, trafficPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): trafficBlob,
	})

	ts, err := New(Config{TileExtract: graphPath, TrafficExtract: trafficPath})
	require.NoError(t, err)
	defer ts.Close()

	tt := ts.TrafficTile(tileID)
	require.NotNil(t, tt)
	defer tt.Close()

	require.Equal(t, uint32(2), tt.EdgeCount())
}

func TestEdgeLiveSpeedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")
	trafficPath := filepath.Join(dir, "traffic.tar")
	tileID := andorraTileID(t)

	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): minimalTileBlob(1, tileID),
	})
	trafficBlob := make([]byte, traffictile.HeaderSize+2*8)
	traffictile.EncodeHeader(trafficBlob, tileID, 0, 0, 2)
	writeTar(t, trafficPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): trafficBlob,
	})

	ts, err := New(Config{TileExtract: graphPath, TrafficExtract: trafficPath})
	require.NoError(t, err)
	defer ts.Close()

	edge0, err := graphid.Pack(tileID.Level(), tileID.TileID(), 0)
	require.NoError(t, err)

	_, known := ts.EdgeLiveSpeed(edge0)
	require.False(t, known)
	require.False(t, ts.EdgeClosed(edge0))

	tt := ts.TrafficTile(tileID)
	require.NotNil(t, tt)
	defer tt.Close()

	require.NoError(t, tt.WriteEdgeTraffic(0, livetraffic.Closed))
	kmh, known := ts.EdgeLiveSpeed(edge0)
	require.True(t, known)
	require.Equal(t, uint32(0), kmh)
	require.True(t, ts.EdgeClosed(edge0))

	require.NoError(t, tt.WriteEdgeTraffic(0, livetraffic.FromUniformSpeed(72)))
	kmh, known = ts.EdgeLiveSpeed(edge0)
	require.True(t, known)
	require.Equal(t, uint32(72), kmh)

	require.NoError(t, tt.WriteEdgeTraffic(0, livetraffic.FromUniformSpeed(73)))
	kmh, known = ts.EdgeLiveSpeed(edge0)
	require.True(t, known)
	require.Equal(t, uint32(72), kmh)
}

func TestMismatchedTrafficArchiveIsTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")
	trafficPath := filepath.Join(dir, "traffic.tar")
	tileID := andorraTileID(t)

	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): minimalTileBlob(1, tileID),
	})

	otherID, err := graphid.Pack(2, 1, 0)
	require.NoError(t, err)
	trafficBlob := make([]byte, traffictile.HeaderSize+8)
	traffictile.EncodeHeader(trafficBlob, otherID, 1000, 0, 1)
	writeTar(t, trafficPath, map[string][]byte{
		tiletar.TileFilename(otherID.Level(), otherID.TileID()): trafficBlob,
	})

	ts, err := New(Config{TileExtract: graphPath, TrafficExtract: trafficPath})
	require.NoError(t, err)
	defer ts.Close()

	require.Nil(t, ts.TrafficTile(tileID))
}

func TestTilesInBBoxIsSubsetOfTiles(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")
	tileID := andorraTileID(t)
	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): minimalTileBlob(1, tileID),
	})

	ts, err := New(Config{TileExtract: graphPath})
	require.NoError(t, err)
	defer ts.Close()

	all := ts.Tiles()
	// Tile 838852 at level 2 covers (55.5, 13.0)-(55.75, 13.25).
	inBox := ts.TilesInBBox(LatLng{Lat: 55.5, Lon: 13.0}, LatLng{Lat: 55.7, Lon: 13.2}, 2)
	require.Contains(t, inBox, tileID)

	allSet := make(map[graphid.GraphId]bool, len(all))
	for _, id := range all {
		allSet[id.TileBase()] = true
	}
	for _, id := range inBox {
		require.Contains(t, allSet, id.TileBase())
	}
}

func TestTilesInBBoxWorldEqualsTilesAtLevel(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")
	tileID := andorraTileID(t)
	otherLevel, err := graphid.Pack(1, 7, 0)
	require.NoError(t, err)
	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()):       minimalTileBlob(1, tileID),
		tiletar.TileFilename(otherLevel.Level(), otherLevel.TileID()): minimalTileBlob(1, otherLevel),
	})

	ts, err := New(Config{TileExtract: graphPath})
	require.NoError(t, err)
	defer ts.Close()

	world := ts.TilesInBBox(LatLng{Lat: -90, Lon: -180}, LatLng{Lat: 90, Lon: 180}, 2)
	require.Equal(t, []graphid.GraphId{tileID}, world)
}

func TestTilesInBBoxSplitsAntiMeridian(t *testing.T) {
	dir := t.TempDir()
	graphPath := filepath.Join(dir, "tiles.tar")
	tileID := andorraTileID(t)
	writeTar(t, graphPath, map[string][]byte{
		tiletar.TileFilename(tileID.Level(), tileID.TileID()): minimalTileBlob(1, tileID),
	})

	ts, err := New(Config{TileExtract: graphPath})
	require.NoError(t, err)
	defer ts.Close()

	crossing := ts.TilesInBBox(LatLng{Lat: -1, Lon: 179}, LatLng{Lat: 1, Lon: -179}, 0)
	west := ts.TilesInBBox(LatLng{Lat: -1, Lon: 179}, LatLng{Lat: 1, Lon: 180}, 0)
	east := ts.TilesInBBox(LatLng{Lat: -1, Lon: -180}, LatLng{Lat: 1, Lon: -179}, 0)
	require.Equal(t, len(west)+len(east), len(crossing))
}
