package tilegrid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
)

func TestColsForLevel(t *testing.T) {
	require.Equal(t, 90, ColsForLevel(0))  // 360/4
	require.Equal(t, 360, ColsForLevel(1)) // 360/1
	require.Equal(t, 1440, ColsForLevel(2))
}

func TestRowColAndTileIndexRoundTrip(t *testing.T) {
	id, err := graphid.Pack(2, 838852, 0)
	require.NoError(t, err)

	row, col := RowCol(id)
	require.Equal(t, uint32(838852), TileIndex(2, row, col))
}

func TestBaseLatLonIsSouthWestCorner(t *testing.T) {
	id, err := graphid.Pack(0, 0, 0)
	require.NoError(t, err)
	lat, lon := BaseLatLon(id)
	require.Equal(t, -90.0, lat)
	require.Equal(t, -180.0, lon)
}

func TestBoundsMatchesTileSize(t *testing.T) {
	id, err := graphid.Pack(1, 0, 0)
	require.NoError(t, err)
	minLat, minLon, maxLat, maxLon := Bounds(id)
	require.Equal(t, 1.0, maxLat-minLat)
	require.Equal(t, 1.0, maxLon-minLon)
}

func TestTilesInBBoxSingleTile(t *testing.T) {
	tiles := TilesInBBox(0, 10, 10, 11, 11)
	require.Len(t, tiles, 1)
}

func TestTilesInBBoxEmptyOnInvertedRange(t *testing.T) {
	require.Nil(t, TilesInBBox(0, 10, 10, 5, 5))
}

func TestTilesInBBoxClampsToWorldEdges(t *testing.T) {
	tiles := TilesInBBox(0, -95, -185, -89, -179)
	require.NotEmpty(t, tiles)
	for _, id := range tiles {
		lat, lon, _, _ := Bounds(id)
		require.GreaterOrEqual(t, lat, -90.0)
		require.GreaterOrEqual(t, lon, -180.0)
	}
}

func TestTilesInBBoxCoversMultipleTiles(t *testing.T) {
	tiles := TilesInBBox(2, 42.0, 1.0, 42.6, 1.6)
	require.Greater(t, len(tiles), 1)
	for _, id := range tiles {
		require.Equal(t, uint8(2), id.Level())
		require.Equal(t, uint32(0), id.ID())
	}
}
