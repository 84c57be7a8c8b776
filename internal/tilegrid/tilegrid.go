// Package tilegrid implements the fixed world tiling scheme shared by tile
// lookup and per-node coordinate decoding: each hierarchy level has a fixed
// tile side in degrees, and tile (row, col) encodes to a GraphId's tile
// field as row*colsPerLevel+col.
package tilegrid

import (
	"math"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
)

// TileSizeDegrees is the side length, in degrees, of one tile at each
// hierarchy level: coarser (lower-numbered) levels use bigger tiles.
var TileSizeDegrees = [3]float64{4.0, 1.0, 0.25}

const (
	minLat = -90.0
	minLon = -180.0
	maxLat = 90.0
	maxLon = 180.0
)

// ColsForLevel is the number of tile columns spanning the full longitude
// range at the given level.
func ColsForLevel(level uint8) int {
	size := TileSizeDegrees[level]
	return int(math.Round((maxLon - minLon) / size))
}

func rowsForLevel(level uint8) int {
	size := TileSizeDegrees[level]
	return int(math.Round((maxLat - minLat) / size))
}

// RowCol decomposes a GraphId's tile field into (row, col) at its level.
func RowCol(id graphid.GraphId) (row, col int) {
	cols := ColsForLevel(id.Level())
	t := int(id.TileID())
	return t / cols, t % cols
}

// TileIndex encodes (row, col) at level into the GraphId tile field.
func TileIndex(level uint8, row, col int) uint32 {
	cols := ColsForLevel(level)
	return uint32(row*cols + col)
}

// BaseLatLon returns the south-west corner of the tile identified by id,
// the coordinate origin that per-node fixed-point offsets are relative to.
func BaseLatLon(id graphid.GraphId) (lat, lon float64) {
	size := TileSizeDegrees[id.Level()]
	row, col := RowCol(id)
	return minLat + float64(row)*size, minLon + float64(col)*size
}

// Bounds returns the tile's axis-aligned coverage rectangle as
// (minLat, minLon, maxLat, maxLon).
func Bounds(id graphid.GraphId) (minLatOut, minLonOut, maxLatOut, maxLonOut float64) {
	size := TileSizeDegrees[id.Level()]
	lat, lon := BaseLatLon(id)
	return lat, lon, lat + size, lon + size
}

// TilesInBBox returns every tile id at level whose coverage rectangle
// intersects [minLat,maxLat]x[minLon,maxLon]. The caller is expected to
// split anti-meridian-crossing queries (minLon > maxLon) into two calls.
func TilesInBBox(level uint8, minLatQ, minLonQ, maxLatQ, maxLonQ float64) []graphid.GraphId {
	size := TileSizeDegrees[level]
	cols := ColsForLevel(level)
	rows := rowsForLevel(level)

	if minLatQ > maxLatQ || minLonQ > maxLonQ {
		return nil
	}

	rowStart := int(math.Floor((minLatQ - minLat) / size))
	rowEnd := int(math.Floor((maxLatQ - minLat) / size))
	colStart := int(math.Floor((minLonQ - minLon) / size))
	colEnd := int(math.Floor((maxLonQ - minLon) / size))

	rowStart = clamp(rowStart, 0, rows-1)
	rowEnd = clamp(rowEnd, 0, rows-1)
	colStart = clamp(colStart, 0, cols-1)
	colEnd = clamp(colEnd, 0, cols-1)

	var out []graphid.GraphId
	for r := rowStart; r <= rowEnd; r++ {
		for c := colStart; c <= colEnd; c++ {
			tileIdx := uint32(r*cols + c)
			id, err := graphid.Pack(level, tileIdx, 0)
			if err != nil {
				continue
			}
			out = append(out, id.TileBase())
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
