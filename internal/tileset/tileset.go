// Package tileset aggregates the graph and traffic tar mmaps into the one
// object consumers construct: tile enumeration, bbox listing, and GraphId
// lookup. One constructor does all the I/O; everything after is a pure
// accessor.
package tileset

import (
	"github.com/tilegraph/tilegraph-engine/internal/graphid"
	"github.com/tilegraph/tilegraph-engine/internal/graphtile"
	"github.com/tilegraph/tilegraph-engine/internal/livetraffic"
	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
	"github.com/tilegraph/tilegraph-engine/internal/tilegrid"
	"github.com/tilegraph/tilegraph-engine/internal/tiletar"
	"github.com/tilegraph/tilegraph-engine/internal/traffictile"
)

// Config names the two archive paths a Tileset is built from. TrafficExtract
// may be empty; a missing or malformed traffic archive is not fatal, it
// only makes TrafficTile return nil for every id.
type Config struct {
	TileExtract    string
	TrafficExtract string
}

// LatLng is a WGS84 coordinate in degrees.
type LatLng struct {
	Lat, Lon float64
}

// Tileset owns the graph and (optional) traffic tar mmaps.
type Tileset struct {
	graph     *tiletar.Archive
	traffic   *tiletar.Archive // nil if traffic archive absent/malformed
	datasetID uint64
}

// New opens the graph archive (required) and the traffic archive
// (optional, best-effort). It performs filesystem I/O and may block.
func New(cfg Config) (*Tileset, error) {
	if cfg.TileExtract == "" {
		return nil, tgerr.New(tgerr.ConfigError, "tile_extract path is required")
	}

	graph, err := tiletar.OpenGraph(cfg.TileExtract)
	if err != nil {
		return nil, err
	}

	ts := &Tileset{graph: graph}

	if cfg.TrafficExtract != "" {
		if traffic, terr := tiletar.OpenTraffic(cfg.TrafficExtract); terr == nil {
			// A traffic archive built from a different dataset than the
			// graph archive is as useless as a missing one: its edge
			// indices would not line up with this graph's edges.
			if traffic.Fingerprint() == graph.Fingerprint() {
				ts.traffic = traffic
			} else {
				traffic.Close()
			}
		}
	}

	if tiles := graph.Tiles(); len(tiles) > 0 {
		if blob, ok := graph.Lookup(tiles[0]); ok {
			if gt, derr := graphtile.Decode(blob); derr == nil {
				ts.datasetID = gt.DatasetID()
			}
		}
	}

	return ts, nil
}

// DatasetID is the build id shared by every tile in this Tileset's graph
// archive.
func (t *Tileset) DatasetID() uint64 { return t.datasetID }

// Tiles returns every tile id present in the graph archive, in archive
// order.
func (t *Tileset) Tiles() []graphid.GraphId { return t.graph.Tiles() }

// TilesInBBox returns every tile present in the archive at level whose
// coverage rectangle intersects [min,max]. Anti-meridian-crossing queries
// (min.Lon > max.Lon) are split into two axis-aligned queries and the
// results concatenated.
func (t *Tileset) TilesInBBox(min, max LatLng, level uint8) []graphid.GraphId {
	var candidates []graphid.GraphId
	if min.Lon <= max.Lon {
		candidates = tilegrid.TilesInBBox(level, min.Lat, min.Lon, max.Lat, max.Lon)
	} else {
		candidates = tilegrid.TilesInBBox(level, min.Lat, min.Lon, max.Lat, 180.0)
		candidates = append(candidates, tilegrid.TilesInBBox(level, min.Lat, -180.0, max.Lat, max.Lon)...)
	}

	var out []graphid.GraphId
	for _, id := range candidates {
		if _, ok := t.graph.Lookup(id); ok {
			out = append(out, id)
		}
	}
	return out
}

// GraphTileHandle is a decoded GraphTile plus the mmap reference that keeps
// its bytes alive independently of the Tileset that produced it.
type GraphTileHandle struct {
	*graphtile.GraphTile
	region *tiletar.Region
}

// Close releases this handle's reference to the underlying mmap. Safe to
// call after the owning Tileset has been closed.
func (h *GraphTileHandle) Close() error { return h.region.Release() }

// GraphTile decodes and returns the tile identified by id, or
// (nil, TileNotFound) if absent from the archive. The returned handle
// remains valid after this Tileset is closed.
func (t *Tileset) GraphTile(id graphid.GraphId) (*GraphTileHandle, error) {
	blob, ok := t.graph.Lookup(id)
	if !ok {
		return nil, tgerr.New(tgerr.TileNotFound, id.String())
	}

	gt, err := graphtile.Decode(blob)
	if err != nil {
		return nil, err
	}

	return &GraphTileHandle{GraphTile: gt, region: t.graph.AcquireRegion()}, nil
}

// TrafficTileHandle is a decoded TrafficTile plus the mmap reference that
// keeps its bytes alive independently of the Tileset that produced it.
type TrafficTileHandle struct {
	*traffictile.TrafficTile
	region *tiletar.Region
}

// Close releases this handle's reference to the underlying mmap.
func (h *TrafficTileHandle) Close() error { return h.region.Release() }

// TrafficTile decodes and returns the traffic overlay for id, or nil if the
// traffic archive is absent, malformed, or has no entry for id - never an
// error.
func (t *Tileset) TrafficTile(id graphid.GraphId) *TrafficTileHandle {
	if t.traffic == nil {
		return nil
	}
	blob, ok := t.traffic.Lookup(id)
	if !ok {
		return nil
	}
	tt, err := traffictile.Decode(blob)
	if err != nil {
		return nil
	}
	return &TrafficTileHandle{TrafficTile: tt, region: t.traffic.AcquireRegion()}
}

// EdgeLiveTraffic returns the live traffic record for the directed edge
// identified by id (level/tile locate the tile, the id field indexes the
// edge within it), or Unknown when no traffic overlay covers it.
func (t *Tileset) EdgeLiveTraffic(id graphid.GraphId) livetraffic.LiveTraffic {
	tt := t.TrafficTile(id)
	if tt == nil {
		return livetraffic.Unknown
	}
	defer tt.Close()

	rec, ok := tt.EdgeTraffic(int(id.ID()))
	if !ok {
		return livetraffic.Unknown
	}
	return rec
}

// EdgeClosed reports whether the edge identified by id is marked closed by
// the live-traffic overlay; false when no traffic data covers it.
func (t *Tileset) EdgeClosed(id graphid.GraphId) bool {
	return t.EdgeLiveTraffic(id).IsClosed()
}

// EdgeLiveSpeed returns the live speed for the edge identified by id:
// (0, false) with no traffic data, (0, true) when closed, and the even
// decoded km/h otherwise.
func (t *Tileset) EdgeLiveSpeed(id graphid.GraphId) (kmh uint32, ok bool) {
	return t.EdgeLiveTraffic(id).LiveSpeed()
}

// Close releases the Tileset's own references to its archives. Tile
// handles obtained from it that are still open keep their mmaps alive.
func (t *Tileset) Close() error {
	if err := t.graph.Close(); err != nil {
		return err
	}
	if t.traffic != nil {
		return t.traffic.Close()
	}
	return nil
}
