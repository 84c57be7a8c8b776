package graphtile

import (
	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
	"github.com/tilegraph/tilegraph-engine/internal/wire"
)

const edgeInfoHeaderSize = 16 // way_id:8 + speed_limit:1 + reserved:3 + shape_len:4

// EdgeInfo is a decoded variable-length edge-info record: the OSM way id (0
// for a shortcut edge), the posted speed limit, and the edge's shape
// encoded as a polyline6 string.
type EdgeInfo struct {
	WayID      uint64
	SpeedLimit uint8 // 0 = unknown, 255 = no limit
	Shape      string
}

// EdgeInfo decodes the variable-length record referenced by e's embedded
// offset, scanning a length-prefixed byte stream rather than indexing a
// fixed stride since EdgeInfo records are not fixed size.
func (t *GraphTile) EdgeInfo(e *DirectedEdge) (EdgeInfo, error) {
	off := int(e.edgeInfoOffset())
	if off < 0 || off+edgeInfoHeaderSize > len(t.edgeInfo) {
		return EdgeInfo{}, tgerr.New(tgerr.OutOfRange, "edgeinfo offset out of range")
	}

	rec := t.edgeInfo[off:]
	wayID := wire.U64(rec[0:8])
	speedLimit := rec[8]
	shapeLen := int(wire.U32(rec[12:16]))

	shapeStart := off + edgeInfoHeaderSize
	shapeEnd := shapeStart + shapeLen
	if shapeEnd > len(t.edgeInfo) {
		return EdgeInfo{}, tgerr.New(tgerr.ArchiveError, "edgeinfo shape exceeds edgeinfo sub-array")
	}

	return EdgeInfo{
		WayID:      wayID,
		SpeedLimit: speedLimit,
		Shape:      string(t.edgeInfo[shapeStart:shapeEnd]),
	}, nil
}

// EncodeEdgeInfo appends one EdgeInfo record to buf and returns the new
// buffer along with the byte offset the record was written at (for storing
// into a DirectedEdge's edgeinfo_offset field). Used by test fixtures.
func EncodeEdgeInfo(buf []byte, wayID uint64, speedLimit uint8, shape string) (out []byte, offset uint32) {
	offset = uint32(len(buf))
	rec := make([]byte, edgeInfoHeaderSize+len(shape))
	wire.PutU64(rec[0:8], wayID)
	rec[8] = speedLimit
	wire.PutU32(rec[12:16], uint32(len(shape)))
	copy(rec[edgeInfoHeaderSize:], shape)
	return append(buf, rec...), offset
}
