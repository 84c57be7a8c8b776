package graphtile

import (
	"github.com/tilegraph/tilegraph-engine/internal/graphid"
	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
	"github.com/tilegraph/tilegraph-engine/internal/wire"
)

// Fixed on-disk record strides. These sizes are the wire contract: every
// index accessor is base+index*stride, so the struct sizes below are
// asserted against them at package init rather than trusted blind.
const (
	nodeRecordSize       = 32
	edgeRecordSize       = 48
	transitionRecordSize = 8
	adminRecordSize      = 64
	headerSize           = 64
)

// header is the fixed 64-byte prefix of every tile blob.
type header struct {
	datasetID       uint64
	tileID          uint64
	nodeCount       uint32
	edgeCount       uint32
	transitionCount uint32
	adminCount      uint32
	edgeInfoSize    uint32
	signsSize       uint32
}

func decodeHeader(b []byte) (header, error) {
	if len(b) < headerSize {
		return header{}, tgerr.New(tgerr.ArchiveError, "tile blob shorter than header")
	}
	return header{
		datasetID:       wire.U64(b[0:8]),
		tileID:          wire.U64(b[8:16]),
		nodeCount:       wire.U32(b[16:20]),
		edgeCount:       wire.U32(b[20:24]),
		transitionCount: wire.U32(b[24:28]),
		adminCount:      wire.U32(b[28:32]),
		edgeInfoSize:    wire.U32(b[32:36]),
		signsSize:       wire.U32(b[36:40]),
	}, nil
}

// EncodeHeader writes a tile header, for use by test fixtures that build a
// synthetic tile blob in-memory (no real tile builder lives in this repo).
func EncodeHeader(b []byte, datasetID uint64, tileID graphid.GraphId, nodeCount, edgeCount, transitionCount, adminCount, edgeInfoSize, signsSize uint32) {
	wire.PutU64(b[0:8], datasetID)
	wire.PutU64(b[8:16], tileID.RawBits())
	wire.PutU32(b[16:20], nodeCount)
	wire.PutU32(b[20:24], edgeCount)
	wire.PutU32(b[24:28], transitionCount)
	wire.PutU32(b[28:32], adminCount)
	wire.PutU32(b[32:36], edgeInfoSize)
	wire.PutU32(b[36:40], signsSize)
}
