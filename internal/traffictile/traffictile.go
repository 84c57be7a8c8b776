// Package traffictile implements the mutable, memory-mapped live-traffic
// overlay: a TrafficTileHeader followed by edge_count LiveTraffic records.
// Every read/write goes through sync/atomic on the mmap bytes directly, so
// concurrent writers touching disjoint edge indices never tear a record and
// a writer's last_update update is visible to any reader that loads it
// afterwards.
package traffictile

import (
	"sync/atomic"
	"unsafe"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
	"github.com/tilegraph/tilegraph-engine/internal/livetraffic"
	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
)

// HeaderSize is the fixed, 8-byte-aligned header preceding the LiveTraffic
// array: tile_id:8 + last_update:8 + spare:8 + edge_count:4 + reserved:4.
const HeaderSize = 32

const (
	offTileID     = 0
	offLastUpdate = 8
	offSpare      = 16
	offEdgeCount  = 24
)

// TrafficTile is a decoded, mutable view over one traffic tile blob.
type TrafficTile struct {
	data []byte // the whole blob: header + edge_count*8 bytes
}

// Decode validates a traffic tile blob and wraps it. data must outlive the
// returned TrafficTile and must be writable for Write* calls to have any
// effect (i.e. backed by a read-write mmap).
func Decode(data []byte) (*TrafficTile, error) {
	if len(data) < HeaderSize {
		return nil, tgerr.New(tgerr.ArchiveError, "traffic tile shorter than header")
	}
	t := &TrafficTile{data: data}
	need := HeaderSize + int(t.EdgeCount())*8
	if need > len(data) {
		return nil, tgerr.New(tgerr.ArchiveError, "traffic tile shorter than its declared edge array")
	}
	return t, nil
}

func (t *TrafficTile) word(off int) *uint64 {
	return (*uint64)(unsafe.Pointer(&t.data[off]))
}

// ID is the GraphId of the tile this traffic overlay belongs to.
func (t *TrafficTile) ID() graphid.GraphId {
	return graphid.New(atomic.LoadUint64(t.word(offTileID))).TileBase()
}

// LastUpdate is the unix-seconds timestamp of the most recent write,
// loaded with acquire semantics so a reader on another thread observes it
// consistently with the writer's release.
func (t *TrafficTile) LastUpdate() uint64 {
	return atomic.LoadUint64(t.word(offLastUpdate))
}

// Spare is an opaque user field untouched by ClearTraffic.
func (t *TrafficTile) Spare() uint64 {
	return atomic.LoadUint64(t.word(offSpare))
}

// EdgeCount is the number of LiveTraffic records following the header.
func (t *TrafficTile) EdgeCount() uint32 {
	return uint32(atomic.LoadUint64(t.word(offEdgeCount)) & 0xFFFFFFFF)
}

func (t *TrafficTile) edgeWord(i int) *uint64 {
	off := HeaderSize + i*8
	return t.word(off)
}

// EdgeTraffic returns the LiveTraffic record at edge index i, or
// (zero, false) if i is out of range.
func (t *TrafficTile) EdgeTraffic(i int) (livetraffic.LiveTraffic, bool) {
	if i < 0 || i >= int(t.EdgeCount()) {
		return livetraffic.LiveTraffic{}, false
	}
	return livetraffic.FromBits(atomic.LoadUint64(t.edgeWord(i))), true
}

// EdgeClosed reports whether edge index i is marked closed by this traffic
// overlay; false (not closed) for an edge with no traffic data at all - this
// accessor never errors, it just reports UNKNOWN as not-closed.
func (t *TrafficTile) EdgeClosed(i int) bool {
	rec, ok := t.EdgeTraffic(i)
	if !ok {
		return false
	}
	return rec.IsClosed()
}

// WriteLastUpdate stores ts with release semantics, observable to a
// subsequent reader without extra synchronization.
func (t *TrafficTile) WriteLastUpdate(ts uint64) {
	atomic.StoreUint64(t.word(offLastUpdate), ts)
}

// WriteSpare stores v into the user-defined spare field.
func (t *TrafficTile) WriteSpare(v uint64) {
	atomic.StoreUint64(t.word(offSpare), v)
}

// WriteEdgeTraffic atomically stores tr into edge index i. Concurrent
// writes to different indices never interleave; concurrent writes to the
// same index are last-writer-wins with no torn reads.
func (t *TrafficTile) WriteEdgeTraffic(i int, tr livetraffic.LiveTraffic) error {
	if i < 0 || i >= int(t.EdgeCount()) {
		return tgerr.New(tgerr.OutOfRange, "edge index out of range")
	}
	atomic.StoreUint64(t.edgeWord(i), tr.Bits())
	return nil
}

// ClearTraffic zeros every edge record and last_update, leaving spare
// untouched.
func (t *TrafficTile) ClearTraffic() {
	n := int(t.EdgeCount())
	for i := 0; i < n; i++ {
		atomic.StoreUint64(t.edgeWord(i), 0)
	}
	atomic.StoreUint64(t.word(offLastUpdate), 0)
}

// EncodeHeader writes a TrafficTileHeader; used by test fixtures when
// building a synthetic traffic archive.
func EncodeHeader(buf []byte, tileID graphid.GraphId, lastUpdate, spare uint64, edgeCount uint32) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&buf[offTileID])), tileID.RawBits())
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&buf[offLastUpdate])), lastUpdate)
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&buf[offSpare])), spare)
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&buf[offEdgeCount])), uint64(edgeCount))
}
