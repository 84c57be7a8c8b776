package tiletar

import (
	"archive/tar"
	"bytes"
	"encoding/binary"
	"io"
	"sort"

	"github.com/cespare/xxhash"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
)

type memberRange struct {
	start, size int
}

// Archive is an immutable index (built once at open) over a tar file of
// fixed tile blobs, backed by a reference-counted memory mapping.
type Archive struct {
	region      *Region
	offsets     map[graphid.GraphId]memberRange
	order       []graphid.GraphId // archive order, for Tiles()
	fingerprint uint64            // xxhash over the sorted tile id set
}

// OpenGraph memory-maps a graph tile archive read-only.
func OpenGraph(path string) (*Archive, error) {
	return open(path, false)
}

// OpenTraffic memory-maps a traffic tile archive read-write.
func OpenTraffic(path string) (*Archive, error) {
	return open(path, true)
}

func open(path string, writable bool) (*Archive, error) {
	region, err := mapFile(path, writable)
	if err != nil {
		return nil, err
	}

	offsets, order, err := indexTar(region.Bytes())
	if err != nil {
		region.Release()
		return nil, err
	}

	return &Archive{region: region, offsets: offsets, order: order, fingerprint: tileSetFingerprint(order)}, nil
}

// tileSetFingerprint hashes a tile id set sorted independently of archive
// order, independent of tile content, so two archives covering the same
// build can be compared cheaply regardless of member order.
func tileSetFingerprint(order []graphid.GraphId) uint64 {
	sorted := make([]graphid.GraphId, len(order))
	copy(sorted, order)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RawBits() < sorted[j].RawBits() })

	h := xxhash.New()
	var buf [8]byte
	for _, id := range sorted {
		binary.LittleEndian.PutUint64(buf[:], id.TileBase().RawBits())
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Fingerprint identifies the set of tile ids this archive covers,
// independent of tile content. Two archives built from the same dataset
// have equal fingerprints; this lets a Tileset notice a traffic archive
// that was mmapped on top of a mismatched graph build.
func (a *Archive) Fingerprint() uint64 { return a.fingerprint }

// indexTar walks a ustar byte stream, computing the byte range of each
// member's payload within data without copying it. archive/tar.Reader is
// used to validate headers and decode names/sizes (BadFormat detection);
// byte offsets are tracked alongside it by replaying the fixed 512-byte
// block arithmetic, since the tar package does not expose stream position.
func indexTar(data []byte) (map[graphid.GraphId]memberRange, []graphid.GraphId, error) {
	br := bytes.NewReader(data)
	tr := tar.NewReader(br)

	offsets := make(map[graphid.GraphId]memberRange)
	var order []graphid.GraphId

	var pos int64
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, tgerr.Wrap(tgerr.ArchiveError, "malformed tar header", err)
		}

		dataStart := pos + 512
		size := hdr.Size
		if dataStart < 0 || size < 0 || dataStart+size > int64(len(data)) {
			return nil, nil, tgerr.New(tgerr.ArchiveError, "tar member exceeds archive bounds")
		}

		level, tile, ok := ParseTileFilename(hdr.Name)
		if ok {
			id := tileKey(level, tile)
			offsets[id] = memberRange{start: int(dataStart), size: int(size)}
			order = append(order, id)
		}

		padded := (size + 511) &^ 511
		pos = dataStart + padded
	}

	if len(offsets) == 0 {
		return nil, nil, tgerr.New(tgerr.ArchiveError, "archive contains no tile members")
	}

	return offsets, order, nil
}

// Lookup returns the byte range for id's tile, or ok=false if absent.
func (a *Archive) Lookup(id graphid.GraphId) (data []byte, ok bool) {
	r, found := a.offsets[id.TileBase()]
	if !found {
		return nil, false
	}
	return a.region.Bytes()[r.start : r.start+r.size], true
}

// Tiles returns every tile id present, in archive order.
func (a *Archive) Tiles() []graphid.GraphId {
	out := make([]graphid.GraphId, len(a.order))
	copy(out, a.order)
	return out
}

// AcquireRegion increments the mapping's refcount for a tile handle that
// must outlive this Archive.
func (a *Archive) AcquireRegion() *Region {
	return a.region.Acquire()
}

// Close releases the Archive's own reference to the mapping. Tile handles
// that called AcquireRegion keep the mapping alive until they Release too.
func (a *Archive) Close() error {
	return a.region.Release()
}
