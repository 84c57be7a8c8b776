// Package graphtile decodes one graph tile blob into zero-copy typed views
// over its fixed-stride sub-arrays, plus accessors for the variable-length
// EdgeInfo and AdminInfo records.
//
// A GraphTile never copies the tile bytes: Nodes/DirectedEdges/Transitions
// are unsafe.Slice views directly over the mmap (or in-memory buffer for
// tests) that produced it, so &tile.Nodes()[i] and tile.Node(i) are the
// same address.
package graphtile

import (
	"fmt"
	"unsafe"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
	"github.com/tilegraph/tilegraph-engine/internal/tilegrid"
)

func init() {
	if unsafe.Sizeof(NodeInfo{}) != nodeRecordSize {
		panic(fmt.Sprintf("NodeInfo size %d != wire stride %d", unsafe.Sizeof(NodeInfo{}), nodeRecordSize))
	}
	if unsafe.Sizeof(DirectedEdge{}) != edgeRecordSize {
		panic(fmt.Sprintf("DirectedEdge size %d != wire stride %d", unsafe.Sizeof(DirectedEdge{}), edgeRecordSize))
	}
	if unsafe.Sizeof(NodeTransition{}) != transitionRecordSize {
		panic(fmt.Sprintf("NodeTransition size %d != wire stride %d", unsafe.Sizeof(NodeTransition{}), transitionRecordSize))
	}
}

// GraphTile is a decoded view over one tile blob. It holds no copy of the
// underlying bytes: callers must keep the backing mmap (or buffer) alive for
// as long as the GraphTile or any slice/pointer obtained from it is in use.
type GraphTile struct {
	data []byte
	hdr  header

	nodes       []NodeInfo
	edges       []DirectedEdge
	transitions []NodeTransition
	edgeInfo    []byte
	admin       []adminRecord
}

// putWords writes n little-endian uint64 words contiguously into b.
func putWords(b []byte, words ...uint64) {
	for i, w := range words {
		off := i * 8
		if off+8 > len(b) {
			return
		}
		for j := 0; j < 8; j++ {
			b[off+j] = byte(w >> (8 * j))
		}
	}
}

// sliceOf reinterprets a byte range of b as a []T of the given record
// count. T must have no padding and its size must equal recordSize (both
// asserted at package init for the concrete types this package uses).
func sliceOf[T any](b []byte, start int, count int, recordSize int) []T {
	if count == 0 {
		return nil
	}
	end := start + count*recordSize
	if start < 0 || end > len(b) {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[start])), count)
}

// Decode validates a tile blob's header and builds zero-copy views over its
// sub-arrays. data must outlive the returned GraphTile.
func Decode(data []byte) (*GraphTile, error) {
	hdr, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	pos := headerSize
	nodesEnd := pos + int(hdr.nodeCount)*nodeRecordSize
	edgesEnd := nodesEnd + int(hdr.edgeCount)*edgeRecordSize
	transitionsEnd := edgesEnd + int(hdr.transitionCount)*transitionRecordSize
	edgeInfoEnd := transitionsEnd + int(hdr.edgeInfoSize)
	adminEnd := edgeInfoEnd + int(hdr.adminCount)*adminRecordSize

	if adminEnd > len(data) {
		return nil, tgerr.New(tgerr.ArchiveError, "tile blob shorter than its declared sub-arrays")
	}

	t := &GraphTile{
		data:        data,
		hdr:         hdr,
		nodes:       sliceOf[NodeInfo](data, pos, int(hdr.nodeCount), nodeRecordSize),
		edges:       sliceOf[DirectedEdge](data, nodesEnd, int(hdr.edgeCount), edgeRecordSize),
		transitions: sliceOf[NodeTransition](data, edgesEnd, int(hdr.transitionCount), transitionRecordSize),
		edgeInfo:    data[transitionsEnd:edgeInfoEnd],
		admin:       sliceOf[adminRecord](data, edgeInfoEnd, int(hdr.adminCount), adminRecordSize),
	}
	return t, nil
}

// ID is the GraphId of this tile itself (id field zeroed).
func (t *GraphTile) ID() graphid.GraphId { return graphid.New(t.hdr.tileID).TileBase() }

// DatasetID is the build id shared by every tile produced by one build.
func (t *GraphTile) DatasetID() uint64 { return t.hdr.datasetID }

// NodeCount is the number of NodeInfo records in this tile.
func (t *GraphTile) NodeCount() int { return len(t.nodes) }

// EdgeCount is the number of DirectedEdge records in this tile.
func (t *GraphTile) EdgeCount() int { return len(t.edges) }

// TransitionCount is the number of NodeTransition records in this tile.
func (t *GraphTile) TransitionCount() int { return len(t.transitions) }

// Nodes returns the zero-copy NodeInfo slice.
func (t *GraphTile) Nodes() []NodeInfo { return t.nodes }

// DirectedEdges returns the zero-copy DirectedEdge slice.
func (t *GraphTile) DirectedEdges() []DirectedEdge { return t.edges }

// Transitions returns the zero-copy NodeTransition slice.
func (t *GraphTile) Transitions() []NodeTransition { return t.transitions }

// Node returns a pointer to node i, or nil if i is out of range. Never panics.
func (t *GraphTile) Node(i int) *NodeInfo {
	if i < 0 || i >= len(t.nodes) {
		return nil
	}
	return &t.nodes[i]
}

// DirectedEdgeAt returns a pointer to edge i, or nil if i is out of range.
func (t *GraphTile) DirectedEdgeAt(i int) *DirectedEdge {
	if i < 0 || i >= len(t.edges) {
		return nil
	}
	return &t.edges[i]
}

// Transition returns a pointer to transition i, or nil if i is out of
// range.
func (t *GraphTile) Transition(i int) *NodeTransition {
	if i < 0 || i >= len(t.transitions) {
		return nil
	}
	return &t.transitions[i]
}

// ownsNode reports whether n aliases this tile's own Nodes() array, the
// check that backs the WrongTile error below.
func (t *GraphTile) ownsNode(n *NodeInfo) bool {
	if len(t.nodes) == 0 {
		return false
	}
	base := uintptr(unsafe.Pointer(&t.nodes[0]))
	p := uintptr(unsafe.Pointer(n))
	end := base + uintptr(len(t.nodes))*nodeRecordSize
	return p >= base && p < end && (p-base)%nodeRecordSize == 0
}

// NodeEdges returns the contiguous run of n's outbound DirectedEdges. It
// verifies n aliases this tile's own node array; a reference taken from
// another tile's Node() yields tgerr.WrongTile rather than silently
// returning garbage or another node's edges.
func (t *GraphTile) NodeEdges(n *NodeInfo) ([]DirectedEdge, error) {
	if !t.ownsNode(n) {
		return nil, tgerr.New(tgerr.WrongTile, "NodeInfo does not belong to this GraphTile")
	}
	start := int(n.EdgeIndex())
	count := int(n.EdgeCount())
	if start < 0 || start+count > len(t.edges) {
		return nil, tgerr.New(tgerr.OutOfRange, "node edge range exceeds tile edge array")
	}
	return t.edges[start : start+count], nil
}

// NodeTransitions returns the contiguous run of n's NodeTransitions, with
// the same WrongTile aliasing check as NodeEdges.
func (t *GraphTile) NodeTransitions(n *NodeInfo) ([]NodeTransition, error) {
	if !t.ownsNode(n) {
		return nil, tgerr.New(tgerr.WrongTile, "NodeInfo does not belong to this GraphTile")
	}
	start := int(n.TransitionIndex())
	count := int(n.TransitionCount())
	if start < 0 || start+count > len(t.transitions) {
		return nil, tgerr.New(tgerr.OutOfRange, "node transition range exceeds tile transition array")
	}
	return t.transitions[start : start+count], nil
}

// NodeLatLon decodes a node's coordinate to (lat, lon) degrees. The tile
// grid's own south-west corner (from tilegrid.BaseLatLon) is the coordinate
// origin; fixed-point units are 1e-6 degrees.
func (t *GraphTile) NodeLatLon(n *NodeInfo) (lat, lon float64) {
	latFixed, lonFixed := n.latLon()
	baseLat, baseLon := tilegrid.BaseLatLon(t.ID())
	return baseLat + float64(latFixed)*1e-6, baseLon + float64(lonFixed)*1e-6
}
