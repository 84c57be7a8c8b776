package graphtile

import "github.com/tilegraph/tilegraph-engine/internal/graphid"

// NodeTransition is the fixed 8-byte (1xu64) hierarchy-transition record: a
// link between the same physical location's representation at two
// hierarchy levels.
//
//	w0: endnode GraphId (low 46 bits) | upward:1 (bit 46) | spare
type NodeTransition struct {
	w0 uint64
}

const transitionUpwardBit = 46

// EndNode is the GraphId of the corresponding node at the other level.
func (t *NodeTransition) EndNode() graphid.GraphId {
	return graphid.New(t.w0 &^ (uint64(1) << transitionUpwardBit))
}

// Upward reports whether this transition moves to a coarser (upward)
// level: Upward() <=> EndNode().Level() < the current tile's level.
func (t *NodeTransition) Upward() bool {
	return t.w0&(uint64(1)<<transitionUpwardBit) != 0
}

// EncodeNodeTransition builds the raw bytes for one NodeTransition record.
func EncodeNodeTransition(endNode graphid.GraphId, upward bool) [transitionRecordSize]byte {
	w0 := endNode.RawBits() | boolBit(upward, transitionUpwardBit)
	var out [transitionRecordSize]byte
	putWords(out[:], w0)
	return out
}
