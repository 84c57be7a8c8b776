// Package graphid implements the 46-bit packed (level, tile, id) identifier
// used to address every node, edge, and transition in the tile graph.
package graphid

import (
	"fmt"

	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
)

const (
	levelBits = 3
	tileBits  = 22
	idBits    = 21

	levelMax = uint64(1)<<levelBits - 1 // 7
	tileMax  = uint64(1)<<tileBits - 1  // 2^22-1
	idMax    = uint64(1)<<idBits - 1    // 2^21-1

	levelShift = 0
	tileShift  = levelBits
	idShift    = levelBits + tileBits

	// payloadMask keeps only the low 46 bits: level(3) + tile(22) + id(21).
	payloadMask = uint64(1)<<(levelBits+tileBits+idBits) - 1
)

// Invalid is the all-ones 46-bit sentinel, and the zero value to use for an
// absent or not-yet-resolved GraphId. The zero GraphId{} is NOT valid on its
// own; use Invalid explicitly.
var Invalid = GraphId{bits: payloadMask}

// GraphId is a packed (level, tile, id) triple. The zero value is NOT a
// valid empty GraphId - use Invalid. Equality and hashing only consider the
// low 46 bits; callers may stash spare flags in the upper 18 bits of a raw
// word without breaking identity.
type GraphId struct {
	bits uint64
}

// New wraps a raw 64-bit word as a GraphId. The word is stored as given,
// upper 18 bits included: RawBits returns them, while Equal, Hash and
// IsValid ignore them.
func New(raw uint64) GraphId {
	return GraphId{bits: raw}
}

// Pack builds a GraphId from its components, validating ranges.
func Pack(level uint8, tile uint32, id uint32) (GraphId, error) {
	if uint64(level) > levelMax {
		return GraphId{}, tgerr.New(tgerr.OutOfRange, fmt.Sprintf("level %d exceeds max %d", level, levelMax))
	}
	if uint64(tile) > tileMax {
		return GraphId{}, tgerr.New(tgerr.OutOfRange, fmt.Sprintf("tile %d exceeds max %d", tile, tileMax))
	}
	if uint64(id) > idMax {
		return GraphId{}, tgerr.New(tgerr.OutOfRange, fmt.Sprintf("id %d exceeds max %d", id, idMax))
	}

	bits := uint64(level)<<levelShift | uint64(tile)<<tileShift | uint64(id)<<idShift
	return GraphId{bits: bits}, nil
}

// MustPack is Pack but panics on error; intended for test fixtures and
// constants, never for untrusted input.
func MustPack(level uint8, tile uint32, id uint32) GraphId {
	g, err := Pack(level, tile, id)
	if err != nil {
		panic(err)
	}
	return g
}

// RawBits returns the underlying 64-bit word, including any upper bits a
// producer may have set.
func (g GraphId) RawBits() uint64 { return g.bits }

// Level returns the hierarchy level (0 Highway, 1 Arterial, 2 Local, ...).
func (g GraphId) Level() uint8 {
	return uint8((g.bits >> levelShift) & levelMax)
}

// TileID returns the tile index within its level.
func (g GraphId) TileID() uint32 {
	return uint32((g.bits >> tileShift) & tileMax)
}

// ID returns the id field (node/edge/transition index within the tile).
func (g GraphId) ID() uint32 {
	return uint32((g.bits >> idShift) & idMax)
}

// TileBase returns a copy of g with the id field zeroed, i.e. the GraphId
// that identifies the tile itself rather than a record within it.
func (g GraphId) TileBase() GraphId {
	return GraphId{bits: g.bits &^ (idMax << idShift)}
}

// IsValid reports whether g is not the Invalid sentinel (comparing only the
// low 46 bits).
func (g GraphId) IsValid() bool {
	return g.bits&payloadMask != payloadMask
}

// Equal compares two GraphIds by their low 46 bits only.
func (g GraphId) Equal(o GraphId) bool {
	return g.bits&payloadMask == o.bits&payloadMask
}

// Hash returns a hash of the 46-bit payload, suitable for use as a map key
// component; GraphId itself is directly comparable and usable as a map key
// as long as producers never set the upper 18 bits, which New's callers
// inside this package never do.
func (g GraphId) Hash() uint64 {
	return g.bits & payloadMask
}

// String renders the stable textual form "level/tile/id".
func (g GraphId) String() string {
	return fmt.Sprintf("%d/%d/%d", g.Level(), g.TileID(), g.ID())
}
