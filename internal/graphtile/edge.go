package graphtile

import "github.com/tilegraph/tilegraph-engine/internal/graphid"

// DirectedEdge is the fixed 48-byte (6xu64) directed edge record.
//
//	w0: endnode GraphId (raw bits)
//	w1: opp_index:32 | length_meters:32
//	w2: forwardaccess:12 | reverseaccess:12 | road_class:3 | use_type:6 |
//	    toll:1 | tunnel:1 | bridge:1 | roundabout:1 | destonly:1 |
//	    crosses_country_border:1 | is_shortcut:1 | leaves_tile:1
//	w3: edgeinfo_offset:32
//	w4: speed:8 | truck_speed:8 | free_flow_speed:8 | constrained_flow_speed:8
//	w5: reserved
type DirectedEdge struct {
	w0, w1, w2, w3, w4, w5 uint64
}

const (
	deOppIndexShift = 0
	deLengthShift   = 32

	deForwardAccessBits = 12
	deReverseAccessBits = 12
	deRoadClassBits     = 3
	deUseTypeBits       = 6

	deForwardAccessShift = 0
	deReverseAccessShift = deForwardAccessShift + deForwardAccessBits
	deRoadClassShift     = deReverseAccessShift + deReverseAccessBits
	deUseTypeShift       = deRoadClassShift + deRoadClassBits

	deTollBit         = deUseTypeShift + deUseTypeBits
	deTunnelBit       = deTollBit + 1
	deBridgeBit       = deTunnelBit + 1
	deRoundaboutBit   = deBridgeBit + 1
	deDestOnlyBit     = deRoundaboutBit + 1
	deCrossesBorder   = deDestOnlyBit + 1
	deIsShortcutBit   = deCrossesBorder + 1
	deLeavesTileBit   = deIsShortcutBit + 1

	deSpeedShift             = 0
	deTruckSpeedShift        = 8
	deFreeFlowSpeedShift     = 16
	deConstrainedSpeedShift  = 24
)

// EndNode is the GraphId of the node this edge terminates at.
func (e *DirectedEdge) EndNode() graphid.GraphId { return graphid.New(e.w0) }

// OppIndex is the index, within EndNode's edge list, of the reverse edge.
func (e *DirectedEdge) OppIndex() uint32 { return uint32((e.w1 >> deOppIndexShift) & mask(32)) }

// LengthMeters is the edge's length in meters.
func (e *DirectedEdge) LengthMeters() uint32 { return uint32((e.w1 >> deLengthShift) & mask(32)) }

// ForwardAccess is the 12-bit mode-accessibility mask in the edge's forward
// direction (same bit assignment as NodeInfo.AccessMask's low 12 bits).
func (e *DirectedEdge) ForwardAccess() uint16 {
	return uint16((e.w2 >> deForwardAccessShift) & mask(deForwardAccessBits))
}

// ReverseAccess is the 12-bit mode-accessibility mask in the reverse direction.
func (e *DirectedEdge) ReverseAccess() uint16 {
	return uint16((e.w2 >> deReverseAccessShift) & mask(deReverseAccessBits))
}

// RoadClass is a 3-bit functional road class (0=highest).
func (e *DirectedEdge) RoadClass() uint8 {
	return uint8((e.w2 >> deRoadClassShift) & mask(deRoadClassBits))
}

// UseType distinguishes e.g. road/ferry/path/driveway uses.
func (e *DirectedEdge) UseType() uint8 {
	return uint8((e.w2 >> deUseTypeShift) & mask(deUseTypeBits))
}

func (e *DirectedEdge) bit(shift uint) bool { return e.w2&(uint64(1)<<shift) != 0 }

// Toll reports whether traversing the edge incurs a toll.
func (e *DirectedEdge) Toll() bool { return e.bit(deTollBit) }

// Tunnel reports whether the edge is a tunnel.
func (e *DirectedEdge) Tunnel() bool { return e.bit(deTunnelBit) }

// Bridge reports whether the edge is a bridge.
func (e *DirectedEdge) Bridge() bool { return e.bit(deBridgeBit) }

// Roundabout reports whether the edge is part of a roundabout.
func (e *DirectedEdge) Roundabout() bool { return e.bit(deRoundaboutBit) }

// DestOnly reports whether the edge is destination-only (no through traffic).
func (e *DirectedEdge) DestOnly() bool { return e.bit(deDestOnlyBit) }

// CrossesCountryBorder reports whether the edge crosses a country border.
func (e *DirectedEdge) CrossesCountryBorder() bool { return e.bit(deCrossesBorder) }

// IsShortcut reports whether this is a synthetic shortcut edge (way_id=0).
func (e *DirectedEdge) IsShortcut() bool { return e.bit(deIsShortcutBit) }

// LeavesTile reports whether EndNode() lies in a different tile than the
// one this edge belongs to. Must equal tile_base(EndNode()) != current tile.
func (e *DirectedEdge) LeavesTile() bool { return e.bit(deLeavesTileBit) }

// edgeInfoOffset is the byte offset of this edge's EdgeInfo record within
// the tile's edgeinfo sub-array.
func (e *DirectedEdge) edgeInfoOffset() uint32 { return uint32(e.w3 & mask(32)) }

// DefaultSpeedKmh is the default (unconditional) speed.
func (e *DirectedEdge) DefaultSpeedKmh() uint8 { return uint8((e.w4 >> deSpeedShift) & mask(8)) }

// TruckSpeedKmh is the truck-specific speed.
func (e *DirectedEdge) TruckSpeedKmh() uint8 { return uint8((e.w4 >> deTruckSpeedShift) & mask(8)) }

// FreeFlowSpeedKmh is the typical night/off-peak speed.
func (e *DirectedEdge) FreeFlowSpeedKmh() uint8 {
	return uint8((e.w4 >> deFreeFlowSpeedShift) & mask(8))
}

// ConstrainedFlowSpeedKmh is the typical day/peak speed.
func (e *DirectedEdge) ConstrainedFlowSpeedKmh() uint8 {
	return uint8((e.w4 >> deConstrainedSpeedShift) & mask(8))
}

// EdgeFields is the unpacked form of a DirectedEdge record, consumed by
// EncodeDirectedEdge.
type EdgeFields struct {
	EndNode                                        graphid.GraphId
	OppIndex, LengthMeters, EdgeInfoOffset          uint32
	ForwardAccess, ReverseAccess                    uint16
	RoadClass, UseType                              uint8
	Toll, Tunnel, Bridge, Roundabout, DestOnly      bool
	CrossesCountryBorder, IsShortcut, LeavesTile    bool
	DefaultSpeedKmh, TruckSpeedKmh                  uint8
	FreeFlowSpeedKmh, ConstrainedFlowSpeedKmh       uint8
}

func boolBit(v bool, shift uint) uint64 {
	if v {
		return 1 << shift
	}
	return 0
}

// EncodeDirectedEdge packs EdgeFields into the 48-byte wire format; used by
// test fixtures and any future tile-writing tool.
func EncodeDirectedEdge(f EdgeFields) [edgeRecordSize]byte {
	w0 := f.EndNode.RawBits()
	w1 := uint64(f.OppIndex)<<deOppIndexShift | uint64(f.LengthMeters)<<deLengthShift
	w2 := uint64(f.ForwardAccess)<<deForwardAccessShift |
		uint64(f.ReverseAccess)<<deReverseAccessShift |
		uint64(f.RoadClass)<<deRoadClassShift |
		uint64(f.UseType)<<deUseTypeShift |
		boolBit(f.Toll, deTollBit) |
		boolBit(f.Tunnel, deTunnelBit) |
		boolBit(f.Bridge, deBridgeBit) |
		boolBit(f.Roundabout, deRoundaboutBit) |
		boolBit(f.DestOnly, deDestOnlyBit) |
		boolBit(f.CrossesCountryBorder, deCrossesBorder) |
		boolBit(f.IsShortcut, deIsShortcutBit) |
		boolBit(f.LeavesTile, deLeavesTileBit)
	w3 := uint64(f.EdgeInfoOffset) & mask(32)
	w4 := uint64(f.DefaultSpeedKmh)<<deSpeedShift |
		uint64(f.TruckSpeedKmh)<<deTruckSpeedShift |
		uint64(f.FreeFlowSpeedKmh)<<deFreeFlowSpeedShift |
		uint64(f.ConstrainedFlowSpeedKmh)<<deConstrainedSpeedShift

	var out [edgeRecordSize]byte
	putWords(out[:], w0, w1, w2, w3, w4, 0)
	return out
}
