// Package livetraffic implements the 64-bit per-edge live-traffic record:
// an overall speed, three sub-segment speeds, two breakpoints, and a small
// flag block, per the bit layout in the design's LiveTraffic section.
package livetraffic

const (
	overallShift = 0
	sub1Shift    = 7
	sub2Shift    = 14
	sub3Shift    = 21
	bp1Shift     = 28
	bp2Shift     = 36

	speedBits = 7
	speedMask = uint64(1)<<speedBits - 1 // 0-127, encoded speed = km/h/2

	bpBits = 8
	bpMask = uint64(1)<<bpBits - 1 // 0-255

	// flag bits live at 44-63; only a few are defined, the rest reserved.
	flagClosedBit     = 44
	flagCongestedBit  = 45
	flagIncidentBit   = 46
)

// LiveTraffic is the 64-bit packed traffic record for one directed edge.
type LiveTraffic struct {
	bits uint64
}

// Unknown is the canonical "no data" sentinel: all bits zero.
var Unknown = LiveTraffic{}

// Closed is the canonical "edge closed" sentinel: breakpoint1=255,
// overall_encoded_speed=0 (the flag bit is also set for fast checks, but the
// breakpoint/speed combination is the wire-authoritative test per the
// design).
var Closed = LiveTraffic{bits: bpMask<<bp1Shift | uint64(1)<<flagClosedBit}

// FromBits wraps a raw 64-bit word as a LiveTraffic record.
func FromBits(raw uint64) LiveTraffic { return LiveTraffic{bits: raw} }

// Bits returns the raw 64-bit word, e.g. for writing into a traffic tile.
func (t LiveTraffic) Bits() uint64 { return t.bits }

func encodeSpeed(kmh uint32) uint64 {
	enc := kmh / 2
	if enc > uint32(speedMask) {
		enc = uint32(speedMask)
	}
	return uint64(enc)
}

func decodeSpeed(bits uint64, shift uint) uint32 {
	return uint32((bits>>shift)&speedMask) * 2
}

// FromUniformSpeed builds a LiveTraffic record reporting the same speed for
// the overall edge and all three sub-segments, no breakpoints, not closed.
// The encoding only carries even km/h values (speed/2 is stored in 7 bits),
// so FromUniformSpeed(73) round-trips to 72.
func FromUniformSpeed(kmh uint32) LiveTraffic {
	enc := encodeSpeed(kmh)
	bits := enc<<overallShift | enc<<sub1Shift | enc<<sub2Shift | enc<<sub3Shift
	return LiveTraffic{bits: bits}
}

// NewSegmented builds a LiveTraffic record with distinct overall/sub-segment
// speeds and breakpoint positions (0-255 along the edge).
func NewSegmented(overallKmh, sub1Kmh, sub2Kmh, sub3Kmh uint32, breakpoint1, breakpoint2 uint8) LiveTraffic {
	bits := encodeSpeed(overallKmh)<<overallShift |
		encodeSpeed(sub1Kmh)<<sub1Shift |
		encodeSpeed(sub2Kmh)<<sub2Shift |
		encodeSpeed(sub3Kmh)<<sub3Shift |
		uint64(breakpoint1)<<bp1Shift |
		uint64(breakpoint2)<<bp2Shift
	return LiveTraffic{bits: bits}
}

// IsUnknown reports whether t carries no traffic data.
func (t LiveTraffic) IsUnknown() bool { return t.bits == 0 }

// IsClosed reports whether t marks the edge as closed: breakpoint1=255 and
// overall encoded speed=0.
func (t LiveTraffic) IsClosed() bool {
	overall := (t.bits >> overallShift) & speedMask
	bp1 := (t.bits >> bp1Shift) & bpMask
	return overall == 0 && bp1 == bpMask
}

// OverallSpeedKmh returns the overall encoded speed, decoded to km/h.
func (t LiveTraffic) OverallSpeedKmh() uint32 { return decodeSpeed(t.bits, overallShift) }

// SubSegmentSpeedKmh returns one of the three sub-segment speeds (n in 1..3).
func (t LiveTraffic) SubSegmentSpeedKmh(n int) uint32 {
	switch n {
	case 1:
		return decodeSpeed(t.bits, sub1Shift)
	case 2:
		return decodeSpeed(t.bits, sub2Shift)
	case 3:
		return decodeSpeed(t.bits, sub3Shift)
	default:
		return 0
	}
}

// Breakpoint1 returns the first breakpoint position (0-255 along the edge).
func (t LiveTraffic) Breakpoint1() uint8 { return uint8((t.bits >> bp1Shift) & bpMask) }

// Breakpoint2 returns the second breakpoint position (0-255 along the edge).
func (t LiveTraffic) Breakpoint2() uint8 { return uint8((t.bits >> bp2Shift) & bpMask) }

// Congested reports whether the congestion flag bit is set.
func (t LiveTraffic) Congested() bool { return t.bits&(uint64(1)<<flagCongestedBit) != 0 }

// Incident reports whether the incident flag bit is set.
func (t LiveTraffic) Incident() bool { return t.bits&(uint64(1)<<flagIncidentBit) != 0 }

// LiveSpeed returns the live overall speed, or (0, false) when unknown. A
// closed edge reports (0, true): the caller must use IsClosed to
// distinguish "no data" from "known to be zero".
func (t LiveTraffic) LiveSpeed() (kmh uint32, ok bool) {
	if t.IsUnknown() {
		return 0, false
	}
	if t.IsClosed() {
		return 0, true
	}
	return t.OverallSpeedKmh(), true
}
