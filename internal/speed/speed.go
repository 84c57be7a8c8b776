// Package speed resolves the single "current best" speed for a directed
// edge by combining the edge's static speeds with live and historical
// overlays. EdgeSpeed is a pure function of its arguments: no global clock,
// no tileset access - callers thread second_of_week and seconds_from_now
// through explicitly.
package speed

import "github.com/tilegraph/tilegraph-engine/internal/graphtile"

// SourceMask is a bitmask over the speed sources a caller allows EdgeSpeed
// to consult, and the set it reports as having actually contributed.
type SourceMask uint8

const (
	SourceCurrentFlow SourceMask = 1 << iota
	SourcePredictedFlow
	SourceConstrainedFlow
	SourceFreeFlowSpeed
	SourceTruckSpeed
	SourceDefaultSpeed
)

// BucketSeconds is the width of one predicted-speed bucket: 5 minutes.
// 604800 seconds/week / 300 = 2016 buckets, matching the out-of-scope DCT
// codec's 2016-bucket weekly array.
const BucketSeconds = 300

// BucketsPerWeek is the number of predicted-speed buckets in one week.
const BucketsPerWeek = 7 * 24 * 3600 / BucketSeconds

// PredictedSpeeds holds one week of decoded historical-speed buckets (the
// output of the out-of-scope DCT codec, already decoded to km/h). Absent
// buckets are represented by ok=false from At.
type PredictedSpeeds struct {
	// KmhPlusOne stores speed+1 so the zero value means "no coverage";
	// index i holds the speed for BucketForSecondOfWeek(i*BucketSeconds).
	KmhPlusOne [BucketsPerWeek]uint8
}

// BucketForSecondOfWeek rounds secondOfWeek down to the enclosing 5-minute
// bucket index. When a query straddles a bucket boundary, the engine always
// rounds down rather than interpolating or rounding to nearest.
func BucketForSecondOfWeek(secondOfWeek uint32) int {
	sw := int(secondOfWeek) % (BucketsPerWeek * BucketSeconds)
	return sw / BucketSeconds
}

// At returns the decoded speed for bucket, or (0, false) if that bucket has
// no historical coverage.
func (p *PredictedSpeeds) At(bucket int) (kmh uint8, ok bool) {
	if p == nil || bucket < 0 || bucket >= BucketsPerWeek {
		return 0, false
	}
	v := p.KmhPlusOne[bucket]
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

// Live is the subset of a LiveTraffic record EdgeSpeed needs: the decoded
// overall speed, plus whether a reading exists at all and whether the edge
// is reported closed. Decoupled from the livetraffic package's concrete
// type so tests can construct fixtures without a traffic tile.
type Live struct {
	Known    bool
	Closed   bool
	SpeedKmh uint32
}

const (
	dayStartSecond = 7 * 3600  // 07:00 local
	dayEndSecond   = 19 * 3600 // 19:00 local
	secondsPerDay  = 24 * 3600

	// liveDecayWindowSeconds is how long a live reading is trusted before
	// it is fully faded out in favor of the baseline flow speed.
	liveDecayWindowSeconds = 900
)

// EdgeSpeed combines e's static speeds with an optional live reading and an
// optional predicted-speed table into one final speed and a report of which
// sources contributed. The reported mask only ever contains requested flow
// sources plus the truck/default base speeds, which are always available as
// the final fallback.
//
// The returned speed is never zero, even for a closed edge: callers detect
// closure via live.Closed (or the traffictile/tileset EdgeClosed checks),
// not by inspecting the returned speed.
func EdgeSpeed(e *graphtile.DirectedEdge, live Live, predicted *PredictedSpeeds, sourcesMask SourceMask, isTruck bool, secondOfWeek, secondsFromNow uint32) (kmh uint32, used SourceMask) {
	baseline, baselineSrc := timeOfDaySpeed(e, isTruck, secondOfWeek, sourcesMask)

	if sourcesMask&SourceCurrentFlow != 0 && live.Known && !live.Closed && live.SpeedKmh > 0 {
		if weight := liveWeight(secondsFromNow); weight > 0 {
			blended := uint32(float64(live.SpeedKmh)*weight + float64(baseline)*(1-weight))
			if blended == 0 {
				blended = uint32(baseline)
			}
			used = SourceCurrentFlow
			if weight < 1 {
				used |= baselineSrc
			}
			return blended, used
		}
	}

	if sourcesMask&SourcePredictedFlow != 0 && predicted != nil {
		bucket := BucketForSecondOfWeek(secondOfWeek)
		if v, ok := predicted.At(bucket); ok && v > 0 {
			return uint32(v), SourcePredictedFlow
		}
	}

	return uint32(baseline), baselineSrc
}

// liveWeight returns how much a live reading is trusted, decaying linearly
// from 1.0 at age 0 to 0.0 at liveDecayWindowSeconds and beyond.
func liveWeight(secondsFromNow uint32) float64 {
	if secondsFromNow >= liveDecayWindowSeconds {
		return 0
	}
	return 1 - float64(secondsFromNow)/float64(liveDecayWindowSeconds)
}

// timeOfDaySpeed implements the day/night-by-time-of-day rule with the
// truck/default fallback chain, guaranteeing a non-zero result as long as
// the edge carries any static speed at all. Picks
// constrained_flow_speed during 07:00-19:00 local and free_flow_speed
// otherwise (each only when its source was requested in sourcesMask),
// falling back through truck_speed (if isTruck) and speed when the
// time-of-day candidate is itself unset (0 = unknown) or not requested.
func timeOfDaySpeed(e *graphtile.DirectedEdge, isTruck bool, secondOfWeek uint32, sourcesMask SourceMask) (uint8, SourceMask) {
	timeOfDay := secondOfWeek % secondsPerDay

	var candidate uint8
	var src SourceMask
	if timeOfDay >= dayStartSecond && timeOfDay < dayEndSecond {
		if sourcesMask&SourceConstrainedFlow != 0 {
			candidate, src = e.ConstrainedFlowSpeedKmh(), SourceConstrainedFlow
		}
	} else if sourcesMask&SourceFreeFlowSpeed != 0 {
		candidate, src = e.FreeFlowSpeedKmh(), SourceFreeFlowSpeed
	}
	if candidate > 0 {
		return candidate, src
	}

	if isTruck {
		if t := e.TruckSpeedKmh(); t > 0 {
			return t, SourceTruckSpeed
		}
	}
	if d := e.DefaultSpeedKmh(); d > 0 {
		return d, SourceDefaultSpeed
	}
	// Every field was 0 (an otherwise-invalid tile); report 1 km/h rather
	// than 0 so the "never zero" invariant holds unconditionally.
	return 1, SourceDefaultSpeed
}
