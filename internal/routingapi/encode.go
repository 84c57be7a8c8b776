package routingapi

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers for the façade's canonical binary encoding of Options.
// These are an internal convention of this engine, not a published schema:
// the exact tag assignment lives here, in one place, alongside Encode.
const (
	fieldAction          = 1
	fieldFormat          = 2
	fieldCostingType     = 3
	fieldLocations       = 4
	fieldSources         = 5
	fieldTargets         = 6
	fieldVerbose         = 7
	fieldEncodedPolyline = 8
	fieldContours        = 9
	fieldExpansionAction = 10
	fieldCostingOptions  = 11

	locFieldLat = 1
	locFieldLon = 2

	contourFieldHasTime  = 1
	contourFieldTime     = 2
	contourFieldHasDist  = 3
	contourFieldDistance = 4

	costingFieldExcludeTolls   = 1
	costingFieldExcludeFerries = 2
)

// Encode serializes opts using length-delimited varint tagging
// (protobuf-style tag/varint/bytes framing via protowire), the canonical
// binary form the routing backend consumes.
func Encode(opts Options) []byte {
	var buf []byte

	buf = protowire.AppendTag(buf, fieldAction, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(opts.Action))

	buf = protowire.AppendTag(buf, fieldFormat, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(opts.Format))

	if opts.CostingType != "" {
		buf = protowire.AppendTag(buf, fieldCostingType, protowire.BytesType)
		buf = protowire.AppendString(buf, opts.CostingType)
	}

	for _, l := range opts.Locations {
		buf = protowire.AppendTag(buf, fieldLocations, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeLocation(l))
	}
	for _, l := range opts.Sources {
		buf = protowire.AppendTag(buf, fieldSources, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeLocation(l))
	}
	for _, l := range opts.Targets {
		buf = protowire.AppendTag(buf, fieldTargets, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeLocation(l))
	}

	if opts.Verbose {
		buf = protowire.AppendTag(buf, fieldVerbose, protowire.VarintType)
		buf = protowire.AppendVarint(buf, 1)
	}

	if opts.EncodedPolyline != "" {
		buf = protowire.AppendTag(buf, fieldEncodedPolyline, protowire.BytesType)
		buf = protowire.AppendString(buf, opts.EncodedPolyline)
	}

	for _, c := range opts.Contours {
		buf = protowire.AppendTag(buf, fieldContours, protowire.BytesType)
		buf = protowire.AppendBytes(buf, encodeContour(c))
	}

	if opts.HasExpansionAction {
		buf = protowire.AppendTag(buf, fieldExpansionAction, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(opts.ExpansionAction))
	}

	buf = protowire.AppendTag(buf, fieldCostingOptions, protowire.BytesType)
	buf = protowire.AppendBytes(buf, encodeCostingOptions(opts.CostingOptions))

	return buf
}

func encodeLocation(l Location) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, locFieldLat, protowire.Fixed64Type)
	buf = protowire.AppendFixed64(buf, math.Float64bits(l.Lat))
	buf = protowire.AppendTag(buf, locFieldLon, protowire.Fixed64Type)
	buf = protowire.AppendFixed64(buf, math.Float64bits(l.Lon))
	return buf
}

func encodeContour(c Contour) []byte {
	var buf []byte
	if c.HasTime {
		buf = protowire.AppendTag(buf, contourFieldHasTime, protowire.VarintType)
		buf = protowire.AppendVarint(buf, 1)
		buf = protowire.AppendTag(buf, contourFieldTime, protowire.Fixed64Type)
		buf = protowire.AppendFixed64(buf, math.Float64bits(c.TimeMinutes))
	}
	if c.HasDistance {
		buf = protowire.AppendTag(buf, contourFieldHasDist, protowire.VarintType)
		buf = protowire.AppendVarint(buf, 1)
		buf = protowire.AppendTag(buf, contourFieldDistance, protowire.Fixed64Type)
		buf = protowire.AppendFixed64(buf, math.Float64bits(c.DistanceKm))
	}
	return buf
}

func encodeCostingOptions(o CostingOptions) []byte {
	var buf []byte
	if o.ExcludeTolls {
		buf = protowire.AppendTag(buf, costingFieldExcludeTolls, protowire.VarintType)
		buf = protowire.AppendVarint(buf, 1)
	}
	if o.ExcludeFerries {
		buf = protowire.AppendTag(buf, costingFieldExcludeFerries, protowire.VarintType)
		buf = protowire.AppendVarint(buf, 1)
	}
	return buf
}
