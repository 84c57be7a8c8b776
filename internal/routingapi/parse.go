package routingapi

import (
	"encoding/json"

	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
)

// jsonLocation mirrors Valhalla's {"lat":.., "lon":..} location shape.
type jsonLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (l jsonLocation) toLocation() Location { return Location{Lat: l.Lat, Lon: l.Lon} }

type jsonContour struct {
	Time     *float64 `json:"time,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
}

type jsonCostingOptions struct {
	ExcludeTolls   bool `json:"exclude_tolls,omitempty"`
	ExcludeFerries bool `json:"exclude_ferries,omitempty"`
}

type jsonRequest struct {
	Locations       []jsonLocation                `json:"locations,omitempty"`
	Sources         []jsonLocation                `json:"sources,omitempty"`
	Targets         []jsonLocation                `json:"targets,omitempty"`
	Costing         string                        `json:"costing,omitempty"`
	CostingOptions  map[string]jsonCostingOptions `json:"costing_options,omitempty"`
	Format          string                        `json:"format,omitempty"`
	Verbose         bool                          `json:"verbose,omitempty"`
	EncodedPolyline string                        `json:"encoded_polyline,omitempty"`
	Contours        []jsonContour                 `json:"contours,omitempty"`
	ExpansionAction string                        `json:"expansion_action,omitempty"`
}

var formatByName = map[string]Format{
	"json":    FormatJSON,
	"osrm":    FormatOsrm,
	"pbf":     FormatPbf,
	"gpx":     FormatGpx,
	"geotiff": FormatGeoTiff,
}

var actionByName = map[string]Action{
	"route":             ActionRoute,
	"locate":            ActionLocate,
	"matrix":            ActionMatrix,
	"optimized_route":   ActionOptimizedRoute,
	"isochrone":         ActionIsochrone,
	"trace_route":       ActionTraceRoute,
	"trace_attributes":  ActionTraceAttributes,
	"transit_available": ActionTransitAvailable,
	"expansion":         ActionExpansion,
	"centroid":          ActionCentroid,
	"status":            ActionStatus,
}

// ParseJSON lowers a Valhalla-style JSON request into the typed Options
// form for the given action. Empty input is a ParseError.
func ParseJSON(data []byte, action Action) (Options, error) {
	if len(data) == 0 {
		return Options{}, tgerr.New(tgerr.ParseError, "empty request body")
	}

	var req jsonRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return Options{}, tgerr.Wrap(tgerr.ParseError, "decode json request", err)
	}

	opts := Options{
		Action:          action,
		CostingType:     req.Costing,
		Verbose:         req.Verbose,
		EncodedPolyline: req.EncodedPolyline,
	}

	if f, ok := formatByName[req.Format]; ok {
		opts.Format = f
	}

	for _, l := range req.Locations {
		opts.Locations = append(opts.Locations, l.toLocation())
	}
	for _, l := range req.Sources {
		opts.Sources = append(opts.Sources, l.toLocation())
	}
	for _, l := range req.Targets {
		opts.Targets = append(opts.Targets, l.toLocation())
	}

	if req.Costing != "" {
		if co, ok := req.CostingOptions[req.Costing]; ok {
			opts.CostingOptions = CostingOptions{
				ExcludeTolls:   co.ExcludeTolls,
				ExcludeFerries: co.ExcludeFerries,
			}
		}
	}

	for _, c := range req.Contours {
		var contour Contour
		if c.Time != nil {
			contour.HasTime = true
			contour.TimeMinutes = *c.Time
		}
		if c.Distance != nil {
			contour.HasDistance = true
			contour.DistanceKm = *c.Distance
		}
		opts.Contours = append(opts.Contours, contour)
	}

	if req.ExpansionAction != "" {
		if a, ok := actionByName[req.ExpansionAction]; ok {
			opts.HasExpansionAction = true
			opts.ExpansionAction = a
		}
	}

	return opts, nil
}
