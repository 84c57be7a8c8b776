package main

import (
	"fmt"

	"github.com/tilegraph/tilegraph-engine/internal/tileset"
)

type bboxCmd struct {
	archiveFlags

	Args struct {
		MinLat float64 `positional-arg-name:"MIN_LAT" required:"true"`
		MinLon float64 `positional-arg-name:"MIN_LON" required:"true"`
		MaxLat float64 `positional-arg-name:"MAX_LAT" required:"true"`
		MaxLon float64 `positional-arg-name:"MAX_LON" required:"true"`
	} `positional-args:"true"`

	Level uint8 `long:"level" required:"true" description:"Hierarchy level (0 Highway, 1 Arterial, 2 Local)"`
}

// Execute lists every tile at Level whose coverage rectangle intersects the
// query rectangle.
func (c *bboxCmd) Execute(_ []string) error {
	ts, err := c.open()
	if err != nil {
		return err
	}
	defer ts.Close()

	min := tileset.LatLng{Lat: c.Args.MinLat, Lon: c.Args.MinLon}
	max := tileset.LatLng{Lat: c.Args.MaxLat, Lon: c.Args.MaxLon}

	for _, id := range ts.TilesInBBox(min, max, c.Level) {
		fmt.Println(id)
	}
	return nil
}
