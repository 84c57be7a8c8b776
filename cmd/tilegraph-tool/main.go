// Command tilegraph-tool provides CLI utilities for inspecting graph
// tiles and live-traffic overlays.
package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/tilegraph/tilegraph-engine/internal/vars"
)

type rootCmd struct {
	Version      versionCmd      `command:"version" description:"Show version information"`
	Info         infoCmd         `command:"info" description:"Show dataset id and tile count"`
	Dump         dumpCmd         `command:"dump" description:"Dump one tile's node/edge/transition counts and edges"`
	BBox         bboxCmd         `command:"bbox" description:"List tile ids intersecting a bounding box"`
	TrafficGet   trafficGetCmd   `command:"traffic-get" description:"Read one edge's live traffic record"`
	TrafficSet   trafficSetCmd   `command:"traffic-set" description:"Write one edge's live traffic record"`
	TrafficClear trafficClearCmd `command:"traffic-clear" description:"Zero a traffic tile's edge records"`
}

func main() {
	var root rootCmd
	parser := flags.NewParser(&root, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

type versionCmd struct{}

// Execute prints the version information.
func (c *versionCmd) Execute(_ []string) error {
	vars.Print()
	return nil
}
