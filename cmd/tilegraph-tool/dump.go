package main

import (
	"fmt"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
)

type dumpCmd struct {
	archiveFlags

	Args struct {
		Tile string `positional-arg-name:"TILE" required:"true" description:"Tile GraphId as level/tile/id (id is ignored)"`
	} `positional-args:"true"`

	Edges bool `long:"edges" description:"List every directed edge in the tile"`
}

// Execute prints a tile's node/edge/transition counts, and optionally every
// directed edge.
func (c *dumpCmd) Execute(_ []string) error {
	level, tile, _, err := parseGraphID(c.Args.Tile)
	if err != nil {
		return err
	}

	ts, err := c.open()
	if err != nil {
		return err
	}
	defer ts.Close()

	id, err := graphid.Pack(level, tile, 0)
	if err != nil {
		return err
	}

	gt, err := ts.GraphTile(id)
	if err != nil {
		return err
	}
	defer gt.Close()

	fmt.Printf("id: %s\n", gt.ID())
	fmt.Printf("dataset_id: %d\n", gt.DatasetID())
	fmt.Printf("nodes: %d\n", gt.NodeCount())
	fmt.Printf("edges: %d\n", gt.EdgeCount())
	fmt.Printf("transitions: %d\n", gt.TransitionCount())

	if c.Edges {
		for i, e := range gt.DirectedEdges() {
			fmt.Printf("  edge[%d] -> %s length=%dm class=%d speed=%dkm/h\n",
				i, e.EndNode(), e.LengthMeters(), e.RoadClass(), e.DefaultSpeedKmh())
		}
	}

	return nil
}
