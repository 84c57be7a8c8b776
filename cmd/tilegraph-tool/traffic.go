package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/invopop/yaml"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
	"github.com/tilegraph/tilegraph-engine/internal/livetraffic"
)

type trafficGetCmd struct {
	archiveFlags

	Args struct {
		Tile string `positional-arg-name:"TILE" required:"true" description:"Tile GraphId as level/tile/id"`
		Edge int    `positional-arg-name:"EDGE" required:"true" description:"Edge index within the tile"`
	} `positional-args:"true"`
}

// Execute reads and prints one edge's live traffic record.
func (c *trafficGetCmd) Execute(_ []string) error {
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

	tt := ts.TrafficTile(id)
	if tt == nil {
		fmt.Println("no traffic data for this tile")
		return nil
	}
	defer tt.Close()

	rec, ok := tt.EdgeTraffic(c.Args.Edge)
	if !ok {
		return fmt.Errorf("edge %d out of range", c.Args.Edge)
	}

	printLiveTraffic(rec)
	return nil
}

func printLiveTraffic(rec livetraffic.LiveTraffic) {
	if rec.IsUnknown() {
		fmt.Println("UNKNOWN")
		return
	}
	if rec.IsClosed() {
		fmt.Println("CLOSED")
		return
	}
	fmt.Printf("overall=%dkm/h sub1=%dkm/h sub2=%dkm/h sub3=%dkm/h bp1=%d bp2=%d congested=%v incident=%v\n",
		rec.OverallSpeedKmh(), rec.SubSegmentSpeedKmh(1), rec.SubSegmentSpeedKmh(2), rec.SubSegmentSpeedKmh(3),
		rec.Breakpoint1(), rec.Breakpoint2(), rec.Congested(), rec.Incident())
}

type trafficSetCmd struct {
	archiveFlags

	Args struct {
		Tile string `positional-arg-name:"TILE" required:"true" description:"Tile GraphId as level/tile/id"`
		Edge int    `positional-arg-name:"EDGE" required:"true" description:"Edge index within the tile"`
	} `positional-args:"true"`

	Speed  *uint32 `long:"speed" description:"Uniform speed in km/h for overall + all sub-segments"`
	Closed bool    `long:"closed" description:"Mark the edge closed instead of setting a speed"`
	Batch  string  `long:"batch" description:"YAML/JSON file with a list of {edge, speed|closed} edits; EDGE is ignored"`
}

// trafficEdit is one entry of a --batch file.
type trafficEdit struct {
	Edge   int     `json:"edge"`
	Speed  *uint32 `json:"speed,omitempty"`
	Closed bool    `json:"closed,omitempty"`
}

func editRecord(speed *uint32, closed bool) (livetraffic.LiveTraffic, error) {
	if closed {
		return livetraffic.Closed, nil
	}
	if speed == nil {
		return livetraffic.LiveTraffic{}, fmt.Errorf("edit needs a speed or closed flag")
	}
	return livetraffic.FromUniformSpeed(*speed), nil
}

// Execute writes new live traffic records for one edge, or for every edge
// named in a --batch file.
func (c *trafficSetCmd) Execute(_ []string) error {
	level, tile, _, err := parseGraphID(c.Args.Tile)
	if err != nil {
		return err
	}
	if c.Batch == "" && !c.Closed && c.Speed == nil {
		return fmt.Errorf("must pass --speed, --closed, or --batch")
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

	tt := ts.TrafficTile(id)
	if tt == nil {
		return fmt.Errorf("no traffic archive entry for tile %s", id)
	}
	defer tt.Close()

	if c.Batch != "" {
		edits, err := readBatch(c.Batch)
		if err != nil {
			return err
		}
		for _, edit := range edits {
			rec, err := editRecord(edit.Speed, edit.Closed)
			if err != nil {
				return fmt.Errorf("edge %d: %w", edit.Edge, err)
			}
			if err := tt.WriteEdgeTraffic(edit.Edge, rec); err != nil {
				return fmt.Errorf("edge %d: %w", edit.Edge, err)
			}
		}
		tt.WriteLastUpdate(uint64(time.Now().Unix()))
		return nil
	}

	rec, err := editRecord(c.Speed, c.Closed)
	if err != nil {
		return err
	}
	if err := tt.WriteEdgeTraffic(c.Args.Edge, rec); err != nil {
		return err
	}
	tt.WriteLastUpdate(uint64(time.Now().Unix()))
	return nil
}

// readBatch decodes a YAML or JSON list of traffic edits.
func readBatch(path string) ([]trafficEdit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	normalized, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("decode batch file: %w", err)
	}
	var edits []trafficEdit
	if err := json.Unmarshal(normalized, &edits); err != nil {
		return nil, fmt.Errorf("decode batch file: %w", err)
	}
	return edits, nil
}

type trafficClearCmd struct {
	archiveFlags

	Args struct {
		Tile string `positional-arg-name:"TILE" required:"true" description:"Tile GraphId as level/tile/id"`
	} `positional-args:"true"`
}

// Execute zeros every edge record (and last_update) in a traffic tile.
func (c *trafficClearCmd) Execute(_ []string) error {
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

	tt := ts.TrafficTile(id)
	if tt == nil {
		return fmt.Errorf("no traffic archive entry for tile %s", id)
	}
	defer tt.Close()

	tt.ClearTraffic()
	return nil
}
