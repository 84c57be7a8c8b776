package main

import (
	"fmt"

	"github.com/tilegraph/tilegraph-engine/internal/config"
	"github.com/tilegraph/tilegraph-engine/internal/tileset"
)

// archiveFlags are the two tile/traffic archive paths shared by every
// subcommand that opens a Tileset.
type archiveFlags struct {
	TileExtract    string `long:"tiles" required:"true" description:"Path to the graph tile tar archive, or a config path/JSON document"`
	TrafficExtract string `long:"traffic" description:"Path to the live-traffic tar archive"`
}

func (f archiveFlags) open() (*tileset.Tileset, error) {
	cfg, err := config.Load(f.TileExtract)
	if err != nil {
		return nil, err
	}
	if f.TrafficExtract != "" {
		cfg.TrafficExtract = f.TrafficExtract
	}
	return tileset.New(cfg)
}

func parseGraphID(s string) (level uint8, tile uint32, id uint32, err error) {
	var l, t, i uint64
	n, err := fmt.Sscanf(s, "%d/%d/%d", &l, &t, &i)
	if err != nil || n != 3 {
		return 0, 0, 0, fmt.Errorf("graph id must be level/tile/id, got %q", s)
	}
	return uint8(l), uint32(t), uint32(i), nil
}
