package tiletar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
)

// TileFilename renders the canonical zero-padded hierarchical member name
// for a tile, e.g. level=2, tile=838852 -> "2/000/838/852.gph".
func TileFilename(level uint8, tile uint32) string {
	s := fmt.Sprintf("%09d", tile)
	return fmt.Sprintf("%d/%s/%s/%s.gph", level, s[0:3], s[3:6], s[6:9])
}

// ParseTileFilename decodes a canonical tile member name back into
// (level, tile), or reports ok=false if name does not match the
// level/ddd/ddd/ddd.gph convention.
func ParseTileFilename(name string) (level uint8, tile uint32, ok bool) {
	name = strings.TrimSuffix(name, ".gph")
	parts := strings.Split(name, "/")
	if len(parts) != 4 {
		return 0, 0, false
	}

	lvl, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return 0, 0, false
	}

	if len(parts[1]) != 3 || len(parts[2]) != 3 || len(parts[3]) != 3 {
		return 0, 0, false
	}
	t, err := strconv.ParseUint(parts[1]+parts[2]+parts[3], 10, 32)
	if err != nil {
		return 0, 0, false
	}

	return uint8(lvl), uint32(t), true
}

func tileKey(level uint8, tile uint32) graphid.GraphId {
	id, _ := graphid.Pack(level, tile, 0)
	return id
}
