// Package config loads the two archive paths a Tileset needs: tile_extract
// (required) and traffic_extract (optional). One small struct, decoded from
// either JSON or YAML via invopop/yaml, or synthesized from a bare tile
// path.
package config

import (
	"encoding/json"
	"os"

	"github.com/invopop/yaml"

	"github.com/tilegraph/tilegraph-engine/internal/tgerr"
	"github.com/tilegraph/tilegraph-engine/internal/tileset"
)

// document is the nested `mjolnir.tile_extract` / `mjolnir.traffic_extract`
// shape this engine's config files use.
type document struct {
	Mjolnir struct {
		TileExtract    string `json:"tile_extract" yaml:"tile_extract"`
		TrafficExtract string `json:"traffic_extract,omitempty" yaml:"traffic_extract,omitempty"`
	} `json:"mjolnir" yaml:"mjolnir"`
}

// FromJSON decodes a `{"mjolnir":{"tile_extract":...}}` document, accepting
// either JSON or YAML syntax (invopop/yaml normalizes YAML to JSON first,
// so plain JSON decodes unchanged).
func FromJSON(data []byte) (tileset.Config, error) {
	normalized, err := yaml.YAMLToJSON(data)
	if err != nil {
		return tileset.Config{}, tgerr.Wrap(tgerr.ConfigError, "decode config document", err)
	}

	var doc document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return tileset.Config{}, tgerr.Wrap(tgerr.ConfigError, "decode config document", err)
	}
	if doc.Mjolnir.TileExtract == "" {
		return tileset.Config{}, tgerr.New(tgerr.ConfigError, "mjolnir.tile_extract is required")
	}

	return tileset.Config{
		TileExtract:    doc.Mjolnir.TileExtract,
		TrafficExtract: doc.Mjolnir.TrafficExtract,
	}, nil
}

// FromFile reads and decodes a config document from path.
func FromFile(path string) (tileset.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tileset.Config{}, tgerr.Wrap(tgerr.ConfigError, "read config file: "+path, err)
	}
	return FromJSON(data)
}

// FromTileExtract synthesizes a Config from a bare tile archive path, with
// no traffic overlay.
func FromTileExtract(tileExtract string) tileset.Config {
	return tileset.Config{TileExtract: tileExtract}
}

// Load accepts any of three forms: a path to an existing config file, an
// inline JSON/YAML string, or a bare tile extract path used directly. An
// existing file that does not decode as a config document is taken to be
// the tile archive itself.
func Load(input string) (tileset.Config, error) {
	if input == "" {
		return tileset.Config{}, tgerr.New(tgerr.ConfigError, "config input is empty")
	}

	if st, err := os.Stat(input); err == nil && !st.IsDir() {
		if cfg, ferr := FromFile(input); ferr == nil {
			return cfg, nil
		}
		return FromTileExtract(input), nil
	}

	if cfg, err := FromJSON([]byte(input)); err == nil {
		return cfg, nil
	}

	return FromTileExtract(input), nil
}
