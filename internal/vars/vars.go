// Package vars carries the build-time version stamp: ldflags-stamped
// name/version/commit, printed verbatim by the version subcommand.
package vars

import "fmt"

// These are overridden at build time via -ldflags, e.g.:
//
//	go build -ldflags "-X .../internal/vars.Version=1.2.3 -X .../internal/vars.Commit=$(git rev-parse HEAD)"
var (
	Name    = "tilegraph-tool"
	Version = "dev"
	Commit  = "none"
)

// Print writes the version stamp to stdout.
func Print() {
	fmt.Printf("%s %s (%s)\n", Name, Version, Commit)
}
