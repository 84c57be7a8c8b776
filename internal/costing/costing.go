// Package costing implements the per-mode accessibility predicates used by
// the out-of-scope router: given a travel mode and a few exclusion options,
// a Model answers "can this edge/node be used at all", with no knowledge of
// traffic, turn restrictions, or lane attributes.
package costing

import "github.com/tilegraph/tilegraph-engine/internal/graphtile"

// Mode is a travel mode, matching the bit assignment shared by
// NodeInfo.AccessMask and DirectedEdge's forward/reverse access masks.
type Mode uint16

const (
	ModeAuto Mode = 1 << iota
	ModePedestrian
	ModeBicycle
	ModeTruck
	ModeBus
	ModeTaxi
	ModeMotorScooter
	ModeMotorcycle
	ModeWheelchair
)

// Options parameterizes a Model: the travel mode plus the handful of
// exclusion toggles available per mode.
type Options struct {
	Mode           Mode
	ExcludeTolls   bool
	ExcludeFerries bool
}

// useTypeFerry is the DirectedEdge.UseType() value for a ferry crossing.
// Use-type codes are an internal convention of this engine, not a fixed
// external bit layout, kept in one place alongside the road-class/use-type
// encoding in graphtile.DirectedEdge.
const useTypeFerry = 1

// Model is an immutable, pure predicate pair built from Options.
type Model struct {
	opts Options
}

// New builds a Model from a mode and its exclusion options.
func New(opts Options) *Model {
	return &Model{opts: opts}
}

// EdgeAccessible reports whether e can be traversed forward under this
// Model's mode, honoring ExcludeTolls/ExcludeFerries.
func (m *Model) EdgeAccessible(e *graphtile.DirectedEdge) bool {
	if uint16(e.ForwardAccess())&uint16(m.opts.Mode) == 0 {
		return false
	}
	if m.opts.ExcludeTolls && e.Toll() {
		return false
	}
	if m.opts.ExcludeFerries && e.UseType() == useTypeFerry {
		return false
	}
	return true
}

// NodeAccessible reports whether n permits this Model's mode at all.
func (m *Model) NodeAccessible(n *graphtile.NodeInfo) bool {
	return n.AccessMask()&uint16(m.opts.Mode) != 0
}
