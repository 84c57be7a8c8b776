package costing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
	"github.com/tilegraph/tilegraph-engine/internal/graphtile"
)

func buildEdge(t *testing.T, f graphtile.EdgeFields) *graphtile.DirectedEdge {
	t.Helper()
	if f.EndNode == (graphid.GraphId{}) {
		f.EndNode = graphid.MustPack(0, 0, 1)
	}
	edgeRaw := graphtile.EncodeDirectedEdge(f)
	buf := make([]byte, 64)
	graphtile.EncodeHeader(buf, 1, graphid.MustPack(0, 0, 0), 0, 1, 0, 0, 0, 0)
	buf = append(buf, edgeRaw[:]...)
	gt, err := graphtile.Decode(buf)
	require.NoError(t, err)
	return gt.DirectedEdgeAt(0)
}

// tollTunnelEdge mirrors a motor-only toll tunnel: open to motorized modes,
// closed to pedestrians and bicycles.
func tollTunnelEdge(t *testing.T) *graphtile.DirectedEdge {
	motor := uint16(ModeAuto | ModeTruck | ModeBus | ModeTaxi | ModeMotorcycle)
	return buildEdge(t, graphtile.EdgeFields{
		ForwardAccess: motor,
		ReverseAccess: motor,
		Toll:          true,
		Tunnel:        true,
	})
}

func TestAutoCostingAllowsTollUnlessExcluded(t *testing.T) {
	e := tollTunnelEdge(t)

	auto := New(Options{Mode: ModeAuto})
	require.True(t, auto.EdgeAccessible(e))

	autoNoToll := New(Options{Mode: ModeAuto, ExcludeTolls: true})
	require.False(t, autoNoToll.EdgeAccessible(e))
}

func TestPedestrianCostingRejectsMotorTunnel(t *testing.T) {
	e := tollTunnelEdge(t)
	require.False(t, New(Options{Mode: ModePedestrian}).EdgeAccessible(e))
	require.False(t, New(Options{Mode: ModeBicycle}).EdgeAccessible(e))
}

func TestExcludeFerries(t *testing.T) {
	e := buildEdge(t, graphtile.EdgeFields{
		ForwardAccess: uint16(ModeAuto),
		UseType:       1,
	})

	require.True(t, New(Options{Mode: ModeAuto}).EdgeAccessible(e))
	require.False(t, New(Options{Mode: ModeAuto, ExcludeFerries: true}).EdgeAccessible(e))
}

func TestNodeAccessible(t *testing.T) {
	buf := make([]byte, 64)
	node := graphtile.EncodeNodeInfo(0, 0, 0, 0, 0, 0, 0, uint16(ModeAuto), -500, false, 0, 0)
	graphtile.EncodeHeader(buf, 1, graphid.MustPack(0, 0, 0), 1, 0, 0, 0, 0, 0)
	buf = append(buf, node[:]...)
	gt, err := graphtile.Decode(buf)
	require.NoError(t, err)
	n := gt.Node(0)

	require.True(t, New(Options{Mode: ModeAuto}).NodeAccessible(n))
	require.False(t, New(Options{Mode: ModePedestrian}).NodeAccessible(n))
}
