package traffictile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tilegraph/tilegraph-engine/internal/graphid"
	"github.com/tilegraph/tilegraph-engine/internal/livetraffic"
)

func buildTile(t *testing.T, edgeCount uint32) *TrafficTile {
	t.Helper()

	tileID := graphid.MustPack(2, 838852, 0)
	buf := make([]byte, HeaderSize+int(edgeCount)*8)
	EncodeHeader(buf, tileID, 1000, 42, edgeCount)

	tt, err := Decode(buf)
	require.NoError(t, err)
	return tt
}

func TestDecodeRejectsShortBlob(t *testing.T) {
	_, err := Decode(make([]byte, HeaderSize-1))
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedEdgeArray(t *testing.T) {
	buf := make([]byte, HeaderSize+8)
	EncodeHeader(buf, graphid.MustPack(0, 0, 0), 0, 0, 4)
	_, err := Decode(buf)
	require.Error(t, err)
}

func TestHeaderFieldsRoundTrip(t *testing.T) {
	tt := buildTile(t, 3)
	require.Equal(t, uint64(1000), tt.LastUpdate())
	require.Equal(t, uint64(42), tt.Spare())
	require.Equal(t, uint32(3), tt.EdgeCount())
	require.Equal(t, uint32(838852), tt.ID().TileID())
	require.Equal(t, uint32(0), tt.ID().ID())
}

func TestWriteReadEdgeTraffic(t *testing.T) {
	tt := buildTile(t, 2)

	rec, ok := tt.EdgeTraffic(0)
	require.True(t, ok)
	require.True(t, rec.IsUnknown())

	require.NoError(t, tt.WriteEdgeTraffic(0, livetraffic.FromUniformSpeed(72)))
	rec, ok = tt.EdgeTraffic(0)
	require.True(t, ok)
	kmh, ok := rec.LiveSpeed()
	require.True(t, ok)
	require.Equal(t, uint32(72), kmh)

	require.NoError(t, tt.WriteEdgeTraffic(1, livetraffic.Closed))
	require.True(t, tt.EdgeClosed(1))
	require.False(t, tt.EdgeClosed(0))
}

func TestEdgeTrafficOutOfRange(t *testing.T) {
	tt := buildTile(t, 1)

	_, ok := tt.EdgeTraffic(1)
	require.False(t, ok)
	_, ok = tt.EdgeTraffic(-1)
	require.False(t, ok)

	err := tt.WriteEdgeTraffic(1, livetraffic.Closed)
	require.Error(t, err)
}

func TestEdgeClosedDefaultsFalseOutOfRange(t *testing.T) {
	tt := buildTile(t, 1)
	require.False(t, tt.EdgeClosed(5))
}

func TestClearTrafficZeroesEdgesAndLastUpdateButNotSpare(t *testing.T) {
	tt := buildTile(t, 2)
	require.NoError(t, tt.WriteEdgeTraffic(0, livetraffic.FromUniformSpeed(50)))
	require.NoError(t, tt.WriteEdgeTraffic(1, livetraffic.Closed))

	tt.ClearTraffic()

	rec0, ok := tt.EdgeTraffic(0)
	require.True(t, ok)
	require.True(t, rec0.IsUnknown())

	rec1, ok := tt.EdgeTraffic(1)
	require.True(t, ok)
	require.True(t, rec1.IsUnknown())

	require.Equal(t, uint64(0), tt.LastUpdate())
	require.Equal(t, uint64(42), tt.Spare())
}

func TestWriteLastUpdateAndSpare(t *testing.T) {
	tt := buildTile(t, 1)
	tt.WriteLastUpdate(9999)
	tt.WriteSpare(7)
	require.Equal(t, uint64(9999), tt.LastUpdate())
	require.Equal(t, uint64(7), tt.Spare())
}
