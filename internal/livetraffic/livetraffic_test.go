package livetraffic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromUniformSpeedRoundTrip(t *testing.T) {
	for _, tc := range []struct{ in, want uint32 }{
		{72, 72},
		{73, 72},
		{126, 126},
		{127, 126},
	} {
		rec := FromUniformSpeed(tc.in)
		kmh, ok := rec.LiveSpeed()
		require.True(t, ok)
		require.Equal(t, tc.want, kmh)
	}
}

func TestUnknownSentinel(t *testing.T) {
	require.True(t, Unknown.IsUnknown())
	_, ok := Unknown.LiveSpeed()
	require.False(t, ok)
}

func TestClosedSentinel(t *testing.T) {
	require.True(t, Closed.IsClosed())
	kmh, ok := Closed.LiveSpeed()
	require.True(t, ok)
	require.Equal(t, uint32(0), kmh)
	require.Equal(t, uint8(255), Closed.Breakpoint1())
}

func TestNewSegmentedBreakpoints(t *testing.T) {
	rec := NewSegmented(60, 40, 80, 100, 10, 200)
	require.Equal(t, uint32(60), rec.OverallSpeedKmh())
	require.Equal(t, uint32(40), rec.SubSegmentSpeedKmh(1))
	require.Equal(t, uint32(80), rec.SubSegmentSpeedKmh(2))
	require.Equal(t, uint32(100), rec.SubSegmentSpeedKmh(3))
	require.Equal(t, uint8(10), rec.Breakpoint1())
	require.Equal(t, uint8(200), rec.Breakpoint2())
	require.False(t, rec.IsClosed())
	require.False(t, rec.IsUnknown())
}

func TestBitsRoundTrip(t *testing.T) {
	rec := FromUniformSpeed(88)
	require.Equal(t, rec, FromBits(rec.Bits()))
}
