// controller_test.go - tests for the ring buffer and PI rate controller
//
// License: GPLv3 or later

package audiorate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingWriteReadRoundTrip(t *testing.T) {
	r := NewRing(16)
	in := []float32{0.1, 0.2, 0.3, 0.4}
	r.Write(in)
	require.Equal(t, 4, r.Occupied())

	out := make([]float32, 4)
	filled, _ := r.Read(out, 0)
	require.Equal(t, 4, filled)
	require.Equal(t, in, out)
	require.Equal(t, 0, r.Occupied())
}

func TestRingUnderrunFadesTowardZero(t *testing.T) {
	r := NewRing(16)
	r.Write([]float32{1.0})

	out := make([]float32, 4)
	filled, last := r.Read(out, 0)
	require.Equal(t, 1, filled)
	require.InDelta(t, float32(1.0), out[0], 0.0001)
	require.InDelta(t, float32(0.95), out[1], 0.0001)
	require.InDelta(t, float32(0.95*0.95), out[2], 0.0001)
	require.InDelta(t, float32(0.95*0.95*0.95), out[3], 0.0001)
	require.InDelta(t, float32(0.95*0.95*0.95), last, 0.0001)
}

func TestRingOverflowDropsOldest(t *testing.T) {
	r := NewRing(4)
	r.Write([]float32{1, 2, 3, 4})
	r.Write([]float32{5, 6})

	out := make([]float32, 4)
	filled, _ := r.Read(out, 0)
	require.Equal(t, 4, filled)
	require.Equal(t, []float32{3, 4, 5, 6}, out)
}

func TestControllerDynamicRateClampsAdjustment(t *testing.T) {
	ring := NewRing(4096)
	c := NewController(DynamicRate, ring, 1024)

	// Starve the buffer far below target; the controller should pull the
	// adjustment down toward the lower clamp over repeated ticks.
	for i := 0; i < 200; i++ {
		c.Tick()
	}
	require.GreaterOrEqual(t, c.RateAdjustment(), 1-defaultMaxAdjust)
	require.LessOrEqual(t, c.RateAdjustment(), 1+defaultMaxAdjust)
}

func TestControllerModeOutsideDynamicRateIsIdentity(t *testing.T) {
	ring := NewRing(256)
	c := NewController(AudioDriven, ring, 128)
	c.Tick()
	require.Equal(t, 1.0, c.RateAdjustment())
}

func TestControllerUnderrunCounting(t *testing.T) {
	ring := NewRing(16)
	c := NewController(LargeBuffer, ring, 8)
	c.Push([]float32{1, 2})

	out := make([]float32, 8)
	c.Drain(out)
	require.Equal(t, 1, c.Underruns())
}
