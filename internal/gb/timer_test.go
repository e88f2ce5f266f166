package gb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	b := NewBus()
	b.Mapper = NewMapper(makeROM(32*1024, 0x00, 0x00))
	b.PPU = NewPPU(b)
	b.APU = NewAPU(44100)
	b.DMA = NewDMAEngine(b)
	b.Joypad = NewJoypad(b)
	b.Timer = NewTimer(b)
	return b
}

func TestTimerIncrementsOnFallingEdge(t *testing.T) {
	bus := newTestBus()
	timer := bus.Timer
	timer.Write(regTAC, 0x05) // enabled, divider bit 3 (16 cycles)
	timer.Write(regTIMA, 0)

	for i := 0; i < 16; i++ {
		timer.stepOne()
	}
	require.Equal(t, uint8(1), timer.tima)
}

func TestTimerOverflowReloadsAfterDelayAndRaisesInterrupt(t *testing.T) {
	bus := newTestBus()
	timer := bus.Timer
	timer.Write(regDIV, 0) // start the divider at 0 so bit 3 falls on the 16th step
	timer.Write(regTMA, 0x10)
	timer.Write(regTAC, 0x05)
	timer.tima = 0xFF
	bus.ie = IntTimer // PendingInterrupt only reports sources enabled in IE

	for i := 0; i < 16; i++ {
		timer.stepOne()
	}
	require.Equal(t, uint8(0), timer.tima, "TIMA wraps to 0 the cycle it overflows")

	for i := 0; i < 4; i++ {
		timer.stepOne()
	}
	require.Equal(t, uint8(0x10), timer.tima, "TIMA reloads from TMA after the delay")
	bit, vec, ok := bus.PendingInterrupt()
	require.True(t, ok)
	require.Equal(t, IntTimer, bit)
	require.Equal(t, uint16(0x50), vec)
}

func TestDIVWriteResetsWholeDivider(t *testing.T) {
	bus := newTestBus()
	timer := bus.Timer
	for i := 0; i < 1000; i++ {
		timer.stepOne()
	}
	require.NotEqual(t, uint8(0), timer.Read(regDIV))
	timer.Write(regDIV, 0xFF) // any value written resets the divider to 0
	require.Equal(t, uint8(0), timer.Read(regDIV))
}
