package gb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterruptPriorityOrder(t *testing.T) {
	bus := newTestBus()
	bus.ie = 0x1F
	bus.RequestInterrupt(IntJoypad)
	bus.RequestInterrupt(IntVBlank)
	bus.RequestInterrupt(IntTimer)

	bit, vec, ok := bus.PendingInterrupt()
	require.True(t, ok)
	require.Equal(t, IntVBlank, bit, "VBlank must win priority over Timer/Joypad")
	require.Equal(t, uint16(0x40), vec)

	bus.AckInterrupt(IntVBlank)
	bit, vec, ok = bus.PendingInterrupt()
	require.True(t, ok)
	require.Equal(t, IntTimer, bit)
	require.Equal(t, uint16(0x50), vec)
}

func TestInterruptMaskDiscipline(t *testing.T) {
	bus := newTestBus()
	bus.ie = 0 // every interrupt masked
	bus.RequestInterrupt(IntVBlank)

	_, _, ok := bus.PendingInterrupt()
	require.False(t, ok, "a requested but disabled interrupt must not appear pending")
}

func TestOpenBusTransitivityAcrossUnusedRegion(t *testing.T) {
	bus := newTestBus()
	bus.Write(0xFF01, 0x5A) // SB register, a real write that also updates open bus
	v := bus.Read(0xFEA0)   // unused region reads back the last bus value
	require.Equal(t, uint8(0x5A), v)
}

func TestWRAMEchoMirrorsWRAM(t *testing.T) {
	bus := newTestBus()
	bus.Write(0xC005, 0x77)
	require.Equal(t, uint8(0x77), bus.Read(0xE005))
	bus.Write(0xE006, 0x88)
	require.Equal(t, uint8(0x88), bus.Read(0xC006))
}

func TestCGBWRAMBankSwitch(t *testing.T) {
	bus := newTestBus()
	bus.CGBMode = true

	bus.Write(regSVBK, 0x03)
	bus.Write(0xD000, 0xAA)
	bus.Write(regSVBK, 0x05)
	bus.Write(0xD000, 0xBB)
	bus.Write(regSVBK, 0x03)
	require.Equal(t, uint8(0xAA), bus.Read(0xD000))
}
