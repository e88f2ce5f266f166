package gb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSyncToCurrentRenderedCursorNeverPassesScheduled(t *testing.T) {
	bus := newTestBus()
	ppu := bus.PPU
	ppu.lcdc = lcdcEnable | lcdcBGEnable

	ppu.Advance(50) // 200 dots, partway into the first scanline's pixel transfer
	require.LessOrEqual(t, ppu.renderedDot, ppu.scheduledDot)

	ppu.SyncToCurrent()
	require.Equal(t, ppu.scheduledDot, ppu.renderedDot)
}

func TestLYIncrementsAcrossScanlines(t *testing.T) {
	bus := newTestBus()
	ppu := bus.PPU
	ppu.lcdc = lcdcEnable

	ppu.Advance(dotsPerLine / 4) // exactly one scanline's worth of machine cycles
	require.Equal(t, uint8(1), ppu.ly)
}

func TestVBlankInterruptFiresAtLine144(t *testing.T) {
	bus := newTestBus()
	ppu := bus.PPU
	ppu.lcdc = lcdcEnable

	ppu.Advance(dotsPerLine * vblankStartLine / 4)

	bus.ie = IntVBlank
	bit, vec, ok := bus.PendingInterrupt()
	require.True(t, ok)
	require.Equal(t, IntVBlank, bit)
	require.Equal(t, uint16(0x40), vec)
}

func TestWriteRegisterSyncsBeforeApplyingNewSCX(t *testing.T) {
	bus := newTestBus()
	ppu := bus.PPU
	ppu.lcdc = lcdcEnable | lcdcBGEnable

	ppu.Advance(40) // partway into scanline 0's pixel transfer
	ppu.WriteRegister(0xFF43, 32)
	require.Equal(t, ppu.scheduledDot, ppu.renderedDot, "register write must sync rendering before taking effect")
}

func TestGBCPaletteRAMAutoIncrement(t *testing.T) {
	bus := newTestBus()
	bus.CGBMode = true
	ppu := bus.PPU
	ppu.SetCGBMode(true)

	ppu.WriteRegister(0xFF68, 0x80) // index 0, auto-increment
	ppu.WriteRegister(0xFF69, 0x11)
	ppu.WriteRegister(0xFF69, 0x22)

	require.Equal(t, uint8(0x11), ppu.bgPalette[0])
	require.Equal(t, uint8(0x22), ppu.bgPalette[1])
}
