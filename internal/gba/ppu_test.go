package gba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestGBAPPU() *PPU {
	bus := newTestGBABus()
	return bus.PPU
}

func TestVCountAdvancesAcrossScanlines(t *testing.T) {
	p := newTestGBAPPU()
	p.Advance(dotsPerLineGBA*3 + 1) // line 3's dot 0 is processed on the step after the boundary
	require.Equal(t, uint16(3), p.vcount)
}

func TestVBlankFlagSetsAtLine160AndRequestsInterruptWhenEnabled(t *testing.T) {
	p := newTestGBAPPU()
	p.dispstat = 1 << 3 // VBlank IRQ enable
	p.Advance(dotsPerLineGBA*visibleLines + 1)
	require.NotZero(t, p.dispstat&0x01)
	require.NotZero(t, p.bus.ifr&(1<<0))
}

func TestSyncToCurrentNeverRendersPastScheduledCursor(t *testing.T) {
	p := newTestGBAPPU()
	p.Advance(100)
	p.SyncToCurrent()
	require.LessOrEqual(t, p.renderedDot, p.scheduledDot)
	require.Equal(t, p.scheduledDot, p.renderedDot)
}

func TestWriteRegisterSyncsBeforeApplyingNewScroll(t *testing.T) {
	p := newTestGBAPPU()
	p.dispcnt = 0x0100 // BG0 enabled, mode 0
	p.Advance(50)
	p.WriteRegister16(0x04000010, 40) // BG0HOFS
	require.Equal(t, p.scheduledDot, p.renderedDot)
	require.Equal(t, uint16(40), p.bg[0].hofs)
}

func TestBitmapMode3ReadsDirectColorFromVRAM(t *testing.T) {
	p := newTestGBAPPU()
	p.dispcnt = 3
	p.vram[0] = 0x1F
	p.vram[1] = 0x00 // red channel maxed, BGR555 little-endian
	p.Advance(dotsPerLineGBA + gbaWidth + 1) // past line 0's pixel 0
	p.SyncToCurrent()
	require.NotZero(t, p.frame[0]&0xFF) // red component set
}
