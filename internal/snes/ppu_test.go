package snes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func advanceToScanlineDot(p *PPU, scanline, dot int) {
	for p.scanline != scanline || p.dot != dot {
		p.Advance(1)
	}
}

func TestForceBlankToggledBetweenDot270And272BlocksEvalNotFetch(t *testing.T) {
	p := NewPPU()
	p.Write(0x2100, 0x00) // force blank off, full brightness

	// Place one sprite entirely within line 10, within OAM's 128 entries.
	p.oam[1] = 10  // y
	p.oam[0] = 50  // x low byte
	p.oam[512] = 0 // size/high-x bits for entry 0, all clear (small sprite)
	p.objSizeSmall = 8

	advanceToScanlineDot(p, 10, 270)
	// Force blank flips on right before the range-scan latch check runs at
	// dot 270, so evaluation (which reads forceBlankLatchedEval) sees it on.
	p.Write(0x2100, 0x80)
	p.Advance(1) // consumes dot 270: latches forceBlankLatchedEval=true, evaluate() bails out
	require.True(t, p.forceBlankLatchedEval)
	require.Equal(t, 0, p.spriteCount, "evaluation should have found nothing while force-blank was latched on")

	p.Advance(1) // consumes dot 271, now sitting at dot 272
	// Flip it back off right before the fetch latch check runs at dot 272.
	p.Write(0x2100, 0x00)
	p.Advance(1) // consumes dot 272: latches forceBlankLatchedFetch=false
	require.False(t, p.forceBlankLatchedFetch)
}

func TestOAMRegisterWriteSequentialAutoIncrements(t *testing.T) {
	p := NewPPU()
	p.Write(0x2102, 0x00)
	p.Write(0x2103, 0x00)
	p.Write(0x2104, 0x11)
	p.Write(0x2104, 0x22)
	require.Equal(t, uint8(0x11), p.oam[0])
	require.Equal(t, uint8(0x22), p.oam[1])
}

func TestCGRAMWriteSequentialPacksLowHighBytes(t *testing.T) {
	p := NewPPU()
	p.Write(0x2121, 0x05) // CGADD = 5
	p.Write(0x2122, 0x34) // low byte
	p.Write(0x2122, 0x12) // high byte completes the 15-bit BGR555 word
	require.Equal(t, uint16(0x1234), p.cgram[5])
}

func TestAdvanceReportsFrameCompleteOncePerFrame(t *testing.T) {
	p := NewPPU()
	total := scanlinesPerFrame * dotsPerScanline
	for i := 0; i < total-1; i++ {
		p.Advance(1)
		require.False(t, p.CheckFrameComplete())
	}
	p.Advance(1)
	require.True(t, p.CheckFrameComplete())
	require.False(t, p.CheckFrameComplete(), "flag clears after being read once")
}

func TestForceBlankRendersBlackPixels(t *testing.T) {
	p := NewPPU()
	p.Write(0x2100, 0x80) // force blank on
	advanceToScanlineDot(p, 0, 1)
	require.Equal(t, uint32(0), p.framebuffer[0])
}
