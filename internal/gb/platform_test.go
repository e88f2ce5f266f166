package gb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zaynotley/tricore/internal/core"
)

func TestLoadROMRejectsUndersizedImage(t *testing.T) {
	p := NewPlatform(44100)
	err := p.LoadROM([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
	var rejected *core.ErrROMRejected
	require.ErrorAs(t, err, &rejected)
}

func TestSaveStateRoundTripPreservesCPUAndWRAM(t *testing.T) {
	p := NewPlatform(44100)
	require.NoError(t, p.LoadROM(makeROM(32*1024, 0x00, 0x00)))

	p.bus.Write(0xC000, 0x42)
	p.cpu.Regs.A = 0x77
	p.cpu.Regs.PC = 0x0200

	blob, err := p.SaveState()
	require.NoError(t, err)

	p.bus.Write(0xC000, 0x00)
	p.cpu.Regs.A = 0x00

	require.NoError(t, p.LoadState(blob))
	require.Equal(t, uint8(0x42), p.bus.Read(0xC000))
	require.Equal(t, uint8(0x77), p.cpu.Regs.A)
	require.Equal(t, uint16(0x0200), p.cpu.Regs.PC)
}

func TestSaveStateRejectsMismatchedMapperKind(t *testing.T) {
	p1 := NewPlatform(44100)
	require.NoError(t, p1.LoadROM(makeROM(32*1024, 0x00, 0x00))) // KindNone

	blob, err := p1.SaveState()
	require.NoError(t, err)

	p2 := NewPlatform(44100)
	require.NoError(t, p2.LoadROM(makeROM(64*1024, 0x01, 0x00))) // KindMBC1

	err = p2.LoadState(blob)
	require.Error(t, err)
	var incompatible *core.ErrSaveStateIncompatible
	require.ErrorAs(t, err, &incompatible)
}

func TestRunFrameProducesFullFrameBuffer(t *testing.T) {
	p := NewPlatform(44100)
	require.NoError(t, p.LoadROM(makeROM(32*1024, 0x00, 0x00)))
	p.RunFrame(core.Input(0))

	fb := p.FrameBuffer()
	require.Equal(t, ScreenWidth, fb.Width)
	require.Equal(t, ScreenHeight, fb.Height)
	require.Len(t, fb.Pixels, ScreenWidth*ScreenHeight)
}

func TestBatterySaveRoundTripThroughPlatform(t *testing.T) {
	p := NewPlatform(44100)
	require.NoError(t, p.LoadROM(makeROM(32*1024, 0x03, 0x02))) // MBC1+battery+RAM
	require.True(t, p.HasBatterySave())

	p.bus.Mapper.Write(0x0000, 0x0A)
	p.bus.Mapper.WriteRAM(0, 0x55)
	data := p.BatterySaveData()

	p2 := NewPlatform(44100)
	require.NoError(t, p2.LoadROM(makeROM(32*1024, 0x03, 0x02)))
	require.NoError(t, p2.SetBatterySaveData(data))
	p2.bus.Mapper.Write(0x0000, 0x0A)
	require.Equal(t, uint8(0x55), p2.bus.Mapper.ReadRAM(0))
}
