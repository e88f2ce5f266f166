package gba

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/tricore/internal/core"
)

func makeGBARom(size int) []byte {
	rom := make([]byte, size)
	copy(rom[0xA0:], []byte("TESTGAME"))
	return rom
}

func TestLoadROMRejectsUndersizedImage(t *testing.T) {
	p := NewPlatform(44100)
	err := p.LoadROM(make([]byte, 0x10))
	var rejected *core.ErrROMRejected
	require.ErrorAs(t, err, &rejected)
}

func TestRunFrameProducesFullFrameBuffer(t *testing.T) {
	p := NewPlatform(44100)
	require.NoError(t, p.LoadROM(makeGBARom(0x10000)))
	p.RunFrame(core.Input(0))
	fb := p.FrameBuffer()
	require.Equal(t, gbaWidth, fb.Width)
	require.Equal(t, gbaHeight, fb.Height)
	require.Len(t, fb.Pixels, gbaWidth*gbaHeight)
}

func TestSaveStateRoundTripPreservesCPURegisters(t *testing.T) {
	p := NewPlatform(44100)
	require.NoError(t, p.LoadROM(makeGBARom(0x10000)))
	p.cpu.Regs.R[3] = 0x12345678

	data, err := p.SaveState()
	require.NoError(t, err)

	p.cpu.Regs.R[3] = 0
	require.NoError(t, p.LoadState(data))
	require.Equal(t, uint32(0x12345678), p.cpu.Regs.R[3])
}

func TestSaveStateRejectsMismatchedBackupKind(t *testing.T) {
	p := NewPlatform(44100)
	require.NoError(t, p.LoadROM(makeGBARom(0x10000)))
	data, err := p.SaveState()
	require.NoError(t, err)

	p2 := NewPlatform(44100)
	rom := makeGBARom(0x10000)
	copy(rom[0x200:], []byte("FLASH1M_V120"))
	require.NoError(t, p2.LoadROM(rom))

	err = p2.LoadState(data)
	var incompatible *core.ErrSaveStateIncompatible
	require.ErrorAs(t, err, &incompatible)
}

func TestBatterySaveRoundTripThroughPlatform(t *testing.T) {
	p := NewPlatform(44100)
	require.NoError(t, p.LoadROM(makeGBARom(0x10000)))
	require.True(t, p.HasBatterySave())

	p.mapper.WriteSRAM(0, 0x42)
	data := p.BatterySaveData()
	require.NoError(t, p.SetBatterySaveData(data))
	require.Equal(t, uint8(0x42), p.mapper.ReadSRAM(0))
}
