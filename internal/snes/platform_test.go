package snes

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zaynotley/tricore/internal/core"
)

// buildRunnableLoROM returns a LoROM image with a valid header and a reset
// vector pointing at a block of NOPs, so RunFrame has well-defined behavior.
func buildRunnableLoROM(size int) []byte {
	rom := make([]byte, size)
	for i := range rom[:0x100] {
		rom[i] = 0xEA // NOP
	}
	buildLoROMHeader(rom, 0x7FC0, 0x20, 0x00, 0x0A, 0x00, 0x01)
	rom[0x7FFC] = 0x00 // reset vector low -> $8000
	rom[0x7FFD] = 0x80 // reset vector high
	return rom
}

func TestLoadROMRejectsUndersizedImage(t *testing.T) {
	p := NewPlatform()
	err := p.LoadROM(make([]byte, 0x10))
	require.Error(t, err)
	var rejected *core.ErrROMRejected
	require.ErrorAs(t, err, &rejected)
}

func TestLoadROMThenRunFrameProducesAFullFrame(t *testing.T) {
	p := NewPlatform()
	require.NoError(t, p.LoadROM(buildRunnableLoROM(0x40000)))

	p.RunFrame(core.Input(0))

	fb := p.FrameBuffer()
	require.Equal(t, screenWidth, fb.Width)
	require.Equal(t, screenHeight, fb.Height)
	require.Len(t, fb.Pixels, screenWidth*screenHeight)
}

func TestRunFrameProducesAudioAtNativeSampleRate(t *testing.T) {
	p := NewPlatform()
	require.NoError(t, p.LoadROM(buildRunnableLoROM(0x40000)))

	p.RunFrame(core.Input(0))
	af := p.AudioFrame()
	require.Equal(t, 32000, af.SampleRate)
}

func TestSaveStateRoundTripsCPURegistersAndWRAM(t *testing.T) {
	p := NewPlatform()
	require.NoError(t, p.LoadROM(buildRunnableLoROM(0x40000)))

	p.RunFrame(core.Input(0))
	p.bus.WRAM[0x100] = 0x7A
	p.cpu.Regs.A = 0xBEEF

	blob, err := p.SaveState()
	require.NoError(t, err)

	p.bus.WRAM[0x100] = 0x00
	p.cpu.Regs.A = 0x0000

	require.NoError(t, p.LoadState(blob))
	require.Equal(t, uint8(0x7A), p.bus.WRAM[0x100])
	require.Equal(t, uint16(0xBEEF), p.cpu.Regs.A)
}

func TestLoadStateRejectsWrongVersion(t *testing.T) {
	p := NewPlatform()
	require.NoError(t, p.LoadROM(buildRunnableLoROM(0x40000)))

	err := p.LoadState([]byte{0x02, 0x00, 0x00, 0x00})
	require.Error(t, err)
	var incompatible *core.ErrSaveStateIncompatible
	require.ErrorAs(t, err, &incompatible)
}

func TestHasBatterySaveReflectsCartridgeRAM(t *testing.T) {
	p := NewPlatform()
	rom := buildRunnableLoROM(0x40000)
	rom[0x7FC0+0x18] = 0x01 // RAM size byte -> 2KB SRAM present
	require.NoError(t, p.LoadROM(rom))
	require.True(t, p.HasBatterySave())

	require.NoError(t, p.SetBatterySaveData([]byte{0x01, 0x02, 0x03}))
	require.Equal(t, []byte{0x01, 0x02, 0x03}, p.BatterySaveData()[:3])
}
