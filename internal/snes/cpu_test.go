package snes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func loadCode(bus *Bus, bank uint8, offset uint16, code ...uint8) {
	addr := uint32(bank)<<16 | uint32(offset)
	for i, b := range code {
		bus.Write8(addr+uint32(i), b)
	}
}

func TestBCDAdcWrapsDecimalNibbles(t *testing.T) {
	bus, cpu := newTestSNESCPU()
	cpu.Regs.PBR = 0
	cpu.Regs.PC = 0x8000
	cpu.Regs.D = 0
	cpu.Regs.SetFlag(flagD, true)
	cpu.Regs.SetFlag(flagC, false)
	cpu.Regs.A = 0x0019 // decimal 19

	loadCode(bus, 0, 0x8000, 0x69, 0x01) // ADC #$01 (8-bit, M=1 after reset)

	cycles := cpu.Step()
	require.Equal(t, 2, cycles)
	require.Equal(t, uint16(0x0020), cpu.Regs.A, "19 + 1 in BCD should carry to 20, not 1A")
	require.False(t, cpu.Regs.GetFlag(flagC))
}

func TestBinaryAdcSetsCarryAndOverflow(t *testing.T) {
	bus, cpu := newTestSNESCPU()
	cpu.Regs.PC = 0x8000
	cpu.Regs.A = 0x007F // +127
	cpu.Regs.SetFlag(flagD, false)
	cpu.Regs.SetFlag(flagC, false)

	loadCode(bus, 0, 0x8000, 0x69, 0x01) // ADC #$01 -> 128, signed overflow

	cpu.Step()
	require.Equal(t, uint16(0x0080), cpu.Regs.A)
	require.True(t, cpu.Regs.GetFlag(flagV))
	require.True(t, cpu.Regs.GetFlag(flagN))
	require.False(t, cpu.Regs.GetFlag(flagC))
}

func TestRepSepSwitchAccumulatorWidth(t *testing.T) {
	bus, cpu := newTestSNESCPU()
	cpu.Regs.SetEmulation(false)
	cpu.Regs.PC = 0x8000
	require.True(t, cpu.Regs.WidthM())

	loadCode(bus, 0, 0x8000, 0xC2, 0x20) // REP #$20 clears M -> 16-bit accumulator
	cpu.Step()
	require.False(t, cpu.Regs.WidthM())

	loadCode(bus, 0, 0x8002, 0xE2, 0x20) // SEP #$20 sets M -> 8-bit accumulator again
	cpu.Step()
	require.True(t, cpu.Regs.WidthM())
}

func TestLDAAbsoluteXBankWrapDiffersByMode(t *testing.T) {
	bus, cpu := newTestSNESCPU()
	cpu.Regs.DBR = 0x7E
	cpu.Regs.X = 1

	// Native mode: off+X wraps within the same bank, no carry into bank 0x7F.
	// Banks 0x7E/0x7F are distinct WRAM halves (banks 0x00/0x01 would both
	// alias WRAM[0] through the system-page mirror).
	cpu.Regs.SetEmulation(false)
	bus.Write8(0x7E0000, 0xAA) // wrap target in bank 0x7E
	bus.Write8(0x7F0000, 0xBB) // would-be bank-0x7F target if carry occurred
	cpu.Regs.PC = 0x8000
	loadCode(bus, 0, 0x8000, 0xBD, 0xFF, 0xFF) // LDA $FFFF,X
	cpu.Step()
	require.Equal(t, uint16(0x00AA), cpu.Regs.A, "native mode must not carry into the next bank")

	// Emulation mode: the same operand carries into bank 0x7F.
	cpu.Regs.SetEmulation(true)
	cpu.Regs.PC = 0x8003
	loadCode(bus, 0, 0x8003, 0xBD, 0xFF, 0xFF)
	cpu.Step()
	require.Equal(t, uint16(0x00BB), cpu.Regs.A, "emulation mode carries the bank-crossing add")
}

func TestStackPointerHighBytePinnedInEmulationMode(t *testing.T) {
	_, cpu := newTestSNESCPU()
	require.True(t, cpu.Regs.Emulation)
	require.Equal(t, uint16(0x01FF), cpu.Regs.SP)

	cpu.push8(0x42)
	require.Equal(t, uint16(0x01FE), cpu.Regs.SP, "push must not clear the pinned 0x01 high byte")
}

func TestXCESwapsCarryAndEmulationFlags(t *testing.T) {
	bus, cpu := newTestSNESCPU()
	cpu.Regs.PC = 0x8000
	require.True(t, cpu.Regs.Emulation)
	require.False(t, cpu.Regs.GetFlag(flagC)) // carry clear out of reset
	loadCode(bus, 0, 0x8000, 0xFB)            // XCE

	cpu.Step()
	require.False(t, cpu.Regs.Emulation, "new E takes the old C (clear), leaving emulation mode")
	require.True(t, cpu.Regs.GetFlag(flagC), "new C takes the old E (set)")
}
