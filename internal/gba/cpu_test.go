package gba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestGBACPU() *CPU {
	bus := newTestGBABus()
	cpu := bus.CPU
	cpu.Regs.SetMode(ModeSystem)
	cpu.Regs.R[15] = 0x02000000
	cpu.Regs.SetFlag(flagT, false)
	return cpu
}

func writeARM(cpu *CPU, addr uint32, instr uint32) {
	cpu.Bus.Write32(addr, instr)
}

func TestARMDataProcessingMOVImmediateSetsFlags(t *testing.T) {
	cpu := newTestGBACPU()
	// MOVS r0, #0  (cond=AL, opcode=MOV, S=1, Rd=0, imm=0)
	writeARM(cpu, 0x02000000, 0xE3B00000)
	cycles := cpu.Step()
	require.Greater(t, cycles, 0)
	require.Equal(t, uint32(0), cpu.Regs.R[0])
	require.True(t, cpu.Regs.Flag(flagZ))
}

func TestARMAddWithImmediateOperand(t *testing.T) {
	cpu := newTestGBACPU()
	cpu.Regs.R[1] = 5
	// ADD r0, r1, #10
	writeARM(cpu, 0x02000000, 0xE281000A)
	cpu.Step()
	require.Equal(t, uint32(15), cpu.Regs.R[0])
}

func TestARMBranchLinkSetsLR(t *testing.T) {
	cpu := newTestGBACPU()
	// BL +8 (offset encoded as 2 words)
	writeARM(cpu, 0x02000000, 0xEB000002)
	before := cpu.Regs.R[15]
	cpu.Step()
	require.Equal(t, before+4, cpu.Regs.R[14])
	require.Equal(t, before+16, cpu.Regs.R[15]) // pcOperand (addr+8) plus the encoded +8 branch offset
}

func TestARMConditionalInstructionIsNoOpWhenConditionFails(t *testing.T) {
	cpu := newTestGBACPU()
	cpu.Regs.SetFlag(flagZ, false)
	cpu.Regs.R[0] = 0xAAAAAAAA
	// MOVEQ r0, #0 - EQ condition fails since Z is clear
	writeARM(cpu, 0x02000000, 0x03A00000)
	cycles := cpu.Step()
	require.Equal(t, 1, cycles)
	require.Equal(t, uint32(0xAAAAAAAA), cpu.Regs.R[0])
}

func TestThumbMoveImmediateAndAdd(t *testing.T) {
	cpu := newTestGBACPU()
	cpu.Regs.SetFlag(flagT, true)
	cpu.Regs.R[15] = 0x02000000
	cpu.Bus.Write16(0x02000000, 0x2005) // MOV r0, #5
	cpu.Bus.Write16(0x02000002, 0x3003) // ADD r0, #3
	cpu.Step()
	cpu.Step()
	require.Equal(t, uint32(8), cpu.Regs.R[0])
}

func TestThumbBranchAndLink(t *testing.T) {
	cpu := newTestGBACPU()
	cpu.Regs.SetFlag(flagT, true)
	cpu.Regs.R[15] = 0x02000000
	cpu.Bus.Write16(0x02000000, 0xF000) // BL high part, offset 0
	cpu.Bus.Write16(0x02000002, 0xF801) // BL low part, offset11=1 -> +2
	cpu.Step()
	cpu.Step()
	require.Equal(t, uint32(0x02000006), cpu.Regs.R[15])
	require.True(t, cpu.Regs.R[14]&1 != 0)
}

func TestIRQEntrySwitchesToIRQModeAndDisablesFurtherIRQs(t *testing.T) {
	cpu := newTestGBACPU()
	cpu.Bus.ie = 1
	cpu.Bus.ime = true
	cpu.Bus.RequestInterrupt(1)
	cycles := cpu.Step()
	require.Greater(t, cycles, 0)
	require.Equal(t, ModeIRQ, cpu.Regs.Mode())
	require.True(t, cpu.Regs.Flag(flagI))
	require.Equal(t, uint32(0x18), cpu.Regs.R[15])
}

func TestHaltWakesOnPendingInterrupt(t *testing.T) {
	cpu := newTestGBACPU()
	cpu.Halt()
	require.Equal(t, 1, cpu.Step())
	cpu.Bus.ie = 1
	cpu.Bus.ime = true
	cpu.Bus.RequestInterrupt(1)
	cycles := cpu.Step()
	require.False(t, cpu.halted)
	require.Greater(t, cycles, 1)
}
