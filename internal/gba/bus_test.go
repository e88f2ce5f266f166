package gba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestGBABus() *Bus {
	rom := make([]byte, 0x2000000)
	bus := NewBus(make([]byte, 0x4000))
	bus.Mapper = newSRAMCart(rom)
	bus.PPU = NewPPU()
	bus.PPU.bus = bus
	bus.APU = NewAPU(44100)
	bus.Timers = NewTimers(bus)
	bus.DMA = NewDMAEngine(bus)
	bus.Keypad = NewKeypad()
	bus.CPU = NewCPU(bus)
	return bus
}

func TestInterruptAcknowledgeClearsOnlyWrittenBits(t *testing.T) {
	bus := newTestGBABus()
	bus.RequestInterrupt(1 << 0)
	bus.RequestInterrupt(1 << 3)

	bus.writeIO16(0x04000202, 1<<0)
	require.Equal(t, uint16(1<<3), bus.ifr)
}

func TestOpenBusLatchUpdatesOnMappedReadAndReturnsOnUnmapped(t *testing.T) {
	bus := newTestGBABus()
	bus.Write32(0x02000000, 0xDEADBEEF)
	v := bus.Read32(0x02000000)
	require.Equal(t, uint32(0xDEADBEEF), v)

	unmapped := bus.Read32(0x01000000) // reserved region between BIOS and EWRAM, not decoded
	require.Equal(t, uint32(0xDEADBEEF), unmapped)
}

func TestEWRAMAndIWRAMRoundTrip(t *testing.T) {
	bus := newTestGBABus()
	bus.Write16(0x02001000, 0x1234)
	require.Equal(t, uint16(0x1234), bus.Read16(0x02001000))

	bus.Write8(0x03000100, 0xAB)
	require.Equal(t, uint8(0xAB), bus.Read8(0x03000100))
}

func TestSRAMReadsReplicateByteAcrossWord(t *testing.T) {
	bus := newTestGBABus()
	bus.Mapper.WriteSRAM(0, 0x7E)
	v := bus.Read32(0x0E000000)
	require.Equal(t, uint32(0x7E7E7E7E), v)
}

func TestBIOSReadProtectionReturnsLatchOutsideExecutionWindow(t *testing.T) {
	bus := newTestGBABus()
	copy(bus.bios, []byte{0x11, 0x22, 0x33, 0x44})
	bus.CPU.Regs.R[15] = 0x00000000
	inBIOS := bus.Read32(0)
	require.Equal(t, uint32(0x44332211), inBIOS)

	bus.CPU.Regs.R[15] = 0x08000100 // executing from ROM now
	outsideBIOS := bus.Read32(0)
	require.Equal(t, inBIOS, outsideBIOS) // latch, not the live BIOS bytes
}
