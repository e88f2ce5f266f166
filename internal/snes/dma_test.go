package snes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOneShotDMATransfersToOAMDataPort(t *testing.T) {
	bus := newTestSNESBus()
	bus.DMA.Reset()
	bus.PPU.Reset()

	// Seed four source bytes in WRAM bank 0x7E.
	src := []byte{0x11, 0x22, 0x33, 0x44}
	for i, b := range src {
		bus.Write8(0x7E0000+uint32(i), b)
	}

	bus.PPU.Write(0x2102, 0x00) // OAMADD low
	bus.PPU.Write(0x2103, 0x00) // OAMADD high

	ch := &bus.DMA.ch[0]
	ch.dmap = 0x00 // A->B, increment, 1 byte per unit
	ch.bbad = 0x04 // targets $2104 (OAM data write)
	ch.a1b = 0x7E
	ch.a1t = 0x0000
	ch.das = uint16(len(src))

	bus.DMA.StartOneShot(0x01)

	require.Equal(t, uint8(0x11), bus.PPU.oam[0])
	require.Equal(t, uint8(0x22), bus.PPU.oam[1])
	require.Equal(t, uint8(0x33), bus.PPU.oam[2])
	require.Equal(t, uint8(0x44), bus.PPU.oam[3])
	require.Equal(t, uint16(0), ch.das)
}

func TestHDMALineCounterZeroInFirstEntryTerminatesWithNoTransfer(t *testing.T) {
	bus := newTestSNESBus()
	bus.DMA.Reset()
	bus.PPU.Reset()

	tableAddr := uint32(0x7E1000)
	bus.Write8(tableAddr, 0x00) // first NLTR entry is zero: terminate immediately

	ch := &bus.DMA.ch[0]
	ch.dmap = 0x00
	ch.bbad = 0x04
	ch.a1b = 0x7E
	ch.a1t = 0x1000

	bus.PPU.Write(0x2102, 0x00)
	bus.PPU.Write(0x2103, 0x00)
	preOAM := bus.PPU.oam[0]

	bus.DMA.SetHDMAEnable(0x01)

	require.True(t, ch.hdmaTerminated)
	require.False(t, ch.hdmaDoTransfer)
	require.Equal(t, preOAM, bus.PPU.oam[0], "no B-bus transfer should have occurred")

	// Further HBlanks must not resurrect a terminated channel.
	bus.DMA.OnHBlank()
	require.True(t, ch.hdmaTerminated)
}

func TestHDMARepeatingModeTransfersEveryLineUntilCounterExpires(t *testing.T) {
	bus := newTestSNESBus()
	bus.DMA.Reset()
	bus.PPU.Reset()

	tableAddr := uint32(0x7E2000)
	// NLTR=0x82: repeat bit set, 2 lines; one direct data byte per line follows.
	bus.Write8(tableAddr, 0x82)
	bus.Write8(tableAddr+1, 0xAB)
	bus.Write8(tableAddr+2, 0xCD)

	ch := &bus.DMA.ch[0]
	ch.dmap = 0x00
	ch.bbad = 0x04
	ch.a1b = 0x7E
	ch.a1t = 0x2000

	bus.PPU.Write(0x2102, 0x00)
	bus.PPU.Write(0x2103, 0x00)

	bus.DMA.SetHDMAEnable(0x01)
	require.True(t, ch.hdmaDoTransfer, "init should arm the first transfer")
	require.Equal(t, uint8(0), bus.PPU.oam[0], "initChannel only reads the table, the transfer itself runs on the next HBlank")

	bus.DMA.OnHBlank()
	require.Equal(t, uint8(0xAB), bus.PPU.oam[0])
	require.Equal(t, 1, ch.hdmaLineCounter)
	require.True(t, ch.hdmaDoTransfer, "repeat bit keeps transferring on subsequent lines")

	bus.DMA.OnHBlank()
	require.Equal(t, uint8(0xCD), bus.PPU.oam[1], "direct-mode HDMA reads the next sequential data byte each repeated line")
	require.Equal(t, 0, ch.hdmaLineCounter)
}

func TestReadRegisterAndWriteRegisterRoundTripChannelFields(t *testing.T) {
	bus := newTestSNESBus()
	bus.DMA.Reset()

	bus.DMA.WriteRegister(0x4300, 0x42) // channel 0 DMAP
	bus.DMA.WriteRegister(0x4302, 0x34) // A1TL
	bus.DMA.WriteRegister(0x4303, 0x12) // A1TH

	require.Equal(t, uint8(0x42), bus.DMA.ReadRegister(0x4300))
	require.Equal(t, uint8(0x34), bus.DMA.ReadRegister(0x4302))
	require.Equal(t, uint8(0x12), bus.DMA.ReadRegister(0x4303))
	require.Equal(t, uint16(0x1234), bus.DMA.ch[0].a1t)
}
