package gba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectSaveKindScansTagStrings(t *testing.T) {
	rom := make([]byte, 0x1000)
	copy(rom[0x200:], []byte("FLASH1M_V120"))
	require.Equal(t, SaveFlash128K, DetectSaveKind(rom))
}

func TestFlashUnlockSequenceEntersIDMode(t *testing.T) {
	rom := make([]byte, 0x1000)
	m := newFlashCart(rom, 64*1024)

	m.WriteSRAM(0x5555, 0xAA)
	m.WriteSRAM(0x2AAA, 0x55)
	m.WriteSRAM(0x5555, 0x90)
	require.True(t, m.idMode)
	require.Equal(t, uint8(0x32), m.ReadSRAM(0))
	require.Equal(t, uint8(0x1B), m.ReadSRAM(1))

	m.WriteSRAM(0x5555, 0xAA)
	m.WriteSRAM(0x2AAA, 0x55)
	m.WriteSRAM(0x5555, 0xF0)
	require.False(t, m.idMode)
}

func TestFlashChipEraseSetsAllBytesToFF(t *testing.T) {
	rom := make([]byte, 0x1000)
	m := newFlashCart(rom, 64*1024)
	m.data[0x100] = 0x42

	m.WriteSRAM(0x5555, 0xAA)
	m.WriteSRAM(0x2AAA, 0x55)
	m.WriteSRAM(0x5555, 0x80)
	m.WriteSRAM(0x5555, 0xAA)
	m.WriteSRAM(0x2AAA, 0x55)
	m.WriteSRAM(0x0000, 0x10)

	for _, b := range m.data {
		require.Equal(t, uint8(0xFF), b)
	}
}

func TestFlashWritesOnlyClearBits(t *testing.T) {
	rom := make([]byte, 0x1000)
	m := newFlashCart(rom, 64*1024)
	m.data[0x10] = 0xFF

	m.WriteSRAM(0x5555, 0xAA)
	m.WriteSRAM(0x2AAA, 0x55)
	m.WriteSRAM(0x5555, 0xA0)
	m.WriteSRAM(0x10, 0x0F) // AND against 0xFF clears the top nibble

	require.Equal(t, uint8(0x0F), m.data[0x10])
}

func TestGPIOFullDateTimeReadSequence(t *testing.T) {
	g := &gpioDevice{hasRTC: true}
	g.rtc = rtcRegs{year: 0x26, month: 0x07, day: 0x30, hour: 0x12}
	g.control = 1
	g.enabled = true

	g.write(0xC8, 1)
	// Clock in command 0x65 one bit at a time with CS held high.
	cmd := uint8(0x65)
	for i := 7; i >= 0; i-- {
		bit := (cmd >> uint(i)) & 1
		g.writeData(gpioPinCS | uint16(bit)<<1)             // SIO settle, SCK low
		g.writeData(gpioPinCS | gpioPinSCK | uint16(bit)<<1) // SCK rising edge shifts the bit in
	}
	require.True(t, g.haveCommand)
	require.Equal(t, []uint8{0x26, 0x07, 0x30, 0, 0x12, 0, 0}, g.bitsOut)
}
