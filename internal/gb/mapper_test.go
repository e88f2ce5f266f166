package gb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func makeROM(size int, headerByte0147 uint8, ramCode uint8) []byte {
	rom := make([]byte, size)
	rom[0x0147] = headerByte0147
	rom[0x0149] = ramCode
	for bank := 0; bank*0x4000 < size; bank++ {
		if bank == 0 {
			continue
		}
		rom[bank*0x4000] = uint8(bank) // tag each bank's first byte with its index
	}
	return rom
}

func TestMBC1BankSwitching(t *testing.T) {
	rom := makeROM(128*1024, 0x01, 0x00) // MBC1, 8 banks
	m := NewMapper(rom)

	m.Write(0x2000, 0x05) // select ROM bank 5
	require.Equal(t, uint8(5), m.ReadROM(0x4000))

	m.Write(0x2000, 0x00) // bank 0 write aliases to bank 1
	require.Equal(t, uint8(1), m.ReadROM(0x4000))
}

func TestMBC1RAMBankingModeSwitchesRAMBank(t *testing.T) {
	rom := makeROM(32*1024, 0x03, 0x03) // MBC1+RAM+battery, 32KB RAM
	m := NewMapper(rom)

	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0x6000, 0x01) // RAM banking mode
	m.Write(0x4000, 0x02) // select RAM bank 2

	m.WriteRAM(0x0010, 0x42)
	require.Equal(t, uint8(0x42), m.ReadRAM(0x0010))

	m.Write(0x4000, 0x01) // switch to a different bank; old value should not be visible
	require.NotEqual(t, uint8(0x42), m.ReadRAM(0x0010))
}

func TestMBC3RTCLatchesOnRisingEdge(t *testing.T) {
	rom := makeROM(64*1024, 0x0F, 0x00)
	m := NewMapper(rom)
	mbc3Impl := m.(*mbc3)
	mbc3Impl.rtc.seconds = 30

	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x08) // select RTC seconds register

	m.Write(0x6000, 0x00)
	require.NotEqual(t, uint8(30), m.ReadRAM(0)) // not latched yet

	m.Write(0x6000, 0x01) // rising edge: latch now
	require.Equal(t, uint8(30), m.ReadRAM(0))

	mbc3Impl.rtc.seconds = 45
	require.Equal(t, uint8(30), m.ReadRAM(0)) // latch still holds the old snapshot
}

func TestMBC3RTCAdvancesAndCarriesDays(t *testing.T) {
	rom := makeROM(32*1024, 0x10, 0x00)
	m := NewMapper(rom)
	mbc3Impl := m.(*mbc3)

	mbc3Impl.TickRTC(61) // 1 minute, 1 second
	require.Equal(t, uint8(1), mbc3Impl.rtc.seconds)
	require.Equal(t, uint8(1), mbc3Impl.rtc.minutes)

	mbc3Impl.rtc.dayLow = 0xFF
	mbc3Impl.rtc.dayHigh = 0x01 // day = 0x1FF, one below overflow
	mbc3Impl.TickRTC(24 * 3600)
	require.True(t, mbc3Impl.rtc.dayHigh&0x80 != 0, "day counter should set the carry flag on overflow")
}

func TestMBC5RumbleMasksBankBit(t *testing.T) {
	rom := makeROM(32*1024, 0x1B, 0x03) // MBC5+RAM+battery+rumble
	m := NewMapper(rom)
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x0B) // bit 3 (rumble motor) set along with bank bits

	m.WriteRAM(0, 0x77)
	m.Write(0x4000, 0x03) // same masked bank, rumble bit cleared
	require.Equal(t, uint8(0x77), m.ReadRAM(0), "rumble control bit must not affect the RAM bank actually addressed")
}

func TestMapperSaveStateRoundTrip(t *testing.T) {
	rom := makeROM(64*1024, 0x03, 0x02) // MBC1 + battery + 8KB RAM
	m := NewMapper(rom)
	m.Write(0x0000, 0x0A)
	m.WriteRAM(0x10, 0x99)
	m.Write(0x2000, 0x03)

	blob := m.saveStateBlob()

	m2 := NewMapper(rom)
	require.NoError(t, m2.loadStateBlob(blob))
	m2.Write(0x0000, 0x0A)
	require.Equal(t, uint8(0x99), m2.ReadRAM(0x10))
}

func TestBatterySaveRoundTrip(t *testing.T) {
	rom := makeROM(32*1024, 0x03, 0x02)
	m := NewMapper(rom)
	m.Write(0x0000, 0x0A)
	m.WriteRAM(5, 0xAB)

	saved := m.BatteryData()

	m2 := NewMapper(rom)
	require.NoError(t, m2.SetBatteryData(saved))
	m2.Write(0x0000, 0x0A)
	require.Equal(t, uint8(0xAB), m2.ReadRAM(5))
}
