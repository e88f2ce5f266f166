package snes

// testMapper is a flat 16MB address space used by tests that don't need
// LoROM/HiROM bank decoding, letting CPU/DMA tests place code and data at
// any bank:offset directly.
type testMapper struct {
	mem [0x1000000]byte
}

func newTestMapper() *testMapper { return &testMapper{} }

func (m *testMapper) ReadROM(addr uint32, bank uint8, off uint16) (uint8, bool) {
	return m.mem[addr&0xFFFFFF], true
}
func (m *testMapper) WriteROM(addr uint32, bank uint8, off uint16, v uint8) {
	m.mem[addr&0xFFFFFF] = v
}
func (m *testMapper) ReadRAM(addr uint32, off uint16) (uint8, bool)    { return 0, false }
func (m *testMapper) WriteRAM(addr uint32, off uint16, v uint8) bool   { return false }
func (m *testMapper) Reset()                                          {}
func (m *testMapper) HasBatterySave() bool                            { return false }
func (m *testMapper) SaveRAM() []byte                                 { return nil }
func (m *testMapper) LoadSaveRAM([]byte)                              {}
func (m *testMapper) saveStateBlob() []byte                           { return nil }
func (m *testMapper) loadStateBlob([]byte) error                      { return nil }

var _ Mapper = (*testMapper)(nil)

func newTestSNESBus() *Bus {
	bus := NewBus()
	bus.Mapper = newTestMapper()
	bus.PPU = NewPPU()
	bus.APU = NewAPU()
	bus.DMA = NewDMA(bus)
	return bus
}

func newTestSNESCPU() (*Bus, *CPU) {
	bus := newTestSNESBus()
	cpu := NewCPU(bus)
	cpu.Reset()
	return bus, cpu
}
