// bus.go - 24-bit SNES memory bus
//
// License: GPLv3 or later

package snes

import "github.com/zaynotley/tricore/internal/core"

// Bus decodes the SNES's 24-bit (bank:offset) address space into WRAM,
// PPU/APU register windows, CPU I/O registers, DMA/HDMA channel
// registers, and the cartridge mapper.
type Bus struct {
	WRAM [0x20000]byte // 128 KB

	Mapper Mapper
	PPU    *PPU
	APU    *APU
	DMA    *DMA

	openBus uint8

	// WRAM data port ($2180-$2183).
	wramAddr uint32

	// CPU I/O ($4200-$421F).
	nmitimen uint8
	wrio     uint8
	wrmpya   uint8
	wrmpyb   uint8
	wrdiv    uint16
	htime    uint16
	vtime    uint16
	memsel   uint8
	rddiv    uint16
	rdmpy    uint16
	rdnmi    uint8
	timeup   uint8

	joy1, joy2     uint16
	joyLatch       [2]uint16
	autoJoyRead    bool
	autoJoyCounter int

	input core.Input

	nmiLine bool
	irqLine bool
	irqLock bool
}

func NewBus() *Bus { return &Bus{} }

func (b *Bus) Reset() {
	b.nmitimen = 0
	b.wrio = 0xFF
	b.memsel = 0
	b.rdnmi = 0
	b.timeup = 0
	b.nmiLine = false
	b.irqLine = false
}

func (b *Bus) SetInput(in core.Input) { b.input = in }

func (b *Bus) latch() uint8 { return b.openBus }

// isSystemBank reports whether low-half registers (WRAM mirror, PPU/APU,
// CPU I/O, DMA) are visible in this bank: only banks 00-3F and 80-BF
// carry the system page at $0000-$5FFF.
func isSystemBank(bank uint8) bool { return bank&0x7F <= 0x3F }

func (b *Bus) Read8(addr uint32) uint8 {
	bank := uint8(addr >> 16)
	off := uint16(addr)

	if bank == 0x7E || bank == 0x7F {
		v := b.WRAM[(uint32(bank&1)<<16)|uint32(off)]
		b.openBus = v
		return v
	}

	if isSystemBank(bank) {
		switch {
		case off < 0x2000:
			v := b.WRAM[off]
			b.openBus = v
			return v
		case off >= 0x2100 && off <= 0x213F:
			v := b.PPU.Read(off)
			b.openBus = v
			return v
		case off >= 0x2140 && off <= 0x217F:
			v := b.APU.ReadPort(int(off & 0x03))
			b.openBus = v
			return v
		case off >= 0x2180 && off <= 0x2183:
			v := b.readWRAMPort(off)
			b.openBus = v
			return v
		case off >= 0x4200 && off <= 0x421F:
			v := b.readCPUIO(off)
			b.openBus = v
			return v
		case off >= 0x4300 && off <= 0x437F:
			v := b.DMA.ReadRegister(off)
			b.openBus = v
			return v
		}
	}

	if v, ok := b.Mapper.ReadRAM(addr, off); ok {
		b.openBus = v
		return v
	}
	if v, ok := b.Mapper.ReadROM(addr, bank, off); ok {
		b.openBus = v
		return v
	}

	return b.latch()
}

func (b *Bus) Write8(addr uint32, v uint8) {
	bank := uint8(addr >> 16)
	off := uint16(addr)
	b.openBus = v

	if bank == 0x7E || bank == 0x7F {
		b.WRAM[(uint32(bank&1)<<16)|uint32(off)] = v
		return
	}

	if isSystemBank(bank) {
		switch {
		case off < 0x2000:
			b.WRAM[off] = v
			return
		case off >= 0x2100 && off <= 0x213F:
			b.PPU.Write(off, v)
			return
		case off >= 0x2140 && off <= 0x217F:
			b.APU.WritePort(int(off&0x03), v)
			return
		case off >= 0x2180 && off <= 0x2183:
			b.writeWRAMPort(off, v)
			return
		case off >= 0x4200 && off <= 0x421F:
			b.writeCPUIO(off, v)
			return
		case off >= 0x4300 && off <= 0x437F:
			b.DMA.WriteRegister(off, v)
			return
		}
	}

	if b.Mapper.WriteRAM(addr, off, v) {
		return
	}
	b.Mapper.WriteROM(addr, bank, off, v)
}

func (b *Bus) readWRAMPort(off uint16) uint8 {
	switch off {
	case 0x2180:
		v := b.WRAM[b.wramAddr&0x1FFFF]
		b.wramAddr = (b.wramAddr + 1) & 0x1FFFF
		return v
	}
	return b.latch()
}

func (b *Bus) writeWRAMPort(off uint16, v uint8) {
	switch off {
	case 0x2180:
		b.WRAM[b.wramAddr&0x1FFFF] = v
		b.wramAddr = (b.wramAddr + 1) & 0x1FFFF
	case 0x2181:
		b.wramAddr = b.wramAddr&0x1FF00 | uint32(v)
	case 0x2182:
		b.wramAddr = b.wramAddr&0x100FF | uint32(v)<<8
	case 0x2183:
		b.wramAddr = b.wramAddr&0x0FFFF | uint32(v&1)<<16
	}
}

// readCPUIO / writeCPUIO implement the $4200-$421F block: NMI/IRQ timing
// control, the hardware multiply/divide unit, and the controller data
// ports.
func (b *Bus) readCPUIO(off uint16) uint8 {
	switch off {
	case 0x4210:
		v := b.rdnmi | 0x02 // bits 0-3 CPU version, fixed at 2 here
		b.rdnmi &^= 0x80
		return v
	case 0x4211:
		v := b.timeup
		b.timeup &^= 0x80
		return v
	case 0x4212:
		v := uint8(0)
		if b.autoJoyRead {
			v |= 0x01
		}
		return v
	case 0x4214:
		return uint8(b.rddiv)
	case 0x4215:
		return uint8(b.rddiv >> 8)
	case 0x4216:
		return uint8(b.rdmpy)
	case 0x4217:
		return uint8(b.rdmpy >> 8)
	case 0x4218:
		return uint8(b.joyLatch[0])
	case 0x4219:
		return uint8(b.joyLatch[0] >> 8)
	case 0x421A:
		return uint8(b.joyLatch[1])
	case 0x421B:
		return uint8(b.joyLatch[1] >> 8)
	}
	return b.latch()
}

func (b *Bus) writeCPUIO(off uint16, v uint8) {
	switch off {
	case 0x4200:
		b.nmitimen = v
		b.autoJoyRead = v&0x01 != 0
	case 0x4201:
		b.wrio = v
	case 0x4202:
		b.wrmpya = v
	case 0x4203:
		b.wrmpyb = v
		b.rdmpy = uint16(b.wrmpya) * uint16(v)
	case 0x4204:
		b.wrdiv = b.wrdiv&0xFF00 | uint16(v)
	case 0x4205:
		b.wrdiv = b.wrdiv&0x00FF | uint16(v)<<8
	case 0x4206:
		if v == 0 {
			b.rddiv = 0xFFFF
			b.rdmpy = b.wrdiv
		} else {
			b.rddiv = b.wrdiv / uint16(v)
			b.rdmpy = b.wrdiv % uint16(v)
		}
	case 0x4207:
		b.htime = b.htime&0xFF00 | uint16(v)
	case 0x4208:
		b.htime = b.htime&0x00FF | uint16(v&1)<<8
	case 0x4209:
		b.vtime = b.vtime&0xFF00 | uint16(v)
	case 0x420A:
		b.vtime = b.vtime&0x00FF | uint16(v&1)<<8
	case 0x420B:
		b.DMA.StartOneShot(v)
	case 0x420C:
		b.DMA.SetHDMAEnable(v)
	case 0x420D:
		b.memsel = v
	}
}

// LatchJoypad copies current input into the auto-joypad-read latches at
// the start of VBlank, mirroring the single controller this emulator
// exposes: controller metadata is host glue, but the two 16-bit data
// registers are part of the bus contract.
func (b *Bus) LatchJoypad() {
	var v uint16
	set := func(btn core.Button, bit uint16) {
		if b.input.Held(btn) {
			v |= bit
		}
	}
	set(core.ButtonB, 1<<15)
	set(core.ButtonY, 1<<14)
	set(core.ButtonSelect, 1<<13)
	set(core.ButtonStart, 1<<12)
	set(core.ButtonUp, 1<<11)
	set(core.ButtonDown, 1<<10)
	set(core.ButtonLeft, 1<<9)
	set(core.ButtonRight, 1<<8)
	set(core.ButtonA, 1<<7)
	set(core.ButtonX, 1<<6)
	set(core.ButtonL, 1<<5)
	set(core.ButtonR, 1<<4)
	b.joyLatch[0] = v
	b.joyLatch[1] = 0
}

// RequestNMI / RequestIRQTimer raise the respective interrupt lines; the
// CPU polls them at the start of every Step.
func (b *Bus) RequestNMI() {
	if b.nmitimen&0x80 != 0 {
		b.nmiLine = true
	}
	b.rdnmi |= 0x80
}

func (b *Bus) RequestIRQTimer() {
	b.timeup |= 0x80
	if b.nmitimen&0x30 != 0 {
		b.irqLine = true
	}
}

func (b *Bus) NMIPending() bool {
	if b.nmiLine {
		b.nmiLine = false
		return true
	}
	return false
}

func (b *Bus) IRQLineActive() bool {
	if b.irqLock {
		b.irqLock = false
		return false
	}
	return b.irqLine
}

func (b *Bus) ClearIRQLine() { b.irqLine = false }

// HTime / VTime expose the H/V-IRQ compare registers to the scheduler.
func (b *Bus) HTime() uint16 { return b.htime }
func (b *Bus) VTime() uint16 { return b.vtime }
func (b *Bus) IRQMode() uint8 { return b.nmitimen & 0x30 }

// SetIRQLock mirrors the DMA engine's post-transfer IRQ inhibition
// window (grounded on dma.cpp's set_irq_lock comment): the lock holds off
// the next IRQLineActive poll and is released by it.
func (b *Bus) SetIRQLock(on bool) { b.irqLock = on }
