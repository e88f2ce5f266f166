// opcodes.go - 65816 instruction dispatch
//
// License: GPLv3 or later

package snes

// execute decodes and runs one instruction, returning its approximate
// cycle cost. The opcode map groups ORA/AND/EOR/ADC/STA/LDA/CMP/SBC into
// eight "aaa" rows of fifteen addressing-mode columns inherited from
// the 6502 plus the 65816's additions (stack-relative, indirect-long,
// absolute-long); everything else is decoded explicitly below.
func (c *CPU) execute(op uint8) int {
	switch op {
	case 0xEA: // NOP
		return 2
	case 0x42: // WDM (reserved, consumes one operand byte)
		c.fetch8()
		return 2
	case 0xDB: // STP
		c.stopped = true
		return 3
	case 0xCB: // WAI
		c.waiting = true
		return 3
	case 0xFB: // XCE
		carry := c.Regs.GetFlag(flagC)
		c.Regs.SetFlag(flagC, c.Regs.Emulation)
		c.Regs.SetEmulation(carry)
		return 2
	case 0xC2: // REP
		mask := c.fetch8()
		c.Regs.P &^= mask
		if c.Regs.Emulation {
			c.Regs.P |= flagM | flagX
		}
		return 3
	case 0xE2: // SEP
		mask := c.fetch8()
		c.Regs.P |= mask
		if c.Regs.WidthX() {
			c.Regs.X &= 0xFF
			c.Regs.Y &= 0xFF
		}
		return 3
	case 0x18:
		c.Regs.SetFlag(flagC, false)
		return 2
	case 0x38:
		c.Regs.SetFlag(flagC, true)
		return 2
	case 0x58:
		c.Regs.SetFlag(flagI, false)
		return 2
	case 0x78:
		c.Regs.SetFlag(flagI, true)
		return 2
	case 0xB8:
		c.Regs.SetFlag(flagV, false)
		return 2
	case 0xD8:
		c.Regs.SetFlag(flagD, false)
		return 2
	case 0xF8:
		c.Regs.SetFlag(flagD, true)
		return 2

	// Transfers.
	case 0xAA: // TAX
		c.Regs.X = c.widthX(c.Regs.A)
		c.setNZX(c.Regs.X)
		return 2
	case 0xA8: // TAY
		c.Regs.Y = c.widthX(c.Regs.A)
		c.setNZX(c.Regs.Y)
		return 2
	case 0x8A: // TXA
		c.Regs.A = c.widthM(c.Regs.X)
		c.setNZM(c.Regs.A)
		return 2
	case 0x98: // TYA
		c.Regs.A = c.widthM(c.Regs.Y)
		c.setNZM(c.Regs.A)
		return 2
	case 0xBA: // TSX
		c.Regs.X = c.widthX(c.Regs.SP)
		c.setNZX(c.Regs.X)
		return 2
	case 0x9A: // TXS
		if c.Regs.Emulation {
			c.Regs.SP = 0x0100 | c.Regs.X&0xFF
		} else {
			c.Regs.SP = c.Regs.X
		}
		return 2
	case 0x9B: // TXY
		c.Regs.Y = c.widthX(c.Regs.X)
		c.setNZX(c.Regs.Y)
		return 2
	case 0xBB: // TYX
		c.Regs.X = c.widthX(c.Regs.Y)
		c.setNZX(c.Regs.X)
		return 2
	case 0x5B: // TCD
		c.Regs.D = c.Regs.A
		c.setNZ16(c.Regs.D)
		return 2
	case 0x7B: // TDC
		c.Regs.A = c.Regs.D
		c.setNZ16(c.Regs.A)
		return 2
	case 0x1B: // TCS
		if c.Regs.Emulation {
			c.Regs.SP = 0x0100 | c.Regs.A&0xFF
		} else {
			c.Regs.SP = c.Regs.A
		}
		return 2
	case 0x3B: // TSC
		c.Regs.A = c.Regs.SP
		c.setNZ16(c.Regs.A)
		return 2

	// Stack push/pop.
	case 0x48: // PHA
		c.pushM(c.Regs.A)
		return 3
	case 0x68: // PLA
		c.Regs.A = c.popM()
		c.setNZM(c.Regs.A)
		return 4
	case 0xDA: // PHX
		c.pushX(c.Regs.X)
		return 3
	case 0xFA: // PLX
		c.Regs.X = c.popX()
		c.setNZX(c.Regs.X)
		return 4
	case 0x5A: // PHY
		c.pushX(c.Regs.Y)
		return 3
	case 0x7A: // PLY
		c.Regs.Y = c.popX()
		c.setNZX(c.Regs.Y)
		return 4
	case 0x08: // PHP
		c.push8(c.Regs.P)
		return 3
	case 0x28: // PLP
		c.Regs.P = c.pop8()
		if c.Regs.Emulation {
			c.Regs.P |= flagM | flagX
		}
		return 4
	case 0x8B: // PHB
		c.push8(c.Regs.DBR)
		return 3
	case 0xAB: // PLB
		c.Regs.DBR = c.pop8()
		c.setNZ8(c.Regs.DBR)
		return 4
	case 0x0B: // PHD
		c.push16(c.Regs.D)
		return 4
	case 0x2B: // PLD
		c.Regs.D = c.pop16()
		c.setNZ16(c.Regs.D)
		return 5
	case 0x4B: // PHK
		c.push8(c.Regs.PBR)
		return 3
	case 0xF4: // PEA
		v := c.fetch16()
		c.push16(v)
		return 5
	case 0xD4: // PEI
		addr := c.addrDirect()
		v := c.read16(addr)
		c.push16(v)
		return 6
	case 0x62: // PER
		rel := int16(c.fetch16())
		v := uint16(int32(c.Regs.PC) + int32(rel))
		c.push16(v)
		return 6

	// Jumps/calls/returns.
	case 0x4C: // JMP abs
		c.Regs.PC = c.fetch16()
		return 3
	case 0x5C: // JMP long
		addr := c.fetch24()
		c.Regs.PBR = uint8(addr >> 16)
		c.Regs.PC = uint16(addr)
		return 4
	case 0x6C: // JMP (abs)
		ptr := c.fetch16()
		c.Regs.PC = c.read16(uint32(ptr))
		return 5
	case 0x7C: // JMP (abs,X)
		ptr := c.fetch16() + c.Regs.X
		c.Regs.PC = c.read16(uint32(c.Regs.PBR)<<16 | uint32(ptr))
		return 6
	case 0xDC: // JML [abs]
		ptr := c.fetch16()
		lo := uint32(c.read8(uint32(ptr)))
		mid := uint32(c.read8(uint32(ptr) + 1))
		hi := uint32(c.read8(uint32(ptr) + 2))
		c.Regs.PBR = uint8(hi)
		c.Regs.PC = uint16(mid<<8 | lo)
		return 6
	case 0x20: // JSR abs
		target := c.fetch16()
		c.push16(c.Regs.PC - 1)
		c.Regs.PC = target
		return 6
	case 0xFC: // JSR (abs,X)
		ptr := c.fetch16()
		c.push16(c.Regs.PC - 1)
		addr := uint32(c.Regs.PBR)<<16 | uint32(ptr+c.Regs.X)
		c.Regs.PC = c.read16(addr)
		return 8
	case 0x22: // JSL long
		addr := c.fetch24()
		c.push8(c.Regs.PBR)
		c.push16(c.Regs.PC - 1)
		c.Regs.PBR = uint8(addr >> 16)
		c.Regs.PC = uint16(addr)
		return 8
	case 0x60: // RTS
		c.Regs.PC = c.pop16() + 1
		return 6
	case 0x6B: // RTL
		c.Regs.PC = c.pop16() + 1
		c.Regs.PBR = c.pop8()
		return 6
	case 0x40: // RTI
		c.Regs.P = c.pop8()
		if c.Regs.Emulation {
			c.Regs.PC = c.pop16()
		} else {
			c.Regs.PC = c.pop16()
			c.Regs.PBR = c.pop8()
		}
		return 6
	case 0x00: // BRK
		c.fetch8() // signature byte
		c.enterInterrupt(vectorBRK, true)
		return 7
	case 0x02: // COP
		c.fetch8()
		c.enterInterrupt(vectorCOP, false)
		return 7

	// Branches.
	case 0x80: // BRA
		c.branch(true)
		return 3
	case 0x82: // BRL
		rel := int16(c.fetch16())
		c.Regs.PC = uint16(int32(c.Regs.PC) + int32(rel))
		return 4
	case 0x10:
		c.branch(!c.Regs.GetFlag(flagN))
		return 2
	case 0x30:
		c.branch(c.Regs.GetFlag(flagN))
		return 2
	case 0x50:
		c.branch(!c.Regs.GetFlag(flagV))
		return 2
	case 0x70:
		c.branch(c.Regs.GetFlag(flagV))
		return 2
	case 0x90:
		c.branch(!c.Regs.GetFlag(flagC))
		return 2
	case 0xB0:
		c.branch(c.Regs.GetFlag(flagC))
		return 2
	case 0xD0:
		c.branch(!c.Regs.GetFlag(flagZ))
		return 2
	case 0xF0:
		c.branch(c.Regs.GetFlag(flagZ))
		return 2

	// Block move.
	case 0x54: // MVP
		return c.blockMove(true)
	case 0x44: // MVN
		return c.blockMove(false)

	// Increment/decrement registers.
	case 0x1A: // INC A
		c.Regs.A = c.widthM(c.incDecM(c.Regs.A, 1))
		c.setNZM(c.Regs.A)
		return 2
	case 0x3A: // DEC A
		c.Regs.A = c.widthM(c.incDecM(c.Regs.A, -1))
		c.setNZM(c.Regs.A)
		return 2
	case 0xE8: // INX
		c.Regs.X = c.widthX(c.Regs.X + 1)
		c.setNZX(c.Regs.X)
		return 2
	case 0xC8: // INY
		c.Regs.Y = c.widthX(c.Regs.Y + 1)
		c.setNZX(c.Regs.Y)
		return 2
	case 0xCA: // DEX
		c.Regs.X = c.widthX(c.Regs.X - 1)
		c.setNZX(c.Regs.X)
		return 2
	case 0x88: // DEY
		c.Regs.Y = c.widthX(c.Regs.Y - 1)
		c.setNZX(c.Regs.Y)
		return 2

	// Shifts on the accumulator.
	case 0x0A:
		c.Regs.A = c.widthM(c.asl(c.Regs.A))
		return 2
	case 0x4A:
		c.Regs.A = c.widthM(c.lsr(c.Regs.A))
		return 2
	case 0x2A:
		c.Regs.A = c.widthM(c.rol(c.Regs.A))
		return 2
	case 0x6A:
		c.Regs.A = c.widthM(c.ror(c.Regs.A))
		return 2

	// LDX/STX/LDY/STY/CPX/CPY and memory INC/DEC/ASL/LSR/ROL/ROR/TSB/TRB,
	// decoded by addressing-mode offset shared with the cc=10/cc=00 table.
	default:
		if handled, cycles := c.executeMisc(op); handled {
			return cycles
		}
		return c.executeGroup(op)
	}
}

func (c *CPU) widthM(v uint16) uint16 {
	if c.Regs.WidthM() {
		return c.Regs.A&0xFF00 | v&0xFF
	}
	return v
}

func (c *CPU) widthX(v uint16) uint16 {
	if c.Regs.WidthX() {
		return v & 0xFF
	}
	return v
}

func (c *CPU) pushM(v uint16) {
	if c.Regs.WidthM() {
		c.push8(uint8(v))
	} else {
		c.push16(v)
	}
}

func (c *CPU) popM() uint16 {
	if c.Regs.WidthM() {
		return c.Regs.A&0xFF00 | uint16(c.pop8())
	}
	return c.pop16()
}

func (c *CPU) pushX(v uint16) {
	if c.Regs.WidthX() {
		c.push8(uint8(v))
	} else {
		c.push16(v)
	}
}

func (c *CPU) popX() uint16 {
	if c.Regs.WidthX() {
		return uint16(c.pop8())
	}
	return c.pop16()
}

func (c *CPU) branch(take bool) {
	rel := int8(c.fetch8())
	if take {
		c.Regs.PC = uint16(int32(c.Regs.PC) + int32(rel))
	}
}

func (c *CPU) incDecM(v uint16, delta int) uint16 {
	if c.Regs.WidthM() {
		return uint16(uint8(int16(uint8(v)) + int16(delta)))
	}
	return uint16(int32(v) + int32(delta))
}

func (c *CPU) asl(v uint16) uint16 {
	if c.Regs.WidthM() {
		r := uint8(v) << 1
		c.Regs.SetFlag(flagC, v&0x80 != 0)
		c.setNZ8(r)
		return uint16(r)
	}
	r := v << 1
	c.Regs.SetFlag(flagC, v&0x8000 != 0)
	c.setNZ16(r)
	return r
}

func (c *CPU) lsr(v uint16) uint16 {
	if c.Regs.WidthM() {
		b := uint8(v)
		r := b >> 1
		c.Regs.SetFlag(flagC, b&1 != 0)
		c.setNZ8(r)
		return uint16(r)
	}
	r := v >> 1
	c.Regs.SetFlag(flagC, v&1 != 0)
	c.setNZ16(r)
	return r
}

func (c *CPU) rol(v uint16) uint16 {
	carryIn := uint16(0)
	if c.Regs.GetFlag(flagC) {
		carryIn = 1
	}
	if c.Regs.WidthM() {
		b := uint8(v)
		r := b<<1 | uint8(carryIn)
		c.Regs.SetFlag(flagC, b&0x80 != 0)
		c.setNZ8(r)
		return uint16(r)
	}
	r := v<<1 | carryIn
	c.Regs.SetFlag(flagC, v&0x8000 != 0)
	c.setNZ16(r)
	return r
}

func (c *CPU) ror(v uint16) uint16 {
	carryIn := uint16(0)
	if c.Regs.GetFlag(flagC) {
		carryIn = 1
	}
	if c.Regs.WidthM() {
		b := uint8(v)
		r := b>>1 | uint8(carryIn<<7)
		c.Regs.SetFlag(flagC, b&1 != 0)
		c.setNZ8(r)
		return uint16(r)
	}
	r := v>>1 | carryIn<<15
	c.Regs.SetFlag(flagC, v&1 != 0)
	c.setNZ16(r)
	return r
}

func (c *CPU) blockMove(decrement bool) int {
	dstBank := c.fetch8()
	srcBank := c.fetch8()
	c.Regs.DBR = dstBank
	n := int32(c.Regs.A) + 1
	for i := int32(0); i < n; i++ {
		v := c.Bus.Read8(uint32(srcBank)<<16 | uint32(c.Regs.X))
		c.Bus.Write8(uint32(dstBank)<<16|uint32(c.Regs.Y), v)
		if decrement {
			c.Regs.X--
			c.Regs.Y--
		} else {
			c.Regs.X++
			c.Regs.Y++
		}
		c.Regs.A--
	}
	if c.Regs.A != 0xFFFF {
		c.Regs.PC -= 3 // repeat the instruction until A underflows to -1
	}
	return 7
}

// executeMisc decodes the handful of opcodes whose addressing-mode
// column doesn't follow the generic ALU-group layout: LDX/STX/LDY/STY,
// CPX/CPY, memory INC/DEC/ASL/LSR/ROL/ROR, TSB/TRB, STZ, and BIT (memory
// forms).
func (c *CPU) executeMisc(op uint8) (bool, int) {
	switch op {
	case 0xA2: // LDX #
		v := c.fetchX()
		c.Regs.X = c.widthX(v)
		c.setNZX(c.Regs.X)
		return true, 2
	case 0xA0: // LDY #
		v := c.fetchX()
		c.Regs.Y = c.widthX(v)
		c.setNZX(c.Regs.Y)
		return true, 2
	case 0xA6, 0xB6, 0xAE, 0xBE, 0xA4, 0xB4, 0xAC, 0xBC:
		return true, c.ldxy(op)
	case 0x86, 0x96, 0x8E, 0x84, 0x94, 0x8C:
		return true, c.stxy(op)
	case 0xE0: // CPX #
		c.cmpX(c.Regs.X, c.fetchX())
		return true, 2
	case 0xC0: // CPY #
		c.cmpX(c.Regs.Y, c.fetchX())
		return true, 2
	case 0xE4, 0xEC:
		return true, c.cpxyMem(op, true)
	case 0xC4, 0xCC:
		return true, c.cpxyMem(op, false)
	case 0xE6, 0xF6, 0xEE, 0xFE:
		return true, c.incDecMem(op, 1)
	case 0xC6, 0xD6, 0xCE, 0xDE:
		return true, c.incDecMem(op, -1)
	case 0x06, 0x16, 0x0E, 0x1E:
		return true, c.shiftMem(op, c.asl)
	case 0x46, 0x56, 0x4E, 0x5E:
		return true, c.shiftMem(op, c.lsr)
	case 0x26, 0x36, 0x2E, 0x3E:
		return true, c.shiftMem(op, c.rol)
	case 0x66, 0x76, 0x6E, 0x7E:
		return true, c.shiftMem(op, c.ror)
	case 0x04, 0x0C:
		return true, c.tsb(op)
	case 0x14, 0x1C:
		return true, c.trb(op)
	case 0x64, 0x74, 0x9C, 0x9E: // STZ
		return true, c.stz(op)
	case 0x89: // BIT # (only affects Z, not N/V)
		v := c.fetchM()
		if c.Regs.WidthM() {
			c.Regs.SetFlag(flagZ, uint8(c.Regs.A)&uint8(v) == 0)
		} else {
			c.Regs.SetFlag(flagZ, c.Regs.A&v == 0)
		}
		return true, 2
	case 0x24, 0x34, 0x2C, 0x3C:
		return true, c.bitMem(op)
	}
	return false, 0
}

func (c *CPU) fetchM() uint16 {
	if c.Regs.WidthM() {
		return uint16(c.fetch8())
	}
	return c.fetch16()
}

func (c *CPU) fetchX() uint16 {
	if c.Regs.WidthX() {
		return uint16(c.fetch8())
	}
	return c.fetch16()
}

func (c *CPU) cmpX(reg, value uint16) {
	if c.Regs.WidthX() {
		c.cmp8(uint8(reg), uint8(value))
	} else {
		c.cmp16(reg, value)
	}
}

func (c *CPU) ldxy(op uint8) int {
	var addr uint32
	cyc := 4
	switch op {
	case 0xA6:
		addr = c.addrDirect()
	case 0xB6:
		addr = c.addrDirectY()
	case 0xAE:
		addr = c.addrAbsolute()
	case 0xBE:
		addr = c.addrAbsoluteY()
		cyc = 5
	case 0xA4:
		addr = c.addrDirect()
	case 0xB4:
		addr = c.addrDirectX()
	case 0xAC:
		addr = c.addrAbsolute()
	case 0xBC:
		addr = c.addrAbsoluteX()
		cyc = 5
	}
	v := c.readX(addr)
	switch op {
	case 0xA6, 0xB6, 0xAE, 0xBE:
		c.Regs.X = c.widthX(v)
		c.setNZX(c.Regs.X)
	default:
		c.Regs.Y = c.widthX(v)
		c.setNZX(c.Regs.Y)
	}
	return cyc
}

func (c *CPU) stxy(op uint8) int {
	var addr uint32
	switch op {
	case 0x86:
		addr = c.addrDirect()
	case 0x96:
		addr = c.addrDirectY()
	case 0x8E:
		addr = c.addrAbsolute()
	case 0x84:
		addr = c.addrDirect()
	case 0x94:
		addr = c.addrDirectX()
	case 0x8C:
		addr = c.addrAbsolute()
	}
	switch op {
	case 0x86, 0x96, 0x8E:
		c.writeX(addr, c.Regs.X)
	default:
		c.writeX(addr, c.Regs.Y)
	}
	return 4
}

func (c *CPU) cpxyMem(op uint8, isX bool) int {
	var addr uint32
	cyc := 4
	if op == 0xE4 || op == 0xC4 {
		addr = c.addrDirect()
	} else {
		addr = c.addrAbsolute()
	}
	v := c.readX(addr)
	if isX {
		c.cmpX(c.Regs.X, v)
	} else {
		c.cmpX(c.Regs.Y, v)
	}
	return cyc
}

func (c *CPU) incDecMem(op uint8, delta int) int {
	var addr uint32
	cyc := 6
	switch op {
	case 0xE6, 0xC6:
		addr = c.addrDirect()
	case 0xF6, 0xD6:
		addr = c.addrDirectX()
	case 0xEE, 0xCE:
		addr = c.addrAbsolute()
	case 0xFE, 0xDE:
		addr = c.addrAbsoluteX()
		cyc = 7
	}
	v := c.readM(addr)
	r := c.incDecM(v, delta)
	c.writeM(addr, r)
	c.setNZM(r)
	return cyc
}

func (c *CPU) shiftMem(op uint8, fn func(uint16) uint16) int {
	var addr uint32
	cyc := 6
	switch op & 0x1F {
	case 0x06:
		addr = c.addrDirect()
	case 0x16:
		addr = c.addrDirectX()
	case 0x0E:
		addr = c.addrAbsolute()
	case 0x1E:
		addr = c.addrAbsoluteX()
		cyc = 7
	}
	v := c.readM(addr)
	r := fn(v)
	c.writeM(addr, r)
	return cyc
}

func (c *CPU) tsb(op uint8) int {
	var addr uint32
	if op == 0x04 {
		addr = c.addrDirect()
	} else {
		addr = c.addrAbsolute()
	}
	v := c.readM(addr)
	c.Regs.SetFlag(flagZ, v&c.Regs.A == 0)
	c.writeM(addr, v|c.Regs.A)
	return 6
}

func (c *CPU) trb(op uint8) int {
	var addr uint32
	if op == 0x14 {
		addr = c.addrDirect()
	} else {
		addr = c.addrAbsolute()
	}
	v := c.readM(addr)
	c.Regs.SetFlag(flagZ, v&c.Regs.A == 0)
	c.writeM(addr, v&^c.Regs.A)
	return 6
}

func (c *CPU) stz(op uint8) int {
	var addr uint32
	switch op {
	case 0x64:
		addr = c.addrDirect()
	case 0x74:
		addr = c.addrDirectX()
	case 0x9C:
		addr = c.addrAbsolute()
	case 0x9E:
		addr = c.addrAbsoluteX()
	}
	c.writeM(addr, 0)
	return 4
}

func (c *CPU) bitMem(op uint8) int {
	var addr uint32
	switch op {
	case 0x24:
		addr = c.addrDirect()
	case 0x34:
		addr = c.addrDirectX()
	case 0x2C:
		addr = c.addrAbsolute()
	case 0x3C:
		addr = c.addrAbsoluteX()
	}
	v := c.readM(addr)
	if c.Regs.WidthM() {
		a := uint8(c.Regs.A)
		m := uint8(v)
		c.Regs.SetFlag(flagZ, a&m == 0)
		c.Regs.SetFlag(flagN, m&0x80 != 0)
		c.Regs.SetFlag(flagV, m&0x40 != 0)
	} else {
		c.Regs.SetFlag(flagZ, c.Regs.A&v == 0)
		c.Regs.SetFlag(flagN, v&0x8000 != 0)
		c.Regs.SetFlag(flagV, v&0x4000 != 0)
	}
	return 4
}

// executeGroup decodes the ORA/AND/EOR/ADC/STA/LDA/CMP/SBC row (the top
// three opcode bits) across its fifteen addressing-mode columns.
func (c *CPU) executeGroup(op uint8) int {
	group := op >> 5
	col := op & 0x1F

	var addr uint32
	isImmediate := false
	cyc := 4

	switch col {
	case 0x01:
		addr = c.addrDirectXIndirect()
		cyc = 6
	case 0x03:
		addr = c.addrStackRelative()
		cyc = 4
	case 0x05:
		addr = c.addrDirect()
		cyc = 3
	case 0x07:
		addr = c.addrDirectIndirectLong()
		cyc = 6
	case 0x09:
		isImmediate = true
		cyc = 2
	case 0x0D:
		addr = c.addrAbsolute()
		cyc = 4
	case 0x0F:
		addr = c.addrAbsoluteLong()
		cyc = 5
	case 0x11:
		addr = c.addrDirectIndirectY()
		cyc = 5
	case 0x12:
		addr = c.addrDirectIndirect()
		cyc = 5
	case 0x13:
		addr = c.addrStackRelativeIndirectY()
		cyc = 7
	case 0x15:
		addr = c.addrDirectX()
		cyc = 4
	case 0x17:
		addr = c.addrDirectIndirectLongY()
		cyc = 6
	case 0x19:
		addr = c.addrAbsoluteY()
		cyc = 5
	case 0x1D:
		addr = c.addrAbsoluteX()
		cyc = 5
	case 0x1F:
		addr = c.addrAbsoluteLongX()
		cyc = 6
	default:
		return 2 // unassigned opcode: treated as a two-cycle no-op
	}

	switch group {
	case 0: // ORA
		v := c.operandM(addr, isImmediate)
		c.Regs.A = c.widthM(c.Regs.A | v)
		c.setNZM(c.Regs.A)
	case 1: // AND
		v := c.operandM(addr, isImmediate)
		c.Regs.A = c.widthM(c.Regs.A & v)
		c.setNZM(c.Regs.A)
	case 2: // EOR
		v := c.operandM(addr, isImmediate)
		c.Regs.A = c.widthM(c.Regs.A ^ v)
		c.setNZM(c.Regs.A)
	case 3: // ADC
		v := c.operandM(addr, isImmediate)
		c.adc(v)
	case 4: // STA (no immediate form exists in the opcode map)
		c.writeM(addr, c.Regs.A)
	case 5: // LDA
		v := c.operandM(addr, isImmediate)
		c.Regs.A = c.widthM(v)
		c.setNZM(c.Regs.A)
	case 6: // CMP
		v := c.operandM(addr, isImmediate)
		if c.Regs.WidthM() {
			c.cmp8(uint8(c.Regs.A), uint8(v))
		} else {
			c.cmp16(c.Regs.A, v)
		}
	case 7: // SBC
		v := c.operandM(addr, isImmediate)
		c.sbc(v)
	}
	return cyc
}

func (c *CPU) operandM(addr uint32, isImmediate bool) uint16 {
	if isImmediate {
		return c.fetchM()
	}
	return c.readM(addr)
}
