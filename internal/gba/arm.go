// arm.go - ARM-state instruction decode and execution
//
// License: GPLv3 or later

package gba

// executeARM decodes and runs one 32-bit ARM instruction whose condition
// has already been checked by Step.
func (c *CPU) executeARM(op uint32) int {
	switch {
	case op&0x0FFFFFF0 == 0x012FFF10: // BX
		return c.armBX(op)
	case op&0x0F000000 == 0x0F000000: // SWI
		return c.armSWI(op)
	case op&0x0FB00000 == 0x01000000 && op&0x0FFFFFF0 != 0x012FFF10: // MRS
		return c.armMRS(op)
	case op&0x0DB00000 == 0x01200000 && op&0x0F000000 == 0x01000000: // MSR
		return c.armMSR(op)
	case op&0x0FC000F0 == 0x00000090: // MUL/MLA
		return c.armMultiply(op)
	case op&0x0F8000F0 == 0x00800090: // MULL/MLAL
		return c.armMultiplyLong(op)
	case op&0x0E000010 == 0x06000010: // undefined (extension space)
		return 1
	case op&0x0C000000 == 0x00000000: // data processing / PSR transfer (MRS/MSR matched above)
		return c.armDataProcessing(op)
	case op&0x0E000090 == 0x00000090: // halfword/signed transfer
		return c.armHalfwordTransfer(op)
	case op&0x0C000000 == 0x04000000: // single data transfer
		return c.armSingleTransfer(op)
	case op&0x0E000000 == 0x08000000: // block data transfer
		return c.armBlockTransfer(op)
	case op&0x0E000000 == 0x0A000000: // branch / branch-link
		return c.armBranch(op)
	case op&0x0FB00FF0 == 0x01000090: // SWP/SWPB
		return c.armSwap(op)
	default:
		return 1
	}
}

func (c *CPU) armBX(op uint32) int {
	rn := op & 0x0F
	target := c.regRead(rn)
	c.Regs.SetFlag(flagT, target&1 != 0)
	c.Regs.R[15] = target &^ 1
	return 3
}

func (c *CPU) armSWI(op uint32) int {
	comment := op & 0x00FFFFFF
	return c.dispatchSWI(uint8(comment >> 16))
}

func (c *CPU) armMRS(op uint32) int {
	rd := (op >> 12) & 0x0F
	usesSPSR := op&(1<<22) != 0
	if usesSPSR {
		c.regWrite(rd, c.Regs.SPSR())
	} else {
		c.regWrite(rd, c.Regs.CPSR)
	}
	return 1
}

func (c *CPU) armMSR(op uint32) int {
	usesSPSR := op&(1<<22) != 0
	var val uint32
	if op&(1<<25) != 0 {
		imm := op & 0xFF
		rot := (op >> 8) & 0x0F * 2
		val, _ = barrelShift(3, imm, rot, false)
	} else {
		val = c.regRead(op & 0x0F)
	}
	fieldMask := uint32(0)
	if op&(1<<16) != 0 {
		fieldMask |= 0x000000FF
	}
	if op&(1<<17) != 0 {
		fieldMask |= 0x0000FF00
	}
	if op&(1<<18) != 0 {
		fieldMask |= 0x00FF0000
	}
	if op&(1<<19) != 0 {
		fieldMask |= 0xFF000000
	}
	if usesSPSR {
		c.Regs.SetSPSR(c.Regs.SPSR()&^fieldMask | val&fieldMask)
	} else {
		mode := c.Regs.Mode()
		newCPSR := c.Regs.CPSR&^fieldMask | val&fieldMask
		c.Regs.CPSR = c.Regs.CPSR&^0x1F | uint32(mode)
		c.Regs.CPSR = newCPSR&^0x1F | uint32(mode)
		if fieldMask&0xFF != 0 {
			c.Regs.SetMode(Mode(newCPSR & 0x1F))
		}
	}
	return 1
}

func (c *CPU) armMultiply(op uint32) int {
	rd := (op >> 16) & 0x0F
	rn := (op >> 12) & 0x0F
	rs := (op >> 8) & 0x0F
	rm := op & 0x0F
	s := op&(1<<20) != 0
	accumulate := op&(1<<21) != 0
	result := c.regRead(rm) * c.regRead(rs)
	if accumulate {
		result += c.regRead(rn)
	}
	c.regWrite(rd, result)
	if s {
		c.setNZ(result)
	}
	return 2
}

func (c *CPU) armMultiplyLong(op uint32) int {
	rdHi := (op >> 16) & 0x0F
	rdLo := (op >> 12) & 0x0F
	rs := (op >> 8) & 0x0F
	rm := op & 0x0F
	signed := op&(1<<22) != 0
	accumulate := op&(1<<21) != 0
	s := op&(1<<20) != 0
	var result uint64
	if signed {
		result = uint64(int64(int32(c.regRead(rm))) * int64(int32(c.regRead(rs))))
	} else {
		result = uint64(c.regRead(rm)) * uint64(c.regRead(rs))
	}
	if accumulate {
		result += uint64(c.regRead(rdHi))<<32 | uint64(c.regRead(rdLo))
	}
	c.regWrite(rdLo, uint32(result))
	c.regWrite(rdHi, uint32(result>>32))
	if s {
		c.Regs.SetFlag(flagZ, result == 0)
		c.Regs.SetFlag(flagN, result&0x8000000000000000 != 0)
	}
	return 3
}

func (c *CPU) armSwap(op uint32) int {
	rn := (op >> 16) & 0x0F
	rd := (op >> 12) & 0x0F
	rm := op & 0x0F
	byteSwap := op&(1<<22) != 0
	addr := c.regRead(rn)
	if byteSwap {
		old := c.Bus.Read8(addr)
		c.Bus.Write8(addr, uint8(c.regRead(rm)))
		c.regWrite(rd, uint32(old))
	} else {
		old := c.Bus.Read32(addr)
		c.Bus.Write32(addr, c.regRead(rm))
		c.regWrite(rd, old)
	}
	return 4
}

// armDataProcessing handles the 16 ALU opcodes with immediate or shifted-
// register second operands.
func (c *CPU) armDataProcessing(op uint32) int {
	opcode := (op >> 21) & 0x0F
	s := op&(1<<20) != 0
	rn := (op >> 16) & 0x0F
	rd := (op >> 12) & 0x0F

	var operand2 uint32
	shiftCarry := c.Regs.Flag(flagC)
	if op&(1<<25) != 0 {
		imm := op & 0xFF
		rot := ((op >> 8) & 0x0F) * 2
		operand2, shiftCarry = barrelShift(3, imm, rot, shiftCarry)
		if rot == 0 {
			operand2 = imm
			shiftCarry = c.Regs.Flag(flagC)
		}
	} else {
		rm := op & 0x0F
		shiftType := (op >> 5) & 0x03
		var amount uint32
		if op&(1<<4) != 0 {
			rs := (op >> 8) & 0x0F
			amount = c.regRead(rs) & 0xFF
		} else {
			amount = (op >> 7) & 0x1F
		}
		val := c.regRead(rm)
		if rm == 15 && op&(1<<4) != 0 {
			val += 4 // register-specified shift reads PC as addr+12 (addr+8 base +4 extra)
		}
		operand2, shiftCarry = barrelShift(shiftType, val, amount, shiftCarry)
	}

	rnVal := c.regRead(rn)
	var result uint32
	var writesDest = true
	var carryOut, overflow bool
	carryOut = shiftCarry

	switch opcode {
	case 0x0: // AND
		result = rnVal & operand2
	case 0x1: // EOR
		result = rnVal ^ operand2
	case 0x2: // SUB
		result, carryOut, overflow = subWithFlags(rnVal, operand2)
	case 0x3: // RSB
		result, carryOut, overflow = subWithFlags(operand2, rnVal)
	case 0x4: // ADD
		result, carryOut, overflow = addWithFlags(rnVal, operand2)
	case 0x5: // ADC
		carryIn := uint32(0)
		if c.Regs.Flag(flagC) {
			carryIn = 1
		}
		result, carryOut, overflow = addWithFlags(rnVal, operand2+carryIn)
	case 0x6: // SBC
		carryIn := uint32(1)
		if !c.Regs.Flag(flagC) {
			carryIn = 0
		}
		result, carryOut, overflow = subWithFlags(rnVal, operand2+(1-carryIn))
	case 0x7: // RSC
		carryIn := uint32(1)
		if !c.Regs.Flag(flagC) {
			carryIn = 0
		}
		result, carryOut, overflow = subWithFlags(operand2, rnVal+(1-carryIn))
	case 0x8: // TST
		result = rnVal & operand2
		writesDest = false
	case 0x9: // TEQ
		result = rnVal ^ operand2
		writesDest = false
	case 0xA: // CMP
		result, carryOut, overflow = subWithFlags(rnVal, operand2)
		writesDest = false
	case 0xB: // CMN
		result, carryOut, overflow = addWithFlags(rnVal, operand2)
		writesDest = false
	case 0xC: // ORR
		result = rnVal | operand2
	case 0xD: // MOV
		result = operand2
	case 0xE: // BIC
		result = rnVal &^ operand2
	case 0xF: // MVN
		result = ^operand2
	}

	if writesDest {
		c.regWrite(rd, result)
	}
	if s {
		if rd == 15 && writesDest {
			c.Regs.CPSR = c.Regs.SPSR()
			c.Regs.SetMode(c.Regs.Mode())
		} else {
			c.setNZ(result)
			if opcode >= 0x2 && opcode <= 0x7 || opcode == 0xA || opcode == 0xB {
				c.Regs.SetFlag(flagC, carryOut)
				c.Regs.SetFlag(flagV, overflow)
			} else {
				c.Regs.SetFlag(flagC, carryOut)
			}
		}
	}
	if rd == 15 && writesDest {
		return 3
	}
	return 1
}

func addWithFlags(a, b uint32) (result uint32, carry, overflow bool) {
	sum := uint64(a) + uint64(b)
	result = uint32(sum)
	carry = sum > 0xFFFFFFFF
	overflow = (a^b)&0x80000000 == 0 && (a^result)&0x80000000 != 0
	return
}

func subWithFlags(a, b uint32) (result uint32, carry, overflow bool) {
	result = a - b
	carry = a >= b
	overflow = (a^b)&0x80000000 != 0 && (a^result)&0x80000000 != 0
	return
}

func (c *CPU) setNZ(v uint32) {
	c.Regs.SetFlag(flagZ, v == 0)
	c.Regs.SetFlag(flagN, v&0x80000000 != 0)
}

// armSingleTransfer covers LDR/STR for byte and word, immediate or
// register offset, pre/post-indexed with optional writeback.
func (c *CPU) armSingleTransfer(op uint32) int {
	immOffset := op&(1<<25) == 0
	pre := op&(1<<24) != 0
	up := op&(1<<23) != 0
	byteAccess := op&(1<<22) != 0
	writeback := op&(1<<21) != 0
	load := op&(1<<20) != 0
	rn := (op >> 16) & 0x0F
	rd := (op >> 12) & 0x0F

	var offset uint32
	if immOffset {
		offset = op & 0xFFF
	} else {
		rm := op & 0x0F
		shiftType := (op >> 5) & 0x03
		amount := (op >> 7) & 0x1F
		offset, _ = barrelShift(shiftType, c.regRead(rm), amount, c.Regs.Flag(flagC))
	}

	base := c.regRead(rn)
	addr := base
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if load {
		var v uint32
		if byteAccess {
			v = uint32(c.Bus.Read8(addr))
		} else {
			v = c.Bus.Read32(addr &^ 3)
			if rot := (addr & 3) * 8; rot != 0 {
				v, _ = barrelShift(3, v, rot, false)
			}
		}
		if rd == 15 {
			c.Regs.R[15] = v &^ 3
		} else {
			c.regWrite(rd, v)
		}
	} else {
		v := c.regRead(rd)
		if rd == 15 {
			v += 4
		}
		if byteAccess {
			c.Bus.Write8(addr, uint8(v))
		} else {
			c.Bus.Write32(addr&^3, v)
		}
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.regWrite(rn, addr)
	} else if writeback {
		c.regWrite(rn, addr)
	}

	if load {
		return 3
	}
	return 2
}

// armHalfwordTransfer covers LDRH/STRH/LDRSB/LDRSH with immediate or
// register offset.
func (c *CPU) armHalfwordTransfer(op uint32) int {
	pre := op&(1<<24) != 0
	up := op&(1<<23) != 0
	immOffset := op&(1<<22) != 0
	writeback := op&(1<<21) != 0
	load := op&(1<<20) != 0
	rn := (op >> 16) & 0x0F
	rd := (op >> 12) & 0x0F
	sh := (op >> 5) & 0x03

	var offset uint32
	if immOffset {
		offset = ((op >> 8) & 0x0F << 4) | (op & 0x0F)
	} else {
		offset = c.regRead(op & 0x0F)
	}

	base := c.regRead(rn)
	addr := base
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if load {
		var v uint32
		switch sh {
		case 1: // unsigned halfword
			v = uint32(c.Bus.Read16(addr))
		case 2: // signed byte
			v = uint32(int32(int8(c.Bus.Read8(addr))))
		case 3: // signed halfword
			raw := c.Bus.Read16(addr &^ 1)
			if addr&1 != 0 {
				v = uint32(int32(int8(uint8(raw >> 8))))
			} else {
				v = uint32(int32(int16(raw)))
			}
		}
		c.regWrite(rd, v)
	} else {
		c.Bus.Write16(addr&^1, uint16(c.regRead(rd)))
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.regWrite(rn, addr)
	} else if writeback {
		c.regWrite(rn, addr)
	}

	if load {
		return 3
	}
	return 2
}

// armBlockTransfer covers LDM/STM including the user-bank and PC+CPSR-
// restore quirks and the documented empty-register-list behavior (R15
// alone is transferred, base adjusts by 0x40).
func (c *CPU) armBlockTransfer(op uint32) int {
	pre := op&(1<<24) != 0
	up := op&(1<<23) != 0
	sBit := op&(1<<22) != 0
	writeback := op&(1<<21) != 0
	load := op&(1<<20) != 0
	rn := (op >> 16) & 0x0F
	list := op & 0xFFFF

	base := c.regRead(rn)
	count := 0
	for i := 0; i < 16; i++ {
		if list&(1<<i) != 0 {
			count++
		}
	}
	transferList := list
	emptyList := list == 0
	span := uint32(count) * 4
	if emptyList {
		transferList = 1 << 15
		count = 1
		span = 0x40
	}

	addr := base
	startAddr := addr
	if !up {
		startAddr = base - span
	}
	addr = startAddr

	userBankTransfer := sBit && (!load || list&(1<<15) == 0)
	restoreCPSR := sBit && load && list&(1<<15) != 0

	origMode := c.Regs.Mode()
	if userBankTransfer {
		c.Regs.SetMode(ModeUser)
	}

	for i := 0; i < 16; i++ {
		if transferList&(1<<i) == 0 {
			continue
		}
		if pre == up {
			addr += 4
		}
		if load {
			v := c.Bus.Read32(addr &^ 3)
			if i == 15 {
				c.Regs.R[15] = v &^ 3
			} else {
				c.Regs.R[i] = v
			}
		} else {
			v := c.regRead(uint32(i))
			if i == 15 {
				v += 4
			}
			c.Bus.Write32(addr&^3, v)
		}
		if pre != up {
			addr += 4
		}
	}

	if userBankTransfer {
		c.Regs.SetMode(origMode)
	}
	if restoreCPSR {
		c.Regs.CPSR = c.Regs.SPSR()
		c.Regs.SetMode(c.Regs.Mode())
	}

	if writeback {
		if up {
			c.regWrite(rn, base+span)
		} else {
			c.regWrite(rn, base-span)
		}
	}

	if load {
		return 2 + count
	}
	return 1 + count
}

func (c *CPU) armBranch(op uint32) int {
	link := op&(1<<24) != 0
	offset := int32(op&0x00FFFFFF) << 8 >> 6 // sign-extend 24-bit word offset to bytes
	if link {
		c.Regs.R[14] = c.Regs.R[15]
	}
	c.Regs.R[15] = uint32(int32(c.pcOperand()) + offset)
	return 3
}

func (c *CPU) regRead(i uint32) uint32 {
	if i == 15 {
		return c.pcOperand()
	}
	return c.Regs.R[i]
}

func (c *CPU) regWrite(i uint32, v uint32) {
	if i == 15 {
		c.Regs.R[15] = v &^ 3
		return
	}
	c.Regs.R[i] = v
}
