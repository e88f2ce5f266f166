// thumb.go - Thumb-state instruction decode and execution
//
// License: GPLv3 or later

package gba

// executeThumb decodes and runs one 16-bit Thumb instruction.
func (c *CPU) executeThumb(op uint16) int {
	switch {
	case op&0xF800 == 0x1800: // add/subtract
		return c.thumbAddSub(op)
	case op&0xE000 == 0x0000: // move shifted register
		return c.thumbShift(op)
	case op&0xE000 == 0x2000: // move/compare/add/subtract immediate
		return c.thumbImmediateOp(op)
	case op&0xFC00 == 0x4000: // ALU operations
		return c.thumbALU(op)
	case op&0xFC00 == 0x4400: // hi register ops / BX
		return c.thumbHiReg(op)
	case op&0xF800 == 0x4800: // PC-relative load
		return c.thumbPCRelLoad(op)
	case op&0xF200 == 0x5000: // load/store with register offset
		return c.thumbLoadStoreReg(op)
	case op&0xF200 == 0x5200: // load/store sign-extended byte/halfword
		return c.thumbLoadStoreSignExt(op)
	case op&0xE000 == 0x6000: // load/store with immediate offset (word/byte)
		return c.thumbLoadStoreImm(op)
	case op&0xF000 == 0x8000: // load/store halfword
		return c.thumbLoadStoreHalf(op)
	case op&0xF000 == 0x9000: // SP-relative load/store
		return c.thumbSPRel(op)
	case op&0xF000 == 0xA000: // load address
		return c.thumbLoadAddress(op)
	case op&0xFF00 == 0xB000: // add offset to SP
		return c.thumbAddSP(op)
	case op&0xF600 == 0xB400: // push/pop
		return c.thumbPushPop(op)
	case op&0xF000 == 0xC000: // multiple load/store
		return c.thumbMultiple(op)
	case op&0xFF00 == 0xDF00: // SWI
		return c.dispatchSWI(uint8(op & 0xFF))
	case op&0xF000 == 0xD000: // conditional branch
		return c.thumbCondBranch(op)
	case op&0xF800 == 0xE000: // unconditional branch
		return c.thumbBranch(op)
	case op&0xF000 == 0xF000: // long branch with link
		return c.thumbBranchLink(op)
	default:
		return 1
	}
}

func (c *CPU) thumbShift(op uint16) int {
	shiftType := uint32(op>>11) & 0x03
	amount := uint32(op>>6) & 0x1F
	rs := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	result, carry := barrelShift(shiftType, c.Regs.R[rs], amount, c.Regs.Flag(flagC))
	c.Regs.R[rd] = result
	c.setNZ(result)
	c.Regs.SetFlag(flagC, carry)
	return 1
}

func (c *CPU) thumbAddSub(op uint16) int {
	immediate := op&(1<<10) != 0
	subtract := op&(1<<9) != 0
	rnOrImm := uint32(op>>6) & 0x07
	rs := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07

	var operand uint32
	if immediate {
		operand = rnOrImm
	} else {
		operand = c.Regs.R[rnOrImm]
	}
	var result uint32
	var carry, overflow bool
	if subtract {
		result, carry, overflow = subWithFlags(c.Regs.R[rs], operand)
	} else {
		result, carry, overflow = addWithFlags(c.Regs.R[rs], operand)
	}
	c.Regs.R[rd] = result
	c.setNZ(result)
	c.Regs.SetFlag(flagC, carry)
	c.Regs.SetFlag(flagV, overflow)
	return 1
}

func (c *CPU) thumbImmediateOp(op uint16) int {
	kind := uint32(op>>11) & 0x03
	rd := uint32(op>>8) & 0x07
	imm := uint32(op) & 0xFF
	switch kind {
	case 0: // MOV
		c.Regs.R[rd] = imm
		c.setNZ(imm)
	case 1: // CMP
		result, carry, overflow := subWithFlags(c.Regs.R[rd], imm)
		c.setNZ(result)
		c.Regs.SetFlag(flagC, carry)
		c.Regs.SetFlag(flagV, overflow)
	case 2: // ADD
		result, carry, overflow := addWithFlags(c.Regs.R[rd], imm)
		c.Regs.R[rd] = result
		c.setNZ(result)
		c.Regs.SetFlag(flagC, carry)
		c.Regs.SetFlag(flagV, overflow)
	case 3: // SUB
		result, carry, overflow := subWithFlags(c.Regs.R[rd], imm)
		c.Regs.R[rd] = result
		c.setNZ(result)
		c.Regs.SetFlag(flagC, carry)
		c.Regs.SetFlag(flagV, overflow)
	}
	return 1
}

func (c *CPU) thumbALU(op uint16) int {
	opcode := uint32(op>>6) & 0x0F
	rs := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	a := c.Regs.R[rd]
	b := c.Regs.R[rs]
	var result uint32
	writesDest := true
	switch opcode {
	case 0x0: // AND
		result = a & b
	case 0x1: // EOR
		result = a ^ b
	case 0x2: // LSL
		result, _ = barrelShift(0, a, b&0xFF, c.Regs.Flag(flagC))
		c.Regs.SetFlag(flagC, lslCarry(a, b&0xFF, c.Regs.Flag(flagC)))
	case 0x3: // LSR
		result, _ = barrelShift(1, a, b&0xFF, c.Regs.Flag(flagC))
		c.Regs.SetFlag(flagC, lsrCarry(a, b&0xFF))
	case 0x4: // ASR
		result, _ = barrelShift(2, a, b&0xFF, c.Regs.Flag(flagC))
		c.Regs.SetFlag(flagC, asrCarry(a, b&0xFF))
	case 0x5: // ADC
		carryIn := uint32(0)
		if c.Regs.Flag(flagC) {
			carryIn = 1
		}
		var carry, overflow bool
		result, carry, overflow = addWithFlags(a, b+carryIn)
		c.Regs.SetFlag(flagC, carry)
		c.Regs.SetFlag(flagV, overflow)
	case 0x6: // SBC
		borrow := uint32(1)
		if c.Regs.Flag(flagC) {
			borrow = 0
		}
		var carry, overflow bool
		result, carry, overflow = subWithFlags(a, b+borrow)
		c.Regs.SetFlag(flagC, carry)
		c.Regs.SetFlag(flagV, overflow)
	case 0x7: // ROR
		amount := b & 0xFF
		result, _ = barrelShift(3, a, amount, c.Regs.Flag(flagC))
		if amount != 0 {
			c.Regs.SetFlag(flagC, (a>>((amount-1)&31))&1 != 0)
		}
	case 0x8: // TST
		result = a & b
		writesDest = false
	case 0x9: // NEG
		var carry, overflow bool
		result, carry, overflow = subWithFlags(0, b)
		c.Regs.SetFlag(flagC, carry)
		c.Regs.SetFlag(flagV, overflow)
	case 0xA: // CMP
		var carry, overflow bool
		result, carry, overflow = subWithFlags(a, b)
		c.Regs.SetFlag(flagC, carry)
		c.Regs.SetFlag(flagV, overflow)
		writesDest = false
	case 0xB: // CMN
		var carry, overflow bool
		result, carry, overflow = addWithFlags(a, b)
		c.Regs.SetFlag(flagC, carry)
		c.Regs.SetFlag(flagV, overflow)
		writesDest = false
	case 0xC: // ORR
		result = a | b
	case 0xD: // MUL
		result = a * b
	case 0xE: // BIC
		result = a &^ b
	case 0xF: // MVN
		result = ^b
	}
	if writesDest {
		c.Regs.R[rd] = result
	}
	c.setNZ(result)
	return 1
}

func lslCarry(v, amount uint32, carryIn bool) bool {
	if amount == 0 {
		return carryIn
	}
	if amount > 32 {
		return false
	}
	if amount == 32 {
		return v&1 != 0
	}
	return (v>>(32-amount))&1 != 0
}
func lsrCarry(v, amount uint32) bool {
	if amount == 0 || amount > 32 {
		return false
	}
	if amount == 32 {
		return v&0x80000000 != 0
	}
	return (v>>(amount-1))&1 != 0
}
func asrCarry(v, amount uint32) bool {
	if amount == 0 {
		return false
	}
	if amount >= 32 {
		return int32(v) < 0
	}
	return (v>>(amount-1))&1 != 0
}

func (c *CPU) thumbHiReg(op uint16) int {
	opcode := uint32(op>>8) & 0x03
	h1 := op&(1<<7) != 0
	h2 := op&(1<<6) != 0
	rs := uint32(op>>3) & 0x07
	if h2 {
		rs += 8
	}
	rd := uint32(op) & 0x07
	if h1 {
		rd += 8
	}
	switch opcode {
	case 0: // ADD
		c.regWrite(rd, c.regRead(rd)+c.regRead(rs))
	case 1: // CMP
		result, carry, overflow := subWithFlags(c.regRead(rd), c.regRead(rs))
		c.setNZ(result)
		c.Regs.SetFlag(flagC, carry)
		c.Regs.SetFlag(flagV, overflow)
	case 2: // MOV
		c.regWrite(rd, c.regRead(rs))
	case 3: // BX (also BLX on ARMv5, not present on ARM7TDMI)
		target := c.regRead(rs)
		c.Regs.SetFlag(flagT, target&1 != 0)
		c.Regs.R[15] = target &^ 1
		return 3
	}
	if rd == 15 {
		return 3
	}
	return 1
}

func (c *CPU) thumbPCRelLoad(op uint16) int {
	rd := uint32(op>>8) & 0x07
	imm := uint32(op&0xFF) * 4
	addr := (c.pcOperand() &^ 3) + imm
	c.Regs.R[rd] = c.Bus.Read32(addr)
	return 3
}

func (c *CPU) thumbLoadStoreReg(op uint16) int {
	load := op&(1<<11) != 0
	byteAccess := op&(1<<10) != 0
	ro := uint32(op>>6) & 0x07
	rb := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	addr := c.Regs.R[rb] + c.Regs.R[ro]
	if load {
		if byteAccess {
			c.Regs.R[rd] = uint32(c.Bus.Read8(addr))
		} else {
			raw := c.Bus.Read32(addr &^ 3)
			v, _ := barrelShift(3, raw, (addr&3)*8, false)
			c.Regs.R[rd] = v
		}
		return 3
	}
	if byteAccess {
		c.Bus.Write8(addr, uint8(c.Regs.R[rd]))
	} else {
		c.Bus.Write32(addr&^3, c.Regs.R[rd])
	}
	return 2
}

func (c *CPU) thumbLoadStoreSignExt(op uint16) int {
	hFlag := op&(1<<11) != 0
	signExtend := op&(1<<10) != 0
	ro := uint32(op>>6) & 0x07
	rb := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	addr := c.Regs.R[rb] + c.Regs.R[ro]
	switch {
	case !signExtend && !hFlag: // STRH
		c.Bus.Write16(addr&^1, uint16(c.Regs.R[rd]))
		return 2
	case !signExtend && hFlag: // LDRH
		c.Regs.R[rd] = uint32(c.Bus.Read16(addr &^ 1))
		return 3
	case signExtend && !hFlag: // LDSB
		c.Regs.R[rd] = uint32(int32(int8(c.Bus.Read8(addr))))
		return 3
	default: // LDSH
		if addr&1 != 0 {
			c.Regs.R[rd] = uint32(int32(int8(c.Bus.Read8(addr))))
		} else {
			c.Regs.R[rd] = uint32(int32(int16(c.Bus.Read16(addr))))
		}
		return 3
	}
}

func (c *CPU) thumbLoadStoreImm(op uint16) int {
	byteAccess := op&(1<<12) != 0
	load := op&(1<<11) != 0
	imm := uint32(op>>6) & 0x1F
	rb := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	if !byteAccess {
		imm *= 4
	}
	addr := c.Regs.R[rb] + imm
	if load {
		if byteAccess {
			c.Regs.R[rd] = uint32(c.Bus.Read8(addr))
		} else {
			raw := c.Bus.Read32(addr &^ 3)
			v, _ := barrelShift(3, raw, (addr&3)*8, false)
			c.Regs.R[rd] = v
		}
		return 3
	}
	if byteAccess {
		c.Bus.Write8(addr, uint8(c.Regs.R[rd]))
	} else {
		c.Bus.Write32(addr&^3, c.Regs.R[rd])
	}
	return 2
}

func (c *CPU) thumbLoadStoreHalf(op uint16) int {
	load := op&(1<<11) != 0
	imm := (uint32(op>>6) & 0x1F) * 2
	rb := uint32(op>>3) & 0x07
	rd := uint32(op) & 0x07
	addr := c.Regs.R[rb] + imm
	if load {
		c.Regs.R[rd] = uint32(c.Bus.Read16(addr &^ 1))
		return 3
	}
	c.Bus.Write16(addr&^1, uint16(c.Regs.R[rd]))
	return 2
}

func (c *CPU) thumbSPRel(op uint16) int {
	load := op&(1<<11) != 0
	rd := uint32(op>>8) & 0x07
	imm := uint32(op&0xFF) * 4
	addr := c.Regs.R[13] + imm
	if load {
		c.Regs.R[rd] = c.Bus.Read32(addr &^ 3)
		return 3
	}
	c.Bus.Write32(addr&^3, c.Regs.R[rd])
	return 2
}

func (c *CPU) thumbLoadAddress(op uint16) int {
	useSP := op&(1<<11) != 0
	rd := uint32(op>>8) & 0x07
	imm := uint32(op&0xFF) * 4
	if useSP {
		c.Regs.R[rd] = c.Regs.R[13] + imm
	} else {
		c.Regs.R[rd] = (c.pcOperand() &^ 3) + imm
	}
	return 1
}

func (c *CPU) thumbAddSP(op uint16) int {
	negative := op&(1<<7) != 0
	imm := uint32(op&0x7F) * 4
	if negative {
		c.Regs.R[13] -= imm
	} else {
		c.Regs.R[13] += imm
	}
	return 1
}

func (c *CPU) thumbPushPop(op uint16) int {
	pop := op&(1<<11) != 0
	includePCLR := op&(1<<8) != 0
	list := uint8(op & 0xFF)
	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<i) != 0 {
			count++
		}
	}
	if includePCLR {
		count++
	}
	if pop {
		addr := c.Regs.R[13]
		for i := 0; i < 8; i++ {
			if list&(1<<i) != 0 {
				c.Regs.R[i] = c.Bus.Read32(addr)
				addr += 4
			}
		}
		if includePCLR {
			c.Regs.R[15] = c.Bus.Read32(addr) &^ 1
			addr += 4
		}
		c.Regs.R[13] = addr
		if includePCLR {
			return 4
		}
		return 3
	}
	addr := c.Regs.R[13] - uint32(count)*4
	start := addr
	for i := 0; i < 8; i++ {
		if list&(1<<i) != 0 {
			c.Bus.Write32(addr, c.Regs.R[i])
			addr += 4
		}
	}
	if includePCLR {
		c.Bus.Write32(addr, c.Regs.R[14])
	}
	c.Regs.R[13] = start
	return 2
}

func (c *CPU) thumbMultiple(op uint16) int {
	load := op&(1<<11) != 0
	rb := uint32(op>>8) & 0x07
	list := uint8(op & 0xFF)
	addr := c.Regs.R[rb]
	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<i) != 0 {
			count++
		}
	}
	for i := 0; i < 8; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		if load {
			c.Regs.R[i] = c.Bus.Read32(addr)
		} else {
			c.Bus.Write32(addr, c.Regs.R[i])
		}
		addr += 4
	}
	c.Regs.R[rb] = addr
	return 2 + count
}

func (c *CPU) thumbCondBranch(op uint16) int {
	cond := uint32(op>>8) & 0x0F
	if !c.conditionPasses(cond) {
		return 1
	}
	offset := int32(int8(uint8(op & 0xFF))) * 2
	c.Regs.R[15] = uint32(int32(c.pcOperand()) + offset)
	return 3
}

func (c *CPU) thumbBranch(op uint16) int {
	offset := (int32(op&0x07FF) << 21) >> 20 // sign-extend 11-bit halfword offset
	c.Regs.R[15] = uint32(int32(c.pcOperand()) + offset)
	return 3
}

func (c *CPU) thumbBranchLink(op uint16) int {
	high := op&(1<<11) == 0
	offset11 := uint32(op & 0x07FF)
	if high {
		signExtended := (int32(offset11) << 21) >> 9
		c.Regs.R[14] = uint32(int32(c.pcOperand()) + signExtended)
		return 1
	}
	next := c.Regs.R[15]
	c.Regs.R[15] = c.Regs.R[14] + offset11*2
	c.Regs.R[14] = next | 1
	return 3
}
