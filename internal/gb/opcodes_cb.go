// opcodes_cb.go - CB-prefixed SM83 bit-instruction dispatch
//
// License: GPLv3 or later

package gb

// executeCB dispatches one CB-prefixed opcode (rotate/shift/bit-test/
// bit-set/bit-clear over the eight operand slots) and returns its
// machine-cycle cost.
func (c *CPU) executeCB(op uint8) int {
	x := op >> 6
	y := (op >> 3) & 0x07
	z := op & 0x07

	base := 2
	if z == 6 {
		base = 4
	}

	switch x {
	case 0: // rotates/shifts, selected by y
		v := c.reg8(z)
		var result uint8
		switch y {
		case 0:
			result = c.rlc(v, false)
		case 1:
			result = c.rrc(v, false)
		case 2:
			result = c.rl(v, false)
		case 3:
			result = c.rr(v, false)
		case 4:
			result = c.sla(v)
		case 5:
			result = c.sra(v)
		case 6:
			result = c.swap(v)
		case 7:
			result = c.srl(v)
		}
		c.setReg8(z, result)
		return base
	case 1: // BIT y,r
		v := c.reg8(z)
		c.Regs.SetFlag(FlagZ, v&(1<<y) == 0)
		c.Regs.SetFlag(FlagN, false)
		c.Regs.SetFlag(FlagH, true)
		if z == 6 {
			return 3
		}
		return 2
	case 2: // RES y,r
		c.setReg8(z, c.reg8(z)&^(1<<y))
		return base
	default: // SET y,r
		c.setReg8(z, c.reg8(z)|1<<y)
		return base
	}
}

func (c *CPU) sla(v uint8) uint8 {
	carry := v&0x80 != 0
	result := v << 1
	c.Regs.SetFlag(FlagC, carry)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagZ, result == 0)
	return result
}

func (c *CPU) sra(v uint8) uint8 {
	carry := v&0x01 != 0
	result := v>>1 | v&0x80
	c.Regs.SetFlag(FlagC, carry)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagZ, result == 0)
	return result
}

func (c *CPU) swap(v uint8) uint8 {
	result := v<<4 | v>>4
	c.Regs.SetFlag(FlagC, false)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagZ, result == 0)
	return result
}

func (c *CPU) srl(v uint8) uint8 {
	carry := v&0x01 != 0
	result := v >> 1
	c.Regs.SetFlag(FlagC, carry)
	c.Regs.SetFlag(FlagN, false)
	c.Regs.SetFlag(FlagH, false)
	c.Regs.SetFlag(FlagZ, result == 0)
	return result
}
