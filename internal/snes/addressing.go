// addressing.go - 65816 effective-address computation
//
// License: GPLv3 or later

package snes

// Each addrXxx helper consumes its operand bytes from the instruction
// stream and returns a 24-bit effective address (bank<<16 | offset).
// Direct-page addressing wraps within bank 0; absolute indexed
// addressing's bank-carry behavior differs between native and emulation
// mode for LDA abs,X.

func (c *CPU) addrDirect() uint32 {
	off := c.Regs.D + uint16(c.fetch8())
	return uint32(off)
}

func (c *CPU) addrDirectX() uint32 {
	off := c.Regs.D + uint16(c.fetch8()) + c.Regs.X
	return uint32(off)
}

func (c *CPU) addrDirectY() uint32 {
	off := c.Regs.D + uint16(c.fetch8()) + c.Regs.Y
	return uint32(off)
}

func (c *CPU) addrDirectIndirect() uint32 {
	ptrAddr := uint32(c.Regs.D + uint16(c.fetch8()))
	ptr := c.read16(ptrAddr)
	return uint32(c.Regs.DBR)<<16 | uint32(ptr)
}

func (c *CPU) addrDirectIndirectLong() uint32 {
	ptrAddr := uint32(c.Regs.D + uint16(c.fetch8()))
	lo := uint32(c.read8(ptrAddr))
	mid := uint32(c.read8(ptrAddr + 1))
	hi := uint32(c.read8(ptrAddr + 2))
	return hi<<16 | mid<<8 | lo
}

func (c *CPU) addrDirectXIndirect() uint32 {
	ptrAddr := uint32(c.Regs.D + uint16(c.fetch8()) + c.Regs.X)
	ptr := c.read16(ptrAddr)
	return uint32(c.Regs.DBR)<<16 | uint32(ptr)
}

func (c *CPU) addrDirectIndirectY() uint32 {
	ptrAddr := uint32(c.Regs.D + uint16(c.fetch8()))
	ptr := c.read16(ptrAddr)
	base := uint32(c.Regs.DBR)<<16 | uint32(ptr)
	return base + uint32(c.Regs.Y)
}

func (c *CPU) addrDirectIndirectLongY() uint32 {
	ptrAddr := uint32(c.Regs.D + uint16(c.fetch8()))
	lo := uint32(c.read8(ptrAddr))
	mid := uint32(c.read8(ptrAddr + 1))
	hi := uint32(c.read8(ptrAddr + 2))
	base := hi<<16 | mid<<8 | lo
	return (base + uint32(c.Regs.Y)) & 0xFFFFFF
}

func (c *CPU) addrAbsolute() uint32 {
	off := c.fetch16()
	return uint32(c.Regs.DBR)<<16 | uint32(off)
}

func (c *CPU) addrAbsoluteX() uint32 {
	off := c.fetch16()
	if c.Regs.Emulation {
		full := uint32(c.Regs.DBR)<<16 + uint32(off) + uint32(c.Regs.X)
		return full & 0xFFFFFF
	}
	bank := uint32(c.Regs.DBR) << 16
	return bank | uint32(off+c.Regs.X)
}

func (c *CPU) addrAbsoluteY() uint32 {
	off := c.fetch16()
	if c.Regs.Emulation {
		full := uint32(c.Regs.DBR)<<16 + uint32(off) + uint32(c.Regs.Y)
		return full & 0xFFFFFF
	}
	bank := uint32(c.Regs.DBR) << 16
	return bank | uint32(off+c.Regs.Y)
}

func (c *CPU) addrAbsoluteLong() uint32 {
	return c.fetch24() & 0xFFFFFF
}

func (c *CPU) addrAbsoluteLongX() uint32 {
	addr := c.fetch24()
	return (addr + uint32(c.Regs.X)) & 0xFFFFFF
}

func (c *CPU) addrAbsoluteIndirect() uint32 {
	ptr := c.fetch16()
	target := c.read16(uint32(ptr))
	return uint32(c.Regs.PBR)<<16 | uint32(target)
}

func (c *CPU) addrAbsoluteIndirectLong() uint32 {
	ptr := c.fetch16()
	lo := uint32(c.read8(uint32(ptr)))
	mid := uint32(c.read8(uint32(ptr) + 1))
	hi := uint32(c.read8(uint32(ptr) + 2))
	return hi<<16 | mid<<8 | lo
}

func (c *CPU) addrAbsoluteXIndirect() uint32 {
	ptr := c.fetch16() + c.Regs.X
	target := c.read16(uint32(c.Regs.PBR)<<16 | uint32(ptr))
	return uint32(c.Regs.PBR)<<16 | uint32(target)
}

func (c *CPU) addrStackRelative() uint32 {
	off := c.Regs.SP + uint16(c.fetch8())
	return uint32(off)
}

func (c *CPU) addrStackRelativeIndirectY() uint32 {
	ptrAddr := uint32(c.Regs.SP + uint16(c.fetch8()))
	ptr := c.read16(ptrAddr)
	base := uint32(c.Regs.DBR)<<16 | uint32(ptr)
	return base + uint32(c.Regs.Y)
}
