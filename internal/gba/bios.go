// bios.go - high-level emulation of the subset of GBA BIOS SWI calls
// games rely on, invoked directly instead of executing the real BIOS ROM
// image's interpreted routines
//
// License: GPLv3 or later

package gba

// irqHandlerPointer is the fixed RAM slot the real BIOS's interrupt
// dispatcher loads the user IRQ handler address from.
const irqHandlerPointer = 0x03FFFFFC

// installIRQDispatcher writes the hardware IRQ vector's handler into the
// BIOS image at 0x18, the address the CPU jumps to on every IRQ entry.
// It mirrors the real BIOS routine instruction for instruction: save
// r0-r3/r12/lr, call the user handler whose address lives at
// irqHandlerPointer, restore, and return with SUBS PC, LR, #4.
func installIRQDispatcher(bios []byte) {
	words := []uint32{
		0xE92D500F, // STMFD SP!, {r0-r3,r12,lr}
		0xE59F1010, // LDR R1, [PC, #0x10]  -> R1 = irqHandlerPointer
		0xE5911000, // LDR R1, [R1]         -> R1 = user handler address
		0xE1A0E00F, // MOV LR, PC
		0xE12FFF11, // BX R1
		0xE8BD500F, // LDMFD SP!, {r0-r3,r12,lr}
		0xE25EF004, // SUBS PC, LR, #4
		irqHandlerPointer,
	}
	for i, w := range words {
		writeWord(bios, 0x18+uint32(i*4), w)
	}
}

// dispatchSWI emulates a BIOS software interrupt by number, following
// the standard r0-r3 argument convention, and returns an approximate
// cycle cost.
func (c *CPU) dispatchSWI(n uint8) int {
	switch n {
	case 0x02, 0x03: // Halt, Stop
		c.Halt()
		return 4
	case 0x04, 0x05: // IntrWait, VBlankIntrWait
		c.Halt()
		return 4
	case 0x06: // Div: r0 = number, r1 = denom -> r0 quotient, r1 remainder, r3 |quotient|
		num := int32(c.Regs.R[0])
		den := int32(c.Regs.R[1])
		if den == 0 {
			c.Regs.R[0], c.Regs.R[1] = 0, uint32(num)
			return 6
		}
		q := num / den
		r := num % den
		c.Regs.R[0] = uint32(q)
		c.Regs.R[1] = uint32(r)
		if q < 0 {
			c.Regs.R[3] = uint32(-q)
		} else {
			c.Regs.R[3] = uint32(q)
		}
		return 6
	case 0x07: // DivArm: reversed argument order of Div
		num := int32(c.Regs.R[1])
		den := int32(c.Regs.R[0])
		if den == 0 {
			c.Regs.R[0], c.Regs.R[1] = 0, uint32(num)
			return 6
		}
		c.Regs.R[0] = uint32(num / den)
		c.Regs.R[1] = uint32(num % den)
		return 6
	case 0x08: // Sqrt
		c.Regs.R[0] = isqrt(c.Regs.R[0])
		return 6
	case 0x0B: // CpuSet: r0=src, r1=dst, r2=count/mode
		c.biosCpuSet(false)
		return 8
	case 0x0C: // CpuFastSet: always 32-bit, 8-word blocks
		c.biosCpuSet(true)
		return 8
	case 0x11, 0x12: // LZ77UnComp (WRAM/VRAM) - not modeled, leave destination untouched
		return 4
	case 0x14, 0x15: // RLUnComp (WRAM/VRAM) - not modeled
		return 4
	default:
		return 3
	}
}

func isqrt(v uint32) uint32 {
	if v == 0 {
		return 0
	}
	x := v
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + v/x) / 2
	}
	return x
}

// biosCpuSet implements CpuSet/CpuFastSet: r0 source, r1 destination,
// r2 holds count in bits 0-20, a fixed-source bit (24) and a 32-bit-unit
// bit (26, always set for CpuFastSet).
func (c *CPU) biosCpuSet(fast bool) {
	src := c.Regs.R[0]
	dst := c.Regs.R[1]
	control := c.Regs.R[2]
	count := control & 0x1FFFFF
	fixedSource := control&(1<<24) != 0
	wordUnit := fast || control&(1<<26) != 0

	if fast {
		count = (count + 7) &^ 7 // CpuFastSet always transfers in 8-word blocks
	}

	if wordUnit {
		for i := uint32(0); i < count; i++ {
			c.Bus.Write32(dst+i*4, c.Bus.Read32(src))
			if !fixedSource {
				src += 4
			}
		}
	} else {
		for i := uint32(0); i < count; i++ {
			c.Bus.Write16(dst+i*2, c.Bus.Read16(src))
			if !fixedSource {
				src += 2
			}
		}
	}
}
