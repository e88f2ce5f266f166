// cpu.go - SM83 CPU core for the GB/GBC
//
// License: GPLv3 or later

package gb

// CPU is the Sharp SM83 core: an 8080/Z80-derived 8-bit single-accumulator
// design with BC/DE/HL register pairs.
type CPU struct {
	Regs Registers
	Bus  *Bus

	ime        bool
	imeDelay   int // EI arms the interrupt enable after the FOLLOWING instruction
	halted     bool
	haltBug    bool
	stopped    bool

	cycles int // machine cycles consumed by the instruction in flight
}

func NewCPU(bus *Bus) *CPU {
	c := &CPU{Bus: bus}
	c.Regs.PC = 0x0100
	c.Regs.SP = 0xFFFE
	c.Regs.SetAF(0x01B0)
	c.Regs.SetBC(0x0013)
	c.Regs.SetDE(0x00D8)
	c.Regs.SetHL(0x014D)
	return c
}

func (c *CPU) Reset() {
	c.Regs = Registers{PC: 0x0100, SP: 0xFFFE}
	c.Regs.SetAF(0x01B0)
	c.Regs.SetBC(0x0013)
	c.Regs.SetDE(0x00D8)
	c.Regs.SetHL(0x014D)
	c.ime, c.halted, c.haltBug, c.stopped = false, false, false, false
}

// Step executes one instruction (or services a pending interrupt, or idles
// one machine cycle while halted) and returns the number of machine cycles
// consumed, for the scheduler to fan out to the Timer/PPU/APU/DMA.
func (c *CPU) Step() int {
	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.ime = true
		}
	}

	if bit, vector, ok := c.Bus.PendingInterrupt(); ok {
		if c.halted {
			c.halted = false
		}
		if c.ime {
			c.ime = false
			c.Bus.AckInterrupt(bit)
			c.dispatchInterrupt(vector)
			return 5
		}
	}

	if c.halted {
		return 1
	}

	opcode := c.fetch8()
	if c.haltBug {
		// HALT with IME=0 and a pending interrupt fails to increment PC
		// once: the byte after HALT is read twice.
		c.Regs.PC--
		c.haltBug = false
	}
	return c.execute(opcode)
}

func (c *CPU) dispatchInterrupt(vector uint16) {
	c.push16(c.Regs.PC)
	c.Regs.PC = vector
}

func (c *CPU) fetch8() uint8 {
	v := c.Bus.Read(c.Regs.PC)
	c.Regs.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return hi<<8 | lo
}

func (c *CPU) push16(v uint16) {
	c.Regs.SP--
	c.Bus.Write(c.Regs.SP, uint8(v>>8))
	c.Regs.SP--
	c.Bus.Write(c.Regs.SP, uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := uint16(c.Bus.Read(c.Regs.SP))
	c.Regs.SP++
	hi := uint16(c.Bus.Read(c.Regs.SP))
	c.Regs.SP++
	return hi<<8 | lo
}

func (c *CPU) halt() {
	pendingAny := c.Bus.ie&c.Bus.ifr&0x1F != 0
	if !c.ime && pendingAny {
		c.haltBug = true
		return
	}
	c.halted = true
}

func (c *CPU) stop() {
	c.stopped = true
	// STOP also resets the DIV divider on real hardware; this core does not
	// reset DIV here, and Step keeps executing while stopped is set (the
	// flag is only recorded and saved).
}
