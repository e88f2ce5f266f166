// registers.go - 65816 register file and status flags
//
// License: GPLv3 or later

package snes

// Status register bits. In emulation mode bits 4/5 are repurposed as the
// classic 6502 B (break) and always-one bit rather than M/X.
const (
	flagC uint8 = 1 << 0 // carry
	flagZ uint8 = 1 << 1 // zero
	flagI uint8 = 1 << 2 // IRQ disable
	flagD uint8 = 1 << 3 // decimal mode
	flagX uint8 = 1 << 4 // index register width (native mode): 1 = 8-bit
	flagM uint8 = 1 << 5 // accumulator/memory width (native mode): 1 = 8-bit
	flagV uint8 = 1 << 6 // overflow
	flagN uint8 = 1 << 7 // negative

	flagB uint8 = 1 << 4 // break (emulation mode only, aliases flagX)
)

// Registers is the observable register file of the 65816. A and the
// index registers are always stored full-width;
// the M/X flags (or emulation mode) determine which half is significant
// to outside observers, so writes must preserve the hidden high byte and
// reads must mask it off.
type Registers struct {
	A, X, Y uint16
	SP      uint16
	D       uint16 // direct page register
	DBR     uint8  // data bank register
	PBR     uint8  // program bank register
	PC      uint16
	P       uint8 // status register
	Emulation bool
}

func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

// Reset puts the CPU into 65816 emulation mode power-on state: emulation
// mode, interrupts disabled, decimal mode cleared, 8-bit A/X/Y, stack
// pointer high byte forced to 0x01.
func (r *Registers) Reset() {
	r.Emulation = true
	r.D = 0
	r.DBR = 0
	r.PBR = 0
	r.SP = 0x01FF
	r.P = flagI | flagM | flagX
	r.X &= 0xFF
	r.Y &= 0xFF
}

func (r *Registers) GetFlag(f uint8) bool { return r.P&f != 0 }

func (r *Registers) SetFlag(f uint8, v bool) {
	if v {
		r.P |= f
	} else {
		r.P &^= f
	}
}

// WidthM reports whether the accumulator/memory operations are 8-bit:
// always true in emulation mode, otherwise driven by the M flag.
func (r *Registers) WidthM() bool { return r.Emulation || r.P&flagM != 0 }

// WidthX reports whether index-register operations are 8-bit.
func (r *Registers) WidthX() bool { return r.Emulation || r.P&flagX != 0 }

// SetEmulation implements the XCE side effect: entering emulation mode
// forces 8-bit A/X/Y and clamps the stack pointer high byte to 0x01;
// leaving it does not by itself widen anything (the M/X flags already
// read as 1 from the Reset-time default).
func (r *Registers) SetEmulation(on bool) {
	r.Emulation = on
	if on {
		r.P |= flagM | flagX
		r.X &= 0xFF
		r.Y &= 0xFF
		r.SP = 0x0100 | (r.SP & 0xFF)
	}
}

// DirectPage returns the 16-bit direct-page base used by direct addressing.
func (r *Registers) DirectPage() uint16 { return r.D }
