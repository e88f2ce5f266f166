// joypad.go - P1 joypad register and virtual-button translation
//
// License: GPLv3 or later

package gb

import "github.com/zaynotley/tricore/internal/core"

// Joypad translates the platform-independent core.Input bitmask into the
// GB's P1 register wire format: two 4-bit nibbles (direction/button)
// selected by bits 4-5, read back active-low.
type Joypad struct {
	bus *Bus

	selectButtons   bool
	selectDirection bool
	input           core.Input
}

func NewJoypad(bus *Bus) *Joypad {
	return &Joypad{bus: bus}
}

// SetInput publishes the current frame's input mask. A newly pressed
// button while selected raises the Joypad
// interrupt, matching real hardware's edge-triggered wake-on-input.
func (j *Joypad) SetInput(in core.Input) {
	before := j.Read()
	j.input = in
	after := j.Read()
	// Falling edge on any previously-high line (active-low: 1->0) raises
	// the Joypad interrupt.
	if before&^after&0x0F != 0 {
		j.bus.RequestInterrupt(IntJoypad)
	}
}

func (j *Joypad) Read() uint8 {
	nibble := uint8(0x0F)
	if j.selectDirection {
		if j.input.Held(core.ButtonRight) {
			nibble &^= 0x01
		}
		if j.input.Held(core.ButtonLeft) {
			nibble &^= 0x02
		}
		if j.input.Held(core.ButtonUp) {
			nibble &^= 0x04
		}
		if j.input.Held(core.ButtonDown) {
			nibble &^= 0x08
		}
	}
	if j.selectButtons {
		if j.input.Held(core.ButtonA) {
			nibble &^= 0x01
		}
		if j.input.Held(core.ButtonB) {
			nibble &^= 0x02
		}
		if j.input.Held(core.ButtonSelect) {
			nibble &^= 0x04
		}
		if j.input.Held(core.ButtonStart) {
			nibble &^= 0x08
		}
	}
	top := uint8(0xC0)
	if !j.selectDirection {
		top |= 0x10
	}
	if !j.selectButtons {
		top |= 0x20
	}
	return top | nibble
}

func (j *Joypad) Write(v uint8) {
	j.selectDirection = v&0x10 == 0
	j.selectButtons = v&0x20 == 0
}
