// keypad.go - KEYINPUT register and virtual-button translation
//
// License: GPLv3 or later

package gba

import "github.com/zaynotley/tricore/internal/core"

// Keypad translates core.Input into the GBA's active-low KEYINPUT
// register format.
type Keypad struct {
	input core.Input
}

func NewKeypad() *Keypad { return &Keypad{} }

func (k *Keypad) SetInput(in core.Input) { k.input = in }

func (k *Keypad) Read() uint16 {
	v := uint16(0x03FF)
	clear := func(held bool, bit uint16) {
		if held {
			v &^= bit
		}
	}
	clear(k.input.Held(core.ButtonA), 1<<0)
	clear(k.input.Held(core.ButtonB), 1<<1)
	clear(k.input.Held(core.ButtonSelect), 1<<2)
	clear(k.input.Held(core.ButtonStart), 1<<3)
	clear(k.input.Held(core.ButtonRight), 1<<4)
	clear(k.input.Held(core.ButtonLeft), 1<<5)
	clear(k.input.Held(core.ButtonUp), 1<<6)
	clear(k.input.Held(core.ButtonDown), 1<<7)
	clear(k.input.Held(core.ButtonR), 1<<8)
	clear(k.input.Held(core.ButtonL), 1<<9)
	return v
}
