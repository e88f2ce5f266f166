// registers.go - ARM7TDMI register file, modes and banking
//
// License: GPLv3 or later

package gba

// Mode is one of the ARM7TDMI's seven processor modes, encoded as the
// low 5 bits of CPSR.
type Mode uint8

const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1B
	ModeSystem     Mode = 0x1F
)

// CPSR/SPSR flag bits.
const (
	flagN uint32 = 1 << 31
	flagZ uint32 = 1 << 30
	flagC uint32 = 1 << 29
	flagV uint32 = 1 << 28
	flagI uint32 = 1 << 7 // IRQ disable
	flagF uint32 = 1 << 6 // FIQ disable
	flagT uint32 = 1 << 5 // Thumb state
)

// Registers holds the full ARM7TDMI register file: 16 general registers
// as seen by the current mode, plus the banked copies every privileged
// mode keeps for R13/R14 (and R8-R14 for FIQ), plus CPSR and one SPSR per
// non-user/system mode.
type Registers struct {
	R [16]uint32

	CPSR uint32

	bankedFIQ  [7]uint32 // R8-R14
	bankedSVC  [2]uint32 // R13-R14
	bankedIRQ  [2]uint32
	bankedABT  [2]uint32
	bankedUND  [2]uint32
	userR8_12  [5]uint32 // User/System R8-R12, saved while FIQ banks its own
	bankedUSR  [2]uint32 // User/System R13-R14, saved while a privileged mode banks its own

	spsrFIQ, spsrSVC, spsrIRQ, spsrABT, spsrUND uint32
}

func NewRegisters() *Registers {
	r := &Registers{}
	r.CPSR = uint32(ModeSupervisor) | flagI | flagF
	return r
}

func (r *Registers) Mode() Mode { return Mode(r.CPSR & 0x1F) }

func (r *Registers) SetMode(m Mode) {
	if r.Mode() == m {
		return
	}
	r.saveBank(r.Mode())
	r.CPSR = r.CPSR&^0x1F | uint32(m)
	r.loadBank(m)
}

func (r *Registers) saveBank(m Mode) {
	switch m {
	case ModeFIQ:
		copy(r.bankedFIQ[:], r.R[8:15])
	case ModeSupervisor:
		r.bankedSVC[0], r.bankedSVC[1] = r.R[13], r.R[14]
	case ModeIRQ:
		r.bankedIRQ[0], r.bankedIRQ[1] = r.R[13], r.R[14]
	case ModeAbort:
		r.bankedABT[0], r.bankedABT[1] = r.R[13], r.R[14]
	case ModeUndefined:
		r.bankedUND[0], r.bankedUND[1] = r.R[13], r.R[14]
	default:
		copy(r.userR8_12[:], r.R[8:13])
		r.bankedUSR[0], r.bankedUSR[1] = r.R[13], r.R[14]
	}
}

func (r *Registers) loadBank(m Mode) {
	switch m {
	case ModeFIQ:
		copy(r.R[8:15], r.bankedFIQ[:])
	case ModeSupervisor:
		copy(r.R[8:13], r.userR8_12[:])
		r.R[13], r.R[14] = r.bankedSVC[0], r.bankedSVC[1]
	case ModeIRQ:
		copy(r.R[8:13], r.userR8_12[:])
		r.R[13], r.R[14] = r.bankedIRQ[0], r.bankedIRQ[1]
	case ModeAbort:
		copy(r.R[8:13], r.userR8_12[:])
		r.R[13], r.R[14] = r.bankedABT[0], r.bankedABT[1]
	case ModeUndefined:
		copy(r.R[8:13], r.userR8_12[:])
		r.R[13], r.R[14] = r.bankedUND[0], r.bankedUND[1]
	default:
		copy(r.R[8:13], r.userR8_12[:])
		r.R[13], r.R[14] = r.bankedUSR[0], r.bankedUSR[1]
	}
}

func (r *Registers) SPSR() uint32 {
	switch r.Mode() {
	case ModeFIQ:
		return r.spsrFIQ
	case ModeSupervisor:
		return r.spsrSVC
	case ModeIRQ:
		return r.spsrIRQ
	case ModeAbort:
		return r.spsrABT
	case ModeUndefined:
		return r.spsrUND
	default:
		return r.CPSR
	}
}

func (r *Registers) SetSPSR(v uint32) {
	switch r.Mode() {
	case ModeFIQ:
		r.spsrFIQ = v
	case ModeSupervisor:
		r.spsrSVC = v
	case ModeIRQ:
		r.spsrIRQ = v
	case ModeAbort:
		r.spsrABT = v
	case ModeUndefined:
		r.spsrUND = v
	}
}

func (r *Registers) Flag(bit uint32) bool { return r.CPSR&bit != 0 }
func (r *Registers) SetFlag(bit uint32, set bool) {
	if set {
		r.CPSR |= bit
	} else {
		r.CPSR &^= bit
	}
}

func (r *Registers) Thumb() bool { return r.Flag(flagT) }
