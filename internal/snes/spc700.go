// spc700.go - Sony SPC700 sound CPU: fetch/decode/execute, IPL boot ROM,
// mailbox ports, and the three hardware timers.
//
// License: GPLv3 or later

package snes

const (
	spcFlagC = 0x01
	spcFlagZ = 0x02
	spcFlagI = 0x04
	spcFlagH = 0x08
	spcFlagB = 0x10
	spcFlagP = 0x20
	spcFlagV = 0x40
	spcFlagN = 0x80
)

// iplBoot is the 64-byte boot ROM mapped at $FFC0-$FFFF when the IPL ROM
// enable bit in $F1 is set. It waits for the main CPU to write a ready
// signal to port 0 then jumps to the address latched in ports 2/3,
// matching every commercial SPC700 IPL.
var iplBoot = [64]byte{
	0xCD, 0xEF, 0xBD, 0xE8, 0x00, 0xC6, 0x1D, 0xD0,
	0xFC, 0x8F, 0xAA, 0xF4, 0x8F, 0xBB, 0xF5, 0x78,
	0xCC, 0xF4, 0xD0, 0xFB, 0x2F, 0x19, 0xEB, 0xF4,
	0xD0, 0xFC, 0x7E, 0xF4, 0xD0, 0x0B, 0xE4, 0xF5,
	0xCB, 0xF4, 0xD7, 0x00, 0xFC, 0xD0, 0xF3, 0xAB,
	0x01, 0x10, 0xEF, 0x7E, 0xF4, 0x10, 0xEB, 0xBA,
	0xF6, 0xDA, 0x00, 0xBA, 0xF4, 0xC4, 0xF4, 0xDD,
	0x5D, 0xD0, 0xDB, 0x1F, 0x00, 0x00, 0xC0, 0xFF,
}

// SPC700 implements the sound CPU.
type SPC700 struct {
	dsp *DSP

	a, x, y uint8
	sp      uint8
	pc      uint16
	psw     uint8

	ram [0x10000]byte

	iplEnabled bool

	portOut [4]uint8 // SPC -> CPU
	portIn  [4]uint8 // CPU -> SPC

	timerTarget  [3]uint8
	timerCounter [3]uint8
	timerOutput  [3]uint8
	timerEnabled [3]bool
	timerDivider [3]int

	control uint8

	stopped bool
}

func NewSPC700() *SPC700 {
	s := &SPC700{}
	s.Reset()
	return s
}

func (s *SPC700) ConnectDSP(dsp *DSP) { s.dsp = dsp }

func (s *SPC700) Reset() {
	s.a, s.x, s.y = 0, 0, 0
	s.sp = 0xEF
	s.pc = 0xFFC0
	s.psw = 0
	s.iplEnabled = true
	s.control = 0x80
	s.stopped = false
	for i := range s.timerEnabled {
		s.timerEnabled[i] = false
		s.timerCounter[i] = 0
		s.timerOutput[i] = 0
	}
}

// ReadPort/WritePort are the main-CPU side of the four mailbox ports at
// $2140-$2143; CPUReadPort/CPUWritePort are the SPC-side MOV accesses to
// $F4-$F7, a shared-latch mailbox model.
func (s *SPC700) ReadPort(port int) uint8      { return s.portOut[port&3] }
func (s *SPC700) WritePort(port int, v uint8)  { s.portIn[port&3] = v }
func (s *SPC700) cpuSideRead(port int) uint8   { return s.portIn[port&3] }
func (s *SPC700) cpuSideWrite(port int, v uint8) { s.portOut[port&3] = v }

func (s *SPC700) read(addr uint16) uint8 {
	if s.iplEnabled && addr >= 0xFFC0 {
		return iplBoot[addr-0xFFC0]
	}
	switch addr {
	case 0x00F4, 0x00F5, 0x00F6, 0x00F7:
		return s.cpuSideRead(int(addr - 0x00F4))
	case 0x00FD, 0x00FE, 0x00FF:
		i := int(addr - 0x00FD)
		v := s.timerOutput[i] & 0x0F
		s.timerOutput[i] = 0
		return v
	}
	if addr == 0x00F3 && s.dsp != nil {
		return s.dsp.ReadData()
	}
	return s.ram[addr]
}

func (s *SPC700) write(addr uint16, v uint8) {
	switch addr {
	case 0x00F1:
		s.control = v
		s.iplEnabled = v&0x80 != 0
		if v&0x01 != 0 {
			s.timerCounter[0], s.timerOutput[0] = 0, 0
		}
		if v&0x02 != 0 {
			s.timerCounter[1], s.timerOutput[1] = 0, 0
		}
		if v&0x04 != 0 {
			s.timerCounter[2], s.timerOutput[2] = 0, 0
		}
		if v&0x10 != 0 {
			s.portIn[0], s.portIn[1] = 0, 0
		}
		if v&0x20 != 0 {
			s.portIn[2], s.portIn[3] = 0, 0
		}
	case 0x00F2:
		if s.dsp != nil {
			s.dsp.SetAddress(v)
		}
	case 0x00F3:
		if s.dsp != nil {
			s.dsp.WriteData(v)
		}
	case 0x00F4, 0x00F5, 0x00F6, 0x00F7:
		s.cpuSideWrite(int(addr-0x00F4), v)
	case 0x00FA:
		s.timerTarget[0] = v
	case 0x00FB:
		s.timerTarget[1] = v
	case 0x00FC:
		s.timerTarget[2] = v
	default:
		s.ram[addr] = v
	}
}

// StepTimers advances the three timers by the given count of SPC cycles,
// dividing them down to the 8KHz/64KHz timer ticks itself.
func (s *SPC700) StepTimers(cycles int) {
	// Timers 0/1 divide the ~1.024MHz clock by 128 (~8KHz); timer 2 by 16
	// (~64KHz).
	for i := 0; i < 3; i++ {
		div := 128
		if i == 2 {
			div = 16
		}
		s.timerDivider[i] += cycles
		for s.timerDivider[i] >= div {
			s.timerDivider[i] -= div
			if s.control&(1<<uint(i)) != 0 {
				s.timerCounter[i]++
				if s.timerCounter[i] >= s.timerTarget[i] && s.timerTarget[i] != 0 {
					s.timerCounter[i] = 0
					s.timerOutput[i] = (s.timerOutput[i] + 1) & 0x0F
				} else if s.timerTarget[i] == 0 && s.timerCounter[i] == 0 {
					s.timerOutput[i] = (s.timerOutput[i] + 1) & 0x0F
				}
			}
		}
	}
}

func (s *SPC700) getFlag(f uint8) bool     { return s.psw&f != 0 }
func (s *SPC700) setFlag(f uint8, v bool) {
	if v {
		s.psw |= f
	} else {
		s.psw &^= f
	}
}
func (s *SPC700) updateNZ(v uint8) {
	s.setFlag(spcFlagZ, v == 0)
	s.setFlag(spcFlagN, v&0x80 != 0)
}

func (s *SPC700) dpBase() uint16 {
	if s.getFlag(spcFlagP) {
		return 0x0100
	}
	return 0x0000
}

func (s *SPC700) readDP(off uint8) uint8     { return s.read(s.dpBase() + uint16(off)) }
func (s *SPC700) writeDP(off uint8, v uint8) { s.write(s.dpBase()+uint16(off), v) }

func (s *SPC700) push(v uint8) {
	s.write(0x0100+uint16(s.sp), v)
	s.sp--
}

func (s *SPC700) pop() uint8 {
	s.sp++
	return s.read(0x0100 + uint16(s.sp))
}

func (s *SPC700) push16(v uint16) {
	s.push(uint8(v >> 8))
	s.push(uint8(v))
}

func (s *SPC700) pop16() uint16 {
	lo := uint16(s.pop())
	hi := uint16(s.pop())
	return lo | hi<<8
}

func (s *SPC700) fetch8() uint8 {
	v := s.read(s.pc)
	s.pc++
	return v
}

func (s *SPC700) fetch16() uint16 {
	lo := uint16(s.fetch8())
	hi := uint16(s.fetch8())
	return lo | hi<<8
}

// Step executes one instruction, returning its approximate cycle cost.
func (s *SPC700) Step() int {
	if s.stopped {
		return 2
	}
	op := s.fetch8()
	return s.execute(op)
}

func (s *SPC700) opAdc(a, b uint8) uint8 {
	carry := uint16(0)
	if s.getFlag(spcFlagC) {
		carry = 1
	}
	result := uint16(a) + uint16(b) + carry
	s.setFlag(spcFlagC, result > 0xFF)
	s.setFlag(spcFlagV, (^(uint16(a)^uint16(b)))&(uint16(a)^result)&0x80 != 0)
	s.setFlag(spcFlagH, (a&0x0F)+(b&0x0F)+uint8(carry) > 0x0F)
	s.updateNZ(uint8(result))
	return uint8(result)
}

func (s *SPC700) opSbc(a, b uint8) uint8 { return s.opAdc(a, ^b) }

func (s *SPC700) opCmp(a, b uint8) {
	result := uint16(a) - uint16(b)
	s.setFlag(spcFlagC, a >= b)
	s.updateNZ(uint8(result))
}

func (s *SPC700) opAsl(v uint8) uint8 {
	s.setFlag(spcFlagC, v&0x80 != 0)
	r := v << 1
	s.updateNZ(r)
	return r
}

func (s *SPC700) opLsr(v uint8) uint8 {
	s.setFlag(spcFlagC, v&1 != 0)
	r := v >> 1
	s.updateNZ(r)
	return r
}

func (s *SPC700) opRol(v uint8) uint8 {
	carry := uint8(0)
	if s.getFlag(spcFlagC) {
		carry = 1
	}
	s.setFlag(spcFlagC, v&0x80 != 0)
	r := v<<1 | carry
	s.updateNZ(r)
	return r
}

func (s *SPC700) opRor(v uint8) uint8 {
	carry := uint8(0)
	if s.getFlag(spcFlagC) {
		carry = 0x80
	}
	s.setFlag(spcFlagC, v&1 != 0)
	r := v>>1 | carry
	s.updateNZ(r)
	return r
}

// execute decodes and runs one SPC700 instruction. It covers a subset:
// register/direct-page/absolute moves, 8-bit ALU ops on immediate and
// direct-page operands, register INC/DEC and shifts, push/pop, branches,
// JMP/CALL/RET/RETI, and flag operations. Every other opcode (TCALL,
// indirect and word moves, memory INC/DEC, CMP X/Y, MUL/DIV, the bit
// operations, among others) runs as a 2-cycle no-op; the IPL boot ROM
// itself uses several of them.
func (s *SPC700) execute(op uint8) int {
	switch op {
	case 0x00: // NOP
		return 2
	case 0xFF, 0xEF: // SLEEP/STOP
		s.stopped = true
		return 3
	case 0x60: // CLRC
		s.setFlag(spcFlagC, false)
		return 2
	case 0x80: // SETC
		s.setFlag(spcFlagC, true)
		return 2
	case 0xED: // NOTC
		s.setFlag(spcFlagC, !s.getFlag(spcFlagC))
		return 3
	case 0x20: // CLRP
		s.setFlag(spcFlagP, false)
		return 2
	case 0x40: // SETP
		s.setFlag(spcFlagP, true)
		return 2
	case 0xA0: // EI
		s.setFlag(spcFlagI, true)
		return 3
	case 0xC0: // DI
		s.setFlag(spcFlagI, false)
		return 3
	case 0xE0: // CLRV
		s.setFlag(spcFlagV, false)
		s.setFlag(spcFlagH, false)
		return 2

	case 0xE8: // MOV A,#imm
		s.a = s.fetch8()
		s.updateNZ(s.a)
		return 2
	case 0xCD: // MOV X,#imm
		s.x = s.fetch8()
		s.updateNZ(s.x)
		return 2
	case 0x8D: // MOV Y,#imm
		s.y = s.fetch8()
		s.updateNZ(s.y)
		return 2
	case 0x7D: // MOV A,X
		s.a = s.x
		s.updateNZ(s.a)
		return 2
	case 0xDD: // MOV A,Y
		s.a = s.y
		s.updateNZ(s.a)
		return 2
	case 0x5D: // MOV X,A
		s.x = s.a
		s.updateNZ(s.x)
		return 2
	case 0xFD: // MOV Y,A
		s.y = s.a
		s.updateNZ(s.y)
		return 2
	case 0x9D: // MOV X,SP
		s.x = s.sp
		s.updateNZ(s.x)
		return 2
	case 0xBD: // MOV SP,X
		s.sp = s.x
		return 2

	case 0xE4: // MOV A,dp
		s.a = s.readDP(s.fetch8())
		s.updateNZ(s.a)
		return 3
	case 0xF4: // MOV A,dp+X
		s.a = s.readDP(s.fetch8() + s.x)
		s.updateNZ(s.a)
		return 4
	case 0xE5: // MOV A,abs
		s.a = s.read(s.fetch16())
		s.updateNZ(s.a)
		return 4
	case 0xF5: // MOV A,abs+X
		s.a = s.read(s.fetch16() + uint16(s.x))
		s.updateNZ(s.a)
		return 5
	case 0xF6: // MOV A,abs+Y
		s.a = s.read(s.fetch16() + uint16(s.y))
		s.updateNZ(s.a)
		return 5
	case 0xF8: // MOV X,dp
		s.x = s.readDP(s.fetch8())
		s.updateNZ(s.x)
		return 3
	case 0xF9: // MOV X,dp+Y
		s.x = s.readDP(s.fetch8() + s.y)
		s.updateNZ(s.x)
		return 4
	case 0xE9: // MOV X,abs
		s.x = s.read(s.fetch16())
		s.updateNZ(s.x)
		return 4
	case 0xEB: // MOV Y,dp
		s.y = s.readDP(s.fetch8())
		s.updateNZ(s.y)
		return 3
	case 0xFB: // MOV Y,dp+X
		s.y = s.readDP(s.fetch8() + s.x)
		s.updateNZ(s.y)
		return 4
	case 0xEC: // MOV Y,abs
		s.y = s.read(s.fetch16())
		s.updateNZ(s.y)
		return 4

	case 0xC4: // MOV dp,A
		s.writeDP(s.fetch8(), s.a)
		return 4
	case 0xD4: // MOV dp+X,A
		s.writeDP(s.fetch8()+s.x, s.a)
		return 5
	case 0xC5: // MOV abs,A
		s.write(s.fetch16(), s.a)
		return 5
	case 0xD5: // MOV abs+X,A
		s.write(s.fetch16()+uint16(s.x), s.a)
		return 6
	case 0xD6: // MOV abs+Y,A
		s.write(s.fetch16()+uint16(s.y), s.a)
		return 6
	case 0xD8: // MOV dp,X
		s.writeDP(s.fetch8(), s.x)
		return 4
	case 0xD9: // MOV dp+Y,X
		s.writeDP(s.fetch8()+s.y, s.x)
		return 5
	case 0xC9: // MOV abs,X
		s.write(s.fetch16(), s.x)
		return 5
	case 0xCB: // MOV dp,Y
		s.writeDP(s.fetch8(), s.y)
		return 4
	case 0xDB: // MOV dp+X,Y
		s.writeDP(s.fetch8()+s.x, s.y)
		return 5
	case 0xCC: // MOV abs,Y
		s.write(s.fetch16(), s.y)
		return 5

	case 0x8F: // MOV dp,#imm
		imm := s.fetch8()
		addr := s.fetch8()
		s.writeDP(addr, imm)
		return 5

	case 0x88: // ADC A,#imm
		s.a = s.opAdc(s.a, s.fetch8())
		return 2
	case 0x84: // ADC A,dp
		s.a = s.opAdc(s.a, s.readDP(s.fetch8()))
		return 3
	case 0xA8: // SBC A,#imm
		s.a = s.opSbc(s.a, s.fetch8())
		return 2
	case 0xA4: // SBC A,dp
		s.a = s.opSbc(s.a, s.readDP(s.fetch8()))
		return 3
	case 0x68: // CMP A,#imm
		s.opCmp(s.a, s.fetch8())
		return 2
	case 0x64: // CMP A,dp
		s.opCmp(s.a, s.readDP(s.fetch8()))
		return 3
	case 0x28: // AND A,#imm
		s.a &= s.fetch8()
		s.updateNZ(s.a)
		return 2
	case 0x24: // AND A,dp
		s.a &= s.readDP(s.fetch8())
		s.updateNZ(s.a)
		return 3
	case 0x08: // OR A,#imm
		s.a |= s.fetch8()
		s.updateNZ(s.a)
		return 2
	case 0x04: // OR A,dp
		s.a |= s.readDP(s.fetch8())
		s.updateNZ(s.a)
		return 3
	case 0x48: // EOR A,#imm
		s.a ^= s.fetch8()
		s.updateNZ(s.a)
		return 2
	case 0x44: // EOR A,dp
		s.a ^= s.readDP(s.fetch8())
		s.updateNZ(s.a)
		return 3

	case 0xBC: // INC A
		s.a++
		s.updateNZ(s.a)
		return 2
	case 0x9C: // DEC A
		s.a--
		s.updateNZ(s.a)
		return 2
	case 0x3D: // INC X
		s.x++
		s.updateNZ(s.x)
		return 2
	case 0x1D: // DEC X
		s.x--
		s.updateNZ(s.x)
		return 2
	case 0xFC: // INC Y
		s.y++
		s.updateNZ(s.y)
		return 2
	case 0xDC: // DEC Y
		s.y--
		s.updateNZ(s.y)
		return 2

	case 0x1C: // ASL A
		s.a = s.opAsl(s.a)
		return 2
	case 0x5C: // LSR A
		s.a = s.opLsr(s.a)
		return 2
	case 0x3C: // ROL A
		s.a = s.opRol(s.a)
		return 2
	case 0x7C: // ROR A
		s.a = s.opRor(s.a)
		return 2

	case 0x2D: // PUSH A
		s.push(s.a)
		return 4
	case 0x4D: // PUSH X
		s.push(s.x)
		return 4
	case 0x6D: // PUSH Y
		s.push(s.y)
		return 4
	case 0x0D: // PUSH PSW
		s.push(s.psw)
		return 4
	case 0xAE: // POP A
		s.a = s.pop()
		return 4
	case 0xCE: // POP X
		s.x = s.pop()
		return 4
	case 0xEE: // POP Y
		s.y = s.pop()
		return 4
	case 0x8E: // POP PSW
		s.psw = s.pop()
		return 4

	case 0x2F: // BRA rel
		s.branch(true)
		return 4
	case 0xF0: // BEQ
		s.branch(s.getFlag(spcFlagZ))
		return 2
	case 0xD0: // BNE
		s.branch(!s.getFlag(spcFlagZ))
		return 2
	case 0xB0: // BCS
		s.branch(s.getFlag(spcFlagC))
		return 2
	case 0x90: // BCC
		s.branch(!s.getFlag(spcFlagC))
		return 2
	case 0x70: // BVS
		s.branch(s.getFlag(spcFlagV))
		return 2
	case 0x50: // BVC
		s.branch(!s.getFlag(spcFlagV))
		return 2
	case 0x30: // BMI
		s.branch(s.getFlag(spcFlagN))
		return 2
	case 0x10: // BPL
		s.branch(!s.getFlag(spcFlagN))
		return 2

	case 0x5F: // JMP abs
		s.pc = s.fetch16()
		return 3
	case 0x3F: // CALL abs
		target := s.fetch16()
		s.push16(s.pc)
		s.pc = target
		return 8
	case 0x6F: // RET
		s.pc = s.pop16()
		return 5
	case 0x7F: // RETI
		s.psw = s.pop()
		s.pc = s.pop16()
		return 6
	}

	return 2
}

func (s *SPC700) branch(take bool) {
	rel := int8(s.fetch8())
	if take {
		s.pc = uint16(int32(s.pc) + int32(rel))
	}
}
