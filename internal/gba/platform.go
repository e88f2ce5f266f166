// platform.go - core.Platform implementation for the GBA
//
// License: GPLv3 or later

package gba

import (
	"math"

	"github.com/zaynotley/tricore/internal/core"
	"github.com/zaynotley/tricore/internal/romdetect"
)

// Platform wires together every GBA subsystem behind the core.Platform
// contract shared across all three emulated machines.
type Platform struct {
	bus    *Bus
	cpu    *CPU
	ppu    *PPU
	apu    *APU
	timers *Timers
	dma    *DMAEngine
	keypad *Keypad
	mapper Mapper

	mapperKind SaveKind
	sampleRate int
	loaded     bool
	bios       []byte
}

// NewPlatform constructs a GBA platform using an internal stub BIOS; SWI
// calls are high-level emulated in bios.go rather than executed, but the
// hardware IRQ vector at 0x18 is real hand-assembled dispatcher code so
// that a VBlank/timer/keypad IRQ actually reaches the loaded game's
// handler.
func NewPlatform(sampleRate int) *Platform {
	bios := make([]byte, 0x4000)
	installIRQDispatcher(bios)
	return &Platform{sampleRate: sampleRate, bios: bios}
}

func (p *Platform) LoadROM(rom []byte) error {
	if len(rom) < 0xC0 {
		return &core.ErrROMRejected{Reason: "ROM image shorter than the GBA cartridge header"}
	}
	rom = romdetect.StripCopierHeader(rom, 0x200, romdetect.GBAHeaderScore)

	p.mapperKind = DetectSaveKind(rom)
	p.mapper = NewMapper(rom)

	p.bus = NewBus(p.bios)
	p.bus.Mapper = p.mapper
	p.ppu = NewPPU()
	p.apu = NewAPU(p.sampleRate)
	p.timers = NewTimers(p.bus)
	p.dma = NewDMAEngine(p.bus)
	p.keypad = NewKeypad()
	p.cpu = NewCPU(p.bus)

	p.ppu.bus = p.bus
	p.bus.PPU = p.ppu
	p.bus.APU = p.apu
	p.bus.Timers = p.timers
	p.bus.DMA = p.dma
	p.bus.Keypad = p.keypad
	p.bus.CPU = p.cpu

	p.loaded = true
	p.Reset()
	return nil
}

func (p *Platform) UnloadROM() {
	p.loaded = false
}

func (p *Platform) Reset() {
	if !p.loaded {
		return
	}
	p.cpu.Reset()
	p.cpu.Regs.SetMode(ModeSystem)
	p.cpu.Regs.R[13] = 0x03007F00 // System-mode stack, set by the real BIOS at boot
	p.cpu.Regs.R[15] = 0x08000000
	p.ppu.Reset()
	p.ppu.bus = p.bus
	p.apu.Reset()
	p.mapper.Reset()
}

func (p *Platform) RunFrame(in core.Input) {
	if !p.loaded {
		return
	}
	p.keypad.SetInput(in)
	p.cpu.RunFrame()
}

func (p *Platform) FrameBuffer() core.FrameBuffer {
	return p.ppu.FrameBuffer()
}

func (p *Platform) AudioFrame() core.AudioFrame {
	samples := p.apu.DrainSamples()
	pcm := make([]int16, 2*len(samples)) // mono mix duplicated into interleaved L/R
	for i, s := range samples {
		v := s * 32767
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		pcm[2*i] = int16(math.Round(float64(v)))
		pcm[2*i+1] = pcm[2*i]
	}
	return core.AudioFrame{SampleRate: p.sampleRate, Samples: pcm}
}

func (p *Platform) HasBatterySave() bool {
	return p.loaded && p.mapper.HasBattery()
}

func (p *Platform) BatterySaveData() []byte {
	if !p.loaded {
		return nil
	}
	return p.mapper.BatteryData()
}

func (p *Platform) SetBatterySaveData(data []byte) error {
	if !p.loaded {
		return &core.ErrROMRejected{Reason: "no ROM loaded"}
	}
	return p.mapper.SetBatteryData(data)
}

func (p *Platform) ControllerLayout() core.ControllerLayout {
	return core.ControllerLayout{
		Buttons: []core.Button{
			core.ButtonUp, core.ButtonDown, core.ButtonLeft, core.ButtonRight,
			core.ButtonA, core.ButtonB, core.ButtonL, core.ButtonR,
			core.ButtonStart, core.ButtonSelect,
		},
	}
}

var _ core.Platform = (*Platform)(nil)
