// platform.go - core.Platform implementation for the SNES
//
// License: GPLv3 or later

package snes

import "github.com/zaynotley/tricore/internal/core"

// Platform wires the 65816, PPU, APU, DMA engine, and cartridge mapper
// together behind the core.Platform contract shared across all three
// emulated machines.
type Platform struct {
	bus       *Bus
	cpu       *CPU
	ppu       *PPU
	apu       *APU
	dma       *DMA
	mapper    *Cart
	scheduler *Scheduler

	loaded bool
}

func NewPlatform() *Platform { return &Platform{} }

func (p *Platform) LoadROM(data []byte) error {
	cart, err := DetectCart(data)
	if err != nil {
		return err
	}
	p.mapper = cart

	p.bus = NewBus()
	p.bus.Mapper = p.mapper
	p.ppu = NewPPU()
	p.apu = NewAPU()
	p.dma = NewDMA(p.bus)
	p.cpu = NewCPU(p.bus)

	p.bus.PPU = p.ppu
	p.bus.APU = p.apu
	p.bus.DMA = p.dma

	p.scheduler = NewScheduler(p.cpu, p.ppu, p.dma, p.apu, p.bus)

	p.loaded = true
	p.Reset()
	return nil
}

func (p *Platform) UnloadROM() { p.loaded = false }

func (p *Platform) Reset() {
	if !p.loaded {
		return
	}
	p.bus.Reset()
	p.ppu.Reset()
	p.apu.Reset()
	p.dma.Reset()
	p.mapper.Reset()
	p.cpu.Reset()
}

func (p *Platform) RunFrame(in core.Input) {
	if !p.loaded {
		return
	}
	p.bus.SetInput(in)
	p.scheduler.RunFrame()
}

func (p *Platform) FrameBuffer() core.FrameBuffer {
	pixels := p.ppu.Framebuffer()
	return core.FrameBuffer{Pixels: pixels, Width: screenWidth, Height: screenHeight}
}

func (p *Platform) AudioFrame() core.AudioFrame {
	return core.AudioFrame{Samples: p.apu.DrainSamples(), SampleRate: p.apu.SampleRate()}
}

func (p *Platform) HasBatterySave() bool {
	return p.loaded && p.mapper.HasBatterySave()
}

func (p *Platform) BatterySaveData() []byte {
	if !p.loaded {
		return nil
	}
	return p.mapper.SaveRAM()
}

func (p *Platform) SetBatterySaveData(data []byte) error {
	if !p.loaded {
		return &core.ErrROMRejected{Reason: "no ROM loaded"}
	}
	p.mapper.LoadSaveRAM(data)
	return nil
}

func (p *Platform) ControllerLayout() core.ControllerLayout {
	return core.ControllerLayout{
		Name: "SNES",
		Buttons: []core.Button{
			core.ButtonUp, core.ButtonDown, core.ButtonLeft, core.ButtonRight,
			core.ButtonA, core.ButtonB, core.ButtonX, core.ButtonY,
			core.ButtonL, core.ButtonR, core.ButtonStart, core.ButtonSelect,
		},
	}
}

var _ core.Platform = (*Platform)(nil)
