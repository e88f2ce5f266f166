// platform.go - core.Platform implementation for the GB/GBC core
//
// License: GPLv3 or later

package gb

import (
	"github.com/zaynotley/tricore/internal/core"
)

// Platform wires a Bus, CPU and every peripheral into the platform-
// independent core.Platform contract.
type Platform struct {
	bus *Bus
	cpu *CPU
	ppu *PPU
	apu *APU
	timer *Timer
	dma *DMAEngine
	joypad *Joypad

	mapper     Mapper
	mapperKind MapperKind

	sampleRate int
	loaded     bool

	rtcAccumNanos int64
}

const gbControllerLayoutName = "Game Boy"

// NewPlatform constructs an unloaded GB/GBC platform instance ready for
// LoadROM. sampleRate is the host audio sample rate the APU mixes to.
func NewPlatform(sampleRate int) *Platform {
	return &Platform{sampleRate: sampleRate}
}

func (p *Platform) LoadROM(rom []byte) error {
	if len(rom) < 0x150 {
		return &core.ErrROMRejected{Reason: "image shorter than the cartridge header"}
	}

	mapper := NewMapper(rom)
	kind := mapperKindOf(rom)

	bus := NewBus()
	bus.CGBMode = rom[0x0143]&0x80 != 0
	bus.Mapper = mapper

	ppu := NewPPU(bus)
	ppu.SetCGBMode(bus.CGBMode)
	apu := NewAPU(p.sampleRate)
	timer := NewTimer(bus)
	dma := NewDMAEngine(bus)
	joypad := NewJoypad(bus)

	bus.PPU = ppu
	bus.APU = apu
	bus.Timer = timer
	bus.DMA = dma
	bus.Joypad = joypad

	cpu := NewCPU(bus)

	p.bus, p.cpu, p.ppu, p.apu, p.timer, p.dma, p.joypad = bus, cpu, ppu, apu, timer, dma, joypad
	p.mapper, p.mapperKind = mapper, kind
	p.loaded = true
	return nil
}

func mapperKindOf(rom []byte) MapperKind {
	switch rom[0x0147] {
	case 0x00:
		return KindNone
	case 0x01, 0x02, 0x03, 0x05, 0x06:
		return KindMBC1
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return KindMBC3
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return KindMBC5
	default:
		return KindNone
	}
}

func (p *Platform) UnloadROM() {
	p.bus, p.cpu, p.ppu, p.apu, p.timer, p.dma, p.joypad, p.mapper = nil, nil, nil, nil, nil, nil, nil, nil
	p.loaded = false
}

func (p *Platform) Reset() {
	if !p.loaded {
		return
	}
	p.mapper.Reset()
	p.ppu.Reset()
	p.apu.Reset()
	p.cpu.Reset()
}

// RunFrame advances the whole machine by exactly one video frame, publishing
// the given input at the start of the frame.
func (p *Platform) RunFrame(in core.Input) {
	if !p.loaded {
		return
	}
	p.joypad.SetInput(in)
	p.cpu.RunFrame()

	if ticker, ok := p.mapper.(rtcTicker); ok {
		const nanosPerFrame = 1_000_000_000 / 60
		p.rtcAccumNanos += nanosPerFrame
		if p.rtcAccumNanos >= 1_000_000_000 {
			ticker.TickRTC(int(p.rtcAccumNanos / 1_000_000_000))
			p.rtcAccumNanos %= 1_000_000_000
		}
	}
}

func (p *Platform) FrameBuffer() core.FrameBuffer {
	if !p.loaded {
		return core.FrameBuffer{Width: ScreenWidth, Height: ScreenHeight}
	}
	return p.ppu.FrameBuffer()
}

func (p *Platform) AudioFrame() core.AudioFrame {
	if !p.loaded {
		return core.AudioFrame{SampleRate: p.sampleRate}
	}
	samples := p.apu.DrainSamples()
	// The APU mixes mono; duplicate each sample into the L and R slots of
	// the interleaved stereo frame.
	out := make([]int16, 2*len(samples))
	for i, s := range samples {
		v := int32(s * 32767)
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[2*i] = int16(v)
		out[2*i+1] = int16(v)
	}
	return core.AudioFrame{Samples: out, SampleRate: p.sampleRate}
}

func (p *Platform) HasBatterySave() bool {
	return p.loaded && p.mapper.HasBattery()
}

func (p *Platform) BatterySaveData() []byte {
	if !p.loaded || !p.mapper.HasBattery() {
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
		Name: gbControllerLayoutName,
		Buttons: []core.Button{
			core.ButtonUp, core.ButtonDown, core.ButtonLeft, core.ButtonRight,
			core.ButtonA, core.ButtonB, core.ButtonSelect, core.ButtonStart,
		},
	}
}

var _ core.Platform = (*Platform)(nil)
