// state.go - versioned save-state serialization for the GB/GBC core
//
// License: GPLv3 or later

package gb

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/zaynotley/tricore/internal/core"
)

// saveStateVersion is bumped whenever the encoded layout changes;
// LoadState rejects any other version rather than guessing at a
// compatible decode.
const saveStateVersion = 1

// SaveState encodes CPU, graphics, bus and audio state, then mapper state,
// ordered so that a state saved
// by one mapper kind is rejected (not silently misread) when loaded
// against a ROM using a different mapper.
func (p *Platform) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	w := func(v any) {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	w(uint32(saveStateVersion))

	// CPU
	w(p.cpu.Regs)
	w(p.cpu.ime)
	w(p.cpu.halted)
	w(p.cpu.stopped)

	// Graphics
	w(p.ppu.vram)
	w(p.ppu.oam)
	w(p.ppu.lcdc)
	w(p.ppu.stat)
	w(p.ppu.scy)
	w(p.ppu.scx)
	w(p.ppu.ly)
	w(p.ppu.lyc)
	w(p.ppu.wy)
	w(p.ppu.wx)
	w(p.ppu.bgp)
	w(p.ppu.obp0)
	w(p.ppu.obp1)
	w(p.ppu.bgPalette)
	w(p.ppu.objPalette)
	w(p.ppu.vbk)
	w(int32(p.ppu.scheduledDot))

	// Bus
	w(p.bus.wram)
	w(int32(p.bus.wramBank))
	w(p.bus.hram)
	w(p.bus.ie)
	w(p.bus.ifr)

	// Audio (channel configuration only; in-flight sample buffer is not
	// state that needs to round-trip)
	w(p.apu.ch1)
	w(p.apu.ch2)
	w(p.apu.ch3)
	w(p.apu.ch4)
	w(p.apu.nr50)
	w(p.apu.nr51)
	w(p.apu.enabled)

	// Mapper, tagged by kind so LoadState can refuse a mismatched blob.
	w(uint8(p.mapperKind))
	mapperBlob := p.mapper.saveStateBlob()
	w(uint32(len(mapperBlob)))
	buf.Write(mapperBlob)

	return buf.Bytes(), nil
}

func (p *Platform) LoadState(data []byte) error {
	buf := bytes.NewReader(data)
	read := func(v any) error {
		return binary.Read(buf, binary.LittleEndian, v)
	}

	var version uint32
	if err := read(&version); err != nil {
		return fmt.Errorf("reading save state version: %w", err)
	}
	if version != saveStateVersion {
		return &core.ErrSaveStateIncompatible{Reason: fmt.Sprintf("unsupported save state version %d", version)}
	}

	read(&p.cpu.Regs)
	read(&p.cpu.ime)
	read(&p.cpu.halted)
	read(&p.cpu.stopped)

	read(&p.ppu.vram)
	read(&p.ppu.oam)
	read(&p.ppu.lcdc)
	read(&p.ppu.stat)
	read(&p.ppu.scy)
	read(&p.ppu.scx)
	read(&p.ppu.ly)
	read(&p.ppu.lyc)
	read(&p.ppu.wy)
	read(&p.ppu.wx)
	read(&p.ppu.bgp)
	read(&p.ppu.obp0)
	read(&p.ppu.obp1)
	read(&p.ppu.bgPalette)
	read(&p.ppu.objPalette)
	read(&p.ppu.vbk)
	var dot int32
	read(&dot)
	p.ppu.scheduledDot = int(dot)
	p.ppu.renderedDot = int(dot)

	read(&p.bus.wram)
	var wramBank int32
	read(&wramBank)
	p.bus.wramBank = int(wramBank)
	read(&p.bus.hram)
	read(&p.bus.ie)
	read(&p.bus.ifr)

	read(&p.apu.ch1)
	read(&p.apu.ch2)
	read(&p.apu.ch3)
	read(&p.apu.ch4)
	read(&p.apu.nr50)
	read(&p.apu.nr51)
	read(&p.apu.enabled)

	var mapperKind uint8
	read(&mapperKind)
	if MapperKind(mapperKind) != p.mapperKind {
		return &core.ErrSaveStateIncompatible{Reason: "save state mapper kind does not match loaded ROM's mapper"}
	}
	var blobLen uint32
	read(&blobLen)
	blob := make([]byte, blobLen)
	buf.Read(blob)
	return p.mapper.loadStateBlob(blob)
}
