// state.go - versioned save-state serialization
//
// License: GPLv3 or later

package gba

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/zaynotley/tricore/internal/core"
)

const saveStateVersion = 1

func (p *Platform) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	w := func(v interface{}) { binary.Write(&buf, binary.LittleEndian, v) }

	w(uint32(saveStateVersion))
	w(p.cpu.Regs.R)
	w(p.cpu.Regs.CPSR)
	w(p.cpu.Regs.bankedFIQ)
	w(p.cpu.Regs.bankedSVC)
	w(p.cpu.Regs.bankedIRQ)
	w(p.cpu.Regs.bankedABT)
	w(p.cpu.Regs.bankedUND)
	w(p.cpu.Regs.userR8_12)
	w(p.cpu.Regs.bankedUSR)
	w(p.cpu.Regs.spsrFIQ)
	w(p.cpu.Regs.spsrSVC)
	w(p.cpu.Regs.spsrIRQ)
	w(p.cpu.Regs.spsrABT)
	w(p.cpu.Regs.spsrUND)
	w(p.cpu.halted)

	w(p.bus.ewram)
	w(p.bus.iwram)
	w(p.bus.ie)
	w(p.bus.ifr)
	w(p.bus.ime)
	w(p.bus.waitcnt)
	w(p.bus.lastBIOSFetch)

	w(p.ppu.vram)
	w(p.ppu.palette)
	w(p.ppu.oam)
	w(p.ppu.dispcnt)
	w(p.ppu.dispstat)
	w(p.ppu.vcount)
	w(p.ppu.bg)
	w(p.ppu.winH)
	w(p.ppu.winV)
	w(p.ppu.winIn)
	w(p.ppu.winOut)
	w(p.ppu.mosaic)
	w(p.ppu.bldcnt)
	w(p.ppu.bldalpha)
	w(p.ppu.bldy)
	w(int64(p.ppu.scheduledDot))

	w(p.timers.t)
	w(p.dma.ch)

	w(int32(p.mapperKind))
	blob := p.mapper.saveStateBlob()
	w(uint32(len(blob)))
	buf.Write(blob)

	return buf.Bytes(), nil
}

func (p *Platform) LoadState(data []byte) error {
	r := bytes.NewReader(data)
	read := func(vs ...interface{}) {
		for _, v := range vs {
			binary.Read(r, binary.LittleEndian, v)
		}
	}

	var version uint32
	read(&version)
	if version != saveStateVersion {
		return &core.ErrSaveStateIncompatible{Reason: fmt.Sprintf("save state version %d, expected %d", version, saveStateVersion)}
	}

	read(&p.cpu.Regs.R)
	read(&p.cpu.Regs.CPSR)
	read(&p.cpu.Regs.bankedFIQ)
	read(&p.cpu.Regs.bankedSVC)
	read(&p.cpu.Regs.bankedIRQ)
	read(&p.cpu.Regs.bankedABT)
	read(&p.cpu.Regs.bankedUND)
	read(&p.cpu.Regs.userR8_12)
	read(&p.cpu.Regs.bankedUSR)
	read(&p.cpu.Regs.spsrFIQ)
	read(&p.cpu.Regs.spsrSVC)
	read(&p.cpu.Regs.spsrIRQ)
	read(&p.cpu.Regs.spsrABT)
	read(&p.cpu.Regs.spsrUND)
	read(&p.cpu.halted)

	read(&p.bus.ewram)
	read(&p.bus.iwram)
	read(&p.bus.ie)
	read(&p.bus.ifr)
	read(&p.bus.ime)
	read(&p.bus.waitcnt)
	read(&p.bus.lastBIOSFetch)

	read(&p.ppu.vram)
	read(&p.ppu.palette)
	read(&p.ppu.oam)
	read(&p.ppu.dispcnt)
	read(&p.ppu.dispstat)
	read(&p.ppu.vcount)
	for i := range p.ppu.bg { // field by field: binary.Read cannot set unexported fields
		b := &p.ppu.bg[i]
		read(&b.cnt, &b.hofs, &b.vofs, &b.pa, &b.pb, &b.pc, &b.pd, &b.refX, &b.refY, &b.accumX, &b.accumY)
	}
	read(&p.ppu.winH)
	read(&p.ppu.winV)
	read(&p.ppu.winIn)
	read(&p.ppu.winOut)
	read(&p.ppu.mosaic)
	read(&p.ppu.bldcnt)
	read(&p.ppu.bldalpha)
	read(&p.ppu.bldy)
	var dot int64
	read(&dot)
	p.ppu.scheduledDot = int(dot)
	p.ppu.renderedDot = p.ppu.scheduledDot

	for i := range p.timers.t {
		read(&p.timers.t[i].reload, &p.timers.t[i].counter, &p.timers.t[i].control, &p.timers.t[i].prescalerCounter, &p.timers.t[i].overflowed)
	}
	for i := range p.dma.ch {
		read(&p.dma.ch[i].srcAddr, &p.dma.ch[i].dstAddr, &p.dma.ch[i].srcReload, &p.dma.ch[i].dstReload, &p.dma.ch[i].count, &p.dma.ch[i].countReload, &p.dma.ch[i].control)
	}

	var kind int32
	read(&kind)
	if SaveKind(kind) != p.mapperKind {
		return &core.ErrSaveStateIncompatible{Reason: "save state backup-storage kind does not match loaded ROM"}
	}
	var blobLen uint32
	read(&blobLen)
	blob := make([]byte, blobLen)
	r.Read(blob)
	return p.mapper.loadStateBlob(blob)
}
