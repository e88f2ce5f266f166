// state.go - versioned save-state serialization
//
// License: GPLv3 or later

package snes

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

	r := p.cpu.Regs
	w(r.A)
	w(r.X)
	w(r.Y)
	w(r.SP)
	w(r.D)
	w(r.DBR)
	w(r.PBR)
	w(r.P)
	w(r.PC)
	w(r.Emulation)

	b := p.bus
	w(b.WRAM)
	w(b.wramAddr)
	w(b.nmitimen)
	w(b.wrio)
	w(b.wrmpya)
	w(b.wrmpyb)
	w(b.wrdiv)
	w(b.htime)
	w(b.vtime)
	w(b.memsel)
	w(b.rddiv)
	w(b.rdmpy)
	w(b.rdnmi)
	w(b.timeup)
	w(b.joy1)
	w(b.joy2)
	w(b.joyLatch)
	w(b.autoJoyRead)
	w(int32(b.autoJoyCounter))
	w(b.nmiLine)
	w(b.irqLine)
	w(b.irqLock)

	pp := p.ppu
	w(pp.vram)
	w(pp.oam)
	w(pp.cgram)
	w(int32(pp.scanline))
	w(int32(pp.dot))
	w(pp.forceBlank)
	w(pp.brightness)
	w(pp.obsel)
	w(pp.oamAddr)
	w(int32(pp.bgMode))
	w(pp.bg3Priority)
	w(pp.bgTileSize)
	w(pp.bgTilemapAddr)
	w(pp.bgTilemapWide)
	w(pp.bgTilemapHigh)
	w(pp.bgChrAddr)
	w(pp.bgHOFS)
	w(pp.bgVOFS)
	w(pp.vmain)
	w(pp.vramAddr)
	w(pp.cgramAddr)
	w(pp.tm)
	w(pp.ts)
	w(pp.tmw)
	w(pp.tsw)
	w(pp.cgwsel)
	w(pp.fixedR)
	w(pp.fixedG)
	w(pp.fixedB)
	w(pp.m7sel)
	w(pp.m7a)
	w(pp.m7b)
	w(pp.m7c)
	w(pp.m7d)
	w(pp.m7x)
	w(pp.m7y)
	w(pp.m7hofs)
	w(pp.m7vofs)
	w(pp.window1Left)
	w(pp.window1Right)
	w(pp.window2Left)
	w(pp.window2Right)

	for i := range p.dma.ch {
		ch := &p.dma.ch[i]
		w(ch.dmap)
		w(ch.bbad)
		w(ch.a1t)
		w(ch.a1b)
		w(ch.das)
		w(ch.dasb)
		w(ch.a2a)
		w(ch.nltr)
		w(ch.hdmaDoTransfer)
		w(ch.hdmaTerminated)
		w(int32(ch.hdmaLineCounter))
	}
	w(p.dma.hdmaen)

	spc := p.apu.spc
	w(spc.a)
	w(spc.x)
	w(spc.y)
	w(spc.sp)
	w(spc.pc)
	w(spc.psw)
	w(spc.ram)
	w(spc.iplEnabled)
	w(spc.portOut)
	w(spc.portIn)
	w(spc.timerTarget)
	w(spc.timerCounter)
	w(spc.timerOutput)
	w(spc.control)

	dsp := p.apu.dsp
	w(dsp.address)
	w(dsp.regs)

	blob := p.mapper.saveStateBlob()
	w(uint32(len(blob)))
	buf.Write(blob)

	return buf.Bytes(), nil
}

func (p *Platform) LoadState(data []byte) error {
	r := bytes.NewReader(data)
	read := func(v interface{}) { binary.Read(r, binary.LittleEndian, v) }

	var version uint32
	read(&version)
	if version != saveStateVersion {
		return &core.ErrSaveStateIncompatible{Reason: fmt.Sprintf("save state version %d, expected %d", version, saveStateVersion)}
	}

	regs := p.cpu.Regs
	read(&regs.A)
	read(&regs.X)
	read(&regs.Y)
	read(&regs.SP)
	read(&regs.D)
	read(&regs.DBR)
	read(&regs.PBR)
	read(&regs.P)
	read(&regs.PC)
	read(&regs.Emulation)

	b := p.bus
	read(&b.WRAM)
	read(&b.wramAddr)
	read(&b.nmitimen)
	read(&b.wrio)
	read(&b.wrmpya)
	read(&b.wrmpyb)
	read(&b.wrdiv)
	read(&b.htime)
	read(&b.vtime)
	read(&b.memsel)
	read(&b.rddiv)
	read(&b.rdmpy)
	read(&b.rdnmi)
	read(&b.timeup)
	read(&b.joy1)
	read(&b.joy2)
	read(&b.joyLatch)
	read(&b.autoJoyRead)
	var autoJoyCounter int32
	read(&autoJoyCounter)
	b.autoJoyCounter = int(autoJoyCounter)
	read(&b.nmiLine)
	read(&b.irqLine)
	read(&b.irqLock)

	pp := p.ppu
	read(&pp.vram)
	read(&pp.oam)
	read(&pp.cgram)
	var scanline, dot int32
	read(&scanline)
	read(&dot)
	pp.scanline = int(scanline)
	pp.dot = int(dot)
	read(&pp.forceBlank)
	read(&pp.brightness)
	read(&pp.obsel)
	read(&pp.oamAddr)
	var bgMode int32
	read(&bgMode)
	pp.bgMode = int(bgMode)
	read(&pp.bg3Priority)
	read(&pp.bgTileSize)
	read(&pp.bgTilemapAddr)
	read(&pp.bgTilemapWide)
	read(&pp.bgTilemapHigh)
	read(&pp.bgChrAddr)
	read(&pp.bgHOFS)
	read(&pp.bgVOFS)
	read(&pp.vmain)
	read(&pp.vramAddr)
	read(&pp.cgramAddr)
	read(&pp.tm)
	read(&pp.ts)
	read(&pp.tmw)
	read(&pp.tsw)
	read(&pp.cgwsel)
	read(&pp.fixedR)
	read(&pp.fixedG)
	read(&pp.fixedB)
	read(&pp.m7sel)
	read(&pp.m7a)
	read(&pp.m7b)
	read(&pp.m7c)
	read(&pp.m7d)
	read(&pp.m7x)
	read(&pp.m7y)
	read(&pp.m7hofs)
	read(&pp.m7vofs)
	read(&pp.window1Left)
	read(&pp.window1Right)
	read(&pp.window2Left)
	read(&pp.window2Right)

	for i := range p.dma.ch {
		ch := &p.dma.ch[i]
		read(&ch.dmap)
		read(&ch.bbad)
		read(&ch.a1t)
		read(&ch.a1b)
		read(&ch.das)
		read(&ch.dasb)
		read(&ch.a2a)
		read(&ch.nltr)
		read(&ch.hdmaDoTransfer)
		read(&ch.hdmaTerminated)
		var lineCounter int32
		read(&lineCounter)
		ch.hdmaLineCounter = int(lineCounter)
	}
	read(&p.dma.hdmaen)

	spc := p.apu.spc
	read(&spc.a)
	read(&spc.x)
	read(&spc.y)
	read(&spc.sp)
	read(&spc.pc)
	read(&spc.psw)
	read(&spc.ram)
	read(&spc.iplEnabled)
	read(&spc.portOut)
	read(&spc.portIn)
	read(&spc.timerTarget)
	read(&spc.timerCounter)
	read(&spc.timerOutput)
	read(&spc.control)

	dsp := p.apu.dsp
	read(&dsp.address)
	read(&dsp.regs)

	var blobLen uint32
	read(&blobLen)
	blob := make([]byte, blobLen)
	r.Read(blob)
	return p.mapper.loadStateBlob(blob)
}
