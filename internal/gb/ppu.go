// ppu.go - catch-up-rendering graphics unit for the GB/GBC core
//
// License: GPLv3 or later

package gb

import "github.com/zaynotley/tricore/internal/core"

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine  = 456
	linesPerFrame = 154
	vblankStartLine = 144
)

// LCDC bits.
const (
	lcdcEnable        uint8 = 1 << 7
	lcdcWinTileMap    uint8 = 1 << 6
	lcdcWinEnable     uint8 = 1 << 5
	lcdcBGWinTileData uint8 = 1 << 4
	lcdcBGTileMap     uint8 = 1 << 3
	lcdcObjSize       uint8 = 1 << 2
	lcdcObjEnable     uint8 = 1 << 1
	lcdcBGEnable      uint8 = 1 << 0
)

// STAT mode values.
const (
	modeHBlank = 0
	modeVBlank = 1
	modeOAM    = 2
	modeTransfer = 3
)

// PPU renders to a 160x144 framebuffer using a true catch-up pipeline: the
// "rendered cursor" (scanline, dot) never moves past the "scheduled
// cursor" the scheduler advances, and every register write that affects
// pixel production first syncs rendering up to the scheduled cursor.
type PPU struct {
	bus *Bus

	vram [2][0x2000]byte // bank 0 always present; bank 1 GBC-only
	vbk  uint8
	oam  [0xA0]byte

	lcdc, stat         uint8
	scy, scx           uint8
	ly, lyc            uint8
	wy, wx             uint8
	bgp, obp0, obp1    uint8

	// GBC palette RAM: 8 palettes x 4 colors x 2 bytes (BGR555).
	bgPalette  [64]byte
	objPalette [64]byte
	bcps, ocps uint8

	scheduledDot int // 0..dotsPerLine*linesPerFrame-1 within the current frame
	renderedDot  int

	frame      [ScreenWidth * ScreenHeight]uint32
	statLine   bool // previous state of the STAT interrupt line, for edge detection
	windowLineCounter int
	windowTriggeredThisFrame bool

	cgbMode bool
}

func NewPPU(bus *Bus) *PPU {
	return &PPU{bus: bus, lcdc: 0x91, bgp: 0xFC}
}

func (p *PPU) CurrentLine() uint8 { return uint8(p.scheduledDot / dotsPerLine) }
func (p *PPU) CurrentDotInLine() int { return p.scheduledDot % dotsPerLine }

// SyncToCurrent renders every pixel between the rendered cursor and the
// scheduled cursor using the register state in effect right now, then
// parks the rendered cursor at the scheduled cursor. The bus calls this
// before every register write that could change pixel production.
func (p *PPU) SyncToCurrent() {
	if p.renderedDot >= p.scheduledDot {
		return
	}
	for p.renderedDot < p.scheduledDot {
		line := p.renderedDot / dotsPerLine
		dot := p.renderedDot % dotsPerLine
		if line < ScreenHeight && dot >= 80 && dot < 80+172 {
			x := dot - 80
			if x < ScreenWidth {
				p.renderPixel(x, uint8(line))
			}
		}
		p.renderedDot++
	}
}

// Advance moves the scheduled cursor forward by the given number of
// machine cycles (4 dots each), handling mode transitions, LY/LYC
// comparison, STAT/VBlank interrupt requests and HDMA HBlank triggers
// along the way. It returns only after the cursor has moved; it does not
// itself render — SyncToCurrent does that lazily.
func (p *PPU) Advance(cycles int) {
	dots := cycles * 4
	if p.lcdc&lcdcEnable == 0 {
		return
	}
	for i := 0; i < dots; i++ {
		p.advanceOneDot()
	}
}

func (p *PPU) advanceOneDot() {
	lineBefore := p.CurrentLine()
	dotBefore := p.CurrentDotInLine()

	p.scheduledDot++
	if p.scheduledDot >= dotsPerLine*linesPerFrame {
		p.scheduledDot = 0
		p.renderedDot = 0
		p.windowLineCounter = 0
	}

	line := p.CurrentLine()
	dot := p.CurrentDotInLine()
	p.ly = line

	if dot == 0 && line != lineBefore {
		p.windowTriggeredThisFrame = p.windowTriggeredThisFrame // no-op placeholder for clarity
		if line == 0 {
			p.windowLineCounter = 0
		}
	}

	mode := p.modeForLineAndDot(line, dot)
	prevMode := p.modeForLineAndDot(lineBefore, dotBefore)
	if mode != prevMode {
		p.onModeChange(mode, line)
	}

	p.updateSTATLine(mode)
}

func (p *PPU) modeForLineAndDot(line uint8, dot int) uint8 {
	if int(line) >= vblankStartLine {
		return modeVBlank
	}
	switch {
	case dot < 80:
		return modeOAM
	case dot < 80+172:
		return modeTransfer
	default:
		return modeHBlank
	}
}

func (p *PPU) onModeChange(mode uint8, line uint8) {
	switch mode {
	case modeVBlank:
		p.SyncToCurrent()
		p.bus.RequestInterrupt(IntVBlank)
	case modeHBlank:
		p.SyncToCurrent()
		p.bus.DMA.OnHBlank()
		if p.lcdc&lcdcWinEnable != 0 {
			// window line counter only advances on lines where the
			// window was actually drawn; approximated by WY compare.
			if int(line) >= int(p.wy) {
				p.windowLineCounter++
			}
		}
	}
}

func (p *PPU) updateSTATLine(mode uint8) {
	p.stat = p.stat&0xF8 | mode
	lycMatch := p.ly == p.lyc
	if lycMatch {
		p.stat |= 1 << 2
	} else {
		p.stat &^= 1 << 2
	}

	line := false
	if lycMatch && p.stat&(1<<6) != 0 {
		line = true
	}
	switch mode {
	case modeHBlank:
		line = line || p.stat&(1<<3) != 0
	case modeVBlank:
		line = line || p.stat&(1<<4) != 0
	case modeOAM:
		line = line || p.stat&(1<<5) != 0
	}
	if line && !p.statLine {
		p.bus.RequestInterrupt(IntStat)
	}
	p.statLine = line
}

// ---- VRAM / OAM ----

func (p *PPU) ReadVRAM(off uint16) uint8 { return p.vram[p.bankIndex()][off] }
func (p *PPU) WriteVRAM(off uint16, v uint8) { p.vram[p.bankIndex()][off] = v }
func (p *PPU) bankIndex() int {
	if p.cgbMode {
		return int(p.vbk & 1)
	}
	return 0
}

func (p *PPU) ReadOAM(off uint16) uint8  { return p.oam[off] }
func (p *PPU) WriteOAM(off uint16, v uint8) { p.oam[off] = v }

// ---- Register access ----

func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.stat | 0x80
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	case 0xFF4F:
		return p.vbk | 0xFE
	case 0xFF68:
		return p.bcps | 0x40
	case 0xFF69:
		return p.bgPalette[p.bcps&0x3F]
	case 0xFF6A:
		return p.ocps | 0x40
	case 0xFF6B:
		return p.objPalette[p.ocps&0x3F]
	}
	return 0xFF
}

func (p *PPU) WriteRegister(addr uint16, v uint8) {
	p.SyncToCurrent()
	switch addr {
	case 0xFF40:
		p.lcdc = v
	case 0xFF41:
		p.stat = p.stat&0x07 | v&0xF8
	case 0xFF42:
		p.scy = v
	case 0xFF43:
		p.scx = v
	case 0xFF44:
		// read-only; writes reset LY on real hardware in some revisions,
		// but commercial software never relies on writing it
	case 0xFF45:
		p.lyc = v
	case 0xFF47:
		p.bgp = v
	case 0xFF48:
		p.obp0 = v
	case 0xFF49:
		p.obp1 = v
	case 0xFF4A:
		p.wy = v
	case 0xFF4B:
		p.wx = v
	case 0xFF4F:
		if p.cgbMode {
			p.vbk = v & 1
		}
	case 0xFF68:
		p.bcps = v & 0xBF
	case 0xFF69:
		p.bgPalette[p.bcps&0x3F] = v
		if p.bcps&0x80 != 0 {
			p.bcps = p.bcps&0x80 | (p.bcps+1)&0x3F
		}
	case 0xFF6A:
		p.ocps = v & 0xBF
	case 0xFF6B:
		p.objPalette[p.ocps&0x3F] = v
		if p.ocps&0x80 != 0 {
			p.ocps = p.ocps&0x80 | (p.ocps+1)&0x3F
		}
	}
}

func (p *PPU) SetCGBMode(on bool) { p.cgbMode = on }

// FrameBuffer returns the fully rendered frame; the scheduler calls
// SyncToCurrent before this to guarantee the whole frame is up to date.
func (p *PPU) FrameBuffer() core.FrameBuffer {
	px := make([]uint32, len(p.frame))
	copy(px, p.frame[:])
	return core.FrameBuffer{Pixels: px, Width: ScreenWidth, Height: ScreenHeight}
}

var dmgShades = [4]uint32{0xFFE0F8D0, 0xFF88C070, 0xFF346856, 0xFF081820}

// renderPixel computes one background/window/sprite-composited pixel at
// (x,y) using the register state in effect at the moment it's called —
// the heart of the catch-up model, since SyncToCurrent calls this lazily
// with whatever LCDC/SCX/SCY/palette values were live at that dot.
func (p *PPU) renderPixel(x int, y uint8) {
	if p.lcdc&lcdcEnable == 0 {
		p.setPixel(x, y, dmgShades[0])
		return
	}

	bgColorIdx, bgPriority := p.bgWindowPixel(x, y)
	finalColor := p.paletteColor(p.bgp, bgColorIdx, false, 0)

	if p.lcdc&lcdcObjEnable != 0 {
		if sc, pal, behindBG, found := p.spritePixel(x, y); found {
			if sc != 0 && (!behindBG || bgColorIdx == 0) && !(bgPriority && bgColorIdx != 0) {
				finalColor = p.paletteColor(pal, sc, true, 0)
			}
		}
	}

	p.setPixel(x, y, finalColor)
}

func (p *PPU) setPixel(x int, y uint8, c uint32) {
	idx := int(y)*ScreenWidth + x
	if idx >= 0 && idx < len(p.frame) {
		p.frame[idx] = c
	}
}

// bgWindowPixel returns the 2-bit color index for the background/window
// layer at screen position (x,y), plus the GBC BG-to-OBJ priority bit.
func (p *PPU) bgWindowPixel(x int, y uint8) (idx uint8, priority bool) {
	useWindow := p.lcdc&lcdcWinEnable != 0 && int(y) >= int(p.wy) && x+7 >= int(p.wx)
	var tileX, tileY, fineX, fineY int
	var mapBase uint16

	if useWindow {
		wx := x - (int(p.wx) - 7)
		wy := p.windowLineCounter
		tileX, fineX = wx/8, wx%8
		tileY, fineY = wy/8, wy%8
		if p.lcdc&lcdcWinTileMap != 0 {
			mapBase = 0x1C00
		} else {
			mapBase = 0x1800
		}
	} else {
		if p.lcdc&lcdcBGEnable == 0 && !p.cgbMode {
			return 0, false
		}
		bx := (x + int(p.scx)) & 0xFF
		by := (int(y) + int(p.scy)) & 0xFF
		tileX, fineX = bx/8, bx%8
		tileY, fineY = by/8, by%8
		if p.lcdc&lcdcBGTileMap != 0 {
			mapBase = 0x1C00
		} else {
			mapBase = 0x1800
		}
	}

	mapAddr := mapBase + uint16(tileY%32)*32 + uint16(tileX%32)
	tileNum := p.vram[0][mapAddr]

	attr := byte(0)
	if p.cgbMode {
		attr = p.vram[1][mapAddr]
	}
	palNum := attr & 0x07
	bank := (attr >> 3) & 1
	xFlip := attr&0x20 != 0
	yFlip := attr&0x40 != 0
	bgPriority := attr&0x80 != 0

	if xFlip {
		fineX = 7 - fineX
	}
	if yFlip {
		fineY = 7 - fineY
	}

	var tileAddr uint16
	if p.lcdc&lcdcBGWinTileData != 0 {
		tileAddr = uint16(tileNum) * 16
	} else {
		tileAddr = uint16(0x1000 + int16(int8(tileNum))*16)
	}
	lo := p.vram[bank][tileAddr+uint16(fineY)*2]
	hi := p.vram[bank][tileAddr+uint16(fineY)*2+1]
	bit := 7 - fineX
	colorIdx := (hi>>bit&1)<<1 | (lo >> bit & 1)

	if p.cgbMode {
		// CGB BG palette color would be looked up via palNum here; DMG
		// shade lookup (paletteColor) is used uniformly for simplicity
		// of the shared framebuffer path, with palNum reserved for a
		// full CGB color pipeline.
		_ = palNum
	}
	return colorIdx, bgPriority
}

func (p *PPU) spritePixel(x int, y uint8) (colorIdx uint8, palette uint8, behindBG bool, found bool) {
	height := 8
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}
	count := 0
	for i := 0; i < 40 && count < 10; i++ {
		spriteY := int(p.oam[i*4+0]) - 16
		spriteX := int(p.oam[i*4+1]) - 8
		tile := p.oam[i*4+2]
		flags := p.oam[i*4+3]

		if int(y) < spriteY || int(y) >= spriteY+height {
			continue
		}
		if x < spriteX || x >= spriteX+8 {
			continue
		}
		count++

		line := int(y) - spriteY
		if flags&0x40 != 0 {
			line = height - 1 - line
		}
		if height == 16 {
			tile &^= 0x01
		}
		tileAddr := uint16(tile)*16 + uint16(line)*2
		bank := 0
		if p.cgbMode && flags&0x08 != 0 {
			bank = 1
		}
		lo := p.vram[bank][tileAddr]
		hi := p.vram[bank][tileAddr+1]
		bit := x - spriteX
		if flags&0x20 == 0 {
			bit = 7 - bit
		}
		ci := (hi>>bit&1)<<1 | (lo >> bit & 1)
		if ci == 0 {
			continue
		}
		pal := p.obp0
		if flags&0x10 != 0 {
			pal = p.obp1
		}
		return ci, pal, flags&0x80 != 0, true
	}
	return 0, 0, false, false
}

func (p *PPU) paletteColor(palReg uint8, idx uint8, isSprite bool, _ int) uint32 {
	shade := (palReg >> (idx * 2)) & 0x03
	return dmgShades[shade]
}

func (p *PPU) Reset() {
	*p = PPU{bus: p.bus, lcdc: 0x91, bgp: 0xFC, cgbMode: p.cgbMode}
}
