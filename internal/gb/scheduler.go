// scheduler.go - per-frame instruction/peripheral pump for the GB/GBC core
//
// License: GPLv3 or later

package gb

// cyclesPerFrame is the machine-cycle length of one 154-scanline GB frame:
// 456 dots/line * 154 lines / 4 dots-per-machine-cycle.
const cyclesPerFrame = dotsPerLine * linesPerFrame / 4

// RunFrame advances every subsystem by exactly one frame's worth of
// machine cycles, in the order CPU -> Timer/PPU/APU/DMA/Serial that keeps
// interrupt requests visible to the CPU on the very next Step call.
func (c *CPU) RunFrame() {
	elapsed := 0
	for elapsed < cyclesPerFrame {
		mCycles := c.Step()
		c.Bus.Timer.Step(mCycles)
		c.Bus.PPU.Advance(mCycles)
		c.Bus.APU.Step(mCycles)
		c.Bus.StepSerial(mCycles)
		elapsed += mCycles
	}
	c.Bus.PPU.SyncToCurrent()
}
