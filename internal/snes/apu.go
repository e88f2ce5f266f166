// apu.go - SPC700 + S-DSP wrapper: synchronizes the audio subsystem
// against the main CPU's master-cycle clock.
//
// License: GPLv3 or later

package snes

// masterCyclesPerSPCCycle approximates the ~1.024MHz SPC700 clock
// derived from the ~21.477MHz master clock.
const masterCyclesPerSPCCycle = 21

// dspSamplePeriod is the number of SPC cycles between DSP samples,
// producing the native 32kHz output rate.
const dspSamplePeriod = 32

// APU ties the SPC700 core to the S-DSP and runs both lazily against a
// master-cycle credit accumulated by the scheduler.
type APU struct {
	spc *SPC700
	dsp *DSP

	cycleCredit   int
	spcCycleCount int

	samples []int16 // interleaved stereo, native 32kHz
}

func NewAPU() *APU {
	spc := NewSPC700()
	dsp := NewDSP()
	spc.ConnectDSP(dsp)
	dsp.ConnectSPC(spc)
	return &APU{spc: spc, dsp: dsp}
}

func (a *APU) Reset() {
	a.spc.Reset()
	a.dsp.Reset()
	a.cycleCredit = 0
	a.spcCycleCount = 0
	a.samples = a.samples[:0]
}

// ReadPort/WritePort implement the main-CPU side of the four mailbox
// ports at $2140-$2143.
func (a *APU) ReadPort(port int) uint8     { return a.spc.ReadPort(port) }
func (a *APU) WritePort(port int, v uint8) { a.spc.WritePort(port, v) }

// Step runs the SPC700/DSP for masterCycles worth of main-CPU time,
// converting at the fixed ~21:1 ratio and emitting a stereo sample every
// 32 SPC cycles.
func (a *APU) Step(masterCycles int) {
	a.cycleCredit += masterCycles
	for a.cycleCredit >= masterCyclesPerSPCCycle {
		spent := a.spc.Step()
		a.cycleCredit -= spent * masterCyclesPerSPCCycle
		a.spc.StepTimers(spent)
		a.spcCycleCount += spent
		for a.spcCycleCount >= dspSamplePeriod {
			a.spcCycleCount -= dspSamplePeriod
			a.dsp.Step()
			l, r := a.dsp.Output()
			a.samples = append(a.samples, l, r)
		}
	}
}

// DrainSamples returns and clears the accumulated interleaved stereo
// sample buffer; the scheduler calls this once per frame.
func (a *APU) DrainSamples() []int16 {
	out := a.samples
	a.samples = nil
	return out
}

func (a *APU) SampleRate() int { return 32000 }
