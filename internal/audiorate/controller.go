// controller.go - PI rate controller reconciling emulation and host audio clocks
//
// License: GPLv3 or later

package audiorate

// Mode selects how the controller reconciles the emulator's sample
// production rate with the host device's consumption rate.
type Mode int

const (
	// AudioDriven: the emulator runs as needed to keep the buffer above a
	// small threshold. Lowest latency; emulation rate follows the audio
	// device.
	AudioDriven Mode = iota
	// DynamicRate: the emulator runs at wall-clock rate; a PI controller
	// nudges the resample ratio by a few percent to keep occupancy near
	// target.
	DynamicRate
	// LargeBuffer: legacy fixed buffer, kept for compatibility with hosts
	// that can't tolerate the DynamicRate controller's small adjustments.
	LargeBuffer
)

const (
	proportionalGain = 0.0001
	filterOld        = 0.85
	filterNew        = 0.15
	defaultMaxAdjust = 0.03 // a few percent
)

// Controller implements the DynamicRate PI control loop. AudioDriven and
// LargeBuffer modes don't need a control loop
// of their own; Controller still tracks underrun counts for all three so a
// host can report them uniformly.
type Controller struct {
	mode            Mode
	ring            *Ring
	targetOccupancy int
	maxAdjust       float64
	rateAdjustment  float64
	underruns       int
	lastSample      float32
}

// NewController builds a rate controller over an existing ring buffer.
// targetOccupancy is the buffer occupancy (in samples) the PI loop aims to
// hold in DynamicRate mode.
func NewController(mode Mode, ring *Ring, targetOccupancy int) *Controller {
	return &Controller{
		mode:            mode,
		ring:            ring,
		targetOccupancy: targetOccupancy,
		maxAdjust:       defaultMaxAdjust,
		rateAdjustment:  1.0,
	}
}

// Mode reports the controller's current reconciliation mode.
func (c *Controller) Mode() Mode { return c.mode }

// Underruns reports how many times Drain has had to fade rather than
// deliver a genuine sample since the controller was created.
func (c *Controller) Underruns() int { return c.underruns }

// RateAdjustment is the current output of the PI loop: emulation-to-host
// sample rate ratio to apply. It is always 1.0 outside DynamicRate mode.
func (c *Controller) RateAdjustment() float64 {
	if c.mode != DynamicRate {
		return 1.0
	}
	return c.rateAdjustment
}

// Tick runs one control-loop update. Call it once per emulated frame (or
// on whatever cadence the host pumps frames) in DynamicRate mode; it is a
// no-op in the other two modes.
func (c *Controller) Tick() {
	if c.mode != DynamicRate {
		return
	}
	occupied := c.ring.Occupied()
	errVal := float64(occupied - c.targetOccupancy)
	pTerm := errVal * proportionalGain
	c.rateAdjustment = filterOld*c.rateAdjustment + filterNew*(1+pTerm)

	lo, hi := 1-c.maxAdjust, 1+c.maxAdjust
	switch {
	case c.rateAdjustment < lo:
		c.rateAdjustment = lo
	case c.rateAdjustment > hi:
		c.rateAdjustment = hi
	}
}

// Push writes resampled emulation-thread samples into the ring. Linear
// interpolation from the emulator's native rate to the host rate is the
// caller's responsibility (it owns the platform's native sample rate;
// Controller only owns the ring and the control loop).
func (c *Controller) Push(samples []float32) {
	c.ring.Write(samples)
}

// Drain is called from the host audio callback to fill exactly len(out)
// samples. It never blocks and never waits on the emulation thread.
func (c *Controller) Drain(out []float32) {
	filled, last := c.ring.Read(out, c.lastSample)
	c.lastSample = last
	if filled < len(out) {
		c.underruns++
	}
}
