// ring.go - lock-free SPSC sample ring buffer for the host audio boundary
//
// License: GPLv3 or later

// Package audiorate implements the host audio rate controller: a
// single-producer single-consumer ring buffer of interleaved stereo float
// samples, plus a rate controller that reconciles the emulation thread's
// sample production with the host audio device's consumption rate. This is
// the only place in the whole engine where two real threads touch shared
// state; every other component is single-owner and single-threaded.
package audiorate

import "sync/atomic"

// Ring is a fixed-capacity circular buffer of interleaved stereo float
// samples. One goroutine may call Write (the emulation thread); a
// different goroutine may call Read (the host audio callback). Head and
// tail are the only shared state, and they are touched only through
// atomic acquire/release operations; the backing slice itself is plain
// memory.
type Ring struct {
	buf  []float32
	head atomic.Uint64 // next write index (producer-owned)
	tail atomic.Uint64 // next read index (consumer-owned)
	mask uint64
}

// NewRing allocates a ring of the given capacity, rounded up to the next
// power of two so index wraparound is a mask instead of a modulo.
func NewRing(capacitySamples int) *Ring {
	n := 1
	for n < capacitySamples {
		n <<= 1
	}
	return &Ring{
		buf:  make([]float32, n),
		mask: uint64(n) - 1,
	}
}

// Cap returns the ring's usable capacity in samples.
func (r *Ring) Cap() int { return len(r.buf) }

// Occupied returns how many samples are currently buffered, as observed by
// either side; it is a snapshot, not a synchronization point.
func (r *Ring) Occupied() int {
	head := r.head.Load()
	tail := r.tail.Load()
	return int(head - tail)
}

// Free returns how much room remains before Write would overwrite unread
// data.
func (r *Ring) Free() int {
	return len(r.buf) - r.Occupied()
}

// Write appends samples, silently dropping the oldest unread ones if the
// buffer is full (the producer never blocks on the consumer). Returns the
// number of samples actually kept.
func (r *Ring) Write(samples []float32) int {
	head := r.head.Load()
	tail := r.tail.Load()
	free := len(r.buf) - int(head-tail)
	if free < len(samples) {
		// Drop the oldest samples to make room rather than block;
		// advance tail so the consumer doesn't read a torn window.
		overflow := len(samples) - free
		tail += uint64(overflow)
		r.tail.Store(tail)
	}
	for _, s := range samples {
		r.buf[head&r.mask] = s
		head++
	}
	r.head.Store(head)
	if len(samples) > len(r.buf) {
		return len(r.buf)
	}
	return len(samples)
}

// Read drains up to len(out) samples into out, fading the last delivered
// sample exponentially toward zero (x0.95 per sample) instead of repeating
// or zeroing on underrun, to suppress click artifacts. Returns the number
// of samples that were genuinely available (not faded).
func (r *Ring) Read(out []float32, lastSample float32) (filled int, newLast float32) {
	head := r.head.Load()
	tail := r.tail.Load()
	available := int(head - tail)

	n := len(out)
	if available < n {
		filled = available
	} else {
		filled = n
	}

	for i := 0; i < filled; i++ {
		out[i] = r.buf[tail&r.mask]
		tail++
	}
	r.tail.Store(tail)

	last := lastSample
	if filled > 0 {
		last = out[filled-1]
	}
	for i := filled; i < n; i++ {
		last *= 0.95
		out[i] = last
	}
	return filled, last
}
