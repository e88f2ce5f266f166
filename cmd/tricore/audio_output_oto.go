//go:build !headless

// audio_output_oto.go - oto v3 audio output draining the rate-controller ring
//
// License: GPLv3 or later

package main

import (
	"math"

	"github.com/ebitengine/oto/v3"

	"github.com/zaynotley/tricore/internal/audiorate"
)

// otoPlayer is the host audio thread: oto calls Read on its own goroutine
// whenever the device wants more samples, and Read does nothing but drain
// the rate controller's ring buffer, exactly the boundary spec §5 and
// §4.8 describe.
type otoPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	rateCtl *audiorate.Controller
	scratch []float32
}

func newOtoPlayer(sampleRate int, rateCtl *audiorate.Controller) (*otoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	p := &otoPlayer{ctx: ctx, rateCtl: rateCtl}
	p.player = ctx.NewPlayer(p)
	return p, nil
}

func (p *otoPlayer) Read(out []byte) (int, error) {
	n := len(out) / 4
	if cap(p.scratch) < n {
		p.scratch = make([]float32, n)
	}
	samples := p.scratch[:n]
	p.rateCtl.Drain(samples)

	for i, s := range samples {
		bits := math.Float32bits(s)
		out[i*4+0] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return len(out), nil
}

func (p *otoPlayer) Start() { p.player.Play() }

func (p *otoPlayer) Close() {
	p.player.Close()
}
