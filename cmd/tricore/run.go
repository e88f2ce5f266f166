// run.go - errgroup-coordinated session: frame pump, audio rate control, signals
//
// License: GPLv3 or later

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zaynotley/tricore/internal/audiorate"
	"github.com/zaynotley/tricore/internal/core"
)

const ringCapacitySamples = 8192
const targetOccupancySamples = 4096

// Session owns one loaded core plus the glue shared by every frontend: the
// audio rate controller sitting at the one real thread boundary the engine
// has (spec §5), and the signal handling that triggers a clean battery-save
// flush on exit.
type Session struct {
	platform core.Platform
	savePath string
	debug    bool
	headless bool
	romPath  string
	layout   core.ControllerLayout

	ring    *audiorate.Ring
	rateCtl *audiorate.Controller

	frameCount uint64
}

// Run starts the frontend's main loop and a signal-watching goroutine side
// by side under one errgroup, keeping the emulation thread separate from
// whichever thread drains audio.
func (s *Session) Run() error {
	s.ring = audiorate.NewRing(ringCapacitySamples)
	s.rateCtl = audiorate.NewController(audiorate.DynamicRate, s.ring, targetOccupancySamples)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()
		if s.headless {
			return runTerminalFrontend(ctx, s)
		}
		return runEbitenFrontend(ctx, s)
	})

	return g.Wait()
}

// pumpFrame advances the core by one video frame, pushes the resulting
// audio into the rate-controller ring, and returns the frame for the
// frontend to present.
func (s *Session) pumpFrame(in core.Input) core.FrameBuffer {
	s.platform.RunFrame(in)

	af := s.platform.AudioFrame()
	if len(af.Samples) > 0 {
		floats := make([]float32, len(af.Samples))
		for i, v := range af.Samples {
			floats[i] = float32(v) / 32768
		}
		s.rateCtl.Push(floats)
	}
	s.rateCtl.Tick()

	s.frameCount++
	if s.debug && s.frameCount%60 == 0 {
		fmt.Printf("tricore: frame %d underruns=%d rate=%.4f\n",
			s.frameCount, s.rateCtl.Underruns(), s.rateCtl.RateAdjustment())
	}
	return s.platform.FrameBuffer()
}

func (s *Session) persistBatterySave() {
	if !s.platform.HasBatterySave() {
		return
	}
	data := s.platform.BatterySaveData()
	if len(data) == 0 {
		return
	}
	if err := os.WriteFile(s.savePath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "tricore: failed to persist battery save: %v\n", err)
	}
}
