//go:build !headless

// frontend_ebiten.go - windowed frontend: blits FrameBuffer, polls keyboard
//
// License: GPLv3 or later

package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zaynotley/tricore/internal/core"
)

// keyBindings maps host keyboard keys to virtual buttons, fixed across all
// three cores; ControllerLayout.Buttons narrows which of these a loaded
// core actually wires up.
var keyBindings = map[ebiten.Key]core.Button{
	ebiten.KeyArrowUp:    core.ButtonUp,
	ebiten.KeyArrowDown:  core.ButtonDown,
	ebiten.KeyArrowLeft:  core.ButtonLeft,
	ebiten.KeyArrowRight: core.ButtonRight,
	ebiten.KeyZ:          core.ButtonA,
	ebiten.KeyX:          core.ButtonB,
	ebiten.KeyA:          core.ButtonX,
	ebiten.KeyS:          core.ButtonY,
	ebiten.KeyQ:          core.ButtonL,
	ebiten.KeyW:          core.ButtonR,
	ebiten.KeyEnter:      core.ButtonStart,
	ebiten.KeyShift:      core.ButtonSelect,
}

type ebitenGame struct {
	session *Session
	ctx     context.Context
	cancel  context.CancelFunc

	img   *ebiten.Image
	pixel []byte
	fb    core.FrameBuffer
}

func runEbitenFrontend(ctx context.Context, s *Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g := &ebitenGame{session: s, ctx: ctx, cancel: cancel}
	ebiten.SetWindowTitle(fmt.Sprintf("tricore - %s", s.romPath))
	ebiten.SetWindowResizable(true)
	ebiten.SetVsyncEnabled(true)

	player, err := newOtoPlayer(nativeSampleRate, s.rateCtl)
	if err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	player.Start()
	defer player.Close()

	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

func (g *ebitenGame) pollInput() core.Input {
	var in core.Input
	for key, btn := range keyBindings {
		if ebiten.IsKeyPressed(key) {
			in |= core.Input(btn)
		}
	}
	return in
}

func (g *ebitenGame) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	g.fb = g.session.pumpFrame(g.pollInput())
	if g.fb.Width > 0 && (g.img == nil || g.img.Bounds().Dx() != g.fb.Width || g.img.Bounds().Dy() != g.fb.Height) {
		g.img = ebiten.NewImage(g.fb.Width, g.fb.Height)
		g.pixel = make([]byte, g.fb.Width*g.fb.Height*4)
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	if g.img == nil {
		return
	}
	for i, px := range g.fb.Pixels {
		o := i * 4
		g.pixel[o+0] = byte(px >> 16) // R
		g.pixel[o+1] = byte(px >> 8)  // G
		g.pixel[o+2] = byte(px)       // B
		g.pixel[o+3] = byte(px >> 24) // A
	}
	g.img.WritePixels(g.pixel)

	scale := 1.0
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	if g.fb.Width > 0 && g.fb.Height > 0 {
		xScale := float64(sw) / float64(g.fb.Width)
		yScale := float64(sh) / float64(g.fb.Height)
		scale = xScale
		if yScale < xScale {
			scale = yScale
		}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(g.img, op)
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
