//go:build headless

// frontend_ebiten_headless.go - stub so a headless-tagged build links without
// the windowing stack; -headless at runtime is what most users want, this
// build tag is for environments that can't link ebiten/oto at all.
//
// License: GPLv3 or later

package main

import (
	"context"
	"errors"
)

func runEbitenFrontend(ctx context.Context, s *Session) error {
	return errors.New("built with the headless tag: no windowed frontend available, pass -headless")
}
