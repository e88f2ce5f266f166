// frontend_terminal.go - headless ANSI block-character preview
//
// License: GPLv3 or later

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/zaynotley/tricore/internal/core"
)

const terminalFrameInterval = time.Second / 60

// keyBytes maps raw stdin bytes (read in term.MakeRaw mode, so no line
// buffering or local echo gets in the way) to virtual buttons.
var keyBytes = map[byte]core.Button{
	'w': core.ButtonUp,
	's': core.ButtonDown,
	'a': core.ButtonLeft,
	'd': core.ButtonRight,
	'j': core.ButtonA,
	'k': core.ButtonB,
	'u': core.ButtonX,
	'i': core.ButtonY,
	'q': core.ButtonL,
	'e': core.ButtonR,
	'\r': core.ButtonStart,
	' ':  core.ButtonSelect,
}

// termInput reads raw stdin in a goroutine and publishes the most recently
// seen button mask; keys are treated as held until the next distinct byte
// arrives, since a raw terminal gives us no key-up events.
type termInput struct {
	mu  sync.Mutex
	cur core.Input
}

func (ti *termInput) run(ctx context.Context, quit func()) {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if ctx.Err() != nil {
			return
		}
		if n > 0 {
			b := buf[0]
			if b == 0x03 { // Ctrl-C
				quit()
				return
			}
			ti.mu.Lock()
			if btn, ok := keyBytes[b]; ok {
				ti.cur = core.Input(btn)
			} else {
				ti.cur = 0
			}
			ti.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

func (ti *termInput) snapshot() core.Input {
	ti.mu.Lock()
	defer ti.mu.Unlock()
	return ti.cur
}

// runTerminalFrontend drives the frame pump on a fixed ticker and renders
// each frame as a half-resolution grid of ANSI truecolor half-block glyphs,
// two source pixels per character cell.
func runTerminalFrontend(ctx context.Context, s *Session) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("terminal raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)
	_ = syscall.SetNonblock(fd, true)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in := &termInput{}
	go in.run(ctx, cancel)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	ticker := time.NewTicker(terminalFrameInterval)
	defer ticker.Stop()

	fmt.Fprint(out, "\x1b[2J") // clear once; each frame repositions with \x1b[H
	out.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fb := s.pumpFrame(in.snapshot())
			renderTerminalFrame(out, fb)
			out.Flush()
		}
	}
}

// renderTerminalFrame writes one frame using the Unicode upper-half-block
// glyph (▀): its foreground color is the even row's pixel, its background
// the odd row's, packing two source rows into one terminal row.
func renderTerminalFrame(w *bufio.Writer, fb core.FrameBuffer) {
	fmt.Fprint(w, "\x1b[H")
	for y := 0; y+1 < fb.Height; y += 2 {
		for x := 0; x < fb.Width; x++ {
			top := fb.Pixels[y*fb.Width+x]
			bot := fb.Pixels[(y+1)*fb.Width+x]
			fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				byte(top>>16), byte(top>>8), byte(top), byte(bot>>16), byte(bot>>8), byte(bot))
		}
		fmt.Fprint(w, "\x1b[0m\r\n")
	}
}
