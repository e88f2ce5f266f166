// platform.go - shared plugin-style contract implemented by every platform core
//
// License: GPLv3 or later

// Package core defines the platform-independent surface that the GB, GBA
// and SNES cores each implement, plus the value types that cross the
// boundary between a core and its host (cmd/tricore or any other embedder).
// No platform-specific state lives here; this package is that seam.
package core

import "fmt"

// Button is a single virtual controller input, independent of how any one
// platform wires it to its own joypad register.
type Button uint16

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonX
	ButtonY
	ButtonL
	ButtonR
	ButtonStart
	ButtonSelect
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Input is the bitmask of pressed virtual buttons published to the bus at
// the start of every frame.
type Input uint16

func (in Input) Held(b Button) bool {
	return in&Input(b) != 0
}

// FrameBuffer is the pixel grid produced by a completed video frame. Pixels
// are packed 0xAARRGGBB regardless of the platform's native color depth;
// each PPU is responsible for expanding its own palette format into this on
// output.
type FrameBuffer struct {
	Pixels []uint32
	Width  int
	Height int
}

// AudioFrame is one frame's worth of interleaved stereo samples, produced
// at the platform's native output rate. Samples are signed 16-bit PCM.
type AudioFrame struct {
	Samples    []int16
	SampleRate int
}

// ControllerLayout is static metadata describing which virtual buttons a
// platform actually wires up; it has no bearing on emulation semantics and
// exists only so a host UI can draw the right layout.
type ControllerLayout struct {
	Name    string
	Buttons []Button
}

// Platform is the contract every emulation core satisfies.
type Platform interface {
	LoadROM(data []byte) error
	UnloadROM()
	Reset()

	// RunFrame advances the system by exactly one video frame, publishing
	// input at the start of the frame, and returns once a complete
	// framebuffer and audio frame are ready.
	RunFrame(input Input)

	FrameBuffer() FrameBuffer
	AudioFrame() AudioFrame

	SaveState() ([]byte, error)
	LoadState(data []byte) error

	HasBatterySave() bool
	BatterySaveData() []byte
	SetBatterySaveData(data []byte) error

	ControllerLayout() ControllerLayout
}

// ErrROMRejected is returned by LoadROM when the image is too small,
// unrecognizable, or scores below the platform's acceptance threshold.
type ErrROMRejected struct {
	Reason string
}

func (e *ErrROMRejected) Error() string {
	return fmt.Sprintf("rom rejected: %s", e.Reason)
}

// ErrSaveStateIncompatible is returned by LoadState when the buffer is
// truncated or carries a version this build does not understand.
type ErrSaveStateIncompatible struct {
	Reason string
}

func (e *ErrSaveStateIncompatible) Error() string {
	return fmt.Sprintf("save state incompatible: %s", e.Reason)
}
