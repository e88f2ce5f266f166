package gba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModeSwitchBanksR13R14AndSPSR(t *testing.T) {
	r := NewRegisters()
	r.SetMode(ModeSystem)
	r.R[13] = 0x03007F00
	r.R[8] = 0x11111111

	r.SetMode(ModeIRQ)
	r.R[13] = 0x03007FA0
	r.SetSPSR(0xDEADBEEF)
	require.Equal(t, uint32(0x11111111), r.R[8]) // R8-R12 are not banked for IRQ

	r.SetMode(ModeFIQ)
	r.R[8] = 0x22222222 // FIQ banks R8-R12 independently

	r.SetMode(ModeSystem)
	require.Equal(t, uint32(0x11111111), r.R[8])
	require.Equal(t, uint32(0x03007F00), r.R[13])

	r.SetMode(ModeIRQ)
	require.Equal(t, uint32(0x03007FA0), r.R[13])
	require.Equal(t, uint32(0xDEADBEEF), r.SPSR())
}

func TestFlagHelpersReadAndWriteCPSRBits(t *testing.T) {
	r := NewRegisters()
	require.False(t, r.Flag(flagZ))
	r.SetFlag(flagZ, true)
	require.True(t, r.Flag(flagZ))
	r.SetFlag(flagZ, false)
	require.False(t, r.Flag(flagZ))
}
