package gba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimerOverflowReloadsAndRaisesInterrupt(t *testing.T) {
	bus := newTestGBABus()
	bus.Timers.WriteRegister16(0x04000100, 0xFFFE) // reload near overflow
	bus.Timers.WriteRegister16(0x04000102, 0x00C0)  // prescaler /1, IRQ enable, start

	bus.Timers.Step(1)
	require.False(t, bus.Timers.t[0].overflowed)
	bus.Timers.Step(1)
	require.True(t, bus.Timers.t[0].overflowed)
	require.Equal(t, uint16(0xFFFE), bus.Timers.t[0].counter)
	require.NotZero(t, bus.ifr&(1<<3))
}

func TestCascadeChainPropagatesOverflowToNextChannel(t *testing.T) {
	bus := newTestGBABus()
	bus.Timers.WriteRegister16(0x04000100, 0xFFFF) // timer 0 overflows every tick
	bus.Timers.WriteRegister16(0x04000102, 0x0080)  // start, no IRQ
	bus.Timers.WriteRegister16(0x04000104, 0x0000)  // timer 1 reload
	bus.Timers.WriteRegister16(0x04000106, 0x0084)  // start, cascade

	bus.Timers.Step(1)
	require.Equal(t, uint16(1), bus.Timers.t[1].counter)
	bus.Timers.Step(1)
	require.Equal(t, uint16(2), bus.Timers.t[1].counter)
}

func TestPrescalerGatesIncrementRate(t *testing.T) {
	bus := newTestGBABus()
	bus.Timers.WriteRegister16(0x04000100, 0)
	bus.Timers.WriteRegister16(0x04000102, 0x0081) // prescaler /64, start

	bus.Timers.Step(63)
	require.Equal(t, uint16(0), bus.Timers.t[0].counter)
	bus.Timers.Step(1)
	require.Equal(t, uint16(1), bus.Timers.t[0].counter)
}
