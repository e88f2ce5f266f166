package gba

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImmediateDMATransfersWordsAndClearsEnableWithoutRepeat(t *testing.T) {
	bus := newTestGBABus()
	bus.Write32(0x02000000, 0xCAFEBABE)

	bus.DMA.WriteRegister16(0x040000B0, 0x0000) // src low
	bus.DMA.WriteRegister16(0x040000B2, 0x0200)  // src = 0x02000000
	bus.DMA.WriteRegister16(0x040000B4, 0x0000)  // dst low
	bus.DMA.WriteRegister16(0x040000B6, 0x0300)  // dst = 0x03000000
	bus.DMA.WriteRegister16(0x040000B8, 1)        // count = 1 word
	bus.DMA.WriteRegister16(0x040000BA, dmaWordTransfer|dmaEnable)

	require.Equal(t, uint32(0xCAFEBABE), bus.Read32(0x03000000))
	require.Zero(t, bus.DMA.ch[0].control&dmaEnable)
}

func TestVBlankDMAOnlyRunsChannelsArmedForThatTiming(t *testing.T) {
	bus := newTestGBABus()
	bus.Write32(0x02000000, 0x11111111)
	bus.DMA.WriteRegister16(0x040000BC, 0x0000)
	bus.DMA.WriteRegister16(0x040000BE, 0x0200)
	bus.DMA.WriteRegister16(0x040000C0, 0x0000)
	bus.DMA.WriteRegister16(0x040000C2, 0x0300)
	bus.DMA.WriteRegister16(0x040000C4, 1)
	bus.DMA.WriteRegister16(0x040000C6, dmaWordTransfer|dmaEnable|(1<<dmaTimingShift))

	require.Zero(t, bus.Read32(0x03000000)) // not yet triggered
	bus.DMA.OnVBlank()
	require.Equal(t, uint32(0x11111111), bus.Read32(0x03000000))
}

func TestFIFORequestPushesFourBytesFromSourceIntoMatchingFIFO(t *testing.T) {
	bus := newTestGBABus()
	bus.Write32(0x02000000, 0x04030201)

	bus.DMA.WriteRegister16(0x040000BC, 0x0000)
	bus.DMA.WriteRegister16(0x040000BE, 0x0200) // channel 1 src = 0x02000000
	bus.DMA.WriteRegister16(0x040000C0, 0x00A0)
	bus.DMA.WriteRegister16(0x040000C2, 0x0400) // channel 1 dst = FIFO A (0x040000A0)
	bus.DMA.WriteRegister16(0x040000C6, dmaWordTransfer|dmaEnable|(3<<dmaTimingShift))

	bus.DMA.OnFIFORequest(0)
	require.Equal(t, []int8{1, 2, 3, 4}, bus.APU.fifoA)
}
