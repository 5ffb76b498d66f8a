package i2c

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	periphtest "periph.io/x/conn/v3/i2c/i2ctest"
)

func TestGenericBus_WriteThenRead(t *testing.T) {
	pb := &periphtest.Playback{Ops: []periphtest.IO{
		{Addr: 0x38, W: []byte{0xAC, 0x33, 0x00}},
		{Addr: 0x38, R: []byte{0x18, 0x80, 0x00, 0x08, 0x00, 0x00}},
	}}
	bus := NewGenericBusFrom(pb)
	ctx := context.Background()
	require.NoError(t, bus.WriteToAddr(ctx, 0x38, []byte{0xAC, 0x33, 0x00}))
	buf := make([]byte, 6)
	require.NoError(t, bus.ReadFromAddr(ctx, 0x38, buf))
	assert.Equal(t, []byte{0x18, 0x80, 0x00, 0x08, 0x00, 0x00}, buf)
	assert.NoError(t, bus.Release(ctx))
	assert.NoError(t, bus.Close())
}

func TestGenericBus_ExhaustedPlayback(t *testing.T) {
	pb := &periphtest.Playback{DontPanic: true}
	bus := NewGenericBusFrom(pb)
	err := bus.WriteToAddr(context.Background(), 0x38, []byte{0xBA})
	assert.Error(t, err)
	err = bus.ReadFromAddr(context.Background(), 0x38, make([]byte, 6))
	assert.Error(t, err)
}
