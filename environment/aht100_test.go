package environment

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/mklimuk/aht100/i2c/i2ctest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNack = errors.New("nack")

func TestAHT100_DecodeStatus(t *testing.T) {
	for b := 0; b <= 0xFF; b++ {
		status := DecodeStatus(byte(b))
		assert.Equal(t, b > 0x7F, status.Busy, "busy for %#x", b)
		assert.Equal(t, b&0x08 != 0, status.Calibrated, "calibrated for %#x", b)
	}
}

func TestAHT100_DecodeStatusMode(t *testing.T) {
	tests := []struct {
		given    byte
		expected AHT100Mode
	}{
		{0x00, ModeNormal},
		{0x20, ModeCycle},
		{0x40, ModeCommand},
		{0x60, ModeCommand},
		{0x98, ModeNormal},
		{0xA8, ModeCycle},
		{0x7F, ModeCommand},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#02x", test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, DecodeStatus(test.given).Mode)
		})
	}
}

func TestAHT100_DecodeReading(t *testing.T) {
	tests := []struct {
		given   [5]byte
		expTemp float32
		expHum  float32
	}{
		{[5]byte{0x00, 0x00, 0x00, 0x00, 0x00}, -50.0, 0.0},
		// humidity 2^19, temperature 2^19
		{[5]byte{0x80, 0x00, 0x08, 0x00, 0x00}, 50.0, 50.0},
		// humidity 2^18, temperature 2^18
		{[5]byte{0x40, 0x00, 0x04, 0x00, 0x00}, 0.0, 25.0},
		// humidity 3*2^18, temperature 2^17
		{[5]byte{0xC0, 0x00, 0x02, 0x00, 0x00}, -25.0, 75.0},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given[:]), func(t *testing.T) {
			r := DecodeReading(test.given)
			assert.Equal(t, test.expTemp, r.Temperature)
			assert.Equal(t, test.expHum, r.Humidity)
		})
	}
}

func TestAHT100_DecodeReadingFields(t *testing.T) {
	raw := [5]byte{0x19, 0x99, 0x9A, 0x06, 0x66}
	humRaw := uint32(0x19999)
	tempRaw := uint32(0xA0666)
	r := DecodeReading(raw)
	assert.Equal(t, float32(humRaw)/float32(1<<20)*100, r.Humidity)
	assert.InDelta(t, float64(tempRaw)/float64(1<<20)*200-50, float64(r.Temperature), 1e-4)
	// top nibble of byte 2 belongs to humidity only
	r2 := DecodeReading([5]byte{0x00, 0x00, 0xF0, 0x00, 0x00})
	assert.Equal(t, float32(-50.0), r2.Temperature)
	assert.Equal(t, float32(15)/float32(1<<20)*100, r2.Humidity)
}

func TestAHT100_DecodeReadingFullScale(t *testing.T) {
	r := DecodeReading([5]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	assert.InDelta(t, 100.0, r.Humidity, 1e-3)
	assert.InDelta(t, 150.0, r.Temperature, 1e-3)
	assert.Less(t, r.Humidity, float32(100.0))
}

func TestAHT100_Reset(t *testing.T) {
	bus := i2ctest.NewBus()
	s := NewAHT100(bus)
	require.NoError(t, s.Reset(context.Background()))
	txs := bus.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, i2ctest.OpWrite, txs[0].Op)
	assert.Equal(t, byte(0x38), txs[0].Address)
	assert.Equal(t, []byte{0xBA}, txs[0].Data)
}

func TestAHT100_ResetWriteFailure(t *testing.T) {
	bus := i2ctest.NewBus().FailWrite(errNack)
	err := NewAHT100(bus).Reset(context.Background())
	assert.ErrorIs(t, err, ErrBus)
	assert.ErrorIs(t, err, errNack)
}

func TestAHT100_Init(t *testing.T) {
	bus := i2ctest.NewBus().Respond(0x18, 0, 0, 0, 0, 0)
	delay := &i2ctest.Delay{}
	status, err := NewAHT100(bus).Init(context.Background(), delay)
	require.NoError(t, err)
	assert.Equal(t, AHT100Status{Busy: false, Mode: ModeNormal, Calibrated: true}, status)
	assert.Equal(t, []uint16{40, 75}, delay.Calls())
	assert.Equal(t, [][]byte{{0xE1, 0x08, 0x00}}, bus.Writes())
}

func TestAHT100_InitNotCalibrated(t *testing.T) {
	bus := i2ctest.NewBus().Respond(0x10, 0, 0, 0, 0, 0)
	status, err := NewAHT100(bus).Init(context.Background(), &i2ctest.Delay{})
	require.NoError(t, err)
	assert.False(t, status.Calibrated)
}

func TestAHT100_InitWaitsOnEveryCall(t *testing.T) {
	bus := i2ctest.NewBus().Respond(0x18, 0, 0, 0, 0, 0).Respond(0x18, 0, 0, 0, 0, 0)
	delay := &i2ctest.Delay{}
	s := NewAHT100(bus)
	_, err := s.Init(context.Background(), delay)
	require.NoError(t, err)
	_, err = s.Init(context.Background(), delay)
	require.NoError(t, err)
	assert.Equal(t, []uint16{40, 75, 40, 75}, delay.Calls())
}

func TestAHT100_InitWriteFailure(t *testing.T) {
	bus := i2ctest.NewBus().FailWrite(errNack).Respond(0x18, 0, 0, 0, 0, 0)
	delay := &i2ctest.Delay{}
	_, err := NewAHT100(bus).Init(context.Background(), delay)
	assert.ErrorIs(t, err, ErrBus)
	// no read attempted
	assert.Len(t, bus.Transactions(), 1)
	assert.Equal(t, []uint16{40}, delay.Calls())
}

func TestAHT100_InitReadFailure(t *testing.T) {
	bus := i2ctest.NewBus().FailRead(errNack)
	_, err := NewAHT100(bus).Init(context.Background(), &i2ctest.Delay{})
	assert.ErrorIs(t, err, ErrBus)
	assert.ErrorIs(t, err, errNack)
}

func TestAHT100_Measure(t *testing.T) {
	bus := i2ctest.NewBus().Respond(0x18, 0x19, 0x99, 0x9A, 0x06, 0x66)
	delay := &i2ctest.Delay{}
	raw, err := NewAHT100(bus).Measure(context.Background(), delay)
	require.NoError(t, err)
	assert.Equal(t, [5]byte{0x19, 0x99, 0x9A, 0x06, 0x66}, raw)
	assert.Equal(t, []uint16{75}, delay.Calls())
	assert.Equal(t, [][]byte{{0xAC, 0x33, 0x00}}, bus.Writes())

	humRaw, tempRaw, scale := uint32(0x19999), uint32(0xA0666), float32(1<<20)
	r := DecodeReading(raw)
	assert.Equal(t, float32(humRaw)/scale*100, r.Humidity)
	assert.Equal(t, float32(float32(tempRaw)/scale*200)-50, r.Temperature)
}

func TestAHT100_MeasureStatusErrors(t *testing.T) {
	tests := []struct {
		status   byte
		expected error
	}{
		{0x98, ErrDeviceBusy},
		{0x80, ErrDeviceBusy},
		{0xFF, ErrDeviceBusy},
		{0x10, ErrNotCalibrated},
		{0x00, ErrNotCalibrated},
		{0x77, ErrNotCalibrated},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#02x", test.status), func(t *testing.T) {
			bus := i2ctest.NewBus().Respond(test.status, 0x80, 0x00, 0x08, 0x00, 0x00)
			raw, err := NewAHT100(bus).Measure(context.Background(), &i2ctest.Delay{})
			assert.ErrorIs(t, err, test.expected)
			assert.Equal(t, [5]byte{}, raw)
		})
	}
}

func TestAHT100_MeasureWriteFailure(t *testing.T) {
	bus := i2ctest.NewBus().FailWrite(errNack).Respond(0x18, 0, 0, 0, 0, 0)
	delay := &i2ctest.Delay{}
	_, err := NewAHT100(bus).Measure(context.Background(), delay)
	assert.ErrorIs(t, err, ErrBus)
	assert.Len(t, bus.Transactions(), 1)
	assert.Empty(t, delay.Calls())
}

func TestAHT100_MeasureReadFailure(t *testing.T) {
	bus := i2ctest.NewBus().FailRead(errNack)
	_, err := NewAHT100(bus).Measure(context.Background(), &i2ctest.Delay{})
	assert.ErrorIs(t, err, ErrBus)
	assert.NotErrorIs(t, err, ErrDeviceBusy)
	assert.NotErrorIs(t, err, ErrNotCalibrated)
}

func TestAHT100_CustomAddress(t *testing.T) {
	bus := i2ctest.NewBus()
	require.NoError(t, NewAHT100(bus, WithAddress(0x39)).Reset(context.Background()))
	assert.Equal(t, byte(0x39), bus.Transactions()[0].Address)
}

func TestAHT100_GetTempAndHum(t *testing.T) {
	bus := i2ctest.NewBus().
		Respond(0x18, 0, 0, 0, 0, 0).
		Respond(0x18, 0x80, 0x00, 0x04, 0x00, 0x00)
	delay := &i2ctest.Delay{}
	temp, hum, err := NewAHT100(bus, WithDelayer(delay)).GetTempAndHum(context.Background())
	require.NoError(t, err)
	assert.Equal(t, float32(0.0), temp)
	assert.Equal(t, float32(50.0), hum)
	assert.Equal(t, []uint16{40, 75, 75}, delay.Calls())
}

func TestAHT100_GetTemperatureInitFailure(t *testing.T) {
	bus := i2ctest.NewBus().FailWrite(errNack)
	_, err := NewAHT100(bus, WithDelayer(&i2ctest.Delay{})).GetTemperature(context.Background())
	assert.ErrorIs(t, err, ErrBus)
}

func TestAHT100_GetHumidityBusy(t *testing.T) {
	bus := i2ctest.NewBus().
		Respond(0x18, 0, 0, 0, 0, 0).
		Respond(0x98, 0, 0, 0, 0, 0)
	_, err := NewAHT100(bus, WithDelayer(&i2ctest.Delay{})).GetHumidity(context.Background())
	assert.ErrorIs(t, err, ErrDeviceBusy)
}

func TestAHT100Mode_String(t *testing.T) {
	assert.Equal(t, "NOR", ModeNormal.String())
	assert.Equal(t, "CYC", ModeCycle.String())
	assert.Equal(t, "CMD", ModeCommand.String())
}
