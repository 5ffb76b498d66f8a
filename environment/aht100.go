package environment

import (
	"context"
	"errors"
	"fmt"

	"github.com/mklimuk/aht100"
)

// AHT100 I2C address (7-bit)
const AHT100Address = 0x38

const (
	aht100CmdReset   = 0xBA
	aht100CmdInit    = 0xE1
	aht100CmdMeasure = 0xAC
)

var (
	aht100InitArgs    = [2]byte{0x08, 0x00}
	aht100MeasureArgs = [2]byte{0x33, 0x00}
)

// delays in milliseconds
const (
	aht100PowerUpDelay = 40
	aht100InitDelay    = 75
	aht100MeasureDelay = 75
)

const aht100ResponseLen = 6

// 20-bit fixed point full scale
var aht100Scale = float32(1 << 20)

var (
	ErrBus           = errors.New("bus transaction failed")
	ErrDeviceBusy    = errors.New("device busy")
	ErrNotCalibrated = errors.New("device not calibrated")
)

type AHT100Mode byte

const (
	ModeNormal AHT100Mode = iota
	ModeCycle
	ModeCommand
)

func (m AHT100Mode) String() string {
	switch m {
	case ModeNormal:
		return "NOR"
	case ModeCycle:
		return "CYC"
	default:
		return "CMD"
	}
}

func (m AHT100Mode) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// AHT100Status is decoded from the first byte of every device response.
type AHT100Status struct {
	Busy       bool       `yaml:"busy"`
	Mode       AHT100Mode `yaml:"mode"`
	Calibrated bool       `yaml:"calibrated"`
}

// Reading holds temperature in Celsius and relative humidity in %RH.
type Reading struct {
	Temperature float32 `yaml:"temperature"`
	Humidity    float32 `yaml:"humidity"`
}

// AHT100 represents Aosong AHT100 Temperature/Humidity sensor.
// The driver owns its bus exclusively and is not safe for concurrent use.
// Typical usage:
//
//	s := NewAHT100(bus)
//	if _, err := s.Init(ctx, aht100.SysDelay{}); err != nil { ... }
//	raw, err := s.Measure(ctx, aht100.SysDelay{})
//	reading := DecodeReading(raw)
type AHT100 struct {
	transport aht100.I2CBus
	address   byte
	delay     aht100.Delayer
}

type AHT100Config struct {
	Address byte
	Delay   aht100.Delayer
}

type AHT100ConfigOption func(*AHT100Config)

func WithAddress(address byte) AHT100ConfigOption {
	return func(c *AHT100Config) {
		c.Address = address
	}
}

// WithDelayer sets the delay primitive used by the Get* convenience methods.
func WithDelayer(d aht100.Delayer) AHT100ConfigOption {
	return func(c *AHT100Config) {
		c.Delay = d
	}
}

func NewAHT100(trans aht100.I2CBus, opts ...AHT100ConfigOption) *AHT100 {
	config := &AHT100Config{
		Address: AHT100Address,
		Delay:   aht100.SysDelay{},
	}
	for _, opt := range opts {
		opt(config)
	}
	return &AHT100{transport: trans, address: config.Address, delay: config.Delay}
}

// Reset restarts the device controller. The caller must give the device time
// to come back before issuing further commands.
func (s *AHT100) Reset(ctx context.Context) error {
	if err := s.transport.WriteToAddr(ctx, s.address, []byte{aht100CmdReset}); err != nil {
		return fmt.Errorf("aht100: could not write reset command: %w: %w", ErrBus, err)
	}
	return nil
}

// Init waits for the device to settle, sends the initialization command and
// returns the reported status. Calibration is not verified.
func (s *AHT100) Init(ctx context.Context, delay aht100.Delayer) (AHT100Status, error) {
	delay.DelayMs(aht100PowerUpDelay)
	cmd := []byte{aht100CmdInit, aht100InitArgs[0], aht100InitArgs[1]}
	if err := s.transport.WriteToAddr(ctx, s.address, cmd); err != nil {
		return AHT100Status{}, fmt.Errorf("aht100: could not write init command: %w: %w", ErrBus, err)
	}
	delay.DelayMs(aht100InitDelay)
	var buf [aht100ResponseLen]byte
	if err := s.transport.ReadFromAddr(ctx, s.address, buf[:]); err != nil {
		return AHT100Status{}, fmt.Errorf("aht100: could not read device status: %w: %w", ErrBus, err)
	}
	return DecodeStatus(buf[0]), nil
}

// Measure triggers a measurement and returns the raw 5-byte payload.
func (s *AHT100) Measure(ctx context.Context, delay aht100.Delayer) ([5]byte, error) {
	var raw [5]byte
	cmd := []byte{aht100CmdMeasure, aht100MeasureArgs[0], aht100MeasureArgs[1]}
	if err := s.transport.WriteToAddr(ctx, s.address, cmd); err != nil {
		return raw, fmt.Errorf("aht100: could not write measure command: %w: %w", ErrBus, err)
	}
	delay.DelayMs(aht100MeasureDelay)
	var buf [aht100ResponseLen]byte
	if err := s.transport.ReadFromAddr(ctx, s.address, buf[:]); err != nil {
		return raw, fmt.Errorf("aht100: could not read measurement: %w: %w", ErrBus, err)
	}
	status := DecodeStatus(buf[0])
	if status.Busy {
		return raw, ErrDeviceBusy
	}
	if !status.Calibrated {
		return raw, ErrNotCalibrated
	}
	copy(raw[:], buf[1:])
	return raw, nil
}

// GetTemperature performs init and a single measurement and returns temperature in Celsius.
func (s *AHT100) GetTemperature(ctx context.Context) (float32, error) {
	r, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	return r.Temperature, nil
}

// GetHumidity performs init and a single measurement and returns relative humidity in %RH.
func (s *AHT100) GetHumidity(ctx context.Context) (float32, error) {
	r, err := s.read(ctx)
	if err != nil {
		return 0, err
	}
	return r.Humidity, nil
}

// GetTempAndHum performs init and a single measurement and returns temperature and humidity.
func (s *AHT100) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	r, err := s.read(ctx)
	if err != nil {
		return 0, 0, err
	}
	return r.Temperature, r.Humidity, nil
}

func (s *AHT100) read(ctx context.Context) (Reading, error) {
	if _, err := s.Init(ctx, s.delay); err != nil {
		return Reading{}, err
	}
	raw, err := s.Measure(ctx, s.delay)
	if err != nil {
		return Reading{}, err
	}
	return DecodeReading(raw), nil
}

func DecodeStatus(b byte) AHT100Status {
	var mode AHT100Mode
	switch b & 0b0110_0000 {
	case 0x00:
		mode = ModeNormal
	case 0x20:
		mode = ModeCycle
	default:
		// 0x40 and 0x60 both mean command mode
		mode = ModeCommand
	}
	return AHT100Status{
		Busy:       b > 0x7F,
		Mode:       mode,
		Calibrated: b&0x08 == 0x08,
	}
}

// DecodeReading converts the 20-bit humidity and temperature fields of a raw payload.
//
//	RH(%) = raw / 2^20 * 100
//	T(C)  = raw / 2^20 * 200 - 50
func DecodeReading(raw [5]byte) Reading {
	hum := uint32(raw[0])<<12 | uint32(raw[1])<<4 | uint32(raw[2])>>4
	temp := uint32(raw[2]&0x0F)<<16 | uint32(raw[3])<<8 | uint32(raw[4])
	return Reading{
		Humidity:    float32(hum) / aht100Scale * 100.0,
		Temperature: float32(float32(temp)/aht100Scale*200.0) - 50.0,
	}
}
