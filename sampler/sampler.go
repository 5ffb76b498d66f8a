// Package sampler runs periodic init/measure cycles against an AHT100 and
// hands decoded samples to a callback. Cycles are strictly sequential.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mklimuk/aht100"
	"github.com/mklimuk/aht100/environment"
)

// Sensor is the subset of the AHT100 driver used by the sampler.
type Sensor interface {
	Init(ctx context.Context, delay aht100.Delayer) (environment.AHT100Status, error)
	Measure(ctx context.Context, delay aht100.Delayer) ([5]byte, error)
}

var _ Sensor = &environment.AHT100{}

type Sample struct {
	Time    time.Time                `yaml:"time"`
	// Status reported by init; nil when init failed.
	Status  *environment.AHT100Status `yaml:"status,omitempty"`
	Reading environment.Reading       `yaml:"reading"`
}

type Handler func(Sample)

type Sampler struct {
	sensor       Sensor
	handler      Handler
	delay        aht100.Delayer
	interval     time.Duration
	maxBusErrors int
	logger       *slog.Logger
	now          func() time.Time
}

type Option func(*Sampler)

func WithInterval(d time.Duration) Option {
	return func(s *Sampler) {
		s.interval = d
	}
}

// WithMaxBusErrors makes Run return after n consecutive bus errors. Zero disables the limit.
func WithMaxBusErrors(n int) Option {
	return func(s *Sampler) {
		s.maxBusErrors = n
	}
}

func WithDelayer(d aht100.Delayer) Option {
	return func(s *Sampler) {
		s.delay = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sampler) {
		s.logger = l
	}
}

func New(sensor Sensor, handler Handler, opts ...Option) *Sampler {
	s := &Sampler{
		sensor:   sensor,
		handler:  handler,
		delay:    aht100.SysDelay{},
		interval: time.Second,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Once runs a single init and measure cycle. A failed init is logged and the
// measurement is still attempted.
func (s *Sampler) Once(ctx context.Context) (Sample, error) {
	var sample Sample
	status, err := s.sensor.Init(ctx, s.delay)
	if err != nil {
		s.logger.WarnContext(ctx, "sensor init failed", "error", err)
	} else {
		sample.Status = &status
	}
	raw, err := s.sensor.Measure(ctx, s.delay)
	if err != nil {
		return Sample{}, err
	}
	sample.Time = s.now()
	sample.Reading = environment.DecodeReading(raw)
	return sample, nil
}

// Run samples until ctx is cancelled or the bus error limit is reached.
func (s *Sampler) Run(ctx context.Context) error {
	busErrors := 0
	for {
		if ctx.Err() != nil {
			return nil
		}
		sample, err := s.Once(ctx)
		switch {
		case err == nil:
			busErrors = 0
			s.logger.DebugContext(ctx, "sample", "temperature", sample.Reading.Temperature, "humidity", sample.Reading.Humidity)
			if s.handler != nil {
				s.handler(sample)
			}
		case errors.Is(err, environment.ErrDeviceBusy), errors.Is(err, environment.ErrNotCalibrated):
			// the device answered, so the bus is fine
			busErrors = 0
			s.logger.WarnContext(ctx, "measurement skipped", "error", err)
		default:
			busErrors++
			s.logger.ErrorContext(ctx, "measurement failed", "error", err, "consecutive", busErrors)
			if s.maxBusErrors > 0 && busErrors >= s.maxBusErrors {
				return fmt.Errorf("giving up after %d consecutive bus errors: %w", busErrors, err)
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval):
		}
	}
}
