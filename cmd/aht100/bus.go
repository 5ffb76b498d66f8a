package main

import (
	"context"
	"fmt"

	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/mklimuk/aht100"
	"github.com/mklimuk/aht100/adapter"
	"github.com/mklimuk/aht100/config"
	"github.com/mklimuk/aht100/environment"
	"github.com/mklimuk/aht100/i2c"
)

// openSensor connects the configured adapter and returns the driver with a
// cleanup function releasing the bus.
func openSensor(ctx context.Context, cfg config.Config) (*environment.AHT100, func(), error) {
	bus, closer, err := openBus(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = bus.Release(ctx)
		_ = closer()
	}
	return environment.NewAHT100(bus, environment.WithAddress(byte(cfg.Address))), cleanup, nil
}

func openBus(cfg config.Config) (aht100.I2CBus, func() error, error) {
	switch cfg.Adapter {
	case config.AdapterMCP2221:
		return adapter.NewMCP2221(), func() error { return nil }, nil
	case config.AdapterPeriph:
		b, err := i2c.NewGenericBus(cfg.Device)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case config.AdapterNanoPi:
		npi := nanopi.NewNeoAdaptor()
		if err := npi.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		return i2c.NewGobotBus(npi, cfg.Bus), npi.Finalize, nil
	default:
		return nil, nil, fmt.Errorf("unsupported adapter %q", cfg.Adapter)
	}
}
