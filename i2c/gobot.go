package i2c

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mklimuk/aht100"
	gobot "gobot.io/x/gobot/v2/drivers/i2c"
)

var _ aht100.I2CBus = &GobotBus{}

// GobotBus drives devices through a gobot I2C connector (e.g. a NanoPi adaptor).
// Gobot drivers are bound to a single address, so one driver is started lazily
// for every address used.
type GobotBus struct {
	mx        sync.Mutex
	connector gobot.Connector
	bus       int
	drivers   map[byte]*gobot.GenericDriver
}

func NewGobotBus(connector gobot.Connector, bus int) *GobotBus {
	return &GobotBus{
		connector: connector,
		bus:       bus,
		drivers:   map[byte]*gobot.GenericDriver{},
	}
}

func (b *GobotBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	d, err := b.driver(address)
	if err != nil {
		return err
	}
	if err := d.Read(buffer); err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GobotBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	d, err := b.driver(address)
	if err != nil {
		return err
	}
	if err := d.Write(buffer); err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

// Release halts all started drivers. They are restarted on next use.
func (b *GobotBus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var errs []error
	for addr, d := range b.drivers {
		if err := d.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt %x: %w", addr, err))
		}
		delete(b.drivers, addr)
	}
	return errors.Join(errs...)
}

func (b *GobotBus) driver(address byte) (*gobot.GenericDriver, error) {
	if d, ok := b.drivers[address]; ok {
		return d, nil
	}
	d := gobot.NewGenericDriver(b.connector, fmt.Sprintf("i2c-%#x", address), int(address), func(c gobot.Config) {
		c.SetBus(b.bus)
	})
	if err := d.Start(); err != nil {
		return nil, fmt.Errorf("could not start i2c driver for %x: %w", address, err)
	}
	b.drivers[address] = d
	return d, nil
}
