package aht100

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// I2CBus is the blocking two-wire transaction primitive consumed by device drivers.
// A read always fills the whole buffer or fails.
type I2CBus interface {
	AddressableReader
	AddressableWriter
}
