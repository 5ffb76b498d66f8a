package aht100

import "time"

// Delayer blocks the calling goroutine for the given number of milliseconds.
type Delayer interface {
	DelayMs(ms uint16)
}

// DelayFunc adapts a plain function to the Delayer interface.
type DelayFunc func(ms uint16)

func (f DelayFunc) DelayMs(ms uint16) {
	f(ms)
}

// SysDelay sleeps on the system clock.
type SysDelay struct{}

func (SysDelay) DelayMs(ms uint16) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}
