// Package i2ctest provides a scripted in-memory I2C bus for driver tests.
package i2ctest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mklimuk/aht100"
)

var _ aht100.I2CBus = &Bus{}

var ErrNoResponse = errors.New("no scripted response")

type Op int

const (
	OpWrite Op = iota
	OpRead
)

func (o Op) String() string {
	if o == OpWrite {
		return "W"
	}
	return "R"
}

// Tx records a single transaction seen by the bus.
type Tx struct {
	Op      Op
	Address byte
	Data    []byte
}

type readStep struct {
	resp []byte
	err  error
}

// Bus plays back queued responses. Writes succeed unless an error was queued
// with FailWrite; every read consumes one step queued with Respond or FailRead.
type Bus struct {
	mx        sync.Mutex
	txs       []Tx
	writeErrs []error
	reads     []readStep
	released  int
}

func NewBus() *Bus {
	return &Bus{}
}

// FailWrite makes the next write return err. Queue nil to let a write through.
func (b *Bus) FailWrite(err error) *Bus {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.writeErrs = append(b.writeErrs, err)
	return b
}

func (b *Bus) Respond(resp ...byte) *Bus {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.reads = append(b.reads, readStep{resp: resp})
	return b
}

func (b *Bus) FailRead(err error) *Bus {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.reads = append(b.reads, readStep{err: err})
	return b
}

func (b *Bus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.txs = append(b.txs, Tx{Op: OpWrite, Address: address, Data: append([]byte(nil), buffer...)})
	if len(b.writeErrs) == 0 {
		return nil
	}
	err := b.writeErrs[0]
	b.writeErrs = b.writeErrs[1:]
	return err
}

func (b *Bus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.txs = append(b.txs, Tx{Op: OpRead, Address: address})
	if len(b.reads) == 0 {
		return ErrNoResponse
	}
	step := b.reads[0]
	b.reads = b.reads[1:]
	if step.err != nil {
		return step.err
	}
	if len(step.resp) != len(buffer) {
		return fmt.Errorf("scripted response has %d bytes, buffer has %d", len(step.resp), len(buffer))
	}
	copy(buffer, step.resp)
	b.txs[len(b.txs)-1].Data = append([]byte(nil), step.resp...)
	return nil
}

func (b *Bus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	b.released++
	return nil
}

// Transactions returns a copy of the recorded transactions.
func (b *Bus) Transactions() []Tx {
	b.mx.Lock()
	defer b.mx.Unlock()
	return append([]Tx(nil), b.txs...)
}

// Writes returns the payloads of recorded writes in order.
func (b *Bus) Writes() [][]byte {
	b.mx.Lock()
	defer b.mx.Unlock()
	var res [][]byte
	for _, tx := range b.txs {
		if tx.Op == OpWrite {
			res = append(res, tx.Data)
		}
	}
	return res
}

func (b *Bus) Released() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.released
}

// Delay records requested delays without sleeping.
type Delay struct {
	mx    sync.Mutex
	calls []uint16
}

func (d *Delay) DelayMs(ms uint16) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.calls = append(d.calls, ms)
}

func (d *Delay) Calls() []uint16 {
	d.mx.Lock()
	defer d.mx.Unlock()
	return append([]uint16(nil), d.calls...)
}
