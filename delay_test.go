package aht100

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSysDelay_Blocks(t *testing.T) {
	start := time.Now()
	SysDelay{}.DelayMs(20)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDelayFunc(t *testing.T) {
	var got []uint16
	var d Delayer = DelayFunc(func(ms uint16) { got = append(got, ms) })
	d.DelayMs(40)
	d.DelayMs(75)
	assert.Equal(t, []uint16{40, 75}, got)
}
