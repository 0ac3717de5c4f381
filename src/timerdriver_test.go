package powercom

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerDriver_TicksAndStops(t *testing.T) {
	var count atomic.Int64
	d := NewTimerDriver(5*time.Millisecond, func() { count.Add(1) })
	d.Start()

	time.Sleep(60 * time.Millisecond)
	d.Stop()

	got := count.Load()
	assert.Greater(t, got, int64(3), "expected several ticks within 60ms at a 5ms interval")

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, got, count.Load(), "no further ticks after Stop returns")
}
