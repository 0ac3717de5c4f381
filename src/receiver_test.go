package powercom

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constSensor struct {
	value int32
}

func (s constSensor) Sample() (int32, error) { return s.value, nil }

// S6, run at 200 Hz instead of 90 Hz: binary mode, constant value=345 ->
// a stream of 4-byte little-endian float32 samples all equal to 0.345.
func TestSampler_S6_Binary(t *testing.T) {
	var buf bytes.Buffer
	sampler := NewSampler(constSensor{value: 345}, SamplerParams{
		Rate:   200, // fast, to keep the test quick
		Binary: true,
	}, &buf, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	require.NoError(t, sampler.Run(ctx))

	require.True(t, buf.Len() >= 4)
	require.Zero(t, buf.Len()%4, "binary output must be whole float32 words")

	n := buf.Len() / 4
	for i := 0; i < n; i++ {
		var v float32
		require.NoError(t, binary.Read(bytes.NewReader(buf.Bytes()[i*4:i*4+4]), binary.LittleEndian, &v))
		assert.InDelta(t, 0.345, float64(v), 1e-6)
	}
}

// Property 10: each 4-byte word equals value/1000.0 in IEEE-754
// little-endian.
func TestSampler_Property_BinaryFormat(t *testing.T) {
	var buf bytes.Buffer
	sampler := NewSampler(constSensor{value: 1000}, SamplerParams{
		Rate:   500,
		Binary: true,
	}, &buf, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, sampler.Run(ctx))
	require.True(t, buf.Len() >= 4)

	want := math.Float32bits(1.0)
	got := binary.LittleEndian.Uint32(buf.Bytes()[:4])
	assert.Equal(t, want, got)
}

// Property 9: in text mode at R Hz for T seconds, the number of output
// lines is within +/-1 of R*T. Run is driven to completion via
// params.Deadline (checked once per tick, right after emit) rather than
// an independently-ticking context timeout, so the only source of
// variance is the timer driver's own sleep jitter against one clock, not
// two racing clocks.
func TestSampler_Property9_Cadence(t *testing.T) {
	var buf bytes.Buffer
	const rate = 50
	const runFor = 200 * time.Millisecond
	sampler := NewSampler(constSensor{value: 123}, SamplerParams{
		Rate:     rate,
		Deadline: time.Now().Add(runFor),
	}, &buf, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, sampler.Run(ctx))

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	want := float64(rate) * runFor.Seconds()
	assert.InDelta(t, want, float64(lines), 1, "sampling cadence should be within +/-1 of rate*duration")
}

func TestSampler_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	sampler := NewSampler(constSensor{value: 500}, SamplerParams{Rate: 1000}, &buf, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	require.NoError(t, sampler.Run(ctx))

	assert.Contains(t, buf.String(), "load = 50.00 %\n")
}

func testLogger() *log.Logger {
	return NewLogger(false)
}
