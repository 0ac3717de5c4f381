package powercom

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lestrrat-go/strftime"
)

// DefaultSampleRate mirrors apc_ups_logger.c's DEFAULT_RATE.
const DefaultSampleRate = 90

// DefaultHiddevPath mirrors apc_ups_logger.c's DEFAULT_HIDDEV_PATH.
const DefaultHiddevPath = "/dev/usb/hiddev0"

// SamplerParams configures a Sampler. Rate is in Hz; Deadline, if
// non-zero, stops Run once reached (spec.md §6's -t SEC); Binary selects
// apc_ups_logger.c's float32 stdout format over its "load = %.2f %%"
// text format; Timestamp, if non-nil, prefixes each text line with a
// formatted time (SPEC_FULL.md's -T addition; no effect in binary mode).
type SamplerParams struct {
	Rate      int
	Deadline  time.Time
	Binary    bool
	Timestamp *strftime.Strftime
}

// loadSensor is the minimal surface Sampler needs from UPSLoadSensor,
// broken out so tests can drive Sampler without a real hiddev node.
type loadSensor interface {
	Sample() (int32, error)
}

// Sampler drives a loadSensor at a fixed rate and writes readings to an
// io.Writer, a direct translation of apc_ups_logger.c's main loop.
type Sampler struct {
	sensor loadSensor
	params SamplerParams
	out    io.Writer
	log    *log.Logger
}

// NewSampler builds a Sampler. sensor and out are owned by the caller;
// Run does not close either.
func NewSampler(sensor loadSensor, params SamplerParams, out io.Writer, logger *log.Logger) *Sampler {
	if params.Rate <= 0 {
		params.Rate = DefaultSampleRate
	}
	return &Sampler{sensor: sensor, params: params, out: out, log: logger}
}

// Run samples at params.Rate until ctx is cancelled, params.Deadline
// passes, or a sensor read fails. It returns nil on a clean stop and a
// SystemResource error on sensor failure.
func (s *Sampler) Run(ctx context.Context) error {
	interval := time.Second
	if s.params.Rate > 1 {
		interval = time.Duration(float64(time.Second) / float64(s.params.Rate))
	}

	var triggered atomic.Bool
	wake := make(chan struct{}, 1)
	timer := NewTimerDriver(interval, func() {
		triggered.Store(true)
		select {
		case wake <- struct{}{}:
		default:
		}
	})
	timer.Start()
	defer timer.Stop()

	sampleCount := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
		}
		if !triggered.Load() {
			continue
		}
		triggered.Store(false)
		sampleCount++

		raw, err := s.sensor.Sample()
		if err != nil {
			return err
		}
		if err := s.emit(raw, sampleCount); err != nil {
			return newError(SystemResource, "Sampler.Run", err)
		}

		if !s.params.Deadline.IsZero() && !time.Now().Before(s.params.Deadline) {
			return nil
		}

		// A tick already landed while we were sampling and writing:
		// apc_ups_logger.c's "WARNING: Can't keep up with rate".
		if triggered.Load() {
			s.log.Warn("sample rate exceeded, cannot keep up")
		}
	}
}

// emit writes one sample in the configured format. raw is load in
// tenths of a percent, the unit UPSLoadSensor.Sample returns.
func (s *Sampler) emit(raw int32, sampleCount int) error {
	if s.params.Binary {
		value := float32(raw) / 1000.0
		if err := binary.Write(s.out, binary.LittleEndian, value); err != nil {
			return err
		}
		if sampleCount%s.params.Rate == 0 {
			if f, ok := s.out.(interface{ Flush() error }); ok {
				return f.Flush()
			}
		}
		return nil
	}

	line := fmt.Sprintf("load = %.2f %%\n", float64(raw)/10.0)
	if s.params.Timestamp != nil {
		prefix := s.params.Timestamp.FormatString(time.Now())
		line = prefix + " " + line
	}
	_, err := io.WriteString(s.out, line)
	return err
}
