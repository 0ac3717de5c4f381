package powercom

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// cpuGovernorPath is the sysfs file powercom_send.c's check_cpu_governor
// reads. A missing file (non-Linux, no cpufreq driver) is silently
// ignored, same as the original's fopen-fails-so-return behavior.
const cpuGovernorPath = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_governor"

// CheckCPUGovernor warns once if cpu0's scaling governor isn't
// "performance": a throttled or powersave core distorts the carrier
// timing this whole channel depends on.
func CheckCPUGovernor(logger *log.Logger) {
	data, err := os.ReadFile(cpuGovernorPath)
	if err != nil {
		return
	}
	governor := strings.TrimSpace(string(data))
	if governor != "performance" {
		logger.Warn("cpu frequency scaling governor is not set to performance", "governor", governor)
	}
}

// mainSchedPriority is the real-time priority installed on the calling
// thread before the worker pool starts, matching powercom_send.c's
// hardcoded main-thread sched_priority of 6 (workers install one below).
const mainSchedPriority = 6

// mainLoopIdleTimeout bounds how long the pacing loop waits for a timer
// tick's wake-up before re-checking for an external abort. Every normal
// tick wakes the loop immediately; this is only a backstop.
const mainLoopIdleTimeout = 10 * time.Second

// Engine drives a single Transmit call against a fixed set of channel
// parameters. One Engine may run any number of Transmit calls in
// sequence; it carries no state between calls.
type Engine struct {
	Params ChannelParameters
	Log    *log.Logger
}

// NewEngine builds an Engine. params is validated on the first call to
// Transmit, not here.
func NewEngine(params ChannelParameters, logger *log.Logger) *Engine {
	return &Engine{Params: params, Log: logger}
}

// Transmit runs frames to completion: arm the modulator state, start the
// worker pool and timer driver, pace the main loop off load_asserted
// transitions, and tear everything down in strict reverse order of
// construction (spec.md §3) whether it finishes normally or is
// interrupted.
//
// ctx cancellation and SIGINT both abort the transmission cleanly — all
// resources are released before Transmit returns. On SIGINT, the
// process's default disposition is re-raised after teardown so an outer
// supervisor still observes the interruption; Go has no equivalent of
// chaining to a prior sigaction, so this re-raise is the closest analog
// to powercom_send.c's "restore and re-invoke the previous handler"
// (SPEC_FULL.md, Transmitter).
func (e *Engine) Transmit(ctx context.Context, frames *FrameQueue) error {
	if err := e.Params.Validate(); err != nil {
		return err
	}

	// Pin this goroutine to one OS thread for the lifetime of the call:
	// SCHED_RR and CPU affinity are thread properties, and the Go
	// scheduler is otherwise free to migrate a goroutine between
	// threads between any two instructions.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state := NewModulatorState(frames)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	schedOK := true
	if err := setSchedRR(mainSchedPriority); err != nil {
		schedOK = false
		e.Log.Warn("failed to install real-time scheduling on main thread, continuing at normal priority", "err", err)
	}

	var gpio *externalGPIO
	if e.Params.ExternalGPIOChip != "" {
		var err error
		gpio, err = openExternalGPIO(e.Params.ExternalGPIOChip, e.Params.ExternalGPIOLine, e.Params.ExternalGPIOInvert)
		if err != nil {
			return err
		}
		defer gpio.Close()
	}

	loadEngine := NewLoadEngine(e.Params.CoreCount, e.Log)
	loadEngine.Start(mainSchedPriority, schedOK)

	e.Log.Info("transmitting",
		"modulation", e.Params.Modulation,
		"encoding", e.Params.Encoding,
		"carrier_hz", e.Params.CarrierFreq,
		"bit_rate", e.Params.BitRate(),
		"cores", e.Params.CoreCount,
	)

	wake := make(chan struct{}, 1)
	notify := func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}

	ticksPerUnit := e.Params.TicksPerUnit()
	var tick func()
	if e.Params.Modulation == ModASK {
		tick = func() { askTick(state, ticksPerUnit); notify() }
	} else {
		mod, bits := e.Params.Modulation, e.Params.BitsPerSymbol
		tick = func() { pskTick(state, mod, bits, ticksPerUnit); notify() }
	}

	interval := time.Duration(e.Params.TickInterval() * float64(time.Second))
	timer := NewTimerDriver(interval, tick)
	timer.Start()

	var aborted, sigAborted atomic.Bool
	prevAsserted := false    // matches ModulatorState's initial load_asserted == false
	externalStopped := false // whether e.Params.ExternalPID is currently suspended

	for {
		select {
		case <-wake:
		case <-time.After(mainLoopIdleTimeout):
		case <-sigCh:
			aborted.Store(true)
			sigAborted.Store(true)
		case <-ctx.Done():
			aborted.Store(true)
		}

		if state.Done() || aborted.Load() {
			break
		}

		asserted := state.LoadAsserted()
		if asserted == prevAsserted {
			continue
		}
		prevAsserted = asserted

		if asserted {
			// The channel needs current drawn: let every worker spin,
			// and resume the external load generator if one is paused.
			loadEngine.Release()
			if e.Params.ExternalPID != 0 && externalStopped {
				_ = syscall.Kill(e.Params.ExternalPID, syscall.SIGCONT)
				externalStopped = false
			}
		} else {
			loadEngine.Acquire()
			if e.Params.ExternalPID != 0 && !externalStopped {
				_ = syscall.Kill(e.Params.ExternalPID, syscall.SIGSTOP)
				externalStopped = true
			}
		}
		if gpio != nil {
			if err := gpio.Set(asserted); err != nil {
				e.Log.Warn("failed to set external gpio line", "err", err)
			}
		}
	}

	// Teardown in strict reverse order of construction: timer first
	// (stop producing ticks), then the worker pool, then release any
	// still-suspended external process last.
	timer.Stop()
	loadEngine.Stop()
	if e.Params.ExternalPID != 0 && externalStopped {
		_ = syscall.Kill(e.Params.ExternalPID, syscall.SIGCONT)
	}
	if gpio != nil {
		_ = gpio.Set(false)
	}

	if sigAborted.Load() {
		// Restore the default SIGINT disposition and re-raise it so an
		// outer supervisor (shell, service manager) still observes the
		// interruption, the closest analog to chaining to a prior
		// sigaction. A ctx-only cancellation never reaches here: it did
		// not originate from a real signal, so there is nothing to
		// re-deliver to the process.
		signal.Stop(sigCh)
		_ = syscall.Kill(os.Getpid(), syscall.SIGINT)
		return newError(Interrupted, "Engine.Transmit", nil)
	}
	if aborted.Load() {
		return newError(Interrupted, "Engine.Transmit", ctx.Err())
	}
	return nil
}
