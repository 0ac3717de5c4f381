package powercom

import "sync/atomic"

// ModulatorState holds the fields the timer goroutine mutates and the
// main pacing loop observes, per spec.md §3 and §9. Every field is a
// single-word atomic rather than a plain variable: the timer goroutine
// is the sole writer, the main loop the sole reader, and no mutex is
// taken on this hot path (spec.md §5, "single-word atomic").
type ModulatorState struct {
	loadAsserted atomic.Bool
	done         atomic.Bool
	symbol       atomic.Uint32
	eventCnt     atomic.Uint32
	queue        *FrameQueue // owned by the timer goroutine only; never read from the main loop
}

// NewModulatorState builds a state ready to drive queue. load_asserted
// starts false: per the GLOSSARY, powercom_send.c's have_lock (which
// starts true — the main thread holds every worker mutex before the
// first tick) is the logical inverse of load_asserted, so a fresh
// engine starts idle, workers blocked, mains current not yet drawn.
// The tick handlers themselves (ask.go, psk.go) are otherwise a literal
// translation of the C have_lock transitions onto this field, per
// spec.md §4.2's pseudocode.
func NewModulatorState(queue *FrameQueue) *ModulatorState {
	return &ModulatorState{queue: queue}
}

// LoadAsserted may be read at any time by the main thread (spec.md §3).
func (s *ModulatorState) LoadAsserted() bool { return s.loadAsserted.Load() }

// Done is monotonic false->true once all frames are exhausted.
func (s *ModulatorState) Done() bool { return s.done.Load() }
