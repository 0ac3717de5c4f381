package powercom

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// ThreadSlot is the per-core record from spec.md §3: a core index and a
// mutex the main thread gates. The shared stop flag is held once on
// LoadEngine and read by every worker, not stored per slot. The
// scheduling-parameter descriptor is applied once at worker start by
// platform-specific code (loadengine_linux.go); it carries no runtime
// state here.
type ThreadSlot struct {
	Core  int
	Mutex sync.Mutex
}

// LoadEngine is the spec.md §4.3 worker pool: one spin/idle goroutine
// per targeted core, gated by its own mutex. The main thread's
// ownership of a slot's mutex IS the idle command — no condition
// variable wake-up happens on the hot path (spec.md §4.3 rationale).
type LoadEngine struct {
	slots []*ThreadSlot
	stop  atomic.Bool
	held  atomic.Bool // whether the owner (not a worker) currently holds every mutex
	wg    sync.WaitGroup
	log   *log.Logger
}

// NewLoadEngine creates coreCount slots, starting at core 0, and
// immediately locks every mutex so the pool starts idle — consistent
// with ModulatorState's load_asserted starting false (see modstate.go).
func NewLoadEngine(coreCount int, logger *log.Logger) *LoadEngine {
	e := &LoadEngine{log: logger}
	e.slots = make([]*ThreadSlot, coreCount)
	for i := range e.slots {
		e.slots[i] = &ThreadSlot{Core: i}
		e.slots[i].Mutex.Lock()
	}
	e.held.Store(true)
	return e
}

// Start launches one worker goroutine per slot. mainPrio is the
// real-time priority installed on the calling (main) thread by the
// caller; workers are installed one step lower, per spec.md §4.3.
// schedEnabled mirrors whether the main thread's own scheduler install
// succeeded — powercom_send.c skips the worker's sched_setscheduler call
// entirely when the main thread couldn't get SCHED_RR, since a worker
// running real-time above a non-real-time main thread achieves nothing.
func (e *LoadEngine) Start(mainPrio int, schedEnabled bool) {
	for _, slot := range e.slots {
		e.wg.Add(1)
		slot := slot
		go func() {
			defer e.wg.Done()
			e.workerSetup(slot, mainPrio-1, schedEnabled)
			for !e.stop.Load() {
				slot.Mutex.Lock()
				//nolint:staticcheck // deliberate lock/unlock spin — see spec.md §4.3
				slot.Mutex.Unlock()
			}
		}()
	}
}

// Acquire locks every slot's mutex in index order (0..N), idling every
// worker. Spec.md §4.2's ordering invariant: acquisitions proceed
// 0..N, releases in the same order.
func (e *LoadEngine) Acquire() {
	if e.held.Load() {
		return
	}
	for _, slot := range e.slots {
		slot.Mutex.Lock()
	}
	e.held.Store(true)
}

// Release unlocks every slot's mutex in index order, letting every
// worker spin.
func (e *LoadEngine) Release() {
	if !e.held.Load() {
		return
	}
	for _, slot := range e.slots {
		slot.Mutex.Unlock()
	}
	e.held.Store(false)
}

// Stop signals every worker to exit once its mutex is next released,
// and waits for them to join. Workers do not respond to cancellation
// directly (spec.md §5): the stop atomic only takes effect once the
// main thread has released the worker's mutex.
func (e *LoadEngine) Stop() {
	e.stop.Store(true)
	// Workers may currently be idled (mutex held by us from Acquire,
	// or never released from startup); release everything so each
	// worker can observe the stop flag and return.
	e.Release()
	e.wg.Wait()
}
