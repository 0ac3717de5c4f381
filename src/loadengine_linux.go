//go:build linux

package powercom

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// workerSetup pins the calling goroutine's OS thread to slot.Core and
// attempts SCHED_RR at prio, matching powercom_send.c's helper_thread:
// CPU_SET + sched_setaffinity, then sched_setscheduler(SCHED_RR). A
// failure on either is logged and the worker proceeds at normal
// scheduling — this is the PermissionDenied degraded-quality path from
// spec.md §7, not a fatal error.
//
// Go has no pthread_sigmask equivalent to block SIGALRM/SIGINT on one
// goroutine only (signals are process-wide and delivered to whichever
// OS thread the runtime happens to be running a signal-eligible
// goroutine on); the timer driver in this port no longer uses a signal
// at all (see timerdriver.go), which removes the need the original had
// to mask it out of worker threads in the first place.
func (e *LoadEngine) workerSetup(slot *ThreadSlot, prio int, schedEnabled bool) {
	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(slot.Core)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		e.log.Warn("failed to set cpu affinity", "core", slot.Core, "err", err)
	}

	if !schedEnabled {
		return
	}
	param := &unix.SchedParam{Priority: int32(prio)}
	if err := unix.SchedSetscheduler(0, unix.SCHED_RR, param); err != nil {
		e.log.Warn("failed to set worker scheduling priority", "core", slot.Core, "err", err)
	}
}

// setSchedRR installs SCHED_RR at prio on the calling OS thread. Used by
// Engine.Transmit to elevate the main thread before the worker pool
// starts, matching powercom_send.c's main() doing the same with
// sched_priority 6.
func setSchedRR(prio int) error {
	param := &unix.SchedParam{Priority: int32(prio)}
	return unix.SchedSetscheduler(0, unix.SCHED_RR, param)
}
