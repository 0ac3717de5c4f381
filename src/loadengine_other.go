//go:build !linux

package powercom

import "errors"

// workerSetup is a no-op on platforms without sched_setaffinity/SCHED_RR
// equivalents wired up; workers still gate correctly on their mutex,
// just without CPU pinning or elevated scheduling priority. Logged once
// per worker so the degraded mode is visible (spec.md §7 PermissionDenied path).
func (e *LoadEngine) workerSetup(slot *ThreadSlot, prio int, schedEnabled bool) {
	e.log.Warn("cpu affinity and real-time scheduling are not implemented on this platform", "core", slot.Core)
}

// setSchedRR has no equivalent outside Linux.
func setSchedRR(prio int) error {
	return errors.New("real-time scheduling is not implemented on this platform")
}
