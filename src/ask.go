package powercom

// askTick is the tick handler for ASK modulation, a direct translation
// of powercom_send.c's ask_timer_cb. It is called once per timer tick
// from the timer driver's goroutine only — see spec.md §4.5 and §9 for
// why this must stay free of anything but single-word atomic mutation.
//
// OQ-1 (spec.md §9): a '0' bit does not hold the previous state, it
// forces load_asserted high. This is an asymmetric-ASK artifact of the
// original source and is preserved unchanged rather than "fixed" — a
// receiver-side demodulator tuned to this asymmetry would break if the
// rule changed here.
func askTick(s *ModulatorState, ticksPerBit int) {
	if s.done.Load() {
		return
	}
	if s.queue.Empty() {
		// Only reachable when the queue started with zero frames: there
		// was never a bit to send.
		s.loadAsserted.Store(false)
		s.done.Store(true)
		return
	}

	if s.queue.PeekBit() == 1 {
		s.loadAsserted.Store(!s.loadAsserted.Load())
	} else if !s.loadAsserted.Load() {
		s.loadAsserted.Store(true)
	}

	next := s.eventCnt.Add(1)
	if int(next) >= ticksPerBit {
		s.eventCnt.Store(0)
		s.queue.AdvanceBit()
		// OQ-3 redesign: this tick just finished the bit's full
		// ticksPerBit period, so the cursor is safe to advance. If
		// that was also the last bit, done is asserted on this same
		// tick rather than on a following tick that merely observes
		// the now-empty queue.
		if s.queue.Empty() {
			s.done.Store(true)
		}
	}
}
