package powercom

// phaseMap computes the tick-unit phase shift for a given symbol and
// bits-per-symbol. It is a variable rather than a plain function so a
// future symbol-to-phase mapping (e.g. Gray coding) can be substituted
// without touching pskTick's call site — the hook spec.md §9 (OQ-2)
// asks for. The default preserves the original's
// `symbol * EVENTS_PER_PERIOD / (1 << bits_per_symbol)`, which always
// simplifies to `symbol` and is therefore in tick units, not radians.
var phaseMap = func(symbol uint32, bitsPerSymbol int) uint32 {
	return symbol
}

// pskTick is the tick handler shared by PSK and DPSK, a direct
// translation of powercom_send.c's psk_timer_cb.
func pskTick(s *ModulatorState, mod Modulation, bitsPerSymbol int, ticksPerSymbol int) {
	if s.done.Load() {
		return
	}

	eventsPerPeriod := uint32(1) << uint(bitsPerSymbol)
	n := s.eventCnt.Load()

	if n%uint32(ticksPerSymbol) == 0 {
		if s.queue.Empty() {
			// Only reachable when the queue started with zero frames:
			// there was never a symbol to send.
			s.loadAsserted.Store(false)
			s.done.Store(true)
			return
		}

		newBits := uint32(s.queue.PullBits(bitsPerSymbol))

		if mod == ModDPSK {
			s.symbol.Store((s.symbol.Load() + newBits) % eventsPerPeriod)
		} else {
			s.symbol.Store(newBits)
		}
	}

	phase := phaseMap(s.symbol.Load(), bitsPerSymbol)
	if (n+phase)%eventsPerPeriod < eventsPerPeriod/2 {
		s.loadAsserted.Store(true)
	} else {
		s.loadAsserted.Store(false)
	}

	// OQ-3 redesign: the bits for this symbol were pulled at its first
	// tick above. If that emptied the queue and this is the symbol's
	// last tick, there is no next symbol to start — complete now rather
	// than on a following tick that merely observes the now-empty queue.
	if (n+1)%uint32(ticksPerSymbol) == 0 && s.queue.Empty() {
		s.done.Store(true)
	}

	s.eventCnt.Add(1)
}
