package powercom

// gpioLine is the minimal interface Engine.Transmit needs from a GPIO
// output line. gpioline_linux.go's gpiocdev-backed implementation and a
// test fake both satisfy it; this mirrors the interface the teacher's
// own half-ported gpiod support reached for (ptt_test.go's
// mockGPIODLine), generalized from radio PTT to a load-transition
// indicator line.
type gpioLine interface {
	SetValue(v int) error
	Close() error
}

// externalGPIO drives an auxiliary GPIO output line in lockstep with
// load_asserted, alongside (or instead of) -P PID's SIGSTOP/SIGCONT —
// useful for triggering a relay, LED, or scope probe synchronized with
// the covert channel's high/low current phases. invert follows ptt.go's
// PTT_METHOD_GPIO convention: "more positive output corresponds to 1
// unless invert is set".
type externalGPIO struct {
	line   gpioLine
	invert bool
}

// Set drives the line to reflect active, honoring invert.
func (g *externalGPIO) Set(active bool) error {
	v := 0
	if active != g.invert {
		v = 1
	}
	return g.line.SetValue(v)
}

func (g *externalGPIO) Close() error {
	return g.line.Close()
}
