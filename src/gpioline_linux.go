//go:build linux

package powercom

import "github.com/warthog618/go-gpiocdev"

// openExternalGPIO requests offset on chip (e.g. "gpiochip0") as an
// output line, initially de-asserted (respecting invert), for
// Engine.Transmit to toggle in sync with load_asserted.
func openExternalGPIO(chip string, offset int, invert bool) (*externalGPIO, error) {
	initial := 0
	if invert {
		initial = 1
	}
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(initial))
	if err != nil {
		return nil, newError(SystemResource, "openExternalGPIO", err)
	}
	return &externalGPIO{line: line, invert: invert}, nil
}
