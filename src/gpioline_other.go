//go:build !linux

package powercom

// openExternalGPIO is unavailable outside Linux: go-gpiocdev talks to the
// Linux gpiochar ABI (/dev/gpiochipN).
func openExternalGPIO(chip string, offset int, invert bool) (*externalGPIO, error) {
	return nil, newError(SystemResource, "openExternalGPIO", errGPIOUnsupported)
}

var errGPIOUnsupported = gpioUnsupportedError{}

type gpioUnsupportedError struct{}

func (gpioUnsupportedError) Error() string {
	return "gpio line access is only implemented on linux"
}
