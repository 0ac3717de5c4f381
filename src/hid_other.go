//go:build !linux

package powercom

// UPSLoadSensor is unavailable outside Linux: the hiddev ioctl interface
// apc_ups_logger.c depends on is Linux-specific.
type UPSLoadSensor struct{}

// OpenUPSLoadSensor always fails on this platform.
func OpenUPSLoadSensor(path string) (*UPSLoadSensor, error) {
	return nil, newError(SystemResource, "OpenUPSLoadSensor", errHiddevUnsupported)
}

func (s *UPSLoadSensor) Sample() (int32, error) {
	return 0, newError(SystemResource, "UPSLoadSensor.Sample", errHiddevUnsupported)
}

func (s *UPSLoadSensor) Close() error { return nil }

var errHiddevUnsupported = hiddevUnsupportedError{}

type hiddevUnsupportedError struct{}

func (hiddevUnsupportedError) Error() string {
	return "hiddev access is only implemented on linux"
}
