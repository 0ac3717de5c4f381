//go:build !linux

package powercom

// HIDDeviceInfo describes one candidate HID device node for the --list
// flag. See devicelist_linux.go for the populated fields.
type HIDDeviceInfo struct {
	Devnode string
	Sysname string
	Vendor  string
	Product string
}

// ListHIDDevices is unavailable outside Linux: udev is Linux-specific.
func ListHIDDevices() ([]HIDDeviceInfo, error) {
	return nil, newError(SystemResource, "ListHIDDevices", errHiddevUnsupported)
}
