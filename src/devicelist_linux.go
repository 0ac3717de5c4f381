//go:build linux

package powercom

import (
	"strings"

	"github.com/jochenvg/go-udev"
)

// HIDDeviceInfo describes one candidate HID device node for the --list
// flag SPEC_FULL.md adds to the receiver: apc_ups_logger.c's original
// DEFAULT_HIDDEV_PATH guess-and-check is hard to use blind when more
// than one UPS is attached.
type HIDDeviceInfo struct {
	Devnode string
	Sysname string
	Vendor  string // "" if udev/the device tree didn't expose it
	Product string
}

// ListHIDDevices enumerates hiddev device nodes via udev: subsystem
// "hidraw" first (the modern interface), falling back to the legacy
// "usbmisc" hiddevN class devices if hidraw turns up nothing.
func ListHIDDevices() ([]HIDDeviceInfo, error) {
	u := udev.Udev{}

	devices, err := enumerateSubsystem(&u, "hidraw", "")
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		devices, err = enumerateSubsystem(&u, "usbmisc", "hiddev")
		if err != nil {
			return nil, err
		}
	}
	return devices, nil
}

// enumerateSubsystem lists devices under subsystem, optionally restricted
// to those whose sysname starts with sysnamePrefix (used to pick legacy
// hiddevN nodes out of the broader usbmisc subsystem).
func enumerateSubsystem(u *udev.Udev, subsystem, sysnamePrefix string) ([]HIDDeviceInfo, error) {
	e := u.NewEnumerate()
	if err := e.AddMatchSubsystem(subsystem); err != nil {
		return nil, newError(SystemResource, "ListHIDDevices", err)
	}
	if err := e.AddMatchIsInitialized(); err != nil {
		return nil, newError(SystemResource, "ListHIDDevices", err)
	}

	devices, err := e.Devices()
	if err != nil {
		return nil, newError(SystemResource, "ListHIDDevices", err)
	}

	infos := make([]HIDDeviceInfo, 0, len(devices))
	for _, d := range devices {
		node := d.Devnode()
		if node == "" {
			continue
		}
		sysname := d.Sysname()
		if sysnamePrefix != "" && !strings.HasPrefix(sysname, sysnamePrefix) {
			continue
		}
		vendor, product := usbIDs(d)
		infos = append(infos, HIDDeviceInfo{Devnode: node, Sysname: sysname, Vendor: vendor, Product: product})
	}
	return infos, nil
}

// usbIDs reports the vendor/product ID of the nearest USB device ancestor
// of d, the same identifying pair cm108.go's USB probing reports for the
// CM108/CM119 PTT adapter, generalized here to any hiddev/hidraw node.
func usbIDs(d *udev.Device) (vendor, product string) {
	vendor = d.PropertyValue("ID_VENDOR_ID")
	product = d.PropertyValue("ID_MODEL_ID")
	for parent := d.Parent(); parent != nil && (vendor == "" || product == ""); parent = parent.Parent() {
		if vendor == "" {
			vendor = parent.SysattrValue("idVendor")
		}
		if product == "" {
			product = parent.SysattrValue("idProduct")
		}
	}
	return vendor, product
}
