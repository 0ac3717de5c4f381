//go:build linux

package powercom

import (
	"os"
	"unsafe"

	ioctl "github.com/daedaluz/goioctl"
)

// hiddevMagic is the ioctl magic byte linux/hiddev.h uses for every
// HIDIOCG*/HIDIOCS* request.
const hiddevMagic = 'H'

// hidReportTypeFeature is HID_REPORT_TYPE_FEATURE from linux/hid.h,
// matching apc_ups_logger.c's hardcoded report_type.
const hidReportTypeFeature = 3

var (
	hidiocgreportinfo = ioctl.IOWR(hiddevMagic, 0x09, unsafe.Sizeof(hiddevReportInfo{}))
	hidiocgreport      = ioctl.IOW(hiddevMagic, 0x07, unsafe.Sizeof(hiddevReportInfo{}))
	hidiocgucode       = ioctl.IOWR(hiddevMagic, 0x0D, unsafe.Sizeof(hiddevUsageRef{}))
	hidiocgusage       = ioctl.IOWR(hiddevMagic, 0x0B, unsafe.Sizeof(hiddevUsageRef{}))
)

// hiddevReportInfo mirrors linux/hiddev.h's struct hiddev_report_info.
type hiddevReportInfo struct {
	ReportType uint32
	ReportID   uint32
	NumFields  uint32
}

// hiddevUsageRef mirrors linux/hiddev.h's struct hiddev_usage_ref.
type hiddevUsageRef struct {
	ReportType uint32
	ReportID   uint32
	FieldIndex uint32
	UsageIndex uint32
	UsageCode  uint32
	Value      int32
}

// UPSLoadSensor reads the APC UPS "load percent" feature usage through
// the Linux hiddev interface. It is a direct translation of
// apc_ups_logger.c's startup ioctl sequence (HIDIOCGREPORTINFO,
// HIDIOCGREPORT, HIDIOCGUCODE, HIDIOCGUSAGE against report type 3 /
// report id 44) and its per-sample HIDIOCGREPORT + HIDIOCGUSAGE pair.
type UPSLoadSensor struct {
	f     *os.File
	rinfo hiddevReportInfo
	uref  hiddevUsageRef
}

// OpenUPSLoadSensor opens a hiddev device node (e.g. /dev/usb/hiddev0)
// and locates the load-percent usage at the fixed feature report
// apc_ups_logger.c hardcodes.
func OpenUPSLoadSensor(path string) (*UPSLoadSensor, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, newError(SystemResource, "OpenUPSLoadSensor", err)
	}

	s := &UPSLoadSensor{
		f:     f,
		rinfo: hiddevReportInfo{ReportType: hidReportTypeFeature, ReportID: 44},
	}

	if err := ioctl.Ioctl(f.Fd(), hidiocgreportinfo, uintptr(unsafe.Pointer(&s.rinfo))); err != nil {
		f.Close()
		return nil, newError(SystemResource, "HIDIOCGREPORTINFO", err)
	}
	if err := ioctl.Ioctl(f.Fd(), hidiocgreport, uintptr(unsafe.Pointer(&s.rinfo))); err != nil {
		f.Close()
		return nil, newError(SystemResource, "HIDIOCGREPORT", err)
	}

	s.uref = hiddevUsageRef{ReportType: hidReportTypeFeature, ReportID: 44}
	if err := ioctl.Ioctl(f.Fd(), hidiocgucode, uintptr(unsafe.Pointer(&s.uref))); err != nil {
		f.Close()
		return nil, newError(SystemResource, "HIDIOCGUCODE", err)
	}
	if err := ioctl.Ioctl(f.Fd(), hidiocgusage, uintptr(unsafe.Pointer(&s.uref))); err != nil {
		f.Close()
		return nil, newError(SystemResource, "HIDIOCGUSAGE", err)
	}

	return s, nil
}

// Sample re-issues HIDIOCGREPORT then HIDIOCGUSAGE and returns the raw
// usage value: load in tenths of a percent, same units
// apc_ups_logger.c's uref.value carries.
func (s *UPSLoadSensor) Sample() (int32, error) {
	if err := ioctl.Ioctl(s.f.Fd(), hidiocgreport, uintptr(unsafe.Pointer(&s.rinfo))); err != nil {
		return 0, newError(SystemResource, "HIDIOCGREPORT", err)
	}
	if err := ioctl.Ioctl(s.f.Fd(), hidiocgusage, uintptr(unsafe.Pointer(&s.uref))); err != nil {
		return 0, newError(SystemResource, "HIDIOCGUSAGE", err)
	}
	return s.uref.Value, nil
}

// Close releases the underlying device node.
func (s *UPSLoadSensor) Close() error {
	return s.f.Close()
}
