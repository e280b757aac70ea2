//go:build windows

package overlay

import (
	"syscall"
	"unsafe"
)

// Windows monitor/DPI enumeration, following the gioui.org windowing
// driver's syscall.NewLazySystemDLL/NewProc idiom for user32/shcore.
var (
	user32 = syscall.NewLazySystemDLL("user32.dll")

	_EnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	_GetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	_MonitorFromPoint    = user32.NewProc("MonitorFromPoint")

	shcore            = syscall.NewLazySystemDLL("shcore.dll")
	_GetDpiForMonitor = shcore.NewProc("GetDpiForMonitor")
)

const (
	_MONITOR_DEFAULTTOPRIMARY = 1
	_MDT_EFFECTIVE_DPI        = 0
	_MONITORINFOF_PRIMARY     = 0x1
)

type winRect struct {
	left, top, right, bottom int32
}

// monitorInfoEx mirrors MONITORINFO (the MONITORINFOEXW device-name tail is
// unused here and omitted).
type monitorInfoEx struct {
	cbSize    uint32
	rcMonitor winRect
	rcWork    winRect
	dwFlags   uint32
}

func getDpiForMonitor(hmonitor syscall.Handle) int {
	var dpiX, dpiY uintptr
	_GetDpiForMonitor.Call(uintptr(hmonitor), uintptr(_MDT_EFFECTIVE_DPI), uintptr(unsafe.Pointer(&dpiX)), uintptr(unsafe.Pointer(&dpiY)))
	if dpiX == 0 {
		return 96
	}
	return int(dpiX)
}

func getMonitorInfo(hmonitor syscall.Handle) (monitorInfoEx, bool) {
	var info monitorInfoEx
	info.cbSize = uint32(unsafe.Sizeof(info))
	r, _, _ := _GetMonitorInfoW.Call(uintptr(hmonitor), uintptr(unsafe.Pointer(&info)))
	return info, r != 0
}

func monitorFromPrimaryPoint() syscall.Handle {
	r, _, _ := _MonitorFromPoint.Call(0, 0, uintptr(_MONITOR_DEFAULTTOPRIMARY))
	return syscall.Handle(r)
}

func toMonitor(id string, hmonitor syscall.Handle, info monitorInfoEx) Monitor {
	dpi := getDpiForMonitor(hmonitor)
	return Monitor{
		ID:          id,
		PhysX:       float64(info.rcWork.left),
		PhysY:       float64(info.rcWork.top),
		PhysW:       float64(info.rcWork.right - info.rcWork.left),
		PhysH:       float64(info.rcWork.bottom - info.rcWork.top),
		ScaleFactor: float64(dpi) / 96,
	}
}

type winMonitorProvider struct {
	monitors []Monitor
	primary  Monitor
}

// enumDisplayMonitorsCallback is the EnumDisplayMonitors MONITORENUMPROC
// trampoline, forwarding each HMONITOR to the Go closure referenced by the
// userdata pointer below.
func enumDisplayMonitorsCallback(hmonitor syscall.Handle, hdc syscall.Handle, lprcMonitor uintptr, dwData uintptr) uintptr {
	fn := *(*func(syscall.Handle))(unsafe.Pointer(dwData))
	fn(hmonitor)
	return 1
}

// NewPlatformMonitorProvider enumerates physical monitors via
// EnumDisplayMonitors, reading each one's work area and effective DPI. It
// falls back to a single virtual monitor if enumeration yields nothing
// (e.g. under a headless test runner).
func NewPlatformMonitorProvider() MonitorProvider {
	var monitors []Monitor
	i := 0
	collect := func(hmonitor syscall.Handle) {
		info, ok := getMonitorInfo(hmonitor)
		if !ok {
			return
		}
		i++
		m := toMonitor(monitorID(i), hmonitor, info)
		monitors = append(monitors, m)
	}

	cb := syscall.NewCallback(enumDisplayMonitorsCallback)
	_EnumDisplayMonitors.Call(0, 0, cb, uintptr(unsafe.Pointer(&collect)))

	if len(monitors) == 0 {
		return newFallbackMonitorProvider()
	}

	primary := monitors[0]
	if hmon := monitorFromPrimaryPoint(); hmon != 0 {
		if info, ok := getMonitorInfo(hmon); ok && info.dwFlags&_MONITORINFOF_PRIMARY != 0 {
			primary = toMonitor("primary", hmon, info)
		}
	}
	return &winMonitorProvider{monitors: monitors, primary: primary}
}

func monitorID(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	return "monitor"
}

func (p *winMonitorProvider) Monitors() []Monitor { return p.monitors }
func (p *winMonitorProvider) Primary() Monitor    { return p.primary }
