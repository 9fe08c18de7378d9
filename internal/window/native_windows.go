//go:build windows

package window

import (
	"context"
	"fmt"
	"math"
	"sync"
	"unsafe"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"golang.org/x/sys/windows"

	"fist-teleport/internal/placement"
)

// Windows constants for extended window styles and placement
const (
	_GWL_EXSTYLE    int32 = -20
	_WS_EX_LAYERED  int32 = 0x00080000
	_LWA_ALPHA            = 0x00000002
	_SWP_NOSIZE           = 0x0001
	_SWP_NOMOVE           = 0x0002
	_SWP_NOZORDER         = 0x0004
	_SWP_NOACTIVATE       = 0x0010

	_MONITORINFOF_PRIMARY = 0x00000001
)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procFindWindowW                = user32.NewProc("FindWindowW")
	procGetWindowLongW             = user32.NewProc("GetWindowLongW")
	procSetWindowLongW             = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	procGetWindowRect              = user32.NewProc("GetWindowRect")
	procSetWindowPos               = user32.NewProc("SetWindowPos")
	procEnumDisplayMonitors        = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW            = user32.NewProc("GetMonitorInfoW")
)

type monitorInfo struct {
	Size    uint32
	Monitor windows.Rect
	Work    windows.Rect
	Flags   uint32
}

// nativeWindow drives the overlay through Win32, falling back to the Wails
// runtime for calls that have no handle-level equivalent.
type nativeWindow struct {
	ctx   context.Context
	title string

	mu   sync.Mutex
	hwnd uintptr
}

// NewNative returns the Win32 backend for the window with the given title
func NewNative(ctx context.Context, title string) Native {
	return &nativeWindow{ctx: ctx, title: title}
}

// handle finds and caches the HWND of the overlay window by its title
func (n *nativeWindow) handle() (uintptr, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.hwnd != 0 {
		return n.hwnd, nil
	}

	title, err := windows.UTF16PtrFromString(n.title)
	if err != nil {
		return 0, err
	}
	hwnd, _, _ := procFindWindowW.Call(0, uintptr(unsafe.Pointer(title)))
	if hwnd == 0 {
		return 0, ErrWindowNotFound
	}
	n.hwnd = hwnd
	return hwnd, nil
}

func (n *nativeWindow) rect() (windows.Rect, error) {
	var r windows.Rect
	hwnd, err := n.handle()
	if err != nil {
		return r, err
	}
	ret, _, callErr := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return r, fmt.Errorf("GetWindowRect: %w", callErr)
	}
	return r, nil
}

func (n *nativeWindow) Position() (int, int, error) {
	r, err := n.rect()
	if err != nil {
		return 0, 0, err
	}
	return int(r.Left), int(r.Top), nil
}

func (n *nativeWindow) Size() (int, int, error) {
	r, err := n.rect()
	if err != nil {
		return 0, 0, err
	}
	return int(r.Right - r.Left), int(r.Bottom - r.Top), nil
}

func (n *nativeWindow) setWindowPos(x, y, w, h int, flags uintptr) error {
	hwnd, err := n.handle()
	if err != nil {
		return err
	}
	ret, _, callErr := procSetWindowPos.Call(
		hwnd, 0,
		uintptr(int32(x)), uintptr(int32(y)),
		uintptr(int32(w)), uintptr(int32(h)),
		flags|_SWP_NOZORDER|_SWP_NOACTIVATE,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos: %w", callErr)
	}
	return nil
}

func (n *nativeWindow) SetPosition(x, y int) error {
	return n.setWindowPos(x, y, 0, 0, _SWP_NOSIZE)
}

func (n *nativeWindow) SetSize(width, height int) error {
	return n.setWindowPos(0, 0, width, height, _SWP_NOMOVE)
}

func (n *nativeWindow) SetMinSize(width, height int) error {
	runtime.WindowSetMinSize(n.ctx, width, height)
	return nil
}

// enumMonitors collects into enumResult; the callback is created once because
// Windows callbacks are never released.
var (
	enumMu       sync.Mutex
	enumResult   []placement.Monitor
	enumCallback = windows.NewCallback(func(hMonitor, hdc, rect, data uintptr) uintptr {
		info := monitorInfo{}
		info.Size = uint32(unsafe.Sizeof(info))
		ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&info)))
		if ret != 0 {
			enumResult = append(enumResult, placement.Monitor{
				X:       int(info.Monitor.Left),
				Y:       int(info.Monitor.Top),
				Width:   int(info.Monitor.Right - info.Monitor.Left),
				Height:  int(info.Monitor.Bottom - info.Monitor.Top),
				Primary: info.Flags&_MONITORINFOF_PRIMARY != 0,
			})
		}
		return 1
	})
)

func (n *nativeWindow) Monitors() ([]placement.Monitor, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumResult = nil
	ret, _, callErr := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", callErr)
	}
	monitors := enumResult
	enumResult = nil
	return monitors, nil
}

func (n *nativeWindow) SetOpacity(opacity float64) (bool, error) {
	hwnd, err := n.handle()
	if err != nil {
		return false, err
	}

	idx := _GWL_EXSTYLE
	exStyle, _, _ := procGetWindowLongW.Call(hwnd, uintptr(idx))
	cur := int32(exStyle)

	if IsOpaque(opacity) {
		if cur&_WS_EX_LAYERED != 0 {
			procSetWindowLongW.Call(hwnd, uintptr(idx), uintptr(uint32(cur&^_WS_EX_LAYERED)))
		}
		r, g, b, a := OpaqueBackground()
		runtime.WindowSetBackgroundColour(n.ctx, r, g, b, a)
		return true, nil
	}

	if cur&_WS_EX_LAYERED == 0 {
		procSetWindowLongW.Call(hwnd, uintptr(idx), uintptr(uint32(cur|_WS_EX_LAYERED)))
	}
	runtime.WindowSetBackgroundColour(n.ctx, 0, 0, 0, 0)

	alpha := byte(math.Round(opacity * 255))
	ret, _, callErr := procSetLayeredWindowAttributes.Call(hwnd, 0, uintptr(alpha), _LWA_ALPHA)
	if ret == 0 {
		return false, fmt.Errorf("SetLayeredWindowAttributes: %w", callErr)
	}
	return true, nil
}
