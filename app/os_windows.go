// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"errors"
	"image"
	"runtime"
	"sync"
	"unsafe"

	syscall "golang.org/x/sys/windows"

	"helloengine.org/app/internal/windows"
	"helloengine.org/gpu"
	"helloengine.org/io/system"
)

type window struct {
	w    *Window
	hwnd syscall.Handle
	// paintErr is the first paint failure. It destroys the window.
	paintErr error
}

// winMap maps win32 HWNDs to *windows.
var winMap sync.Map

var resources struct {
	once sync.Once
	// handle is the module handle from GetModuleHandle.
	handle syscall.Handle
	// class is the window class from RegisterClassEx.
	class uint16
}

// NewWindow returns a window that opens when Run is called.
func NewWindow(backend gpu.Backend, shaders gpu.ShaderProvider, options ...Option) (*Window, error) {
	w, err := newWindow(backend, shaders, options)
	if err != nil {
		return nil, err
	}
	w.driver = &window{w: w}
	return w, nil
}

// initResources initializes the resources global.
func initResources() error {
	hInst, err := windows.GetModuleHandle()
	if err != nil {
		return err
	}
	resources.handle = hInst
	c, err := windows.LoadCursor(windows.IDC_ARROW)
	if err != nil {
		return err
	}
	wcls := windows.WndClassEx{
		CbSize:        uint32(unsafe.Sizeof(windows.WndClassEx{})),
		Style:         windows.CS_HREDRAW | windows.CS_VREDRAW,
		LpfnWndProc:   syscall.NewCallback(windowProc),
		HInstance:     hInst,
		HCursor:       c,
		HbrBackground: windows.COLOR_WINDOW,
		LpszClassName: syscall.StringToUTF16Ptr("HelloEngineWindow"),
	}
	cls, err := windows.RegisterClassEx(&wcls)
	if err != nil {
		return err
	}
	resources.class = cls
	return nil
}

func (w *window) create() error {
	var resErr error
	resources.once.Do(func() {
		resErr = initResources()
	})
	if resErr != nil {
		return resErr
	}
	cfg := w.w.res.Config()
	hwnd, err := windows.CreateWindowEx(0,
		resources.class,
		w.w.title,
		windows.WS_OVERLAPPEDWINDOW,
		100, 100,
		int32(cfg.Width), int32(cfg.Height),
		0,
		0,
		resources.handle,
		0)
	if err != nil {
		return err
	}
	w.hwnd = hwnd
	w.w.surface = gpu.Surface(hwnd)
	return nil
}

func windowProc(hwnd syscall.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	win, exists := winMap.Load(hwnd)
	if !exists {
		return windows.DefWindowProc(hwnd, msg, wParam, lParam)
	}

	w := win.(*window)

	switch msg {
	case windows.WM_CREATE:
		return 0
	case windows.WM_PAINT:
		// The update region is left invalid so that painting continues.
		if err := w.w.Event(system.PaintEvent{}); err != nil && w.paintErr == nil {
			w.paintErr = err
			windows.DestroyWindow(hwnd)
		}
		return 0
	case windows.WM_SIZE:
		w.w.Event(system.ResizeEvent{Size: image.Point{
			X: int(lParam & 0xffff),
			Y: int((lParam >> 16) & 0xffff),
		}})
		return 0
	case windows.WM_DISPLAYCHANGE:
		w.w.Event(system.DisplayChangeEvent{})
		return 0
	case windows.WM_DESTROY:
		w.w.Event(system.DestroyEvent{Err: w.paintErr})
		// The system destroys the HWND for us.
		w.hwnd = 0
		windows.PostQuitMessage(0)
		return 0
	}

	return windows.DefWindowProc(hwnd, msg, wParam, lParam)
}

func (w *window) Invalidate() {
	if w.hwnd != 0 {
		windows.InvalidateRect(w.hwnd, false)
	}
}

func (w *window) loop() error {
	// GetMessage can filter on a window HWND, but then thread-specific
	// messages such as WM_QUIT are ignored. Instead lock the thread so
	// window messages arrive through unfiltered GetMessage calls.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := w.create(); err != nil {
		return err
	}
	hwnd := w.hwnd
	winMap.Store(hwnd, w)
	defer winMap.Delete(hwnd)
	windows.ShowWindow(hwnd, windows.SW_SHOWDEFAULT)
	windows.UpdateWindow(hwnd)

	msg := new(windows.Msg)
loop:
	for {
		switch ret := windows.GetMessage(msg, 0, 0, 0); ret {
		case -1:
			return errors.New("GetMessage failed")
		case 0:
			// WM_QUIT received.
			break loop
		}
		windows.TranslateMessage(msg)
		windows.DispatchMessage(msg)
	}
	return nil
}
