// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"helloengine.org/gpu"
	"helloengine.org/io/event"
	"helloengine.org/io/system"
)

// ErrUnsupported is returned by NewWindow on platforms without native
// windows.
var ErrUnsupported = errors.New("app: native windows are not supported on this platform")

// Option configures a window.
type Option func(*config)

type config struct {
	Title string
	GPU   gpu.Config
}

// Window drives the graphics resources of a surface from its events.
type Window struct {
	res      *gpu.ResourceManager
	renderer *gpu.Renderer
	driver   driver
	surface  gpu.Surface
	title    string

	done      chan struct{}
	destroyed bool
	err       error
}

// driver is the platform side of a window.
type driver interface {
	// Invalidate requests a future PaintEvent.
	Invalidate()
	// loop delivers events to the window until it is destroyed.
	loop() error
}

// headlessSurfaces hands out synthetic surface handles.
var headlessSurfaces atomic.Uintptr

func newWindow(backend gpu.Backend, shaders gpu.ShaderProvider, options []Option) (*Window, error) {
	cnf := config{Title: "Hello, Engine!", GPU: gpu.DefaultConfig()}
	for _, o := range options {
		o(&cnf)
	}
	res, err := gpu.NewResourceManager(backend, shaders, cnf.GPU)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return &Window{
		res:      res,
		renderer: gpu.NewRenderer(res),
		title:    cnf.Title,
		done:     make(chan struct{}),
	}, nil
}

// NewHeadless returns a window with a synthetic surface and no operating
// system window. Invalidations queue PaintEvents that Run delivers.
func NewHeadless(backend gpu.Backend, shaders gpu.ShaderProvider, options ...Option) (*Window, error) {
	w, err := newWindow(backend, shaders, options)
	if err != nil {
		return nil, err
	}
	w.surface = gpu.Surface(headlessSurfaces.Add(1))
	w.driver = &headlessDriver{w: w}
	return w, nil
}

// Event processes a window event. Errors from creating resources or
// rendering a frame are returned; the window stays usable and the next
// PaintEvent retries. Events of unknown types are ignored.
func (w *Window) Event(e event.Event) error {
	switch e := e.(type) {
	case system.PaintEvent:
		if err := w.res.EnsureCreated(w.surface); err != nil {
			return err
		}
		return w.renderer.RenderFrame()
	case system.ResizeEvent:
		if w.res.Ready() {
			gpu.Logger().Debug("window resized; releasing graphics resources", "width", e.Size.X, "height", e.Size.Y)
			w.res.DiscardAll()
		}
	case system.DestroyEvent:
		w.res.DiscardAll()
		w.destroy(e.Err)
	case system.DisplayChangeEvent:
		w.driver.Invalidate()
	}
	return nil
}

func (w *Window) destroy(err error) {
	if w.destroyed {
		return
	}
	w.destroyed = true
	if w.err == nil {
		w.err = err
	}
	close(w.done)
}

// Run delivers events to the window until it is destroyed or no more
// events are pending. It returns the first paint error, which also
// destroys the window.
func (w *Window) Run() error {
	if err := w.driver.loop(); err != nil {
		return err
	}
	return w.err
}

// Invalidate requests a PaintEvent.
func (w *Window) Invalidate() {
	w.driver.Invalidate()
}

// Done is closed when the window is destroyed.
func (w *Window) Done() <-chan struct{} {
	return w.done
}

// Surface returns the native handle the window renders to. It is zero
// until a native window has been created by Run.
func (w *Window) Surface() gpu.Surface {
	return w.surface
}

// Resources returns the graphics resources of the window.
func (w *Window) Resources() *gpu.ResourceManager {
	return w.res
}

// Title sets the title of the window.
func Title(t string) Option {
	return func(cnf *config) {
		cnf.Title = t
	}
}

// Size sets the size of the window client area and of the swap chain.
func Size(w, h int) Option {
	if w <= 0 {
		panic("width must be larger than 0")
	}
	if h <= 0 {
		panic("height must be larger than 0")
	}
	return func(cnf *config) {
		cnf.GPU.Width = w
		cnf.GPU.Height = h
	}
}

// ClearColor sets the background color of every frame.
func ClearColor(c gputypes.Color) Option {
	return func(cnf *config) {
		cnf.GPU.ClearColor = c
	}
}

// FeatureLevels sets the feature levels requested from the device,
// most preferred first.
func FeatureLevels(levels ...gpu.FeatureLevel) Option {
	return func(cnf *config) {
		cnf.GPU.FeatureLevels = append([]gpu.FeatureLevel(nil), levels...)
	}
}

// Config replaces the graphics configuration. Options after it adjust
// the replacement.
func Config(c gpu.Config) Option {
	return func(cnf *config) {
		cnf.GPU = c
	}
}

type headlessDriver struct {
	w       *Window
	pending int
	// invalidations counts every Invalidate call.
	invalidations int
}

func (d *headlessDriver) Invalidate() {
	d.invalidations++
	d.pending++
}

func (d *headlessDriver) loop() error {
	for d.pending > 0 && !d.w.destroyed {
		d.pending--
		if err := d.w.Event(system.PaintEvent{}); err != nil {
			d.w.Event(system.DestroyEvent{Err: err})
			return err
		}
	}
	return nil
}
