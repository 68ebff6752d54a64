// SPDX-License-Identifier: Unlicense OR MIT

// Package system contains the window events that drive the graphics
// resources.
package system

import (
	"image"
)

// A PaintEvent asks for the window contents to be drawn.
type PaintEvent struct{}

// A ResizeEvent is sent when the client area of a window changes size.
type ResizeEvent struct {
	// Size is the new client area size in pixels.
	Size image.Point
}

// DestroyEvent is the last event sent to a window.
type DestroyEvent struct {
	// Err is nil for normal window closures. If a
	// window is prematurely closed, Err is the cause.
	Err error
}

// DisplayChangeEvent is sent when the display resolution or color depth
// changes.
type DisplayChangeEvent struct{}

func (PaintEvent) ImplementsEvent()         {}
func (ResizeEvent) ImplementsEvent()        {}
func (DestroyEvent) ImplementsEvent()       {}
func (DisplayChangeEvent) ImplementsEvent() {}
