// SPDX-License-Identifier: Unlicense OR MIT

/*
Package app connects a window to the graphics resources that draw it.

A Window translates the events of its surface into calls on a
gpu.ResourceManager and gpu.Renderer: a paint creates the resources if
needed and renders a frame, a resize releases every resource so that the
next paint recreates them for the new size, and a destroy releases them
for good.

	w, err := app.NewWindow(backend, shaders, app.Title("Hello, Engine!"))
	if err != nil {
		...
	}
	if err := w.Run(); err != nil {
		...
	}

Native windows exist only on Windows. NewHeadless creates a window
without an operating system counterpart, for offscreen rendering and
tests.
*/
package app
