// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows
// +build !windows

package main

import (
	"helloengine.org/gpu"
)

// nativeBackend is unused: app.NewWindow fails before creating a device.
func nativeBackend(debug bool) gpu.Backend {
	return nil
}
