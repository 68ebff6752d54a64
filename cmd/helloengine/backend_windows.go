// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"helloengine.org/gpu"
	"helloengine.org/internal/d3d11"
)

func nativeBackend(debug bool) gpu.Backend {
	return &d3d11.Backend{Debug: debug}
}
