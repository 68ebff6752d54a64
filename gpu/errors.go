// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned by Renderer.RenderFrame when the resources
	// have not been created.
	ErrNotReady = errors.New("gpu: resources not created")
	// ErrDeviceLost is wrapped by errors from devices that were removed
	// or reset. Recover by discarding and re-creating all resources.
	ErrDeviceLost = errors.New("gpu: device lost")
)

// CreationError reports the step of ResourceManager.EnsureCreated that
// failed.
type CreationError struct {
	Step string
	Err  error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("gpu: %s: %v", e.Step, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// PresentError is returned by Renderer.RenderFrame when the swap chain
// fails to present.
type PresentError struct {
	Err error
}

func (e *PresentError) Error() string {
	return fmt.Sprintf("gpu: present: %v", e.Err)
}

func (e *PresentError) Unwrap() error {
	return e.Err
}
