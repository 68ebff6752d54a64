// SPDX-License-Identifier: Unlicense OR MIT

// Package d3d11 implements gpu.Backend with Direct3D 11 and DXGI.
package d3d11

import (
	"fmt"

	"helloengine.org/gpu"
)

// ErrorCode is a failed HRESULT from the method Name.
type ErrorCode struct {
	Name string
	Code uint32
}

const (
	E_INVALIDARG = 0x80070057

	DXGI_ERROR_DEVICE_HUNG    = 0x887A0006
	DXGI_ERROR_DEVICE_REMOVED = 0x887A0005
	DXGI_ERROR_DEVICE_RESET   = 0x887A0007
	D3DDDIERR_DEVICEREMOVED   = 0x88760870
	DXGI_STATUS_OCCLUDED      = 0x087A0001
)

func (e ErrorCode) Error() string {
	return fmt.Sprintf("%s: %#x", e.Name, e.Code)
}

// Unwrap returns gpu.ErrDeviceLost for codes that report a removed,
// reset or hung device.
func (e ErrorCode) Unwrap() error {
	switch e.Code {
	case DXGI_ERROR_DEVICE_REMOVED, DXGI_ERROR_DEVICE_RESET, DXGI_ERROR_DEVICE_HUNG, D3DDDIERR_DEVICEREMOVED:
		return gpu.ErrDeviceLost
	}
	return nil
}

// failed reports whether hr is an error HRESULT.
func failed(hr uintptr) bool {
	return int32(hr) < 0
}

// presentResult converts the HRESULT of IDXGISwapChain::Present.
// An occluded window is not an error.
func presentResult(hr uintptr) error {
	if !failed(hr) {
		return nil
	}
	return ErrorCode{Name: "IDXGISwapChain::Present", Code: uint32(hr)}
}

// createResult converts the HRESULT of D3D11CreateDeviceAndSwapChain.
// E_INVALIDARG means the runtime doesn't recognize a requested feature
// level; granted is the level the runtime wrote back, if any.
func createResult(hr uintptr, levels []gpu.FeatureLevel, granted gpu.FeatureLevel) error {
	switch {
	case !failed(hr):
		return nil
	case uint32(hr) == E_INVALIDARG:
		if granted == 0 {
			// Runtimes older than 11.1 reject 11_1 without reporting a level.
			granted = gpu.FeatureLevel11_0
		}
		return &gpu.FeatureLevelError{
			Requested: append([]gpu.FeatureLevel(nil), levels...),
			Supported: granted,
		}
	}
	return ErrorCode{Name: "D3D11CreateDeviceAndSwapChain", Code: uint32(hr)}
}
