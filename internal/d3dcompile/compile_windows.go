// SPDX-License-Identifier: Unlicense OR MIT

package d3dcompile

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	d3dcompiler_47 = windows.NewLazySystemDLL("d3dcompiler_47.dll")

	__D3DCompile = d3dcompiler_47.NewProc("D3DCompile")
)

type _IUnknownVTbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

type _ID3DBlob struct {
	vtbl *struct {
		_IUnknownVTbl
		GetBufferPointer uintptr
		GetBufferSize    uintptr
	}
}

func init() {
	compiler = D3DCompile
}

// D3DCompile compiles the HLSL in src for the entry point and target
// profile, such as "vs_4_0".
func D3DCompile(src []byte, entryPoint, target string) ([]byte, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("D3DCompile: %s: empty source", entryPoint)
	}
	var (
		code   *_ID3DBlob
		errors *_ID3DBlob
	)
	entryPoint0 := []byte(entryPoint + "\x00")
	target0 := []byte(target + "\x00")
	r, _, _ := __D3DCompile.Call(
		uintptr(unsafe.Pointer(&src[0])),
		uintptr(len(src)),
		0, // pSourceName
		0, // pDefines
		0, // pInclude
		uintptr(unsafe.Pointer(&entryPoint0[0])),
		uintptr(unsafe.Pointer(&target0[0])),
		0, // Flags1
		0, // Flags2
		uintptr(unsafe.Pointer(&code)),
		uintptr(unsafe.Pointer(&errors)),
	)
	var compileErr string
	if errors != nil {
		compileErr = string(errors.data())
		_IUnknownRelease(unsafe.Pointer(errors), errors.vtbl.Release)
	}
	if r != 0 {
		if code != nil {
			_IUnknownRelease(unsafe.Pointer(code), code.vtbl.Release)
		}
		return nil, fmt.Errorf("D3DCompile: %s: %#x: %s", entryPoint, r, compileErr)
	}
	bytecode := code.data()
	cp := make([]byte, len(bytecode))
	copy(cp, bytecode)
	_IUnknownRelease(unsafe.Pointer(code), code.vtbl.Release)
	return cp, nil
}

func (b *_ID3DBlob) GetBufferPointer() unsafe.Pointer {
	ptr, _, _ := syscall.SyscallN(
		b.vtbl.GetBufferPointer,
		uintptr(unsafe.Pointer(b)),
	)
	return unsafe.Pointer(ptr)
}

func (b *_ID3DBlob) GetBufferSize() uintptr {
	sz, _, _ := syscall.SyscallN(
		b.vtbl.GetBufferSize,
		uintptr(unsafe.Pointer(b)),
	)
	return sz
}

func (b *_ID3DBlob) data() []byte {
	return unsafe.Slice((*byte)(b.GetBufferPointer()), int(b.GetBufferSize()))
}

func _IUnknownRelease(obj unsafe.Pointer, releaseMethod uintptr) {
	syscall.SyscallN(
		releaseMethod,
		uintptr(obj),
	)
}
