// SPDX-License-Identifier: Unlicense OR MIT

package d3dcompile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderCompilesOnce(t *testing.T) {
	var calls []Entry
	compile := func(src []byte, entryPoint, target string) ([]byte, error) {
		calls = append(calls, Entry{EntryPoint: entryPoint, Target: target})
		return []byte(entryPoint + "/" + target), nil
	}
	p := newProvider([]byte("hlsl"), map[string]Entry{
		"copy.vso": {EntryPoint: "VSMain", Target: "vs_4_0"},
		"copy.pso": {EntryPoint: "PSMain", Target: "ps_4_0"},
	}, compile)

	vs, err := p.Shader("copy.vso")
	require.NoError(t, err)
	assert.Equal(t, "copy.vso", vs.Name)
	assert.Equal(t, "VSMain/vs_4_0", vs.DXBC)

	ps, err := p.Shader("copy.pso")
	require.NoError(t, err)
	assert.Equal(t, "PSMain/ps_4_0", ps.DXBC)

	_, err = p.Shader("copy.vso")
	require.NoError(t, err)
	assert.Len(t, calls, 2)
}

func TestProviderErrors(t *testing.T) {
	failure := errors.New("syntax error")
	p := newProvider(nil, map[string]Entry{"a": {EntryPoint: "VSMain", Target: "vs_4_0"}},
		func([]byte, string, string) ([]byte, error) { return nil, failure })

	_, err := p.Shader("a")
	assert.ErrorIs(t, err, failure)
	_, err = p.Shader("b")
	assert.Error(t, err)

	p = newProvider(nil, map[string]Entry{"a": {}}, nil)
	_, err = p.Shader("a")
	assert.ErrorIs(t, err, ErrUnsupported)
}
