// SPDX-License-Identifier: Unlicense OR MIT

package gpu_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helloengine.org/gpu"
)

func TestFeatureLevelString(t *testing.T) {
	tests := map[gpu.FeatureLevel]string{
		gpu.FeatureLevel9_1:  "9_1",
		gpu.FeatureLevel9_3:  "9_3",
		gpu.FeatureLevel10_0: "10_0",
		gpu.FeatureLevel11_1: "11_1",
		0:                    "none",
	}
	for l, want := range tests {
		assert.Equal(t, want, l.String())
	}
}

func TestParseFeatureLevel(t *testing.T) {
	for _, l := range gpu.DefaultFeatureLevels {
		got, err := gpu.ParseFeatureLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}
	got, err := gpu.ParseFeatureLevel("D3D_FEATURE_LEVEL_10_1")
	require.NoError(t, err)
	assert.Equal(t, gpu.FeatureLevel10_1, got)

	_, err = gpu.ParseFeatureLevel("12_0")
	assert.Error(t, err)
}

func TestDefaultFeatureLevelsDescending(t *testing.T) {
	levels := gpu.DefaultFeatureLevels
	for i := 1; i < len(levels); i++ {
		assert.Greater(t, levels[i-1], levels[i])
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, gpu.DefaultConfig().Validate())

	bad := []func(c *gpu.Config){
		func(c *gpu.Config) { c.Width = 0 },
		func(c *gpu.Config) { c.Height = -1 },
		func(c *gpu.Config) { c.FeatureLevels = nil },
		func(c *gpu.Config) { c.VertexShader = "" },
		func(c *gpu.Config) { c.SampleCount = 0 },
	}
	for i, mutate := range bad {
		c := gpu.DefaultConfig()
		mutate(&c)
		assert.Error(t, c.Validate(), "case %d", i)
	}
}

func TestDefaultConfigCopiesLevels(t *testing.T) {
	c := gpu.DefaultConfig()
	c.FeatureLevels[0] = gpu.FeatureLevel9_1
	assert.Equal(t, gpu.FeatureLevel11_1, gpu.DefaultFeatureLevels[0])
}

func TestDirShaders(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.vso"), []byte{0x44, 0x58, 0x42, 0x43}, 0o644))

	src, err := gpu.DirShaders(dir).Shader("copy.vso")
	require.NoError(t, err)
	assert.Equal(t, "copy.vso", src.Name)
	assert.Equal(t, "DXBC", src.DXBC)

	_, err = gpu.DirShaders(dir).Shader("copy.pso")
	assert.Error(t, err)
}

func TestEncodeVertices(t *testing.T) {
	buf := make([]byte, 3*gpu.VertexSize)
	n := gpu.EncodeVertices(buf, gpu.Triangle[:])
	assert.Equal(t, len(buf), n)
	for i := range gpu.Triangle {
		assert.Equal(t, gpu.Triangle[i], gpu.DecodeVertex(buf, i))
	}
}
