package wgpubackend

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurfaceModesPicksFirstReported(t *testing.T) {
	format, alpha, err := surfaceModes(
		[]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatRGBA8Unorm},
		[]wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque, wgpu.CompositeAlphaModeAuto},
	)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, format)
	assert.Equal(t, wgpu.CompositeAlphaModeOpaque, alpha)
}

func TestSurfaceModesRejectsEmptyCapabilities(t *testing.T) {
	_, _, err := surfaceModes(nil, []wgpu.CompositeAlphaMode{wgpu.CompositeAlphaModeOpaque})
	assert.ErrorContains(t, err, "no formats")

	_, _, err = surfaceModes([]wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm}, nil)
	assert.ErrorContains(t, err, "no alpha modes")
}
