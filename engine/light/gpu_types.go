package light

import (
	_ "embed"
	"encoding/binary"
	"math"
)

const (
	// LightDataBinding is the binding of the GPUPointLight uniform in the light bind group.
	LightDataBinding uint32 = 0
	// ViewInfoBinding is the binding of the GPUViewInfo uniform in the light bind group.
	ViewInfoBinding uint32 = 1

	// GPUPointLightSize is the byte size of a GPUPointLight.
	GPUPointLightSize = 32
	// GPUViewInfoSize is the byte size of a GPUViewInfo.
	GPUViewInfoSize = 16
)

// GPUPointLightSource is the canonical WGSL definition of the PointLight struct.
// Matches GPUPointLight layout exactly (32 bytes).
//
//go:embed assets/point_light.wgsl
var GPUPointLightSource string

// GPUPointLight is the GPU-aligned representation of a point light.
// Size: 32 bytes.
type GPUPointLight struct {
	Position [4]float32 // offset  0: world-space position, w is 1 (16 bytes)
	Color    [3]float32 // offset 16: RGB color (12 bytes)
	_pad     float32    // offset 28: padding to 32 bytes
}

// Size returns the size of the GPUPointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUPointLight) Size() int {
	return GPUPointLightSize
}

// Marshal serializes the GPUPointLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUPointLight) Marshal() []byte {
	buf := make([]byte, GPUPointLightSize)
	for i, v := range g.Position {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.Color {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(v))
	}
	return buf
}

// GPUViewInfoSource is the canonical WGSL definition of the ViewInfo struct.
// Matches GPUViewInfo layout exactly (16 bytes).
//
//go:embed assets/view_info.wgsl
var GPUViewInfoSource string

// GPUViewInfo carries the camera's world-space eye position.
// Size: 16 bytes.
type GPUViewInfo struct {
	Position [4]float32 // offset 0: eye position, w is 1 (16 bytes)
}

// Size returns the size of the GPUViewInfo struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (16)
func (g *GPUViewInfo) Size() int {
	return GPUViewInfoSize
}

// Marshal serializes the GPUViewInfo struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (g *GPUViewInfo) Marshal() []byte {
	buf := make([]byte, GPUViewInfoSize)
	for i, v := range g.Position {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
