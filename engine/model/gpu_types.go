package model

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
)

// VertexStride is the number of float32 values per vertex: position(4) normal(4) uv(4).
const VertexStride = 12

// GPUVertexSize is the byte size of one vertex.
const GPUVertexSize = VertexStride * 4

// GPUTransformSize is the byte size of a GPUTransform.
const GPUTransformSize = 2 * common.Matrix4Size

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches GPUVertex layout exactly (48 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 48 bytes.
type GPUVertex struct {
	Position [4]float32 // offset  0: homogeneous position, w is 1 (16 bytes)
	Normal   [4]float32 // offset 16: normal, w is 0 (16 bytes)
	TexCoord [4]float32 // offset 32: uv in xy, zw unused (16 bytes)
}

// Floats returns the vertex as VertexStride float32 values.
func (g *GPUVertex) Floats() [VertexStride]float32 {
	var out [VertexStride]float32
	copy(out[0:4], g.Position[:])
	copy(out[4:8], g.Normal[:])
	copy(out[8:12], g.TexCoord[:])
	return out
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	f := g.Floats()
	return MarshalFloats(f[:])
}

// VertexBufferLayout returns the pipeline vertex layout matching GPUVertex:
// three Float32x4 attributes at offsets 0, 16 and 32 with a 48 byte stride.
//
// Returns:
//   - backend.VertexBufferLayout: the layout for vertex buffer slot 0
func VertexBufferLayout() backend.VertexBufferLayout {
	return backend.VertexBufferLayout{
		ArrayStride: GPUVertexSize,
		Attributes: []backend.VertexAttribute{
			{Format: backend.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
			{Format: backend.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
			{Format: backend.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 2},
		},
	}
}

// GPUTransformSource is the canonical WGSL definition of the Transform struct.
// Matches GPUTransform layout exactly (128 bytes).
//
//go:embed assets/transform.wgsl
var GPUTransformSource string

// GPUTransform is the per-node uniform: the accumulated matrix and its inverse.
// Size: 128 bytes.
type GPUTransform struct {
	Matrix  common.Matrix4 // offset  0: accumulated transform (64 bytes)
	Inverse common.Matrix4 // offset 64: inverse of Matrix (64 bytes)
}

// NewGPUTransform pairs m with its inverse. It panics if m is singular.
//
// Parameters:
//   - m: the accumulated transform
//
// Returns:
//   - GPUTransform: the uniform value
func NewGPUTransform(m common.Matrix4) GPUTransform {
	return GPUTransform{Matrix: m, Inverse: m.MustInverse()}
}

// Marshal serializes the GPUTransform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload.
func (g *GPUTransform) Marshal() []byte {
	buf := make([]byte, GPUTransformSize)
	g.Matrix.PutBytes(buf[0:64])
	g.Inverse.PutBytes(buf[64:128])
	return buf
}

// MarshalFloats serializes float32 values little-endian.
func MarshalFloats(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// MarshalIndices serializes uint32 indices little-endian.
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, v := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}
