package material

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// PhongUniformSize is the allocated size of a Phong material uniform buffer and the
// minimum binding size of its layout entry.
const PhongUniformSize = 64

// GPUPhongMaterialSource is the canonical WGSL definition of the PhongMaterial struct.
// Matches GPUPhongMaterial layout exactly (48 bytes, vec3 members aligned to 16).
//
//go:embed assets/phong_material.wgsl
var GPUPhongMaterialSource string

// GPUPhongMaterial is the GPU-aligned uniform for the Phong fragment shader.
// Matches the WGSL PhongMaterial struct layout exactly (see GPUPhongMaterialSource).
// Size: 48 bytes.
type GPUPhongMaterial struct {
	Ka        [3]float32 // offset  0: ambient reflectance (12 bytes + 4 pad)
	Kd        [3]float32 // offset 16: diffuse reflectance (12 bytes + 4 pad)
	Ks        [3]float32 // offset 32: specular reflectance (12 bytes)
	Shininess float32    // offset 44: specular exponent
}

// Size returns the size of the marshaled struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (48)
func (g *GPUPhongMaterial) Size() int {
	return 48
}

// Marshal serializes the GPUPhongMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUPhongMaterial) Marshal() []byte {
	buf := make([]byte, 48)
	putVec3(buf[0:12], g.Ka)
	putVec3(buf[16:28], g.Kd)
	putVec3(buf[32:44], g.Ks)
	binary.LittleEndian.PutUint32(buf[44:48], math.Float32bits(g.Shininess))
	return buf
}

func putVec3(buf []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
}
