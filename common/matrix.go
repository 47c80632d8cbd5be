package common

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Matrix4Size is the size in bytes of one Matrix4 in a GPU buffer.
const Matrix4Size = 64

// Matrix4 is a 4x4 float32 matrix stored in column-major order, which is also
// the byte layout WGSL expects for mat4x4<f32>.
type Matrix4 [16]float32

// IdentityMatrix returns the 4x4 identity matrix.
//
// Returns:
//   - Matrix4: the identity matrix
func IdentityMatrix() Matrix4 {
	var m Matrix4
	Identity(m[:])
	return m
}

// LookAtMatrix builds a world-to-view matrix for a camera at eye looking toward center.
//
// Parameters:
//   - eye: camera position in world space
//   - center: point the camera looks at
//   - up: up direction
//
// Returns:
//   - Matrix4: the view matrix
func LookAtMatrix(eye, center, up Vec3) Matrix4 {
	var m Matrix4
	LookAt(m[:], eye[0], eye[1], eye[2], center[0], center[1], center[2], up[0], up[1], up[2])
	return m
}

// TranslationMatrix returns a matrix translating by v.
func TranslationMatrix(v Vec3) Matrix4 {
	m := IdentityMatrix()
	m[12], m[13], m[14] = v[0], v[1], v[2]
	return m
}

// RotationMatrix returns a matrix rotating angle radians around axis.
func RotationMatrix(axis Vec3, angle float32) Matrix4 {
	var m Matrix4
	Rotate4(m[:], axis, angle)
	return m
}

// Mul returns the matrix product m * b.
//
// Parameters:
//   - b: right-hand operand
//
// Returns:
//   - Matrix4: m * b
func (m Matrix4) Mul(b Matrix4) Matrix4 {
	var out Matrix4
	Mul4(out[:], m[:], b[:])
	return out
}

// MulVec4 returns m * v.
func (m Matrix4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for row := 0; row < 4; row++ {
		out[row] = m[row]*v[0] + m[4+row]*v[1] + m[8+row]*v[2] + m[12+row]*v[3]
	}
	return out
}

// Inverse returns the inverse of m.
//
// Returns:
//   - Matrix4: the inverse, or the zero matrix if m is singular
//   - bool: false if m is singular
func (m Matrix4) Inverse() (Matrix4, bool) {
	var out Matrix4
	if !Invert4(out[:], m[:]) {
		return Matrix4{}, false
	}
	return out, true
}

// MustInverse returns the inverse of m and panics if m is singular.
// Transforms reaching the GPU must always be invertible.
func (m Matrix4) MustInverse() Matrix4 {
	inv, ok := m.Inverse()
	if !ok {
		panic(fmt.Sprintf("common: singular matrix %v", [16]float32(m)))
	}
	return inv
}

// Bytes serializes m into a 64 byte little-endian buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized matrix
func (m Matrix4) Bytes() []byte {
	buf := make([]byte, Matrix4Size)
	m.PutBytes(buf)
	return buf
}

// PutBytes writes m into the first 64 bytes of buf.
func (m Matrix4) PutBytes(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(m[i]))
	}
}

// ApproxEqual reports whether every element of m is within eps of b.
func (m Matrix4) ApproxEqual(b Matrix4, eps float32) bool {
	for i := range m {
		d := m[i] - b[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}
