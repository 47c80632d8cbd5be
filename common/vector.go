package common

import "github.com/chewxy/math32"

// Vec3 is a three component float32 vector.
type Vec3 [3]float32

// Vec4 is a four component float32 vector, usually a homogeneous point or direction.
type Vec4 [4]float32

// Vec3Sub returns a - b.
func Vec3Sub(a, b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Vec3Dot returns the dot product of a and b.
func Vec3Dot(a, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Vec3Cross returns the right-handed cross product a x b.
func Vec3Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Vec3Length returns the euclidean length of v.
func Vec3Length(v Vec3) float32 {
	return math32.Sqrt(Vec3Dot(v, v))
}

// Vec3Normalize returns v scaled to unit length. A zero vector is returned unchanged.
func Vec3Normalize(v Vec3) Vec3 {
	l := Vec3Length(v)
	if l == 0 {
		return v
	}
	return Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}
