package camera

import (
	"github.com/Carmen-Shannon/oxy-phong/common"
)

// PerspectiveCamera is a camera defined by its world-to-local (view) matrix and a symmetric
// frustum. The application owns it and mutates it only between frames.
type PerspectiveCamera struct {
	// WorldToLocal maps world space into camera space.
	WorldToLocal common.Matrix4

	Near   float32
	Far    float32
	Aspect float32
}

// NewPerspectiveCamera creates a camera at the origin looking down -Z with near 0.1, far 3
// and aspect 1.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - *PerspectiveCamera: the newly created camera
func NewPerspectiveCamera(options ...CameraBuilderOption) *PerspectiveCamera {
	c := &PerspectiveCamera{
		WorldToLocal: common.IdentityMatrix(),
		Near:         0.1,
		Far:          3.0,
		Aspect:       1.0,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Projection returns the perspective projection with a 90 degree vertical field of view.
func (c *PerspectiveCamera) Projection() common.Matrix4 {
	n, f := c.Near, c.Far
	return common.Matrix4{
		1, 0, 0, 0,
		0, 1 / c.Aspect, 0, 0,
		0, 0, -(f + n) / (f - n), -1,
		0, 0, -2 * f * n / (f - n), 0,
	}
}

// CombinedMatrix returns Projection * WorldToLocal, the matrix that seeds each frame's transform stack.
func (c *PerspectiveCamera) CombinedMatrix() common.Matrix4 {
	return c.Projection().Mul(c.WorldToLocal)
}

// EyePosition returns the camera position in world space, w = 1.
func (c *PerspectiveCamera) EyePosition() common.Vec4 {
	return c.WorldToLocal.MustInverse().MulVec4(common.Vec4{0, 0, 0, 1})
}
