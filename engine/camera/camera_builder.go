package camera

import "github.com/Carmen-Shannon/oxy-phong/common"

// CameraBuilderOption is a functional option for configuring a PerspectiveCamera.
type CameraBuilderOption func(*PerspectiveCamera)

// WithWorldToLocal sets the camera's view matrix directly.
//
// Parameters:
//   - m: the world-to-local matrix
//
// Returns:
//   - CameraBuilderOption: a function that sets the view matrix
func WithWorldToLocal(m common.Matrix4) CameraBuilderOption {
	return func(c *PerspectiveCamera) {
		c.WorldToLocal = m
	}
}

// WithLookAt sets the view matrix from an eye position, a target and an up vector.
//
// Parameters:
//   - eye: camera position
//   - center: point the camera looks at
//   - up: up direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the view matrix
func WithLookAt(eye, center, up common.Vec3) CameraBuilderOption {
	return func(c *PerspectiveCamera) {
		c.WorldToLocal = common.LookAtMatrix(eye, center, up)
	}
}

// WithNear sets the near clipping plane distance.
//
// Parameters:
//   - near: near plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the near plane
func WithNear(near float32) CameraBuilderOption {
	return func(c *PerspectiveCamera) {
		c.Near = near
	}
}

// WithFar sets the far clipping plane distance.
//
// Parameters:
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the far plane
func WithFar(far float32) CameraBuilderOption {
	return func(c *PerspectiveCamera) {
		c.Far = far
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *PerspectiveCamera) {
		c.Aspect = aspect
	}
}
