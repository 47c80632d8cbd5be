package scene

import (
	"github.com/Carmen-Shannon/oxy-phong/engine/camera"
	"github.com/Carmen-Shannon/oxy-phong/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *Scene)

// WithCamera replaces the default camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam *camera.PerspectiveCamera) SceneBuilderOption {
	return func(s *Scene) {
		s.Camera = cam
	}
}

// WithLights appends lights to the scene.
//
// Parameters:
//   - lights: the lights, drawn in order
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.PointLight) SceneBuilderOption {
	return func(s *Scene) {
		s.Lights = append(s.Lights, lights...)
	}
}

// WithRoot replaces the empty root node.
//
// Parameters:
//   - root: the root node
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRoot(root *Object3D) SceneBuilderOption {
	return func(s *Scene) {
		s.Root = root
	}
}
