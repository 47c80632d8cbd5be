// Package scene holds the retained scene graph: a camera, an ordered list of point lights and a
// tree of Object3D nodes, plus the write passes that keep their GPU state current.
package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/engine/camera"
	"github.com/Carmen-Shannon/oxy-phong/engine/light"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/catalog"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/staging"
)

// Scene aggregates one camera, the lights and the root node. The application mutates it only
// between frames.
type Scene struct {
	Camera *camera.PerspectiveCamera
	Lights []light.PointLight
	Root   *Object3D
}

// NewScene creates a scene with a default camera, no lights and an empty root.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - *Scene: the scene
func NewScene(options ...SceneBuilderOption) *Scene {
	s := &Scene{
		Camera: camera.NewPerspectiveCamera(),
		Root:   NewEmpty(WithName("root")),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// AddLight appends lights to the scene.
func (s *Scene) AddLight(lights ...light.PointLight) {
	s.Lights = append(s.Lights, lights...)
}

// WriteLights enqueues the uniform of every light.
//
// Parameters:
//   - dev: the backend
//   - cat: the populated catalog
//   - batch: the frame's staging batch
//
// Returns:
//   - error: the first write error
func (s *Scene) WriteLights(dev backend.Backend, cat *catalog.Catalog, batch *staging.Batcher) error {
	for i, l := range s.Lights {
		if err := cat.WriteLight(dev, l, batch); err != nil {
			return fmt.Errorf("light %d %q: %w", i, l.Name(), err)
		}
	}
	return nil
}

// WriteViewInfo enqueues the camera's eye position into every light's bind group.
//
// Parameters:
//   - dev: the backend
//   - cat: the populated catalog
//   - batch: the frame's staging batch
//
// Returns:
//   - error: the first write error
func (s *Scene) WriteViewInfo(dev backend.Backend, cat *catalog.Catalog, batch *staging.Batcher) error {
	info := light.GPUViewInfo{Position: s.Camera.EyePosition()}
	for i, l := range s.Lights {
		if err := cat.WriteViewInfo(dev, l, info, batch); err != nil {
			return fmt.Errorf("light %d %q view info: %w", i, l.Name(), err)
		}
	}
	return nil
}

// Release frees the GPU state of the node tree and of every light.
//
// Parameters:
//   - dev: the backend the resources were created on
func (s *Scene) Release(dev backend.Backend) {
	s.Root.Release(dev)
	for _, l := range s.Lights {
		l.BindGroupProvider().Release(dev)
	}
}
