package light

import (
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/bind_group_provider"
)

// pointLight is the implementation of the PointLight interface.
type pointLight struct {
	name     string
	position [4]float32
	color    [3]float32
	provider bind_group_provider.BindGroupProvider
}

// PointLight is an omnidirectional light at a world-space position.
//
// Each light owns one bind group with two uniform bindings: the light data at
// LightDataBinding and the per-frame view info at ViewInfoBinding. Both buffers are
// allocated together on the first write.
type PointLight interface {
	// Name returns the debug name of the light.
	//
	// Returns:
	//   - string: the light name
	Name() string

	// Position returns the homogeneous world-space position.
	//
	// Returns:
	//   - [4]float32: position as (x, y, z, 1)
	Position() [4]float32

	// SetPosition moves the light.
	//
	// Parameters:
	//   - x, y, z: the new world-space position
	SetPosition(x, y, z float32)

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: the color
	Color() [3]float32

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: the color components
	SetColor(r, g, b float32)

	// GPU returns the uniform value for the light data binding.
	//
	// Returns:
	//   - GPUPointLight: the marshalable uniform
	GPU() GPUPointLight

	// BindGroupProvider returns the provider owning the light's GPU state.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the light's provider
	BindGroupProvider() bind_group_provider.BindGroupProvider
}

var _ PointLight = &pointLight{}

// NewPointLight creates a white point light at the origin unless options say otherwise.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - PointLight: the light
func NewPointLight(options ...LightBuilderOption) PointLight {
	l := &pointLight{
		name:     "point_light",
		position: [4]float32{0, 0, 0, 1},
		color:    [3]float32{1, 1, 1},
	}
	for _, opt := range options {
		opt(l)
	}
	l.provider = bind_group_provider.NewBindGroupProvider(l.name)
	return l
}

func (l *pointLight) Name() string {
	return l.name
}

func (l *pointLight) Position() [4]float32 {
	return l.position
}

func (l *pointLight) SetPosition(x, y, z float32) {
	l.position = [4]float32{x, y, z, 1}
}

func (l *pointLight) Color() [3]float32 {
	return l.color
}

func (l *pointLight) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *pointLight) GPU() GPUPointLight {
	return GPUPointLight{Position: l.position, Color: l.color}
}

func (l *pointLight) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return l.provider
}
