package light

// LightBuilderOption is a function that configures a PointLight during construction.
type LightBuilderOption func(*pointLight)

// WithName sets the debug name of the light.
//
// Parameters:
//   - name: the light name
//
// Returns:
//   - LightBuilderOption: a function that applies the name option
func WithName(name string) LightBuilderOption {
	return func(l *pointLight) {
		l.name = name
	}
}

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *pointLight) {
		l.position = [4]float32{x, y, z, 1}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red component
//   - g: the green component
//   - b: the blue component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *pointLight) {
		l.color = [3]float32{r, g, b}
	}
}
