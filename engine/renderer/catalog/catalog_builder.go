package catalog

import "github.com/Carmen-Shannon/oxy-phong/engine/renderer/shader"

// CatalogBuilderOption is a functional option used to configure a Catalog during construction.
type CatalogBuilderOption func(*Catalog)

// WithLabel sets the label used in errors.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - CatalogBuilderOption: a function that sets the label
func WithLabel(label string) CatalogBuilderOption {
	return func(c *Catalog) {
		c.label = label
	}
}

// WithShaderValidation toggles the naga compile check run by Populate. It is on by default.
//
// Parameters:
//   - enabled: whether to validate
//
// Returns:
//   - CatalogBuilderOption: a function that sets the validation flag
func WithShaderValidation(enabled bool) CatalogBuilderOption {
	return func(c *Catalog) {
		c.validate = enabled
	}
}

// WithShader replaces the built-in Phong shader. The shader must declare groups 0 to 2
// with the transform, material and light layouts.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - CatalogBuilderOption: a function that sets the shader
func WithShader(s shader.Shader) CatalogBuilderOption {
	return func(c *Catalog) {
		c.shader = s
	}
}
