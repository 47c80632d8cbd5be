package material

// PhongBuilderOption is a function that configures a Phong material during construction.
type PhongBuilderOption func(*phongBase)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - PhongBuilderOption: a function that applies the name option to a material
func WithName(name string) PhongBuilderOption {
	return func(m *phongBase) {
		m.name = name
	}
}

// WithAmbient sets the ambient reflectance (ka).
//
// Parameters:
//   - ka: RGB ambient coefficient
//
// Returns:
//   - PhongBuilderOption: a function that applies the option to a material
func WithAmbient(ka [3]float32) PhongBuilderOption {
	return func(m *phongBase) {
		m.uniform.Ka = ka
	}
}

// WithDiffuse sets the diffuse reflectance (kd).
//
// Parameters:
//   - kd: RGB diffuse coefficient
//
// Returns:
//   - PhongBuilderOption: a function that applies the option to a material
func WithDiffuse(kd [3]float32) PhongBuilderOption {
	return func(m *phongBase) {
		m.uniform.Kd = kd
	}
}

// WithSpecular sets the specular reflectance (ks).
//
// Parameters:
//   - ks: RGB specular coefficient
//
// Returns:
//   - PhongBuilderOption: a function that applies the option to a material
func WithSpecular(ks [3]float32) PhongBuilderOption {
	return func(m *phongBase) {
		m.uniform.Ks = ks
	}
}

// WithShininess sets the specular exponent.
//
// Parameters:
//   - shininess: the exponent
//
// Returns:
//   - PhongBuilderOption: a function that applies the option to a material
func WithShininess(shininess float32) PhongBuilderOption {
	return func(m *phongBase) {
		m.uniform.Shininess = shininess
	}
}
