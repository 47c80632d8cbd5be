package material

import (
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/bind_group_provider"
)

// MaterialType identifies a Material variant. The set of variants is closed.
type MaterialType int

const (
	// MaterialTypePhong is an untextured Phong surface.
	MaterialTypePhong MaterialType = iota
	// MaterialTypePhongTextured is a Phong surface with a diffuse texture map.
	MaterialTypePhongTextured
)

// MaterialTypes returns every material type in pass order.
//
// Returns:
//   - []MaterialType: the ordered list of material types
func MaterialTypes() []MaterialType {
	return []MaterialType{MaterialTypePhong, MaterialTypePhongTextured}
}

func (t MaterialType) String() string {
	switch t {
	case MaterialTypePhong:
		return "phong"
	case MaterialTypePhongTextured:
		return "phong_textured"
	default:
		return "unknown"
	}
}

// Material describes how a mesh surface is shaded. Implementations are *Phong and
// *PhongTextured; the interface cannot be implemented outside this package.
type Material interface {
	// Type returns the variant tag of the material.
	//
	// Returns:
	//   - MaterialType: the variant
	Type() MaterialType

	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Uniform returns the uniform block of the material.
	//
	// Returns:
	//   - GPUPhongMaterial: the Phong coefficients
	Uniform() GPUPhongMaterial

	// BindGroupProvider returns the provider owning the material's GPU state.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the material's provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	sealed()
}

// IsOfType reports whether m is the variant t.
//
// Parameters:
//   - m: the material, may be nil
//   - t: the variant to test for
//
// Returns:
//   - bool: true if m is non-nil and of type t
func IsOfType(m Material, t MaterialType) bool {
	return m != nil && m.Type() == t
}

// phongBase holds the fields shared by both Phong variants.
type phongBase struct {
	name     string
	uniform  GPUPhongMaterial
	provider bind_group_provider.BindGroupProvider
}

func (p *phongBase) Name() string {
	return p.name
}

func (p *phongBase) Uniform() GPUPhongMaterial {
	return p.uniform
}

// SetUniform replaces the Phong coefficients; the next write pass uploads them.
func (p *phongBase) SetUniform(u GPUPhongMaterial) {
	p.uniform = u
}

func (p *phongBase) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return p.provider
}

func (p *phongBase) sealed() {}

// Phong is an untextured Phong material.
type Phong struct {
	phongBase
}

var _ Material = &Phong{}

// NewPhong creates a Phong material. Without options it is black with shininess 1.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Phong: the material
func NewPhong(options ...PhongBuilderOption) *Phong {
	m := &Phong{phongBase: phongBase{name: "phong", uniform: GPUPhongMaterial{Shininess: 1}}}
	for _, opt := range options {
		opt(&m.phongBase)
	}
	m.provider = bind_group_provider.NewBindGroupProvider(m.name+" Material", bind_group_provider.WithBufferSize(0, PhongUniformSize))
	return m
}

func (m *Phong) Type() MaterialType {
	return MaterialTypePhong
}

// PhongTextured is a Phong material whose diffuse term is sampled from a texture.
type PhongTextured struct {
	phongBase
	texturePath string
}

var _ Material = &PhongTextured{}

// NewPhongTextured creates a textured Phong material.
//
// Parameters:
//   - texturePath: path of the diffuse texture image
//   - options: functional options
//
// Returns:
//   - *PhongTextured: the material
func NewPhongTextured(texturePath string, options ...PhongBuilderOption) *PhongTextured {
	m := &PhongTextured{phongBase: phongBase{name: "phong_textured", uniform: GPUPhongMaterial{Shininess: 1}}, texturePath: texturePath}
	for _, opt := range options {
		opt(&m.phongBase)
	}
	m.provider = bind_group_provider.NewBindGroupProvider(m.name+" Material", bind_group_provider.WithBufferSize(0, PhongUniformSize))
	return m
}

func (m *PhongTextured) Type() MaterialType {
	return MaterialTypePhongTextured
}

// TexturePath returns the path of the diffuse texture.
func (m *PhongTextured) TexturePath() string {
	return m.texturePath
}
