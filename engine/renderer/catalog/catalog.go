// Package catalog owns the render state shared by every frame: the bind group layouts, one
// pipeline pair per supported material type and a texture cache keyed by path.
//
// A Catalog is populated once, after the device and the surface capabilities are known.
// After Populate only the texture cache changes, and it is internally synchronized.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/light"
	"github.com/Carmen-Shannon/oxy-phong/engine/model"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/staging"
)

var (
	// ErrUnsupportedMaterial is returned for material types that have no pipeline.
	ErrUnsupportedMaterial = errors.New("material type has no pipeline")
	// ErrNotPopulated is returned by operations that need Populate to have run.
	ErrNotPopulated = errors.New("catalog not populated")
	// ErrAlreadyPopulated is returned by a second Populate call.
	ErrAlreadyPopulated = errors.New("catalog already populated")
	// ErrNoSurfaceFormat is returned by Populate when the surface reports no formats.
	ErrNoSurfaceFormat = errors.New("surface reports no color formats")
)

// Bind group slots used by every pipeline in the catalog.
const (
	TransformGroup uint32 = 0
	MaterialGroup  uint32 = 1
	LightGroup     uint32 = 2
)

type materialPipelines struct {
	base     pipeline.Pipeline
	additive pipeline.Pipeline
}

type cachedTexture struct {
	handle backend.TextureHandle
	err    error
}

// Catalog holds the bind group layouts, pipelines and textures shared by every frame.
type Catalog struct {
	label    string
	validate bool
	shader   shader.Shader

	populated   bool
	colorFormat backend.TextureFormat

	transformLayout  backend.BindGroupLayoutHandle
	transformEntries []backend.BindGroupLayoutEntry
	lightLayout      backend.BindGroupLayoutHandle
	lightEntries     []backend.BindGroupLayoutEntry
	phongLayout      backend.BindGroupLayoutHandle
	phongEntries     []backend.BindGroupLayoutEntry

	pipelines map[material.MaterialType]materialPipelines

	texMu    sync.Mutex
	textures map[string]cachedTexture
}

// New creates an unpopulated Catalog using the built-in Phong shader.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Catalog: the catalog
func New(options ...CatalogBuilderOption) *Catalog {
	c := &Catalog{
		label:     "Material Catalog",
		validate:  true,
		pipelines: make(map[material.MaterialType]materialPipelines),
		textures:  make(map[string]cachedTexture),
		transformEntries: []backend.BindGroupLayoutEntry{
			{Binding: 0, Visibility: backend.ShaderStageVertex | backend.ShaderStageFragment, MinBindingSize: model.GPUTransformSize},
		},
		lightEntries: []backend.BindGroupLayoutEntry{
			{Binding: light.LightDataBinding, Visibility: backend.ShaderStageVertex | backend.ShaderStageFragment, MinBindingSize: light.GPUPointLightSize},
			{Binding: light.ViewInfoBinding, Visibility: backend.ShaderStageVertex | backend.ShaderStageFragment, MinBindingSize: light.GPUViewInfoSize},
		},
		phongEntries: []backend.BindGroupLayoutEntry{
			{Binding: 0, Visibility: backend.ShaderStageFragment, MinBindingSize: material.PhongUniformSize},
		},
	}
	for _, opt := range options {
		opt(c)
	}
	if c.shader == nil {
		c.shader = shader.NewPhongShader()
	}
	return c
}

// Populate builds the layouts and the Phong pipelines for the first color format of caps.
// It runs exactly once.
//
// Parameters:
//   - dev: the backend
//   - caps: the surface capabilities
//
// Returns:
//   - error: ErrAlreadyPopulated, ErrNoSurfaceFormat or a backend error
func (c *Catalog) Populate(dev backend.Backend, caps backend.SurfaceCapabilities) error {
	if c.populated {
		return ErrAlreadyPopulated
	}
	if len(caps.Formats) == 0 {
		return ErrNoSurfaceFormat
	}
	if groups := c.shader.Groups(); len(groups) != 3 {
		return fmt.Errorf("%s: shader %q declares groups %v, expected 0 to 2", c.label, c.shader.Key(), groups)
	}
	if c.validate {
		if err := shader.Validate(c.shader.Source()); err != nil {
			common.Logger().Warn("shader validation failed, deferring to device compile", "shader", c.shader.Key(), "error", err)
		}
	}

	var err error
	if c.transformLayout, err = dev.CreateBindGroupLayout(backend.BindGroupLayoutDescriptor{Label: "Transform Layout", Entries: c.transformEntries}); err != nil {
		return fmt.Errorf("%s: transform layout: %w", c.label, err)
	}
	if c.lightLayout, err = dev.CreateBindGroupLayout(backend.BindGroupLayoutDescriptor{Label: "Point Light Layout", Entries: c.lightEntries}); err != nil {
		return fmt.Errorf("%s: point light layout: %w", c.label, err)
	}
	if c.phongLayout, err = dev.CreateBindGroupLayout(backend.BindGroupLayoutDescriptor{Label: "Phong Material Layout", Entries: c.phongEntries}); err != nil {
		return fmt.Errorf("%s: phong layout: %w", c.label, err)
	}

	format := caps.Formats[0]
	layouts := []backend.BindGroupLayoutHandle{c.transformLayout, c.phongLayout, c.lightLayout}
	shared := []pipeline.PipelineBuilderOption{
		pipeline.WithShaderSource(c.shader.Source()),
		pipeline.WithEntryPoints(c.shader.VertexEntryPoint(), c.shader.FragmentEntryPoint()),
		pipeline.WithVertexBuffers(model.VertexBufferLayout()),
	}
	base := pipeline.NewPipeline(material.MaterialTypePhong.String(), shared...)
	additive := pipeline.NewPipeline(material.MaterialTypePhong.String()+" additive", append(shared,
		pipeline.WithBlendMode(backend.BlendModeAdditive),
		pipeline.WithDepthWriteEnabled(false),
	)...)
	for _, p := range []pipeline.Pipeline{base, additive} {
		if err := p.Register(dev, layouts, format); err != nil {
			return fmt.Errorf("%s: %w", c.label, err)
		}
	}
	c.pipelines[material.MaterialTypePhong] = materialPipelines{base: base, additive: additive}

	c.colorFormat = format
	c.populated = true
	common.Logger().Info("catalog populated", "format", format, "pipelines", 2*len(c.pipelines))
	return nil
}

// Populated reports whether Populate has succeeded.
func (c *Catalog) Populated() bool {
	return c.populated
}

// ColorFormat returns the color target format chosen by Populate.
func (c *Catalog) ColorFormat() backend.TextureFormat {
	return c.colorFormat
}

// Shader returns the shader every pipeline is built from.
func (c *Catalog) Shader() shader.Shader {
	return c.shader
}

// TransformLayout returns the common per-node transform layout.
func (c *Catalog) TransformLayout() backend.BindGroupLayoutHandle {
	return c.transformLayout
}

// PointLightLayout returns the point light layout: light data at binding 0, view info at binding 1.
func (c *Catalog) PointLightLayout() backend.BindGroupLayoutHandle {
	return c.lightLayout
}

// MaterialLayout returns the bind group layout of a material type.
//
// Parameters:
//   - t: the material type
//
// Returns:
//   - backend.BindGroupLayoutHandle: the layout
//   - error: ErrNotPopulated or ErrUnsupportedMaterial
func (c *Catalog) MaterialLayout(t material.MaterialType) (backend.BindGroupLayoutHandle, error) {
	if !c.populated {
		return 0, ErrNotPopulated
	}
	if t != material.MaterialTypePhong {
		return 0, fmt.Errorf("%s: %w", t, ErrUnsupportedMaterial)
	}
	return c.phongLayout, nil
}

// SupportedTypes returns the material types that have pipelines, in MaterialTypes order.
func (c *Catalog) SupportedTypes() []material.MaterialType {
	var out []material.MaterialType
	for _, t := range material.MaterialTypes() {
		if _, ok := c.pipelines[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// PipelineFor returns the base pipeline of a material type, used for the first light.
//
// Parameters:
//   - t: the material type
//
// Returns:
//   - backend.PipelineHandle: the pipeline
//   - error: ErrNotPopulated or ErrUnsupportedMaterial
func (c *Catalog) PipelineFor(t material.MaterialType) (backend.PipelineHandle, error) {
	p, err := c.lookup(t)
	if err != nil {
		return 0, err
	}
	return p.base.Handle(), nil
}

// AdditivePipelineFor returns the additive pipeline of a material type, used for every light after the first.
//
// Parameters:
//   - t: the material type
//
// Returns:
//   - backend.PipelineHandle: the pipeline
//   - error: ErrNotPopulated or ErrUnsupportedMaterial
func (c *Catalog) AdditivePipelineFor(t material.MaterialType) (backend.PipelineHandle, error) {
	p, err := c.lookup(t)
	if err != nil {
		return 0, err
	}
	return p.additive.Handle(), nil
}

func (c *Catalog) lookup(t material.MaterialType) (materialPipelines, error) {
	if !c.populated {
		return materialPipelines{}, ErrNotPopulated
	}
	p, ok := c.pipelines[t]
	if !ok {
		return materialPipelines{}, fmt.Errorf("%s: %w", t, ErrUnsupportedMaterial)
	}
	return p, nil
}

// WriteTransform allocates a node's transform bind group on first use and enqueues the
// matrix with its inverse. A singular matrix panics.
//
// Parameters:
//   - dev: the backend
//   - provider: the node's provider
//   - m: the cumulative matrix
//   - batch: the frame's staging batch
//
// Returns:
//   - error: ErrNotPopulated or an allocation error
func (c *Catalog) WriteTransform(dev backend.Backend, provider bind_group_provider.BindGroupProvider, m common.Matrix4, batch *staging.Batcher) error {
	if !c.populated {
		return ErrNotPopulated
	}
	if err := provider.Allocate(dev, c.transformLayout, c.transformEntries); err != nil {
		return err
	}
	t := model.NewGPUTransform(m)
	return batch.Write(provider, 0, t.Marshal())
}

// WriteMaterial allocates the material's uniform state on first use and enqueues its uniform
// bytes every call. For the textured variant it loads the texture into the cache and returns
// ErrUnsupportedMaterial.
//
// Parameters:
//   - dev: the backend
//   - m: the material
//   - batch: the frame's staging batch
//
// Returns:
//   - error: ErrNotPopulated, ErrUnsupportedMaterial or an allocation error
func (c *Catalog) WriteMaterial(dev backend.Backend, m material.Material, batch *staging.Batcher) error {
	if !c.populated {
		return ErrNotPopulated
	}
	switch m := m.(type) {
	case *material.Phong:
		provider := m.BindGroupProvider()
		if err := provider.Allocate(dev, c.phongLayout, c.phongEntries); err != nil {
			return err
		}
		u := m.Uniform()
		return batch.Write(provider, 0, u.Marshal())
	case *material.PhongTextured:
		if _, err := c.Texture(dev, m.TexturePath()); err != nil {
			common.Logger().Warn("texture unavailable", "material", m.Name(), "path", m.TexturePath(), "error", err)
		}
		return fmt.Errorf("%s %q: %w", m.Type(), m.Name(), ErrUnsupportedMaterial)
	default:
		return fmt.Errorf("%T: %w", m, ErrUnsupportedMaterial)
	}
}

// WriteLight allocates the light's bind group on first use and enqueues its light data.
//
// Parameters:
//   - dev: the backend
//   - l: the light
//   - batch: the frame's staging batch
//
// Returns:
//   - error: ErrNotPopulated or an allocation error
func (c *Catalog) WriteLight(dev backend.Backend, l light.PointLight, batch *staging.Batcher) error {
	if err := c.allocateLight(dev, l); err != nil {
		return err
	}
	g := l.GPU()
	return batch.Write(l.BindGroupProvider(), light.LightDataBinding, g.Marshal())
}

// WriteViewInfo allocates the light's bind group on first use and enqueues the view info.
//
// Parameters:
//   - dev: the backend
//   - l: the light whose bind group receives the view info
//   - info: the eye position
//   - batch: the frame's staging batch
//
// Returns:
//   - error: ErrNotPopulated or an allocation error
func (c *Catalog) WriteViewInfo(dev backend.Backend, l light.PointLight, info light.GPUViewInfo, batch *staging.Batcher) error {
	if err := c.allocateLight(dev, l); err != nil {
		return err
	}
	return batch.Write(l.BindGroupProvider(), light.ViewInfoBinding, info.Marshal())
}

func (c *Catalog) allocateLight(dev backend.Backend, l light.PointLight) error {
	if !c.populated {
		return ErrNotPopulated
	}
	return l.BindGroupProvider().Allocate(dev, c.lightLayout, c.lightEntries)
}

// Texture returns the texture for path, decoding and uploading it on first request.
// Failures are cached as well, so a missing file is reported once per path.
//
// Parameters:
//   - dev: the backend
//   - path: the image path
//
// Returns:
//   - backend.TextureHandle: the texture
//   - error: a decode or upload error
func (c *Catalog) Texture(dev backend.Backend, path string) (backend.TextureHandle, error) {
	c.texMu.Lock()
	defer c.texMu.Unlock()

	if cached, ok := c.textures[path]; ok {
		return cached.handle, cached.err
	}
	var cached cachedTexture
	data, err := common.DecodeImageFile(path)
	if err == nil {
		cached.handle, err = dev.CreateTexture(path, data)
	}
	if err != nil {
		cached.err = fmt.Errorf("texture %q: %w", path, err)
	} else {
		common.Logger().Info("texture loaded", "path", path, "width", data.Width, "height", data.Height)
	}
	c.textures[path] = cached
	return cached.handle, cached.err
}

// TexturePaths returns the paths of every cached texture, sorted.
func (c *Catalog) TexturePaths() []string {
	c.texMu.Lock()
	defer c.texMu.Unlock()
	paths := make([]string, 0, len(c.textures))
	for p := range c.textures {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}
