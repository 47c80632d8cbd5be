package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the configuration of a render pipeline and, once registered, its backend handle.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for labels and lookups
	pipelineKey string

	shaderSource       string
	vertexEntryPoint   string
	fragmentEntryPoint string
	vertexBuffers      []backend.VertexBufferLayout

	// handle is the backend pipeline, 0 until Register succeeds
	handle backend.PipelineHandle

	// The following properties are used to configure the pipeline during creation and can be toggled/set with the builder options.

	depthWriteEnabled bool
	depthCompare      backend.CompareFunction
	blendMode         backend.BlendMode
	cullMode          backend.CullMode
	topology          backend.Topology
	frontFace         backend.FrontFace
}

// Pipeline defines the interface for a render pipeline configuration: shader source, entry
// points, vertex layout, depth, blend, cull and topology settings. Register turns the
// configuration into a backend pipeline exactly once.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Handle returns the backend pipeline handle, or 0 if the pipeline is not registered.
	//
	// Returns:
	//   - backend.PipelineHandle: the handle
	Handle() backend.PipelineHandle

	// Registered reports whether Register has succeeded.
	Registered() bool

	// Descriptor builds the backend descriptor for this configuration.
	//
	// Parameters:
	//   - layouts: bind group layouts, indexed by group
	//   - colorFormat: the color target format
	//
	// Returns:
	//   - backend.RenderPipelineDescriptor: the descriptor
	Descriptor(layouts []backend.BindGroupLayoutHandle, colorFormat backend.TextureFormat) backend.RenderPipelineDescriptor

	// Register creates the backend pipeline. A second call returns an error.
	//
	// Parameters:
	//   - dev: the backend
	//   - layouts: bind group layouts, indexed by group
	//   - colorFormat: the color target format
	//
	// Returns:
	//   - error: error if already registered or the backend rejects the pipeline
	Register(dev backend.Backend, layouts []backend.BindGroupLayoutHandle, colorFormat backend.TextureFormat) error

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthCompare returns the depth comparison function.
	//
	// Returns:
	//   - backend.CompareFunction: the comparison
	DepthCompare() backend.CompareFunction

	// BlendMode returns how fragments combine with the color target.
	//
	// Returns:
	//   - backend.BlendMode: the blend mode
	BlendMode() backend.BlendMode

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - backend.CullMode: the cull mode for this pipeline
	CullMode() backend.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - backend.Topology: the primitive topology for this pipeline
	Topology() backend.Topology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - backend.FrontFace: the front face winding order for this pipeline
	FrontFace() backend.FrontFace
}

var _ Pipeline = &pipeline{}

// ErrAlreadyRegistered is returned by Register on a pipeline that already has a handle.
var ErrAlreadyRegistered = errors.New("pipeline already registered")

// NewPipeline is the entry point to create a new Pipeline. Defaults are a triangle list with
// counter-clockwise front faces, back-face culling, replace blending, depth writes on and a
// LessEqual depth test, with entry points vertex_main and fragment_main.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:        pipelineKey,
		vertexEntryPoint:   "vertex_main",
		fragmentEntryPoint: "fragment_main",
		depthWriteEnabled:  true,
		depthCompare:       backend.CompareFunctionLessEqual,
		blendMode:          backend.BlendModeReplace,
		cullMode:           backend.CullModeBack,
		topology:           backend.TopologyTriangleList,
		frontFace:          backend.FrontFaceCCW,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Handle() backend.PipelineHandle {
	return p.handle
}

func (p *pipeline) Registered() bool {
	return p.handle != 0
}

func (p *pipeline) Descriptor(layouts []backend.BindGroupLayoutHandle, colorFormat backend.TextureFormat) backend.RenderPipelineDescriptor {
	return backend.RenderPipelineDescriptor{
		Label:              p.pipelineKey,
		ShaderSource:       p.shaderSource,
		VertexEntryPoint:   p.vertexEntryPoint,
		FragmentEntryPoint: p.fragmentEntryPoint,
		BindGroupLayouts:   layouts,
		VertexBuffers:      p.vertexBuffers,
		Topology:           p.topology,
		FrontFace:          p.frontFace,
		CullMode:           p.cullMode,
		ColorFormat:        colorFormat,
		Blend:              p.blendMode,
		DepthWriteEnabled:  p.depthWriteEnabled,
		DepthCompare:       p.depthCompare,
	}
}

func (p *pipeline) Register(dev backend.Backend, layouts []backend.BindGroupLayoutHandle, colorFormat backend.TextureFormat) error {
	if p.handle != 0 {
		return fmt.Errorf("%s: %w", p.pipelineKey, ErrAlreadyRegistered)
	}
	h, err := dev.CreateRenderPipeline(p.Descriptor(layouts, colorFormat))
	if err != nil {
		return fmt.Errorf("%s: %w", p.pipelineKey, err)
	}
	p.handle = h
	return nil
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() backend.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) BlendMode() backend.BlendMode {
	return p.blendMode
}

func (p *pipeline) CullMode() backend.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() backend.Topology {
	return p.topology
}

func (p *pipeline) FrontFace() backend.FrontFace {
	return p.frontFace
}
