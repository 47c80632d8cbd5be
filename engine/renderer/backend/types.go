package backend

import "errors"

// ErrInvalidHandle is returned when a handle does not name a live resource.
var ErrInvalidHandle = errors.New("invalid resource handle")

// BufferHandle identifies a GPU buffer. The zero value is never valid.
type BufferHandle uint64

// BindGroupLayoutHandle identifies a bind group layout. The zero value is never valid.
type BindGroupLayoutHandle uint64

// BindGroupHandle identifies a bind group. The zero value is never valid.
type BindGroupHandle uint64

// PipelineHandle identifies a render pipeline. The zero value is never valid.
type PipelineHandle uint64

// TextureHandle identifies a sampled texture. The zero value is never valid.
type TextureHandle uint64

// TextureViewHandle identifies a texture view usable as a color attachment. The zero value is never valid.
type TextureViewHandle uint64

// BufferUsage is a bit set describing how a buffer may be used.
// Bit values follow the WebGPU specification.
type BufferUsage uint32

const (
	BufferUsageMapRead  BufferUsage = 0x0001
	BufferUsageMapWrite BufferUsage = 0x0002
	BufferUsageCopySrc  BufferUsage = 0x0004
	BufferUsageCopyDst  BufferUsage = 0x0008
	BufferUsageIndex    BufferUsage = 0x0010
	BufferUsageVertex   BufferUsage = 0x0020
	BufferUsageUniform  BufferUsage = 0x0040
	BufferUsageStorage  BufferUsage = 0x0080
)

// Has reports whether every bit of flag is set in u.
func (u BufferUsage) Has(flag BufferUsage) bool {
	return u&flag == flag
}

// ShaderStage is a bit set of shader stages a binding is visible to.
type ShaderStage uint32

const (
	ShaderStageVertex   ShaderStage = 0x1
	ShaderStageFragment ShaderStage = 0x2
)

// TextureFormat is an opaque surface/texture format value reported by the presentation surface.
type TextureFormat uint32

// Topology is the primitive assembly mode.
type Topology int

const (
	TopologyTriangleList Topology = iota
	TopologyTriangleStrip
	TopologyLineList
)

// FrontFace is the winding order of front-facing triangles.
type FrontFace int

const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

// CullMode selects which faces are discarded.
type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// BlendMode selects how fragment output combines with the color target.
type BlendMode int

const (
	// BlendModeReplace writes the fragment color as-is.
	BlendModeReplace BlendMode = iota
	// BlendModeAdditive adds the fragment color to the target (One, One).
	BlendModeAdditive
)

// CompareFunction is the depth comparison used by a pipeline.
type CompareFunction int

const (
	CompareFunctionLess CompareFunction = iota
	CompareFunctionLessEqual
	CompareFunctionAlways
)

// IndexFormat is the element type of an index buffer.
type IndexFormat int

const (
	IndexFormatUint32 IndexFormat = iota
	IndexFormatUint16
)

// VertexFormat is the type of one vertex attribute.
type VertexFormat int

const (
	VertexFormatFloat32x4 VertexFormat = iota
	VertexFormatFloat32x3
	VertexFormatFloat32x2
)

// Size returns the byte size of one attribute of this format.
func (f VertexFormat) Size() uint64 {
	switch f {
	case VertexFormatFloat32x3:
		return 12
	case VertexFormatFloat32x2:
		return 8
	default:
		return 16
	}
}

// BufferDescriptor describes a buffer created without initial contents.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage BufferUsage
}

// BindGroupLayoutEntry describes one uniform buffer binding of a layout.
type BindGroupLayoutEntry struct {
	Binding        uint32
	Visibility     ShaderStage
	MinBindingSize uint64
}

// BindGroupLayoutDescriptor describes a bind group layout.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupEntry binds a whole buffer at a binding index.
type BindGroupEntry struct {
	Binding uint32
	Buffer  BufferHandle
}

// BindGroupDescriptor describes a bind group conforming to Layout.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayoutHandle
	Entries []BindGroupEntry
}

// VertexAttribute describes one attribute inside a vertex buffer.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes the per-vertex layout of one vertex buffer slot.
type VertexBufferLayout struct {
	ArrayStride uint64
	Attributes  []VertexAttribute
}

// RenderPipelineDescriptor carries everything needed to build a render pipeline.
type RenderPipelineDescriptor struct {
	Label              string
	ShaderSource       string
	VertexEntryPoint   string
	FragmentEntryPoint string
	BindGroupLayouts   []BindGroupLayoutHandle
	VertexBuffers      []VertexBufferLayout
	Topology           Topology
	FrontFace          FrontFace
	CullMode           CullMode
	ColorFormat        TextureFormat
	Blend              BlendMode
	DepthWriteEnabled  bool
	DepthCompare       CompareFunction
}

// RenderPassDescriptor describes a render pass that clears ColorView to ClearColor
// and, when Depth is set, clears the backend's depth attachment to 1.0.
type RenderPassDescriptor struct {
	Label      string
	ColorView  TextureViewHandle
	ClearColor [4]float64
	Depth      bool
}

// SurfaceCapabilities lists what the presentation surface supports.
// Formats is ordered by preference; the first entry is the preferred format.
type SurfaceCapabilities struct {
	Formats []TextureFormat
}
