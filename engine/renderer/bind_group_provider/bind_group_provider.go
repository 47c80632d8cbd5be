package bind_group_provider

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
)

// ResourceState is the lifecycle state of the GPU resources behind a provider.
type ResourceState int

const (
	// StateUninitialized means no GPU resources exist yet.
	StateUninitialized ResourceState = iota
	// StateAllocated means buffers (and the bind group, if any) exist and stay valid until Release.
	StateAllocated
)

func (s ResourceState) String() string {
	switch s {
	case StateAllocated:
		return "allocated"
	default:
		return "uninitialized"
	}
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string
	state ResourceState

	// bufferSizes overrides the buffer size for a binding; otherwise the layout's MinBindingSize is used.
	bufferSizes map[uint32]uint64

	// The following fields are backend handles populated by Allocate/AllocateGeometry, never by the caller.

	bindGroup backend.BindGroupHandle
	buffers   map[uint32]backend.BufferHandle

	vertexBuffer backend.BufferHandle
	indexBuffer  backend.BufferHandle
	indexCount   uint32
}

// BindGroupProvider owns the GPU state of one resource-bearing component (a mesh, a node's
// transform, a material or a light). It moves from StateUninitialized to StateAllocated exactly
// once; only Release returns it to StateUninitialized.
//
// Usage pattern:
//  1. Component creates a provider with NewBindGroupProvider
//  2. On the first write pass the owner calls Allocate or AllocateGeometry
//  3. Later frames only enqueue BufferWrites against the existing buffers
//  4. The draw pass reads BindGroup, VertexBuffer and IndexBuffer
type BindGroupProvider interface {
	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// State returns the current lifecycle state.
	//
	// Returns:
	//   - ResourceState: the provider's state
	State() ResourceState

	// Allocated reports whether the provider is in StateAllocated.
	Allocated() bool

	// Allocate creates one uniform buffer per layout entry and a bind group binding them.
	// It is a no-op once the provider is allocated.
	//
	// Parameters:
	//   - dev: the backend to allocate on
	//   - layout: the bind group layout handle
	//   - entries: the layout entries, used for binding indices and buffer sizes
	//
	// Returns:
	//   - error: error if any backend call fails; partially created resources are released
	Allocate(dev backend.Backend, layout backend.BindGroupLayoutHandle, entries []backend.BindGroupLayoutEntry) error

	// AllocateGeometry creates the vertex and index buffers with their initial contents.
	// It is a no-op once the provider is allocated.
	//
	// Parameters:
	//   - dev: the backend to allocate on
	//   - vertexData: packed vertex bytes
	//   - indexData: packed uint32 index bytes
	//   - indexCount: number of indices to draw
	//
	// Returns:
	//   - error: error if either buffer cannot be created
	AllocateGeometry(dev backend.Backend, vertexData, indexData []byte, indexCount uint32) error

	// BindGroup returns the bind group handle, or 0 if none was allocated.
	BindGroup() backend.BindGroupHandle

	// Buffer returns the uniform buffer for a binding, or 0 if none exists.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - backend.BufferHandle: the buffer handle or 0
	Buffer(binding uint32) backend.BufferHandle

	// VertexBuffer returns the vertex buffer handle, or 0 if none was allocated.
	VertexBuffer() backend.BufferHandle

	// IndexBuffer returns the index buffer handle, or 0 if none was allocated.
	IndexBuffer() backend.BufferHandle

	// IndexCount returns the number of indices for draw calls.
	IndexCount() uint32

	// Release releases every GPU resource held by this provider and returns it to StateUninitialized.
	//
	// Parameters:
	//   - dev: the backend the resources were allocated on
	Release(dev backend.Backend)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new, uninitialized BindGroupProvider.
//
// Parameters:
//   - label: debug label used for every resource the provider creates
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:       label,
		bufferSizes: make(map[uint32]uint64),
		buffers:     make(map[uint32]backend.BufferHandle),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) State() ResourceState {
	return p.state
}

func (p *bindGroupProvider) Allocated() bool {
	return p.state == StateAllocated
}

func (p *bindGroupProvider) Allocate(dev backend.Backend, layout backend.BindGroupLayoutHandle, entries []backend.BindGroupLayoutEntry) error {
	if p.state == StateAllocated {
		return nil
	}

	bindGroupEntries := make([]backend.BindGroupEntry, len(entries))
	for i, entry := range entries {
		size := entry.MinBindingSize
		if override, ok := p.bufferSizes[entry.Binding]; ok && override > size {
			size = override
		}
		buf, err := dev.CreateBuffer(backend.BufferDescriptor{
			Label: fmt.Sprintf("%s Buffer %d", p.label, entry.Binding),
			Size:  size,
			Usage: backend.BufferUsageUniform | backend.BufferUsageCopyDst,
		})
		if err != nil {
			p.Release(dev)
			return fmt.Errorf("%s: binding %d: %w", p.label, entry.Binding, err)
		}
		p.buffers[entry.Binding] = buf
		bindGroupEntries[i] = backend.BindGroupEntry{Binding: entry.Binding, Buffer: buf}
	}

	bg, err := dev.CreateBindGroup(backend.BindGroupDescriptor{
		Label:   p.label + " Bind Group",
		Layout:  layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		p.Release(dev)
		return fmt.Errorf("%s: %w", p.label, err)
	}
	p.bindGroup = bg
	p.state = StateAllocated
	return nil
}

func (p *bindGroupProvider) AllocateGeometry(dev backend.Backend, vertexData, indexData []byte, indexCount uint32) error {
	if p.state == StateAllocated {
		return nil
	}

	vb, err := dev.CreateBufferInit(p.label+" Vertex Buffer", backend.BufferUsageVertex|backend.BufferUsageCopyDst, vertexData)
	if err != nil {
		return fmt.Errorf("%s: vertex buffer: %w", p.label, err)
	}
	ib, err := dev.CreateBufferInit(p.label+" Index Buffer", backend.BufferUsageIndex|backend.BufferUsageCopyDst, indexData)
	if err != nil {
		dev.ReleaseBuffer(vb)
		return fmt.Errorf("%s: index buffer: %w", p.label, err)
	}
	p.vertexBuffer = vb
	p.indexBuffer = ib
	p.indexCount = indexCount
	p.state = StateAllocated
	return nil
}

func (p *bindGroupProvider) BindGroup() backend.BindGroupHandle {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding uint32) backend.BufferHandle {
	return p.buffers[binding]
}

func (p *bindGroupProvider) VertexBuffer() backend.BufferHandle {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() backend.BufferHandle {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() uint32 {
	return p.indexCount
}

func (p *bindGroupProvider) Release(dev backend.Backend) {
	if p.bindGroup != 0 {
		dev.ReleaseBindGroup(p.bindGroup)
		p.bindGroup = 0
	}
	bindings := make([]uint32, 0, len(p.buffers))
	for b := range p.buffers {
		bindings = append(bindings, b)
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i] < bindings[j] })
	for _, b := range bindings {
		dev.ReleaseBuffer(p.buffers[b])
		delete(p.buffers, b)
	}
	if p.vertexBuffer != 0 {
		dev.ReleaseBuffer(p.vertexBuffer)
		p.vertexBuffer = 0
	}
	if p.indexBuffer != 0 {
		dev.ReleaseBuffer(p.indexBuffer)
		p.indexBuffer = 0
	}
	p.indexCount = 0
	p.state = StateUninitialized
}
