package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/model"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
)

// Mesh is an indexed triangle list drawn with one material. The vertex layout is position(4)
// normal(4) uv(4). Geometry is fixed at construction; a new shape needs a new Mesh.
type Mesh struct {
	// Material is the material the mesh is drawn with.
	Material material.Material

	vertices []float32
	indices  []uint32
	geometry bind_group_provider.BindGroupProvider
}

// NewMesh creates a Mesh from snapshots of vertices and indices. It panics if the vertex data
// is not a whole number of vertices, if there are no indices, or if an index is out of range.
//
// Parameters:
//   - label: debug label for the GPU buffers
//   - vertices: interleaved vertex data, model.VertexStride floats per vertex
//   - indices: triangle list indices
//   - m: the material
//
// Returns:
//   - *Mesh: the mesh
func NewMesh(label string, vertices []float32, indices []uint32, m material.Material) *Mesh {
	if len(vertices)%model.VertexStride != 0 {
		panic(fmt.Sprintf("scene: mesh %q has %d floats, not a multiple of %d", label, len(vertices), model.VertexStride))
	}
	if len(indices) == 0 {
		panic(fmt.Sprintf("scene: mesh %q has no indices", label))
	}
	count := uint32(len(vertices) / model.VertexStride)
	for _, i := range indices {
		if i >= count {
			panic(fmt.Sprintf("scene: mesh %q index %d out of range for %d vertices", label, i, count))
		}
	}
	return &Mesh{
		Material: m,
		vertices: append([]float32(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
		geometry: bind_group_provider.NewBindGroupProvider(common.Label(label, "Mesh")),
	}
}

// Vertices returns the vertex snapshot. Callers must not modify it.
func (m *Mesh) Vertices() []float32 {
	return m.vertices
}

// Indices returns the index snapshot. Callers must not modify it.
func (m *Mesh) Indices() []uint32 {
	return m.indices
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.vertices) / model.VertexStride
}

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() uint32 {
	return uint32(len(m.indices))
}

// BindGroupProvider returns the provider holding the vertex and index buffers.
func (m *Mesh) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.geometry
}

func (m *Mesh) write(dev backend.Backend) error {
	return m.geometry.AllocateGeometry(dev, model.MarshalFloats(m.vertices), model.MarshalIndices(m.indices), m.IndexCount())
}
