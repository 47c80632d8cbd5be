package scene

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/catalog"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/staging"
)

// Object3D is a node of the scene tree. Each node owns its children exclusively.
// A node with a nil Mesh is an empty transform node; a node with a Mesh is drawable.
type Object3D struct {
	Name string
	// Matrix is the node's local transform, applied as Matrix * parent.
	Matrix common.Matrix4
	// Mesh is the node's payload, nil for an empty node.
	Mesh     *Mesh
	Children []*Object3D

	transform bind_group_provider.BindGroupProvider
}

// NewEmpty creates an empty node with an identity matrix.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - *Object3D: the node
func NewEmpty(options ...Object3DBuilderOption) *Object3D {
	o := &Object3D{Matrix: common.IdentityMatrix()}
	for _, option := range options {
		option(o)
	}
	o.transform = bind_group_provider.NewBindGroupProvider(common.Label(common.Coalesce(o.Name, "object3d"), "Transform"))
	return o
}

// NewMeshObject creates a drawable node carrying a new Mesh.
//
// Parameters:
//   - name: the node and mesh name
//   - vertices: interleaved vertex data
//   - indices: triangle list indices
//   - m: the material
//   - options: functional options to configure the node
//
// Returns:
//   - *Object3D: the node
func NewMeshObject(name string, vertices []float32, indices []uint32, m material.Material, options ...Object3DBuilderOption) *Object3D {
	o := NewEmpty(append([]Object3DBuilderOption{WithName(name)}, options...)...)
	o.Mesh = NewMesh(name, vertices, indices, m)
	return o
}

// AddChild appends children to the node.
func (o *Object3D) AddChild(children ...*Object3D) {
	o.Children = append(o.Children, children...)
}

// IsDrawable reports whether the node carries a Mesh.
func (o *Object3D) IsDrawable() bool {
	return o.Mesh != nil
}

// TransformProvider returns the provider holding the node's transform uniform.
func (o *Object3D) TransformProvider() bind_group_provider.BindGroupProvider {
	return o.transform
}

// Walk calls fn for the node and every descendant, depth first, parents before children.
//
// Parameters:
//   - fn: the visitor, given each node and its depth (0 for o)
func (o *Object3D) Walk(fn func(node *Object3D, depth int)) {
	o.walk(fn, 0)
}

func (o *Object3D) walk(fn func(*Object3D, int), depth int) {
	fn(o, depth)
	for _, c := range o.Children {
		c.walk(fn, depth+1)
	}
}

// WriteObject3D creates the vertex and index buffers of every mesh in the subtree that does
// not have them yet. Meshes that already have buffers are left untouched.
//
// Parameters:
//   - dev: the backend
//
// Returns:
//   - error: the first buffer creation error
func (o *Object3D) WriteObject3D(dev backend.Backend) error {
	if o.Mesh != nil {
		if err := o.Mesh.write(dev); err != nil {
			return fmt.Errorf("object %q: %w", o.Name, err)
		}
	}
	for _, c := range o.Children {
		if err := c.WriteObject3D(dev); err != nil {
			return err
		}
	}
	return nil
}

// WriteMatrices enqueues the cumulative transform of every node in the subtree. The draw
// state's stack is restored before returning, including on error.
//
// Parameters:
//   - dev: the backend
//   - ds: the frame's draw state, seeded with the camera matrix
//   - batch: the frame's staging batch
//
// Returns:
//   - error: the first allocation or write error
func (o *Object3D) WriteMatrices(dev backend.Backend, ds *drawstate.DrawState, batch *staging.Batcher) error {
	ds.PushMatrix()
	defer ds.PopMatrix()
	ds.Transform(o.Matrix)

	if err := ds.Catalog().WriteTransform(dev, o.transform, ds.Matrix(), batch); err != nil {
		return fmt.Errorf("object %q transform: %w", o.Name, err)
	}
	for _, c := range o.Children {
		if err := c.WriteMatrices(dev, ds, batch); err != nil {
			return err
		}
	}
	return nil
}

// WriteMaterials enqueues the uniform of every mesh material in the subtree. Materials
// without a pipeline are skipped.
//
// Parameters:
//   - dev: the backend
//   - cat: the populated catalog
//   - batch: the frame's staging batch
//
// Returns:
//   - error: the first error other than catalog.ErrUnsupportedMaterial
func (o *Object3D) WriteMaterials(dev backend.Backend, cat *catalog.Catalog, batch *staging.Batcher) error {
	if o.Mesh != nil {
		err := cat.WriteMaterial(dev, o.Mesh.Material, batch)
		if err != nil && !errors.Is(err, catalog.ErrUnsupportedMaterial) {
			return fmt.Errorf("object %q material: %w", o.Name, err)
		}
	}
	for _, c := range o.Children {
		if err := c.WriteMaterials(dev, cat, batch); err != nil {
			return err
		}
	}
	return nil
}

// Release frees the transform and geometry buffers of the subtree. Materials may be shared
// between meshes and are left to their owner.
//
// Parameters:
//   - dev: the backend the resources were created on
func (o *Object3D) Release(dev backend.Backend) {
	o.Walk(func(node *Object3D, _ int) {
		node.transform.Release(dev)
		if node.Mesh != nil {
			node.Mesh.geometry.Release(dev)
		}
	})
}
