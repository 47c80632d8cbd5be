package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/catalog"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phong/engine/scene"
)

// BindMaterial binds the material's bind group at catalog.MaterialGroup.
// It panics for material types without a pipeline and for materials that were never written,
// both of which the render loop filters out before drawing.
//
// Parameters:
//   - pass: the open render pass
//   - m: the material to bind
func BindMaterial(pass backend.RenderPass, m material.Material) {
	if _, ok := m.(*material.Phong); !ok {
		panic(fmt.Errorf("bind %q: %w", m.Name(), catalog.ErrUnsupportedMaterial))
	}
	provider := m.BindGroupProvider()
	if !provider.Allocated() {
		panic(fmt.Sprintf("bind %q: material has no bind group", m.Name()))
	}
	pass.SetBindGroup(catalog.MaterialGroup, provider.BindGroup())
}

// DrawObject3D walks node depth first and records one indexed draw for every mesh whose material
// matches ds.CurrentMaterial. Each drawable node binds its transform at catalog.TransformGroup
// whether or not it draws. Children are always visited.
//
// Parameters:
//   - pass: the open render pass, with the pipeline and light already bound
//   - ds: the draw state carrying the active material filter
//   - node: the subtree root
//
// Returns:
//   - int: the number of draw calls recorded
func DrawObject3D(pass backend.RenderPass, ds *drawstate.DrawState, node *scene.Object3D) int {
	draws := 0
	if node.IsDrawable() {
		pass.SetBindGroup(catalog.TransformGroup, node.TransformProvider().BindGroup())
		mesh := node.Mesh
		if material.IsOfType(mesh.Material, ds.CurrentMaterial) {
			BindMaterial(pass, mesh.Material)
			geometry := mesh.BindGroupProvider()
			pass.SetVertexBuffer(0, geometry.VertexBuffer())
			pass.SetIndexBuffer(geometry.IndexBuffer(), backend.IndexFormatUint32)
			pass.DrawIndexed(mesh.IndexCount(), 1)
			draws++
		}
	}
	for _, child := range node.Children {
		draws += DrawObject3D(pass, ds, child)
	}
	return draws
}
