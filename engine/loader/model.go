package loader

import (
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phong/engine/scene"
)

// Model is a parsed, triangulated OBJ file. It holds CPU data only and is shared by every
// subtree instantiated from it.
type Model struct {
	Name    string
	Objects []ModelObject
}

// ModelObject is one OBJ object.
type ModelObject struct {
	Name   string
	Groups []ModelGroup
}

// ModelGroup is one OBJ group with its packed geometry.
type ModelGroup struct {
	Name     string
	Vertices []float32
	Indices  []uint32

	// material is nil when the group takes DefaultMaterial.
	material *MTLMaterial
	mtlDir   string
}

// Material creates a new renderer material for the group.
//
// Returns:
//   - material.Material: the library material, or DefaultMaterial
func (g *ModelGroup) Material() material.Material {
	if g.material == nil {
		return DefaultMaterial()
	}
	return toMaterial(g.material, g.mtlDir)
}

// Instantiate builds a new subtree from the model. Nodes, meshes and materials are new on every
// call.
//
// Returns:
//   - *scene.Object3D: an empty root with one child per object
func (m *Model) Instantiate() *scene.Object3D {
	root := scene.NewEmpty(scene.WithName(m.Name))
	for _, obj := range m.Objects {
		node := scene.NewEmpty(scene.WithName(obj.Name))
		for i := range obj.Groups {
			g := &obj.Groups[i]
			node.AddChild(scene.NewMeshObject(g.Name, g.Vertices, g.Indices, g.Material()))
		}
		root.AddChild(node)
	}
	return root
}
