package scene

import "github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"

const (
	axisWidth  float32 = 0.05
	axisLength float32 = 5.0
)

// SimpleAxes returns a node drawing two thin black strips along the X and Z axes on the
// XZ plane. Each strip is indexed with both windings so it shows from above and below.
func SimpleAxes() *Object3D {
	corners := [8][2]float32{
		{-axisWidth, -axisLength},
		{-axisWidth, axisLength},
		{axisWidth, -axisLength},
		{axisWidth, axisLength},
		{-axisLength, -axisWidth},
		{-axisLength, axisWidth},
		{axisLength, -axisWidth},
		{axisLength, axisWidth},
	}
	vertices := make([]float32, 0, len(corners)*12)
	for _, c := range corners {
		vertices = append(vertices,
			c[0], 0, c[1], 1,
			0, 0, 0.1, 0,
			0, 0, 0, 0,
		)
	}
	indices := []uint32{
		0, 1, 2, 1, 2, 3,
		0, 2, 1, 1, 3, 2,
		4, 5, 6, 5, 6, 7,
		4, 6, 5, 5, 7, 6,
	}
	return NewMeshObject("simple_axes", vertices, indices, material.NewPhong(material.WithName("simple_axes")))
}
