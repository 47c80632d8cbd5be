package loader

import (
	"errors"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
)

// ErrUnresolvedMaterial is returned when a group names a material no loaded library defines.
var ErrUnresolvedMaterial = errors.New("was supposed to be loaded")

// DefaultMaterial returns the material used when no library material applies: no ambient,
// light grey diffuse, white specular and shininess 3.
//
// Returns:
//   - *material.Phong: a new material
func DefaultMaterial() *material.Phong {
	return material.NewPhong(
		material.WithName("default"),
		material.WithAmbient([3]float32{0, 0, 0}),
		material.WithDiffuse([3]float32{0.8, 0.8, 0.8}),
		material.WithSpecular([3]float32{1, 1, 1}),
		material.WithShininess(3),
	)
}

// toMaterial maps an MTL entry onto a renderer material. The specular term is taken from Ka
// when Ka is present. A map_Kd produces a textured material whose path is resolved against
// the directory of the MTL file.
func toMaterial(m *MTLMaterial, mtlDir string) material.Material {
	ka := [3]float32{0, 0, 0}
	ks := [3]float32{1, 1, 1}
	if m.Ka != nil {
		ka = *m.Ka
		ks = *m.Ka
	}
	kd := [3]float32{1, 0.2, 0.2}
	if m.Kd != nil {
		kd = *m.Kd
	}
	var shininess float32 = 1
	if m.Ns != nil {
		shininess = *m.Ns
	}

	options := []material.PhongBuilderOption{
		material.WithName(m.Name),
		material.WithAmbient(ka),
		material.WithDiffuse(kd),
		material.WithSpecular(ks),
		material.WithShininess(shininess),
	}
	if m.MapKd != "" {
		path := m.MapKd
		if !filepath.IsAbs(path) {
			path = filepath.Join(mtlDir, path)
		}
		return material.NewPhongTextured(path, options...)
	}
	return material.NewPhong(options...)
}
