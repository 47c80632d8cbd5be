package loader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/model"
)

// ErrTooFewVertices is returned for a polygon that cannot form a triangle.
var ErrTooFewVertices = errors.New("there were supposed to be at least 3 vertices.")

// SplitPolygon fan-triangulates a polygon around its first vertex: [a b c d] becomes
// [a b c] [a c d].
//
// Parameters:
//   - poly: the polygon corners in winding order
//
// Returns:
//   - [][3]IndexTuple: len(poly)-2 triangles
//   - error: ErrTooFewVertices if poly has fewer than 3 corners
func SplitPolygon(poly Polygon) ([][3]IndexTuple, error) {
	if len(poly) < 3 {
		return nil, fmt.Errorf("polygon with %d vertices: %w", len(poly), ErrTooFewVertices)
	}
	out := make([][3]IndexTuple, 0, len(poly)-2)
	for i := 1; i < len(poly)-1; i++ {
		out = append(out, [3]IndexTuple{poly[0], poly[i], poly[i+1]})
	}
	return out, nil
}

// buildGeometry triangulates polygons and packs interleaved vertices, de-duplicating corners
// that reference the same (v, vt, vn) tuple. A corner without a normal takes the unnormalized
// normal of the first triangle that emits it.
func buildGeometry(data *OBJData, polygons []Polygon) ([]float32, []uint32, error) {
	seen := make(map[IndexTuple]uint32)
	vertices := make([]float32, 0, len(polygons)*3*model.VertexStride)
	indices := make([]uint32, 0, len(polygons)*3)

	for _, poly := range polygons {
		triangles, err := SplitPolygon(poly)
		if err != nil {
			return nil, nil, err
		}
		for _, tri := range triangles {
			p0 := common.Vec4(data.Positions[tri[0].V]).XYZ()
			p1 := common.Vec4(data.Positions[tri[1].V]).XYZ()
			p2 := common.Vec4(data.Positions[tri[2].V]).XYZ()
			faceNormal := common.Vec3Cross(common.Vec3Sub(p1, p0), common.Vec3Sub(p2, p0))

			for _, corner := range tri {
				if idx, ok := seen[corner]; ok {
					indices = append(indices, idx)
					continue
				}

				v := model.GPUVertex{Position: data.Positions[corner.V]}
				n := faceNormal
				if corner.HasNormal() {
					n = data.Normals[corner.VN]
				}
				v.Normal = [4]float32{n[0], n[1], n[2], 0}
				if corner.HasTexCoord() {
					uv := data.TexCoords[corner.VT]
					v.TexCoord = [4]float32{uv[0], uv[1], 0, 0}
				}

				idx := uint32(len(vertices) / model.VertexStride)
				f := v.Floats()
				vertices = append(vertices, f[:]...)
				seen[corner] = idx
				indices = append(indices, idx)
			}
		}
	}
	return vertices, indices, nil
}
