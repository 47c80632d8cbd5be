package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-phong/engine/model"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phong/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tuple(v int) IndexTuple {
	return IndexTuple{V: v, VT: -1, VN: -1}
}

func TestSplitPolygon(t *testing.T) {
	a, b, c, d := tuple(0), tuple(1), tuple(2), tuple(3)

	tris, err := SplitPolygon(Polygon{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, [][3]IndexTuple{{a, b, c}}, tris)

	tris, err = SplitPolygon(Polygon{a, b, c, d})
	require.NoError(t, err)
	assert.Equal(t, [][3]IndexTuple{{a, b, c}, {a, c, d}}, tris)

	tris, err = SplitPolygon(Polygon{a, b, c, d, tuple(4)})
	require.NoError(t, err)
	assert.Len(t, tris, 3)
}

func TestSplitPolygonTooFewVertices(t *testing.T) {
	for _, poly := range []Polygon{nil, {tuple(0)}, {tuple(0), tuple(1)}} {
		_, err := SplitPolygon(poly)
		require.ErrorIs(t, err, ErrTooFewVertices)
		assert.Contains(t, err.Error(), "there were supposed to be at least 3 vertices.")
	}
}

func TestParseOBJ(t *testing.T) {
	src := `# a comment
mtllib dice.mtl
v 0 0 0
v 1 0 0
v 1 1 0 0.5
v 0 1 0
vt 0.25 0.75
vn 0 0 1
f 1 2 3
o cube
g top
usemtl red
f 1/1/1 2/1/1 3/1/1 4/1/1
f -4//-1 -3//-1 -2//-1
usemtl blue
f 1 3 4
s off
`
	data, err := ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"dice.mtl"}, data.MaterialLibs)
	require.Len(t, data.Positions, 4)
	assert.Equal(t, [4]float32{1, 1, 0, 0.5}, data.Positions[2])
	assert.Equal(t, [4]float32{0, 1, 0, 1}, data.Positions[3])
	assert.Equal(t, [][2]float32{{0.25, 0.75}}, data.TexCoords)
	assert.Equal(t, [][3]float32{{0, 0, 1}}, data.Normals)

	require.Len(t, data.Objects, 2)
	def := data.Objects[0]
	assert.Equal(t, "default", def.Name)
	require.Len(t, def.Groups, 1)
	assert.Equal(t, "default", def.Groups[0].Name)
	assert.Equal(t, []Polygon{{tuple(0), tuple(1), tuple(2)}}, def.Groups[0].Polygons)

	cube := data.Objects[1]
	assert.Equal(t, "cube", cube.Name)
	require.Len(t, cube.Groups, 2)
	top := cube.Groups[0]
	assert.Equal(t, "top", top.Name)
	assert.Equal(t, "red", top.Material)
	require.Len(t, top.Polygons, 2)
	assert.Equal(t, IndexTuple{V: 3, VT: 0, VN: 0}, top.Polygons[0][3])
	assert.Equal(t, IndexTuple{V: 0, VT: -1, VN: 0}, top.Polygons[1][0])

	blue := cube.Groups[1]
	assert.Equal(t, "top", blue.Name)
	assert.Equal(t, "blue", blue.Material)
	assert.Len(t, blue.Polygons, 1)
}

func TestParseOBJErrorsCarryLineNumbers(t *testing.T) {
	cases := map[string]string{
		"v 1 2\n":                  "obj line 1",
		"v 0 0 0\nf 1 2\n":         "obj line 2",
		"v 0 0 0\nf 1 1 5\n":       "out of range",
		"v 0 0 0\n\nf 0 1 1\n":     "obj line 3",
		"v 0 0 0\nf 1/x 1 1\n":     "texture coordinate",
		"vn 0 0 x\n":               "invalid vertex normal",
		"v 0 0 0\nusemtl\n":        "usemtl without a material name",
		"v 0 0 0\nf 1/1/1/1 1 1\n": "invalid face vertex",
	}
	for src, want := range cases {
		_, err := ParseOBJ(strings.NewReader(src))
		require.Error(t, err, src)
		assert.Contains(t, err.Error(), want, src)
	}

	_, err := ParseOBJ(strings.NewReader("v 0 0 0\nf 1 1\n"))
	assert.ErrorIs(t, err, ErrTooFewVertices)
}

func TestParseMTL(t *testing.T) {
	src := `# exported
newmtl red
Ka 0.1 0.1 0.1
Kd 1 0 0
Ks 0.5
Ns 32
illum 2
d 1
newmtl wood
map_Kd -s 1 1 1 textures/wood.png
`
	mats, err := ParseMTL(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, mats, 2)

	red := mats["red"]
	require.NotNil(t, red)
	assert.Equal(t, &[3]float32{0.1, 0.1, 0.1}, red.Ka)
	assert.Equal(t, &[3]float32{1, 0, 0}, red.Kd)
	assert.Equal(t, &[3]float32{0.5, 0.5, 0.5}, red.Ks)
	require.NotNil(t, red.Ns)
	assert.Equal(t, float32(32), *red.Ns)
	assert.Empty(t, red.MapKd)

	wood := mats["wood"]
	require.NotNil(t, wood)
	assert.Nil(t, wood.Ka)
	assert.Nil(t, wood.Ns)
	assert.Equal(t, "textures/wood.png", wood.MapKd)
}

func TestParseMTLErrors(t *testing.T) {
	_, err := ParseMTL(strings.NewReader("Kd 1 1 1\n"))
	assert.ErrorContains(t, err, "mtl line 1")

	_, err = ParseMTL(strings.NewReader("newmtl a\nKd 1 x 1\n"))
	assert.ErrorContains(t, err, "mtl line 2")

	_, err = ParseMTL(strings.NewReader("newmtl\n"))
	assert.ErrorContains(t, err, "newmtl without a name")
}

func TestBuildGeometryDeduplicatesCorners(t *testing.T) {
	data, err := ParseOBJ(strings.NewReader(`v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0.5 0.5
f 1 2 3 4/1
`))
	require.NoError(t, err)
	vertices, indices, err := buildGeometry(data, data.Objects[0].Groups[0].Polygons)
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, indices)
	require.Len(t, vertices, 4*model.VertexStride)

	vertex := func(i int) []float32 {
		return vertices[i*model.VertexStride : (i+1)*model.VertexStride]
	}
	// position w defaults to 1, face normal is cross(v1-v0, v2-v0), missing uv is 0
	assert.Equal(t, []float32{1, 1, 0, 1, 0, 0, 1, 0, 0, 0, 0, 0}, vertex(2))
	assert.Equal(t, []float32{0, 1, 0, 1, 0, 0, 1, 0, 0.5, 0.5, 0, 0}, vertex(3))
}

func TestBuildGeometryKeepsFileNormals(t *testing.T) {
	data, err := ParseOBJ(strings.NewReader(`v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 -1
f 1//1 2//1 3//1
`))
	require.NoError(t, err)
	vertices, _, err := buildGeometry(data, data.Objects[0].Groups[0].Polygons)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, -1, 0}, vertices[4:8])
}

func TestDefaultMaterial(t *testing.T) {
	u := DefaultMaterial().Uniform()
	assert.Equal(t, [3]float32{0, 0, 0}, u.Ka)
	assert.Equal(t, [3]float32{0.8, 0.8, 0.8}, u.Kd)
	assert.Equal(t, [3]float32{1, 1, 1}, u.Ks)
	assert.Equal(t, float32(3), u.Shininess)
}

func TestToMaterialMapping(t *testing.T) {
	ka := [3]float32{0.2, 0.3, 0.4}
	ns := float32(16)

	m := toMaterial(&MTLMaterial{Name: "a", Ka: &ka, Ns: &ns}, "assets")
	require.IsType(t, &material.Phong{}, m)
	u := m.Uniform()
	assert.Equal(t, ka, u.Ka)
	assert.Equal(t, ka, u.Ks)
	assert.Equal(t, [3]float32{1, 0.2, 0.2}, u.Kd)
	assert.Equal(t, float32(16), u.Shininess)
	assert.Equal(t, "a", m.Name())

	m = toMaterial(&MTLMaterial{Name: "b", MapKd: "wood.png"}, "assets")
	textured, ok := m.(*material.PhongTextured)
	require.True(t, ok)
	assert.Equal(t, filepath.Join("assets", "wood.png"), textured.TexturePath())
	u = m.Uniform()
	assert.Equal(t, [3]float32{0, 0, 0}, u.Ka)
	assert.Equal(t, [3]float32{1, 1, 1}, u.Ks)
	assert.Equal(t, float32(1), u.Shininess)
}

const cubeOBJ = `mtllib cube.mtl
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
o cube
g front
usemtl red
f 1 2 3 4
g back
usemtl white
f 6 5 8 7
g empty
o marker
g point
f 1 2 3
`

const cubeMTL = `newmtl red
Kd 1 0 0
newmtl white
Ka 0.1 0.1 0.1
Kd 1 1 1
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func meshNames(node *scene.Object3D) []string {
	var names []string
	node.Walk(func(n *scene.Object3D, _ int) {
		if n.IsDrawable() {
			names = append(names, n.Name)
		}
	})
	return names
}

func TestLoadBuildsObjectGroupTree(t *testing.T) {
	dir := writeFiles(t, map[string]string{"cube.obj": cubeOBJ, "cube.mtl": cubeMTL})
	l := NewLoader(WithWorkers(2))

	root, err := l.Load(filepath.Join(dir, "cube.obj"))
	require.NoError(t, err)
	assert.Equal(t, "cube", root.Name)
	assert.False(t, root.IsDrawable())
	require.Len(t, root.Children, 2)

	cube := root.Children[0]
	assert.Equal(t, "cube", cube.Name)
	assert.False(t, cube.IsDrawable())
	require.Len(t, cube.Children, 2)
	assert.Equal(t, []string{"front", "back", "point"}, meshNames(root))

	front := cube.Children[0].Mesh
	assert.Equal(t, uint32(6), front.IndexCount())
	assert.Equal(t, 4, front.VertexCount())
	assert.Equal(t, [3]float32{1, 0, 0}, front.Material.Uniform().Kd)
	assert.Equal(t, "red", front.Material.Name())

	back := cube.Children[1].Mesh
	assert.Equal(t, [3]float32{0.1, 0.1, 0.1}, back.Material.Uniform().Ks)

	// usemtl stays in effect across o and g statements
	point := root.Children[1].Children[0].Mesh
	assert.Equal(t, "white", point.Material.Name())
}

func TestLoadCachesParseButBuildsFreshNodes(t *testing.T) {
	dir := writeFiles(t, map[string]string{"cube.obj": cubeOBJ, "cube.mtl": cubeMTL})
	path := filepath.Join(dir, "cube.obj")
	l := NewLoader()

	first, err := l.Load(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))
	second, err := l.Load(path)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotSame(t, first.Children[0].Children[0].Mesh.Material, second.Children[0].Children[0].Mesh.Material)
	assert.Equal(t, meshNames(first), meshNames(second))
	assert.Len(t, l.Models(), 1)
	assert.NotNil(t, l.Get(filepath.Clean(path)))
}

func TestLoadFallsBackToDefaultMaterials(t *testing.T) {
	dir := writeFiles(t, map[string]string{"cube.obj": cubeOBJ})
	root, err := NewLoader().Load(filepath.Join(dir, "cube.obj"))
	require.NoError(t, err)
	root.Walk(func(n *scene.Object3D, _ int) {
		if n.IsDrawable() {
			assert.Equal(t, "default", n.Mesh.Material.Name())
		}
	})
}

func TestLoadRejectsUnresolvedMaterial(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"cube.obj": strings.Replace(cubeOBJ, "usemtl white", "usemtl missing", 1),
		"cube.mtl": cubeMTL,
	})
	_, err := NewLoader().Load(filepath.Join(dir, "cube.obj"))
	require.ErrorIs(t, err, ErrUnresolvedMaterial)
	assert.Contains(t, err.Error(), `material "missing" was supposed to be loaded`)
}

func TestLoadTexturedMaterialResolvesAgainstLibrary(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"tri.obj": "mtllib tri.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl wood\nf 1 2 3\n",
		"tri.mtl": "newmtl wood\nmap_Kd wood.png\n",
	})
	root, err := NewLoader().Load(filepath.Join(dir, "tri.obj"))
	require.NoError(t, err)

	mesh := root.Children[0].Children[0].Mesh
	textured, ok := mesh.Material.(*material.PhongTextured)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "wood.png"), textured.TexturePath())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.obj"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadReader(t *testing.T) {
	dir := writeFiles(t, map[string]string{"cube.mtl": cubeMTL})
	l := NewLoader()
	root, err := l.LoadReader("inline", strings.NewReader(cubeOBJ), dir)
	require.NoError(t, err)
	assert.Equal(t, "inline", root.Name)
	assert.Equal(t, "red", root.Children[0].Children[0].Mesh.Material.Name())

	again, err := l.LoadReader("inline", strings.NewReader(""), dir)
	require.NoError(t, err)
	assert.Equal(t, meshNames(root), meshNames(again))
}

func TestWithModelPrepopulatesCache(t *testing.T) {
	m := &Model{Name: "tri", Objects: []ModelObject{{
		Name: "o",
		Groups: []ModelGroup{{
			Name:     "g",
			Vertices: make([]float32, 3*model.VertexStride),
			Indices:  []uint32{0, 1, 2},
		}},
	}}}
	l := NewLoader(WithModel("tri", m))
	root, err := l.LoadReader("tri", strings.NewReader("garbage"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"g"}, meshNames(root))
}

func TestLoadDiceAsset(t *testing.T) {
	root, err := NewLoader().Load(filepath.Join("..", "..", "examples", "assets", "dice", "dice.obj"))
	require.NoError(t, err)

	assert.Equal(t, "dice", root.Name)
	require.Len(t, root.Children, 1)
	dice := root.Children[0]
	require.Len(t, dice.Children, 2)

	body := dice.Children[0]
	assert.Equal(t, "body", body.Name)
	assert.Equal(t, "ivory", body.Mesh.Material.Name())
	assert.Equal(t, 24, body.Mesh.VertexCount())
	assert.EqualValues(t, 36, body.Mesh.IndexCount())

	// 1+2+3+4+5+6 pips, one quad each
	pips := dice.Children[1]
	assert.Equal(t, "pips", pips.Name)
	assert.Equal(t, "ink", pips.Mesh.Material.Name())
	assert.Equal(t, 21*4, pips.Mesh.VertexCount())
	assert.EqualValues(t, 21*6, pips.Mesh.IndexCount())
}
