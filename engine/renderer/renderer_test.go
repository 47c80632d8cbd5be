package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/camera"
	"github.com/Carmen-Shannon/oxy-phong/engine/light"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend/backendtest"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/catalog"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/staging"
	"github.com/Carmen-Shannon/oxy-phong/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangleVertices = []float32{
	0, 0.8, 0.1, 1, 1, 0, 0, 0, 0, 0, 0, 0,
	-0.693, -0.4, 0.1, 1, 1, 0, 0, 0, 0.1, 0, 0, 0,
	0.693, -0.4, 0.1, 1, 1, 0, 0, 0, 0, 0.1, 0, 0,
}

func triangle(name string, m material.Material) *scene.Object3D {
	return scene.NewMeshObject(name, triangleVertices, []uint32{0, 1, 2}, m)
}

func newRenderer(t *testing.T, options ...backendtest.RecorderOption) (*backendtest.Recorder, Renderer) {
	t.Helper()
	rec := backendtest.NewRecorder(options...)
	cat := catalog.New(catalog.WithShaderValidation(false))
	require.NoError(t, cat.Populate(rec, rec.Capabilities()))
	return rec, NewRenderer(rec, rec, cat)
}

func triangleScene(lights ...light.PointLight) *scene.Scene {
	s := scene.NewScene(scene.WithLights(lights...))
	s.Root.AddChild(triangle("triangle", material.NewPhong(material.WithDiffuse([3]float32{1, 0, 0}))))
	return s
}

func TestNewRendererDefaults(t *testing.T) {
	_, r := newRenderer(t)
	assert.Equal(t, [4]float64{1.0, 0.6, 0.8, 1.0}, r.ClearColor())
	assert.True(t, r.Catalog().Populated())
	assert.Equal(t, DrawStats{}, r.Stats())
}

func TestRenderEmptySceneClearsOnly(t *testing.T) {
	rec, r := newRenderer(t)
	require.NoError(t, r.RenderFrame(scene.NewScene()))

	frame := rec.LastFrame()
	require.Len(t, frame.Passes, 1)
	pass := frame.Passes[0]
	assert.True(t, pass.Ended)
	assert.True(t, pass.Desc.Depth)
	assert.Equal(t, DefaultClearColor, pass.Desc.ClearColor)
	assert.Empty(t, pass.Draws)
	assert.Equal(t, 1, rec.Presents)
	assert.Equal(t, 0, r.Stats().DrawCalls)
}

func TestRenderTriangleScene(t *testing.T) {
	rec, r := newRenderer(t)
	l := light.NewPointLight(light.WithPosition(0, 0, 1))
	s := triangleScene(l)

	require.NoError(t, r.RenderFrame(s))
	draws := rec.LastFrame().Draws()
	require.Len(t, draws, 1)

	tri := s.Root.Children[0]
	base, err := r.Catalog().PipelineFor(material.MaterialTypePhong)
	require.NoError(t, err)
	d := draws[0]
	assert.Equal(t, base, d.Pipeline)
	assert.Equal(t, uint32(3), d.IndexCount)
	assert.Equal(t, uint32(1), d.InstanceCount)
	assert.Equal(t, tri.TransformProvider().BindGroup(), d.BindGroups[catalog.TransformGroup])
	assert.Equal(t, tri.Mesh.Material.BindGroupProvider().BindGroup(), d.BindGroups[catalog.MaterialGroup])
	assert.Equal(t, l.BindGroupProvider().BindGroup(), d.BindGroups[catalog.LightGroup])
	assert.Equal(t, tri.Mesh.BindGroupProvider().VertexBuffer(), d.VertexBuffer)
	assert.Equal(t, tri.Mesh.BindGroupProvider().IndexBuffer(), d.IndexBuffer)

	// root + triangle transforms, one material, the light and its view info
	assert.Equal(t, DrawStats{DrawCalls: 1, Lights: 1, Writes: 5}, r.Stats())
}

func TestRenderReusesResourcesAcrossFrames(t *testing.T) {
	rec, r := newRenderer(t)
	s := triangleScene(light.NewPointLight())

	require.NoError(t, r.RenderFrame(s))
	bindGroups := rec.BindGroupCount()
	live := rec.LiveBuffers()
	first := rec.LastFrame().Draws()[0]

	require.NoError(t, r.RenderFrame(s))
	second := rec.LastFrame().Draws()[0]
	assert.Equal(t, bindGroups, rec.BindGroupCount())
	assert.Equal(t, live, rec.LiveBuffers())
	assert.Equal(t, first, second)
	assert.Equal(t, 2, rec.Presents)
}

func TestRenderUploadsUniformsBeforeThePass(t *testing.T) {
	rec, r := newRenderer(t)
	s := triangleScene(light.NewPointLight())
	require.NoError(t, r.RenderFrame(s))

	frame := rec.LastFrame()
	assert.Len(t, frame.Copies, 5)
	tri := s.Root.Children[0]
	data := rec.Buffer(tri.Mesh.Material.BindGroupProvider().Buffer(0)).Data
	uniform := tri.Mesh.Material.Uniform()
	want := uniform.Marshal()
	require.Len(t, data, material.PhongUniformSize)
	assert.Equal(t, want, data[:len(want)])
	assert.Equal(t, make([]byte, len(data)-len(want)), data[len(want):])
}

func TestRenderAdditiveLightPasses(t *testing.T) {
	rec, r := newRenderer(t)
	l0 := light.NewPointLight(light.WithPosition(0, 0, 1))
	l1 := light.NewPointLight(light.WithPosition(1, 0, 0), light.WithColor(0, 0, 1))
	s := triangleScene(l0, l1)

	require.NoError(t, r.RenderFrame(s))
	draws := rec.LastFrame().Draws()
	require.Len(t, draws, 2)

	base, err := r.Catalog().PipelineFor(material.MaterialTypePhong)
	require.NoError(t, err)
	additive, err := r.Catalog().AdditivePipelineFor(material.MaterialTypePhong)
	require.NoError(t, err)
	assert.Equal(t, base, draws[0].Pipeline)
	assert.Equal(t, additive, draws[1].Pipeline)
	assert.Equal(t, l0.BindGroupProvider().BindGroup(), draws[0].BindGroups[catalog.LightGroup])
	assert.Equal(t, l1.BindGroupProvider().BindGroup(), draws[1].BindGroups[catalog.LightGroup])

	desc, ok := rec.Pipeline(additive)
	require.True(t, ok)
	assert.Equal(t, backend.BlendModeAdditive, desc.Blend)
	assert.False(t, desc.DepthWriteEnabled)
	assert.Equal(t, 2, r.Stats().Lights)
}

func TestRenderSkipsTexturedMeshes(t *testing.T) {
	rec, r := newRenderer(t)
	s := triangleScene(light.NewPointLight())
	textured := triangle("textured", material.NewPhongTextured("does-not-exist.png"))
	s.Root.AddChild(textured)

	require.NoError(t, r.RenderFrame(s))
	draws := rec.LastFrame().Draws()
	require.Len(t, draws, 1)
	assert.NotEqual(t, textured.Mesh.BindGroupProvider().VertexBuffer(), draws[0].VertexBuffer)
	assert.True(t, textured.Mesh.BindGroupProvider().Allocated())
	assert.False(t, textured.Mesh.Material.BindGroupProvider().Allocated())
}

func TestRenderDrawsNestedNodes(t *testing.T) {
	rec, r := newRenderer(t)
	s := triangleScene(light.NewPointLight())
	group := scene.NewEmpty(scene.WithMatrix(common.TranslationMatrix(common.Vec3{0, 0, -0.5})))
	group.AddChild(triangle("inner", material.NewPhong()))
	s.Root.AddChild(group)
	s.Camera = camera.NewPerspectiveCamera(camera.WithLookAt(common.Vec3{0, 0, 2}, common.Vec3{}, common.Vec3{0, 1, 0}))

	require.NoError(t, r.RenderFrame(s))
	draws := rec.LastFrame().Draws()
	require.Len(t, draws, 2)
	inner := group.Children[0]
	assert.Equal(t, inner.TransformProvider().BindGroup(), draws[1].BindGroups[catalog.TransformGroup])
}

func TestRenderWithoutLightsDrawsNothing(t *testing.T) {
	rec, r := newRenderer(t)
	require.NoError(t, r.RenderFrame(triangleScene()))
	assert.Empty(t, rec.LastFrame().Draws())
	assert.Equal(t, 1, rec.Presents)
}

func TestRenderFrameAcquireFailure(t *testing.T) {
	boom := errors.New("surface lost")
	rec, r := newRenderer(t, backendtest.WithFailure("AcquireTextureView", boom))
	err := r.RenderFrame(triangleScene(light.NewPointLight()))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, rec.Presents)
	assert.Empty(t, rec.Frames)
}

func TestRenderRequiresPopulatedCatalog(t *testing.T) {
	rec := backendtest.NewRecorder()
	r := NewRenderer(rec, rec, catalog.New())
	view, err := rec.AcquireTextureView()
	require.NoError(t, err)
	assert.ErrorIs(t, r.RenderToTextureView(scene.NewScene(), view), catalog.ErrNotPopulated)
}

func TestRenderReleasesStagingAfterSubmit(t *testing.T) {
	rec, r := newRenderer(t)
	s := triangleScene(light.NewPointLight())
	require.NoError(t, r.RenderFrame(s))

	// geometry (2), transforms (2), material (1), light data and view info (2)
	assert.Equal(t, 7, rec.LiveBuffers())
}

func TestWithClearColorAndLabel(t *testing.T) {
	rec := backendtest.NewRecorder()
	cat := catalog.New(catalog.WithShaderValidation(false))
	require.NoError(t, cat.Populate(rec, rec.Capabilities()))
	r := NewRenderer(rec, rec, cat, WithClearColor([4]float64{0, 0, 0, 1}), WithLabel("Offscreen"))

	require.NoError(t, r.RenderFrame(scene.NewScene()))
	frame := rec.LastFrame()
	assert.Equal(t, "Offscreen Encoder", frame.Label)
	assert.Equal(t, "Offscreen Pass", frame.Passes[0].Desc.Label)
	assert.Equal(t, [4]float64{0, 0, 0, 1}, frame.Passes[0].Desc.ClearColor)
}

func TestBindMaterialPanics(t *testing.T) {
	rec := backendtest.NewRecorder()
	view, err := rec.AcquireTextureView()
	require.NoError(t, err)
	enc, err := rec.CreateCommandEncoder("bind")
	require.NoError(t, err)
	pass := enc.BeginRenderPass(backend.RenderPassDescriptor{ColorView: view})
	defer pass.End()

	assert.Panics(t, func() { BindMaterial(pass, material.NewPhongTextured("tex.png")) })
	assert.Panics(t, func() { BindMaterial(pass, material.NewPhong()) })
}

func TestDrawObject3DFiltersByMaterial(t *testing.T) {
	rec, r := newRenderer(t)
	s := triangleScene(light.NewPointLight())
	require.NoError(t, r.RenderFrame(s))

	view, err := rec.AcquireTextureView()
	require.NoError(t, err)
	enc, err := rec.CreateCommandEncoder("filter")
	require.NoError(t, err)
	pass := enc.BeginRenderPass(backend.RenderPassDescriptor{ColorView: view})
	base, err := r.Catalog().PipelineFor(material.MaterialTypePhong)
	require.NoError(t, err)
	pass.SetPipeline(base)

	ds := drawstate.New(material.MaterialTypePhongTextured, r.Catalog())
	assert.Equal(t, 0, DrawObject3D(pass, ds, s.Root))
	ds.CurrentMaterial = material.MaterialTypePhong
	assert.Equal(t, 1, DrawObject3D(pass, ds, s.Root))
	pass.End()
	require.NoError(t, enc.Submit())
}

func TestRenderIntoCallerEncoder(t *testing.T) {
	rec, r := newRenderer(t)
	s := triangleScene(light.NewPointLight())
	view, err := rec.AcquireTextureView()
	require.NoError(t, err)
	enc, err := rec.CreateCommandEncoder("caller")
	require.NoError(t, err)
	batch := staging.NewBatcher()

	require.NoError(t, r.Render(s, enc, batch, view))
	require.NoError(t, enc.Submit())
	batch.Recall(rec)
	assert.Equal(t, "caller", rec.LastFrame().Label)
	assert.Len(t, rec.LastFrame().Draws(), 1)
}
