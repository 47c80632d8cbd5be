package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend/backendtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformLayout(t *testing.T, rec *backendtest.Recorder, sizes ...uint64) (backend.BindGroupLayoutHandle, []backend.BindGroupLayoutEntry) {
	t.Helper()
	entries := make([]backend.BindGroupLayoutEntry, len(sizes))
	for i, s := range sizes {
		entries[i] = backend.BindGroupLayoutEntry{Binding: uint32(i), Visibility: backend.ShaderStageVertex, MinBindingSize: s}
	}
	layout, err := rec.CreateBindGroupLayout(backend.BindGroupLayoutDescriptor{Entries: entries})
	require.NoError(t, err)
	return layout, entries
}

func TestAllocateIsCreateOnce(t *testing.T) {
	rec := backendtest.NewRecorder()
	layout, entries := uniformLayout(t, rec, 32, 16)
	p := NewBindGroupProvider("light")
	assert.Equal(t, StateUninitialized, p.State())

	require.NoError(t, p.Allocate(rec, layout, entries))
	assert.True(t, p.Allocated())
	bg := p.BindGroup()
	b0, b1 := p.Buffer(0), p.Buffer(1)
	assert.NotZero(t, bg)
	assert.Len(t, rec.Buffer(b0).Data, 32)
	assert.Len(t, rec.Buffer(b1).Data, 16)
	assert.True(t, rec.Buffer(b0).Usage.Has(backend.BufferUsageUniform|backend.BufferUsageCopyDst))

	require.NoError(t, p.Allocate(rec, layout, entries))
	assert.Equal(t, bg, p.BindGroup())
	assert.Equal(t, b0, p.Buffer(0))
	assert.Equal(t, 2, rec.BufferCount())
	assert.Equal(t, 1, rec.BindGroupCount())
}

func TestAllocateHonorsBufferSizeOverride(t *testing.T) {
	rec := backendtest.NewRecorder()
	layout, entries := uniformLayout(t, rec, 48)
	p := NewBindGroupProvider("material", WithBufferSize(0, 64))
	require.NoError(t, p.Allocate(rec, layout, entries))
	assert.Len(t, rec.Buffer(p.Buffer(0)).Data, 64)
}

func TestAllocateFailureLeavesProviderUninitialized(t *testing.T) {
	rec := backendtest.NewRecorder(backendtest.WithFailure("CreateBindGroup", assert.AnError))
	layout, entries := uniformLayout(t, rec, 64)

	p := NewBindGroupProvider("broken")
	err := p.Allocate(rec, layout, entries)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, StateUninitialized, p.State())
	assert.Zero(t, p.Buffer(0))
	assert.Zero(t, rec.LiveBuffers())
}

func TestAllocateGeometry(t *testing.T) {
	rec := backendtest.NewRecorder()
	p := NewBindGroupProvider("mesh")
	require.NoError(t, p.AllocateGeometry(rec, make([]byte, 144), []byte{0, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0}, 3))

	assert.True(t, p.Allocated())
	assert.Equal(t, uint32(3), p.IndexCount())
	assert.True(t, rec.Buffer(p.VertexBuffer()).Usage.Has(backend.BufferUsageVertex))
	assert.True(t, rec.Buffer(p.IndexBuffer()).Usage.Has(backend.BufferUsageIndex))

	vb := p.VertexBuffer()
	require.NoError(t, p.AllocateGeometry(rec, make([]byte, 48), make([]byte, 4), 1))
	assert.Equal(t, vb, p.VertexBuffer())
	assert.Equal(t, uint32(3), p.IndexCount())
}

func TestReleaseReturnsToUninitialized(t *testing.T) {
	rec := backendtest.NewRecorder()
	layout, entries := uniformLayout(t, rec, 128)
	p := NewBindGroupProvider("node")
	require.NoError(t, p.Allocate(rec, layout, entries))
	bg := p.BindGroup()

	p.Release(rec)
	assert.Equal(t, StateUninitialized, p.State())
	assert.Zero(t, p.BindGroup())
	assert.True(t, rec.BindGroup(bg).Released)
	assert.Zero(t, rec.LiveBuffers())
}

func TestBufferWrite(t *testing.T) {
	rec := backendtest.NewRecorder()
	layout, entries := uniformLayout(t, rec, 16)
	p := NewBindGroupProvider("material")

	w := BufferWrite{Provider: p, Binding: 0, Offset: 8, Data: []byte{1, 2, 3, 4}}
	assert.EqualValues(t, 4, w.Size())
	assert.True(t, w.Aligned(4))
	assert.Zero(t, w.Destination())

	require.NoError(t, p.Allocate(rec, layout, entries))
	assert.Equal(t, p.Buffer(0), w.Destination())

	w.Offset = 2
	assert.False(t, w.Aligned(4))
	assert.Zero(t, BufferWrite{Binding: 0}.Destination())
	assert.Zero(t, BufferWrite{Provider: p, Binding: 3}.Destination())
}
