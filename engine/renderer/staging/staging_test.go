package staging

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend/backendtest"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/bind_group_provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allocatedProvider(t *testing.T, rec *backendtest.Recorder, label string, sizes ...uint64) bind_group_provider.BindGroupProvider {
	t.Helper()
	entries := make([]backend.BindGroupLayoutEntry, len(sizes))
	for i, s := range sizes {
		entries[i] = backend.BindGroupLayoutEntry{Binding: uint32(i), MinBindingSize: s}
	}
	layout, err := rec.CreateBindGroupLayout(backend.BindGroupLayoutDescriptor{Entries: entries})
	require.NoError(t, err)
	p := bind_group_provider.NewBindGroupProvider(label)
	require.NoError(t, p.Allocate(rec, layout, entries))
	return p
}

func TestFlushCopiesEveryWrite(t *testing.T) {
	rec := backendtest.NewRecorder()
	light := allocatedProvider(t, rec, "light", 8, 4)
	node := allocatedProvider(t, rec, "node", 4)

	b := NewBatcher()
	require.NoError(t, b.Write(light, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8}))
	require.NoError(t, b.Write(light, 1, []byte{9, 9, 9, 9}))
	require.NoError(t, b.Enqueue(bind_group_provider.BufferWrite{Provider: node, Binding: 0, Data: []byte{7, 7, 7, 7}}))
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, uint64(16), b.Bytes())

	enc, err := rec.CreateCommandEncoder("frame")
	require.NoError(t, err)
	require.NoError(t, b.Flush(rec, enc))
	assert.Zero(t, b.Len())
	assert.Zero(t, b.Bytes())
	require.NoError(t, enc.Submit())

	assert.Len(t, rec.LastFrame().Copies, 3)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, rec.Buffer(light.Buffer(0)).Data)
	assert.Equal(t, []byte{9, 9, 9, 9}, rec.Buffer(light.Buffer(1)).Data)
	assert.Equal(t, []byte{7, 7, 7, 7}, rec.Buffer(node.Buffer(0)).Data)
}

func TestWriteSnapshotsData(t *testing.T) {
	rec := backendtest.NewRecorder()
	node := allocatedProvider(t, rec, "node", 4)
	b := NewBatcher()

	data := []byte{1, 1, 1, 1}
	require.NoError(t, b.Write(node, 0, data))
	data[0] = 42

	enc, _ := rec.CreateCommandEncoder("frame")
	require.NoError(t, b.Flush(rec, enc))
	require.NoError(t, enc.Submit())
	assert.Equal(t, []byte{1, 1, 1, 1}, rec.Buffer(node.Buffer(0)).Data)
}

func TestWriteRejectsUnalignedData(t *testing.T) {
	rec := backendtest.NewRecorder()
	node := allocatedProvider(t, rec, "node", 8)
	b := NewBatcher()
	assert.ErrorIs(t, b.Write(node, 0, []byte{1, 2, 3}), ErrUnaligned)
	assert.ErrorIs(t, b.Enqueue(bind_group_provider.BufferWrite{Provider: node, Offset: 2, Data: []byte{1, 2, 3, 4}}), ErrUnaligned)
	assert.Zero(t, b.Len())
}

func TestWriteRejectsUnallocatedProvider(t *testing.T) {
	b := NewBatcher()
	p := bind_group_provider.NewBindGroupProvider("fresh")
	assert.ErrorIs(t, b.Write(p, 0, []byte{1, 2, 3, 4}), ErrNoDestination)
}

func TestFlushWithNothingPendingCreatesNoBuffer(t *testing.T) {
	rec := backendtest.NewRecorder()
	b := NewBatcher()
	enc, _ := rec.CreateCommandEncoder("frame")
	require.NoError(t, b.Flush(rec, enc))
	assert.Zero(t, rec.BufferCount())
}

func TestRecallReleasesStagingBuffers(t *testing.T) {
	rec := backendtest.NewRecorder()
	node := allocatedProvider(t, rec, "node", 4)
	b := NewBatcher()
	require.NoError(t, b.Write(node, 0, []byte{1, 2, 3, 4}))

	enc, _ := rec.CreateCommandEncoder("frame")
	require.NoError(t, b.Flush(rec, enc))
	require.NoError(t, enc.Submit())
	assert.Equal(t, 2, rec.LiveBuffers())

	b.Recall(rec)
	assert.Equal(t, 1, rec.LiveBuffers())
}
