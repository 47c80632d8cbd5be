// Package staging batches uniform writes for a frame into a single staging
// buffer that is copied to its destinations before the frame's render pass.
package staging

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/bind_group_provider"
)

var (
	// ErrUnaligned is returned for writes whose size or offset is not a multiple of 4 bytes.
	ErrUnaligned = errors.New("staging write is not 4-byte aligned")
	// ErrNoDestination is returned for writes to a binding that has no buffer.
	ErrNoDestination = errors.New("staging write has no destination buffer")
)

// copyAlignment is the WebGPU alignment for buffer copy sizes and offsets.
const copyAlignment = 4

// Batcher accumulates BufferWrites for one frame.
// A Batcher is not safe for concurrent use.
type Batcher struct {
	label    string
	pending  []bind_group_provider.BufferWrite
	size     uint64
	inFlight []backend.BufferHandle
}

// BatcherOption is a functional option used to configure a Batcher.
type BatcherOption func(*Batcher)

// WithLabel sets the debug label of the staging buffers.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - BatcherOption: option function to apply
func WithLabel(label string) BatcherOption {
	return func(b *Batcher) {
		b.label = label
	}
}

// NewBatcher creates an empty Batcher.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Batcher: the batcher
func NewBatcher(options ...BatcherOption) *Batcher {
	b := &Batcher{label: "Staging"}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// Write enqueues data for the buffer at binding of provider, at offset 0.
//
// Parameters:
//   - provider: the allocated destination provider
//   - binding: the destination binding
//   - data: the bytes to write, copied immediately
//
// Returns:
//   - error: ErrUnaligned or ErrNoDestination
func (b *Batcher) Write(provider bind_group_provider.BindGroupProvider, binding uint32, data []byte) error {
	return b.Enqueue(bind_group_provider.BufferWrite{Provider: provider, Binding: binding, Data: data})
}

// Enqueue adds a write to the batch. The data is snapshotted so the caller may reuse its slice.
//
// Parameters:
//   - w: the write
//
// Returns:
//   - error: ErrUnaligned or ErrNoDestination
func (b *Batcher) Enqueue(w bind_group_provider.BufferWrite) error {
	if !w.Aligned(copyAlignment) {
		return fmt.Errorf("%d bytes at offset %d: %w", w.Size(), w.Offset, ErrUnaligned)
	}
	if w.Destination() == 0 {
		return fmt.Errorf("binding %d: %w", w.Binding, ErrNoDestination)
	}
	if len(w.Data) == 0 {
		return nil
	}
	data := make([]byte, len(w.Data))
	copy(data, w.Data)
	w.Data = data
	b.pending = append(b.pending, w)
	b.size += uint64(len(data))
	return nil
}

// Len returns the number of pending writes.
func (b *Batcher) Len() int {
	return len(b.pending)
}

// Bytes returns the number of pending bytes.
func (b *Batcher) Bytes() uint64 {
	return b.size
}

// Flush packs every pending write into one staging buffer and records one copy per
// write into enc. It must be called before the encoder's render pass begins.
// The pending list is cleared even when the staging buffer cannot be created.
//
// Parameters:
//   - dev: the backend to create the staging buffer on
//   - enc: the frame's command encoder
//
// Returns:
//   - error: error if the staging buffer cannot be created
func (b *Batcher) Flush(dev backend.Backend, enc backend.Encoder) error {
	if len(b.pending) == 0 {
		return nil
	}
	pending, total := b.pending, b.size
	b.pending = nil
	b.size = 0

	contents := make([]byte, 0, total)
	for _, w := range pending {
		contents = append(contents, w.Data...)
	}
	stagingBuf, err := dev.CreateBufferInit(b.label+" Buffer", backend.BufferUsageCopySrc, contents)
	if err != nil {
		return fmt.Errorf("failed to create staging buffer: %w", err)
	}
	b.inFlight = append(b.inFlight, stagingBuf)

	var offset uint64
	for _, w := range pending {
		enc.CopyBufferToBuffer(stagingBuf, offset, w.Destination(), w.Offset, w.Size())
		offset += w.Size()
	}
	common.Logger().Debug("staging flushed", "writes", len(pending), "bytes", offset)
	return nil
}

// Recall releases the staging buffers of every flushed batch. Call it after the
// encoder that consumed them was submitted.
//
// Parameters:
//   - dev: the backend the staging buffers were created on
func (b *Batcher) Recall(dev backend.Backend) {
	for _, h := range b.inFlight {
		dev.ReleaseBuffer(h)
	}
	b.inFlight = b.inFlight[:0]
}

