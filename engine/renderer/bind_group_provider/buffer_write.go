package bind_group_provider

import "github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"

// BufferWrite is one pending upload: Data lands at Offset in the buffer that Provider holds
// for Binding.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  uint32
	Offset   uint64
	Data     []byte
}

// Size returns the number of bytes written.
func (w BufferWrite) Size() uint64 {
	return uint64(len(w.Data))
}

// Aligned reports whether both the offset and the size are multiples of alignment.
func (w BufferWrite) Aligned(alignment uint64) bool {
	return w.Offset%alignment == 0 && w.Size()%alignment == 0
}

// Destination returns the target buffer, or the zero handle if the provider is nil or has no
// buffer at Binding.
func (w BufferWrite) Destination() backend.BufferHandle {
	if w.Provider == nil {
		return 0
	}
	return w.Provider.Buffer(w.Binding)
}
