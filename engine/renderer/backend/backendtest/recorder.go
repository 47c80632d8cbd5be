// Package backendtest provides an in-memory backend that records every GPU
// command so renderer behavior can be asserted without a device.
package backendtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
)

// Buffer is a recorded buffer and its current contents.
type Buffer struct {
	Label    string
	Usage    backend.BufferUsage
	Data     []byte
	Released bool
}

// BindGroup is a recorded bind group.
type BindGroup struct {
	Desc     backend.BindGroupDescriptor
	Released bool
}

// Texture is a recorded texture upload.
type Texture struct {
	Label string
	Data  common.TextureStagingData
}

// Copy is one recorded buffer to buffer copy.
type Copy struct {
	Src, Dst             backend.BufferHandle
	SrcOffset, DstOffset uint64
	Size                 uint64
}

// Draw is one recorded indexed draw and the state bound when it was issued.
type Draw struct {
	Pipeline      backend.PipelineHandle
	BindGroups    map[uint32]backend.BindGroupHandle
	VertexBuffer  backend.BufferHandle
	IndexBuffer   backend.BufferHandle
	IndexCount    uint32
	InstanceCount uint32
}

// Pass is one recorded render pass.
type Pass struct {
	Desc  backend.RenderPassDescriptor
	Draws []Draw
	Ended bool
}

// Frame is everything recorded by one encoder, in submission order.
type Frame struct {
	Label  string
	Copies []Copy
	Passes []Pass
}

// Draws returns every draw of every pass of the frame.
func (f Frame) Draws() []Draw {
	var out []Draw
	for _, p := range f.Passes {
		out = append(out, p.Draws...)
	}
	return out
}

// Recorder implements backend.Backend and backend.Surface in memory.
type Recorder struct {
	mu sync.Mutex

	buffers    *backend.Arena[*Buffer]
	layouts    *backend.Arena[backend.BindGroupLayoutDescriptor]
	bindGroups *backend.Arena[*BindGroup]
	pipelines  *backend.Arena[backend.RenderPipelineDescriptor]
	textures   *backend.Arena[*Texture]
	views      *backend.Arena[string]

	formats []backend.TextureFormat
	fail    map[string]error

	// Frames holds every submitted encoder in order.
	Frames []Frame
	// Presents counts calls to Present.
	Presents int
	// Width and Height are the last configured surface size.
	Width, Height uint32
}

var (
	_ backend.Backend = &Recorder{}
	_ backend.Surface = &Recorder{}
)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithFormats sets the surface formats reported by Capabilities.
func WithFormats(formats ...backend.TextureFormat) RecorderOption {
	return func(r *Recorder) {
		r.formats = formats
	}
}

// WithFailure makes the named operation (for example "CreateRenderPipeline") return err.
func WithFailure(op string, err error) RecorderOption {
	return func(r *Recorder) {
		r.fail[op] = err
	}
}

// NewRecorder creates a Recorder reporting a single surface format of 1.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Recorder: the recorder
func NewRecorder(options ...RecorderOption) *Recorder {
	r := &Recorder{
		buffers:    backend.NewArena[*Buffer](),
		layouts:    backend.NewArena[backend.BindGroupLayoutDescriptor](),
		bindGroups: backend.NewArena[*BindGroup](),
		pipelines:  backend.NewArena[backend.RenderPipelineDescriptor](),
		textures:   backend.NewArena[*Texture](),
		views:      backend.NewArena[string](),
		formats:    []backend.TextureFormat{1},
		fail:       make(map[string]error),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *Recorder) failure(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fail[op]
}

func (r *Recorder) CreateBuffer(desc backend.BufferDescriptor) (backend.BufferHandle, error) {
	if err := r.failure("CreateBuffer"); err != nil {
		return 0, err
	}
	if desc.Size == 0 {
		return 0, errors.New("buffer size must be non-zero")
	}
	id := r.buffers.Insert(&Buffer{Label: desc.Label, Usage: desc.Usage, Data: make([]byte, desc.Size)})
	return backend.BufferHandle(id), nil
}

func (r *Recorder) CreateBufferInit(label string, usage backend.BufferUsage, contents []byte) (backend.BufferHandle, error) {
	if err := r.failure("CreateBufferInit"); err != nil {
		return 0, err
	}
	if len(contents) == 0 {
		return 0, errors.New("buffer contents must be non-empty")
	}
	data := make([]byte, len(contents))
	copy(data, contents)
	id := r.buffers.Insert(&Buffer{Label: label, Usage: usage, Data: data})
	return backend.BufferHandle(id), nil
}

func (r *Recorder) CreateBindGroupLayout(desc backend.BindGroupLayoutDescriptor) (backend.BindGroupLayoutHandle, error) {
	if err := r.failure("CreateBindGroupLayout"); err != nil {
		return 0, err
	}
	return backend.BindGroupLayoutHandle(r.layouts.Insert(desc)), nil
}

func (r *Recorder) CreateBindGroup(desc backend.BindGroupDescriptor) (backend.BindGroupHandle, error) {
	if err := r.failure("CreateBindGroup"); err != nil {
		return 0, err
	}
	layout, ok := r.layouts.Get(uint64(desc.Layout))
	if !ok {
		return 0, fmt.Errorf("bind group %q: layout %d: %w", desc.Label, desc.Layout, backend.ErrInvalidHandle)
	}
	if len(layout.Entries) != len(desc.Entries) {
		return 0, fmt.Errorf("bind group %q has %d entries, layout expects %d", desc.Label, len(desc.Entries), len(layout.Entries))
	}
	for i, e := range desc.Entries {
		buf, ok := r.buffers.Get(uint64(e.Buffer))
		if !ok || buf.Released {
			return 0, fmt.Errorf("bind group %q binding %d: %w", desc.Label, e.Binding, backend.ErrInvalidHandle)
		}
		le := layout.Entries[i]
		if le.Binding != e.Binding {
			return 0, fmt.Errorf("bind group %q entry %d binds %d, layout expects %d", desc.Label, i, e.Binding, le.Binding)
		}
		if uint64(len(buf.Data)) < le.MinBindingSize {
			return 0, fmt.Errorf("bind group %q binding %d: buffer is %d bytes, layout requires %d", desc.Label, e.Binding, len(buf.Data), le.MinBindingSize)
		}
	}
	return backend.BindGroupHandle(r.bindGroups.Insert(&BindGroup{Desc: desc})), nil
}

func (r *Recorder) CreateRenderPipeline(desc backend.RenderPipelineDescriptor) (backend.PipelineHandle, error) {
	if err := r.failure("CreateRenderPipeline"); err != nil {
		return 0, err
	}
	for _, l := range desc.BindGroupLayouts {
		if _, ok := r.layouts.Get(uint64(l)); !ok {
			return 0, fmt.Errorf("pipeline %q: layout %d: %w", desc.Label, l, backend.ErrInvalidHandle)
		}
	}
	return backend.PipelineHandle(r.pipelines.Insert(desc)), nil
}

func (r *Recorder) CreateTexture(label string, data common.TextureStagingData) (backend.TextureHandle, error) {
	if err := r.failure("CreateTexture"); err != nil {
		return 0, err
	}
	if uint32(len(data.Pixels)) != data.Width*data.Height*4 {
		return 0, fmt.Errorf("texture %q: %d bytes for %dx%d RGBA", label, len(data.Pixels), data.Width, data.Height)
	}
	return backend.TextureHandle(r.textures.Insert(&Texture{Label: label, Data: data})), nil
}

func (r *Recorder) CreateCommandEncoder(label string) (backend.Encoder, error) {
	if err := r.failure("CreateCommandEncoder"); err != nil {
		return nil, err
	}
	return &encoder{rec: r, frame: Frame{Label: label}}, nil
}

func (r *Recorder) ReleaseBuffer(h backend.BufferHandle) {
	if buf, ok := r.buffers.Get(uint64(h)); ok {
		buf.Released = true
	}
}

func (r *Recorder) ReleaseBindGroup(h backend.BindGroupHandle) {
	if bg, ok := r.bindGroups.Get(uint64(h)); ok {
		bg.Released = true
	}
}

func (r *Recorder) Capabilities() backend.SurfaceCapabilities {
	return backend.SurfaceCapabilities{Formats: r.formats}
}

func (r *Recorder) Configure(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Width, r.Height = width, height
	return nil
}

func (r *Recorder) AcquireTextureView() (backend.TextureViewHandle, error) {
	if err := r.failure("AcquireTextureView"); err != nil {
		return 0, err
	}
	return backend.TextureViewHandle(r.views.Insert("frame")), nil
}

func (r *Recorder) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Presents++
}

// Buffer returns the recorded buffer for h, or nil.
func (r *Recorder) Buffer(h backend.BufferHandle) *Buffer {
	buf, _ := r.buffers.Get(uint64(h))
	return buf
}

// BindGroup returns the recorded bind group for h, or nil.
func (r *Recorder) BindGroup(h backend.BindGroupHandle) *BindGroup {
	bg, _ := r.bindGroups.Get(uint64(h))
	return bg
}

// BindGroupLayout returns the recorded layout descriptor for h.
func (r *Recorder) BindGroupLayout(h backend.BindGroupLayoutHandle) (backend.BindGroupLayoutDescriptor, bool) {
	return r.layouts.Get(uint64(h))
}

// Pipeline returns the recorded pipeline descriptor for h.
func (r *Recorder) Pipeline(h backend.PipelineHandle) (backend.RenderPipelineDescriptor, bool) {
	return r.pipelines.Get(uint64(h))
}

// Texture returns the recorded texture for h, or nil.
func (r *Recorder) Texture(h backend.TextureHandle) *Texture {
	tex, _ := r.textures.Get(uint64(h))
	return tex
}

// LiveBuffers counts buffers that have not been released.
func (r *Recorder) LiveBuffers() int {
	n := 0
	r.buffers.Each(func(_ uint64, b *Buffer) {
		if !b.Released {
			n++
		}
	})
	return n
}

// BufferCount returns the number of buffers ever created.
func (r *Recorder) BufferCount() int { return r.buffers.Len() }

// BindGroupCount returns the number of bind groups ever created.
func (r *Recorder) BindGroupCount() int { return r.bindGroups.Len() }

// BindGroupLayoutCount returns the number of layouts ever created.
func (r *Recorder) BindGroupLayoutCount() int { return r.layouts.Len() }

// PipelineCount returns the number of pipelines ever created.
func (r *Recorder) PipelineCount() int { return r.pipelines.Len() }

// TextureCount returns the number of textures ever created.
func (r *Recorder) TextureCount() int { return r.textures.Len() }

// LastFrame returns the most recently submitted frame.
func (r *Recorder) LastFrame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}
