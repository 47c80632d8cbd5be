// Package wgpubackend implements the renderer backend on cogentcore/webgpu.
package wgpubackend

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/cogentcore/webgpu/wgpu"
)

type sampledTexture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

type frameImage struct {
	handle  backend.TextureViewHandle
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// Backend owns the WebGPU instance, device and surface, and maps backend
// handles onto WebGPU objects.
type Backend struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	forceFallbackAdapter bool
	presentMode          wgpu.PresentMode
	depthView            *wgpu.TextureView
	depthTexture         *wgpu.Texture
	frame                *frameImage

	buffers    *backend.Arena[*wgpu.Buffer]
	layouts    *backend.Arena[*wgpu.BindGroupLayout]
	bindGroups *backend.Arena[*wgpu.BindGroup]
	pipelines  *backend.Arena[*wgpu.RenderPipeline]
	textures   *backend.Arena[sampledTexture]
	views      *backend.Arena[*wgpu.TextureView]
}

var (
	_ backend.Backend = &Backend{}
	_ backend.Surface = &Backend{}
)

// BackendOption configures a Backend before the adapter is requested.
type BackendOption func(*Backend)

// WithForceFallbackAdapter requests the software fallback adapter.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - BackendOption: option function to apply
func WithForceFallbackAdapter(force bool) BackendOption {
	return func(b *Backend) {
		b.forceFallbackAdapter = force
	}
}

// WithPresentMode selects the swap chain present mode by name: "fifo", "immediate" or "mailbox".
// Unknown names keep fifo.
//
// Parameters:
//   - mode: the present mode name
//
// Returns:
//   - BackendOption: option function to apply
func WithPresentMode(mode string) BackendOption {
	return func(b *Backend) {
		switch mode {
		case "immediate":
			b.presentMode = wgpu.PresentModeImmediate
		case "mailbox":
			b.presentMode = wgpu.PresentModeMailbox
		default:
			b.presentMode = wgpu.PresentModeFifo
		}
	}
}

// New creates the WebGPU instance, surface, adapter and device for the given window surface.
// It panics if no adapter or device is available; nothing can be rendered without one.
//
// Parameters:
//   - surfaceDescriptor: the platform surface descriptor from the window
//   - options: functional options
//
// Returns:
//   - *Backend: the initialized backend, surface not yet configured
func New(surfaceDescriptor *wgpu.SurfaceDescriptor, options ...BackendOption) *Backend {
	runtime.LockOSThread()
	b := &Backend{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		buffers:     backend.NewArena[*wgpu.Buffer](),
		layouts:     backend.NewArena[*wgpu.BindGroupLayout](),
		bindGroups:  backend.NewArena[*wgpu.BindGroup](),
		pipelines:   backend.NewArena[*wgpu.RenderPipeline](),
		textures:    backend.NewArena[sampledTexture](),
		views:       backend.NewArena[*wgpu.TextureView](),
	}
	for _, opt := range options {
		opt(b)
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to request adapter: %v", err))
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(fmt.Sprintf("failed to request device: %v", err))
	}
	b.device = d
	b.queue = d.GetQueue()

	common.Logger().Info("webgpu device ready", "fallback", b.forceFallbackAdapter)
	return b
}

func (b *Backend) Capabilities() backend.SurfaceCapabilities {
	caps := b.surface.GetCapabilities(b.adapter)
	formats := make([]backend.TextureFormat, len(caps.Formats))
	for i, f := range caps.Formats {
		formats[i] = backend.TextureFormat(f)
	}
	return backend.SurfaceCapabilities{Formats: formats}
}

func (b *Backend) Configure(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	caps := b.surface.GetCapabilities(b.adapter)
	format, alphaMode, err := surfaceModes(caps.Formats, caps.AlphaModes)
	if err != nil {
		return err
	}
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       width,
		Height:      height,
		PresentMode: b.presentMode,
		AlphaMode:   alphaMode,
	})

	if b.depthView != nil {
		b.depthView.Release()
		b.depthTexture.Release()
	}
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	depthView, err := depthTexture.CreateView(nil)
	if err != nil {
		depthTexture.Release()
		return fmt.Errorf("failed to create depth view: %w", err)
	}
	b.depthTexture = depthTexture
	b.depthView = depthView
	return nil
}

func (b *Backend) AcquireTextureView() (backend.TextureViewHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frame != nil {
		return b.frame.handle, nil
	}

	tex, err := b.surface.GetCurrentTexture()
	if err != nil {
		return 0, fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return 0, fmt.Errorf("failed to create surface view: %w", err)
	}
	h := backend.TextureViewHandle(b.views.Insert(view))
	b.frame = &frameImage{handle: h, texture: tex, view: view}
	return h, nil
}

func (b *Backend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frame == nil {
		return
	}
	b.surface.Present()
	b.views.Remove(uint64(b.frame.handle))
	b.frame.view.Release()
	b.frame.texture.Release()
	b.frame = nil
}

func (b *Backend) CreateBuffer(desc backend.BufferDescriptor) (backend.BufferHandle, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: bufferUsage(desc.Usage),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create buffer %q: %w", desc.Label, err)
	}
	return backend.BufferHandle(b.buffers.Insert(buf)), nil
}

func (b *Backend) CreateBufferInit(label string, usage backend.BufferUsage, contents []byte) (backend.BufferHandle, error) {
	buf, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    bufferUsage(usage),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}
	return backend.BufferHandle(b.buffers.Insert(buf)), nil
}

func (b *Backend) CreateBindGroupLayout(desc backend.BindGroupLayoutDescriptor) (backend.BindGroupLayoutHandle, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: shaderStage(e.Visibility),
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: e.MinBindingSize,
			},
		}
	}
	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bind group layout %q: %w", desc.Label, err)
	}
	return backend.BindGroupLayoutHandle(b.layouts.Insert(layout)), nil
}

func (b *Backend) CreateBindGroup(desc backend.BindGroupDescriptor) (backend.BindGroupHandle, error) {
	layout, ok := b.layouts.Get(uint64(desc.Layout))
	if !ok {
		return 0, fmt.Errorf("bind group %q layout: %w", desc.Label, backend.ErrInvalidHandle)
	}
	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		buf, ok := b.buffers.Get(uint64(e.Buffer))
		if !ok {
			return 0, fmt.Errorf("bind group %q binding %d: %w", desc.Label, e.Binding, backend.ErrInvalidHandle)
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}
	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bind group %q: %w", desc.Label, err)
	}
	return backend.BindGroupHandle(b.bindGroups.Insert(bg)), nil
}

func (b *Backend) CreateTexture(label string, data common.TextureStagingData) (backend.TextureHandle, error) {
	size := wgpu.Extent3D{
		Width:              data.Width,
		Height:             data.Height,
		DepthOrArrayLayers: 1,
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create texture %q: %w", label, err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  data.BytesPerRow(),
			RowsPerImage: data.Height,
		},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return 0, fmt.Errorf("failed to create texture view %q: %w", label, err)
	}
	return backend.TextureHandle(b.textures.Insert(sampledTexture{texture: tex, view: view})), nil
}

func (b *Backend) ReleaseBuffer(h backend.BufferHandle) {
	if buf, ok := b.buffers.Remove(uint64(h)); ok {
		buf.Release()
	}
}

func (b *Backend) ReleaseBindGroup(h backend.BindGroupHandle) {
	if bg, ok := b.bindGroups.Remove(uint64(h)); ok {
		bg.Release()
	}
}

// Release frees every live GPU object, the surface and the device.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bindGroups.Each(func(_ uint64, bg *wgpu.BindGroup) { bg.Release() })
	b.buffers.Each(func(_ uint64, buf *wgpu.Buffer) { buf.Release() })
	b.pipelines.Each(func(_ uint64, p *wgpu.RenderPipeline) { p.Release() })
	b.layouts.Each(func(_ uint64, l *wgpu.BindGroupLayout) { l.Release() })
	b.textures.Each(func(_ uint64, t sampledTexture) {
		t.view.Release()
		t.texture.Release()
	})
	if b.depthView != nil {
		b.depthView.Release()
		b.depthTexture.Release()
	}
	b.surface.Release()
	b.queue.Release()
	b.device.Release()
	b.adapter.Release()
	b.instance.Release()
}

// surfaceModes picks the preferred (first reported) format and alpha mode of a surface.
func surfaceModes(formats []wgpu.TextureFormat, alphaModes []wgpu.CompositeAlphaMode) (wgpu.TextureFormat, wgpu.CompositeAlphaMode, error) {
	if len(formats) == 0 {
		return 0, 0, errors.New("surface reports no formats")
	}
	if len(alphaModes) == 0 {
		return 0, 0, errors.New("surface reports no alpha modes")
	}
	return formats[0], alphaModes[0], nil
}
