package wgpubackend

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/cogentcore/webgpu/wgpu"
)

type encoder struct {
	b       *Backend
	encoder *wgpu.CommandEncoder
	passes  []*wgpu.RenderPassEncoder
	err     error
}

type renderPass struct {
	enc  *encoder
	pass *wgpu.RenderPassEncoder
}

func (b *Backend) CreateCommandEncoder(label string) (backend.Encoder, error) {
	enc, err := b.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder %q: %w", label, err)
	}
	return &encoder{b: b, encoder: enc}, nil
}

func (e *encoder) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) CopyBufferToBuffer(src backend.BufferHandle, srcOffset uint64, dst backend.BufferHandle, dstOffset uint64, size uint64) {
	s, ok := e.b.buffers.Get(uint64(src))
	if !ok {
		e.setErr(fmt.Errorf("copy source %d: %w", src, backend.ErrInvalidHandle))
		return
	}
	d, ok := e.b.buffers.Get(uint64(dst))
	if !ok {
		e.setErr(fmt.Errorf("copy destination %d: %w", dst, backend.ErrInvalidHandle))
		return
	}
	e.encoder.CopyBufferToBuffer(s, srcOffset, d, dstOffset, size)
}

func (e *encoder) BeginRenderPass(desc backend.RenderPassDescriptor) backend.RenderPass {
	view, ok := e.b.views.Get(uint64(desc.ColorView))
	if !ok {
		e.setErr(fmt.Errorf("render pass color view %d: %w", desc.ColorView, backend.ErrInvalidHandle))
		return nopPass{}
	}
	rp := &wgpu.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: desc.ClearColor[0],
					G: desc.ClearColor[1],
					B: desc.ClearColor[2],
					A: desc.ClearColor[3],
				},
			},
		},
	}
	if desc.Depth && e.b.depthView != nil {
		rp.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            e.b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		}
	}
	pass := e.encoder.BeginRenderPass(rp)
	e.passes = append(e.passes, pass)
	return &renderPass{enc: e, pass: pass}
}

func (e *encoder) Submit() error {
	defer func() {
		for _, p := range e.passes {
			p.Release()
		}
		e.encoder.Release()
	}()
	if e.err != nil {
		return e.err
	}
	commandBuffer, err := e.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	e.b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (p *renderPass) SetPipeline(h backend.PipelineHandle) {
	pipe, ok := p.enc.b.pipelines.Get(uint64(h))
	if !ok {
		p.enc.setErr(fmt.Errorf("pipeline %d: %w", h, backend.ErrInvalidHandle))
		return
	}
	p.pass.SetPipeline(pipe)
}

func (p *renderPass) SetBindGroup(slot uint32, h backend.BindGroupHandle) {
	bg, ok := p.enc.b.bindGroups.Get(uint64(h))
	if !ok {
		p.enc.setErr(fmt.Errorf("bind group %d at slot %d: %w", h, slot, backend.ErrInvalidHandle))
		return
	}
	p.pass.SetBindGroup(slot, bg, nil)
}

func (p *renderPass) SetVertexBuffer(slot uint32, h backend.BufferHandle) {
	buf, ok := p.enc.b.buffers.Get(uint64(h))
	if !ok {
		p.enc.setErr(fmt.Errorf("vertex buffer %d: %w", h, backend.ErrInvalidHandle))
		return
	}
	p.pass.SetVertexBuffer(slot, buf, 0, wgpu.WholeSize)
}

func (p *renderPass) SetIndexBuffer(h backend.BufferHandle, format backend.IndexFormat) {
	buf, ok := p.enc.b.buffers.Get(uint64(h))
	if !ok {
		p.enc.setErr(fmt.Errorf("index buffer %d: %w", h, backend.ErrInvalidHandle))
		return
	}
	if format != backend.IndexFormatUint32 {
		p.enc.setErr(errors.New("only uint32 index buffers are supported"))
		return
	}
	p.pass.SetIndexBuffer(buf, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, 0, 0, 0)
}

func (p *renderPass) End() {
	p.pass.End()
}

// nopPass stands in for a pass that could not be opened; the encoder already holds the error.
type nopPass struct{}

func (nopPass) SetPipeline(backend.PipelineHandle) {}
func (nopPass) SetBindGroup(uint32, backend.BindGroupHandle) {}
func (nopPass) SetVertexBuffer(uint32, backend.BufferHandle) {}
func (nopPass) SetIndexBuffer(backend.BufferHandle, backend.IndexFormat) {}
func (nopPass) DrawIndexed(uint32, uint32) {}
func (nopPass) End() {}
