package backendtest

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
)

type encoder struct {
	rec       *Recorder
	frame     Frame
	open      *renderPass
	submitted bool
	err       error
}

func (e *encoder) setErr(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) CopyBufferToBuffer(src backend.BufferHandle, srcOffset uint64, dst backend.BufferHandle, dstOffset uint64, size uint64) {
	if e.open != nil {
		e.setErr(errors.New("copy recorded while a render pass is open"))
		return
	}
	if size%4 != 0 || srcOffset%4 != 0 || dstOffset%4 != 0 {
		e.setErr(fmt.Errorf("unaligned copy of %d bytes (%d -> %d)", size, srcOffset, dstOffset))
		return
	}
	e.frame.Copies = append(e.frame.Copies, Copy{Src: src, SrcOffset: srcOffset, Dst: dst, DstOffset: dstOffset, Size: size})
}

func (e *encoder) BeginRenderPass(desc backend.RenderPassDescriptor) backend.RenderPass {
	if e.open != nil {
		e.setErr(errors.New("render pass begun while another is open"))
	}
	if _, ok := e.rec.views.Get(uint64(desc.ColorView)); !ok {
		e.setErr(fmt.Errorf("render pass color view %d: %w", desc.ColorView, backend.ErrInvalidHandle))
	}
	e.frame.Passes = append(e.frame.Passes, Pass{Desc: desc})
	e.open = &renderPass{enc: e, index: len(e.frame.Passes) - 1, bindGroups: make(map[uint32]backend.BindGroupHandle)}
	return e.open
}

func (e *encoder) Submit() error {
	if e.submitted {
		return errors.New("encoder already submitted")
	}
	e.submitted = true
	if e.open != nil {
		e.setErr(errors.New("submitted with an open render pass"))
	}
	if e.err != nil {
		return e.err
	}

	for _, c := range e.frame.Copies {
		src := e.rec.Buffer(c.Src)
		dst := e.rec.Buffer(c.Dst)
		if src == nil || dst == nil || src.Released || dst.Released {
			return fmt.Errorf("copy %d -> %d: %w", c.Src, c.Dst, backend.ErrInvalidHandle)
		}
		if !src.Usage.Has(backend.BufferUsageCopySrc) || !dst.Usage.Has(backend.BufferUsageCopyDst) {
			return fmt.Errorf("copy %q -> %q: missing copy usage", src.Label, dst.Label)
		}
		if c.SrcOffset+c.Size > uint64(len(src.Data)) || c.DstOffset+c.Size > uint64(len(dst.Data)) {
			return fmt.Errorf("copy %q -> %q of %d bytes is out of range", src.Label, dst.Label, c.Size)
		}
		copy(dst.Data[c.DstOffset:c.DstOffset+c.Size], src.Data[c.SrcOffset:c.SrcOffset+c.Size])
	}

	e.rec.mu.Lock()
	e.rec.Frames = append(e.rec.Frames, e.frame)
	e.rec.mu.Unlock()
	return nil
}

type renderPass struct {
	enc          *encoder
	index        int
	pipeline     backend.PipelineHandle
	bindGroups   map[uint32]backend.BindGroupHandle
	vertexBuffer backend.BufferHandle
	indexBuffer  backend.BufferHandle
	ended        bool
}

func (p *renderPass) live() bool {
	if p.ended {
		p.enc.setErr(errors.New("command recorded on an ended render pass"))
		return false
	}
	return true
}

func (p *renderPass) SetPipeline(h backend.PipelineHandle) {
	if !p.live() {
		return
	}
	if _, ok := p.enc.rec.pipelines.Get(uint64(h)); !ok {
		p.enc.setErr(fmt.Errorf("pipeline %d: %w", h, backend.ErrInvalidHandle))
	}
	p.pipeline = h
}

func (p *renderPass) SetBindGroup(slot uint32, h backend.BindGroupHandle) {
	if !p.live() {
		return
	}
	if bg := p.enc.rec.BindGroup(h); bg == nil || bg.Released {
		p.enc.setErr(fmt.Errorf("bind group %d at slot %d: %w", h, slot, backend.ErrInvalidHandle))
	}
	p.bindGroups[slot] = h
}

func (p *renderPass) SetVertexBuffer(slot uint32, h backend.BufferHandle) {
	if !p.live() {
		return
	}
	if buf := p.enc.rec.Buffer(h); buf == nil || !buf.Usage.Has(backend.BufferUsageVertex) {
		p.enc.setErr(fmt.Errorf("vertex buffer %d at slot %d is not a vertex buffer", h, slot))
	}
	p.vertexBuffer = h
}

func (p *renderPass) SetIndexBuffer(h backend.BufferHandle, format backend.IndexFormat) {
	if !p.live() {
		return
	}
	if buf := p.enc.rec.Buffer(h); buf == nil || !buf.Usage.Has(backend.BufferUsageIndex) {
		p.enc.setErr(fmt.Errorf("index buffer %d is not an index buffer", h))
	}
	if format != backend.IndexFormatUint32 {
		p.enc.setErr(errors.New("only uint32 indices are recorded"))
	}
	p.indexBuffer = h
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount uint32) {
	if !p.live() {
		return
	}
	if p.pipeline == 0 {
		p.enc.setErr(errors.New("draw without a pipeline"))
	}
	if p.indexBuffer == 0 || p.vertexBuffer == 0 {
		p.enc.setErr(errors.New("draw without vertex and index buffers"))
	} else if buf := p.enc.rec.Buffer(p.indexBuffer); buf != nil && uint64(indexCount)*4 > uint64(len(buf.Data)) {
		p.enc.setErr(fmt.Errorf("draw of %d indices overruns index buffer %q", indexCount, buf.Label))
	}

	groups := make(map[uint32]backend.BindGroupHandle, len(p.bindGroups))
	for k, v := range p.bindGroups {
		groups[k] = v
	}
	pass := &p.enc.frame.Passes[p.index]
	pass.Draws = append(pass.Draws, Draw{
		Pipeline:      p.pipeline,
		BindGroups:    groups,
		VertexBuffer:  p.vertexBuffer,
		IndexBuffer:   p.indexBuffer,
		IndexCount:    indexCount,
		InstanceCount: instanceCount,
	})
}

func (p *renderPass) End() {
	if !p.live() {
		return
	}
	p.ended = true
	p.enc.frame.Passes[p.index].Ended = true
	if p.enc.open == p {
		p.enc.open = nil
	}
}
