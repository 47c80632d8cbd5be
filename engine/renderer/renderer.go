package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-phong/common"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/catalog"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/drawstate"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/staging"
	"github.com/Carmen-Shannon/oxy-phong/engine/scene"
)

// DefaultClearColor is the background the render pass clears to.
var DefaultClearColor = [4]float64{1.0, 0.6, 0.8, 1.0}

// DrawStats summarizes the most recently rendered frame.
type DrawStats struct {
	// DrawCalls is the number of indexed draws recorded.
	DrawCalls int
	// Lights is the number of light passes per material type.
	Lights int
	// Writes is the number of uniform writes staged.
	Writes int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	label      string
	clearColor [4]float64

	dev     backend.Backend
	surface backend.Surface
	catalog *catalog.Catalog

	stats DrawStats
}

// Renderer drives one frame of the scene: it synchronizes GPU state through the scene's write
// passes, then redraws the scene once per (material type, light) pair.
//
// Usage pattern:
//  1. Populate a catalog against the surface capabilities
//  2. Create the Renderer with NewRenderer
//  3. Call RenderFrame once per event loop tick, mutating the scene only between calls
type Renderer interface {
	// Render records steps of one frame into enc: the write passes, the staging flush and the
	// render pass with every draw. It does not submit.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - enc: the frame's open encoder
	//   - batch: the frame's staging batch, flushed into enc before the pass
	//   - view: the color target
	//
	// Returns:
	//   - error: the first write or flush error
	Render(s *scene.Scene, enc backend.Encoder, batch *staging.Batcher, view backend.TextureViewHandle) error

	// RenderToTextureView opens an encoder and a staging batch, renders, submits and recalls the batch.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - view: the color target
	//
	// Returns:
	//   - error: error if recording or submission fails
	RenderToTextureView(s *scene.Scene, view backend.TextureViewHandle) error

	// RenderFrame acquires the next surface image, renders into it and presents it.
	//
	// Parameters:
	//   - s: the scene to draw
	//
	// Returns:
	//   - error: error if acquisition or rendering fails; nothing is presented on error
	RenderFrame(s *scene.Scene) error

	// Catalog returns the catalog the renderer draws with.
	Catalog() *catalog.Catalog

	// ClearColor returns the background color.
	ClearColor() [4]float64

	// Stats returns the statistics of the last rendered frame.
	//
	// Returns:
	//   - DrawStats: draw calls, light passes and staged writes
	Stats() DrawStats
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer drawing with a populated catalog.
//
// Parameters:
//   - dev: the backend resources are created on
//   - surface: the presentation surface frames are acquired from
//   - cat: the populated catalog
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified options
func NewRenderer(dev backend.Backend, surface backend.Surface, cat *catalog.Catalog, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:         &sync.Mutex{},
		label:      "Renderer",
		clearColor: DefaultClearColor,
		dev:        dev,
		surface:    surface,
		catalog:    cat,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Catalog() *catalog.Catalog {
	return r.catalog
}

func (r *renderer) ClearColor() [4]float64 {
	return r.clearColor
}

func (r *renderer) Stats() DrawStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Render(s *scene.Scene, enc backend.Encoder, batch *staging.Batcher, view backend.TextureViewHandle) error {
	if !r.catalog.Populated() {
		return catalog.ErrNotPopulated
	}

	ds := drawstate.New(material.MaterialTypePhong, r.catalog)
	ds.Transform(s.Camera.CombinedMatrix())

	if err := s.Root.WriteObject3D(r.dev); err != nil {
		return fmt.Errorf("write geometry: %w", err)
	}
	if err := s.Root.WriteMatrices(r.dev, ds, batch); err != nil {
		return fmt.Errorf("write matrices: %w", err)
	}
	if err := s.Root.WriteMaterials(r.dev, r.catalog, batch); err != nil {
		return fmt.Errorf("write materials: %w", err)
	}
	if err := s.WriteLights(r.dev, r.catalog, batch); err != nil {
		return fmt.Errorf("write lights: %w", err)
	}
	if err := s.WriteViewInfo(r.dev, r.catalog, batch); err != nil {
		return fmt.Errorf("write view info: %w", err)
	}

	stats := DrawStats{Lights: len(s.Lights), Writes: batch.Len()}
	if err := batch.Flush(r.dev, enc); err != nil {
		return fmt.Errorf("flush staging: %w", err)
	}

	pass := enc.BeginRenderPass(backend.RenderPassDescriptor{
		Label:      common.Label(r.label, "Pass"),
		ColorView:  view,
		ClearColor: r.clearColor,
		Depth:      true,
	})
	for _, t := range r.catalog.SupportedTypes() {
		base, err := r.catalog.PipelineFor(t)
		if err != nil {
			pass.End()
			return err
		}
		additive, err := r.catalog.AdditivePipelineFor(t)
		if err != nil {
			pass.End()
			return err
		}

		ds.CurrentMaterial = t
		for i, l := range s.Lights {
			if i == 0 {
				pass.SetPipeline(base)
			} else {
				pass.SetPipeline(additive)
			}
			pass.SetBindGroup(catalog.LightGroup, l.BindGroupProvider().BindGroup())
			stats.DrawCalls += DrawObject3D(pass, ds, s.Root)
		}
	}
	pass.End()

	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
	return nil
}

func (r *renderer) RenderToTextureView(s *scene.Scene, view backend.TextureViewHandle) error {
	enc, err := r.dev.CreateCommandEncoder(common.Label(r.label, "Encoder"))
	if err != nil {
		return err
	}
	batch := staging.NewBatcher(staging.WithLabel(common.Label(r.label, "Staging")))
	defer batch.Recall(r.dev)

	if err := r.Render(s, enc, batch, view); err != nil {
		// Submit also releases the encoder.
		if submitErr := enc.Submit(); submitErr != nil {
			common.Logger().Debug("discarded frame encoder", "error", submitErr)
		}
		return err
	}
	return enc.Submit()
}

func (r *renderer) RenderFrame(s *scene.Scene) error {
	view, err := r.surface.AcquireTextureView()
	if err != nil {
		return fmt.Errorf("acquire frame: %w", err)
	}
	if err := r.RenderToTextureView(s, view); err != nil {
		return err
	}
	r.surface.Present()
	return nil
}
