// Package backend defines the GPU abstraction the renderer records against.
// Resources are addressed by handles into backend-owned arenas so the scene
// graph never holds GPU objects directly.
package backend

import "github.com/Carmen-Shannon/oxy-phong/common"

// Backend creates and releases GPU resources and opens command encoders.
type Backend interface {
	// CreateBuffer creates a buffer with undefined contents.
	//
	// Parameters:
	//   - desc: size, usage and label of the buffer
	//
	// Returns:
	//   - BufferHandle: the new buffer
	//   - error: error if the device rejects the descriptor
	CreateBuffer(desc BufferDescriptor) (BufferHandle, error)

	// CreateBufferInit creates a buffer holding a copy of contents.
	//
	// Parameters:
	//   - label: debug label
	//   - usage: buffer usage flags
	//   - contents: initial bytes, copied before the call returns
	//
	// Returns:
	//   - BufferHandle: the new buffer
	//   - error: error if the device rejects the buffer
	CreateBufferInit(label string, usage BufferUsage, contents []byte) (BufferHandle, error)

	// CreateBindGroupLayout creates a bind group layout.
	//
	// Parameters:
	//   - desc: the layout entries
	//
	// Returns:
	//   - BindGroupLayoutHandle: the new layout
	//   - error: error if the device rejects the descriptor
	CreateBindGroupLayout(desc BindGroupLayoutDescriptor) (BindGroupLayoutHandle, error)

	// CreateBindGroup creates a bind group binding buffers to a layout.
	//
	// Parameters:
	//   - desc: the layout and the buffer entries
	//
	// Returns:
	//   - BindGroupHandle: the new bind group
	//   - error: error if a handle is invalid or the entries do not match the layout
	CreateBindGroup(desc BindGroupDescriptor) (BindGroupHandle, error)

	// CreateRenderPipeline compiles the shader and creates a render pipeline.
	//
	// Parameters:
	//   - desc: the full pipeline description
	//
	// Returns:
	//   - PipelineHandle: the new pipeline
	//   - error: error if the shader does not compile or the layout is invalid
	CreateRenderPipeline(desc RenderPipelineDescriptor) (PipelineHandle, error)

	// CreateTexture creates a sampled RGBA texture and uploads data into it.
	//
	// Parameters:
	//   - label: debug label
	//   - data: RGBA pixels and dimensions
	//
	// Returns:
	//   - TextureHandle: the new texture
	//   - error: error if the texture cannot be created
	CreateTexture(label string, data common.TextureStagingData) (TextureHandle, error)

	// CreateCommandEncoder opens a command recording scope.
	//
	// Parameters:
	//   - label: debug label
	//
	// Returns:
	//   - Encoder: the encoder, submitted exactly once
	//   - error: error if the device cannot create an encoder
	CreateCommandEncoder(label string) (Encoder, error)

	ReleaseBuffer(h BufferHandle)
	ReleaseBindGroup(h BindGroupHandle)
}

// Encoder records copies and render passes and submits them to the queue.
type Encoder interface {
	// CopyBufferToBuffer records a copy of size bytes from src to dst.
	// Copies must be recorded while no render pass is open.
	CopyBufferToBuffer(src BufferHandle, srcOffset uint64, dst BufferHandle, dstOffset uint64, size uint64)

	// BeginRenderPass opens a render pass. The pass must be ended before Submit.
	//
	// Parameters:
	//   - desc: the color target, clear color and depth usage
	//
	// Returns:
	//   - RenderPass: the open pass
	BeginRenderPass(desc RenderPassDescriptor) RenderPass

	// Submit finishes recording and submits the commands.
	//
	// Returns:
	//   - error: error if recording was invalid or submission failed
	Submit() error
}

// RenderPass records draw state and draw calls.
type RenderPass interface {
	SetPipeline(p PipelineHandle)
	SetBindGroup(slot uint32, bg BindGroupHandle)
	SetVertexBuffer(slot uint32, buf BufferHandle)
	SetIndexBuffer(buf BufferHandle, format IndexFormat)
	DrawIndexed(indexCount, instanceCount uint32)
	End()
}

// Surface is the presentation collaborator the orchestrator acquires frames from.
type Surface interface {
	// Capabilities returns the formats the surface supports, preferred first.
	//
	// Returns:
	//   - SurfaceCapabilities: the supported formats
	Capabilities() SurfaceCapabilities

	// Configure sizes the swap chain and any depth attachment.
	//
	// Parameters:
	//   - width: width in pixels
	//   - height: height in pixels
	//
	// Returns:
	//   - error: error if the size is invalid
	Configure(width, height uint32) error

	// AcquireTextureView returns a view of the next swap chain image.
	//
	// Returns:
	//   - TextureViewHandle: the frame's color target
	//   - error: error if no image is available
	AcquireTextureView() (TextureViewHandle, error)

	// Present shows the most recently acquired image.
	Present()
}
