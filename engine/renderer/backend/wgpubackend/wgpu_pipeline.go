package wgpubackend

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-phong/engine/renderer/backend"
	"github.com/cogentcore/webgpu/wgpu"
)

func (b *Backend) CreateRenderPipeline(desc backend.RenderPipelineDescriptor) (backend.PipelineHandle, error) {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.ShaderSource,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to compile shader for %q: %w", desc.Label, err)
	}
	defer module.Release()

	bindGroupLayouts := make([]*wgpu.BindGroupLayout, len(desc.BindGroupLayouts))
	for i, h := range desc.BindGroupLayouts {
		layout, ok := b.layouts.Get(uint64(h))
		if !ok {
			return 0, fmt.Errorf("pipeline %q group %d: %w", desc.Label, i, backend.ErrInvalidHandle)
		}
		bindGroupLayouts[i] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create pipeline layout %q: %w", desc.Label, err)
	}
	defer pipelineLayout.Release()

	vertexLayouts := make([]wgpu.VertexBufferLayout, len(desc.VertexBuffers))
	for i, vb := range desc.VertexBuffers {
		attrs := make([]wgpu.VertexAttribute, len(vb.Attributes))
		for j, a := range vb.Attributes {
			attrs[j] = wgpu.VertexAttribute{
				Format:         vertexFormat(a.Format),
				Offset:         a.Offset,
				ShaderLocation: a.ShaderLocation,
			}
		}
		vertexLayouts[i] = wgpu.VertexBufferLayout{
			ArrayStride: vb.ArrayStride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes:  attrs,
		}
	}

	target := wgpu.ColorTargetState{
		Format:    wgpu.TextureFormat(desc.ColorFormat),
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if desc.Blend == backend.BlendModeAdditive {
		target.Blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOne,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: desc.VertexEntryPoint,
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: desc.FragmentEntryPoint,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology(desc.Topology),
			FrontFace: frontFace(desc.FrontFace),
			CullMode:  cullMode(desc.CullMode),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: desc.DepthWriteEnabled,
			DepthCompare:      compareFunction(desc.DepthCompare),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create render pipeline %q: %w", desc.Label, err)
	}
	return backend.PipelineHandle(b.pipelines.Insert(created)), nil
}

func bufferUsage(u backend.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	pairs := []struct {
		from backend.BufferUsage
		to   wgpu.BufferUsage
	}{
		{backend.BufferUsageMapRead, wgpu.BufferUsageMapRead},
		{backend.BufferUsageMapWrite, wgpu.BufferUsageMapWrite},
		{backend.BufferUsageCopySrc, wgpu.BufferUsageCopySrc},
		{backend.BufferUsageCopyDst, wgpu.BufferUsageCopyDst},
		{backend.BufferUsageIndex, wgpu.BufferUsageIndex},
		{backend.BufferUsageVertex, wgpu.BufferUsageVertex},
		{backend.BufferUsageUniform, wgpu.BufferUsageUniform},
		{backend.BufferUsageStorage, wgpu.BufferUsageStorage},
	}
	for _, p := range pairs {
		if u.Has(p.from) {
			out |= p.to
		}
	}
	return out
}

func shaderStage(s backend.ShaderStage) wgpu.ShaderStage {
	var out wgpu.ShaderStage
	if s&backend.ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if s&backend.ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	return out
}

func vertexFormat(f backend.VertexFormat) wgpu.VertexFormat {
	switch f {
	case backend.VertexFormatFloat32x3:
		return wgpu.VertexFormatFloat32x3
	case backend.VertexFormatFloat32x2:
		return wgpu.VertexFormatFloat32x2
	default:
		return wgpu.VertexFormatFloat32x4
	}
}

func topology(t backend.Topology) wgpu.PrimitiveTopology {
	switch t {
	case backend.TopologyTriangleStrip:
		return wgpu.PrimitiveTopologyTriangleStrip
	case backend.TopologyLineList:
		return wgpu.PrimitiveTopologyLineList
	default:
		return wgpu.PrimitiveTopologyTriangleList
	}
}

func frontFace(f backend.FrontFace) wgpu.FrontFace {
	if f == backend.FrontFaceCW {
		return wgpu.FrontFaceCW
	}
	return wgpu.FrontFaceCCW
}

func cullMode(c backend.CullMode) wgpu.CullMode {
	switch c {
	case backend.CullModeFront:
		return wgpu.CullModeFront
	case backend.CullModeBack:
		return wgpu.CullModeBack
	default:
		return wgpu.CullModeNone
	}
}

func compareFunction(c backend.CompareFunction) wgpu.CompareFunction {
	switch c {
	case backend.CompareFunctionLessEqual:
		return wgpu.CompareFunctionLessEqual
	case backend.CompareFunctionAlways:
		return wgpu.CompareFunctionAlways
	default:
		return wgpu.CompareFunctionLess
	}
}
