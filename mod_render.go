package voxsculpt

import (
	_ "embed"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/voxel_instanced.wgsl
var voxelInstancedWGSL string

type cubeVertex struct {
	pos    [4]float32 `vox:"layout" location:"0" format:"float4"`
	normal [3]float32 `vox:"layout" location:"1" format:"float3"`
}

// instanceData mirrors the Instance struct of the WGSL shader.
type instanceData struct {
	Model mgl32.Mat4
	Color mgl32.Vec4
}

type renderState struct {
	pipeline     *wgpu.RenderPipeline
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32

	cameraBuffer   *wgpu.Buffer
	instanceBuffer *wgpu.Buffer
	instanceCap    int
	bindGroup      *wgpu.BindGroup

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	depthWidth   uint32
	depthHeight  uint32

	// reused staging slice; grows with the store, never shrinks
	instances []instanceData
}

// RenderModule draws the whole sculpture in a single instanced call:
// one unit cube, one storage buffer of per-instance transform+color
// uploaded from the render bridge every frame. Requires WindowModule.
type RenderModule struct{}

func (mod RenderModule) Install(app *App, cmd *Commands) {
	gpuType := reflect.TypeOf((*GpuState)(nil)).Elem()
	gpuAny, ok := app.resources[gpuType]
	if !ok {
		panic("RenderModule requires WindowModule to be installed first")
	}
	gpuState := gpuAny.(*GpuState)

	rs := createRenderState(gpuState)
	cmd.AddResources(rs)

	app.UseSystem(System(renderSystem).InStage(Render))
}

func createRenderState(gpuState *GpuState) *renderState {
	vertices, indices := cubeGeometry()

	vertexBuffer, err := gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Cube Vertices",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		panic(err)
	}
	indexBuffer, err := gpuState.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Cube Indices",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		panic(err)
	}

	cameraBuffer, err := gpuState.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform",
		Size:  64,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}

	pipeline := createInstancedPipeline(gpuState)

	return &renderState{
		pipeline:     pipeline,
		vertexBuffer: vertexBuffer,
		indexBuffer:  indexBuffer,
		indexCount:   uint32(len(indices)),
		cameraBuffer: cameraBuffer,
	}
}

func createInstancedPipeline(gpuState *GpuState) *wgpu.RenderPipeline {
	shader, err := gpuState.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "voxel_instanced",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: voxelInstancedWGSL},
	})
	if err != nil {
		panic(err)
	}
	defer shader.Release()

	vertexBufferLayout := createVertexBufferLayout(cubeVertex{})

	pipeline, err := gpuState.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexBufferLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    gpuState.surfaceConfig.Format,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		panic(err)
	}
	return pipeline
}

func createVertexBufferLayout(vertexType any) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("Vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64 = 0

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if "layout" == field.Tag.Get("vox") {
			format := parseFormat(field.Tag.Get("format"))
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if nil != err {
				panic(err)
			}

			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}

		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

func parseFormat(name string) wgpu.VertexFormat {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2
	case "float3":
		return wgpu.VertexFormatFloat32x3
	case "float4":
		return wgpu.VertexFormatFloat32x4
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

// ensureInstanceCapacity recreates the storage buffer and bind group
// when the store has grown past the GPU-side capacity.
func (rs *renderState) ensureInstanceCapacity(n int, gpuState *GpuState) {
	if rs.instanceBuffer != nil && n <= rs.instanceCap {
		return
	}

	capacity := rs.instanceCap * 2
	if capacity < n {
		capacity = n
	}
	if capacity < 256 {
		capacity = 256
	}

	if rs.instanceBuffer != nil {
		rs.instanceBuffer.Release()
	}
	if rs.bindGroup != nil {
		rs.bindGroup.Release()
	}

	var err error
	rs.instanceBuffer, err = gpuState.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Instance Storage",
		Size:  uint64(capacity) * uint64(reflect.TypeOf(instanceData{}).Size()),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	rs.instanceCap = capacity

	layout := rs.pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	rs.bindGroup, err = gpuState.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: rs.cameraBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: rs.instanceBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		panic(err)
	}
}

func (rs *renderState) ensureDepthTexture(gpuState *GpuState) {
	w := gpuState.surfaceConfig.Width
	h := gpuState.surfaceConfig.Height
	if rs.depthView != nil && rs.depthWidth == w && rs.depthHeight == h {
		return
	}

	if rs.depthView != nil {
		rs.depthView.Release()
		rs.depthTexture.Release()
	}

	var err error
	rs.depthTexture, err = gpuState.device.CreateTexture(&wgpu.TextureDescriptor{
		Size: wgpu.Extent3D{
			Width:              w,
			Height:             h,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	rs.depthView, err = rs.depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	rs.depthWidth = w
	rs.depthHeight = h
}

func renderSystem(rs *renderState, gpuState *GpuState, buf *InstanceBuffer, cam *OrbitCamera) {
	n := buf.Len()
	if n == 0 {
		return
	}

	rs.ensureInstanceCapacity(n, gpuState)
	rs.ensureDepthTexture(gpuState)

	if cap(rs.instances) < n {
		rs.instances = make([]instanceData, n)
	}
	rs.instances = rs.instances[:n]
	for i := 0; i < n; i++ {
		rs.instances[i] = instanceData{
			Model: buf.Transforms[i],
			Color: buf.Colors[i],
		}
	}

	viewProj := cam.ViewProj
	if err := gpuState.queue.WriteBuffer(rs.cameraBuffer, 0, wgpu.ToBytes(viewProj[:])); err != nil {
		panic(err)
	}
	if err := gpuState.queue.WriteBuffer(rs.instanceBuffer, 0, wgpu.ToBytes(rs.instances)); err != nil {
		panic(err)
	}

	nextTexture, err := gpuState.surface.GetCurrentTexture()
	if err != nil {
		panic(err)
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer view.Release()

	encoder, err := gpuState.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0.06, G: 0.07, B: 0.1, A: 1.0},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            rs.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	defer renderPass.Release()

	renderPass.SetPipeline(rs.pipeline)
	renderPass.SetBindGroup(0, rs.bindGroup, nil)
	renderPass.SetVertexBuffer(0, rs.vertexBuffer, 0, wgpu.WholeSize)
	renderPass.SetIndexBuffer(rs.indexBuffer, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
	renderPass.DrawIndexed(rs.indexCount, uint32(n), 0, 0, 0)

	if err := renderPass.End(); err != nil {
		panic(err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	defer cmdBuffer.Release()

	gpuState.queue.Submit(cmdBuffer)
	gpuState.surface.Present()
}

// cubeGeometry builds a unit cube centered at the origin, four
// vertices per face so normals stay flat.
func cubeGeometry() ([]cubeVertex, []uint16) {
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}}},
	}

	vertices := make([]cubeVertex, 0, 24)
	indices := make([]uint16, 0, 36)
	for _, face := range faces {
		base := uint16(len(vertices))
		for _, c := range face.corners {
			vertices = append(vertices, cubeVertex{
				pos:    [4]float32{c[0], c[1], c[2], 1},
				normal: face.normal,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return vertices, indices
}
