// Package devstate holds the flat, enum-indexed mirror of Direct3D9 device
// state: render states, per-stage sampler and texture-stage states,
// transforms, clip planes, shader constants, and the current stream/texture/
// render-target bindings. Every Set* call in recorder writes directly into
// one of these arrays; draw-packet building reads them back out.
//
// Grounded on gogpu-gg's recorder state fields (recording/recorder.go's
// recorderState snapshot struct) generalized from a handful of 2D paint
// properties to the much larger, but still flat and array-indexed, D3D9
// fixed-function and shader state surface described in original_source's
// dx9mt_device struct and dx9mt_device_init_default_states.
package devstate

import (
	"math"

	"github.com/dx9mt/dx9mt/objectid"
)

// MaxSamplerStages is DX9MT_MAX_PS_SAMPLERS: the number of pixel-shader
// sampler/texture stages a bound-texture snapshot (Mirror.Textures, and the
// per-stage fields a draw packet carries) covers (0-15), matching PS 3.0's
// sampler count.
const MaxSamplerStages = 16

const (
	MaxRenderStates = 256

	// MaxSamplerIndices is DX9MT_MAX_SAMPLERS: the full SetSamplerState
	// index space, 0-15 for pixel samplers plus 16-19 for the four vertex
	// texture samplers.
	MaxSamplerIndices = 20
	// MaxSamplerStateSlots is DX9MT_MAX_SAMPLER_STATES: the number of
	// per-sampler state types (D3DSAMPLERSTATETYPE values).
	MaxSamplerStateSlots = 16

	MaxTextureStageSlots = 32
	// MaxTextureStages is DX9MT_MAX_TEXTURE_STAGES: the number of
	// addressable texture-stage-state slots (0-15).
	MaxTextureStages = 16

	MaxTransforms        = 512
	MaxClipPlanes        = 6
	MaxStreams           = 16
	MaxRenderTargets     = 4
	MaxVSFloat4Constants = 256
	MaxPSFloat4Constants = 256
	MaxIntConstants      = 16
	MaxBoolConstants     = 16
)

// Render state enum indices used by the fixed-function pipeline (the subset
// this module inspects directly; unlisted slots are still storable, just not
// specially interpreted).
const (
	RSZEnable             = 7
	RSFillMode            = 8
	RSZWriteEnable        = 14
	RSAlphaTestEnable     = 15
	RSSrcBlend            = 19
	RSDestBlend           = 20
	RSCullMode            = 22
	RSZFunc               = 23
	RSAlphaRef            = 24
	RSAlphaFunc           = 25
	RSStencilEnable       = 52
	RSStencilFail         = 53
	RSStencilZFail        = 54
	RSStencilPass         = 55
	RSStencilFunc         = 56
	RSStencilRef          = 57
	RSStencilMask         = 58
	RSStencilWriteMask    = 59
	RSTextureFactor       = 60
	RSAlphaBlendEnable    = 27
	RSFogEnable           = 28
	RSFogColor            = 34
	RSFogTableMode        = 35
	RSFogStart            = 36
	RSFogEnd              = 37
	RSFogDensity          = 38
	RSColorWriteEnable    = 168
	RSBlendOp             = 171
	RSScissorTestEnable   = 174
)

// Sampler state enum indices (per-stage).
const (
	SampAddressU  = 1
	SampAddressV  = 2
	SampAddressW  = 3
	SampMagFilter = 5
	SampMinFilter = 6
	SampMipFilter = 7
)

// Texture-stage state enum indices.
const (
	TSSColorOp   = 1
	TSSColorArg1 = 2
	TSSColorArg2 = 3
	TSSAlphaOp   = 4
	TSSAlphaArg1 = 5
	TSSAlphaArg2 = 6
)

// Rect mirrors a D3D9 RECT (left/top/right/bottom, in pixels).
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Viewport mirrors a D3DVIEWPORT9.
type Viewport struct {
	X, Y, Width, Height uint32
	MinZ, MaxZ          float32
}

// StreamBinding mirrors one IDirect3DDevice9::SetStreamSource call.
type StreamBinding struct {
	VertexBuffer objectid.ID
	Offset       uint32
	Stride       uint32
}

// RenderTarget mirrors one bound render target surface plus its container
// texture (0 if the surface is not a texture level) and format/size, needed
// for draw-packet population without re-querying the surface.
type RenderTarget struct {
	SurfaceID objectid.ID
	TextureID objectid.ID
	Width     uint32
	Height    uint32
	Format    uint32
}

// TextureBinding mirrors one bound texture at a sampler stage.
type TextureBinding struct {
	TextureID  objectid.ID
	Generation uint32
}

// Mirror is the complete flat device state mirror. Zero value is not
// meaningful; use New() to get D3D9's documented power-on defaults.
type Mirror struct {
	RenderStates  [MaxRenderStates]uint32
	SamplerStates [MaxSamplerIndices][MaxSamplerStateSlots]uint32
	TextureStage  [MaxTextureStages][MaxTextureStageSlots]uint32
	Transforms    [MaxTransforms][16]float32
	ClipPlanes    [MaxClipPlanes][4]float32

	VSConstF [MaxVSFloat4Constants][4]float32
	PSConstF [MaxPSFloat4Constants][4]float32
	VSConstI [MaxIntConstants][4]int32
	PSConstI [MaxIntConstants][4]int32
	VSConstB [MaxBoolConstants]bool
	PSConstB [MaxBoolConstants]bool

	Streams      [MaxStreams]StreamBinding
	Indices      objectid.ID
	VertexDecl   objectid.ID
	FVF          uint32
	VertexShader objectid.ID
	PixelShader  objectid.ID

	Textures      [MaxSamplerStages]TextureBinding
	RenderTargets [MaxRenderTargets]RenderTarget
	DepthStencil  objectid.ID

	Viewport Viewport
	Scissor  Rect

	VSConstDirty bool
	PSConstDirty bool
}

// identity4x4 is the 16-element row-major identity matrix D3D9 transforms
// default to.
var identity4x4 = [16]float32{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// New returns a Mirror initialized to the exact defaults
// dx9mt_device_init_default_states establishes: z-test/write on, less-equal
// z func, cull counter-clockwise, alpha blend off with one/zero blend
// factors, point-filtered/wrap-addressed samplers, identity transforms,
// full-write color mask, and an empty viewport (callers set the real one on
// Reset/CreateDevice once the swapchain size is known).
func New() *Mirror {
	m := &Mirror{}
	for i := range m.Transforms {
		m.Transforms[i] = identity4x4
	}

	m.RenderStates[RSZEnable] = 1
	m.RenderStates[RSZWriteEnable] = 1
	m.RenderStates[RSZFunc] = 4 // D3DCMP_LESSEQUAL
	m.RenderStates[RSCullMode] = 3 // D3DCULL_CCW
	m.RenderStates[RSAlphaBlendEnable] = 0
	m.RenderStates[RSSrcBlend] = 2  // D3DBLEND_ONE
	m.RenderStates[RSDestBlend] = 1 // D3DBLEND_ZERO
	m.RenderStates[RSAlphaTestEnable] = 0
	m.RenderStates[RSAlphaFunc] = 8 // D3DCMP_ALWAYS
	m.RenderStates[RSFillMode] = 3 // D3DFILL_SOLID
	m.RenderStates[RSStencilEnable] = 0
	m.RenderStates[RSStencilFunc] = 8 // D3DCMP_ALWAYS
	m.RenderStates[RSStencilFail] = 1  // D3DSTENCILOP_KEEP
	m.RenderStates[RSStencilZFail] = 1
	m.RenderStates[RSStencilPass] = 1
	m.RenderStates[RSStencilMask] = 0xFFFFFFFF
	m.RenderStates[RSStencilWriteMask] = 0xFFFFFFFF
	m.RenderStates[RSColorWriteEnable] = 0xF
	m.RenderStates[RSBlendOp] = 1 // D3DBLENDOP_ADD
	m.RenderStates[RSFogEnable] = 0
	m.RenderStates[RSFogTableMode] = 0 // D3DFOG_NONE
	setFloatRenderState(&m.RenderStates[RSFogStart], 0)
	setFloatRenderState(&m.RenderStates[RSFogEnd], 1)
	setFloatRenderState(&m.RenderStates[RSFogDensity], 1)
	m.RenderStates[RSScissorTestEnable] = 0

	for stage := range m.SamplerStates {
		m.SamplerStates[stage][SampAddressU] = 1 // D3DTADDRESS_WRAP
		m.SamplerStates[stage][SampAddressV] = 1
		m.SamplerStates[stage][SampAddressW] = 1
		m.SamplerStates[stage][SampMagFilter] = 1 // D3DTEXF_POINT
		m.SamplerStates[stage][SampMinFilter] = 1
		m.SamplerStates[stage][SampMipFilter] = 0 // D3DTEXF_NONE
	}

	for stage := range m.TextureStage {
		m.TextureStage[stage][TSSColorOp] = boolToOp(stage == 0)
		m.TextureStage[stage][TSSColorArg1] = 2 // D3DTA_TEXTURE
		m.TextureStage[stage][TSSColorArg2] = 1 // D3DTA_CURRENT
		m.TextureStage[stage][TSSAlphaOp] = boolToOp(stage == 0)
		m.TextureStage[stage][TSSAlphaArg1] = 2
		m.TextureStage[stage][TSSAlphaArg2] = 1
	}

	return m
}

// boolToOp returns D3DTOP_MODULATE (4) for stage 0's default color/alpha op
// and D3DTOP_DISABLE (1) for every other stage, matching the original's
// per-stage default table.
func boolToOp(stageZero bool) uint32 {
	if stageZero {
		return 4
	}
	return 1
}

// setFloatRenderState stores a float32 render-state value (fog start/end/
// density) using its raw bit pattern, matching how D3D9 render states that
// are "really" floats are passed as DWORDs (memcpy'd, not cast, in the
// original).
func setFloatRenderState(slot *uint32, v float32) {
	*slot = math.Float32bits(v)
}

// FloatRenderState reads a render-state slot known to hold a float32 back
// out of its raw bit pattern.
func FloatRenderState(slot uint32) float32 {
	return math.Float32frombits(slot)
}
