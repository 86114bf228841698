// Package packet defines the wire protocol dx9mt uses to hand a frame of
// draw work from the frontend (the intercepted D3D9 device) to the backend
// (the Metal renderer): a length-prefixed, type-tagged, monotonically
// sequenced stream of fixed-size packet structs.
//
// Grounded on original_source/dx9mt/include/dx9mt/packets.h for the wire
// layout, and on gogpu-gg's scene.Encoding (scene/encoding.go) for the
// broader idea of a typed, appended command stream with a stable hash for
// cache keying -- though unlike Encoding's multi-stream float/tag/uint32
// layout, packet uses literal fixed-size structs to match the original's
// struct-per-packet-type C layout exactly.
package packet

import "github.com/dx9mt/dx9mt/uploadarena"

// Type identifies a packet's payload shape.
type Type uint16

const (
	TypeInvalid Type = iota
	TypeInit
	TypeBeginFrame
	TypeDrawIndexed
	TypePresent
	TypeShutdown
	TypeClear
)

func (t Type) String() string {
	switch t {
	case TypeInit:
		return "INIT"
	case TypeBeginFrame:
		return "BEGIN_FRAME"
	case TypeDrawIndexed:
		return "DRAW_INDEXED"
	case TypePresent:
		return "PRESENT"
	case TypeShutdown:
		return "SHUTDOWN"
	case TypeClear:
		return "CLEAR"
	default:
		return "UNKNOWN"
	}
}

// Header is the fixed 8-byte prefix of every packet: its type, its total
// size (header included), and its monotonically increasing sequence number.
type Header struct {
	Type     Type
	Size     uint16
	Sequence uint32
}

// UploadArenaDesc mirrors dx9mt_upload_arena_desc.
type UploadArenaDesc struct {
	SlotCount     uint32
	BytesPerSlot  uint32
}

// InitPacket mirrors dx9mt_packet_init: the handshake sent once, before any
// other packet, establishing the protocol version and upload arena layout.
type InitPacket struct {
	Header              Header
	ProtocolVersion      uint32
	RingCapacityBytes    uint32
	UploadDesc           UploadArenaDesc
}

// BeginFramePacket mirrors dx9mt_packet_begin_frame.
type BeginFramePacket struct {
	Header  Header
	FrameID uint32
}

// PresentPacket mirrors dx9mt_packet_present.
type PresentPacket struct {
	Header  Header
	FrameID uint32
	Flags   uint32
}

// ShutdownPacket carries only the header; dx9mt_packet_header alone is its
// full wire representation.
type ShutdownPacket struct {
	Header Header
}

// ClearPacket mirrors the CLEAR packet implied by backend_bridge_stub.c's
// dx9mt_packet_type_name/submit_packets handling and spec.md §4.4's field
// list: the D3D9 Clear call's color/flags/z/stencil, the frame it belongs
// to, and the number of dirty rects that followed it (the rects themselves
// are not carried in the packet; the frontend applies them to the render
// target's system-memory surface in recorder.Clear).
type ClearPacket struct {
	Header    Header
	FrameID   uint32
	RectCount uint32
	Flags     uint32
	Color     uint32
	Z         float32
	Stencil   uint32
}

// DrawIndexedPacket is the complete draw packet described in SPEC_FULL.md
// §3.1, synthesizing the minimal struct in packets.h with the much larger
// field set original_source's dx9mt_device_DrawIndexedPrimitive and
// dx9mt_device_fill_draw_texture_stages actually populate.
type DrawIndexedPacket struct {
	Header Header

	// Identity / geometry.
	PrimitiveType  uint32
	BaseVertex     int32
	MinVertexIndex uint32
	NumVertices    uint32
	StartIndex     uint32
	PrimitiveCount uint32

	// Bound object ids.
	RenderTargetID        uint32
	DepthStencilID        uint32
	RenderTargetTextureID uint32
	RenderTargetWidth     uint32
	RenderTargetHeight    uint32
	RenderTargetFormat    uint32
	VertexBufferID        uint32
	IndexBufferID         uint32
	VertexDeclID          uint32
	VertexShaderID        uint32
	PixelShaderID         uint32
	FVF                   uint32
	Stream0Offset         uint32
	Stream0Stride         uint32

	// Fingerprint hashes (pipeline-state cache keys).
	ViewportHash      uint32
	ScissorHash       uint32
	TextureStageHash  uint32
	SamplerStateHash  uint32
	StreamBindingHash uint32

	// Raw viewport / scissor.
	ViewportX      uint32
	ViewportY      uint32
	ViewportWidth  uint32
	ViewportHeight uint32
	ViewportMinZ   float32
	ViewportMaxZ   float32
	ScissorLeft    int32
	ScissorTop     int32
	ScissorRight   int32
	ScissorBottom  int32

	// Shader constant / bytecode / geometry uploads.
	ConstantsVS      uploadarena.Ref
	ConstantsPS      uploadarena.Ref
	VSBytecode       uploadarena.Ref
	VSBytecodeDwords uint32
	PSBytecode       uploadarena.Ref
	PSBytecodeDwords uint32
	VertexData       uploadarena.Ref
	VertexDataSize   uint32
	IndexData        uploadarena.Ref
	IndexDataSize    uint32
	IndexFormat      uint32
	VertexDeclData   uploadarena.Ref
	VertexDeclCount  uint16

	// Stage-0 fixed-function combiner mirror.
	TSS0ColorOp    uint32
	TSS0ColorArg1  uint32
	TSS0ColorArg2  uint32
	TSS0AlphaOp    uint32
	TSS0AlphaArg1  uint32
	TSS0AlphaArg2  uint32
	RSTextureFactor uint32

	// Cross-cutting render state mirror.
	RSAlphaBlendEnable uint32
	RSSrcBlend         uint32
	RSDestBlend        uint32
	RSAlphaTestEnable  uint32
	RSAlphaRef         uint32
	RSAlphaFunc        uint32
	RSZEnable          uint32
	RSZWriteEnable     uint32
	RSZFunc            uint32
	RSStencilEnable    uint32
	RSStencilFunc      uint32
	RSStencilRef       uint32
	RSStencilMask      uint32
	RSStencilWriteMask uint32
	RSCullMode         uint32
	RSScissorTestEnable uint32
	RSBlendOp          uint32
	RSColorWriteEnable uint32
	RSStencilPass      uint32
	RSStencilFail      uint32
	RSStencilZFail     uint32
	RSFogEnable        uint32
	RSFogColor         uint32
	RSFogStart         float32
	RSFogEnd           float32
	RSFogDensity       float32
	RSFogTableMode     uint32

	// Per-sampler-stage data.
	SamplerMinFilter [MaxSamplerStages]uint32
	SamplerMagFilter [MaxSamplerStages]uint32
	SamplerMipFilter [MaxSamplerStages]uint32
	SamplerAddressU  [MaxSamplerStages]uint32
	SamplerAddressV  [MaxSamplerStages]uint32
	SamplerAddressW  [MaxSamplerStages]uint32
	TexID            [MaxSamplerStages]uint32
	TexGeneration    [MaxSamplerStages]uint32
	TexFormat        [MaxSamplerStages]uint32
	TexWidth         [MaxSamplerStages]uint32
	TexHeight        [MaxSamplerStages]uint32
	TexPitch         [MaxSamplerStages]uint32
	TexData          [MaxSamplerStages]uploadarena.Ref

	StateBlockHash uint32
}

// MaxSamplerStages mirrors devstate.MaxSamplerStages; duplicated as an
// untyped constant here so packet does not need to import devstate just for
// one array bound (packet is a pure wire-format leaf package; devstate and
// recorder both depend on it, not the other way around).
const MaxSamplerStages = 16
