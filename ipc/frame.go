// Package ipc publishes the last-drawn frame's draw calls into a fixed-size
// shared-memory region a separate native viewer process polls, so the
// translation layer never has to wait on (or crash) a renderer living in
// another process.
//
// Grounded on original_source/dx9mt/include/dx9mt/metal_ipc.h's layout:
// [header][draw table][bulk VB/IB/texture/shader bytes], written whole on
// every present() and published by storing the sequence number last with
// release semantics; a viewer polls that sequence with acquire semantics
// and only then reads the rest of the region. golang.org/x/sys/unix
// supplies the mmap/munmap syscalls this package is built on.
package ipc

// Magic identifies a valid frame region, matching DX9MT_METAL_IPC_MAGIC.
const Magic = 0xDEAD9001

// Path is the well-known shared-memory-backed file path the frontend writes
// and a native viewer reads, matching DX9MT_METAL_IPC_PATH.
const Path = "/tmp/dx9mt_metal_frame.bin"

// RegionSize is the fixed size of the mapped region, matching
// DX9MT_METAL_IPC_SIZE: 16MB.
const RegionSize = 16 * 1024 * 1024

// MaxDraws is the maximum number of draws one frame snapshot can carry,
// matching DX9MT_METAL_IPC_MAX_DRAWS.
const MaxDraws = 256

// Draw mirrors dx9mt_metal_ipc_draw: one draw call's full pipeline state
// plus offsets into the region's trailing bulk-data area for its vertex/
// index/texture/shader-constant/shader-bytecode bytes.
type Draw struct {
	PrimitiveType         uint32
	BaseVertex            int32
	MinVertexIndex        uint32
	NumVertices           uint32
	StartIndex            uint32
	PrimitiveCount        uint32
	RenderTargetID        uint32
	RenderTargetTextureID uint32
	RenderTargetWidth     uint32
	RenderTargetHeight    uint32
	RenderTargetFormat    uint32

	ViewportX      uint32
	ViewportY      uint32
	ViewportWidth  uint32
	ViewportHeight uint32
	ViewportMinZ   float32
	ViewportMaxZ   float32

	ScissorLeft   int32
	ScissorTop    int32
	ScissorRight  int32
	ScissorBottom int32

	FVF           uint32
	PixelShaderID uint32
	Stream0Offset uint32
	Stream0Stride uint32
	IndexFormat   uint32

	Texture0ID         uint32
	Texture0Generation uint32
	Texture0Format     uint32
	Texture0Width      uint32
	Texture0Height     uint32
	Texture0Pitch      uint32

	Sampler0MinFilter uint32
	Sampler0MagFilter uint32
	Sampler0MipFilter uint32
	Sampler0AddressU  uint32
	Sampler0AddressV  uint32
	Sampler0AddressW  uint32

	TSS0ColorOp     uint32
	TSS0ColorArg1   uint32
	TSS0ColorArg2   uint32
	TSS0AlphaOp     uint32
	TSS0AlphaArg1   uint32
	TSS0AlphaArg2   uint32
	RSTextureFactor uint32

	RSAlphaBlendEnable uint32
	RSSrcBlend         uint32
	RSDestBlend        uint32
	RSAlphaTestEnable  uint32
	RSAlphaRef         uint32
	RSAlphaFunc        uint32

	VBBulkOffset      uint32
	VBBulkSize        uint32
	IBBulkOffset      uint32
	IBBulkSize        uint32
	Texture0BulkOffset uint32
	Texture0BulkSize   uint32

	DeclBulkOffset uint32
	DeclCount      uint16
	Pad0           uint16

	VSConstantsBulkOffset uint32
	VSConstantsSize       uint32
	PSConstantsBulkOffset uint32
	PSConstantsSize       uint32

	VertexShaderID       uint32
	VSBytecodeBulkOffset uint32
	VSBytecodeBulkSize   uint32
	PSBytecodeBulkOffset uint32
	PSBytecodeBulkSize   uint32
}

// Header mirrors dx9mt_metal_ipc_header. Sequence is published last, with
// release-store/acquire-load semantics bracketing every other field.
type Header struct {
	Magic               uint32
	Sequence            uint32
	Width               uint32
	Height              uint32
	ClearColorARGB      uint32
	ClearFlags          uint32
	ClearZ              float32
	ClearStencil        uint32
	HaveClear           int32
	DrawCount           uint32
	ReplayHash          uint32
	FrameID             uint32
	PresentRenderTarget uint32
	BulkDataOffset      uint32
	BulkDataUsed        uint32
}

// headerSize is Header's encoded size: 15 fields, all 4 bytes wide.
const headerSize = 15 * 4

// drawSize is Draw's encoded size in bytes: 67 four-byte fields plus one
// two-byte DeclCount/pad0 pair, matching dx9mt_metal_ipc_draw's C layout.
const drawSize = 67*4 + 4
