// Package recorder mirrors Direct3D9 device-state mutators into a
// devstate.Mirror and turns a DrawIndexedPrimitive call into a fully
// populated packet.DrawIndexedPacket, uploading whatever shader bytecode,
// geometry and texture bytes the backend needs through an uploadarena.Arena.
//
// Grounded on original_source/dx9mt/src/frontend/d3d9_device.c's
// dx9mt_device_Set*/dx9mt_device_DrawIndexedPrimitive/
// dx9mt_device_fill_draw_texture_stages, following the teacher's recorder
// shape (recording/recorder.go's thin Set*-then-emit-a-command pattern)
// generalized from painting commands to D3D9 device-state mutators.
package recorder

import (
	"fmt"

	"github.com/dx9mt/dx9mt/devstate"
	"github.com/dx9mt/dx9mt/objectid"
	"github.com/dx9mt/dx9mt/shader"
	"github.com/dx9mt/dx9mt/surface"
	"github.com/dx9mt/dx9mt/uploadarena"
)

// ShaderRecord is one compiled shader's bytecode plus its lazily-created
// upload-arena ref (uploaded at most once per frame, since bytecode is
// immutable once a shader object is created; BeginFrame drops the ref).
type ShaderRecord struct {
	Bytecode  []uint32
	uploadRef uploadarena.Ref
	uploaded  bool
}

// TextureRecord wraps a surface.Texture with the upload-arena bookkeeping
// draw-packet building needs: which generation/frame was last copied into
// the arena, and the resulting ref. Only D3DRTYPE_TEXTURE resources are
// tracked in Recorder.Textures: cube textures have their own registry
// (Recorder.CubeTextures) since fillTextureStages only ever samples a flat
// 2D texture at a stage, matching the original's type guard in
// dx9mt_device_fill_draw_texture_stages.
type TextureRecord struct {
	Texture *surface.Texture

	lastUploadGeneration uint32
	lastUploadFrameID    uint32
	lastUploadRef        uploadarena.Ref
}

// CubeTextureRecord wraps a surface.CubeTexture. Cube textures are not
// sampled by fillTextureStages (see TextureRecord's doc comment), so no
// upload-arena bookkeeping is needed here: CreateCubeTexture exists so
// objectid.KindCubeTexture backs a real resource a CopyRect/FillRect call
// can target, not so it can be bound to a draw.
type CubeTextureRecord struct {
	CubeTexture *surface.CubeTexture
}

// Recorder owns the device state mirror, the shader/texture bytecode
// registries keyed by object id, and the upload arena draw-packet building
// copies payloads into.
type Recorder struct {
	Mirror *devstate.Mirror
	Arena  *uploadarena.Arena

	VertexShaders map[objectid.ID]*ShaderRecord
	PixelShaders  map[objectid.ID]*ShaderRecord
	Textures      map[objectid.ID]*TextureRecord
	CubeTextures  map[objectid.ID]*CubeTextureRecord
	Surfaces      map[objectid.ID]*surface.Surface
	VertexDecls   map[objectid.ID][]VertexElement
	VertexBuffers map[objectid.ID][]byte
	IndexBuffers  map[objectid.ID][]byte

	frameID uint32

	vsConstRef      uploadarena.Ref
	vsConstUploaded bool
	psConstRef      uploadarena.Ref
	psConstUploaded bool
}

// New returns a Recorder over a fresh default-initialized device state
// mirror and the given upload arena.
func New(arena *uploadarena.Arena) *Recorder {
	return &Recorder{
		Mirror:        devstate.New(),
		Arena:         arena,
		VertexShaders: make(map[objectid.ID]*ShaderRecord),
		PixelShaders:  make(map[objectid.ID]*ShaderRecord),
		Textures:      make(map[objectid.ID]*TextureRecord),
		CubeTextures:  make(map[objectid.ID]*CubeTextureRecord),
		Surfaces:      make(map[objectid.ID]*surface.Surface),
		VertexDecls:   make(map[objectid.ID][]VertexElement),
		VertexBuffers: make(map[objectid.ID][]byte),
		IndexBuffers:  make(map[objectid.ID][]byte),
	}
}

// BeginFrame records the frame id that subsequent draws belong to, used by
// the periodic texture-upload refresh cadence, and drops the cached constant
// and shader-bytecode upload refs, since the arena slot they point into is
// reused by a later frame.
func (r *Recorder) BeginFrame(frameID uint32) {
	r.frameID = frameID
	r.vsConstUploaded = false
	r.psConstUploaded = false
	for _, s := range r.VertexShaders {
		s.uploaded = false
	}
	for _, s := range r.PixelShaders {
		s.uploaded = false
	}
}

// SetRenderState mirrors IDirect3DDevice9::SetRenderState.
func (r *Recorder) SetRenderState(state int, value uint32) {
	if state < 0 || state >= devstate.MaxRenderStates {
		return
	}
	r.Mirror.RenderStates[state] = value
}

// SetSamplerState mirrors IDirect3DDevice9::SetSamplerState.
func (r *Recorder) SetSamplerState(stage int, state int, value uint32) {
	if stage < 0 || stage >= devstate.MaxSamplerIndices || state < 0 || state >= devstate.MaxSamplerStateSlots {
		return
	}
	r.Mirror.SamplerStates[stage][state] = value
}

// SetTextureStageState mirrors IDirect3DDevice9::SetTextureStageState.
func (r *Recorder) SetTextureStageState(stage int, state int, value uint32) {
	if stage < 0 || stage >= devstate.MaxTextureStages || state < 0 || state >= devstate.MaxTextureStageSlots {
		return
	}
	r.Mirror.TextureStage[stage][state] = value
}

// SetTransform mirrors IDirect3DDevice9::SetTransform; index is the
// D3DTRANSFORMSTATETYPE value (world/view/projection/texture/etc all share
// one flat index space in D3D9).
func (r *Recorder) SetTransform(index int, m [16]float32) {
	if index < 0 || index >= devstate.MaxTransforms {
		return
	}
	r.Mirror.Transforms[index] = m
}

// SetClipPlane mirrors IDirect3DDevice9::SetClipPlane.
func (r *Recorder) SetClipPlane(index int, plane [4]float32) {
	if index < 0 || index >= devstate.MaxClipPlanes {
		return
	}
	r.Mirror.ClipPlanes[index] = plane
}

// SetViewport mirrors IDirect3DDevice9::SetViewport.
func (r *Recorder) SetViewport(v devstate.Viewport) {
	r.Mirror.Viewport = v
}

// SetScissorRect mirrors IDirect3DDevice9::SetScissorRect.
func (r *Recorder) SetScissorRect(rect devstate.Rect) {
	r.Mirror.Scissor = rect
}

// SetStreamSource mirrors IDirect3DDevice9::SetStreamSource.
func (r *Recorder) SetStreamSource(streamIndex int, vb objectid.ID, offset, stride uint32) {
	if streamIndex < 0 || streamIndex >= devstate.MaxStreams {
		return
	}
	r.Mirror.Streams[streamIndex] = devstate.StreamBinding{VertexBuffer: vb, Offset: offset, Stride: stride}
}

// SetIndices mirrors IDirect3DDevice9::SetIndices.
func (r *Recorder) SetIndices(ib objectid.ID) {
	r.Mirror.Indices = ib
}

// SetVertexDeclaration mirrors IDirect3DDevice9::SetVertexDeclaration.
// Setting a real declaration clears the legacy FVF code, matching D3D9's
// documented mutual exclusivity between the two vertex-format paths.
func (r *Recorder) SetVertexDeclaration(decl objectid.ID) {
	r.Mirror.VertexDecl = decl
	if decl != 0 {
		r.Mirror.FVF = 0
	}
}

// CreateVertexDeclaration registers element under id for later lookup by
// SetVertexDeclaration/draw-packet building.
func (r *Recorder) CreateVertexDeclaration(id objectid.ID, elements []VertexElement) {
	r.VertexDecls[id] = elements
}

// SetFVF mirrors IDirect3DDevice9::SetFVF, clearing any bound vertex
// declaration.
func (r *Recorder) SetFVF(fvf uint32) {
	r.Mirror.FVF = fvf
	if fvf != 0 {
		r.Mirror.VertexDecl = 0
	}
}

// CreateVertexShader validates bytecode's version token and END-token
// framing (matching dx9mt_copy_shader_blob's call into
// dx9mt_shader_dword_count) before registering it under id. A blob that
// fails validation is rejected outright, the same as the original returning
// D3DERR_INVALIDCALL without ever allocating a shader object for it.
func (r *Recorder) CreateVertexShader(id objectid.ID, bytecode []uint32) error {
	dwords, err := shader.ScanBytecode(bytecode, true)
	if err != nil {
		return fmt.Errorf("recorder: create vertex shader: %w", err)
	}
	r.VertexShaders[id] = &ShaderRecord{Bytecode: bytecode[:dwords]}
	return nil
}

// CreatePixelShader validates and registers a pixel shader's bytecode under
// id, matching CreateVertexShader's blob validation.
func (r *Recorder) CreatePixelShader(id objectid.ID, bytecode []uint32) error {
	dwords, err := shader.ScanBytecode(bytecode, false)
	if err != nil {
		return fmt.Errorf("recorder: create pixel shader: %w", err)
	}
	r.PixelShaders[id] = &ShaderRecord{Bytecode: bytecode[:dwords]}
	return nil
}

// SetVertexShader mirrors IDirect3DDevice9::SetVertexShader.
func (r *Recorder) SetVertexShader(id objectid.ID) {
	r.Mirror.VertexShader = id
}

// SetPixelShader mirrors IDirect3DDevice9::SetPixelShader.
func (r *Recorder) SetPixelShader(id objectid.ID) {
	r.Mirror.PixelShader = id
}

// SetVertexShaderConstantF mirrors IDirect3DDevice9::SetVertexShaderConstantF,
// writing count float4 registers starting at startRegister and marking the
// VS constant bank dirty so the next draw re-uploads it.
func (r *Recorder) SetVertexShaderConstantF(startRegister int, values [][4]float32) {
	for i, v := range values {
		idx := startRegister + i
		if idx < 0 || idx >= devstate.MaxVSFloat4Constants {
			break
		}
		r.Mirror.VSConstF[idx] = v
	}
	r.Mirror.VSConstDirty = true
}

// SetPixelShaderConstantF mirrors IDirect3DDevice9::SetPixelShaderConstantF.
func (r *Recorder) SetPixelShaderConstantF(startRegister int, values [][4]float32) {
	for i, v := range values {
		idx := startRegister + i
		if idx < 0 || idx >= devstate.MaxPSFloat4Constants {
			break
		}
		r.Mirror.PSConstF[idx] = v
	}
	r.Mirror.PSConstDirty = true
}

// SetVertexShaderConstantI mirrors IDirect3DDevice9::SetVertexShaderConstantI.
func (r *Recorder) SetVertexShaderConstantI(startRegister int, values [][4]int32) {
	for i, v := range values {
		idx := startRegister + i
		if idx < 0 || idx >= devstate.MaxIntConstants {
			break
		}
		r.Mirror.VSConstI[idx] = v
	}
}

// SetPixelShaderConstantI mirrors IDirect3DDevice9::SetPixelShaderConstantI.
func (r *Recorder) SetPixelShaderConstantI(startRegister int, values [][4]int32) {
	for i, v := range values {
		idx := startRegister + i
		if idx < 0 || idx >= devstate.MaxIntConstants {
			break
		}
		r.Mirror.PSConstI[idx] = v
	}
}

// SetVertexShaderConstantB mirrors IDirect3DDevice9::SetVertexShaderConstantB.
func (r *Recorder) SetVertexShaderConstantB(startRegister int, values []bool) {
	for i, v := range values {
		idx := startRegister + i
		if idx < 0 || idx >= devstate.MaxBoolConstants {
			break
		}
		r.Mirror.VSConstB[idx] = v
	}
}

// SetPixelShaderConstantB mirrors IDirect3DDevice9::SetPixelShaderConstantB.
func (r *Recorder) SetPixelShaderConstantB(startRegister int, values []bool) {
	for i, v := range values {
		idx := startRegister + i
		if idx < 0 || idx >= devstate.MaxBoolConstants {
			break
		}
		r.Mirror.PSConstB[idx] = v
	}
}

// CreateTexture builds a 2D texture's full mip-level chain under id.
// levelCount == 0 means a single level, matching dx9mt_texture_create's
// "levels = 1" fallback.
func (r *Recorder) CreateTexture(id objectid.ID, format, width, height, levelCount uint32) error {
	tex, err := surface.NewTexture(format, width, height, levelCount)
	if err != nil {
		return fmt.Errorf("recorder: create texture: %w", err)
	}
	r.Textures[id] = &TextureRecord{Texture: tex}
	return nil
}

// CreateCubeTexture builds a cube texture's six mip-level chains under id,
// matching dx9mt_cube_texture_create. This is what backs
// objectid.KindCubeTexture: unlike volume textures (never implemented in
// the original either -- see DESIGN.md), cube textures are a fully
// supported resource kind here.
func (r *Recorder) CreateCubeTexture(id objectid.ID, format, edgeLength, levelCount uint32) error {
	cube, err := surface.NewCubeTexture(format, edgeLength, levelCount)
	if err != nil {
		return fmt.Errorf("recorder: create cube texture: %w", err)
	}
	r.CubeTextures[id] = &CubeTextureRecord{CubeTexture: cube}
	return nil
}

// CreateSurface registers a standalone surface (a render target, depth-
// stencil surface, or offscreen plain surface -- anything not part of a
// texture's mip chain) under id, matching dx9mt_surface_create's path for
// those resource kinds.
func (r *Recorder) CreateSurface(id objectid.ID, format, width, height uint32, lockable bool) error {
	s, err := surface.NewSurface(format, width, height, lockable)
	if err != nil {
		return fmt.Errorf("recorder: create surface: %w", err)
	}
	r.Surfaces[id] = s
	return nil
}

// UpdateTexturePixels replaces the pixel bytes of a 2D texture's base (mip
// level 0) surface (e.g. after a LockRect/UnlockRect write) and bumps its
// dirty-tracking generation.
func (r *Recorder) UpdateTexturePixels(id objectid.ID, pixels []byte) {
	t, ok := r.Textures[id]
	if !ok {
		return
	}
	base := t.Texture.Levels[0]
	base.Sysmem = pixels
	t.Texture.MarkDirty()
}

// SetTexture mirrors IDirect3DDevice9::SetTexture for a sampler stage.
// Binding a texture not registered via CreateTexture (e.g. a cube or volume
// texture) still records the id but carries no upload metadata, matching
// the original's D3DRTYPE_TEXTURE guard in fill_draw_texture_stages.
func (r *Recorder) SetTexture(stage int, id objectid.ID) {
	if stage < 0 || stage >= devstate.MaxSamplerStages {
		return
	}
	gen := uint32(0)
	if t, ok := r.Textures[id]; ok {
		gen = t.Texture.Generation
	}
	r.Mirror.Textures[stage] = devstate.TextureBinding{TextureID: id, Generation: gen}
}

// SetRenderTarget mirrors IDirect3DDevice9::SetRenderTarget for render
// target index rtIndex (0 is the primary target).
func (r *Recorder) SetRenderTarget(rtIndex int, rt devstate.RenderTarget) {
	if rtIndex < 0 || rtIndex >= devstate.MaxRenderTargets {
		return
	}
	r.Mirror.RenderTargets[rtIndex] = rt
}

// renderTargetSurface returns the live surface backing a bound render
// target: a texture-backed target resolves to its container texture's
// current mip level, otherwise a standalone registered surface. Returns nil
// if rtIndex is bound to an id that was never registered through
// CreateTexture/CreateSurface.
func (r *Recorder) renderTargetSurface(rtIndex int) *surface.Surface {
	if rtIndex < 0 || rtIndex >= devstate.MaxRenderTargets {
		return nil
	}
	rt := r.Mirror.RenderTargets[rtIndex]
	if rt.TextureID != 0 {
		if t, ok := r.Textures[rt.TextureID]; ok {
			return t.Texture.CurrentSurface()
		}
	}
	if rt.SurfaceID != 0 {
		if s, ok := r.Surfaces[rt.SurfaceID]; ok {
			return s
		}
	}
	return nil
}

// Clear fills render target 0's system-memory surface with color, matching
// dx9mt_device_Clear's rect-list handling: no rects fills the whole bound
// surface, otherwise each rect is filled in turn. A render target that was
// never registered as a tracked surface/texture is left untouched.
func (r *Recorder) Clear(rects []devstate.Rect, color uint32) error {
	s := r.renderTargetSurface(0)
	if s == nil {
		return nil
	}
	if len(rects) == 0 {
		return surface.FillRect(s, nil, color)
	}
	for _, rc := range rects {
		sr := surface.Rect{Left: rc.Left, Top: rc.Top, Right: rc.Right, Bottom: rc.Bottom}
		if err := surface.FillRect(s, &sr, color); err != nil {
			return fmt.Errorf("recorder: clear: %w", err)
		}
	}
	return nil
}

// SetDepthStencilSurface mirrors IDirect3DDevice9::SetDepthStencilSurface.
func (r *Recorder) SetDepthStencilSurface(id objectid.ID) {
	r.Mirror.DepthStencil = id
}

// CreateVertexBuffer registers a vertex buffer's backing bytes under id.
func (r *Recorder) CreateVertexBuffer(id objectid.ID, data []byte) {
	r.VertexBuffers[id] = data
}

// UpdateVertexBuffer replaces a vertex buffer's bytes, e.g. after a
// Lock/Unlock write.
func (r *Recorder) UpdateVertexBuffer(id objectid.ID, data []byte) {
	r.VertexBuffers[id] = data
}

// CreateIndexBuffer registers an index buffer's backing bytes under id.
func (r *Recorder) CreateIndexBuffer(id objectid.ID, data []byte) {
	r.IndexBuffers[id] = data
}

// UpdateIndexBuffer replaces an index buffer's bytes.
func (r *Recorder) UpdateIndexBuffer(id objectid.ID, data []byte) {
	r.IndexBuffers[id] = data
}
