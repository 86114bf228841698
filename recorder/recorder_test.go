package recorder

import (
	"testing"

	"github.com/dx9mt/dx9mt/devstate"
	"github.com/dx9mt/dx9mt/objectid"
	"github.com/dx9mt/dx9mt/surface"
	"github.com/dx9mt/dx9mt/uploadarena"
)

func newTestRecorder() *Recorder {
	arena := uploadarena.New(1 << 20)
	arena.BeginFrame(0)
	return New(arena)
}

func TestSetRenderStateBoundsChecked(t *testing.T) {
	r := newTestRecorder()
	r.SetRenderState(devstate.RSZEnable, 0)
	if r.Mirror.RenderStates[devstate.RSZEnable] != 0 {
		t.Fatal("expected RSZEnable to be cleared")
	}
	r.SetRenderState(-1, 5)
	r.SetRenderState(devstate.MaxRenderStates, 5)
}

func TestSetStreamSourceAndIndices(t *testing.T) {
	r := newTestRecorder()
	vb := objectid.Pack(objectid.KindVertexBuffer, 1)
	ib := objectid.Pack(objectid.KindIndexBuffer, 1)
	r.SetStreamSource(0, vb, 4, 32)
	r.SetIndices(ib)

	if r.Mirror.Streams[0].VertexBuffer != vb || r.Mirror.Streams[0].Stride != 32 {
		t.Fatalf("stream binding = %+v", r.Mirror.Streams[0])
	}
	if r.Mirror.Indices != ib {
		t.Fatal("expected index buffer bound")
	}
}

func TestSetFVFClearsVertexDeclAndViceVersa(t *testing.T) {
	r := newTestRecorder()
	decl := objectid.Pack(objectid.KindVertexDeclaration, 1)
	r.SetVertexDeclaration(decl)
	r.SetFVF(0x112)
	if r.Mirror.VertexDecl != 0 {
		t.Fatal("expected SetFVF to clear bound vertex declaration")
	}
	r.SetVertexDeclaration(decl)
	if r.Mirror.FVF != 0 {
		t.Fatal("expected SetVertexDeclaration to clear legacy FVF")
	}
}

func TestSetVertexShaderConstantFMarksDirty(t *testing.T) {
	r := newTestRecorder()
	r.Mirror.VSConstDirty = false
	r.SetVertexShaderConstantF(2, [][4]float32{{1, 2, 3, 4}})
	if !r.Mirror.VSConstDirty {
		t.Fatal("expected VSConstDirty to be set")
	}
	if r.Mirror.VSConstF[2] != [4]float32{1, 2, 3, 4} {
		t.Fatalf("VSConstF[2] = %+v", r.Mirror.VSConstF[2])
	}
}

func TestBuildDrawIndexedBasic(t *testing.T) {
	r := newTestRecorder()
	r.BeginFrame(0)

	vsID := objectid.Pack(objectid.KindVertexShader, 1)
	psID := objectid.Pack(objectid.KindPixelShader, 1)
	vbID := objectid.Pack(objectid.KindVertexBuffer, 1)
	ibID := objectid.Pack(objectid.KindIndexBuffer, 1)
	rtID := objectid.Pack(objectid.KindSurface, 1)
	texID := objectid.Pack(objectid.KindTexture, 1)

	if err := r.CreateVertexShader(vsID, []uint32{0xFFFE0300, 0x0000FFFF}); err != nil {
		t.Fatalf("CreateVertexShader: %v", err)
	}
	if err := r.CreatePixelShader(psID, []uint32{0xFFFF0300, 0x0000FFFF}); err != nil {
		t.Fatalf("CreatePixelShader: %v", err)
	}
	r.SetVertexShader(vsID)
	r.SetPixelShader(psID)

	r.CreateVertexBuffer(vbID, make([]byte, 64))
	r.CreateIndexBuffer(ibID, make([]byte, 12))
	r.SetStreamSource(0, vbID, 0, 32)
	r.SetIndices(ibID)
	r.SetFVF(0x142) // XYZ | DIFFUSE | 1 texcoord

	r.SetRenderTarget(0, devstate.RenderTarget{SurfaceID: rtID, Width: 800, Height: 600, Format: surface.FormatA8R8G8B8})

	if err := r.CreateTexture(texID, surface.FormatA8R8G8B8, 128, 128, 1); err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	r.UpdateTexturePixels(texID, make([]byte, 512*128))
	r.SetTexture(0, texID)

	pkt := r.BuildDrawIndexed(DrawParams{
		PrimitiveType:  4, // D3DPT_TRIANGLELIST
		NumVertices:    4,
		StartIndex:     0,
		PrimitiveCount: 2,
		IndexFormat:    16,
	})

	if pkt.RenderTargetID != uint32(rtID) || pkt.RenderTargetWidth != 800 {
		t.Fatalf("render target fields = %+v", pkt)
	}
	if pkt.VertexBufferID != uint32(vbID) || pkt.IndexBufferID != uint32(ibID) {
		t.Fatalf("vb/ib fields = %+v", pkt)
	}
	if pkt.VSBytecodeDwords != 2 || pkt.PSBytecodeDwords != 2 {
		t.Fatalf("bytecode dword counts = vs:%d ps:%d", pkt.VSBytecodeDwords, pkt.PSBytecodeDwords)
	}
	if pkt.VertexDeclCount == 0 {
		t.Fatal("expected FVF-synthesized vertex declaration to be uploaded")
	}
	if pkt.VertexDataSize != 64 || pkt.IndexDataSize != 12 {
		t.Fatalf("geometry sizes = vertex:%d index:%d", pkt.VertexDataSize, pkt.IndexDataSize)
	}
	if pkt.TexID[0] != uint32(texID) || pkt.TexData[0].Empty() {
		t.Fatalf("expected stage 0 texture upload, got %+v", pkt.TexID)
	}
	if pkt.StateBlockHash == 0 {
		t.Fatal("expected a non-zero state block hash")
	}
}

func TestBuildDrawIndexedDeterministicHash(t *testing.T) {
	r1 := newTestRecorder()
	r1.BeginFrame(0)
	r1.SetRenderState(devstate.RSZEnable, 1)
	p1 := r1.BuildDrawIndexed(DrawParams{PrimitiveType: 4, NumVertices: 3, PrimitiveCount: 1})

	r2 := newTestRecorder()
	r2.BeginFrame(0)
	r2.SetRenderState(devstate.RSZEnable, 1)
	p2 := r2.BuildDrawIndexed(DrawParams{PrimitiveType: 4, NumVertices: 3, PrimitiveCount: 1})

	if HashDrawState(p1) != HashDrawState(p2) {
		t.Fatal("expected identical device state to produce identical draw state hashes")
	}

	r2.SetRenderState(devstate.RSZEnable, 0)
	p3 := r2.BuildDrawIndexed(DrawParams{PrimitiveType: 4, NumVertices: 3, PrimitiveCount: 1})
	if HashDrawState(p1) == HashDrawState(p3) {
		t.Fatal("expected differing render state to change the draw state hash")
	}
}

func TestConstantUploadOnlyRefreshesWhenDirty(t *testing.T) {
	r := newTestRecorder()
	r.BeginFrame(0)
	r.SetVertexShaderConstantF(0, [][4]float32{{1, 1, 1, 1}})

	p1 := r.BuildDrawIndexed(DrawParams{PrimitiveType: 4})
	if r.Mirror.VSConstDirty {
		t.Fatal("expected VSConstDirty to clear after upload")
	}
	ref1 := p1.ConstantsVS

	p2 := r.BuildDrawIndexed(DrawParams{PrimitiveType: 4})
	if p2.ConstantsVS != ref1 {
		t.Fatal("expected constant ref to be reused when not dirty")
	}
}
