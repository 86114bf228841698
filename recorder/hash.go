package recorder

import (
	"github.com/dx9mt/dx9mt/devstate"
	"github.com/dx9mt/dx9mt/packet"
)

// HashDrawState computes dx9mt_hash_draw_state: an FNV-1a fingerprint over
// every pipeline-relevant field of a fully populated draw packet, in field
// declaration order, excluding the upload payload bytes themselves (only
// their sizes and the object/generation ids that identify them are hashed,
// since upload content is already content-addressed via bytecode/vertex
// hashing elsewhere). Two draws with an identical StateBlockHash are
// guaranteed to need no backend pipeline-state rebuild.
func HashDrawState(p packet.DrawIndexedPacket) uint32 {
	h := devstate.NewHasher()

	h.Uint32(p.PrimitiveType)
	h.Int32(p.BaseVertex)
	h.Uint32(p.MinVertexIndex)
	h.Uint32(p.NumVertices)
	h.Uint32(p.StartIndex)
	h.Uint32(p.PrimitiveCount)

	h.Uint32(p.RenderTargetID)
	h.Uint32(p.DepthStencilID)
	h.Uint32(p.RenderTargetTextureID)
	h.Uint32(p.RenderTargetWidth)
	h.Uint32(p.RenderTargetHeight)
	h.Uint32(p.RenderTargetFormat)
	h.Uint32(p.VertexBufferID)
	h.Uint32(p.IndexBufferID)
	h.Uint32(p.VertexDeclID)
	h.Uint32(p.VertexShaderID)
	h.Uint32(p.PixelShaderID)
	h.Uint32(p.FVF)
	h.Uint32(p.Stream0Offset)
	h.Uint32(p.Stream0Stride)

	h.Uint32(p.ViewportX)
	h.Uint32(p.ViewportY)
	h.Uint32(p.ViewportWidth)
	h.Uint32(p.ViewportHeight)
	h.Float32(p.ViewportMinZ)
	h.Float32(p.ViewportMaxZ)
	h.Int32(p.ScissorLeft)
	h.Int32(p.ScissorTop)
	h.Int32(p.ScissorRight)
	h.Int32(p.ScissorBottom)

	h.Uint32(p.TSS0ColorOp)
	h.Uint32(p.TSS0ColorArg1)
	h.Uint32(p.TSS0ColorArg2)
	h.Uint32(p.TSS0AlphaOp)
	h.Uint32(p.TSS0AlphaArg1)
	h.Uint32(p.TSS0AlphaArg2)
	h.Uint32(p.RSTextureFactor)

	h.Uint32(p.RSAlphaBlendEnable)
	h.Uint32(p.RSSrcBlend)
	h.Uint32(p.RSDestBlend)
	h.Uint32(p.RSAlphaTestEnable)
	h.Uint32(p.RSAlphaRef)
	h.Uint32(p.RSAlphaFunc)
	h.Uint32(p.RSZEnable)
	h.Uint32(p.RSZWriteEnable)
	h.Uint32(p.RSZFunc)
	h.Uint32(p.RSStencilEnable)
	h.Uint32(p.RSStencilFunc)
	h.Uint32(p.RSStencilRef)
	h.Uint32(p.RSStencilMask)
	h.Uint32(p.RSStencilWriteMask)
	h.Uint32(p.RSCullMode)
	h.Uint32(p.RSScissorTestEnable)
	h.Uint32(p.RSBlendOp)
	h.Uint32(p.RSColorWriteEnable)
	h.Uint32(p.RSStencilPass)
	h.Uint32(p.RSStencilFail)
	h.Uint32(p.RSStencilZFail)
	h.Uint32(p.RSFogEnable)
	h.Uint32(p.RSFogColor)
	h.Float32(p.RSFogStart)
	h.Float32(p.RSFogEnd)
	h.Float32(p.RSFogDensity)
	h.Uint32(p.RSFogTableMode)

	for stage := 0; stage < devstate.MaxSamplerStages; stage++ {
		h.Uint32(p.SamplerMinFilter[stage])
		h.Uint32(p.SamplerMagFilter[stage])
		h.Uint32(p.SamplerMipFilter[stage])
		h.Uint32(p.SamplerAddressU[stage])
		h.Uint32(p.SamplerAddressV[stage])
		h.Uint32(p.SamplerAddressW[stage])
		h.Uint32(p.TexID[stage])
		h.Uint32(p.TexGeneration[stage])
		h.Uint32(p.TexFormat[stage])
		h.Uint32(p.TexWidth[stage])
		h.Uint32(p.TexHeight[stage])
		h.Uint32(p.TexPitch[stage])
	}

	return h.Sum()
}
