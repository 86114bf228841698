package devstate

import "math"

// FNV-1a 32-bit constants, matching dx9mt_sm_bytecode_hash and the device's
// state-fingerprint hashes exactly (original_source uses the 32-bit FNV-1a
// variant throughout, not the 64-bit one gogpu-gg's scene.Encoding.Hash uses
// for its own unrelated 64-bit content hash).
const (
	fnvOffset32 uint32 = 2166136261
	fnvPrime32  uint32 = 16777619
)

// Hasher accumulates an FNV-1a 32-bit hash over a sequence of uint32 and
// float32 values, mirroring the byte-at-a-time mixing the original's
// dx9mt_hash_* functions perform over raw struct bytes.
type Hasher struct {
	h uint32
}

// NewHasher returns a Hasher seeded with the FNV-1a offset basis.
func NewHasher() Hasher { return Hasher{h: fnvOffset32} }

func (hs *Hasher) mixByte(b byte) {
	hs.h ^= uint32(b)
	hs.h *= fnvPrime32
}

// Uint32 mixes in a 32-bit value, little-endian byte order (matching a
// memcpy of a native uint32 on the x86/ARM little-endian targets dx9mt
// runs on).
func (hs *Hasher) Uint32(v uint32) {
	hs.mixByte(byte(v))
	hs.mixByte(byte(v >> 8))
	hs.mixByte(byte(v >> 16))
	hs.mixByte(byte(v >> 24))
}

// Int32 mixes in a signed 32-bit value via its bit pattern.
func (hs *Hasher) Int32(v int32) { hs.Uint32(uint32(v)) }

// Float32 mixes in a float32 via its bit pattern.
func (hs *Hasher) Float32(v float32) { hs.Uint32(math.Float32bits(v)) }

// Bool mixes in a boolean as 0/1.
func (hs *Hasher) Bool(v bool) {
	if v {
		hs.Uint32(1)
	} else {
		hs.Uint32(0)
	}
}

// Sum returns the accumulated hash.
func (hs Hasher) Sum() uint32 { return hs.h }

// HashViewport computes dx9mt_hash_viewport: FNV-1a over the viewport's six
// fields in declaration order.
func HashViewport(v Viewport) uint32 {
	h := NewHasher()
	h.Uint32(v.X)
	h.Uint32(v.Y)
	h.Uint32(v.Width)
	h.Uint32(v.Height)
	h.Float32(v.MinZ)
	h.Float32(v.MaxZ)
	return h.Sum()
}

// HashRect computes dx9mt_hash_rect: FNV-1a over the rect's four fields.
func HashRect(r Rect) uint32 {
	h := NewHasher()
	h.Int32(r.Left)
	h.Int32(r.Top)
	h.Int32(r.Right)
	h.Int32(r.Bottom)
	return h.Sum()
}

// HashTextureStageState hashes the full texture-stage state mirror (all
// stages, all slots), used as one of the draw packet's fingerprint fields.
func (m *Mirror) HashTextureStageState() uint32 {
	h := NewHasher()
	for _, stage := range m.TextureStage {
		for _, v := range stage {
			h.Uint32(v)
		}
	}
	return h.Sum()
}

// HashSamplerState hashes the full sampler state mirror.
func (m *Mirror) HashSamplerState() uint32 {
	h := NewHasher()
	for _, stage := range m.SamplerStates {
		for _, v := range stage {
			h.Uint32(v)
		}
	}
	return h.Sum()
}

// HashStreamBindings hashes the active stream bindings plus the bound index
// buffer and vertex declaration/FVF, since together they determine the
// backend's vertex-fetch pipeline state.
func (m *Mirror) HashStreamBindings() uint32 {
	h := NewHasher()
	for _, s := range m.Streams {
		h.Uint32(uint32(s.VertexBuffer))
		h.Uint32(s.Offset)
		h.Uint32(s.Stride)
	}
	h.Uint32(uint32(m.Indices))
	h.Uint32(uint32(m.VertexDecl))
	h.Uint32(m.FVF)
	return h.Sum()
}
