// Package objectid defines the opaque {kind, serial} handles that cross the
// frontend/backend boundary in place of raw pointers, along with the
// monotonic per-kind counters and reference-counting helpers that manage
// them.
//
// Grounded on recording's FontRef/PathRef (gogpu-gg recording/pool.go):
// index-based opaque refs with an IsValid method, generalized here to a
// packed 32-bit id so many resource kinds can share one counter family
// without a dozen near-identical ref types.
package objectid

import "sync/atomic"

// Kind identifies the resource family an ID belongs to. Values match the
// D3D9 resource taxonomy dx9mt tracks.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSurface
	KindTexture
	KindCubeTexture
	KindVolumeTexture
	KindVertexBuffer
	KindIndexBuffer
	KindVertexDeclaration
	KindVertexShader
	KindPixelShader
	KindQuery
	KindSwapChain
)

func (k Kind) String() string {
	switch k {
	case KindSurface:
		return "surface"
	case KindTexture:
		return "texture"
	case KindCubeTexture:
		return "cube_texture"
	case KindVolumeTexture:
		return "volume_texture"
	case KindVertexBuffer:
		return "vertex_buffer"
	case KindIndexBuffer:
		return "index_buffer"
	case KindVertexDeclaration:
		return "vertex_declaration"
	case KindVertexShader:
		return "vertex_shader"
	case KindPixelShader:
		return "pixel_shader"
	case KindQuery:
		return "query"
	case KindSwapChain:
		return "swap_chain"
	default:
		return "invalid"
	}
}

// serialBits is the width of the serial portion of an ID; the remaining high
// byte carries the Kind.
const serialBits = 24
const serialMask = 1<<serialBits - 1

// ID is an opaque 32-bit object handle: kind in bits [31:24], a per-kind
// monotonic serial in bits [23:0]. The zero value is never a valid id.
type ID uint32

// Pack builds an ID from a kind and serial. Serials that overflow 24 bits
// wrap silently; callers are expected to retire ids long before 16M
// allocations of a single kind occur in one process.
func Pack(kind Kind, serial uint32) ID {
	return ID(uint32(kind)<<serialBits | (serial & serialMask))
}

// Kind extracts the resource kind from an ID.
func (id ID) Kind() Kind { return Kind(id >> serialBits) }

// Serial extracts the per-kind monotonic serial from an ID.
func (id ID) Serial() uint32 { return uint32(id) & serialMask }

// IsValid reports whether id is non-zero and carries a known kind.
func (id ID) IsValid() bool {
	return id != 0 && id.Kind() != KindInvalid
}

// Counters allocates monotonically increasing serials per Kind. A single
// process-wide Counters is shared by every resource-creating call site, the
// way the original's per-type globals (g_next_texture_id, ...) worked,
// collapsed into one atomic-array type instead of one global per kind.
type Counters struct {
	next [KindSwapChain + 1]atomic.Uint32
}

// Next returns the next ID for kind, starting at serial 1 (0 is reserved for
// "no object").
func (c *Counters) Next(kind Kind) ID {
	serial := c.next[kind].Add(1)
	return Pack(kind, serial)
}

// RefCounted is embedded by resource wrapper types that participate in
// D3D9's AddRef/Release reference counting.
type RefCounted struct {
	count atomic.Int32
}

// init initializes the reference count to 1, matching D3D9's
// create-returns-refcount-1 convention.
func (r *RefCounted) init() { r.count.Store(1) }

// NewRefCounted returns a RefCounted with an initial count of 1.
func NewRefCounted() *RefCounted {
	r := &RefCounted{}
	r.init()
	return r
}

// AddRef increments the reference count and returns the new value, mirroring
// IUnknown::AddRef.
func (r *RefCounted) AddRef() int32 { return r.count.Add(1) }

// Release decrements the reference count and returns the new value. Callers
// must acquire (AddRef or construct-with-count-1) before ever calling
// Release, and must treat a result of 0 as "free this resource now" exactly
// once: Release never double-frees because the atomic decrement is the sole
// arbiter of the zero-crossing.
func (r *RefCounted) Release() int32 { return r.count.Add(-1) }

// RefCount returns the current reference count without modifying it.
func (r *RefCounted) RefCount() int32 { return r.count.Load() }
