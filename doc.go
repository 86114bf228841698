// Package dx9mt is a Direct3D9-to-Metal translation layer.
//
// # Overview
//
// dx9mt intercepts the subset of the Direct3D9 device surface real games
// exercise (render/sampler/texture-stage state, streams, shaders, draw
// calls) and turns it into a frame of self-describing, length-prefixed
// packets a separate backend process can replay against Metal. Frontend and
// backend never share pointers: every resource that crosses the boundary is
// an opaque object id, and every upload crosses through a small triple-
// buffered arena addressed by (slot, offset, size) refs.
//
// # Architecture
//
//   - objectid: opaque {kind, serial} resource handles and reference counts
//   - devstate: the flat, enum-indexed device state mirror
//   - uploadarena: the triple-buffered upload bump allocator
//   - packet: the wire packet types and the sink validation state machine
//   - shader: the SM3.0 bytecode parser, producing a typed instruction IR
//   - mslemit: the IR-to-MSL-source emitter
//   - shadercache: an LRU cache of parsed/emitted shaders keyed by bytecode hash
//   - recorder: Set* state mirroring plus DrawIndexedPrimitive packet building
//   - backend: the packet sink's registry and reference (stub) implementation
//   - ipc: the shared-memory frame snapshot publisher
//   - device: the top-level orchestration type tying the above together
//
// # Non-goals
//
// dx9mt does not provide COM vtable binary compatibility, a real Metal
// renderer, or a raw IDirect3D9 adapter-enumeration surface; it models the
// same operations idiomatically instead.
package dx9mt
