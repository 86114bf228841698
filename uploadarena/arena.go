// Package uploadarena implements the triple-buffered bump allocator that
// backs every payload dx9mt copies across the frontend/backend boundary:
// shader constants, shader bytecode, vertex/index bytes, and texture pixels.
//
// Grounded on recording's ResourcePool (recording/pool.go): a preallocated
// backing buffer addressed by small integer refs instead of pointers, reset
// between uses via a slice-truncating Clear rather than deallocation. The
// arena generalizes that one step further into a ring of slots so the
// backend can keep replaying slot N-1 while the frontend is already writing
// into slot N.
package uploadarena

import (
	"fmt"
	"sync/atomic"

	"github.com/dx9mt/dx9mt"
)

// Slots is DX9MT_UPLOAD_ARENA_SLOTS: the number of ring slots. A frame's
// uploads live in slot (frame_id mod Slots); because the backend always
// trails the frontend by less than Slots frames in this design, an upload
// is guaranteed valid for at least two frame boundaries after it is made.
const Slots = 3

// Alignment is the required alignment, in bytes, of every allocation within
// a slot.
const Alignment = 16

// Ref addresses a byte range within one arena slot. The zero Ref (size 0)
// means "no upload", matching dx9mt_upload_ref's empty-size convention.
type Ref struct {
	ArenaIndex uint16
	Offset     uint32
	Size       uint32
}

// Empty reports whether the ref carries no payload.
func (r Ref) Empty() bool { return r.Size == 0 }

// Arena is a triple-buffered bump allocator. Each slot is a flat byte buffer;
// Copy appends bytes to the current slot and returns a Ref into it. Slots
// are intended to be reused across the Slots-frame ring, so BeginFrame must
// be called once per frame id before any Copy into that frame, even if no
// allocation happens to land on a slot boundary change.
type Arena struct {
	bytesPerSlot uint32
	slots        [Slots][]byte
	cursor       [Slots]uint32
	curFrame     uint64
	curSlot      int
	frameOpen    bool

	overflowCount int32
}

// overflowLogFirstN and overflowLogEveryN bound how often a slot-overflow
// is logged: the first few occurrences always log, then one in every
// overflowLogEveryN after that, matching dx9mt_should_log_method_sample's
// (4, 256) call at the frontend's own upload-arena overflow site.
const (
	overflowLogFirstN = 4
	overflowLogEveryN = 256
)

// shouldLogOverflow mirrors dx9mt_should_log_method_sample: the first_n
// occurrences of a sampled event always log, then every every_n-th one
// after that.
func shouldLogOverflow(counter *int32) bool {
	count := atomic.AddInt32(counter, 1)
	if count <= overflowLogFirstN {
		return true
	}
	return overflowLogEveryN > 0 && count%overflowLogEveryN == 0
}

// New creates an Arena with the given per-slot capacity in bytes.
func New(bytesPerSlot uint32) *Arena {
	a := &Arena{bytesPerSlot: bytesPerSlot}
	for i := range a.slots {
		a.slots[i] = make([]byte, bytesPerSlot)
	}
	return a
}

// BeginFrame selects the slot for frameID (frameID mod Slots) and resets its
// write cursor to zero. Calling BeginFrame again with the same frameID
// before any intervening frame is idempotent: the cursor is only reset the
// first time a given frameID is seen, so repeated no-op calls from a
// frontend that calls BeginFrame defensively do not silently discard
// in-progress uploads for that frame.
func (a *Arena) BeginFrame(frameID uint64) {
	slot := int(frameID % Slots)
	if a.frameOpen && a.curFrame == frameID && a.curSlot == slot {
		return
	}
	a.curFrame = frameID
	a.curSlot = slot
	a.cursor[slot] = 0
	a.frameOpen = true
}

// Copy appends data to the current frame's slot, 16-byte aligning the start
// offset, and returns a Ref to it. If data does not fit in the remaining
// slot space, Copy returns a zero Ref (size 0) rather than erroring: an
// overflowing upload is dropped, exactly as the original treats arena
// exhaustion as "this frame's extra uploads are lost, not fatal".
func (a *Arena) Copy(data []byte) Ref {
	if len(data) == 0 || !a.frameOpen {
		return Ref{}
	}
	slot := a.curSlot
	offset := alignUp(a.cursor[slot], Alignment)
	end := offset + uint32(len(data))
	if end > a.bytesPerSlot {
		if shouldLogOverflow(&a.overflowCount) {
			dx9mt.Logf("upload", "slot overflow: frame=%d slot=%d offset=%d need=%d capacity=%d",
				a.curFrame, slot, offset, uint32(len(data)), a.bytesPerSlot)
		}
		return Ref{}
	}
	copy(a.slots[slot][offset:end], data)
	a.cursor[slot] = end
	return Ref{ArenaIndex: uint16(slot), Offset: offset, Size: uint32(len(data))}
}

// Read returns the bytes addressed by ref. It panics if ref addresses bytes
// outside the arena's slots, since a well-formed Ref returned by Copy can
// never do so; out-of-range refs arriving from a decoded packet must be
// bounds-checked by the caller (packet.Sink) before calling Read.
func (a *Arena) Read(ref Ref) []byte {
	if ref.Empty() {
		return nil
	}
	if int(ref.ArenaIndex) >= Slots {
		panic(fmt.Sprintf("uploadarena: ref arena index %d out of range", ref.ArenaIndex))
	}
	slot := a.slots[ref.ArenaIndex]
	end := ref.Offset + ref.Size
	if end > uint32(len(slot)) {
		panic(fmt.Sprintf("uploadarena: ref [%d:%d) out of range for slot of size %d", ref.Offset, end, len(slot)))
	}
	return slot[ref.Offset:end]
}

// InBounds reports whether ref addresses a valid byte range without
// panicking, for validating refs that arrived over the wire.
func (a *Arena) InBounds(ref Ref) bool {
	if ref.Empty() {
		return true
	}
	if int(ref.ArenaIndex) >= Slots {
		return false
	}
	return ref.Offset+ref.Size <= uint32(len(a.slots[ref.ArenaIndex]))
}

// BytesPerSlot returns the configured per-slot capacity.
func (a *Arena) BytesPerSlot() uint32 { return a.bytesPerSlot }

func alignUp(v uint32, align uint32) uint32 {
	return (v + align - 1) &^ (align - 1)
}
