package packet

import (
	"errors"
	"fmt"
)

// SinkState is the backend packet sink's lifecycle state, matching
// backend_bridge_stub.c's g_backend_ready/g_frame_open bookkeeping collapsed
// into one explicit state machine: Uninitialized -> Ready on Init,
// Ready <-> FrameOpen on BeginFrame/Present, -> Shut on Shutdown.
type SinkState int

const (
	StateUninitialized SinkState = iota
	StateReady
	StateFrameOpen
	StateShut
)

func (s SinkState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFrameOpen:
		return "frame_open"
	case StateShut:
		return "shut"
	default:
		return "unknown"
	}
}

var (
	ErrNotInitialized      = errors.New("packet: sink not initialized")
	ErrAlreadyShut         = errors.New("packet: sink already shut down")
	ErrSequenceOutOfOrder  = errors.New("packet: sequence out of order")
	ErrPacketTooSmall      = errors.New("packet: packet smaller than its type's minimum size")
	ErrPacketOutOfBounds   = errors.New("packet: packet extends past submitted byte range")
	ErrUnknownType         = errors.New("packet: unknown or out-of-range packet type")
	ErrTailMismatch        = errors.New("packet: parsed byte count does not match submitted byte range")
	ErrMissingDrawBindings = errors.New("packet: draw packet missing required object ids")
	ErrNoPresentTarget     = errors.New("packet: present target metadata not set")
)

// headerSize is the encoded size of Header on the wire: two uint16 fields
// plus one uint32, 8 bytes total.
const headerSize = 8

// minSize reports the minimum valid Header.Size for a packet of type t,
// matching each per-type struct's encoded size floor in
// backend_bridge_stub.c's submit_packets validation.
func minSize(t Type) (uint16, bool) {
	switch t {
	case TypeInit:
		return headerSize + 4 + 4 + 8, true // protocol_version + ring_capacity_bytes + upload_desc{8}
	case TypeBeginFrame:
		return headerSize + 4, true
	case TypeDrawIndexed:
		return sizeOf(&DrawIndexedPacket{}), true
	case TypePresent:
		return headerSize + 8, true
	case TypeShutdown:
		return headerSize, true
	case TypeClear:
		return headerSize + 24, true // frame_id+rect_count+flags+color+z+stencil
	default:
		return 0, false
	}
}

// FrameStats accumulates per-frame packet counters, reset on every
// BeginFrame, matching dx9mt_backend_reset_frame_stats.
type FrameStats struct {
	PacketCount       uint32
	DrawIndexedCount  uint32
	ClearCount        uint32
	LastClearColor    uint32
	LastClearFlags    uint32
	LastClearZ        float32
	LastClearStencil  uint32
}

func (s *FrameStats) reset() {
	*s = FrameStats{LastClearZ: 1.0}
}

// PresentTarget mirrors dx9mt_backend_present_target_desc.
type PresentTarget struct {
	TargetID      uint64
	WindowHandle  uint64
	Width, Height uint32
	Format        uint32
	Windowed      bool
}

// Sink validates and accumulates statistics over an incoming packet stream.
// It does not itself render anything -- that is backend.Bridge's job; Sink
// is the reusable validation/state-machine core backend.Bridge embeds,
// isolated so it can be tested without a real renderer.
type Sink struct {
	state            SinkState
	lastSequence     uint32
	lastFrameID      uint32
	frameOpen        bool
	havePresentTarget bool
	presentTarget    PresentTarget
	stats            FrameStats
}

// NewSink returns a Sink in the Uninitialized state.
func NewSink() *Sink { return &Sink{} }

// State returns the sink's current lifecycle state.
func (s *Sink) State() SinkState { return s.state }

// Init transitions Uninitialized -> Ready. Calling Init again after Ready
// resets the sink: sequence tracking, the present target, the open-frame
// flag and frame statistics are all cleared, matching the stub's init
// always resetting g_backend_ready/frame stats unconditionally.
func (s *Sink) Init() {
	s.state = StateReady
	s.lastSequence = 0
	s.havePresentTarget = false
	s.presentTarget = PresentTarget{}
	s.frameOpen = false
	s.stats.reset()
}

// UpdatePresentTarget records the present target metadata. Returns an error
// if the sink has not been Init'd, or if the descriptor is missing required
// fields (matching the stub's width/height/target_id != 0 checks).
func (s *Sink) UpdatePresentTarget(t PresentTarget) error {
	if s.state == StateUninitialized || s.state == StateShut {
		return ErrNotInitialized
	}
	if t.Width == 0 || t.Height == 0 || t.TargetID == 0 {
		return fmt.Errorf("packet: invalid present target metadata: target=%d size=%dx%d", t.TargetID, t.Width, t.Height)
	}
	s.presentTarget = t
	s.havePresentTarget = true
	return nil
}

// BeginFrame transitions Ready/FrameOpen -> FrameOpen, resetting per-frame
// statistics, matching dx9mt_backend_bridge_begin_frame.
func (s *Sink) BeginFrame(frameID uint32) error {
	if s.state == StateUninitialized || s.state == StateShut {
		return ErrNotInitialized
	}
	s.frameOpen = true
	s.lastFrameID = frameID
	s.state = StateFrameOpen
	s.stats.reset()
	return nil
}

// Present transitions FrameOpen -> Ready. It is an error to Present without
// a present target configured, matching the stub's hard failure there;
// presenting without an open frame is logged by the original but not fatal,
// so Present tolerates it here too (frontend soft-present can legitimately
// skip BeginFrame under DX9MT_FRONTEND_SOFT_PRESENT).
func (s *Sink) Present(frameID uint32) error {
	if s.state == StateUninitialized || s.state == StateShut {
		return ErrNotInitialized
	}
	if !s.havePresentTarget {
		return ErrNoPresentTarget
	}
	s.frameOpen = false
	s.lastFrameID = frameID
	s.state = StateReady
	return nil
}

// Shutdown transitions to Shut. It is idempotent.
func (s *Sink) Shutdown() {
	s.state = StateShut
	s.frameOpen = false
	s.havePresentTarget = false
	s.lastSequence = 0
}

// Stats returns a copy of the current frame's accumulated statistics.
func (s *Sink) Stats() FrameStats { return s.stats }

// ValidateHeader checks a single packet's header against the sink's
// sequence-monotonicity and size-floor rules without consuming it, matching
// submit_packets' per-packet checks. offset/total describe the packet's
// position within the larger submitted byte range, for bounds checking.
func (s *Sink) ValidateHeader(h Header, offset, total uint32) error {
	if h.Size < headerSize || uint32(offset)+uint32(h.Size) > total {
		return fmt.Errorf("%w: offset=%d size=%d total=%d", ErrPacketOutOfBounds, offset, h.Size, total)
	}
	if h.Type <= TypeInvalid || h.Type > TypeClear {
		return fmt.Errorf("%w: type=%d", ErrUnknownType, h.Type)
	}
	floor, ok := minSize(h.Type)
	if !ok || h.Size < floor {
		return fmt.Errorf("%w: type=%s size=%d floor=%d", ErrPacketTooSmall, h.Type, h.Size, floor)
	}
	if h.Sequence == 0 || (s.lastSequence != 0 && h.Sequence <= s.lastSequence) {
		return fmt.Errorf("%w: sequence=%d last=%d", ErrSequenceOutOfOrder, h.Sequence, s.lastSequence)
	}
	return nil
}

// AcceptHeader advances sequence tracking and the frame's total packet count
// after a header has passed ValidateHeader; the per-type draw/clear counters
// are advanced by RecordDraw/RecordClear. Draw/Clear-specific required-field
// checks are the caller's responsibility (they need the full typed packet,
// which Sink, as a header-only validator, does not see).
func (s *Sink) AcceptHeader(h Header) {
	s.lastSequence = h.Sequence
	s.stats.PacketCount++
}

// ValidateDraw checks a fully-decoded draw packet's required object-id
// bindings, matching the stub's render_target_id/vertex_buffer_id/
// index_buffer_id/(vertex_decl_id||fvf) non-zero checks.
func ValidateDraw(p DrawIndexedPacket) error {
	if p.RenderTargetID == 0 || p.VertexBufferID == 0 || p.IndexBufferID == 0 ||
		(p.VertexDeclID == 0 && p.FVF == 0) {
		return fmt.Errorf("%w: rt=%d vb=%d ib=%d decl=%d fvf=0x%08x",
			ErrMissingDrawBindings, p.RenderTargetID, p.VertexBufferID, p.IndexBufferID, p.VertexDeclID, p.FVF)
	}
	return nil
}

// RecordDraw updates frame statistics after a draw packet is accepted.
func (s *Sink) RecordDraw() { s.stats.DrawIndexedCount++ }

// RecordClear updates frame statistics after a clear packet is accepted.
func (s *Sink) RecordClear(p ClearPacket) {
	s.stats.ClearCount++
	s.stats.LastClearColor = p.Color
	s.stats.LastClearFlags = p.Flags
	s.stats.LastClearZ = p.Z
	s.stats.LastClearStencil = p.Stencil
}

// ShouldLogFrame reports whether frame-level events for frameID should be
// logged, matching dx9mt_backend_should_log_frame: always for the first ten
// frames, then once every 120 frames.
func ShouldLogFrame(frameID uint32) bool {
	return frameID < 10 || frameID%120 == 0
}
