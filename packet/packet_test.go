package packet

import "testing"

func TestStreamRoundTripBeginFrame(t *testing.T) {
	seq := &SequenceCounter{}
	s := NewStream(seq)
	s.PutBeginFrame(42)

	b := s.Bytes()
	h, err := DecodeHeader(b)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if h.Type != TypeBeginFrame {
		t.Fatalf("type = %v, want BEGIN_FRAME", h.Type)
	}
	if h.Sequence != 1 {
		t.Fatalf("sequence = %d, want 1", h.Sequence)
	}
	p, err := DecodeBeginFrame(b)
	if err != nil {
		t.Fatalf("DecodeBeginFrame: %v", err)
	}
	if p.FrameID != 42 {
		t.Fatalf("frame id = %d, want 42", p.FrameID)
	}
}

func TestSinkLifecycle(t *testing.T) {
	s := NewSink()
	if s.State() != StateUninitialized {
		t.Fatalf("initial state = %v, want uninitialized", s.State())
	}
	s.Init()
	if s.State() != StateReady {
		t.Fatalf("state after Init = %v, want ready", s.State())
	}
	if err := s.UpdatePresentTarget(PresentTarget{TargetID: 1, Width: 640, Height: 480}); err != nil {
		t.Fatalf("UpdatePresentTarget: %v", err)
	}
	if err := s.BeginFrame(0); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if s.State() != StateFrameOpen {
		t.Fatalf("state after BeginFrame = %v, want frame_open", s.State())
	}
	if err := s.Present(0); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if s.State() != StateReady {
		t.Fatalf("state after Present = %v, want ready", s.State())
	}
	s.Shutdown()
	if s.State() != StateShut {
		t.Fatalf("state after Shutdown = %v, want shut", s.State())
	}
}

func TestPresentWithoutTargetFails(t *testing.T) {
	s := NewSink()
	s.Init()
	if err := s.Present(0); err == nil {
		t.Fatal("expected error presenting without a present target")
	}
}

func TestValidateHeaderSequenceMonotonic(t *testing.T) {
	s := NewSink()
	s.Init()
	h1 := Header{Type: TypeBeginFrame, Size: 12, Sequence: 1}
	if err := s.ValidateHeader(h1, 0, 12); err != nil {
		t.Fatalf("expected first header to validate, got %v", err)
	}
	s.AcceptHeader(h1)

	h2 := Header{Type: TypeBeginFrame, Size: 12, Sequence: 1}
	if err := s.ValidateHeader(h2, 0, 12); err == nil {
		t.Fatal("expected repeated sequence to fail validation")
	}
}

func TestValidateHeaderRejectsUnknownType(t *testing.T) {
	s := NewSink()
	s.Init()
	h := Header{Type: Type(99), Size: 100, Sequence: 1}
	if err := s.ValidateHeader(h, 0, 100); err == nil {
		t.Fatal("expected unknown type to be rejected")
	}
}

func TestValidateHeaderRejectsOutOfBounds(t *testing.T) {
	s := NewSink()
	s.Init()
	h := Header{Type: TypeBeginFrame, Size: 12, Sequence: 1}
	if err := s.ValidateHeader(h, 4, 12); err == nil {
		t.Fatal("expected out-of-bounds header to be rejected")
	}
}

func TestValidateDrawRequiresBindings(t *testing.T) {
	p := DrawIndexedPacket{}
	if err := ValidateDraw(p); err == nil {
		t.Fatal("expected empty draw packet to fail validation")
	}
	p.RenderTargetID = 1
	p.VertexBufferID = 2
	p.IndexBufferID = 3
	p.FVF = 0x112 // no decl, but FVF set
	if err := ValidateDraw(p); err != nil {
		t.Fatalf("expected valid draw packet, got %v", err)
	}
}

func TestShouldLogFrame(t *testing.T) {
	cases := map[uint32]bool{0: true, 9: true, 10: false, 119: false, 120: true, 240: true}
	for frame, want := range cases {
		if got := ShouldLogFrame(frame); got != want {
			t.Errorf("ShouldLogFrame(%d) = %v, want %v", frame, got, want)
		}
	}
}

func TestDrawIndexedRoundTrip(t *testing.T) {
	seq := &SequenceCounter{}
	s := NewStream(seq)
	p := DrawIndexedPacket{
		PrimitiveType:  4,
		NumVertices:    100,
		PrimitiveCount: 33,
		RenderTargetID: 7,
		VertexBufferID: 8,
		IndexBufferID:  9,
		FVF:            0x142,
	}
	s.PutDrawIndexed(p)

	got, err := DecodeDrawIndexed(s.Bytes())
	if err != nil {
		t.Fatalf("DecodeDrawIndexed: %v", err)
	}
	if got.NumVertices != 100 || got.PrimitiveCount != 33 || got.RenderTargetID != 7 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Header.Type != TypeDrawIndexed {
		t.Fatalf("header type = %v, want DRAW_INDEXED", got.Header.Type)
	}
}
