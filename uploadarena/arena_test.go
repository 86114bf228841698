package uploadarena

import "testing"

func TestCopyAndRead(t *testing.T) {
	a := New(1024)
	a.BeginFrame(0)
	data := []byte{1, 2, 3, 4}
	ref := a.Copy(data)
	if ref.Empty() {
		t.Fatal("expected non-empty ref")
	}
	got := a.Read(ref)
	if len(got) != len(data) {
		t.Fatalf("read %d bytes, want %d", len(got), len(data))
	}
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("byte %d = %d, want %d", i, got[i], data[i])
		}
	}
}

func TestAlignment(t *testing.T) {
	a := New(1024)
	a.BeginFrame(0)
	a.Copy([]byte{1, 2, 3})
	ref := a.Copy([]byte{4, 5})
	if ref.Offset%Alignment != 0 {
		t.Fatalf("offset %d not 16-byte aligned", ref.Offset)
	}
}

func TestOverflowReturnsEmptyRef(t *testing.T) {
	a := New(8)
	a.BeginFrame(0)
	ref := a.Copy(make([]byte, 64))
	if !ref.Empty() {
		t.Fatal("expected empty ref on overflow")
	}
}

func TestBeginFrameSlotRotation(t *testing.T) {
	a := New(1024)
	a.BeginFrame(0)
	r0 := a.Copy([]byte{9, 9})
	a.BeginFrame(1)
	a.Copy([]byte{1})
	a.BeginFrame(2)
	a.Copy([]byte{1})
	a.BeginFrame(3) // wraps back to slot 0, resetting its cursor
	// Slot 0's old data is still physically present until overwritten.
	got := a.Read(r0)
	if got[0] != 9 {
		t.Fatalf("expected slot 0 data to survive until overwritten, got %v", got)
	}
}

func TestBeginFrameIdempotent(t *testing.T) {
	a := New(1024)
	a.BeginFrame(5)
	ref := a.Copy([]byte{1, 2, 3})
	a.BeginFrame(5) // same frame id again: must not reset cursor
	ref2 := a.Copy([]byte{4, 5, 6})
	if ref2.Offset <= ref.Offset {
		t.Fatalf("expected second copy to land after the first, got offsets %d and %d", ref.Offset, ref2.Offset)
	}
}

func TestInBounds(t *testing.T) {
	a := New(16)
	a.BeginFrame(0)
	ref := a.Copy([]byte{1, 2, 3, 4})
	if !a.InBounds(ref) {
		t.Fatal("expected ref to be in bounds")
	}
	bad := Ref{ArenaIndex: 0, Offset: 100, Size: 4}
	if a.InBounds(bad) {
		t.Fatal("expected out-of-range ref to fail InBounds")
	}
	badSlot := Ref{ArenaIndex: 99, Offset: 0, Size: 4}
	if a.InBounds(badSlot) {
		t.Fatal("expected out-of-range arena index to fail InBounds")
	}
}
