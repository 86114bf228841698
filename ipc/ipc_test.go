package ipc

import (
	"path/filepath"
	"testing"
)

func TestPublishAndPollRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.bin")

	w, err := OpenWriter(path)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	defer w.Close()

	r, err := OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	if _, ok, err := r.Poll(); err != nil || ok {
		t.Fatalf("expected no frame before first publish, got ok=%v err=%v", ok, err)
	}

	bulk := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	frame := Frame{
		Width:      800,
		Height:     600,
		FrameID:    1,
		ReplayHash: 0xABCD,
		Draws: []Draw{
			{PrimitiveType: 4, NumVertices: 3, PrimitiveCount: 1, VBBulkOffset: 0, VBBulkSize: 4, IBBulkOffset: 4, IBBulkSize: 4},
		},
		Bulk: bulk,
	}
	if err := w.Publish(frame); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, ok, err := r.Poll()
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if !ok {
		t.Fatal("expected a new frame to be available")
	}
	if got.Width != 800 || got.Height != 600 || got.FrameID != 1 {
		t.Fatalf("frame = %+v", got)
	}
	if len(got.Draws) != 1 || got.Draws[0].NumVertices != 3 {
		t.Fatalf("draws = %+v", got.Draws)
	}
	if len(got.Bulk) != len(bulk) || got.Bulk[0] != 1 {
		t.Fatalf("bulk = %v", got.Bulk)
	}

	if _, ok, err := r.Poll(); err != nil || ok {
		t.Fatalf("expected no new frame on repeated poll, got ok=%v err=%v", ok, err)
	}
}

func TestPublishRejectsTooManyDraws(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.bin")
	w, err := OpenWriter(path)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	defer w.Close()

	draws := make([]Draw, MaxDraws+1)
	if err := w.Publish(Frame{Draws: draws}); err == nil {
		t.Fatal("expected error for exceeding MaxDraws")
	}
}
