package device

import (
	"testing"

	"github.com/dx9mt/dx9mt/devstate"
	"github.com/dx9mt/dx9mt/objectid"
	"github.com/dx9mt/dx9mt/packet"
	"github.com/dx9mt/dx9mt/recorder"
)

func TestOpenUsesStubBackendByDefault(t *testing.T) {
	d, err := Open(Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if d.Bridge == nil {
		t.Fatal("expected a backend bridge")
	}
	if d.Arena == nil || d.Recorder == nil || d.Cache == nil {
		t.Fatal("expected arena, recorder and cache to be constructed")
	}
}

func TestNextIDIsMonotonicPerKind(t *testing.T) {
	d, err := Open(Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	a := d.NextID(objectid.KindTexture)
	b := d.NextID(objectid.KindTexture)
	if a.Serial() >= b.Serial() {
		t.Fatalf("expected increasing serials, got %d then %d", a.Serial(), b.Serial())
	}
	if a.Kind() != objectid.KindTexture {
		t.Fatalf("expected kind texture, got %v", a.Kind())
	}
}

func TestFrameLifecycleSubmitsPackets(t *testing.T) {
	d, err := Open(Config{
		PresentTarget: packet.PresentTarget{TargetID: 1, Width: 640, Height: 480},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if err := d.BeginFrame(1); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}

	vb := d.NextID(objectid.KindVertexBuffer)
	ib := d.NextID(objectid.KindIndexBuffer)
	rt := d.NextID(objectid.KindSurface)
	d.Recorder.CreateVertexBuffer(vb, make([]byte, 64))
	d.Recorder.CreateIndexBuffer(ib, make([]byte, 12))
	d.Recorder.SetStreamSource(0, vb, 0, 16)
	d.Recorder.SetIndices(ib)
	d.Recorder.SetRenderTarget(0, devstate.RenderTarget{SurfaceID: rt, Width: 64, Height: 64, Format: 21})
	d.Recorder.SetFVF(0x002)

	d.DrawIndexed(recorder.DrawParams{
		PrimitiveType:  1,
		NumVertices:    3,
		PrimitiveCount: 1,
		IndexFormat:    1,
	})
	if err := d.Clear(nil, 0xff000000, 1, 1.0, 0); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if err := d.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}

	stats := d.Bridge.Stats()
	if stats.DrawIndexedCount != 1 {
		t.Fatalf("expected 1 recorded draw, got %d", stats.DrawIndexedCount)
	}
	if stats.ClearCount != 1 {
		t.Fatalf("expected 1 recorded clear, got %d", stats.ClearCount)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	d, err := Open(Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	d.Close()
	d.Close()
}
