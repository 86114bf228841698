package backend

import (
	"testing"

	"github.com/dx9mt/dx9mt/packet"
)

func TestStubBridgeLifecycle(t *testing.T) {
	b := NewStubBridge(nil)
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := b.UpdatePresentTarget(packet.PresentTarget{TargetID: 1, Width: 640, Height: 480}); err != nil {
		t.Fatalf("UpdatePresentTarget: %v", err)
	}
	if err := b.BeginFrame(1); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}

	stream := packet.NewStream(&packet.SequenceCounter{})
	stream.PutDrawIndexed(packet.DrawIndexedPacket{
		RenderTargetID: 1,
		VertexBufferID: 2,
		IndexBufferID:  3,
		FVF:            0x112,
	})
	stream.PutClear(packet.ClearPacket{FrameID: 1, Color: 0xFF000000})

	if err := b.SubmitPackets(stream.Bytes()); err != nil {
		t.Fatalf("SubmitPackets: %v", err)
	}

	stats := b.Stats()
	if stats.DrawIndexedCount != 1 || stats.ClearCount != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	if err := b.Present(1); err != nil {
		t.Fatalf("Present: %v", err)
	}
	b.Shutdown()
}

func TestStubBridgeRejectsMissingBindings(t *testing.T) {
	b := NewStubBridge(nil)
	b.Init()
	b.UpdatePresentTarget(packet.PresentTarget{TargetID: 1, Width: 640, Height: 480})
	b.BeginFrame(1)

	stream := packet.NewStream(&packet.SequenceCounter{})
	stream.PutDrawIndexed(packet.DrawIndexedPacket{}) // missing all required ids

	if err := b.SubmitPackets(stream.Bytes()); err == nil {
		t.Fatal("expected error for draw packet missing required bindings")
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	if !IsRegistered("stub") {
		t.Fatal("expected stub backend to be registered")
	}
	b, err := New("stub")
	if err != nil {
		t.Fatalf("New(stub): %v", err)
	}
	if b == nil {
		t.Fatal("expected non-nil bridge")
	}

	if _, err := New("nonexistent"); err == nil {
		t.Fatal("expected error for unregistered backend name")
	}
}
