package devstate

import "testing"

func TestNewDefaults(t *testing.T) {
	m := New()
	if m.RenderStates[RSZEnable] != 1 {
		t.Errorf("ZEnable default = %d, want 1", m.RenderStates[RSZEnable])
	}
	if m.RenderStates[RSCullMode] != 3 {
		t.Errorf("CullMode default = %d, want 3 (CCW)", m.RenderStates[RSCullMode])
	}
	for i := range m.Transforms {
		if m.Transforms[i] != identity4x4 {
			t.Fatalf("transform %d not identity by default", i)
		}
	}
	for stage := range m.SamplerStates {
		if m.SamplerStates[stage][SampAddressU] != 1 {
			t.Errorf("stage %d AddressU default = %d, want 1 (WRAP)", stage, m.SamplerStates[stage][SampAddressU])
		}
	}
	if got := FloatRenderState(m.RenderStates[RSFogEnd]); got != 1 {
		t.Errorf("FogEnd default = %v, want 1", got)
	}
}

func TestHashViewportDeterministic(t *testing.T) {
	v := Viewport{X: 0, Y: 0, Width: 1920, Height: 1080, MinZ: 0, MaxZ: 1}
	h1 := HashViewport(v)
	h2 := HashViewport(v)
	if h1 != h2 {
		t.Fatal("HashViewport not deterministic")
	}
	v2 := v
	v2.Width = 1280
	if HashViewport(v2) == h1 {
		t.Fatal("expected different hash for different viewport")
	}
}

func TestHashRect(t *testing.T) {
	r := Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}
	if HashRect(r) != HashRect(r) {
		t.Fatal("HashRect not deterministic")
	}
}

func TestHashStreamBindingsChangesWithBinding(t *testing.T) {
	m := New()
	h1 := m.HashStreamBindings()
	m.Streams[0].Stride = 32
	h2 := m.HashStreamBindings()
	if h1 == h2 {
		t.Fatal("expected stream binding hash to change after mutation")
	}
}
