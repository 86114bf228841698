package surface

import "testing"

func TestNewTextureBuildsFlooredMipChain(t *testing.T) {
	tex, err := NewTexture(FormatA8R8G8B8, 5, 3, 4)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	if tex.LevelCount() != 4 {
		t.Fatalf("got %d levels, want 4", tex.LevelCount())
	}
	wantW := []uint32{5, 2, 1, 1}
	wantH := []uint32{3, 1, 1, 1}
	for i, lvl := range tex.Levels {
		if lvl.Width != wantW[i] || lvl.Height != wantH[i] {
			t.Fatalf("level %d: got %dx%d, want %dx%d", i, lvl.Width, lvl.Height, wantW[i], wantH[i])
		}
	}
}

func TestNewTextureZeroLevelsDefaultsToOne(t *testing.T) {
	tex, err := NewTexture(FormatA8R8G8B8, 8, 8, 0)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	if tex.LevelCount() != 1 {
		t.Fatalf("got %d levels, want 1", tex.LevelCount())
	}
}

func TestNewTextureRejectsZeroDimensions(t *testing.T) {
	if _, err := NewTexture(FormatA8R8G8B8, 0, 8, 1); err == nil {
		t.Fatal("expected error for zero width")
	}
}

func TestTextureLevelDimsMipAdjustedAndFloored(t *testing.T) {
	tex, err := NewTexture(FormatA8R8G8B8, 16, 16, 5)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	tex.LOD = 3
	w, h := tex.LevelDims()
	if w != 2 || h != 2 {
		t.Fatalf("got %dx%d, want 2x2", w, h)
	}

	tex.LOD = 4
	w, h = tex.LevelDims()
	if w != 1 || h != 1 {
		t.Fatalf("got %dx%d, want 1x1 (floored)", w, h)
	}
}

func TestTextureLevelDimsClampsOutOfRangeLOD(t *testing.T) {
	tex, err := NewTexture(FormatA8R8G8B8, 16, 16, 2)
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	tex.LOD = 99
	w, h := tex.LevelDims()
	if w != 16 || h != 16 {
		t.Fatalf("out-of-range LOD should clamp to level 0: got %dx%d", w, h)
	}
}

func TestNewCubeTextureBuildsSixFaces(t *testing.T) {
	cube, err := NewCubeTexture(FormatA8R8G8B8, 8, 4)
	if err != nil {
		t.Fatalf("NewCubeTexture: %v", err)
	}
	for face := range cube.Faces {
		if len(cube.Faces[face]) != 4 {
			t.Fatalf("face %d: got %d levels, want 4", face, len(cube.Faces[face]))
		}
		if cube.Faces[face][0].Width != 8 || cube.Faces[face][3].Width != 1 {
			t.Fatalf("face %d: unexpected mip widths %d/%d", face, cube.Faces[face][0].Width, cube.Faces[face][3].Width)
		}
	}
}

func TestCopyRectSameSizeRowCopy(t *testing.T) {
	src, _ := NewSurface(FormatA8R8G8B8, 4, 4, true)
	dst, _ := NewSurface(FormatA8R8G8B8, 4, 4, true)
	src.ensureSysmem()
	for i := range src.Sysmem {
		src.Sysmem[i] = 0xAB
	}

	if err := CopyRect(dst, nil, src, nil, false); err != nil {
		t.Fatalf("CopyRect: %v", err)
	}
	for i, b := range dst.Sysmem {
		if b != 0xAB {
			t.Fatalf("byte %d: got %#x, want 0xAB", i, b)
		}
	}
}

func TestCopyRectRejectsBppMismatch(t *testing.T) {
	src, _ := NewSurface(FormatA8R8G8B8, 4, 4, true)
	dst, _ := NewSurface(FormatR5G6B5, 4, 4, true)
	if err := CopyRect(dst, nil, src, nil, false); err == nil {
		t.Fatal("expected bpp mismatch error")
	}
}

func TestCopyRectRejectsSizeMismatchWithoutScale(t *testing.T) {
	src, _ := NewSurface(FormatA8R8G8B8, 4, 4, true)
	dst, _ := NewSurface(FormatA8R8G8B8, 8, 8, true)
	if err := CopyRect(dst, nil, src, nil, false); err == nil {
		t.Fatal("expected size mismatch error without scaling")
	}
}

func TestCopyRectScalesWithNearestNeighbor(t *testing.T) {
	src, _ := NewSurface(FormatA8, 2, 1, true)
	dst, _ := NewSurface(FormatA8, 4, 1, true)
	src.ensureSysmem()
	src.Sysmem[0] = 0x11
	src.Sysmem[1] = 0x22

	if err := CopyRect(dst, nil, src, nil, true); err != nil {
		t.Fatalf("CopyRect: %v", err)
	}
	want := []byte{0x11, 0x11, 0x22, 0x22}
	for i, b := range dst.Sysmem {
		if b != want[i] {
			t.Fatalf("pixel %d: got %#x, want %#x", i, b, want[i])
		}
	}
}

func TestCopyRectMarksContainerDirty(t *testing.T) {
	tex, _ := NewTexture(FormatA8R8G8B8, 4, 4, 1)
	src, _ := NewSurface(FormatA8R8G8B8, 4, 4, true)
	startGen := tex.Generation

	if err := CopyRect(tex.Levels[0], nil, src, nil, false); err != nil {
		t.Fatalf("CopyRect: %v", err)
	}
	if tex.Generation == startGen {
		t.Fatal("expected container generation to bump after CopyRect")
	}
}

func TestCopyRectRejectsUnalignedRectOnBlockCompressed(t *testing.T) {
	src, _ := NewSurface(FormatDXT1, 8, 8, true)
	dst, _ := NewSurface(FormatDXT1, 8, 8, true)
	bad := &Rect{Left: 1, Top: 0, Right: 5, Bottom: 4}
	if err := CopyRect(dst, bad, src, bad, false); err == nil {
		t.Fatal("expected block-alignment rejection")
	}
}

func TestFillRectWritesColorAndMarksDirty(t *testing.T) {
	tex, _ := NewTexture(FormatA8R8G8B8, 2, 2, 1)
	surf := tex.Levels[0]
	startGen := tex.Generation

	if err := FillRect(surf, nil, 0xFF00FF00); err != nil {
		t.Fatalf("FillRect: %v", err)
	}
	if len(surf.Sysmem) != 2*2*4 {
		t.Fatalf("got sysmem len %d, want %d", len(surf.Sysmem), 2*2*4)
	}
	for px := 0; px < 4; px++ {
		off := px * 4
		got := uint32(surf.Sysmem[off]) | uint32(surf.Sysmem[off+1])<<8 | uint32(surf.Sysmem[off+2])<<16 | uint32(surf.Sysmem[off+3])<<24
		if got != 0xFF00FF00 {
			t.Fatalf("pixel %d: got %#x, want %#x", px, got, 0xFF00FF00)
		}
	}
	if tex.Generation == startGen {
		t.Fatal("expected container generation to bump after FillRect")
	}
}

func TestFillRectRejectsOutOfBoundsRect(t *testing.T) {
	surf, _ := NewSurface(FormatA8R8G8B8, 4, 4, true)
	bad := &Rect{Left: 0, Top: 0, Right: 8, Bottom: 4}
	if err := FillRect(surf, bad, 0); err == nil {
		t.Fatal("expected out-of-bounds rejection")
	}
}
