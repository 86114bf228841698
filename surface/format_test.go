package surface

import "testing"

func TestBytesPerPixel(t *testing.T) {
	cases := map[uint32]uint32{
		FormatA8R8G8B8: 4,
		FormatX8R8G8B8: 4,
		FormatD24S8:    4,
		FormatR5G6B5:   2,
		FormatA1R5G5B5: 2,
		FormatA8:       1,
		0xFFFFFFFF:     4,
	}
	for format, want := range cases {
		if got := BytesPerPixel(format); got != want {
			t.Fatalf("BytesPerPixel(%#x) = %d, want %d", format, got, want)
		}
	}
}

func TestIsBlockCompressed(t *testing.T) {
	if !IsBlockCompressed(FormatDXT1) || !IsBlockCompressed(FormatDXT5) {
		t.Fatal("expected DXT formats to report block compressed")
	}
	if IsBlockCompressed(FormatA8R8G8B8) {
		t.Fatal("A8R8G8B8 must not report block compressed")
	}
}

func TestBlockBytes(t *testing.T) {
	if BlockBytes(FormatDXT1) != 8 {
		t.Fatal("DXT1 block size must be 8")
	}
	if BlockBytes(FormatDXT3) != 16 || BlockBytes(FormatDXT5) != 16 {
		t.Fatal("DXT3/DXT5 block size must be 16")
	}
	if BlockBytes(FormatA8R8G8B8) != 0 {
		t.Fatal("uncompressed format must have zero block size")
	}
}

func TestPitchUncompressed(t *testing.T) {
	if got := Pitch(FormatA8R8G8B8, 64); got != 64*4 {
		t.Fatalf("got %d, want %d", got, 64*4)
	}
}

func TestPitchBlockCompressed(t *testing.T) {
	got := Pitch(FormatDXT1, 10)
	want := uint32(3 * 8) // ceil(10/4) = 3 block columns * 8 bytes
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestUploadSizeUncompressed(t *testing.T) {
	got := UploadSize(FormatA8R8G8B8, 64, 256)
	if got != 64*256 {
		t.Fatalf("got %d, want %d", got, 64*256)
	}
}

func TestUploadSizeBlockCompressed(t *testing.T) {
	got := UploadSize(FormatDXT1, 10, 32)
	want := uint32(3 * 32) // ceil(10/4) = 3 block rows
	if got != want {
		t.Fatalf("got %d, want %d", got, want)
	}
}

func TestUploadSizeZeroPitch(t *testing.T) {
	if UploadSize(FormatA8R8G8B8, 64, 0) != 0 {
		t.Fatal("zero pitch must yield zero size")
	}
}

func TestNextGenerationWraps(t *testing.T) {
	if NextGeneration(0) != 1 {
		t.Fatal("generation must start at 1")
	}
	if NextGeneration(0xFFFFFFFF) != 1 {
		t.Fatal("generation must wrap past zero to 1")
	}
	if NextGeneration(5) != 6 {
		t.Fatal("generation must simply increment in the common case")
	}
}

func TestShouldRefreshTextureUploadOnGenerationBump(t *testing.T) {
	if !ShouldRefreshTextureUpload(2, 1, 10, 10, 7) {
		t.Fatal("expected refresh on generation bump")
	}
}

func TestShouldRefreshTextureUploadSkipsSameFrame(t *testing.T) {
	if ShouldRefreshTextureUpload(1, 1, 10, 10, 7) {
		t.Fatal("expected no refresh: already uploaded this frame")
	}
}

func TestShouldRefreshTextureUploadPeriodicFallback(t *testing.T) {
	if !ShouldRefreshTextureUpload(1, 1, 60, 59, 0) {
		t.Fatal("expected periodic refresh at 60-frame cadence")
	}
	if ShouldRefreshTextureUpload(1, 1, 61, 59, 0) {
		t.Fatal("expected no refresh off the cadence boundary")
	}
}
