package surface

// D3DFORMAT values this translation layer needs to reason about, named for
// the subset of formats dx9mt_bytes_per_pixel/dx9mt_format_is_block_compressed
// actually switch on.
const (
	FormatA8R8G8B8 = 21
	FormatX8R8G8B8 = 22
	FormatR5G6B5   = 23
	FormatA1R5G5B5 = 25
	FormatX1R5G5B5 = 24
	FormatA8       = 28
	FormatD24S8    = 75
	FormatD24X8    = 77
	FormatDXT1     = 0x31545844 // 'DXT1'
	FormatDXT3     = 0x33545844 // 'DXT3'
	FormatDXT5     = 0x35545844 // 'DXT5'
)

// BytesPerPixel returns the uncompressed per-pixel byte size for format,
// matching dx9mt_bytes_per_pixel. Unrecognized formats default to 4, the
// same fallback the original uses.
func BytesPerPixel(format uint32) uint32 {
	switch format {
	case FormatA8R8G8B8, FormatX8R8G8B8, FormatD24S8, FormatD24X8:
		return 4
	case FormatR5G6B5, FormatA1R5G5B5, FormatX1R5G5B5:
		return 2
	case FormatA8:
		return 1
	default:
		return 4
	}
}

// IsBlockCompressed reports whether format is one of the DXT block-
// compressed formats, matching dx9mt_format_is_block_compressed.
func IsBlockCompressed(format uint32) bool {
	return format == FormatDXT1 || format == FormatDXT3 || format == FormatDXT5
}

// BlockBytes returns the per-4x4-block byte size for a block-compressed
// format, or 0 if format is not block compressed, matching
// dx9mt_format_block_bytes.
func BlockBytes(format uint32) uint32 {
	switch format {
	case FormatDXT1:
		return 8
	case FormatDXT3, FormatDXT5:
		return 16
	default:
		return 0
	}
}

// Pitch computes a surface's row pitch from its format and width, matching
// dx9mt_surface_pitch: block-compressed formats are pitched by 4x4 block
// columns, uncompressed formats by raw pixels.
func Pitch(format uint32, width uint32) uint32 {
	if width == 0 {
		return 0
	}
	if !IsBlockCompressed(format) {
		return width * BytesPerPixel(format)
	}
	blockColumns := (width + 3) / 4
	if blockColumns == 0 {
		blockColumns = 1
	}
	return blockColumns * BlockBytes(format)
}

// UploadSize computes the byte size of one surface's upload, matching
// dx9mt_surface_upload_size_from_desc: block-compressed formats are sized
// by 4x4 block rows, uncompressed formats by raw scanlines.
func UploadSize(format uint32, height, pitch uint32) uint32 {
	if pitch == 0 {
		return 0
	}
	if IsBlockCompressed(format) {
		blockRows := (height + 3) / 4
		if blockRows == 0 {
			blockRows = 1
		}
		return pitch * blockRows
	}
	return pitch * height
}

// NextGeneration advances a texture's dirty-tracking generation counter,
// matching dx9mt_texture_next_generation: wraps past zero back to 1, since 0
// is reserved to mean "never uploaded".
func NextGeneration(generation uint32) uint32 {
	generation++
	if generation == 0 {
		generation = 1
	}
	return generation
}

// TextureUploadRefreshInterval is DX9MT_TEXTURE_UPLOAD_REFRESH_INTERVAL: a
// periodic fallback re-upload cadence guarding against missed dirty-tracking.
const TextureUploadRefreshInterval = 60

// ShouldRefreshTextureUpload reports whether a bound texture's upload should
// be re-copied into the arena this draw, matching the should_upload logic
// in dx9mt_device_fill_draw_texture_stages: always on a generation bump,
// otherwise once every TextureUploadRefreshInterval frames per object id
// (staggered by object id so not every texture re-uploads on the same
// frame).
func ShouldRefreshTextureUpload(generation, lastUploadGeneration, frameID, lastUploadFrameID, objectID uint32) bool {
	if lastUploadGeneration != generation {
		return true
	}
	if lastUploadFrameID == frameID {
		return false
	}
	return (frameID+objectID)%TextureUploadRefreshInterval == 0
}
