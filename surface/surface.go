// Package surface implements the D3D9 object graph a device's resources
// live in below the draw-packet/device-state layer: system-memory-backed
// Surfaces, the mip-level chains Texture and CubeTexture build them into,
// and the CopyRect/FillRect pixel operations that mutate them.
//
// Grounded on original_source/dx9mt/src/frontend/d3d9_device.c's
// dx9mt_surface_create/dx9mt_texture_create/dx9mt_cube_texture_create and
// the dx9mt_surface_copy_rect/dx9mt_surface_fill_rect pixel-op pair,
// following devstate's flat-struct-plus-accessor style rather than the
// original's vtable-and-refcount object model (recorder/objectid already
// own identity and lifetime; Surface/Texture/CubeTexture here only need to
// carry pixels and dimensions).
package surface

import (
	"encoding/binary"
	"fmt"
)

// dirtyMarker is implemented by a surface's owning texture, so a write into
// one mip level or cube face can bump the whole resource's generation.
type dirtyMarker interface {
	MarkDirty()
}

// Surface is a system-memory-backed 2D pixel buffer: one mip level of a
// Texture, one face/level of a CubeTexture, or a standalone render target,
// depth-stencil, or offscreen-plain surface. Sysmem is allocated lazily, on
// first CopyRect/FillRect, matching dx9mt_surface_ensure_sysmem.
type Surface struct {
	Format        uint32
	Width, Height uint32
	Pitch         uint32
	Sysmem        []byte
	Lockable      bool

	container dirtyMarker
}

// NewSurface returns a standalone Surface (no owning texture), matching
// dx9mt_surface_create's path for render targets, depth-stencil surfaces,
// and offscreen plain surfaces.
func NewSurface(format, width, height uint32, lockable bool) (*Surface, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("surface: surface must have nonzero dimensions")
	}
	return newSurface(format, width, height, lockable, nil), nil
}

func newSurface(format, width, height uint32, lockable bool, container dirtyMarker) *Surface {
	return &Surface{
		Format:    format,
		Width:     width,
		Height:    height,
		Pitch:     Pitch(format, width),
		Lockable:  lockable,
		container: container,
	}
}

// ensureSysmem lazily allocates the pixel backing store, matching
// dx9mt_surface_ensure_sysmem.
func (s *Surface) ensureSysmem() {
	if s.Sysmem != nil {
		return
	}
	size := UploadSize(s.Format, s.Height, s.Pitch)
	if size == 0 {
		return
	}
	s.Sysmem = make([]byte, size)
}

// markContainerDirty bumps the owning texture's generation, matching
// dx9mt_surface_mark_container_dirty. A standalone surface (container ==
// nil) has nothing to mark.
func (s *Surface) markContainerDirty() {
	if s.container != nil {
		s.container.MarkDirty()
	}
}

// Texture is a 2D texture's full mip-level chain. Level dimensions halve
// and floor to 1 per level, matching dx9mt_texture_create's level_w/level_h
// loop.
type Texture struct {
	Format        uint32
	Width, Height uint32
	Levels        []*Surface
	LOD           uint32
	Generation    uint32
}

// NewTexture builds a texture with levelCount mip levels (levelCount == 0
// means 1, matching dx9mt_texture_create's "levels = 1" fallback).
func NewTexture(format, width, height, levelCount uint32) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("surface: texture must have nonzero dimensions")
	}
	if levelCount == 0 {
		levelCount = 1
	}

	t := &Texture{Format: format, Width: width, Height: height, Generation: 1}
	t.Levels = make([]*Surface, levelCount)

	lw, lh := width, height
	for i := range t.Levels {
		t.Levels[i] = newSurface(format, lw, lh, true, t)
		if lw > 1 {
			lw /= 2
		}
		if lh > 1 {
			lh /= 2
		}
	}
	return t, nil
}

// MarkDirty advances the texture's generation, matching
// dx9mt_texture_mark_dirty; called whenever a level's pixels change.
func (t *Texture) MarkDirty() { t.Generation = NextGeneration(t.Generation) }

// LevelCount returns the number of mip levels the texture was built with.
func (t *Texture) LevelCount() uint32 { return uint32(len(t.Levels)) }

// BoundLevel clamps LOD to a valid level index, matching
// dx9mt_device_fill_draw_texture_stages's "level = texture->lod; if (level
// >= texture->levels) level = 0;" fallback.
func (t *Texture) BoundLevel() uint32 {
	if t.LOD >= t.LevelCount() {
		return 0
	}
	return t.LOD
}

// LevelDims returns the currently-bound level's width/height, halved per
// level and floored to 1, matching "tex_width[stage] = texture->width >>
// level; if (tex_width[stage] == 0) tex_width[stage] = 1;".
func (t *Texture) LevelDims() (width, height uint32) {
	level := t.BoundLevel()
	width = t.Width >> level
	height = t.Height >> level
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}
	return width, height
}

// CurrentSurface returns the mip surface at the currently-bound level.
func (t *Texture) CurrentSurface() *Surface {
	return t.Levels[t.BoundLevel()]
}

// CubeFace names one of a cube texture's six faces, in D3DCUBEMAP_FACES
// order.
type CubeFace int

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// CubeTexture is a cube texture's six square mip-level chains, one per
// face, matching dx9mt_cube_texture_create.
type CubeTexture struct {
	Format     uint32
	EdgeLength uint32
	Faces      [6][]*Surface
	Generation uint32
}

// NewCubeTexture builds a cube texture with levelCount mip levels per face
// (levelCount == 0 means 1).
func NewCubeTexture(format, edgeLength, levelCount uint32) (*CubeTexture, error) {
	if edgeLength == 0 {
		return nil, fmt.Errorf("surface: cube texture must have a nonzero edge length")
	}
	if levelCount == 0 {
		levelCount = 1
	}

	c := &CubeTexture{Format: format, EdgeLength: edgeLength, Generation: 1}
	for face := range c.Faces {
		c.Faces[face] = make([]*Surface, levelCount)
		edge := edgeLength
		for level := range c.Faces[face] {
			c.Faces[face][level] = newSurface(format, edge, edge, true, c)
			if edge > 1 {
				edge /= 2
			}
		}
	}
	return c, nil
}

// MarkDirty advances the cube texture's generation, matching
// dx9mt_cube_texture_mark_dirty.
func (c *CubeTexture) MarkDirty() { c.Generation = NextGeneration(c.Generation) }

// Rect mirrors a D3DRECT/RECT: left/top/right/bottom in pixels, right/bottom
// exclusive.
type Rect struct {
	Left, Top, Right, Bottom int32
}

func resolveRect(width, height uint32, r *Rect) Rect {
	if r == nil {
		return Rect{0, 0, int32(width), int32(height)}
	}
	return *r
}

// rectValid matches dx9mt_rect_valid_for_surface: non-negative origin,
// non-empty, within bounds.
func rectValid(r Rect, width, height uint32) bool {
	if r.Left < 0 || r.Top < 0 || r.Right <= r.Left || r.Bottom <= r.Top {
		return false
	}
	if uint32(r.Right) > width || uint32(r.Bottom) > height {
		return false
	}
	return true
}

// blockAligned rejects rects that would read or write a partial 4x4 block
// of a compressed surface: the original's memmove-based copy/fill paths
// assume whole scanlines of whole blocks, which only holds if every edge
// either sits on a block boundary or is the surface's own edge.
func blockAligned(r Rect, format uint32, width, height uint32) bool {
	if !IsBlockCompressed(format) {
		return true
	}
	if r.Left%4 != 0 || r.Top%4 != 0 {
		return false
	}
	if uint32(r.Right) != width && r.Right%4 != 0 {
		return false
	}
	if uint32(r.Bottom) != height && r.Bottom%4 != 0 {
		return false
	}
	return true
}

// CopyRect copies pixels from src's srcRect (the whole surface if nil) into
// dst's dstRect (likewise), scaling with nearest-neighbor sampling when
// allowScale is true and the rects differ in size, matching
// dx9mt_surface_copy_rect. A same-size copy is a straight row-wise memmove;
// marks dst's owning texture dirty on success.
func CopyRect(dst *Surface, dstRect *Rect, src *Surface, srcRect *Rect, allowScale bool) error {
	if dst == nil || src == nil {
		return fmt.Errorf("surface: copy rect requires both a source and destination surface")
	}

	srcBpp := BytesPerPixel(src.Format)
	dstBpp := BytesPerPixel(dst.Format)
	if srcBpp != dstBpp {
		return fmt.Errorf("surface: copy rect format mismatch: src bpp=%d dst bpp=%d", srcBpp, dstBpp)
	}

	sr := resolveRect(src.Width, src.Height, srcRect)
	dr := resolveRect(dst.Width, dst.Height, dstRect)
	if !rectValid(sr, src.Width, src.Height) || !rectValid(dr, dst.Width, dst.Height) {
		return fmt.Errorf("surface: copy rect out of bounds: src=%+v dst=%+v", sr, dr)
	}
	if !blockAligned(sr, src.Format, src.Width, src.Height) || !blockAligned(dr, dst.Format, dst.Width, dst.Height) {
		return fmt.Errorf("surface: copy rect not aligned to a 4x4 block boundary")
	}

	srcW := uint32(sr.Right - sr.Left)
	srcH := uint32(sr.Bottom - sr.Top)
	dstW := uint32(dr.Right - dr.Left)
	dstH := uint32(dr.Bottom - dr.Top)

	if !allowScale && (srcW != dstW || srcH != dstH) {
		return fmt.Errorf("surface: copy rect size mismatch without scaling: src=%dx%d dst=%dx%d", srcW, srcH, dstW, dstH)
	}

	src.ensureSysmem()
	dst.ensureSysmem()

	if srcW == dstW && srcH == dstH {
		rowBytes := int(srcW * srcBpp)
		for y := uint32(0); y < srcH; y++ {
			srcOff := int(sr.Top+int32(y))*int(src.Pitch) + int(sr.Left)*int(srcBpp)
			dstOff := int(dr.Top+int32(y))*int(dst.Pitch) + int(dr.Left)*int(dstBpp)
			copy(dst.Sysmem[dstOff:dstOff+rowBytes], src.Sysmem[srcOff:srcOff+rowBytes])
		}
		dst.markContainerDirty()
		return nil
	}

	for y := uint32(0); y < dstH; y++ {
		srcY := uint32(sr.Top) + (y*srcH)/dstH
		dstRowOff := int(dr.Top+int32(y))*int(dst.Pitch) + int(dr.Left)*int(dstBpp)
		srcRowOff := int(srcY)*int(src.Pitch) + int(sr.Left)*int(srcBpp)
		for x := uint32(0); x < dstW; x++ {
			srcX := (x * srcW) / dstW
			so := srcRowOff + int(srcX)*int(srcBpp)
			do := dstRowOff + int(x)*int(dstBpp)
			copy(dst.Sysmem[do:do+int(dstBpp)], src.Sysmem[so:so+int(srcBpp)])
		}
	}
	dst.markContainerDirty()
	return nil
}

// FillRect fills rect (the whole surface if nil) with color, honoring the
// surface's bytes-per-pixel, matching dx9mt_surface_fill_rect.
func FillRect(s *Surface, rect *Rect, color uint32) error {
	if s == nil {
		return fmt.Errorf("surface: fill rect requires a surface")
	}

	r := resolveRect(s.Width, s.Height, rect)
	if !rectValid(r, s.Width, s.Height) {
		return fmt.Errorf("surface: fill rect out of bounds: %+v", r)
	}
	if !blockAligned(r, s.Format, s.Width, s.Height) {
		return fmt.Errorf("surface: fill rect not aligned to a 4x4 block boundary")
	}

	s.ensureSysmem()

	bpp := BytesPerPixel(s.Format)
	width := uint32(r.Right - r.Left)
	height := uint32(r.Bottom - r.Top)

	for y := uint32(0); y < height; y++ {
		rowOff := int(r.Top+int32(y))*int(s.Pitch) + int(r.Left)*int(bpp)
		switch bpp {
		case 4:
			for x := uint32(0); x < width; x++ {
				binary.LittleEndian.PutUint32(s.Sysmem[rowOff+int(x)*4:], color)
			}
		case 2:
			v := uint16(color)
			for x := uint32(0); x < width; x++ {
				binary.LittleEndian.PutUint16(s.Sysmem[rowOff+int(x)*2:], v)
			}
		default:
			v := byte(color)
			for x := uint32(0); x < width; x++ {
				s.Sysmem[rowOff+int(x)] = v
			}
		}
	}

	s.markContainerDirty()
	return nil
}
