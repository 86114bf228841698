package ipc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Writer owns the mmap'd frame region and publishes complete frame
// snapshots into it.
type Writer struct {
	path string
	fd   *os.File
	mem  []byte
	seq  uint32
}

// OpenWriter creates (or truncates) the file at path to RegionSize and maps
// it for writing. A zero path uses the default Path.
func OpenWriter(path string) (*Writer, error) {
	if path == "" {
		path = Path
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("ipc: open %s: %w", path, err)
	}
	if err := f.Truncate(RegionSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("ipc: truncate %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, RegionSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ipc: mmap %s: %w", path, err)
	}
	return &Writer{path: path, fd: f, mem: mem}, nil
}

// Close unmaps the region and closes the backing file.
func (w *Writer) Close() error {
	err := unix.Munmap(w.mem)
	if cerr := w.fd.Close(); err == nil {
		err = cerr
	}
	return err
}

// Frame is one snapshot's logical content: header fields (minus Magic/
// Sequence/BulkDataOffset/BulkDataUsed, which Publish computes), the draw
// table, and the bulk payload bytes each draw's *BulkOffset fields index
// into.
type Frame struct {
	Width               uint32
	Height              uint32
	ClearColorARGB      uint32
	ClearFlags          uint32
	ClearZ              float32
	ClearStencil        uint32
	HaveClear           bool
	ReplayHash          uint32
	FrameID             uint32
	PresentRenderTarget uint32
	Draws               []Draw
	Bulk                []byte
}

// Publish serializes f into the mapped region and stores the sequence
// number last with release-store semantics (via atomic.StoreUint32 into the
// memory-mapped bytes), matching the original's "write everything, then
// publish the sequence number" discipline: a viewer that observes a new
// sequence number is guaranteed to see a fully written frame behind it.
func (w *Writer) Publish(f Frame) error {
	if len(f.Draws) > MaxDraws {
		return fmt.Errorf("ipc: %d draws exceeds MaxDraws %d", len(f.Draws), MaxDraws)
	}
	bulkOffset := uint32(headerSize + len(f.Draws)*drawSize)
	if int(bulkOffset)+len(f.Bulk) > RegionSize {
		return fmt.Errorf("ipc: frame does not fit in %d-byte region", RegionSize)
	}

	w.seq++
	h := Header{
		Magic:               Magic,
		Sequence:            w.seq,
		Width:               f.Width,
		Height:              f.Height,
		ClearColorARGB:      f.ClearColorARGB,
		ClearFlags:          f.ClearFlags,
		ClearZ:              f.ClearZ,
		ClearStencil:        f.ClearStencil,
		HaveClear:           boolToInt32(f.HaveClear),
		DrawCount:           uint32(len(f.Draws)),
		ReplayHash:          f.ReplayHash,
		FrameID:             f.FrameID,
		PresentRenderTarget: f.PresentRenderTarget,
		BulkDataOffset:      bulkOffset,
		BulkDataUsed:        uint32(len(f.Bulk)),
	}

	var headerBuf bytes.Buffer
	if err := binary.Write(&headerBuf, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("ipc: encode header: %w", err)
	}
	headerBytes := headerBuf.Bytes()

	// Write everything except the 4-byte Sequence field (offset 4:8) first.
	copy(w.mem[0:4], headerBytes[0:4])
	copy(w.mem[8:headerSize], headerBytes[8:headerSize])

	for i, d := range f.Draws {
		var db bytes.Buffer
		if err := binary.Write(&db, binary.LittleEndian, &d); err != nil {
			return fmt.Errorf("ipc: encode draw %d: %w", i, err)
		}
		off := headerSize + i*drawSize
		copy(w.mem[off:off+drawSize], db.Bytes())
	}

	copy(w.mem[bulkOffset:], f.Bulk)

	seqPtr := (*uint32)(unsafe.Pointer(&w.mem[4]))
	atomic.StoreUint32(seqPtr, h.Sequence)
	return nil
}

func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
