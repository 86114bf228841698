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

// Reader maps an existing frame region read-only and polls it for new
// frames.
type Reader struct {
	fd      *os.File
	mem     []byte
	lastSeq uint32
}

// OpenReader maps the frame region at path for reading. The file must
// already exist and be RegionSize bytes (i.e. a Writer has opened it).
func OpenReader(path string) (*Reader, error) {
	if path == "" {
		path = Path
	}
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("ipc: open %s: %w", path, err)
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, RegionSize, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ipc: mmap %s: %w", path, err)
	}
	return &Reader{fd: f, mem: mem}, nil
}

// Close unmaps the region and closes the backing file.
func (r *Reader) Close() error {
	err := unix.Munmap(r.mem)
	if cerr := r.fd.Close(); err == nil {
		err = cerr
	}
	return err
}

// Sequence reads the current published sequence number with acquire-load
// semantics.
func (r *Reader) Sequence() uint32 {
	seqPtr := (*uint32)(unsafe.Pointer(&r.mem[4]))
	return atomic.LoadUint32(seqPtr)
}

// Poll reports whether a new frame has been published since the last Poll
// (or since OpenReader, on the first call), and if so decodes and returns
// it. ok is false if the sequence has not advanced, or the region has not
// yet been published to (sequence 0 / wrong magic).
func (r *Reader) Poll() (frame Frame, ok bool, err error) {
	seq := r.Sequence()
	if seq == 0 || seq == r.lastSeq {
		return Frame{}, false, nil
	}

	var h Header
	if err := binary.Read(bytes.NewReader(r.mem[:headerSize]), binary.LittleEndian, &h); err != nil {
		return Frame{}, false, fmt.Errorf("ipc: decode header: %w", err)
	}
	if h.Magic != Magic {
		return Frame{}, false, fmt.Errorf("ipc: bad magic 0x%08x", h.Magic)
	}
	// The writer may be mid-publish; re-read the sequence after decoding the
	// body and discard this snapshot if it changed underneath us.
	if h.DrawCount > MaxDraws {
		return Frame{}, false, fmt.Errorf("ipc: draw count %d exceeds MaxDraws", h.DrawCount)
	}

	draws := make([]Draw, h.DrawCount)
	for i := range draws {
		off := headerSize + i*drawSize
		if err := binary.Read(bytes.NewReader(r.mem[off:off+drawSize]), binary.LittleEndian, &draws[i]); err != nil {
			return Frame{}, false, fmt.Errorf("ipc: decode draw %d: %w", i, err)
		}
	}

	bulk := make([]byte, h.BulkDataUsed)
	copy(bulk, r.mem[h.BulkDataOffset:int(h.BulkDataOffset)+len(bulk)])

	if r.Sequence() != seq {
		return Frame{}, false, nil
	}
	r.lastSeq = seq

	return Frame{
		Width:               h.Width,
		Height:              h.Height,
		ClearColorARGB:      h.ClearColorARGB,
		ClearFlags:          h.ClearFlags,
		ClearZ:              h.ClearZ,
		ClearStencil:        h.ClearStencil,
		HaveClear:           h.HaveClear != 0,
		ReplayHash:          h.ReplayHash,
		FrameID:             h.FrameID,
		PresentRenderTarget: h.PresentRenderTarget,
		Draws:               draws,
		Bulk:                bulk,
	}, true, nil
}
