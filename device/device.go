// Package device provides Device, the top-level object a D3D9 frontend
// drives: it owns the object id allocator, the device state mirror and draw
// recorder, the upload arena, the outgoing packet stream, the shader cache,
// and the backend bridge the frame is submitted to on Present.
//
// Grounded on the shape of gpucontext.Context: an explicit Open/Close
// lifecycle object holding typed sub-state, here generalized from a GPU
// device/context handle to the D3D9-device-equivalent orchestration root.
package device

import (
	"fmt"
	"sync"

	"github.com/dx9mt/dx9mt/backend"
	"github.com/dx9mt/dx9mt/devstate"
	"github.com/dx9mt/dx9mt/objectid"
	"github.com/dx9mt/dx9mt/packet"
	"github.com/dx9mt/dx9mt/recorder"
	"github.com/dx9mt/dx9mt/shadercache"
	"github.com/dx9mt/dx9mt/uploadarena"
)

// Config configures a Device at Open time.
type Config struct {
	// BackendName selects the registered backend.Bridge implementation
	// ("stub" if empty).
	BackendName string
	// ArenaBytesPerSlot sizes each of the upload arena's triple-buffered
	// slots.
	ArenaBytesPerSlot uint32
	// ShaderCacheSize bounds the shader cache's resident entry count (0
	// uses shadercache.DefaultMaxEntries).
	ShaderCacheSize int
	// PresentTarget describes the window/surface frames are presented to.
	PresentTarget packet.PresentTarget
}

// DefaultArenaBytesPerSlot matches the original's per-slot upload budget:
// enough for a few megabytes of geometry/texture/constant uploads per
// frame without the arena overflowing under ordinary game workloads.
const DefaultArenaBytesPerSlot = 8 * 1024 * 1024

// Device is the top-level orchestration object: one per emulated
// IDirect3DDevice9.
type Device struct {
	mu sync.Mutex

	ids      objectid.Counters
	Recorder *recorder.Recorder
	Arena    *uploadarena.Arena
	Cache    *shadercache.Cache
	Bridge   backend.Bridge

	seq    packet.SequenceCounter
	stream *packet.Stream

	frameID uint32
	open    bool
}

// Open constructs and initializes a Device: allocates the upload arena,
// shader cache and backend bridge, and runs the backend's Init/
// UpdatePresentTarget handshake.
func Open(cfg Config) (*Device, error) {
	if cfg.BackendName == "" {
		cfg.BackendName = "stub"
	}
	if cfg.ArenaBytesPerSlot == 0 {
		cfg.ArenaBytesPerSlot = DefaultArenaBytesPerSlot
	}

	br, err := backend.New(cfg.BackendName)
	if err != nil {
		return nil, fmt.Errorf("device: open: %w", err)
	}
	if err := br.Init(); err != nil {
		return nil, fmt.Errorf("device: backend init: %w", err)
	}
	if cfg.PresentTarget.TargetID != 0 {
		if err := br.UpdatePresentTarget(cfg.PresentTarget); err != nil {
			return nil, fmt.Errorf("device: update present target: %w", err)
		}
	}

	arena := uploadarena.New(cfg.ArenaBytesPerSlot)
	d := &Device{
		Recorder: recorder.New(arena),
		Arena:    arena,
		Cache:    shadercache.New(cfg.ShaderCacheSize),
		Bridge:   br,
		open:     true,
	}
	d.stream = packet.NewStream(&d.seq)
	return d, nil
}

// NextID allocates a new object id of the given kind.
func (d *Device) NextID(kind objectid.Kind) objectid.ID {
	return d.ids.Next(kind)
}

// BeginFrame opens a new frame: resets the upload arena's current slot, the
// accumulated packet stream, and tells the backend a new frame has started.
func (d *Device) BeginFrame(frameID uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.frameID = frameID
	d.Arena.BeginFrame(uint64(frameID))
	d.Recorder.BeginFrame(frameID)
	d.stream.Reset()
	d.stream.PutBeginFrame(frameID)
	return d.Bridge.BeginFrame(frameID)
}

// DrawIndexed builds a draw packet from the recorder's current state and p,
// and appends it to the frame's packet stream.
func (d *Device) DrawIndexed(p recorder.DrawParams) {
	d.mu.Lock()
	defer d.mu.Unlock()

	pkt := d.Recorder.BuildDrawIndexed(p)
	d.stream.PutDrawIndexed(pkt)
}

// Clear fills render target 0's tracked system-memory surface (whole
// surface if rects is empty, each rect otherwise) and appends a clear
// packet to the frame's packet stream.
func (d *Device) Clear(rects []devstate.Rect, color uint32, flags uint32, z float32, stencil uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.Recorder.Clear(rects, color); err != nil {
		return fmt.Errorf("device: clear: %w", err)
	}
	d.stream.PutClear(packet.ClearPacket{
		FrameID:   d.frameID,
		RectCount: uint32(len(rects)),
		Flags:     flags,
		Color:     color,
		Z:         z,
		Stencil:   stencil,
	})
	return nil
}

// Present submits the frame's accumulated packets to the backend bridge and
// closes the frame.
func (d *Device) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stream.PutPresent(d.frameID, 0)
	if err := d.Bridge.SubmitPackets(d.stream.Bytes()); err != nil {
		return fmt.Errorf("device: submit packets: %w", err)
	}
	return d.Bridge.Present(d.frameID)
}

// Close shuts down the backend bridge. Close is idempotent.
func (d *Device) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return
	}
	d.Bridge.Shutdown()
	d.open = false
}
