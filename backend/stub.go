package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dx9mt/dx9mt/packet"
)

func init() {
	Register("stub", func() Bridge {
		return NewStubBridge(nil)
	})
}

// StubBridge is a Bridge that validates and counts packets without
// rendering anything, matching backend_bridge_stub.c: it exists so the
// frontend and wire protocol can be exercised end to end before a real
// Metal renderer is wired in.
type StubBridge struct {
	sink   *packet.Sink
	logger *slog.Logger
}

// NewStubBridge returns a StubBridge. A nil logger disables logging.
func NewStubBridge(logger *slog.Logger) *StubBridge {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &StubBridge{sink: packet.NewSink(), logger: logger}
}

// discardHandler is a slog.Handler that drops every record; Enabled
// returning false lets callers skip message formatting entirely.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func (b *StubBridge) Init() error {
	b.sink.Init()
	return nil
}

func (b *StubBridge) UpdatePresentTarget(t packet.PresentTarget) error {
	return b.sink.UpdatePresentTarget(t)
}

func (b *StubBridge) BeginFrame(frameID uint32) error {
	if packet.ShouldLogFrame(frameID) {
		b.logger.Info("begin frame", "frame_id", frameID)
	}
	return b.sink.BeginFrame(frameID)
}

// SubmitPackets decodes and validates every packet in b in sequence,
// matching backend_bridge_stub.c's submit_packets loop: walk the buffer by
// each packet's declared Size, validate its header, then apply type-
// specific required-field checks and statistics.
func (b *StubBridge) SubmitPackets(buf []byte) error {
	var offset uint32
	total := uint32(len(buf))
	for offset < total {
		h, err := packet.DecodeHeader(buf[offset:])
		if err != nil {
			return err
		}
		if err := b.sink.ValidateHeader(h, offset, total); err != nil {
			return err
		}
		body := buf[offset : offset+uint32(h.Size)]

		switch h.Type {
		case packet.TypeDrawIndexed:
			p, err := packet.DecodeDrawIndexed(body)
			if err != nil {
				return err
			}
			if err := packet.ValidateDraw(p); err != nil {
				return err
			}
			b.sink.RecordDraw()
		case packet.TypeClear:
			p, err := packet.DecodeClear(body)
			if err != nil {
				return err
			}
			b.sink.RecordClear(p)
		case packet.TypeBeginFrame, packet.TypePresent, packet.TypeInit, packet.TypeShutdown:
			// No per-packet side effects beyond the sink's own lifecycle
			// transitions, which the caller drives via BeginFrame/Present/
			// Shutdown directly rather than through the byte stream.
		default:
			return fmt.Errorf("backend: unhandled packet type %s", h.Type)
		}

		b.sink.AcceptHeader(h)
		offset += uint32(h.Size)
	}
	if offset != total {
		return packet.ErrTailMismatch
	}
	return nil
}

func (b *StubBridge) Present(frameID uint32) error {
	return b.sink.Present(frameID)
}

func (b *StubBridge) Shutdown() {
	b.sink.Shutdown()
}

func (b *StubBridge) Stats() packet.FrameStats {
	return b.sink.Stats()
}
