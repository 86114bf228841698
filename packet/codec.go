package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync/atomic"
)

// sizeOf returns the wire-encoded size of a fixed-layout packet struct by
// encoding it once; all packet structs contain only fixed-width numeric
// fields (including nested uploadarena.Ref and UploadArenaDesc), so
// encoding/binary's struct support applies directly without any manual
// field-by-field marshaling code.
func sizeOf(v any) uint16 {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		panic(fmt.Sprintf("packet: %v is not a fixed-size wire struct: %v", v, err))
	}
	return uint16(buf.Len())
}

// DecodeHeader reads just the 8-byte header at the front of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < headerSize {
		return Header{}, fmt.Errorf("%w: have %d bytes, need %d", ErrPacketTooSmall, len(b), headerSize)
	}
	var h Header
	r := bytes.NewReader(b[:headerSize])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Header{}, err
	}
	return h, nil
}

// DecodeDrawIndexed decodes a full DrawIndexedPacket from b, which must be
// at least as long as the packet's header-declared Size.
func DecodeDrawIndexed(b []byte) (DrawIndexedPacket, error) {
	var p DrawIndexedPacket
	r := bytes.NewReader(b)
	if err := binary.Read(r, binary.LittleEndian, &p); err != nil {
		return p, fmt.Errorf("packet: decode draw_indexed: %w", err)
	}
	return p, nil
}

// DecodeClear decodes a ClearPacket from b.
func DecodeClear(b []byte) (ClearPacket, error) {
	var p ClearPacket
	r := bytes.NewReader(b)
	if err := binary.Read(r, binary.LittleEndian, &p); err != nil {
		return p, fmt.Errorf("packet: decode clear: %w", err)
	}
	return p, nil
}

// DecodeBeginFrame decodes a BeginFramePacket from b.
func DecodeBeginFrame(b []byte) (BeginFramePacket, error) {
	var p BeginFramePacket
	r := bytes.NewReader(b)
	if err := binary.Read(r, binary.LittleEndian, &p); err != nil {
		return p, fmt.Errorf("packet: decode begin_frame: %w", err)
	}
	return p, nil
}

// DecodePresent decodes a PresentPacket from b.
func DecodePresent(b []byte) (PresentPacket, error) {
	var p PresentPacket
	r := bytes.NewReader(b)
	if err := binary.Read(r, binary.LittleEndian, &p); err != nil {
		return p, fmt.Errorf("packet: decode present: %w", err)
	}
	return p, nil
}

// Stream is an append-only buffer of encoded packets, used by recorder to
// accumulate a frame's packets before handing them to a Sink/Bridge in one
// submit_packets-style call.
type Stream struct {
	buf []byte
	seq *SequenceCounter
}

// NewStream returns an empty Stream using seq to assign packet sequence
// numbers.
func NewStream(seq *SequenceCounter) *Stream {
	return &Stream{seq: seq}
}

// Bytes returns the accumulated byte range, ready to hand to a Sink.
func (s *Stream) Bytes() []byte { return s.buf }

// Reset empties the stream for reuse (matching uploadarena's reuse-by-
// truncation pattern rather than reallocating a new Stream every frame).
func (s *Stream) Reset() { s.buf = s.buf[:0] }

// PutDrawIndexed appends a draw packet, stamping its header's Type,
// Sequence and Size fields.
func (s *Stream) PutDrawIndexed(p DrawIndexedPacket) {
	p.Header = Header{Type: TypeDrawIndexed}
	p.Header.Size = sizeOf(&p)
	p.Header.Sequence = s.seq.Next()
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, &p)
	s.buf = append(s.buf, b.Bytes()...)
}

// PutClear appends a clear packet.
func (s *Stream) PutClear(p ClearPacket) {
	p.Header = Header{Type: TypeClear}
	p.Header.Size = sizeOf(&p)
	p.Header.Sequence = s.seq.Next()
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, &p)
	s.buf = append(s.buf, b.Bytes()...)
}

// PutBeginFrame appends a begin-frame packet.
func (s *Stream) PutBeginFrame(frameID uint32) {
	p := BeginFramePacket{Header: Header{Type: TypeBeginFrame}, FrameID: frameID}
	p.Header.Size = sizeOf(&p)
	p.Header.Sequence = s.seq.Next()
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, &p)
	s.buf = append(s.buf, b.Bytes()...)
}

// PutPresent appends a present packet.
func (s *Stream) PutPresent(frameID, flags uint32) {
	p := PresentPacket{Header: Header{Type: TypePresent}, FrameID: frameID, Flags: flags}
	p.Header.Size = sizeOf(&p)
	p.Header.Sequence = s.seq.Next()
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, &p)
	s.buf = append(s.buf, b.Bytes()...)
}

// PutInit appends the one-time init handshake packet.
func (s *Stream) PutInit(protocolVersion, ringCapacityBytes uint32, upload UploadArenaDesc) {
	p := InitPacket{
		Header:            Header{Type: TypeInit},
		ProtocolVersion:   protocolVersion,
		RingCapacityBytes: ringCapacityBytes,
		UploadDesc:        upload,
	}
	p.Header.Size = sizeOf(&p)
	p.Header.Sequence = s.seq.Next()
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, &p)
	s.buf = append(s.buf, b.Bytes()...)
}

// PutShutdown appends the shutdown packet.
func (s *Stream) PutShutdown() {
	p := ShutdownPacket{Header: Header{Type: TypeShutdown}}
	p.Header.Size = sizeOf(&p)
	p.Header.Sequence = s.seq.Next()
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, &p)
	s.buf = append(s.buf, b.Bytes()...)
}

// SequenceCounter hands out monotonically increasing packet sequence
// numbers, matching dx9mt_runtime_next_packet_sequence's atomic increment.
// The counter starts at 1 (0 is reserved to mean "no sequence yet").
type SequenceCounter struct {
	n atomic.Uint32
}

// Next returns the next sequence number.
func (c *SequenceCounter) Next() uint32 {
	return c.n.Add(1)
}
