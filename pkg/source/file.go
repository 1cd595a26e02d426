package source

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/framegrid/videobot/pkg/message"
)

// FileSource reads a deterministic, length-prefixed framing of packets
// and control messages from an io.Reader, for feeding a synthetic raw
// stream through the pipeline (the dispatcher's own tests use an
// in-memory fake source instead) — grounded on file_offer.go/file_answer.go's
// poll-the-next-artifact idiom (mined before those files were dropped, see
// DESIGN.md), adapted from one SDP file per exchange to a continuous
// framed record stream.
//
// Wire format: a header of
//   codecNameLen(u32) codecName extraDataLen(u32) extraData
// followed by zero or more records of
//   kind(u8) payloadLen(u32) payload
// where kind 0 is a raw packet and kind 1 is a CBOR-encoded control value.
type FileSource struct {
	r         *bufio.Reader
	closer    io.Closer
	codecName string
	extraData []byte
}

// NewFileSource parses the header from r and returns a ready-to-read
// FileSource.
func NewFileSource(r io.Reader) (*FileSource, error) {
	br := bufio.NewReader(r)
	s := &FileSource{r: br}
	if closer, ok := r.(io.Closer); ok {
		s.closer = closer
	}

	name, err := readFrame(br)
	if err != nil {
		return nil, fmt.Errorf("source: read codec name: %w", err)
	}
	s.codecName = string(name)

	extra, err := readFrame(br)
	if err != nil {
		return nil, fmt.Errorf("source: read extra data: %w", err)
	}
	s.extraData = extra

	return s, nil
}

func (s *FileSource) CodecName() string { return s.codecName }
func (s *FileSource) ExtraData() []byte { return s.extraData }

func (s *FileSource) Next(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	kindByte, err := s.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return Event{}, ErrSourceEOS
		}
		return Event{}, fmt.Errorf("source: read record kind: %w", err)
	}

	payload, err := readFrame(s.r)
	if err != nil {
		return Event{}, fmt.Errorf("source: read record payload: %w", err)
	}

	switch kindByte {
	case 0:
		return Event{Kind: EventPacket, Packet: payload}, nil
	case 1:
		value, err := message.Decode(payload)
		if err != nil {
			return Event{}, fmt.Errorf("source: decode control message: %w", err)
		}
		return Event{Kind: EventControl, Control: value}, nil
	default:
		return Event{}, fmt.Errorf("source: unknown record kind %d", kindByte)
	}
}

func (s *FileSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func readFrame(r io.Reader) ([]byte, error) {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(length[:])
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// WriteHeader, WritePacketRecord and WriteControlRecord are the
// encode-side counterparts to
// NewFileSource/Next, used by tests to build a synthetic stream without
// hand-rolling the wire format twice.
func WriteHeader(w io.Writer, codecName string, extraData []byte) error {
	if err := writeFrame(w, []byte(codecName)); err != nil {
		return err
	}
	return writeFrame(w, extraData)
}

// WritePacketRecord writes one raw-packet record.
func WritePacketRecord(w io.Writer, packet []byte) error {
	if _, err := w.Write([]byte{0}); err != nil {
		return err
	}
	return writeFrame(w, packet)
}

// WriteControlRecord CBOR-encodes value and writes one control record.
func WriteControlRecord(w io.Writer, value message.Value) error {
	data, err := message.EncodeValue(value)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte{1}); err != nil {
		return err
	}
	return writeFrame(w, data)
}

func writeFrame(w io.Writer, data []byte) error {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	_, err := w.Write(data)
	return err
}
