package router

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/framegrid/videobot/pkg/message"
)

// WriterSink CBOR-encodes each envelope and writes it length-prefixed to
// an io.Writer, mirroring the write-artifact-then-flush idiom of
// file_offer.go/file_answer.go (mined before those files were dropped —
// see DESIGN.md) adapted from one-shot SDP exchange to a continuous
// message stream.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
	f  flusher
	l  *logrus.Entry
}

type flusher interface {
	Flush() error
}

// NewWriterSink wraps w. If w also implements Flush() error, WriterSink
// flushes after every write.
func NewWriterSink(w io.Writer, logger *logrus.Entry) *WriterSink {
	s := &WriterSink{w: w, l: logger}
	if f, ok := w.(flusher); ok {
		s.f = f
	}
	return s
}

func (s *WriterSink) Write(env message.Envelope) error {
	data, err := message.Encode(env)
	if err != nil {
		return fmt.Errorf("router: encode envelope: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))

	if _, err := s.w.Write(length[:]); err != nil {
		return fmt.Errorf("router: write length prefix: %w", err)
	}
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("router: write envelope: %w", err)
	}
	if s.f != nil {
		if err := s.f.Flush(); err != nil {
			return fmt.Errorf("router: flush: %w", err)
		}
	}

	if s.l != nil {
		s.l.WithFields(logrus.Fields{
			"kind":  env.Kind.String(),
			"bytes": len(data),
			"i1":    env.FrameI1,
			"i2":    env.FrameI2,
		}).Debug("router: wrote message")
	}

	return nil
}
