package router

import (
	"sync"

	"github.com/framegrid/videobot/pkg/message"
)

// MemorySink records every envelope it receives, in arrival order. Used
// by dispatcher and router tests to assert router ordering invariants
// (spec §8, "Router order") without a real transport.
type MemorySink struct {
	mu       sync.Mutex
	Messages []message.Envelope
	// RejectNext, if > 0, causes the next N writes to fail with
	// ErrSinkRejected and decrements itself, for exercising the
	// SinkWrite error kind (spec §7).
	RejectNext int
}

func (s *MemorySink) Write(env message.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.RejectNext > 0 {
		s.RejectNext--
		return ErrSinkRejected
	}

	s.Messages = append(s.Messages, env)
	return nil
}

// Snapshot returns a copy of the recorded messages, safe to range over
// without racing a concurrent Write.
func (s *MemorySink) Snapshot() []message.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]message.Envelope, len(s.Messages))
	copy(out, s.Messages)
	return out
}
