package router

import (
	"sync"

	"github.com/framegrid/videobot/pkg/frame"
	"github.com/framegrid/videobot/pkg/message"
)

// Router packages bot outputs with frame-IDs and forwards them to a Sink,
// in the order Emit was called (spec §4.6). The dispatcher's single-worker
// scheduling model (spec §5) means Emit is normally called from the one
// goroutine driving a stream; Emit also holds a mutex around each sink
// write, so concurrent Emit calls are serialized, in the order they
// acquire it.
type Router struct {
	mu   sync.Mutex
	sink Sink

	lastErr error
}

// New builds a Router writing to sink. Grounded on pkg/mediasink's
// Create*(ctx, options...) shape; a Router needs no context of its own
// since Sink.Write is synchronous and cannot be cancelled mid-call
// (spec §5, "no per-callback timeouts").
func New(sink Sink) *Router {
	return &Router{sink: sink}
}

// Emit packages payload as kind, bound to frameID (or, if frameID is the
// sentinel {0,0}, to ctx's current frame), and forwards it to the sink.
// If the sink rejects the message, Emit records the failure (retrievable
// via LastError) and returns without queuing — spec §4.6's "it does not
// queue internally".
func (r *Router) Emit(ctx CurrentFrameSource, kind message.Kind, payload message.Value, frameID frame.FrameID) error {
	if frameID.IsSentinel() && ctx != nil {
		frameID = ctx.CurrentFrameID()
	}

	env := message.NewEnvelope(kind, frameID, payload)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.sink.Write(env); err != nil {
		r.lastErr = err
		return err
	}
	r.lastErr = nil
	return nil
}

// LastError returns the most recent sink rejection, or nil if the last
// Emit succeeded. Exposed for tests asserting SinkWrite handling
// (spec §7).
func (r *Router) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
