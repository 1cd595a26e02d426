// Package router implements the message router (C6): it stamps bot output
// with frame-IDs and forwards it, in emission order, to a Sink.
package router

import (
	"github.com/framegrid/videobot/pkg/frame"
	"github.com/framegrid/videobot/pkg/message"
)

// Sink is the downstream consumer emitted messages are forwarded to — an
// opaque byte-oriented writer that may reject a message (spec §4.6,
// "Router sink"). Grounded on pkg/mediasink/sinks.go's Create*(ctx,
// options...) constructor shape, adapted from an RTP-packet sink to a
// CBOR-envelope sink.
type Sink interface {
	Write(env message.Envelope) error
}

// CurrentFrameSource is implemented by the bot context (C4): the router
// consults it to substitute the sentinel frame-ID with "the frame
// currently being processed" (spec §4.6).
type CurrentFrameSource interface {
	CurrentFrameID() frame.FrameID
}
