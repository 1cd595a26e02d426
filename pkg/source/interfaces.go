// Package source implements the concrete packet/control transports (C7).
// Spec.md treats the transport as purely external; this package supplies
// the implementations needed to run the pipeline end to end.
package source

import (
	"context"

	"github.com/framegrid/videobot/pkg/message"
)

// EventKind distinguishes the two input-event flavors the dispatcher
// consumes (spec §2, "Control messages from the source flow separately").
type EventKind int

const (
	// EventPacket carries one compressed packet for C2.
	EventPacket EventKind = iota
	// EventControl carries one structured control message for C4's
	// control callback.
	EventControl
)

// Event is a single input event read from a Source.
type Event struct {
	Kind    EventKind
	Packet  []byte
	Control message.Value
}

// Source is the transport the dispatcher reads input events from and
// writes nothing to — outgoing messages go through pkg/router instead.
// All three concrete sources (FileSource, ContainerSource, RTSPSource)
// satisfy this one interface, keeping the dispatcher source-agnostic per
// spec §6.
type Source interface {
	// CodecName and ExtraData describe the stream for C2's open_decoder
	// call; valid as soon as the source is opened, before any Next.
	CodecName() string
	ExtraData() []byte

	// Next blocks until an event is available, the source reaches EOS
	// (ErrSourceEOS), or ctx is cancelled.
	Next(ctx context.Context) (Event, error)

	Close() error
}
