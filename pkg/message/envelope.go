package message

import "github.com/framegrid/videobot/pkg/frame"

// Envelope is the unit written to a sink: a kind, the frame interval it
// applies to, and the bot's structured payload. Frames with I1 == I2 == 0
// are non-frame-bound (spec §6).
type Envelope struct {
	Kind    Kind   `cbor:"kind"`
	FrameI1 uint64 `cbor:"i1"`
	FrameI2 uint64 `cbor:"i2"`
	Payload Value  `cbor:"payload"`
}

// NewEnvelope builds an Envelope from a frame.FrameID pair.
func NewEnvelope(kind Kind, id frame.FrameID, payload Value) Envelope {
	return Envelope{Kind: kind, FrameI1: id.I1, FrameI2: id.I2, Payload: payload}
}

// FrameID reconstructs the frame.FrameID this envelope is stamped with.
func (e Envelope) FrameID() frame.FrameID {
	return frame.FrameID{I1: e.FrameI1, I2: e.FrameI2}
}

// IsFrameBound reports whether e carries a real frame interval.
func (e Envelope) IsFrameBound() bool {
	return !e.FrameID().IsSentinel()
}
