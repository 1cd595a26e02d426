package dispatch

import "errors"

// ErrInitFailure marks an Initializing-state failure (decoder not found,
// bad extra data) — spec §7's exit-3 case. Wrapped by the concrete cause
// (codec.ErrCodecNotFound, codec.ErrInvalidExtraData, ...), not returned
// bare, so callers can still inspect the underlying reason.
var ErrInitFailure = errors.New("dispatch: stream initialization failed")

// ErrResourceExhausted is ResourceExhausted outside of initialization
// (spec §7): allocation failure for a context or frame that is fatal to
// the stream, not just the one frame.
var ErrResourceExhausted = errors.New("dispatch: resource exhausted")
