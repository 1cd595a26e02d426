package scale

import "errors"

// ErrConvertTransient is ConvertTransient (spec §7): scaler allocation or
// conversion failed for one frame; the dispatcher logs and drops the
// frame, the stream continues.
var ErrConvertTransient = errors.New("scale: transient conversion error")

// ErrAllocFailed: the scale context could not be allocated. The
// dispatcher treats it like any conversion error: it logs and drops the
// frame, the stream continues.
var ErrAllocFailed = errors.New("scale: failed to allocate scale context")
