package frame

import "errors"

// ErrInvalidArgument is the sentinel surfaced by ParsePixelFormat and
// ParseImageSize on malformed input (spec §7, kind InvalidArgument).
var ErrInvalidArgument = errors.New("frame: invalid argument")
