package bot

import "errors"

// Sentinel errors for the abstract kinds of spec §7 that originate at
// the registry. Grounded on the teacher's package-local Err* sentinel
// style (pkg/transcode/update_encoder_wrapper.go's
// ErrUpdateEncoderNotReady).
var (
	// ErrAlreadyRegistered is AlreadyRegistered: a second call to
	// Register before teardown.
	ErrAlreadyRegistered = errors.New("bot: already registered")
	// ErrInvalidArgument is InvalidArgument: a missing control callback
	// or a mixed "original" sentinel.
	ErrInvalidArgument = errors.New("bot: invalid argument")
	// ErrNotRegistered is InvalidArgument: Run called with nothing
	// registered.
	ErrNotRegistered = errors.New("bot: no bot registered")
)
