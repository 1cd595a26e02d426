package videobot

import (
	"errors"

	"github.com/framegrid/videobot/pkg/bot"
	"github.com/framegrid/videobot/pkg/dispatch"
)

// Re-exported registry error sentinels, so bot code that checks
// errors.Is against a Register failure never has to import pkg/bot.
var (
	ErrAlreadyRegistered = bot.ErrAlreadyRegistered
	ErrInvalidArgument   = bot.ErrInvalidArgument
	ErrNotRegistered     = bot.ErrNotRegistered
)

// ExitCode maps an error returned by Run to the process exit code table
// of spec §6/§7.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch {
	case errors.Is(err, ErrAlreadyRegistered), errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrNotRegistered):
		return 2
	case errors.Is(err, dispatch.ErrInitFailure):
		return 3
	default:
		return 1
	}
}
