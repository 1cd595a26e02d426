package router

import "errors"

// ErrSinkRejected is SinkWrite (spec §7): the sink rejected a message;
// the router logs and drops it, the stream continues.
var ErrSinkRejected = errors.New("router: sink rejected message")
