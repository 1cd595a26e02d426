package videobot

import (
	"github.com/framegrid/videobot/pkg/router"
)

// Router re-exports router.Router, the sink a bot's main package builds
// once and hands to every Emit call (spec §6's emit surface: the router
// itself, not a package-level function, since emit needs a concrete
// sink to write to).
type Router = router.Router

// NewRouter re-exports router.New.
func NewRouter(sink router.Sink) *Router {
	return router.New(sink)
}

// Emit re-exports router.Router.Emit: a convenience free function so a
// bot that only ever emits through one router can write
// videobot.Emit(rtr, ctx, kind, payload, frameID) instead of
// rtr.Emit(...).
func Emit(rtr *Router, ctx router.CurrentFrameSource, kind Kind, payload Value, frameID FrameID) error {
	return rtr.Emit(ctx, kind, payload, frameID)
}
