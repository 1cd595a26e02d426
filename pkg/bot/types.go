// Package bot implements the bot context & registry (C4): the single
// registered BotDescriptor, the per-instance BotContext, and the
// current-frame slot the dispatcher and router both consult.
package bot

import (
	"github.com/framegrid/videobot/pkg/frame"
	"github.com/framegrid/videobot/pkg/message"
)

// ImageCallback is invoked once per normalized frame delivered to the
// bot (spec §4.4's dispatch_image). The frame's plane buffers are
// read-only and valid only for the duration of the call.
type ImageCallback func(ctx *Context, img *frame.Image)

// ControlCallback is invoked once per control message, including the
// guaranteed initialization call before any image callback (spec §4.4).
// A reply returned with ok == true is forwarded to the router as a
// control-kind reply.
type ControlCallback func(ctx *Context, msg message.Value) (reply message.Value, ok bool)

// Descriptor is registered once per process lifetime (spec §3, §4.4).
type Descriptor struct {
	ImageWidth  int
	ImageHeight int
	PixelFormat frame.PixelFormat

	Image   ImageCallback
	Control ControlCallback
}

// RequestedSize is the bot's requested output geometry, as a frame.Size
// (possibly the "original" sentinel pair).
func (d *Descriptor) RequestedSize() frame.Size {
	return frame.Size{Width: d.ImageWidth, Height: d.ImageHeight}
}
