package bot

import "github.com/framegrid/videobot/pkg/frame"

// Context is the per-bot-instance, process-lifetime state shared between
// the framework and the bot (spec §3, §5). It is mutated by the
// framework only outside of callback execution (the current-frame slot)
// and read by the bot only during callbacks — a single-writer/
// single-reader discipline that needs no lock (spec §5).
type Context struct {
	instanceData any
	metadata     *frame.Metadata
	currentFrame frame.FrameID
}

// InstanceData returns the bot's opaque per-instance value. The framework
// stores this pointer but never inspects or frees it (spec §3
// Ownership).
func (c *Context) InstanceData() any {
	return c.instanceData
}

// SetInstanceData sets the bot's opaque per-instance value. Only the bot
// calls this; the framework never writes instanceData itself.
func (c *Context) SetInstanceData(v any) {
	c.instanceData = v
}

// Metadata returns the stream's ImageMetadata, a borrowed reference valid
// for the current configuration epoch (spec §3, §8 "Metadata
// immutability").
func (c *Context) Metadata() frame.Metadata {
	if c.metadata == nil {
		return frame.Metadata{}
	}
	return *c.metadata
}

// CurrentFrameID implements router.CurrentFrameSource: the frame-ID the
// dispatcher set immediately before the in-flight image-callback
// invocation, or the sentinel {0,0} outside of one (spec §4.6).
func (c *Context) CurrentFrameID() frame.FrameID {
	return c.currentFrame
}

// SetCurrentFrame and ClearCurrentFrame are called only by the
// dispatcher, immediately before and after an image-callback dispatch
// (spec §4.4's dispatch_image). Exported because pkg/dispatch, not this
// package, drives the call sequence.
func (c *Context) SetCurrentFrame(id frame.FrameID) { c.currentFrame = id }
func (c *Context) ClearCurrentFrame()               { c.currentFrame = frame.FrameID{} }

// SetMetadata publishes the stream's ImageMetadata. The dispatcher calls
// it on the first decoded frame and again whenever a decoded frame's
// geometry or native format starts a new configuration epoch (spec
// §4.5).
func (c *Context) SetMetadata(m frame.Metadata) { c.metadata = &m }
