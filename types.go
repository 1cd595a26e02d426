// Package videobot is the bot-facing API of the video-analysis bot
// framework (C4): register a descriptor, run the pipeline, emit
// structured output. Plumbing (codec, scale, router, dispatch, source,
// bot context & registry) lives under pkg/; this file re-exports the
// types a bot author needs so they never have to import pkg/* directly,
// mirroring
// e7canasta-orion-care-sensor/modules/framesupplier's "type Frame =
// internal.Frame" alias pattern.
package videobot

import (
	"github.com/framegrid/videobot/pkg/bot"
	"github.com/framegrid/videobot/pkg/frame"
	"github.com/framegrid/videobot/pkg/message"
)

// FrameID re-exports frame.FrameID.
type FrameID = frame.FrameID

// Single builds a FrameID for one decoded frame.
func Single(index uint64) FrameID { return frame.Single(index) }

// Kind re-exports message.Kind.
type Kind = message.Kind

const (
	KindAnalysis = message.KindAnalysis
	KindDebug    = message.KindDebug
	KindControl  = message.KindControl
)

// Value re-exports message.Value.
type Value = message.Value

// Map re-exports message.Map, the recommended control-message shape.
type Map = message.Map

// BotContext re-exports bot.Context.
type BotContext = bot.Context

// BotDescriptor re-exports bot.Descriptor.
type BotDescriptor = bot.Descriptor

// ImageCallback re-exports bot.ImageCallback.
type ImageCallback = bot.ImageCallback

// ControlCallback re-exports bot.ControlCallback.
type ControlCallback = bot.ControlCallback

// Register records descriptor as the process's single bot (spec §4.4).
func Register(descriptor *BotDescriptor) error {
	return bot.DefaultRegistry.Register(descriptor)
}
