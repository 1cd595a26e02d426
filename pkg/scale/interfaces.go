package scale

import (
	"github.com/framegrid/videobot/pkg/codec"
	"github.com/framegrid/videobot/pkg/frame"
)

// Request is the bot-requested output geometry and pixel format,
// resolved once at registration (see videobot.BotDescriptor).
type Request struct {
	Size        frame.Size
	PixelFormat frame.PixelFormat
}

// Converter takes a codec.RawFrame at the decoder's native
// (srcW, srcH, srcFmt) and produces a frame.Image at
// (dstW, dstH, dstFmt) per spec §4.3. Implementations cache at most one
// scaler context, discarding and rebuilding it when the source geometry
// or format changes mid-stream.
type Converter interface {
	Convert(raw *codec.RawFrame, req Request) (*frame.Image, error)
	Close() error
}
