// Package codec wraps the external decoder library (C2). The Decoder
// interface carries no cgo dependency so dispatcher tests can drive it
// with a fake; the concrete ffmpeg-backed implementation lives in
// ffmpeg_decoder.go behind the cgo_enabled build tag.
package codec

import "github.com/framegrid/videobot/pkg/frame"

// NativeFormat identifies a decoder's native pixel layout. Decoders
// typically emit planar formats (YUV420P, NV12) that the bot-facing
// frame.PixelFormat enum does not cover (spec §9: "planar formats are
// anticipated... but not required"); NativeFormat is the wider,
// codec-package-local enumeration the scaler's cache key and conversion
// routine key off of.
type NativeFormat int

const (
	NativeFormatUnknown NativeFormat = iota
	NativeFormatYUV420P
	NativeFormatNV12
	NativeFormatBGR24
	NativeFormatRGB0
)

// FromPixelFormat widens a bot-facing frame.PixelFormat into a
// NativeFormat, for synthetic sources/tests whose "decoded" frames are
// already packed BGR24/RGB0.
func FromPixelFormat(pf frame.PixelFormat) NativeFormat {
	switch pf {
	case frame.PixelFormatBGR24:
		return NativeFormatBGR24
	case frame.PixelFormatRGB0:
		return NativeFormatRGB0
	default:
		return NativeFormatUnknown
	}
}

// RawFrame is a frame as decoded by C2, before C3's pixel/geometry
// normalization. DecodeIndex is the monotone counter the dispatcher uses
// to assign FrameIDs (spec §4.5) — it counts decoded frames, not input
// packets.
type RawFrame struct {
	Width       int
	Height      int
	PixelFormat NativeFormat
	PlaneData   [frame.MaxPlanes][]byte
	Strides     [frame.MaxPlanes]int
	DecodeIndex uint64

	// release, if non-nil, returns the frame's backing memory to the
	// decoder's pool. The dispatcher calls Release once C3 has finished
	// converting the frame (spec §3 Ownership).
	release func()
}

// Release returns the frame's buffers to the decoder. Safe to call on a
// zero-value RawFrame or to call more than once.
func (f *RawFrame) Release() {
	if f.release != nil {
		f.release()
		f.release = nil
	}
}

// Decoder wraps a codec library's decoder context (spec §4.2).
type Decoder interface {
	// Decode feeds a single compressed packet and returns zero or more
	// decoded frames (B-frame reordering, priming, EOS flush all yield a
	// variable frame count per packet).
	Decode(packet []byte) ([]*RawFrame, error)
	// Flush drains any frames buffered internally at stream end.
	Flush() ([]*RawFrame, error)
	// Close releases the codec context. Closing before freeing is the
	// library's defined order; implementations must do it in Close, not
	// rely on garbage collection.
	Close() error
}

// Opener opens a Decoder for a given codec name and initialization bytes.
// A package-level function rather than a constructor on Decoder, since
// the codec name/extra data are only known once the source is opened.
type Opener func(codecName string, extraData []byte) (Decoder, error)
