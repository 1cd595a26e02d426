//go:build cgo_enabled

package codec

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/asticode/go-astiav"
)

// ffmpegDecoder wraps an astiav.CodecContext. Grounded on
// pkg/transcode/decoder.go's GeneralDecoder, collapsed from an async
// goroutine+channel loop into a synchronous Decode call: spec §4.5
// requires the dispatcher to drive one input event to completion before
// accepting the next, so there is no internal queue to maintain here.
type ffmpegDecoder struct {
	codec   *astiav.Codec
	context *astiav.CodecContext
	packet  *astiav.Packet
	frame   *astiav.Frame
	nextIdx uint64
}

// OpenFFmpeg opens a decoder context for codecName (after alias
// resolution) and applies extraData as the codec's private initialization
// bytes. Thread configuration mirrors avutils.cpp::decoder_context:
// thread_count = min(4, NumCPU), thread_type =
// FF_THREAD_FRAME|FF_THREAD_SLICE.
func OpenFFmpeg(codecName string, extraData []byte) (Decoder, error) {
	resolved := ResolveCodecName(codecName)

	codec := astiav.FindDecoderByName(resolved)
	if codec == nil {
		return nil, fmt.Errorf("codec %q: %w", codecName, ErrCodecNotFound)
	}

	context := astiav.AllocCodecContext(codec)
	if context == nil {
		return nil, ErrAllocFailed
	}

	if len(extraData) > 0 {
		if err := context.SetExtraData(extraData); err != nil {
			context.Free()
			return nil, fmt.Errorf("%w: %w", ErrInvalidExtraData, err)
		}
	}

	threads := runtime.NumCPU()
	if threads > 4 {
		threads = 4
	}
	context.SetThreadCount(threads)
	context.SetThreadType(astiav.NewCodecContextThreadTypes(
		astiav.CodecContextThreadTypeFrame,
		astiav.CodecContextThreadTypeSlice,
	))

	if err := context.Open(codec, nil); err != nil {
		context.Free()
		return nil, fmt.Errorf("%w: %w", ErrAllocFailed, err)
	}

	return &ffmpegDecoder{
		codec:   codec,
		context: context,
		packet:  astiav.AllocPacket(),
		frame:   astiav.AllocFrame(),
		nextIdx: 1,
	}, nil
}

func (d *ffmpegDecoder) Decode(packet []byte) ([]*RawFrame, error) {
	d.packet.UnrefBuffer() //nolint:errcheck // always safe on a reused packet
	if err := d.packet.FromData(packet); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransient, err)
	}

	if err := d.context.SendPacket(d.packet); err != nil {
		if !errors.Is(err, astiav.ErrEagain) {
			return nil, fmt.Errorf("%w: %w", ErrTransient, err)
		}
	}

	return d.drain()
}

func (d *ffmpegDecoder) Flush() ([]*RawFrame, error) {
	if err := d.context.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
		return nil, fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return d.drain()
}

func (d *ffmpegDecoder) drain() ([]*RawFrame, error) {
	var out []*RawFrame
	for {
		if err := d.context.ReceiveFrame(d.frame); err != nil {
			if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
				return out, nil
			}
			return out, fmt.Errorf("%w: %w", ErrTransient, err)
		}

		raw := copyFrame(d.frame, d.nextIdx)
		d.nextIdx++
		d.frame.Unref()
		out = append(out, raw)
	}
}

// copyFrame copies astiav.Frame plane data into a RawFrame with no further
// ties to the decoder's internal buffers, since the frame is unref'd
// immediately after (the decoder reuses d.frame for every ReceiveFrame
// call). RawFrame.Release is a no-op here; ownership genuinely transfers
// at copy time.
func copyFrame(f *astiav.Frame, idx uint64) *RawFrame {
	raw := &RawFrame{
		Width:       f.Width(),
		Height:      f.Height(),
		PixelFormat: nativeFormatFromAstiav(f.PixelFormat()),
		DecodeIndex: idx,
	}

	for i := 0; i < f.PixelFormat().MaxNumPlanes() && i < len(raw.Strides); i++ {
		stride := f.Linesize(i)
		if stride <= 0 {
			continue
		}
		raw.Strides[i] = stride
		rows := raw.Height
		if i > 0 {
			rows = raw.Height / 2 // chroma plane of 4:2:0 formats
		}
		src := f.Data().Bytes(i, stride*rows)
		buf := make([]byte, len(src))
		copy(buf, src)
		raw.PlaneData[i] = buf
	}

	return raw
}

func nativeFormatFromAstiav(pf astiav.PixelFormat) NativeFormat {
	switch pf {
	case astiav.PixelFormatYuv420P:
		return NativeFormatYUV420P
	case astiav.PixelFormatNv12:
		return NativeFormatNV12
	case astiav.PixelFormatBgr24:
		return NativeFormatBGR24
	case astiav.PixelFormatRgba: // RGB0 is RGBA with the alpha byte ignored
		return NativeFormatRGB0
	default:
		return NativeFormatUnknown
	}
}

func (d *ffmpegDecoder) Close() error {
	if d.frame != nil {
		d.frame.Free()
	}
	if d.packet != nil {
		d.packet.Free()
	}
	if d.context != nil {
		d.context.Free()
	}
	return nil
}
