//go:build cgo_enabled

package scale

import (
	"fmt"

	"github.com/asticode/go-astiav"

	"github.com/framegrid/videobot/pkg/codec"
	"github.com/framegrid/videobot/pkg/frame"
)

// scaleKey is the tuple the cache is keyed by, per spec §4.3.
type scaleKey struct {
	srcW, srcH int
	srcFmt     codec.NativeFormat
	dstW, dstH int
	dstFmt     frame.PixelFormat
}

// ffmpegConverter drives astiav's software-scale context directly
// (AllocSoftwareScaleContext + ScaleFrame) rather than a buffersrc/
// buffersink filter graph. Grounded on pkg/transcode/filter.go's
// GeneralFilter lifecycle (Create*/Start/Close, rebuild-on-parameter-
// change) but the filter-graph machinery there exists to host
// bitrate/FPS-adaptation filters this spec has no use for — a single
// cached scale+pixel-format step doesn't need a general filter pipeline.
type ffmpegConverter struct {
	key   scaleKey
	sws   *astiav.SoftwareScaleContext
	dst   *astiav.Frame
	valid bool
}

// NewFFmpegConverter returns a Converter with no scaler allocated yet; the
// first Convert call builds one from the first frame's geometry.
func NewFFmpegConverter() Converter {
	return &ffmpegConverter{dst: astiav.AllocFrame()}
}

func (c *ffmpegConverter) Convert(raw *codec.RawFrame, req Request) (*frame.Image, error) {
	target := ComputeTargetGeometry(req.Size, raw.Width, raw.Height)
	key := scaleKey{
		srcW: raw.Width, srcH: raw.Height, srcFmt: raw.PixelFormat,
		dstW: target.Width, dstH: target.Height, dstFmt: req.PixelFormat,
	}

	if !c.valid || key != c.key {
		if err := c.rebuild(key); err != nil {
			return nil, err
		}
	}

	src := astiav.AllocFrame()
	defer src.Free()
	if err := populateSrcFrame(src, raw); err != nil {
		return nil, err
	}

	c.dst.SetWidth(key.dstW)
	c.dst.SetHeight(key.dstH)
	c.dst.SetPixelFormat(astiavPixelFormat(key.dstFmt))
	if err := c.dst.AllocBuffer(1); err != nil {
		return nil, fmt.Errorf("scale: alloc dst buffer: %w", ErrConvertTransient)
	}
	defer c.dst.Unref()

	if err := c.sws.ScaleFrame(src, c.dst); err != nil {
		return nil, fmt.Errorf("scale: %w: %w", ErrConvertTransient, err)
	}

	return copyToImage(c.dst, key.dstW, key.dstH, key.dstFmt), nil
}

func (c *ffmpegConverter) rebuild(key scaleKey) error {
	if c.sws != nil {
		c.sws.Free()
		c.sws = nil
	}

	sws, err := astiav.CreateSoftwareScaleContext(
		key.srcW, key.srcH, nativeAstiavPixelFormat(key.srcFmt),
		key.dstW, key.dstH, astiavPixelFormat(key.dstFmt),
		astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagFastBilinear),
	)
	if err != nil || sws == nil {
		return fmt.Errorf("scale: %w", ErrAllocFailed)
	}

	c.sws = sws
	c.key = key
	c.valid = true
	return nil
}

func (c *ffmpegConverter) Close() error {
	if c.sws != nil {
		c.sws.Free()
	}
	if c.dst != nil {
		c.dst.Free()
	}
	return nil
}

func populateSrcFrame(f *astiav.Frame, raw *codec.RawFrame) error {
	f.SetWidth(raw.Width)
	f.SetHeight(raw.Height)
	f.SetPixelFormat(nativeAstiavPixelFormat(raw.PixelFormat))
	if err := f.AllocBuffer(1); err != nil {
		return fmt.Errorf("scale: alloc src buffer: %w", ErrConvertTransient)
	}
	for i, plane := range raw.PlaneData {
		if raw.Strides[i] == 0 {
			continue
		}
		dst := f.Data().Bytes(i, len(plane))
		copy(dst, plane)
	}
	return nil
}

func copyToImage(f *astiav.Frame, width, height int, pf frame.PixelFormat) *frame.Image {
	img := &frame.Image{Width: width, Height: height, PixelFormat: pf}
	stride := f.Linesize(0)
	img.PlaneStrides[0] = stride
	src := f.Data().Bytes(0, stride*height)
	buf := make([]byte, len(src))
	copy(buf, src)
	img.PlaneData[0] = buf
	return img
}

func astiavPixelFormat(pf frame.PixelFormat) astiav.PixelFormat {
	switch pf {
	case frame.PixelFormatBGR24:
		return astiav.PixelFormatBgr24
	case frame.PixelFormatRGB0:
		return astiav.PixelFormatRgba
	default:
		return astiav.PixelFormatNone
	}
}

func nativeAstiavPixelFormat(nf codec.NativeFormat) astiav.PixelFormat {
	switch nf {
	case codec.NativeFormatYUV420P:
		return astiav.PixelFormatYuv420P
	case codec.NativeFormatNV12:
		return astiav.PixelFormatNv12
	case codec.NativeFormatBGR24:
		return astiav.PixelFormatBgr24
	case codec.NativeFormatRGB0:
		return astiav.PixelFormatRgba
	default:
		return astiav.PixelFormatNone
	}
}
