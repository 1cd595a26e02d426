//go:build cgo_enabled

package source

import (
	"context"
	"fmt"

	"github.com/asticode/go-astiav"
)

// ContainerSource opens any libavformat-supported URL (local file,
// rtsp://, http://) and hands back raw packet bytes plus the stream's
// codec name/extradata. Grounded directly on pkg/transcode/demuxer.go's
// GeneralDemuxer (AllocFormatContext, OpenInput, FindStreamInfo, a
// per-stream ReadFrame loop), adapted to not retain astiav.Packet objects
// across the adapter boundary — each Next call copies the packet's bytes
// out and releases the packet immediately, keeping this package cgo-free
// on its exported surface except for this one file.
type ContainerSource struct {
	formatCtx *astiav.FormatContext
	stream    *astiav.Stream
	packet    *astiav.Packet

	codecName string
	extraData []byte
}

// OpenContainer opens address (a local path or a URL understood by
// libavformat) and selects its first video stream, mirroring
// GeneralDemuxer's "use the first stream found" behaviour.
func OpenContainer(address string, inputFormatName string) (*ContainerSource, error) {
	astiav.RegisterAllDevices()

	formatCtx := astiav.AllocFormatContext()
	if formatCtx == nil {
		return nil, fmt.Errorf("source: %w", ErrAllocFormatContext)
	}

	var inputFormat *astiav.InputFormat
	if inputFormatName != "" {
		inputFormat = astiav.FindInputFormat(inputFormatName)
	}

	if err := formatCtx.OpenInput(address, inputFormat, nil); err != nil {
		formatCtx.Free()
		return nil, fmt.Errorf("source: open input %q: %w", address, err)
	}

	if err := formatCtx.FindStreamInfo(nil); err != nil {
		formatCtx.CloseInput()
		return nil, fmt.Errorf("source: %w", ErrNoStreamFound)
	}

	var stream *astiav.Stream
	for _, s := range formatCtx.Streams() {
		if s.CodecParameters().MediaType() == astiav.MediaTypeVideo {
			stream = s
			break
		}
	}
	if stream == nil {
		formatCtx.CloseInput()
		return nil, fmt.Errorf("source: %w", ErrNoVideoStream)
	}

	params := stream.CodecParameters()

	return &ContainerSource{
		formatCtx: formatCtx,
		stream:    stream,
		packet:    astiav.AllocPacket(),
		codecName: params.CodecID().Name(),
		extraData: append([]byte(nil), params.ExtraData()...),
	}, nil
}

func (s *ContainerSource) CodecName() string { return s.codecName }
func (s *ContainerSource) ExtraData() []byte { return s.extraData }

func (s *ContainerSource) Next(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}

	for {
		s.packet.Unref()
		if err := s.formatCtx.ReadFrame(s.packet); err != nil {
			if isEOF(err) {
				return Event{}, ErrSourceEOS
			}
			return Event{}, fmt.Errorf("source: read frame: %w", err)
		}

		if s.packet.StreamIndex() != s.stream.Index() {
			continue
		}

		data := s.packet.Data()
		buf := make([]byte, len(data))
		copy(buf, data)
		return Event{Kind: EventPacket, Packet: buf}, nil
	}
}

func isEOF(err error) bool {
	return err != nil && (err == astiav.ErrEof)
}

func (s *ContainerSource) Close() error {
	if s.packet != nil {
		s.packet.Free()
	}
	if s.formatCtx != nil {
		s.formatCtx.CloseInput()
		s.formatCtx.Free()
	}
	return nil
}
