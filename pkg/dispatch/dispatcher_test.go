package dispatch

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrid/videobot/pkg/bot"
	"github.com/framegrid/videobot/pkg/codec"
	"github.com/framegrid/videobot/pkg/frame"
	"github.com/framegrid/videobot/pkg/message"
	"github.com/framegrid/videobot/pkg/router"
	"github.com/framegrid/videobot/pkg/scale"
	"github.com/framegrid/videobot/pkg/source"
)

// fakeSource replays a fixed event list, then reports EOS. Grounded on
// the fake Decoder/Converter/Sink strategy DESIGN.md records for testing
// the dispatcher's invariants without a cgo build.
type fakeSource struct {
	codecName string
	extraData []byte
	events    []source.Event
	pos       int
}

func (s *fakeSource) CodecName() string { return s.codecName }
func (s *fakeSource) ExtraData() []byte { return s.extraData }
func (s *fakeSource) Close() error      { return nil }

func (s *fakeSource) Next(ctx context.Context) (source.Event, error) {
	if s.pos >= len(s.events) {
		return source.Event{}, source.ErrSourceEOS
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// fakeDecoder treats every non-"corrupt" packet as one already-decoded
// raw RGB0 frame at a fixed source resolution, so tests can drive the
// dispatcher without ffmpeg.
type fakeDecoder struct {
	width, height int
	nextIdx       uint64
	flushed       bool
}

func (d *fakeDecoder) Decode(packet []byte) ([]*codec.RawFrame, error) {
	if string(packet) == "corrupt" {
		return nil, codec.ErrTransient
	}
	if strings.HasPrefix(string(packet), "resize:") {
		fmt.Sscanf(string(packet), "resize:%dx%d", &d.width, &d.height)
		packet = []byte("frame-data")
	}
	d.nextIdx++
	raw := &codec.RawFrame{
		Width:       d.width,
		Height:      d.height,
		PixelFormat: codec.NativeFormatRGB0,
		DecodeIndex: d.nextIdx,
	}
	raw.Strides[0] = d.width * 4
	raw.PlaneData[0] = packet
	return []*codec.RawFrame{raw}, nil
}

func (d *fakeDecoder) Flush() ([]*codec.RawFrame, error) {
	d.flushed = true
	return nil, nil
}

func (d *fakeDecoder) Close() error { return nil }

// fakeConverter applies the real geometry policy but does no actual pixel
// resampling — good enough to assert dimensions/pixel-format invariants.
type fakeConverter struct{}

func (fakeConverter) Convert(raw *codec.RawFrame, req scale.Request) (*frame.Image, error) {
	target := scale.ComputeTargetGeometry(req.Size, raw.Width, raw.Height)
	bpp := req.PixelFormat.BytesPerPixel()
	img := &frame.Image{Width: target.Width, Height: target.Height, PixelFormat: req.PixelFormat}
	img.PlaneStrides[0] = target.Width * bpp
	img.PlaneData[0] = make([]byte, img.PlaneStrides[0]*target.Height)
	return img, nil
}

func (fakeConverter) Close() error { return nil }

func fakeOpener(width, height int) codec.Opener {
	return func(codecName string, extraData []byte) (codec.Decoder, error) {
		return &fakeDecoder{width: width, height: height}, nil
	}
}

func packetEvents(n int) []source.Event {
	events := make([]source.Event, n)
	for i := range events {
		events[i] = source.Event{Kind: source.EventPacket, Packet: []byte("frame-data")}
	}
	return events
}

func TestDispatcher_PassthroughSmokeTest(t *testing.T) {
	var received []frame.FrameID
	var controlCalls int
	var imageCalledBeforeControl bool
	descriptor := &bot.Descriptor{
		ImageWidth:  frame.OriginalSize,
		ImageHeight: frame.OriginalSize,
		PixelFormat: frame.PixelFormatBGR24,
		Control: func(ctx *bot.Context, msg message.Value) (message.Value, bool) {
			controlCalls++
			assert.Equal(t, message.Map{"action": "init"}, msg)
			return nil, false
		},
		Image: func(ctx *bot.Context, img *frame.Image) {
			if controlCalls == 0 {
				imageCalledBeforeControl = true
			}
			received = append(received, img.ID)
			assert.Equal(t, 320, img.Width)
			assert.Equal(t, 240, img.Height)
			assert.Equal(t, frame.PixelFormatBGR24, img.PixelFormat)
		},
	}

	src := &fakeSource{codecName: "rgb0raw", events: packetEvents(10)}
	sink := &router.MemorySink{}
	d := New(src, fakeOpener(320, 240), fakeConverter{}, router.New(sink), descriptor, nil)

	require.NoError(t, d.Run(context.Background()))
	assert.Equal(t, StateStopped, d.State())

	// Control-first (spec §4.4/§8): the framework invokes the control
	// callback with the init message exactly once, unconditionally,
	// before the first image callback — even though this source never
	// sends a control event of its own.
	assert.Equal(t, 1, controlCalls)
	assert.False(t, imageCalledBeforeControl)

	require.Len(t, received, 10)
	for i, id := range received {
		assert.Equal(t, frame.Single(uint64(i+1)), id)
	}

	msgs := sink.Snapshot()
	require.Len(t, msgs, 1)
	assert.Equal(t, message.KindControl, msgs[0].Kind)
}

func TestDispatcher_Downscale(t *testing.T) {
	var sizes []frame.Size
	var metas []frame.Metadata
	descriptor := &bot.Descriptor{
		ImageWidth:  160,
		ImageHeight: 120,
		PixelFormat: frame.PixelFormatBGR24,
		Control:     func(ctx *bot.Context, msg message.Value) (message.Value, bool) { return nil, false },
		Image: func(ctx *bot.Context, img *frame.Image) {
			sizes = append(sizes, frame.Size{Width: img.Width, Height: img.Height})
			metas = append(metas, ctx.Metadata())
			assert.GreaterOrEqual(t, img.PlaneStrides[0], 160*3)
		},
	}

	src := &fakeSource{codecName: "rgb0raw", events: packetEvents(3)}
	d := New(src, fakeOpener(320, 240), fakeConverter{}, router.New(&router.MemorySink{}), descriptor, nil)

	require.NoError(t, d.Run(context.Background()))
	for _, s := range sizes {
		assert.Equal(t, frame.Size{Width: 160, Height: 120}, s)
	}

	// ctx.Metadata() must report the post-scale target geometry (160x120,
	// the bot's requested size), not the 320x240 source geometry, and
	// plane 0's stride must be populated for the live BGR24 data rather
	// than left at its zero value.
	require.NotEmpty(t, metas)
	for _, m := range metas {
		assert.Equal(t, 160, m.Width)
		assert.Equal(t, 120, m.Height)
		assert.Equal(t, 160*3, m.PlaneStrides[0])
	}
}

func TestDispatcher_NoUpscale(t *testing.T) {
	var sizes []frame.Size
	descriptor := &bot.Descriptor{
		ImageWidth:  1920,
		ImageHeight: 1080,
		PixelFormat: frame.PixelFormatBGR24,
		Control:     func(ctx *bot.Context, msg message.Value) (message.Value, bool) { return nil, false },
		Image: func(ctx *bot.Context, img *frame.Image) {
			sizes = append(sizes, frame.Size{Width: img.Width, Height: img.Height})
		},
	}

	src := &fakeSource{codecName: "rgb0raw", events: packetEvents(2)}
	d := New(src, fakeOpener(320, 240), fakeConverter{}, router.New(&router.MemorySink{}), descriptor, nil)

	require.NoError(t, d.Run(context.Background()))
	for _, s := range sizes {
		assert.Equal(t, frame.Size{Width: 320, Height: 240}, s)
	}
}

func TestDispatcher_FrameBindingDefault(t *testing.T) {
	sink := &router.MemorySink{}
	rtr := router.New(sink)

	descriptor := &bot.Descriptor{
		ImageWidth:  frame.OriginalSize,
		ImageHeight: frame.OriginalSize,
		PixelFormat: frame.PixelFormatBGR24,
		Control:     func(ctx *bot.Context, msg message.Value) (message.Value, bool) { return nil, false },
		Image: func(ctx *bot.Context, img *frame.Image) {
			_ = rtr.Emit(ctx, message.KindAnalysis, message.Map{"seq": int64(1)}, frame.FrameID{})
			_ = rtr.Emit(ctx, message.KindAnalysis, message.Map{"seq": int64(2)}, frame.FrameID{})
		},
	}

	src := &fakeSource{codecName: "rgb0raw", events: packetEvents(1)}
	d := New(src, fakeOpener(320, 240), fakeConverter{}, rtr, descriptor, nil)
	require.NoError(t, d.Run(context.Background()))

	msgs := sink.Snapshot()
	require.Len(t, msgs, 3) // two analysis + synthetic End
	assert.Equal(t, frame.Single(1), msgs[0].FrameID())
	assert.Equal(t, frame.Single(1), msgs[1].FrameID())
	assert.Equal(t, int64(1), msgs[0].Payload.(message.Map)["seq"])
	assert.Equal(t, int64(2), msgs[1].Payload.(message.Map)["seq"])
}

func TestDispatcher_ExplicitFrameInterval(t *testing.T) {
	sink := &router.MemorySink{}
	rtr := router.New(sink)

	frameN := 0
	descriptor := &bot.Descriptor{
		ImageWidth:  frame.OriginalSize,
		ImageHeight: frame.OriginalSize,
		PixelFormat: frame.PixelFormatBGR24,
		Control:     func(ctx *bot.Context, msg message.Value) (message.Value, bool) { return nil, false },
		Image: func(ctx *bot.Context, img *frame.Image) {
			frameN++
			if frameN == 5 {
				_ = rtr.Emit(ctx, message.KindAnalysis, message.Map{}, frame.FrameID{I1: 3, I2: 7})
			}
		},
	}

	src := &fakeSource{codecName: "rgb0raw", events: packetEvents(10)}
	d := New(src, fakeOpener(320, 240), fakeConverter{}, rtr, descriptor, nil)
	require.NoError(t, d.Run(context.Background()))

	msgs := sink.Snapshot()
	require.Len(t, msgs, 2) // explicit-interval message + synthetic End
	assert.Equal(t, frame.FrameID{I1: 3, I2: 7}, msgs[0].FrameID())
}

func TestDispatcher_CorruptPacketTolerance(t *testing.T) {
	var received []frame.FrameID
	descriptor := &bot.Descriptor{
		ImageWidth:  frame.OriginalSize,
		ImageHeight: frame.OriginalSize,
		PixelFormat: frame.PixelFormatBGR24,
		Control:     func(ctx *bot.Context, msg message.Value) (message.Value, bool) { return nil, false },
		Image: func(ctx *bot.Context, img *frame.Image) {
			received = append(received, img.ID)
		},
	}

	events := packetEvents(4)
	events = append(events, source.Event{Kind: source.EventPacket, Packet: []byte("corrupt")})
	events = append(events, packetEvents(6)...)

	src := &fakeSource{codecName: "rgb0raw", events: events}
	d := New(src, fakeOpener(320, 240), fakeConverter{}, router.New(&router.MemorySink{}), descriptor, nil)

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, received, 10)
	for i, id := range received {
		assert.Equal(t, frame.Single(uint64(i+1)), id)
	}
}

func TestDispatcher_MidStreamReconfiguration(t *testing.T) {
	var metas []frame.Metadata
	descriptor := &bot.Descriptor{
		ImageWidth:  frame.OriginalSize,
		ImageHeight: frame.OriginalSize,
		PixelFormat: frame.PixelFormatBGR24,
		Control:     func(ctx *bot.Context, msg message.Value) (message.Value, bool) { return nil, false },
		Image: func(ctx *bot.Context, img *frame.Image) {
			metas = append(metas, ctx.Metadata())
		},
	}

	events := packetEvents(2)
	events = append(events, source.Event{Kind: source.EventPacket, Packet: []byte("resize:160x120")})
	events = append(events, packetEvents(2)...)

	src := &fakeSource{codecName: "rgb0raw", events: events}
	d := New(src, fakeOpener(320, 240), fakeConverter{}, router.New(&router.MemorySink{}), descriptor, nil)

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, metas, 4)

	// Within the first configuration epoch, ctx.Metadata() is
	// byte-identical across callbacks (spec §8's metadata-immutability
	// property).
	assert.True(t, metas[0].Equal(metas[1]))
	assert.Equal(t, 320, metas[0].Width)
	assert.Equal(t, 240, metas[0].Height)

	// Once the source reconfigures, ctx.Metadata() updates to the new
	// epoch from the very next image callback onward.
	assert.True(t, metas[2].Equal(metas[3]))
	assert.Equal(t, 160, metas[2].Width)
	assert.Equal(t, 120, metas[2].Height)
	assert.False(t, metas[1].Equal(metas[2]))
}

func TestDispatcher_ControlFirst(t *testing.T) {
	var controlSeen, imageSeen bool
	var controlBeforeImage bool

	descriptor := &bot.Descriptor{
		ImageWidth:  frame.OriginalSize,
		ImageHeight: frame.OriginalSize,
		PixelFormat: frame.PixelFormatBGR24,
		Control: func(ctx *bot.Context, msg message.Value) (message.Value, bool) {
			controlSeen = true
			if !imageSeen {
				controlBeforeImage = true
			}
			return nil, false
		},
		Image: func(ctx *bot.Context, img *frame.Image) {
			imageSeen = true
		},
	}

	events := []source.Event{
		{Kind: source.EventControl, Control: message.Map{"action": "configure", "body": message.Map{"x": int64(1)}}},
	}
	events = append(events, packetEvents(3)...)

	src := &fakeSource{codecName: "rgb0raw", events: events}
	d := New(src, fakeOpener(320, 240), fakeConverter{}, router.New(&router.MemorySink{}), descriptor, nil)

	require.NoError(t, d.Run(context.Background()))
	assert.True(t, controlSeen)
	assert.True(t, controlBeforeImage)
}
