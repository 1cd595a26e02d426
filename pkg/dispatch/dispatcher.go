package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/framegrid/videobot/pkg/bot"
	"github.com/framegrid/videobot/pkg/codec"
	"github.com/framegrid/videobot/pkg/frame"
	"github.com/framegrid/videobot/pkg/message"
	"github.com/framegrid/videobot/pkg/router"
	"github.com/framegrid/videobot/pkg/scale"
	"github.com/framegrid/videobot/pkg/source"
)

// Dispatcher drives one stream through the state machine of spec §4.5.
// It is single-threaded with respect to the one bot it drives (spec §5):
// Run must not be called concurrently with itself.
type Dispatcher struct {
	src        source.Source
	openCodec  codec.Opener
	converter  scale.Converter
	rtr        *router.Router
	descriptor *bot.Descriptor
	ctx        *bot.Context
	log        *logrus.Entry

	state        State
	frameCounter uint64
	decoder      codec.Decoder

	// haveEpoch, epochWidth, epochHeight and epochFormat track the raw
	// decoder geometry ImageMetadata was last published for, so a
	// mid-stream format change (spec §4.3's scaler cache-discard case) is
	// detected and republished instead of leaving ctx.Metadata() stale.
	haveEpoch   bool
	epochWidth  int
	epochHeight int
	epochFormat codec.NativeFormat
}

// New builds a Dispatcher. descriptor comes from the bot registry (C4);
// New creates a fresh bot.Context for it. src, openCodec and converter are
// the concrete C7/C2/C3 implementations the CLI runtime wires together.
func New(src source.Source, openCodec codec.Opener, converter scale.Converter, rtr *router.Router, descriptor *bot.Descriptor, log *logrus.Entry) *Dispatcher {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Dispatcher{
		src:        src,
		openCodec:  openCodec,
		converter:  converter,
		rtr:        rtr,
		descriptor: descriptor,
		ctx:        &bot.Context{},
		log:        log,
	}
}

// State returns the dispatcher's current state, for tests and logging.
func (d *Dispatcher) State() State { return d.state }

// Run drives the stream to completion: Initializing, Decoding, Flushing,
// then Stopped (clean EOS, nil error) or Failed (non-nil error). ctx
// cancellation is the shutdown flag spec §5 describes: checked between
// input events, causing a direct transition to Flushing/Stopped.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.state = StateInitializing

	decoder, err := d.openCodec(d.src.CodecName(), d.src.ExtraData())
	if err != nil {
		d.state = StateFailed
		return fmt.Errorf("%w: %w", ErrInitFailure, err)
	}
	d.decoder = decoder
	defer func() {
		if cerr := d.decoder.Close(); cerr != nil {
			d.log.WithError(cerr).Warn("dispatch: decoder close failed")
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return d.flush(ctx)
		}

		ev, err := d.src.Next(ctx)
		if err != nil {
			if errors.Is(err, source.ErrSourceEOS) {
				return d.flush(ctx)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return d.flush(ctx)
			}
			d.state = StateFailed
			return fmt.Errorf("dispatch: read event: %w", err)
		}

		switch ev.Kind {
		case source.EventControl:
			d.dispatchControl(ev.Control)
		case source.EventPacket:
			if err := d.decodeAndDispatch(ev.Packet); err != nil {
				d.state = StateFailed
				return err
			}
		}
	}
}

func (d *Dispatcher) decodeAndDispatch(packet []byte) error {
	rawFrames, err := d.decoder.Decode(packet)
	if err != nil {
		if errors.Is(err, codec.ErrTransient) {
			d.log.WithError(err).Warn("dispatch: transient decode error, dropping packet")
			return nil
		}
		return fmt.Errorf("dispatch: %w", ErrResourceExhausted)
	}

	for _, raw := range rawFrames {
		d.handleRawFrame(raw)
	}
	return nil
}

// handleRawFrame assigns this decoded frame its FrameID, (re-)publishes
// ImageMetadata whenever the raw decoder geometry or format starts a new
// configuration epoch, transitions Initializing->Decoding on the first
// raw frame (invoking the control callback's guaranteed initialization
// call first, per spec §4.4/§4.5), converts the frame, and dispatches
// the image callback on success.
func (d *Dispatcher) handleRawFrame(raw *codec.RawFrame) {
	d.frameCounter++
	id := frame.Single(d.frameCounter)

	firstFrame := d.state == StateInitializing
	if firstFrame {
		d.state = StateDecoding
	}

	if !d.haveEpoch || raw.Width != d.epochWidth || raw.Height != d.epochHeight || raw.PixelFormat != d.epochFormat {
		d.haveEpoch = true
		d.epochWidth = raw.Width
		d.epochHeight = raw.Height
		d.epochFormat = raw.PixelFormat

		target := scale.ComputeTargetGeometry(d.descriptor.RequestedSize(), raw.Width, raw.Height)
		d.ctx.SetMetadata(frame.Metadata{
			Width:        target.Width,
			Height:       target.Height,
			PixelFormat:  d.descriptor.PixelFormat,
			PlaneStrides: [frame.MaxPlanes]int{target.Width * d.descriptor.PixelFormat.BytesPerPixel()},
		})
	}

	if firstFrame {
		d.dispatchControl(message.Map{"action": "init"})
	}

	req := scale.Request{Size: d.descriptor.RequestedSize(), PixelFormat: d.descriptor.PixelFormat}
	img, err := d.converter.Convert(raw, req)
	raw.Release()
	if err != nil {
		d.log.WithError(err).Warn("dispatch: conversion failed, dropping frame")
		return
	}
	img.ID = id

	if d.descriptor.Image == nil {
		return
	}

	d.ctx.SetCurrentFrame(id)
	d.descriptor.Image(d.ctx, img)
	d.ctx.ClearCurrentFrame()
}

func (d *Dispatcher) dispatchControl(msg message.Value) {
	if d.descriptor.Control == nil {
		return
	}
	reply, ok := d.descriptor.Control(d.ctx, msg)
	if !ok {
		return
	}
	if err := d.rtr.Emit(d.ctx, message.KindControl, reply, frame.FrameID{}); err != nil {
		d.log.WithError(err).Warn("dispatch: control reply rejected by sink")
	}
}

// flush drains the decoder, delivers any remaining frames, emits the
// synthetic End notice, and transitions to Stopped (spec §4.5's
// Flushing state).
func (d *Dispatcher) flush(ctx context.Context) error {
	d.state = StateFlushing

	if d.decoder != nil {
		rawFrames, err := d.decoder.Flush()
		if err != nil && !errors.Is(err, codec.ErrTransient) {
			d.state = StateFailed
			return fmt.Errorf("dispatch: flush: %w", ErrResourceExhausted)
		}
		for _, raw := range rawFrames {
			d.handleRawFrame(raw)
		}
	}

	if err := d.rtr.Emit(d.ctx, message.KindControl, message.Map{"action": "end"}, frame.FrameID{}); err != nil {
		d.log.WithError(err).Warn("dispatch: end notice rejected by sink")
	}

	d.state = StateStopped
	return nil
}
