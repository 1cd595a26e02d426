package source

import (
	"context"
	"fmt"
	"time"

	"github.com/bluenviron/gortsplib/v4"
	"github.com/bluenviron/gortsplib/v4/pkg/base"
	"github.com/bluenviron/gortsplib/v4/pkg/description"
	"github.com/bluenviron/gortsplib/v4/pkg/format"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h264"
	"github.com/pion/rtp"
	"github.com/sirupsen/logrus"
)

// ReconnectConfig is the exponential-backoff schedule RTSPSource retries
// its initial connection with. Grounded on
// e7canasta-orion-care-sensor/modules/stream-capture/internal/rtsp/reconnect.go,
// re-targeted from a GStreamer pipeline handle to a gortsplib.Client.
type ReconnectConfig struct {
	MaxRetries    int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// DefaultReconnectConfig mirrors reconnect.go's defaults.
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{MaxRetries: 5, RetryDelay: time.Second, MaxRetryDelay: 30 * time.Second}
}

// RTSPSource is a pure-Go RTSP source built on gortsplib. H.264 SPS/PPS
// are taken from the session description's H.264 format parameters, and
// packets are repackaged as Annex-B via mediacommon's h264 package.
type RTSPSource struct {
	client *gortsplib.Client

	codecName string
	sps, pps  []byte

	events chan Event
	errs   chan error
	log    *logrus.Entry
}

// DialRTSP connects to an rtsp:// URL, retrying with the given backoff
// schedule, and selects the stream's first H.264 video media.
func DialRTSP(ctx context.Context, rawURL string, cfg ReconnectConfig, log *logrus.Entry) (*RTSPSource, error) {
	u, err := base.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("source: parse rtsp url: %w", err)
	}

	s := &RTSPSource{
		codecName: "h264",
		events:    make(chan Event, 256),
		errs:      make(chan error, 1),
		log:       log,
	}

	connect := func(ctx context.Context) error {
		client := &gortsplib.Client{}
		if err := client.Start(u.Scheme, u.Host); err != nil {
			return fmt.Errorf("start: %w", err)
		}

		desc, _, err := client.Describe(u)
		if err != nil {
			client.Close()
			return fmt.Errorf("describe: %w", err)
		}

		media, forma, err := findH264Media(desc)
		if err != nil {
			client.Close()
			return err
		}

		if err := client.SetupAll(desc.BaseURL, desc.Medias); err != nil {
			client.Close()
			return fmt.Errorf("setup: %w", err)
		}

		s.sps, s.pps = forma.SafeParams()

		decoder, err := forma.CreateDecoder()
		if err != nil {
			client.Close()
			return fmt.Errorf("create rtp decoder: %w", err)
		}

		client.OnPacketRTP(media, forma, func(pkt *rtp.Packet) {
			s.handlePacket(decoder, pkt)
		})

		if _, err := client.Play(nil); err != nil {
			client.Close()
			return fmt.Errorf("play: %w", err)
		}

		s.client = client
		return nil
	}

	if err := runWithReconnect(ctx, connect, cfg, log); err != nil {
		return nil, err
	}

	go s.watch()

	return s, nil
}

// rtpDecoder is the subset of the H.264 format's RTP decoder (RTP packets
// to NAL units) RTSPSource needs; kept as an interface so handlePacket
// does not depend on a concrete decoder type.
type rtpDecoder interface {
	Decode(pkt *rtp.Packet) ([][]byte, error)
}

func (s *RTSPSource) handlePacket(decoder rtpDecoder, pkt *rtp.Packet) {
	nalus, err := decoder.Decode(pkt)
	if err != nil {
		return // transient RTP/decode glitch; next packet may recover
	}
	if len(nalus) == 0 {
		return
	}

	annexB, err := h264.AnnexB(nalus).Marshal()
	if err != nil {
		return
	}

	select {
	case s.events <- Event{Kind: EventPacket, Packet: annexB}:
	default:
		if s.log != nil {
			s.log.Warn("source: rtsp event channel full, dropping packet")
		}
	}
}

func (s *RTSPSource) watch() {
	err := s.client.Wait()
	select {
	case s.errs <- err:
	default:
	}
	close(s.events)
}

func (s *RTSPSource) CodecName() string { return s.codecName }

// ExtraData returns the SPS+PPS Annex-B blob, the extra_data_bytes shape
// C2's open_decoder expects for h264.
func (s *RTSPSource) ExtraData() []byte {
	annexB, err := h264.AnnexB([][]byte{s.sps, s.pps}).Marshal()
	if err != nil {
		return nil
	}
	return annexB
}

func (s *RTSPSource) Next(ctx context.Context) (Event, error) {
	select {
	case ev, ok := <-s.events:
		if !ok {
			select {
			case err := <-s.errs:
				if err != nil {
					return Event{}, fmt.Errorf("source: rtsp session ended: %w", err)
				}
			default:
			}
			return Event{}, ErrSourceEOS
		}
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

func (s *RTSPSource) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

func findH264Media(desc *description.Session) (*description.Media, *format.H264, error) {
	for _, media := range desc.Medias {
		for _, forma := range media.Formats {
			if h264Format, ok := forma.(*format.H264); ok {
				return media, h264Format, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("source: %w", ErrNoVideoStream)
}

type connectFunc func(ctx context.Context) error

// runWithReconnect mirrors reconnect.go's RunWithReconnect: attempt,
// back off exponentially on failure, give up after cfg.MaxRetries.
func runWithReconnect(ctx context.Context, connect connectFunc, cfg ReconnectConfig, log *logrus.Entry) error {
	attempt := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := connect(ctx); err == nil {
			return nil
		} else if log != nil {
			log.WithFields(logrus.Fields{"attempt": attempt + 1, "error": err}).Warn("source: rtsp connect failed")
		}

		attempt++
		if attempt > cfg.MaxRetries {
			return fmt.Errorf("source: rtsp connect: max retries (%d) exceeded", cfg.MaxRetries)
		}

		delay := cfg.RetryDelay * time.Duration(1<<uint(attempt-1))
		if delay > cfg.MaxRetryDelay {
			delay = cfg.MaxRetryDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
