package videobot

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/framegrid/videobot/pkg/bot"
	"github.com/framegrid/videobot/pkg/codec"
	"github.com/framegrid/videobot/pkg/dispatch"
	"github.com/framegrid/videobot/pkg/router"
	"github.com/framegrid/videobot/pkg/scale"
	"github.com/framegrid/videobot/pkg/source"
)

// Run is the bot-facing entry point of spec §6: it parses the fixed CLI
// surface (--input, --input-format, --loglevel, --id), fetches the
// descriptor a bot registered via Register, wires the concrete C7/C2/C3
// adapters and a pkg/dispatch.Dispatcher, and drives one stream to
// completion. It returns the process exit code directly, so bot main
// packages reduce to os.Exit(videobot.Run(os.Args[1:])).
func Run(args []string) int {
	fs := flag.NewFlagSet("videobot", flag.ContinueOnError)
	var (
		input       = fs.String("input", "", "source URL: file:<path>, rtsp://..., or any libavformat-supported URL")
		inputFormat = fs.String("input-format", "", "force a specific demuxer name")
		logLevel    = fs.Int("loglevel", 0, "verbosity, -3 (fatal only) .. 9 (trace)")
		instanceID  = fs.String("id", "", "bot instance id")
	)
	fs.SetOutput(os.Stderr)

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *input == "" {
		fmt.Fprintln(os.Stderr, "videobot: --input is required")
		return 2
	}
	if *instanceID == "" {
		*instanceID = uuid.New().String()
	}

	log := logrus.NewEntry(logrus.StandardLogger())
	logrus.SetLevel(levelToLogrus(*logLevel))
	log = log.WithField("bot_id", *instanceID)

	descriptor, err := bot.DefaultRegistry.Get()
	if err != nil {
		log.WithError(err).Error("videobot: no bot registered")
		return ExitCode(err)
	}

	src, err := openSource(*input, *inputFormat, log)
	if err != nil {
		log.WithError(err).Error("videobot: failed to open source")
		return 2
	}
	defer src.Close()

	sink := router.NewWriterSink(os.Stdout, log)
	rtr := router.New(sink)
	converter := scale.NewFFmpegConverter()
	defer converter.Close()

	d := dispatch.New(src, codec.OpenFFmpeg, converter, rtr, descriptor, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Run(ctx); err != nil {
		log.WithError(err).Error("videobot: stream failed")
		return ExitCode(err)
	}
	return 0
}

// openSource selects a concrete pkg/source.Source by the --input URL
// scheme (spec §4.8): "file:" for the deterministic test framing,
// "rtsp://" for the pure-Go RTSP path, anything else routed through the
// libavformat-backed ContainerSource.
func openSource(input, inputFormat string, log *logrus.Entry) (source.Source, error) {
	switch {
	case strings.HasPrefix(input, "file:"):
		f, err := os.Open(strings.TrimPrefix(input, "file:"))
		if err != nil {
			return nil, err
		}
		return source.NewFileSource(f)
	case strings.HasPrefix(input, "rtsp://"):
		return source.DialRTSP(context.Background(), input, source.DefaultReconnectConfig(), log)
	default:
		return source.OpenContainer(input, inputFormat)
	}
}

// levelToLogrus adapts spec §6's signed-integer verbosity (lower = more
// severe, codec-library-style fatal/error/warning/info/verbose/debug/
// trace) to logrus levels: -3 and below is FatalLevel (PanicLevel is
// never used), -2 Error, -1 Warn, 0 Info, 1..5 Debug (verbose and debug
// share it) and above 5 Trace.
func levelToLogrus(level int) logrus.Level {
	switch {
	case level <= -3:
		return logrus.FatalLevel
	case level <= -2:
		return logrus.ErrorLevel
	case level <= -1:
		return logrus.WarnLevel
	case level == 0:
		return logrus.InfoLevel
	case level <= 5:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}
