package source

import "errors"

// ErrSourceEOS is SourceEOS (spec §7): input exhausted, normal, triggers
// the dispatcher's Flushing transition.
var ErrSourceEOS = errors.New("source: end of stream")

// Sentinels surfaced by ContainerSource, grounded on the ErrorAllocate*/
// ErrorNo*Found family declared for pkg/transcode.GeneralDemuxer.
var (
	ErrAllocFormatContext = errors.New("source: failed to allocate format context")
	ErrNoStreamFound      = errors.New("source: no stream info found")
	ErrNoVideoStream      = errors.New("source: no video stream found")
)
