package codec

import "errors"

// Sentinel errors classified by the dispatcher into the abstract error
// kinds of spec §7. Grounded on the teacher's package-local Err* sentinel
// style (pkg/transcode/update_encoder_wrapper.go's ErrUpdateEncoderNotReady)
// rather than a custom error-kind hierarchy.
var (
	// ErrCodecNotFound is NotFound: the requested codec name has no
	// decoder in the underlying library.
	ErrCodecNotFound = errors.New("codec: decoder not found")
	// ErrAllocFailed is ResourceExhausted: the codec context could not be
	// allocated.
	ErrAllocFailed = errors.New("codec: failed to allocate codec context")
	// ErrInvalidExtraData is InvalidArgument: extra_data_bytes could not
	// be applied to the codec context.
	ErrInvalidExtraData = errors.New("codec: invalid extra data")
	// ErrTransient is DecodeTransient: a single packet failed to decode;
	// the dispatcher logs and drops it, the stream continues.
	ErrTransient = errors.New("codec: transient decode error")
)

// aliasTable maps the generic codec names the source hands the adapter to
// the concrete decoder name the library expects. Grounded on
// avutils.cpp::to_av_codec_name (vp9 -> libvpx-vp9); h264/h265/vp8 are
// pass-through/alias entries added for a real adapter to be useful beyond
// the single example the original names (additive, not spec-mandated).
var aliasTable = map[string]string{
	"vp9":  "libvpx-vp9",
	"vp8":  "vp8",
	"h264": "h264",
	"h265": "hevc",
	"hevc": "hevc",
}

// ResolveCodecName normalizes a generic codec name into the library's
// concrete decoder name, per spec §4.2's "normalizes codec name aliases".
func ResolveCodecName(name string) string {
	if resolved, ok := aliasTable[name]; ok {
		return resolved
	}
	return name
}
