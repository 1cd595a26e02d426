package frame

import "fmt"

// OriginalSize is the sentinel value a requested width or height takes to
// mean "do not downscale, use the source dimension". Grounded on
// avutils.cpp::parse_image_size, which returns {-1,-1} for the literal
// "original".
const OriginalSize = -1

// Size is a requested (or resolved) width/height pair.
type Size struct {
	Width  int
	Height int
}

// IsOriginal reports whether both dimensions are the "original" sentinel.
// Registration rejects a Size where only one dimension is the sentinel
// (see DESIGN.md's Open Question decision) before this ever reaches the
// scaler.
func (s Size) IsOriginal() bool {
	return s.Width == OriginalSize && s.Height == OriginalSize
}

// ParseImageSize accepts the literal "original" (yielding the sentinel
// pair) or a "WxH" form; anything else is InvalidArgument. Mirrors
// avutils.cpp::parse_image_size, minus its av_parse_video_size named-preset
// grammar (see DESIGN.md for why that grammar is not pulled in here).
func ParseImageSize(text string) (Size, error) {
	if text == "original" {
		return Size{Width: OriginalSize, Height: OriginalSize}, nil
	}

	var w, h int
	n, err := fmt.Sscanf(text, "%dx%d", &w, &h)
	if err != nil || n != 2 {
		return Size{}, fmt.Errorf("frame: invalid image size %q: %w", text, ErrInvalidArgument)
	}
	if w <= 0 || h <= 0 {
		return Size{}, fmt.Errorf("frame: invalid image size %q: %w", text, ErrInvalidArgument)
	}

	return Size{Width: w, Height: h}, nil
}
