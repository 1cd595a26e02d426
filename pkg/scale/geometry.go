// Package scale implements the pixel-format/geometry converter (C3): the
// pure geometry policy (this file) plus the ffmpeg-backed Converter
// (ffmpeg_scaler.go, cgo_enabled).
package scale

import "github.com/framegrid/videobot/pkg/frame"

// ComputeTargetGeometry applies spec §4.3's geometry policy: coupled
// "original" sentinel, pass-through-never-upscale, otherwise exact resize.
// req must already be validated as not a mixed sentinel (videobot.Register
// rejects that at registration, per DESIGN.md's Open Question decision);
// ComputeTargetGeometry itself stays pure and does not re-check that.
func ComputeTargetGeometry(req frame.Size, srcW, srcH int) frame.Size {
	if req.IsOriginal() {
		return frame.Size{Width: srcW, Height: srcH}
	}

	if srcW <= req.Width && srcH <= req.Height {
		return frame.Size{Width: srcW, Height: srcH}
	}

	return req
}
