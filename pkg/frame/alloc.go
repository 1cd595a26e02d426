package frame

import "fmt"

// AllocatedImage owns a single contiguous backing buffer shared by all of
// an Image's planes, grounded on avutils.cpp::allocate_image
// (av_image_alloc allocates one buffer and slices it per plane rather than
// allocating each plane separately).
type AllocatedImage struct {
	Image
	backing []byte
}

// Release frees the backing buffer. Safe to call more than once.
func (a *AllocatedImage) Release() {
	a.backing = nil
	for i := range a.PlaneData {
		a.PlaneData[i] = nil
	}
}

// AllocateImage returns a buffer with correct per-plane strides for width x
// height at pixelFormat. Only packed formats (plane 0) are populated; the
// remaining planes are left with stride 0, marking them unused, per the
// data model in §3.
func AllocateImage(width, height int, pixelFormat PixelFormat) (*AllocatedImage, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("frame: invalid image dimensions %dx%d: %w", width, height, ErrInvalidArgument)
	}

	bpp := pixelFormat.BytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("frame: cannot allocate unknown pixel format: %w", ErrInvalidArgument)
	}

	stride := width * bpp
	size := stride * height

	img := &AllocatedImage{
		Image: Image{
			Width:       width,
			Height:      height,
			PixelFormat: pixelFormat,
		},
		backing: make([]byte, size),
	}
	img.PlaneStrides[0] = stride
	img.PlaneData[0] = img.backing

	return img, nil
}
