package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateImage_BGR24(t *testing.T) {
	img, err := AllocateImage(4, 2, PixelFormatBGR24)
	require.NoError(t, err)
	defer img.Release()

	assert.Equal(t, 12, img.PlaneStrides[0])
	assert.Len(t, img.PlaneData[0], 24)
	for i := 1; i < MaxPlanes; i++ {
		assert.Equal(t, 0, img.PlaneStrides[i])
		assert.Nil(t, img.PlaneData[i])
	}
}

func TestAllocateImage_RejectsBadDimensions(t *testing.T) {
	_, err := AllocateImage(0, 10, PixelFormatBGR24)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = AllocateImage(10, 10, PixelFormatUnknown)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
