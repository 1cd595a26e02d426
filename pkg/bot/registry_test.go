package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrid/videobot/pkg/frame"
	"github.com/framegrid/videobot/pkg/message"
)

func validDescriptor() *Descriptor {
	return &Descriptor{
		ImageWidth:  frame.OriginalSize,
		ImageHeight: frame.OriginalSize,
		PixelFormat: frame.PixelFormatBGR24,
		Control:     func(ctx *Context, msg message.Value) (message.Value, bool) { return nil, false },
	}
}

func TestRegistry_RegisterGet(t *testing.T) {
	r := &Registry{}

	_, err := r.Get()
	assert.ErrorIs(t, err, ErrNotRegistered)

	descriptor := validDescriptor()
	require.NoError(t, r.Register(descriptor))

	got, err := r.Get()
	require.NoError(t, err)
	assert.Same(t, descriptor, got)
}

func TestRegistry_AlreadyRegistered(t *testing.T) {
	r := &Registry{}
	require.NoError(t, r.Register(validDescriptor()))

	err := r.Register(validDescriptor())
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegistry_MissingControlCallback(t *testing.T) {
	r := &Registry{}
	descriptor := validDescriptor()
	descriptor.Control = nil

	err := r.Register(descriptor)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, getErr := r.Get()
	assert.ErrorIs(t, getErr, ErrNotRegistered)
}

func TestRegistry_MixedOriginalSentinel(t *testing.T) {
	r := &Registry{}
	descriptor := validDescriptor()
	descriptor.ImageWidth = frame.OriginalSize
	descriptor.ImageHeight = 480

	err := r.Register(descriptor)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestRegistry_Reset(t *testing.T) {
	r := &Registry{}
	require.NoError(t, r.Register(validDescriptor()))

	r.Reset()

	_, err := r.Get()
	assert.ErrorIs(t, err, ErrNotRegistered)

	// Reset allows a fresh Register call, which a test suite relies on
	// when multiple tests register different descriptors against the
	// same Registry instance.
	assert.NoError(t, r.Register(validDescriptor()))
}
