package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/framegrid/videobot/pkg/frame"
)

func TestContext_InstanceData(t *testing.T) {
	ctx := &Context{}
	assert.Nil(t, ctx.InstanceData())

	ctx.SetInstanceData(42)
	assert.Equal(t, 42, ctx.InstanceData())
}

func TestContext_CurrentFrame(t *testing.T) {
	ctx := &Context{}
	assert.True(t, ctx.CurrentFrameID().IsSentinel())

	id := frame.Single(7)
	ctx.SetCurrentFrame(id)
	assert.Equal(t, id, ctx.CurrentFrameID())

	ctx.ClearCurrentFrame()
	assert.True(t, ctx.CurrentFrameID().IsSentinel())
}

func TestContext_Metadata(t *testing.T) {
	ctx := &Context{}
	assert.Equal(t, frame.Metadata{}, ctx.Metadata())

	m := frame.Metadata{Width: 160, Height: 120, PixelFormat: frame.PixelFormatBGR24}
	m.PlaneStrides[0] = 160 * 3
	ctx.SetMetadata(m)

	assert.True(t, ctx.Metadata().Equal(m))
}
