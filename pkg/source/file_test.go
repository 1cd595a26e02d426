package source

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framegrid/videobot/pkg/message"
)

func TestFileSource_ReadsHeaderAndRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, "rgb0raw", []byte("extra")))
	require.NoError(t, WriteControlRecord(&buf, message.Map{"action": "configure"}))
	require.NoError(t, WritePacketRecord(&buf, []byte("packet-1")))
	require.NoError(t, WritePacketRecord(&buf, []byte("packet-2")))

	src, err := NewFileSource(&buf)
	require.NoError(t, err)
	assert.Equal(t, "rgb0raw", src.CodecName())
	assert.Equal(t, []byte("extra"), src.ExtraData())

	ctx := context.Background()

	ev, err := src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, EventControl, ev.Kind)
	assert.Equal(t, "configure", ev.Control.(message.Map).Action())

	ev, err = src.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, EventPacket, ev.Kind)
	assert.Equal(t, []byte("packet-1"), ev.Packet)

	ev, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("packet-2"), ev.Packet)

	_, err = src.Next(ctx)
	assert.ErrorIs(t, err, ErrSourceEOS)
}
