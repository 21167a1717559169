package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervedata/packetcodec/codec"
	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

func TestUint128WireOrder(t *testing.T) {
	in := codec.Uint128{Hi: 0x1122334455667788, Lo: 0x99AABBCCDDEEFF00}

	w := packet.NewWriter()
	require.NoError(t, in.EncodePacket(w))

	// Four little-endian u32 blocks, most significant block first.
	assert.Equal(t, []byte{
		0x44, 0x33, 0x22, 0x11,
		0x88, 0x77, 0x66, 0x55,
		0xCC, 0xBB, 0xAA, 0x99,
		0x00, 0xFF, 0xEE, 0xDD,
	}, w.Bytes())

	var got codec.Uint128
	require.NoError(t, got.DecodePacket(w.Reader()))
	assert.Equal(t, in, got)
}

func TestUint128Truncated(t *testing.T) {
	var got codec.Uint128
	err := got.DecodePacket(packet.NewReader(make([]byte, 10)))
	assert.True(t, errors.IsEOF(err))
}

func TestUint128String(t *testing.T) {
	assert.Equal(t, "77", codec.Uint128{Lo: 77}.String())
	assert.Equal(t, "0x00000000000000010000000000000000", codec.Uint128{Hi: 1}.String())
}
