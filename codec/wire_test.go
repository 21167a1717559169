package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervedata/packetcodec/codec"
	"github.com/nervedata/packetcodec/errors"
)

const (
	memberFlagActive codec.Flags8 = 1 << 0
	memberFlagAdmin  codec.Flags8 = 1 << 1
	memberFlagGuest  codec.Flags8 = 1 << 2

	memberFlagsMask codec.Flags8 = 0x07
)

type member struct {
	ID    uint16
	Flags codec.Flags8 `pkt:"mask=0x07"`
	Name  string       `pkt:"len=u8"`
}

func TestMemberWireLayout(t *testing.T) {
	v := member{ID: 300, Flags: memberFlagActive | memberFlagGuest, Name: "ok"}

	b, err := codec.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x2C, 0x01, 0x05, 0x02, 0x6F, 0x6B}, b)

	var got member
	require.NoError(t, codec.Unmarshal(b, &got))
	assert.Equal(t, v, got)
}

func TestMemberTruncated(t *testing.T) {
	// The first four bytes end right after the name's length prefix.
	err := codec.Unmarshal([]byte{0x2C, 0x01, 0x05, 0x02}, &member{})
	require.True(t, errors.IsEOF(err))

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 2, e.Requested)
	assert.Equal(t, 4, e.Offset)
	assert.Equal(t, 0, e.Remaining)
}

func TestMemberEveryStrictPrefixFails(t *testing.T) {
	b, err := codec.Marshal(member{ID: 300, Flags: memberFlagActive | memberFlagGuest, Name: "ok"})
	require.NoError(t, err)

	for n := 0; n < len(b); n++ {
		var got member
		err := codec.Unmarshal(b[:n], &got)
		assert.True(t, errors.IsEOF(err), "prefix of %d bytes", n)
		assert.Zero(t, got, "prefix of %d bytes left residue", n)
	}
}

func TestMemberUndeclaredFlagBitsMasked(t *testing.T) {
	// 0xFF carries five bits outside the declared set.
	var got member
	require.NoError(t, codec.Unmarshal([]byte{0x2C, 0x01, 0xFF, 0x00}, &got))
	assert.Equal(t, memberFlagsMask, got.Flags)
	assert.True(t, got.Flags.Has(memberFlagAdmin))
}

func TestMemberDecodeFailureLeavesDestination(t *testing.T) {
	got := member{ID: 9, Flags: memberFlagAdmin, Name: "before"}
	err := codec.Unmarshal([]byte{0x2C, 0x01, 0x05}, &got)
	require.Error(t, err)
	assert.Equal(t, member{ID: 9, Flags: memberFlagAdmin, Name: "before"}, got)
}
