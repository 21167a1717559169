package codec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervedata/packetcodec/codec"
	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

func TestTimeRoundTrip(t *testing.T) {
	in := codec.NewTime(time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC))

	w := packet.NewWriter()
	require.NoError(t, in.EncodePacket(w))
	assert.Equal(t, 8, w.Len())

	var got codec.Time
	require.NoError(t, got.DecodePacket(w.Reader()))
	assert.True(t, in.Equal(got.Time))
}

func TestTimeUnixEpoch(t *testing.T) {
	// 1970-01-01 in 100ns ticks since 1601-01-01.
	in := codec.NewTime(time.Unix(0, 0))
	assert.Equal(t, uint64(116444736000000000), in.Ticks())
}

func TestTimeRangeValidation(t *testing.T) {
	w := packet.NewWriter()
	err := codec.NewTime(time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)).EncodePacket(w)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindValidation, e.Kind)

	w.Reset()
	w.WriteU64(1) // far before 1900
	var got codec.Time
	err = got.DecodePacket(w.Reader())
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindValidation, e.Kind)
	assert.Equal(t, errors.PhaseDecode, e.Phase)
}

func TestTimeBeyondNanosecondRange(t *testing.T) {
	// Instants outside UnixNano's int64 span must still be rejected,
	// not wrapped into the valid tick window.
	for _, tm := range []time.Time{
		time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC),
	} {
		w := packet.NewWriter()
		err := codec.NewTime(tm).EncodePacket(w)
		var e *errors.Error
		require.ErrorAs(t, err, &e, "year %d encoded", tm.Year())
		assert.Equal(t, errors.KindValidation, e.Kind)
		assert.Equal(t, 0, w.Len())
	}
}

func TestExpirationNeverSentinel(t *testing.T) {
	w := packet.NewWriter()
	require.NoError(t, codec.Never().EncodePacket(w))
	assert.Equal(t, 8, w.Len())

	var got codec.Expiration
	require.NoError(t, got.DecodePacket(w.Reader()))
	assert.True(t, got.IsNever())
}

func TestExpirationConcreteDeadline(t *testing.T) {
	deadline := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	in := codec.ExpireAt(deadline)
	require.False(t, in.IsNever())

	w := packet.NewWriter()
	require.NoError(t, in.EncodePacket(w))

	var got codec.Expiration
	require.NoError(t, got.DecodePacket(w.Reader()))
	assert.False(t, got.IsNever())
	assert.True(t, deadline.Equal(got.Time))
}

func TestExpirationInsideDerivedStruct(t *testing.T) {
	type license struct {
		Owner   uint32
		Expires codec.Expiration
	}
	in := license{Owner: 4, Expires: codec.Never()}
	b, err := codec.Marshal(in)
	require.NoError(t, err)

	var got license
	require.NoError(t, codec.DecodeComplete(b, &got))
	assert.True(t, got.Expires.IsNever())
}

func TestDurationMs(t *testing.T) {
	w := packet.NewWriter()
	require.NoError(t, codec.DurationMs16(1500*time.Millisecond).EncodePacket(w))
	assert.Equal(t, []byte{0xDC, 0x05}, w.Bytes())

	var got16 codec.DurationMs16
	require.NoError(t, got16.DecodePacket(w.Reader()))
	assert.Equal(t, 1500*time.Millisecond, got16.Duration())

	w.Reset()
	require.NoError(t, codec.DurationMs32(90*time.Minute).EncodePacket(w))
	var got32 codec.DurationMs32
	require.NoError(t, got32.DecodePacket(w.Reader()))
	assert.Equal(t, 90*time.Minute, got32.Duration())
}

func TestDurationMs16Overflow(t *testing.T) {
	w := packet.NewWriter()
	err := codec.DurationMs16(90 * time.Second).EncodePacket(w)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindOverflow, e.Kind)
}
