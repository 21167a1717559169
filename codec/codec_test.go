package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervedata/packetcodec/codec"
	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// handRolled implements the codec contract directly; the engine must call
// the methods instead of reflecting over the fields.
type handRolled struct {
	Value uint32
	calls int
}

func (h *handRolled) EncodePacket(w *packet.Writer) error {
	h.calls++
	w.WriteU32(h.Value ^ 0xFFFFFFFF)
	return nil
}

func (h *handRolled) DecodePacket(r *packet.Reader) error {
	h.calls++
	v, err := r.ReadU32()
	if err != nil {
		return err
	}
	h.Value = v ^ 0xFFFFFFFF
	return nil
}

func TestContractShortCircuit(t *testing.T) {
	in := &handRolled{Value: 5}
	b, err := codec.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFA, 0xFF, 0xFF, 0xFF}, b)
	assert.Equal(t, 1, in.calls)

	var got handRolled
	require.NoError(t, codec.Unmarshal(b, &got))
	assert.Equal(t, uint32(5), got.Value)
}

func TestContractShortCircuitInsideStruct(t *testing.T) {
	type outer struct {
		Head uint8
		Body handRolled
	}
	in := outer{Head: 1, Body: handRolled{Value: 5}}
	b, err := codec.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0xFA, 0xFF, 0xFF, 0xFF}, b)

	var got outer
	require.NoError(t, codec.DecodeComplete(b, &got))
	assert.Equal(t, uint32(5), got.Body.Value)
}

func TestDecodeRequiresPointer(t *testing.T) {
	var v struct{ A uint8 }
	err := codec.Unmarshal([]byte{1}, v)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindValidation, e.Kind)
}

func TestDecodeCompleteRejectsTrailingBytes(t *testing.T) {
	type one struct{ A uint8 }
	err := codec.DecodeComplete([]byte{1, 2, 3}, &one{})
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindValidation, e.Kind)
}

func TestTryDecodeOptionalTail(t *testing.T) {
	type tail struct {
		Extra uint32
	}

	w := packet.NewWriter()
	w.WriteU16(10)
	w.WriteU32(77)
	r := w.Reader()

	head, err := r.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(10), head)

	var got tail
	ok, err := codec.TryDecode(r, &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(77), got.Extra)
	assert.Equal(t, 0, r.Remaining())
}

func TestTryDecodeAbsentTail(t *testing.T) {
	type tail struct {
		Extra uint32
	}

	r := packet.NewReader([]byte{0x0A, 0x00, 0x01})
	_, err := r.ReadU16()
	require.NoError(t, err)
	posBefore := r.Position()

	var got tail
	ok, err := codec.TryDecode(r, &got)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, posBefore, r.Position(), "absent tail must not move the cursor")
	assert.Zero(t, got.Extra)
}

func TestTryDecodePropagatesNonEOF(t *testing.T) {
	type tail struct {
		Flag bool
	}

	r := packet.NewReader([]byte{0x07})
	var got tail
	ok, err := codec.TryDecode(r, &got)
	assert.False(t, ok)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindInvalidBool, e.Kind)
}

func TestEncodeRejectsNilPointer(t *testing.T) {
	var p *handRolled
	_, err := codec.Marshal(p)
	require.Error(t, err)
}
