package packet

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/nervedata/packetcodec/errors"
)

type ping struct {
	Seq uint32
}

func (p *ping) EncodePacket(w *Writer) error {
	w.WriteU32(p.Seq)
	return nil
}

func (p *ping) DecodePacket(r *Reader) error {
	v, err := r.ReadU32()
	if err != nil {
		return err
	}
	p.Seq = v
	return nil
}

const opPing Opcode = 0x0011

func TestEncodeMessage(t *testing.T) {
	m, err := EncodeMessage(opPing, &ping{Seq: 7})
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{0x11, 0x00, 0x07, 0x00, 0x00, 0x00}
	if !bytes.Equal(m.Frame(), want) {
		t.Fatalf("frame: % x, want % x", m.Frame(), want)
	}
	if m.Opcode() != opPing {
		t.Errorf("opcode: %#x", m.Opcode())
	}
	if !bytes.Equal(m.Payload(), []byte{0x07, 0x00, 0x00, 0x00}) {
		t.Errorf("payload: % x", m.Payload())
	}
}

func TestParseMessage(t *testing.T) {
	m, err := ParseMessage(Packet{0x11, 0x00, 0x07, 0x00, 0x00, 0x00})
	if err != nil {
		t.Fatal(err)
	}

	var p ping
	if err := m.Decode(opPing, &p); err != nil {
		t.Fatal(err)
	}
	if p.Seq != 7 {
		t.Errorf("seq: %d", p.Seq)
	}
}

func TestParseMessageTooShort(t *testing.T) {
	for _, frame := range []Packet{nil, {0x11}} {
		_, err := ParseMessage(frame)
		var e *errors.Error
		if !stderrors.As(err, &e) || e.Kind != errors.KindMissingOpcode {
			t.Errorf("%v: got %v", frame, err)
		}
	}
}

func TestMessageDecodeWrongOpcode(t *testing.T) {
	m, err := EncodeMessage(opPing, &ping{Seq: 7})
	if err != nil {
		t.Fatal(err)
	}

	var p ping
	err = m.Decode(Opcode(0x0099), &p)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindInvalidOpcode {
		t.Fatalf("got %v", err)
	}
}

func TestOpcodeTable(t *testing.T) {
	table := NewOpcodeTable(map[Opcode]string{
		opPing: "Ping",
	})

	if name, ok := table.Name(opPing); !ok || name != "Ping" {
		t.Errorf("Name: %q, %v", name, ok)
	}
	if _, ok := table.Name(0x0099); ok {
		t.Error("unknown opcode resolved a name")
	}

	op, err := table.Lookup(0x0011)
	if err != nil || op != opPing {
		t.Errorf("Lookup: %v, %v", op, err)
	}

	_, err = table.Lookup(0x0099)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindInvalidOpcode {
		t.Fatalf("Lookup unknown: %v", err)
	}
	if e.Raw != 0x0099 {
		t.Errorf("raw: %#x", e.Raw)
	}
}
