package packet

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/nervedata/packetcodec/errors"
)

func TestWriterFixedWidth(t *testing.T) {
	tests := []struct {
		write func(*Writer)
		want  []byte
	}{
		{func(w *Writer) { w.WriteU8(0xAB) }, []byte{0xAB}},
		{func(w *Writer) { w.WriteU16(300) }, []byte{0x2C, 0x01}},
		{func(w *Writer) { w.WriteU32(0xDEADBEEF) }, []byte{0xEF, 0xBE, 0xAD, 0xDE}},
		{func(w *Writer) { w.WriteI16(-1) }, []byte{0xFF, 0xFF}},
		{func(w *Writer) { w.WriteU64(1) }, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{func(w *Writer) { w.WriteBool(true) }, []byte{1}},
		{func(w *Writer) { w.WriteBool(false) }, []byte{0}},
		{func(w *Writer) { w.WriteZero(3) }, []byte{0, 0, 0}},
	}
	for i, tc := range tests {
		w := NewWriter()
		tc.write(w)
		if !bytes.Equal(w.Bytes(), tc.want) {
			t.Errorf("case %d: got % x, want % x", i, w.Bytes(), tc.want)
		}
	}
}

func TestWriterString(t *testing.T) {
	w := NewWriter()
	if err := w.WriteString("ok"); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x02, 0x00, 0x6F, 0x6B}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got % x, want % x", w.Bytes(), want)
	}
}

func TestWriterStringMax(t *testing.T) {
	w := NewWriter()
	err := w.WriteStringMax("abcdef", 4)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindStringTooLong {
		t.Fatalf("got %v", err)
	}
	if e.Phase != errors.PhaseEncode {
		t.Errorf("phase: got %v", e.Phase)
	}
	if w.Len() != 0 {
		t.Error("failed write left bytes behind")
	}
}

func TestWriterPrefixOverflow(t *testing.T) {
	w := NewWriter()
	err := w.WritePrefix(U8, 256)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindOverflow {
		t.Fatalf("got %v", err)
	}

	if err := w.WritePrefix(U8, 255); err != nil {
		t.Errorf("255 should fit a u8 prefix: %v", err)
	}
}

func TestWriterLengthPrefixedOverflow(t *testing.T) {
	w := NewWriter()
	err := w.WriteLengthPrefixed(U8, make([]byte, 300))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindOverflow {
		t.Fatalf("got %v", err)
	}
	if w.Len() != 0 {
		t.Error("failed write left bytes behind")
	}
}

func TestWriterTruncateReset(t *testing.T) {
	w := NewWriter()
	w.WriteU32(0x11223344)
	w.Truncate(2)
	if !bytes.Equal(w.Bytes(), []byte{0x44, 0x33}) {
		t.Errorf("after truncate: % x", w.Bytes())
	}
	w.Reset()
	if w.Len() != 0 {
		t.Errorf("after reset: %d bytes", w.Len())
	}
}

func TestWriteMultiLineString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"\n", "\r\n"},
		{"\r\n", "\r\n"},
		{"\n\r\n", "\r\n\r\n"},
		{"Hello", "Hello"},
		{"Hello\nWorld", "Hello\r\nWorld"},
		{"Hello\r\nWorld", "Hello\r\nWorld"},
		{"Hello\nWorld\n", "Hello\r\nWorld\r\n"},
	}
	for _, tc := range tests {
		w := NewWriter()
		if err := w.WriteMultiLineString(tc.in); err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		got, err := w.Reader().ReadString()
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU16(300)
	w.WriteU8(0x05)
	if err := w.WriteString("ok"); err != nil {
		t.Fatal(err)
	}

	want := []byte{0x2C, 0x01, 0x05, 0x02, 0x00, 0x6F, 0x6B}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("encoded: % x, want % x", w.Bytes(), want)
	}

	r := w.Reader()
	if v, _ := r.ReadU16(); v != 300 {
		t.Errorf("id: %d", v)
	}
	if v, _ := r.ReadU8(); v != 0x05 {
		t.Errorf("flags: %d", v)
	}
	if s, _ := r.ReadString(); s != "ok" {
		t.Errorf("name: %q", s)
	}
}
