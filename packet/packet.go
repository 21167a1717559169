package packet

import "github.com/nervedata/packetcodec/errors"

// Packet is an immutable encoded frame.
type Packet []byte

// Reader returns a cursor over the frame.
func (p Packet) Reader() *Reader {
	return NewReader(p)
}

// Message is a frame whose first two bytes are a little-endian opcode,
// followed by the payload.
type Message struct {
	frame Packet
}

// ParseMessage validates that p is large enough to carry an opcode.
func ParseMessage(p Packet) (Message, error) {
	if len(p) < 2 {
		return Message{}, errors.MissingOpcode(len(p))
	}
	return Message{frame: p}, nil
}

// EncodeMessage writes the opcode followed by the body's encoding and
// returns the finished message.
func EncodeMessage(op Opcode, body Encoder) (Message, error) {
	w := NewWriter()
	w.WriteU16(uint16(op))
	if err := body.EncodePacket(w); err != nil {
		return Message{}, err
	}
	return Message{frame: w.Bytes()}, nil
}

// Opcode returns the message's opcode.
func (m Message) Opcode() Opcode {
	r := m.frame.Reader()
	v, _ := r.ReadU16() // length validated at construction
	return Opcode(v)
}

// Payload returns the bytes following the opcode.
func (m Message) Payload() []byte {
	return m.frame[2:]
}

// Frame returns the whole encoded frame, opcode included.
func (m Message) Frame() Packet {
	return m.frame
}

// Reader returns a cursor over the payload.
func (m Message) Reader() *Reader {
	return NewReader(m.Payload())
}

// Decode checks the message carries the expected opcode, then decodes the
// payload into v. An opcode mismatch fails with invalid_opcode and the
// payload is not touched.
func (m Message) Decode(expected Opcode, v Decoder) error {
	if m.Opcode() != expected {
		return errors.InvalidOpcode(uint16(m.Opcode()))
	}
	return v.DecodePacket(m.Reader())
}
