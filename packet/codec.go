package packet

// Encoder is implemented by types that can append their wire representation
// to a Writer.
type Encoder interface {
	EncodePacket(w *Writer) error
}

// Decoder is implemented by types that can populate themselves from a
// Reader. Implementations must consume exactly the bytes of their own
// encoding and fail on the first malformed field without leaving a
// partially-valid value behind.
type Decoder interface {
	DecodePacket(r *Reader) error
}

// Codec combines both directions of the contract.
type Codec interface {
	Encoder
	Decoder
}
