package codec

// Flag sets ride the wire as their underlying unsigned integer, one bit
// per declared flag. Pair the field with a pkt:"mask=0xNN" tag naming the
// declared bits: undeclared bits are cleared on decode rather than
// rejected, so peers may grow new flags without breaking old readers.

type Flags8 uint8

func (f Flags8) Has(bits Flags8) bool { return f&bits == bits }

func (f Flags8) With(bits Flags8) Flags8 { return f | bits }

func (f Flags8) Without(bits Flags8) Flags8 { return f &^ bits }

type Flags16 uint16

func (f Flags16) Has(bits Flags16) bool { return f&bits == bits }

func (f Flags16) With(bits Flags16) Flags16 { return f | bits }

func (f Flags16) Without(bits Flags16) Flags16 { return f &^ bits }

type Flags32 uint32

func (f Flags32) Has(bits Flags32) bool { return f&bits == bits }

func (f Flags32) With(bits Flags32) Flags32 { return f | bits }

func (f Flags32) Without(bits Flags32) Flags32 { return f &^ bits }

type Flags64 uint64

func (f Flags64) Has(bits Flags64) bool { return f&bits == bits }

func (f Flags64) With(bits Flags64) Flags64 { return f | bits }

func (f Flags64) Without(bits Flags64) Flags64 { return f &^ bits }
