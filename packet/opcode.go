package packet

import "github.com/nervedata/packetcodec/errors"

// Opcode identifies a message type on the wire as a u16.
type Opcode uint16

// OpcodeTable is an explicit mapping from opcode values to names. Unknown
// values are an error, never a fallback — the table is the only source of
// the mapping.
type OpcodeTable struct {
	names map[Opcode]string
}

// NewOpcodeTable builds a table from the declared mapping.
func NewOpcodeTable(names map[Opcode]string) *OpcodeTable {
	copied := make(map[Opcode]string, len(names))
	for op, name := range names {
		copied[op] = name
	}
	return &OpcodeTable{names: copied}
}

// Name returns the declared name for op.
func (t *OpcodeTable) Name(op Opcode) (string, bool) {
	name, ok := t.names[op]
	return name, ok
}

// Lookup validates a raw wire value against the table.
func (t *OpcodeTable) Lookup(v uint16) (Opcode, error) {
	op := Opcode(v)
	if _, ok := t.names[op]; !ok {
		return 0, errors.InvalidOpcode(v)
	}
	return op, nil
}
