package errors

import (
	"encoding/hex"
	"fmt"
	"sync/atomic"
)

// diagnostics gates snapshot capture on truncation errors. Off by default;
// toggling it must never change whether a decode succeeds, only the error
// payload.
var diagnostics atomic.Bool

// SetDiagnostics enables or disables the extended end-of-buffer diagnostic.
func SetDiagnostics(enabled bool) {
	diagnostics.Store(enabled)
}

// DiagnosticsEnabled reports the current diagnostic mode.
func DiagnosticsEnabled() bool {
	return diagnostics.Load()
}

// maxSnapshot bounds the copied region so a hostile length prefix cannot
// make error construction expensive.
const maxSnapshot = 256

// Diagnostic is a bounded snapshot of the buffer region around a failed
// read, for debugging truncated or corrupt frames.
type Diagnostic struct {
	Data      []byte // copied bytes, Data[0] sits at buffer offset Start
	Start     int
	Pos       int // failure offset within the original buffer
	Requested int
}

// capture copies the region around pos with context proportional to the
// requested read (five times its length, clamped to maxSnapshot total).
// Returns nil when diagnostics are disabled.
func capture(buf []byte, pos, requested int) *Diagnostic {
	if !diagnostics.Load() {
		return nil
	}

	context := requested * 5
	if context < 16 {
		context = 16
	}

	left := pos - context
	if left < 0 {
		left = 0
	}
	right := pos + requested + context
	if right > len(buf) {
		right = len(buf)
	}
	if right-left > maxSnapshot {
		right = left + maxSnapshot
	}

	data := make([]byte, right-left)
	copy(data, buf[left:right])

	return &Diagnostic{
		Data:      data,
		Start:     left,
		Pos:       pos,
		Requested: requested,
	}
}

// Dump renders the snapshot as a hex dump with a header locating the
// failure within the original buffer.
func (d *Diagnostic) Dump() string {
	return fmt.Sprintf("buffer[%d:%d], failed read of %d at offset %d:\n%s",
		d.Start, d.Start+len(d.Data), d.Requested, d.Pos, hex.Dump(d.Data))
}
