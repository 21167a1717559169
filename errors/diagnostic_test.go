package errors

import (
	"strings"
	"testing"
)

func TestDiagnostics_OffByDefault(t *testing.T) {
	err := EOF([]byte{1, 2, 3}, 3, 2, "u16")
	if err.Diag != nil {
		t.Fatal("diagnostic attached while disabled")
	}
}

func TestDiagnostics_AdditiveOnly(t *testing.T) {
	buf := []byte{0x2C, 0x01, 0x05, 0x02}

	off := EOF(buf, 4, 2, "string payload")

	SetDiagnostics(true)
	defer SetDiagnostics(false)
	on := EOF(buf, 4, 2, "string payload")

	// Same failure payload either way; only the snapshot differs.
	if off.Kind != on.Kind || off.Offset != on.Offset || off.Requested != on.Requested || off.Remaining != on.Remaining {
		t.Error("diagnostic mode changed the error payload")
	}
	if on.Diag == nil {
		t.Fatal("diagnostic missing while enabled")
	}
	if off.Diag != nil {
		t.Fatal("diagnostic attached while disabled")
	}
}

func TestDiagnostic_Window(t *testing.T) {
	SetDiagnostics(true)
	defer SetDiagnostics(false)

	buf := make([]byte, 1000)
	for i := range buf {
		buf[i] = byte(i)
	}

	d := EOF(buf, 500, 4, "").Diag
	if d == nil {
		t.Fatal("no diagnostic")
	}

	// Context is 5x the requested read, 16 minimum.
	if d.Start != 500-20 {
		t.Errorf("Start = %d, want %d", d.Start, 480)
	}
	if len(d.Data) != 44 { // 20 + 4 + 20
		t.Errorf("len(Data) = %d, want 44", len(d.Data))
	}
	if d.Data[0] != buf[d.Start] {
		t.Error("snapshot does not align with buffer")
	}
}

func TestDiagnostic_Bounded(t *testing.T) {
	SetDiagnostics(true)
	defer SetDiagnostics(false)

	buf := make([]byte, 100_000)
	d := EOF(buf, 50_000, 10_000, "").Diag
	if d == nil {
		t.Fatal("no diagnostic")
	}
	if len(d.Data) > maxSnapshot {
		t.Errorf("snapshot of %d bytes exceeds bound %d", len(d.Data), maxSnapshot)
	}
}

func TestDiagnostic_ClampsToBuffer(t *testing.T) {
	SetDiagnostics(true)
	defer SetDiagnostics(false)

	buf := []byte{1, 2, 3}
	d := EOF(buf, 2, 8, "").Diag
	if d == nil {
		t.Fatal("no diagnostic")
	}
	if d.Start != 0 || len(d.Data) != 3 {
		t.Errorf("window [%d, %d) not clamped to 3-byte buffer", d.Start, d.Start+len(d.Data))
	}
}

func TestDiagnostic_Dump(t *testing.T) {
	SetDiagnostics(true)
	defer SetDiagnostics(false)

	err := EOF([]byte{0xDE, 0xAD, 0xBE, 0xEF}, 4, 2, "u16")
	msg := err.Error()
	if !strings.Contains(msg, "de ad be ef") {
		t.Errorf("dump missing hex bytes:\n%s", msg)
	}
	if !strings.Contains(msg, "failed read of 2 at offset 4") {
		t.Errorf("dump missing header:\n%s", msg)
	}
}
