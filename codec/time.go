package codec

import (
	"time"

	"github.com/nervedata/packetcodec/errors"
	"github.com/nervedata/packetcodec/packet"
)

// Timestamps ride the wire as a u64 count of 100-nanosecond ticks since
// 1601-01-01 UTC (the Windows FILETIME epoch the protocol inherited).
const (
	// unixEpochTicks is 1970-01-01 expressed in ticks.
	unixEpochTicks = 116444736000000000

	// timeMinTicks and timeMaxTicks bound the representable range to
	// 1900-01-01 .. 2079-01-01. Anything outside is a corrupt or
	// nonsensical timestamp, not a value to pass along.
	timeMinTicks = 94354848000000000
	timeMaxTicks = 150842304000000000
)

// The tick bounds as instants. Range checks compare these directly so a
// time outside UnixNano's representable span (before 1678 or after 2262)
// is caught before the conversion overflows.
var (
	timeMin = timeFromTicks(timeMinTicks)
	timeMax = timeFromTicks(timeMaxTicks)
)

// Time is a wire timestamp.
type Time struct {
	time.Time
}

// NewTime wraps a time.Time for the wire.
func NewTime(t time.Time) Time {
	return Time{Time: t.UTC()}
}

// Ticks returns the wire representation.
func (t Time) Ticks() uint64 {
	return uint64(t.UnixNano()/100 + unixEpochTicks)
}

// EncodePacket implements packet.Encoder.
func (t Time) EncodePacket(w *packet.Writer) error {
	if t.Before(timeMin) || t.After(timeMax) {
		return errors.Validation(errors.PhaseEncode, "codec.Time",
			"%s is outside the representable range", t.Time)
	}
	w.WriteU64(t.Ticks())
	return nil
}

// DecodePacket implements packet.Decoder.
func (t *Time) DecodePacket(r *packet.Reader) error {
	ticks, err := r.ReadU64()
	if err != nil {
		return err
	}
	if ticks < timeMinTicks || ticks > timeMaxTicks {
		return errors.Validation(errors.PhaseDecode, "codec.Time",
			"tick count %d is outside the representable range", ticks)
	}
	t.Time = timeFromTicks(ticks)
	return nil
}

func timeFromTicks(ticks uint64) time.Time {
	return time.Unix(0, (int64(ticks)-unixEpochTicks)*100).UTC()
}

// Expiration is a timestamp whose top-of-range value means "never". The
// zero Expiration is never.
type Expiration struct {
	time.Time
}

// ExpireAt wraps a concrete deadline.
func ExpireAt(t time.Time) Expiration {
	return Expiration{Time: t.UTC()}
}

// Never returns the no-deadline sentinel.
func Never() Expiration {
	return Expiration{}
}

// IsNever reports whether no deadline is set.
func (e Expiration) IsNever() bool {
	return e.Time.IsZero()
}

// EncodePacket implements packet.Encoder.
func (e Expiration) EncodePacket(w *packet.Writer) error {
	if e.IsNever() {
		w.WriteU64(timeMaxTicks)
		return nil
	}
	return Time{Time: e.Time}.EncodePacket(w)
}

// DecodePacket implements packet.Decoder.
func (e *Expiration) DecodePacket(r *packet.Reader) error {
	ticks, err := r.ReadU64()
	if err != nil {
		return err
	}
	if ticks == timeMaxTicks {
		*e = Never()
		return nil
	}
	if ticks < timeMinTicks || ticks > timeMaxTicks {
		return errors.Validation(errors.PhaseDecode, "codec.Expiration",
			"tick count %d is outside the representable range", ticks)
	}
	e.Time = timeFromTicks(ticks)
	return nil
}

// DurationMs16 is a duration carried as a u16 millisecond count.
type DurationMs16 time.Duration

// Duration returns the value as a time.Duration.
func (d DurationMs16) Duration() time.Duration {
	return time.Duration(d)
}

// EncodePacket implements packet.Encoder.
func (d DurationMs16) EncodePacket(w *packet.Writer) error {
	ms := time.Duration(d).Milliseconds()
	if ms < 0 {
		return errors.Validation(errors.PhaseEncode, "codec.DurationMs16",
			"negative duration %s", time.Duration(d))
	}
	if ms > 0xFFFF {
		return errors.Overflow("u16 millisecond duration", 0xFFFF, uint64(ms))
	}
	w.WriteU16(uint16(ms))
	return nil
}

// DecodePacket implements packet.Decoder.
func (d *DurationMs16) DecodePacket(r *packet.Reader) error {
	ms, err := r.ReadU16()
	if err != nil {
		return err
	}
	*d = DurationMs16(time.Duration(ms) * time.Millisecond)
	return nil
}

// DurationMs32 is a duration carried as a u32 millisecond count.
type DurationMs32 time.Duration

// Duration returns the value as a time.Duration.
func (d DurationMs32) Duration() time.Duration {
	return time.Duration(d)
}

// EncodePacket implements packet.Encoder.
func (d DurationMs32) EncodePacket(w *packet.Writer) error {
	ms := time.Duration(d).Milliseconds()
	if ms < 0 {
		return errors.Validation(errors.PhaseEncode, "codec.DurationMs32",
			"negative duration %s", time.Duration(d))
	}
	if ms > 0xFFFFFFFF {
		return errors.Overflow("u32 millisecond duration", 0xFFFFFFFF, uint64(ms))
	}
	w.WriteU32(uint32(ms))
	return nil
}

// DecodePacket implements packet.Decoder.
func (d *DurationMs32) DecodePacket(r *packet.Reader) error {
	ms, err := r.ReadU32()
	if err != nil {
		return err
	}
	*d = DurationMs32(time.Duration(ms) * time.Millisecond)
	return nil
}
