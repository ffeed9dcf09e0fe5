package mapper

import (
	"fmt"
	"math"
	"time"

	"github.com/sqlstream/mssql/protocol"
)

// ConversionError reports a cell whose wire representation could not be
// converted to a generic value.
type ConversionError struct {
	Kind   protocol.CellKind
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot convert %s cell: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	return fmt.Sprintf("cannot convert %s cell: %s", e.Kind, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ConversionError) Unwrap() error { return e.Cause }

// dateEpoch is day zero of the date encoding, 0001-01-01 at a fixed zero
// UTC offset. All decoded instants carry this zone.
var dateEpoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// dateTimeEpoch is day zero of the legacy datetime and smalldatetime
// encodings, 1900-01-01.
var dateTimeEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	dateTimeFragsPerDay  = 300 * 24 * 60 * 60
	smallDateTimeMinutes = 24 * 60
)

// MarshalCell converts one wire cell to its generic value. The mapping is
// total over the cell kinds: every kind maps to exactly one value kind and
// the null variant of every kind maps to the null value. Out-of-range
// temporal payloads are conversion errors, not nulls.
func MarshalCell(c protocol.Cell) (Value, error) {
	if c.Null {
		return Null(), nil
	}

	switch c.Kind {
	case protocol.KindBinary:
		return Binary(c.Bytes), nil
	case protocol.KindBit:
		return Bool(c.Bool), nil
	case protocol.KindString:
		return String(c.Str), nil
	case protocol.KindXML:
		return String(c.Str), nil
	case protocol.KindTinyInt:
		return Int(int64(c.U8)), nil
	case protocol.KindSmallInt:
		return Int(int64(c.I16)), nil
	case protocol.KindInt:
		return Int(int64(c.I32)), nil
	case protocol.KindBigInt:
		return Int(c.I64), nil
	case protocol.KindReal:
		return Float(float64(c.F32)), nil
	case protocol.KindFloat:
		return Float(c.F64), nil
	case protocol.KindDate:
		t, err := decodeDate(c.Date)
		if err != nil {
			return Value{}, err
		}
		return Instant(t), nil
	case protocol.KindTime:
		d, err := decodeTime(c.Time)
		if err != nil {
			return Value{}, err
		}
		return Duration(d), nil
	case protocol.KindDateTime:
		t, err := decodeDateTime(c.DateTime)
		if err != nil {
			return Value{}, err
		}
		return Instant(t), nil
	case protocol.KindDateTime2:
		t, err := decodeDateTime2(c.DateTime2)
		if err != nil {
			return Value{}, err
		}
		return Instant(t), nil
	case protocol.KindDateTimeOffset:
		// The wire payload is already normalized to UTC; the stored
		// client offset is dropped and the instant is reinterpreted at
		// a zero offset.
		t, err := decodeDateTime2(c.DateTimeOffset.DateTime2)
		if err != nil {
			return Value{}, err
		}
		return Instant(t), nil
	case protocol.KindSmallDateTime:
		t, err := decodeSmallDateTime(c.SmallDateTime)
		if err != nil {
			return Value{}, err
		}
		return Instant(t), nil
	case protocol.KindGUID:
		return String(c.GUID.String()), nil
	case protocol.KindNumeric:
		return Float(decodeNumeric(c.Numeric)), nil
	default:
		return Value{}, &ConversionError{Kind: c.Kind, Reason: "unsupported wire kind"}
	}
}

// decodeDate converts days-since-0001-01-01 to an instant at midnight.
func decodeDate(d protocol.Date) (time.Time, error) {
	if d.Days > protocol.MaxDateDays {
		return time.Time{}, &ConversionError{
			Kind:   protocol.KindDate,
			Reason: fmt.Sprintf("day count %d is past 9999-12-31", d.Days),
		}
	}
	return dateEpoch.AddDate(0, 0, int(d.Days)), nil
}

// decodeTime converts sub-second increments since midnight to a duration
// of nanoseconds: increments * 10^(9-scale).
func decodeTime(t protocol.Time) (time.Duration, error) {
	if t.Scale > 7 {
		return 0, &ConversionError{
			Kind:   protocol.KindTime,
			Reason: fmt.Sprintf("scale %d exceeds maximum precision 7", t.Scale),
		}
	}
	// Bound the raw count before expanding so a garbage value cannot
	// wrap uint64 and slip past the range check.
	maxIncrements := uint64(24 * 60 * 60)
	for i := uint8(0); i < t.Scale; i++ {
		maxIncrements *= 10
	}
	if t.Increments >= maxIncrements {
		return 0, &ConversionError{
			Kind:   protocol.KindTime,
			Reason: fmt.Sprintf("increment count %d at scale %d is a full day or more", t.Increments, t.Scale),
		}
	}

	ns := t.Increments
	for i := uint8(0); i < 9-t.Scale; i++ {
		ns *= 10
	}
	return time.Duration(ns), nil
}

func decodeDateTime(dt protocol.DateTime) (time.Time, error) {
	if dt.Fragments >= dateTimeFragsPerDay {
		return time.Time{}, &ConversionError{
			Kind:   protocol.KindDateTime,
			Reason: fmt.Sprintf("second fragments %d exceed one day", dt.Fragments),
		}
	}
	// Fragments are 1/300 second ticks since midnight.
	ns := int64(dt.Fragments) * (1e9 / 100) / 3
	day := dateTimeEpoch.AddDate(0, 0, int(dt.Days))
	return day.Add(time.Duration(ns)), nil
}

func decodeDateTime2(dt protocol.DateTime2) (time.Time, error) {
	day, err := decodeDate(dt.Date)
	if err != nil {
		return time.Time{}, err
	}
	tod, err := decodeTime(dt.Time)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(tod), nil
}

func decodeSmallDateTime(dt protocol.SmallDateTime) (time.Time, error) {
	if dt.Minutes >= smallDateTimeMinutes {
		return time.Time{}, &ConversionError{
			Kind:   protocol.KindSmallDateTime,
			Reason: fmt.Sprintf("minute count %d exceeds one day", dt.Minutes),
		}
	}
	day := dateTimeEpoch.AddDate(0, 0, int(dt.Days))
	return day.Add(time.Duration(dt.Minutes) * time.Minute), nil
}

// decodeNumeric approximates the 128-bit scaled decimal as a float64.
// Precision beyond 53 bits of mantissa is lost.
func decodeNumeric(n protocol.Numeric) float64 {
	f := 0.0
	for i := 3; i >= 0; i-- {
		f = f*4294967296.0 + float64(n.Words[i])
	}
	f /= math.Pow10(int(n.Scale))
	if n.Negative {
		f = -f
	}
	return f
}
