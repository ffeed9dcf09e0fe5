// Package mapper converts wire column cells into generic values.
package mapper

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBinary
	KindInstant
	KindDuration
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindInstant:
		return "instant"
	case KindDuration:
		return "duration"
	default:
		return "unknown"
	}
}

// Value is a closed sum over the generic value kinds a cell can map to.
// Values are immutable after construction.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	raw  []byte
	t    time.Time
	d    time.Duration
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int returns an integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float returns a floating-point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String returns a string value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Binary returns a binary blob value. The slice is not copied.
func Binary(v []byte) Value { return Value{kind: KindBinary, raw: v} }

// Instant returns an absolute point-in-time value.
func Instant(v time.Time) Value { return Value{kind: KindInstant, t: v} }

// Duration returns a clock-time-of-day duration value.
func Duration(v time.Duration) Value { return Value{kind: KindDuration, d: v} }

// Kind returns the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload. Valid only for KindBool.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the integer payload. Valid only for KindInt.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the floating-point payload. Valid only for KindFloat.
func (v Value) AsFloat() float64 { return v.f }

// AsString returns the string payload. Valid only for KindString.
func (v Value) AsString() string { return v.s }

// AsBinary returns the blob payload. Valid only for KindBinary.
func (v Value) AsBinary() []byte { return v.raw }

// AsInstant returns the point-in-time payload. Valid only for KindInstant.
func (v Value) AsInstant() time.Time { return v.t }

// AsDuration returns the duration payload. Valid only for KindDuration.
func (v Value) AsDuration() time.Duration { return v.d }

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindBinary:
		return bytes.Equal(v.raw, o.raw)
	case KindInstant:
		return v.t.Equal(o.t)
	case KindDuration:
		return v.d == o.d
	}
	return false
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindBinary:
		return fmt.Sprintf("0x%x", v.raw)
	case KindInstant:
		return v.t.Format(time.RFC3339Nano)
	case KindDuration:
		return v.d.String()
	default:
		return "unknown"
	}
}
