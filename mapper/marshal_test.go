package mapper

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sqlstream/mssql/protocol"
)

// TestMarshalNullVariants verifies the null case of every wire kind maps
// to the null value.
func TestMarshalNullVariants(t *testing.T) {
	kinds := []protocol.CellKind{
		protocol.KindBinary,
		protocol.KindBit,
		protocol.KindString,
		protocol.KindTinyInt,
		protocol.KindSmallInt,
		protocol.KindInt,
		protocol.KindBigInt,
		protocol.KindReal,
		protocol.KindFloat,
		protocol.KindDate,
		protocol.KindTime,
		protocol.KindDateTime,
		protocol.KindDateTime2,
		protocol.KindDateTimeOffset,
		protocol.KindSmallDateTime,
		protocol.KindGUID,
		protocol.KindNumeric,
		protocol.KindXML,
	}

	for _, kind := range kinds {
		v, err := MarshalCell(protocol.NullCell(kind))
		if err != nil {
			t.Errorf("null %s: unexpected error %v", kind, err)
			continue
		}
		if !v.IsNull() {
			t.Errorf("null %s: got %s, want null", kind, v.Kind())
		}
	}
}

func TestMarshalBinary(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	v, err := MarshalCell(protocol.BinaryCell(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindBinary {
		t.Fatalf("got kind %s, want binary", v.Kind())
	}
	if !bytes.Equal(v.AsBinary(), payload) {
		t.Fatalf("got % x, want % x", v.AsBinary(), payload)
	}
}

// TestMarshalIntegerWidening verifies every integer width lands in the
// widest integer type.
func TestMarshalIntegerWidening(t *testing.T) {
	tests := []struct {
		name string
		cell protocol.Cell
		want int64
	}{
		{"tinyint", protocol.TinyIntCell(255), 255},
		{"smallint", protocol.SmallIntCell(-32768), -32768},
		{"int", protocol.IntCell(-2147483648), -2147483648},
		{"bigint", protocol.BigIntCell(math.MaxInt64), math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := MarshalCell(tt.cell)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Kind() != KindInt {
				t.Fatalf("got kind %s, want int", v.Kind())
			}
			if v.AsInt() != tt.want {
				t.Fatalf("got %d, want %d", v.AsInt(), tt.want)
			}
		})
	}
}

func TestMarshalFloatWidening(t *testing.T) {
	v, err := MarshalCell(protocol.RealCell(1.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindFloat || v.AsFloat() != 1.5 {
		t.Fatalf("got %s %v, want float 1.5", v.Kind(), v.AsFloat())
	}

	v, err = MarshalCell(protocol.FloatCell(math.Pi))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.AsFloat() != math.Pi {
		t.Fatalf("got %v, want %v", v.AsFloat(), math.Pi)
	}
}

// TestMarshalTimeOfDay verifies the duration decoding rule
// increments * 10^(9-scale): 5,000,000 microseconds-scale increments is
// exactly 5,000,000,000ns.
func TestMarshalTimeOfDay(t *testing.T) {
	v, err := MarshalCell(protocol.TimeCell(protocol.Time{Increments: 5000000, Scale: 6}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindDuration {
		t.Fatalf("got kind %s, want duration", v.Kind())
	}
	if got := v.AsDuration(); got != 5000000000*time.Nanosecond {
		t.Fatalf("got %d ns, want 5000000000 ns", got.Nanoseconds())
	}
}

func TestMarshalTimeScales(t *testing.T) {
	tests := []struct {
		name string
		time protocol.Time
		want time.Duration
	}{
		{"seconds scale", protocol.Time{Increments: 61, Scale: 0}, 61 * time.Second},
		{"centiseconds", protocol.Time{Increments: 150, Scale: 2}, 1500 * time.Millisecond},
		{"tenth microseconds", protocol.Time{Increments: 10000000, Scale: 7}, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := MarshalCell(protocol.TimeCell(tt.time))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.AsDuration() != tt.want {
				t.Fatalf("got %v, want %v", v.AsDuration(), tt.want)
			}
		})
	}
}

func TestMarshalTimeOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		time protocol.Time
	}{
		{"full day at scale 0", protocol.Time{Increments: 86400, Scale: 0}},
		{"full day at scale 7", protocol.Time{Increments: 864000000000, Scale: 7}},
		// Large enough that naive nanosecond expansion wraps uint64.
		{"wrapping increment count", protocol.Time{Increments: 4611686018427387904, Scale: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCell(protocol.TimeCell(tt.time))
			var convErr *ConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("got %v, want ConversionError", err)
			}
		})
	}
}

// daysSinceYearOne converts a midnight UTC date to the wire day count.
// 0001-01-01 is 719,162 days before the Unix epoch.
func daysSinceYearOne(t time.Time) uint32 {
	return uint32(719162 + t.Unix()/86400)
}

func TestMarshalDate(t *testing.T) {
	base := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	days := daysSinceYearOne(base)

	v, err := MarshalCell(protocol.DateCell(protocol.Date{Days: days}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindInstant {
		t.Fatalf("got kind %s, want instant", v.Kind())
	}
	if !v.AsInstant().Equal(base) {
		t.Fatalf("got %v, want %v", v.AsInstant(), base)
	}
	if _, offset := v.AsInstant().Zone(); offset != 0 {
		t.Fatalf("got zone offset %d, want 0", offset)
	}
}

// TestMarshalDateOutOfRange verifies that an undecodable date is a
// marshalling error, not a null.
func TestMarshalDateOutOfRange(t *testing.T) {
	_, err := MarshalCell(protocol.DateCell(protocol.Date{Days: protocol.MaxDateDays + 1}))
	var convErr *ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("got %v, want ConversionError", err)
	}
	if convErr.Kind != protocol.KindDate {
		t.Fatalf("got kind %s, want date", convErr.Kind)
	}
}

func TestMarshalDateTime(t *testing.T) {
	// 1900-01-02 00:00:01 = 1 day, 300 fragments.
	v, err := MarshalCell(protocol.DateTimeCell(protocol.DateTime{Days: 1, Fragments: 300}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(1900, time.January, 2, 0, 0, 1, 0, time.UTC)
	if !v.AsInstant().Equal(want) {
		t.Fatalf("got %v, want %v", v.AsInstant(), want)
	}
}

func TestMarshalSmallDateTime(t *testing.T) {
	v, err := MarshalCell(protocol.SmallDateTimeCell(protocol.SmallDateTime{Days: 2, Minutes: 90}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(1900, time.January, 3, 1, 30, 0, 0, time.UTC)
	if !v.AsInstant().Equal(want) {
		t.Fatalf("got %v, want %v", v.AsInstant(), want)
	}
}

func TestMarshalDateTime2(t *testing.T) {
	base := time.Date(2001, time.September, 9, 0, 0, 0, 0, time.UTC)
	days := daysSinceYearOne(base)

	cell := protocol.DateTime2Cell(protocol.DateTime2{
		Date: protocol.Date{Days: days},
		Time: protocol.Time{Increments: 1463, Scale: 3}, // 1.463s
	})
	v, err := MarshalCell(cell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := base.Add(1463 * time.Millisecond)
	if !v.AsInstant().Equal(want) {
		t.Fatalf("got %v, want %v", v.AsInstant(), want)
	}
}

// TestMarshalDateTimeOffset verifies the stored client offset is dropped
// and the instant is reinterpreted at a zero offset.
func TestMarshalDateTimeOffset(t *testing.T) {
	base := time.Date(2020, time.June, 1, 12, 0, 0, 0, time.UTC)
	days := daysSinceYearOne(time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC))

	cell := protocol.DateTimeOffsetCell(protocol.DateTimeOffset{
		DateTime2: protocol.DateTime2{
			Date: protocol.Date{Days: days},
			Time: protocol.Time{Increments: 12 * 3600, Scale: 0},
		},
		OffsetMinutes: 330,
	})
	v, err := MarshalCell(cell)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.AsInstant().Equal(base) {
		t.Fatalf("got %v, want %v", v.AsInstant(), base)
	}
	if _, offset := v.AsInstant().Zone(); offset != 0 {
		t.Fatalf("got zone offset %d, want 0", offset)
	}
}

func TestMarshalGUID(t *testing.T) {
	id := uuid.MustParse("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	v, err := MarshalCell(protocol.GUIDCell(id))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != KindString || v.AsString() != id.String() {
		t.Fatalf("got %s %q, want string %q", v.Kind(), v.AsString(), id.String())
	}
}

func TestMarshalNumeric(t *testing.T) {
	tests := []struct {
		name string
		num  protocol.Numeric
		want float64
	}{
		{"integral", protocol.Numeric{Words: [4]uint32{42}}, 42},
		{"scaled", protocol.Numeric{Scale: 2, Words: [4]uint32{314159}}, 3141.59},
		{"negative", protocol.Numeric{Negative: true, Scale: 1, Words: [4]uint32{25}}, -2.5},
		{"high word", protocol.Numeric{Words: [4]uint32{0, 1}}, 4294967296},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := MarshalCell(protocol.NumericCell(tt.num))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(v.AsFloat()-tt.want) > 1e-9 {
				t.Fatalf("got %v, want %v", v.AsFloat(), tt.want)
			}
		})
	}
}

func TestMarshalStringKinds(t *testing.T) {
	v, err := MarshalCell(protocol.StringCell("hello"))
	if err != nil || v.AsString() != "hello" {
		t.Fatalf("string cell: got %q err %v", v.AsString(), err)
	}

	v, err = MarshalCell(protocol.XMLCell("<a/>"))
	if err != nil || v.AsString() != "<a/>" {
		t.Fatalf("xml cell: got %q err %v", v.AsString(), err)
	}

	v, err = MarshalCell(protocol.BitCell(true))
	if err != nil || !v.AsBool() {
		t.Fatalf("bit cell: got %v err %v", v.AsBool(), err)
	}
}
