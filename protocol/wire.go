// Package protocol defines the boundary to the TDS wire protocol
// implementation: the column cell union produced by the row stream, the
// session interfaces, and server error numbers. The protocol codec itself
// lives behind the Connector interface and is provided by the host.
package protocol

import (
	"context"

	"github.com/google/uuid"
)

// CellKind identifies the wire representation of a column cell.
type CellKind int

const (
	KindBinary CellKind = iota
	KindBit
	KindString
	KindTinyInt
	KindSmallInt
	KindInt
	KindBigInt
	KindReal
	KindFloat
	KindDate
	KindTime
	KindDateTime
	KindDateTime2
	KindDateTimeOffset
	KindSmallDateTime
	KindGUID
	KindNumeric
	KindXML
)

// String returns the SQL Server type name for the cell kind.
func (k CellKind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindBit:
		return "bit"
	case KindString:
		return "string"
	case KindTinyInt:
		return "tinyint"
	case KindSmallInt:
		return "smallint"
	case KindInt:
		return "int"
	case KindBigInt:
		return "bigint"
	case KindReal:
		return "real"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	case KindDateTime2:
		return "datetime2"
	case KindDateTimeOffset:
		return "datetimeoffset"
	case KindSmallDateTime:
		return "smalldatetime"
	case KindGUID:
		return "uniqueidentifier"
	case KindNumeric:
		return "numeric"
	case KindXML:
		return "xml"
	default:
		return "unknown"
	}
}

// Date is a calendar date stored as days since 0001-01-01.
type Date struct {
	Days uint32
}

// MaxDateDays is the day count for 9999-12-31, the last representable date.
const MaxDateDays = 3652058

// Time is a time of day stored as a count of 10^-Scale second increments
// since midnight. Scale is the number of fractional second digits (0..7).
type Time struct {
	Increments uint64
	Scale      uint8
}

// DateTime is the legacy datetime encoding: days since 1900-01-01 and
// 1/300 second fragments since midnight.
type DateTime struct {
	Days      int32
	Fragments uint32
}

// SmallDateTime is days since 1900-01-01 and whole minutes since midnight.
type SmallDateTime struct {
	Days    uint16
	Minutes uint16
}

// DateTime2 combines a Date with a sub-second Time.
type DateTime2 struct {
	Date Date
	Time Time
}

// DateTimeOffset is a DateTime2 in UTC plus the client's offset in minutes.
type DateTimeOffset struct {
	DateTime2     DateTime2
	OffsetMinutes int16
}

// Numeric is an arbitrary-precision decimal: a 128-bit little-endian
// magnitude scaled by 10^-Scale, negated when Negative is set.
type Numeric struct {
	Negative bool
	Scale    uint8
	Words    [4]uint32
}

// Cell is one column value as it appears on the wire. Kind selects the
// active payload field; Null indicates the null variant of that kind.
type Cell struct {
	Kind CellKind
	Null bool

	Bytes          []byte
	Str            string
	Bool           bool
	U8             uint8
	I16            int16
	I32            int32
	I64            int64
	F32            float32
	F64            float64
	Date           Date
	Time           Time
	DateTime       DateTime
	DateTime2      DateTime2
	DateTimeOffset DateTimeOffset
	SmallDateTime  SmallDateTime
	GUID           uuid.UUID
	Numeric        Numeric
}

// NullCell returns the null variant of the given kind.
func NullCell(kind CellKind) Cell {
	return Cell{Kind: kind, Null: true}
}

// BinaryCell returns a non-null binary cell.
func BinaryCell(b []byte) Cell { return Cell{Kind: KindBinary, Bytes: b} }

// BitCell returns a non-null bit cell.
func BitCell(v bool) Cell { return Cell{Kind: KindBit, Bool: v} }

// StringCell returns a non-null character data cell.
func StringCell(s string) Cell { return Cell{Kind: KindString, Str: s} }

// XMLCell returns a non-null xml cell.
func XMLCell(s string) Cell { return Cell{Kind: KindXML, Str: s} }

// TinyIntCell returns a non-null tinyint cell.
func TinyIntCell(v uint8) Cell { return Cell{Kind: KindTinyInt, U8: v} }

// SmallIntCell returns a non-null smallint cell.
func SmallIntCell(v int16) Cell { return Cell{Kind: KindSmallInt, I16: v} }

// IntCell returns a non-null int cell.
func IntCell(v int32) Cell { return Cell{Kind: KindInt, I32: v} }

// BigIntCell returns a non-null bigint cell.
func BigIntCell(v int64) Cell { return Cell{Kind: KindBigInt, I64: v} }

// RealCell returns a non-null 32-bit float cell.
func RealCell(v float32) Cell { return Cell{Kind: KindReal, F32: v} }

// FloatCell returns a non-null 64-bit float cell.
func FloatCell(v float64) Cell { return Cell{Kind: KindFloat, F64: v} }

// DateCell returns a non-null date cell.
func DateCell(d Date) Cell { return Cell{Kind: KindDate, Date: d} }

// TimeCell returns a non-null time cell.
func TimeCell(t Time) Cell { return Cell{Kind: KindTime, Time: t} }

// DateTimeCell returns a non-null legacy datetime cell.
func DateTimeCell(dt DateTime) Cell { return Cell{Kind: KindDateTime, DateTime: dt} }

// DateTime2Cell returns a non-null datetime2 cell.
func DateTime2Cell(dt DateTime2) Cell { return Cell{Kind: KindDateTime2, DateTime2: dt} }

// DateTimeOffsetCell returns a non-null datetimeoffset cell.
func DateTimeOffsetCell(dt DateTimeOffset) Cell {
	return Cell{Kind: KindDateTimeOffset, DateTimeOffset: dt}
}

// SmallDateTimeCell returns a non-null smalldatetime cell.
func SmallDateTimeCell(dt SmallDateTime) Cell {
	return Cell{Kind: KindSmallDateTime, SmallDateTime: dt}
}

// GUIDCell returns a non-null uniqueidentifier cell.
func GUIDCell(id uuid.UUID) Cell { return Cell{Kind: KindGUID, GUID: id} }

// NumericCell returns a non-null numeric cell.
func NumericCell(n Numeric) Cell { return Cell{Kind: KindNumeric, Numeric: n} }

// Column describes one column of a result set.
type Column struct {
	Name string
	Kind CellKind
}

// Row is one wire-level result row. Cells is aligned with Columns.
type Row struct {
	Columns []Column
	Cells   []Cell
}

// RowStream yields the rows of a single query result in server order.
// Next returns io.EOF after the final row.
type RowStream interface {
	Next(ctx context.Context) (*Row, error)
}

// Session is one live, authenticated connection to the server. A Session
// supports at most one in-flight query; callers serialize access.
type Session interface {
	// Query issues a simple (non-parameterized) query and returns the
	// row stream of its result set.
	Query(ctx context.Context, sql string) (RowStream, error)

	// Close terminates the session gracefully.
	Close(ctx context.Context) error
}

// Connector establishes sessions: it owns stream setup, the protocol
// handshake, and authentication for the given configuration.
type Connector interface {
	Connect(ctx context.Context, cfg Config) (Session, error)
}
