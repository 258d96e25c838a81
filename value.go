// Copyright (c) 2024 influxdb-stream contributors.
//
// Package influxstream is a streaming client for the time-series database's
// annotated-CSV query API. Results are consumed as a lazy sequence of Records
// so that callers processing multi-million-row ranges never pay for the full
// response to sit in memory at once.
package influxstream

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DataType identifies which Value variant a Column carries.
type DataType int

// The declared datatypes recognized in the annotated-CSV dialect.
const (
	TypeString DataType = iota
	TypeDouble
	TypeBool
	TypeLong
	TypeUnsignedLong
	TypeDuration
	TypeBase64Binary
	TypeTimeRFC
)

func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "string"
	case TypeDouble:
		return "double"
	case TypeBool:
		return "boolean"
	case TypeLong:
		return "long"
	case TypeUnsignedLong:
		return "unsignedLong"
	case TypeDuration:
		return "duration"
	case TypeBase64Binary:
		return "base64Binary"
	case TypeTimeRFC:
		return "dateTime:RFC3339"
	default:
		return "unknown"
	}
}

// parseDataType maps a wire annotation token to a DataType. dateTime:RFC3339Nano
// is accepted as a synonym for dateTime:RFC3339 since both decode through the
// same nanosecond-precision RFC3339 parser.
func parseDataType(text string) (DataType, error) {
	switch text {
	case "string":
		return TypeString, nil
	case "double":
		return TypeDouble, nil
	case "boolean":
		return TypeBool, nil
	case "long":
		return TypeLong, nil
	case "unsignedLong":
		return TypeUnsignedLong, nil
	case "duration":
		return TypeDuration, nil
	case "base64Binary":
		return TypeBase64Binary, nil
	case "dateTime:RFC3339", "dateTime:RFC3339Nano":
		return TypeTimeRFC, nil
	default:
		return 0, &StreamError{
			Kind:    ErrUnsupportedType,
			Message: fmt.Sprintf("unsupported datatype annotation %q", text),
		}
	}
}

// Value is a tagged union over the database's scalar wire types. Exactly one
// of the accessor methods below reports ok==true for any given Value.
type Value struct {
	typ    DataType
	str    string
	num    float64
	i64    int64
	u64    uint64
	dur    time.Duration
	bin    []byte
	t      time.Time
	isBool bool
}

// NewString constructs a String value.
func NewString(s string) Value { return Value{typ: TypeString, str: s} }

// NewDouble constructs a Double value. NaN and +/-Inf are both accepted.
func NewDouble(f float64) Value { return Value{typ: TypeDouble, num: f} }

// NewBool constructs a Bool value.
func NewBool(b bool) Value { return Value{typ: TypeBool, isBool: b} }

// NewLong constructs a Long (signed 64-bit) value.
func NewLong(i int64) Value { return Value{typ: TypeLong, i64: i} }

// NewUnsignedLong constructs an UnsignedLong (unsigned 64-bit) value.
func NewUnsignedLong(u uint64) Value { return Value{typ: TypeUnsignedLong, u64: u} }

// NewDuration constructs a Duration value from a signed nanosecond count.
func NewDuration(d time.Duration) Value { return Value{typ: TypeDuration, dur: d} }

// NewBase64Binary constructs a Base64Binary value from a decoded byte slice.
func NewBase64Binary(b []byte) Value { return Value{typ: TypeBase64Binary, bin: b} }

// NewTimeRFC constructs a TimeRFC value.
func NewTimeRFC(t time.Time) Value { return Value{typ: TypeTimeRFC, t: t} }

// Type reports which variant this Value holds.
func (v Value) Type() DataType { return v.typ }

// AsString returns (s, true) if v is a String.
func (v Value) AsString() (string, bool) {
	if v.typ != TypeString {
		return "", false
	}
	return v.str, true
}

// AsDouble returns (f, true) if v is a Double.
func (v Value) AsDouble() (float64, bool) {
	if v.typ != TypeDouble {
		return 0, false
	}
	return v.num, true
}

// AsBool returns (b, true) if v is a Bool.
func (v Value) AsBool() (bool, bool) {
	if v.typ != TypeBool {
		return false, false
	}
	return v.isBool, true
}

// AsLong returns (i, true) if v is a Long.
func (v Value) AsLong() (int64, bool) {
	if v.typ != TypeLong {
		return 0, false
	}
	return v.i64, true
}

// AsUnsignedLong returns (u, true) if v is an UnsignedLong.
func (v Value) AsUnsignedLong() (uint64, bool) {
	if v.typ != TypeUnsignedLong {
		return 0, false
	}
	return v.u64, true
}

// AsDuration returns (d, true) if v is a Duration.
func (v Value) AsDuration() (time.Duration, bool) {
	if v.typ != TypeDuration {
		return 0, false
	}
	return v.dur, true
}

// AsBinary returns (b, true) if v is a Base64Binary.
func (v Value) AsBinary() ([]byte, bool) {
	if v.typ != TypeBase64Binary {
		return nil, false
	}
	return v.bin, true
}

// AsTime returns (t, true) if v is a TimeRFC.
func (v Value) AsTime() (time.Time, bool) {
	if v.typ != TypeTimeRFC {
		return time.Time{}, false
	}
	return v.t, true
}

// Equal implements the totality required of record equality: two Double
// values compare equal when both are NaN, matching the ordered-float
// treatment the original implementation borrowed from a third-party wrapper.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeString:
		return v.str == other.str
	case TypeDouble:
		if math.IsNaN(v.num) && math.IsNaN(other.num) {
			return true
		}
		return v.num == other.num
	case TypeBool:
		return v.isBool == other.isBool
	case TypeLong:
		return v.i64 == other.i64
	case TypeUnsignedLong:
		return v.u64 == other.u64
	case TypeDuration:
		return v.dur == other.dur
	case TypeBase64Binary:
		if len(v.bin) != len(other.bin) {
			return false
		}
		for i := range v.bin {
			if v.bin[i] != other.bin[i] {
				return false
			}
		}
		return true
	case TypeTimeRFC:
		return v.t.Equal(other.t)
	default:
		return false
	}
}

// String renders a human-readable form of the value, convenient for quick
// debugging without a type switch at the call site.
func (v Value) String() string {
	switch v.typ {
	case TypeString:
		return v.str
	case TypeDouble:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case TypeBool:
		return strconv.FormatBool(v.isBool)
	case TypeLong:
		return strconv.FormatInt(v.i64, 10)
	case TypeUnsignedLong:
		return strconv.FormatUint(v.u64, 10)
	case TypeDuration:
		return fmt.Sprintf("%dns", v.dur.Nanoseconds())
	case TypeBase64Binary:
		return fmt.Sprintf("<binary %d bytes>", len(v.bin))
	case TypeTimeRFC:
		return v.t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// decodeValue applies the default-substitution rule and then parses text into
// a Value of the declared type. column and table/record indices are carried
// only so a ValueDecode error can report where the failure occurred.
func decodeValue(text string, declared DataType, defaultValue string, column string, tableIndex, recordIndex int) (Value, error) {
	if text == "" {
		if defaultValue != "" {
			text = defaultValue
		} else if declared != TypeString {
			return Value{}, &StreamError{
				Kind:    ErrMissingValue,
				Column:  column,
				Message: fmt.Sprintf("missing value for column %q", column),
			}
		}
	}

	switch declared {
	case TypeString:
		return NewString(text), nil
	case TypeDouble:
		f, err := parseFlexibleFloat(text)
		if err != nil {
			return Value{}, valueDecodeError(tableIndex, recordIndex, column, err)
		}
		return NewDouble(f), nil
	case TypeBool:
		b, err := parseFluxBool(text)
		if err != nil {
			return Value{}, valueDecodeError(tableIndex, recordIndex, column, err)
		}
		return NewBool(b), nil
	case TypeLong:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, valueDecodeError(tableIndex, recordIndex, column, err)
		}
		return NewLong(i), nil
	case TypeUnsignedLong:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return Value{}, valueDecodeError(tableIndex, recordIndex, column, err)
		}
		return NewUnsignedLong(u), nil
	case TypeDuration:
		d, err := parseFluxDuration(text)
		if err != nil {
			return Value{}, valueDecodeError(tableIndex, recordIndex, column, err)
		}
		return NewDuration(d), nil
	case TypeBase64Binary:
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return Value{}, valueDecodeError(tableIndex, recordIndex, column, err)
		}
		return NewBase64Binary(b), nil
	case TypeTimeRFC:
		t, err := parseRFC3339Strict(text)
		if err != nil {
			return Value{}, valueDecodeError(tableIndex, recordIndex, column, err)
		}
		return NewTimeRFC(t), nil
	default:
		return Value{}, &StreamError{Kind: ErrUnsupportedType, Column: column, Message: fmt.Sprintf("unsupported datatype for column %q", column)}
	}
}

func valueDecodeError(tableIndex, recordIndex int, column string, cause error) error {
	return &StreamError{
		Kind:        ErrValueDecode,
		TableIndex:  tableIndex,
		RecordIndex: recordIndex,
		Column:      column,
		Message:     fmt.Sprintf("decoding column %q: %v", column, cause),
		cause:       cause,
	}
}

// parseFlexibleFloat accepts the standard decimal grammar plus the
// case-insensitive non-finite tokens the wire format allows.
func parseFlexibleFloat(text string) (float64, error) {
	switch strings.ToLower(text) {
	case "+inf", "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(text, 64)
}

// parseFluxBool accepts the small fixed set of boolean spellings the wire
// format uses; anything else is rejected rather than coerced.
func parseFluxBool(text string) (bool, error) {
	switch text {
	case "true", "True", "t", "1":
		return true, nil
	case "false", "False", "f", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", text)
	}
}

// parseFluxDuration sums a signed composition of "<number><unit>" segments
// into a nanosecond-resolution time.Duration, failing on overflow rather than
// wrapping silently.
func parseFluxDuration(text string) (time.Duration, error) {
	if text == "" {
		return 0, fmt.Errorf("empty duration")
	}

	negative := false
	rest := text
	if rest[0] == '+' || rest[0] == '-' {
		negative = rest[0] == '-'
		rest = rest[1:]
	}
	if rest == "" {
		return 0, fmt.Errorf("invalid duration %q", text)
	}

	var total int64
	for len(rest) > 0 {
		digitEnd := 0
		for digitEnd < len(rest) && (rest[digitEnd] >= '0' && rest[digitEnd] <= '9' || rest[digitEnd] == '.') {
			digitEnd++
		}
		if digitEnd == 0 {
			return 0, fmt.Errorf("invalid duration %q: expected a number", text)
		}
		numText := rest[:digitEnd]
		rest = rest[digitEnd:]

		unit, unitLen, err := matchDurationUnit(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", text, err)
		}
		rest = rest[unitLen:]

		amount, err := strconv.ParseFloat(numText, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", text, err)
		}

		segment := amount * float64(unit)
		if segment > math.MaxInt64 || segment < math.MinInt64 {
			return 0, fmt.Errorf("duration %q overflows a signed nanosecond count", text)
		}
		next := total + int64(segment)
		if (segment > 0 && next < total) || (segment < 0 && next > total) {
			return 0, fmt.Errorf("duration %q overflows a signed nanosecond count", text)
		}
		total = next
	}

	if negative {
		total = -total
	}
	return time.Duration(total), nil
}

func matchDurationUnit(rest string) (int64, int, error) {
	// Longer suffixes must be tried first so "ms" isn't consumed as "m" + "s".
	for _, u := range []struct {
		suffix string
		nanos  int64
	}{
		{"ms", 1000 * 1000},
		{"ns", 1},
		{"us", 1000},
		{"µs", 1000},
		{"s", 1000 * 1000 * 1000},
		{"m", 60 * 1000 * 1000 * 1000},
		{"h", 3600 * 1000 * 1000 * 1000},
		{"d", 24 * 3600 * 1000 * 1000 * 1000},
		{"w", 7 * 24 * 3600 * 1000 * 1000 * 1000},
	} {
		if strings.HasPrefix(rest, u.suffix) {
			return u.nanos, len(u.suffix), nil
		}
	}
	return 0, 0, fmt.Errorf("unrecognized duration unit in %q", rest)
}

// parseRFC3339Strict requires a mandatory offset (Z or +-HH:MM) and accepts
// up to nanosecond fractional-second precision.
func parseRFC3339Strict(text string) (time.Time, error) {
	if !strings.HasSuffix(text, "Z") && !hasNumericOffset(text) {
		return time.Time{}, fmt.Errorf("RFC3339 timestamp %q is missing a UTC offset", text)
	}
	return time.Parse(time.RFC3339Nano, text)
}

func hasNumericOffset(text string) bool {
	if len(text) < 6 {
		return false
	}
	tail := text[len(text)-6:]
	return (tail[0] == '+' || tail[0] == '-') && tail[3] == ':'
}
