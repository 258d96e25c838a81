package influxstream

import (
	"math"
	"testing"
	"time"
)

func TestDecodeValueBasicTypes(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		declared DataType
		check    func(t *testing.T, v Value)
	}{
		{"string", "hello world", TypeString, func(t *testing.T, v Value) {
			s, ok := v.AsString()
			assertTrueF(t, ok)
			assertEqualF(t, "hello world", s)
		}},
		{"double", "3.14", TypeDouble, func(t *testing.T, v Value) {
			f, ok := v.AsDouble()
			assertTrueF(t, ok)
			assertEqualF(t, 3.14, f)
		}},
		{"bool-true", "true", TypeBool, func(t *testing.T, v Value) {
			b, ok := v.AsBool()
			assertTrueF(t, ok)
			assertTrueF(t, b)
		}},
		{"long", "-42", TypeLong, func(t *testing.T, v Value) {
			i, ok := v.AsLong()
			assertTrueF(t, ok)
			assertEqualF(t, int64(-42), i)
		}},
		{"unsigned-long", "42", TypeUnsignedLong, func(t *testing.T, v Value) {
			u, ok := v.AsUnsignedLong()
			assertTrueF(t, ok)
			assertEqualF(t, uint64(42), u)
		}},
		{"duration", "1h30m", TypeDuration, func(t *testing.T, v Value) {
			d, ok := v.AsDuration()
			assertTrueF(t, ok)
			assertEqualF(t, 90*time.Minute, d)
		}},
		{"base64", "aGVsbG8=", TypeBase64Binary, func(t *testing.T, v Value) {
			b, ok := v.AsBinary()
			assertTrueF(t, ok)
			assertEqualF(t, "hello", string(b))
		}},
		{"time", "2024-01-02T03:04:05Z", TypeTimeRFC, func(t *testing.T, v Value) {
			tm, ok := v.AsTime()
			assertTrueF(t, ok)
			assertTrueF(t, tm.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := decodeValue(tc.text, tc.declared, "", "col", 0, 0)
			assertNilF(t, err)
			tc.check(t, v)
		})
	}
}

func TestDecodeValueMissingWithNoDefault(t *testing.T) {
	_, err := decodeValue("", TypeLong, "", "count", 0, 0)
	assertKindF(t, err, ErrMissingValue)
}

func TestDecodeValueMissingUsesDefault(t *testing.T) {
	v, err := decodeValue("", TypeLong, "7", "count", 0, 0)
	assertNilF(t, err)
	i, ok := v.AsLong()
	assertTrueF(t, ok)
	assertEqualF(t, int64(7), i)
}

func TestDecodeValueEmptyStringIsNeverMissing(t *testing.T) {
	v, err := decodeValue("", TypeString, "", "note", 0, 0)
	assertNilF(t, err)
	s, ok := v.AsString()
	assertTrueF(t, ok)
	assertEqualF(t, "", s)
}

func TestDecodeValueBadLongIsValueDecodeError(t *testing.T) {
	_, err := decodeValue("not-a-number", TypeLong, "", "count", 2, 5)
	se := assertKindF(t, err, ErrValueDecode)
	assertEqualF(t, 2, se.TableIndex)
	assertEqualF(t, 5, se.RecordIndex)
	assertEqualF(t, "count", se.Column)
}

func TestDecodeValueRejectsOffsetlessTimestamp(t *testing.T) {
	_, err := decodeValue("2024-01-02T03:04:05", TypeTimeRFC, "", "_time", 0, 0)
	assertKindF(t, err, ErrValueDecode)
}

func TestDoubleNaNEqualsNaN(t *testing.T) {
	a := NewDouble(math.NaN())
	b := NewDouble(math.NaN())
	assertTrueF(t, a.Equal(b))
}

func TestParseFluxDurationNegative(t *testing.T) {
	d, err := parseFluxDuration("-1h30m")
	assertNilF(t, err)
	assertEqualF(t, -90*time.Minute, d)
}

func TestParseFluxDurationUnknownUnit(t *testing.T) {
	_, err := parseFluxDuration("10x")
	assertNotNilF(t, err)
}

func TestValueStringRendersEachVariant(t *testing.T) {
	assertEqualF(t, "abc", NewString("abc").String())
	assertEqualF(t, "true", NewBool(true).String())
	assertEqualF(t, "42", NewLong(42).String())
	assertEqualF(t, "1.5", NewDouble(1.5).String())
	assertEqualF(t, "7", NewUnsignedLong(7).String())
	assertEqualF(t, "5400000000000ns", NewDuration(90*time.Minute).String())
	assertEqualF(t, "<binary 2 bytes>", NewBase64Binary([]byte("hi")).String())
	assertEqualF(t, "2024-01-02T03:04:05Z", NewTimeRFC(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)).String())
}
