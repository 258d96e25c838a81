package influxstream

import (
	"errors"
	"reflect"
	"testing"
)

// assertNilF and friends mirror the teacher's hand-rolled assertion helpers:
// "F" variants call t.Fatalf (stop the test now), "E" variants call t.Errorf
// (record and keep going). Neither wraps testify; the pack's own driver
// ships its own tiny assertion layer instead of importing one, and so does
// this one.

func assertNilF(t *testing.T, v any, msgAndArgs ...any) {
	t.Helper()
	if !isNil(v) {
		t.Fatalf("expected nil, got %v %s", v, joinMsg(msgAndArgs))
	}
}

func assertNilE(t *testing.T, v any, msgAndArgs ...any) {
	t.Helper()
	if !isNil(v) {
		t.Errorf("expected nil, got %v %s", v, joinMsg(msgAndArgs))
	}
}

func assertNotNilF(t *testing.T, v any, msgAndArgs ...any) {
	t.Helper()
	if isNil(v) {
		t.Fatalf("expected non-nil value %s", joinMsg(msgAndArgs))
	}
}

func assertEqualF(t *testing.T, want, got any, msgAndArgs ...any) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("expected %v, got %v %s", want, got, joinMsg(msgAndArgs))
	}
}

func assertEqualE(t *testing.T, want, got any, msgAndArgs ...any) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Errorf("expected %v, got %v %s", want, got, joinMsg(msgAndArgs))
	}
}

func assertTrueF(t *testing.T, cond bool, msgAndArgs ...any) {
	t.Helper()
	if !cond {
		t.Fatalf("expected condition to be true %s", joinMsg(msgAndArgs))
	}
}

func assertErrIsF(t *testing.T, err, target error, msgAndArgs ...any) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected error %v to match %v %s", err, target, joinMsg(msgAndArgs))
	}
}

func assertErrorsAsF[T error](t *testing.T, err error, msgAndArgs ...any) T {
	t.Helper()
	var target T
	if !errors.As(err, &target) {
		t.Fatalf("expected error %v to be assignable to %T %s", err, target, joinMsg(msgAndArgs))
	}
	return target
}

func assertKindF(t *testing.T, err error, want ErrorKind) *StreamError {
	t.Helper()
	se := assertErrorsAsF[*StreamError](t, err)
	if se.Kind != want {
		t.Fatalf("expected error kind %v, got %v (%v)", want, se.Kind, se)
	}
	return se
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

func joinMsg(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	format, ok := msgAndArgs[0].(string)
	if !ok {
		return ""
	}
	return "(" + format + ")"
}
