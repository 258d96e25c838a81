package influxstream

import "fmt"

// ErrorKind discriminates the failure modes a streaming query can produce.
// A StreamError carries exactly one ErrorKind plus the fields relevant to it.
type ErrorKind int

const (
	// ErrTransport wraps a lower-level network/IO failure (dial, TLS, read).
	ErrTransport ErrorKind = iota
	// ErrHTTP reports a non-2xx HTTP response.
	ErrHTTP
	// ErrLineTooLong reports a logical line that exceeded MaxLineBytes.
	ErrLineTooLong
	// ErrMalformedRow reports a CSV row that failed to split.
	ErrMalformedRow
	// ErrSchemaMismatch reports a row whose field count disagrees with the header.
	ErrSchemaMismatch
	// ErrDuplicateColumn reports two header columns sharing a name.
	ErrDuplicateColumn
	// ErrUnsupportedType reports a #datatype token outside the known set.
	ErrUnsupportedType
	// ErrIncompleteTable reports annotation rows with no header row before
	// the stream ended, or a header row with no preceding #datatype row.
	ErrIncompleteTable
	// ErrValueDecode reports a cell that failed to parse as its declared type.
	ErrValueDecode
	// ErrMissingValue reports an empty cell with no default and a non-string type.
	ErrMissingValue
	// ErrInvalidConfig reports a Config that failed preflight validation.
	ErrInvalidConfig
	// ErrQueryError reports a query that failed after the response had
	// already started streaming with a 2xx status: the server emits an
	// in-band error table (header columns "error", "reference") instead of
	// a data table.
	ErrQueryError
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTransport:
		return "Transport"
	case ErrHTTP:
		return "Http"
	case ErrLineTooLong:
		return "LineTooLong"
	case ErrMalformedRow:
		return "MalformedRow"
	case ErrSchemaMismatch:
		return "SchemaMismatch"
	case ErrDuplicateColumn:
		return "DuplicateColumn"
	case ErrUnsupportedType:
		return "UnsupportedType"
	case ErrIncompleteTable:
		return "IncompleteTable"
	case ErrValueDecode:
		return "ValueDecode"
	case ErrMissingValue:
		return "MissingValue"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrQueryError:
		return "QueryError"
	default:
		return "Unknown"
	}
}

// StreamError is the single error type this library returns. It is modeled
// as a fixed Kind plus a grab-bag of fields that only some kinds populate,
// rather than one Go error type per kind, so callers can switch on Kind once
// instead of chasing a type hierarchy.
type StreamError struct {
	Kind ErrorKind

	// Message is a human-readable description, always populated.
	Message string

	// HTTPStatus and HTTPBody are populated for ErrHTTP.
	HTTPStatus int
	HTTPBody   string

	// Limit is populated for ErrLineTooLong.
	Limit int

	// TableIndex and RecordIndex are populated for ErrValueDecode and, where
	// known, ErrSchemaMismatch/ErrIncompleteTable.
	TableIndex  int
	RecordIndex int

	// Column is populated for ErrValueDecode, ErrMissingValue, and
	// ErrDuplicateColumn.
	Column string

	// Reference is populated for ErrQueryError when the server supplied one;
	// it is otherwise empty.
	Reference string

	cause error
}

func (e *StreamError) Error() string {
	switch e.Kind {
	case ErrHTTP:
		return fmt.Sprintf("influxstream: http status %d: %s", e.HTTPStatus, e.Message)
	case ErrLineTooLong:
		return fmt.Sprintf("influxstream: line exceeded %d bytes: %s", e.Limit, e.Message)
	case ErrValueDecode:
		return fmt.Sprintf("influxstream: table %d record %d: %s", e.TableIndex, e.RecordIndex, e.Message)
	case ErrQueryError:
		if e.Reference != "" {
			return fmt.Sprintf("influxstream: query error: %s (reference %s)", e.Message, e.Reference)
		}
		return fmt.Sprintf("influxstream: query error: %s", e.Message)
	default:
		return fmt.Sprintf("influxstream: %s: %s", e.Kind, e.Message)
	}
}

// Unwrap exposes the underlying cause, when one was attached, so that
// errors.Is/errors.As can see through a StreamError to a transport error or
// a strconv.NumError produced during value decoding.
func (e *StreamError) Unwrap() error {
	return e.cause
}

func transportError(cause error) *StreamError {
	return &StreamError{
		Kind:    ErrTransport,
		Message: cause.Error(),
		cause:   cause,
	}
}

func httpError(status int, body string) *StreamError {
	return &StreamError{
		Kind:       ErrHTTP,
		HTTPStatus: status,
		HTTPBody:   body,
		Message:    fmt.Sprintf("server returned status %d", status),
	}
}

func lineTooLongError(limit int) *StreamError {
	return &StreamError{
		Kind:    ErrLineTooLong,
		Limit:   limit,
		Message: fmt.Sprintf("no line terminator found within %d bytes", limit),
	}
}

func malformedRowError(reason string) *StreamError {
	return &StreamError{Kind: ErrMalformedRow, Message: reason}
}

func schemaMismatchError(tableIndex, recordIndex, want, got int) *StreamError {
	return &StreamError{
		Kind:        ErrSchemaMismatch,
		TableIndex:  tableIndex,
		RecordIndex: recordIndex,
		Message:     fmt.Sprintf("row has %d fields, header declares %d", got, want),
	}
}

func duplicateColumnError(name string) *StreamError {
	return &StreamError{
		Kind:    ErrDuplicateColumn,
		Column:  name,
		Message: fmt.Sprintf("column %q appears more than once in the header", name),
	}
}

func incompleteTableError(tableIndex int, reason string) *StreamError {
	return &StreamError{
		Kind:       ErrIncompleteTable,
		TableIndex: tableIndex,
		Message:    reason,
	}
}

func invalidConfigError(reason string) *StreamError {
	return &StreamError{Kind: ErrInvalidConfig, Message: reason}
}

func queryErrorError(message, reference string) *StreamError {
	if message == "" {
		message = "unknown query error"
	}
	return &StreamError{
		Kind:      ErrQueryError,
		Message:   message,
		Reference: reference,
	}
}
