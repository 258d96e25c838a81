package influxstream

import (
	"context"
	"io"
)

const (
	annotationDatatype = "#datatype"
	annotationGroup    = "#group"
	annotationDefault  = "#default"
)

// parserState names the position of the state machine between suspension
// points. Parser.next branches on it for header and data rows, and
// handleEOF uses it to decide between a clean end and IncompleteTable.
type parserState int

const (
	stateStart parserState = iota
	stateAwaitingAnnotations
	stateInTable
)

// Parser drives the annotated-CSV state machine documented for this client:
// annotation rows accumulate into a pending header, a header row promotes
// that header into TableMetadata for the table that follows, and a blank
// line closes the table and returns the machine to stateStart. Parser pulls
// exactly as many lines as it needs to produce the next Record and no more.
type Parser struct {
	framer *lineFramer
	state  parserState

	tableIndex  int
	recordIndex int

	pendingDatatypes []string
	pendingGroups    []string
	pendingDefaults  []string
	haveDatatypes    bool
	haveGroups       bool
	haveDefaults     bool

	meta       TableMetadata
	errorTable bool
	done       bool
}

// NewParser constructs a Parser reading from r, bounding any single logical
// line to maxLineBytes (DefaultMaxLineBytes if zero or negative).
func NewParser(r io.Reader, maxLineBytes int) *Parser {
	return &Parser{framer: newLineFramer(r, maxLineBytes)}
}

// Next returns the next decoded Record, io.EOF when the stream is exhausted
// cleanly between tables, or a *StreamError describing why decoding failed.
// ctx is checked at the single point Next may block on I/O (the underlying
// chunk read); a canceled context surfaces as ctx.Err() wrapped as a
// transport error.
func (p *Parser) Next(ctx context.Context) (Record, error) {
	rec, err := p.next(ctx)
	if err != nil && err != io.EOF {
		// The first error terminates the stream: no records are ever
		// emitted after one, regardless of what state the framer or the
		// annotation accumulator was left in.
		p.done = true
	}
	return rec, err
}

func (p *Parser) next(ctx context.Context) (Record, error) {
	if p.done {
		return Record{}, io.EOF
	}

	for {
		if err := ctx.Err(); err != nil {
			return Record{}, transportError(err)
		}

		line, err := p.framer.nextLine()
		if err != nil {
			if err == io.EOF {
				return Record{}, p.handleEOF()
			}
			return Record{}, err
		}

		if line == "" {
			if p.state == stateInTable {
				p.state = stateStart
				p.resetPendingAnnotations()
				p.errorTable = false
				continue
			}
			// Blank line between/before tables is simply skipped.
			continue
		}

		fields, err := splitCSVRow(line)
		if err != nil {
			return Record{}, err
		}
		if len(fields) == 0 {
			continue
		}

		marker := fields[0]
		if p.state == stateInTable && (marker == annotationDatatype || marker == annotationGroup || marker == annotationDefault) {
			// An annotation row arriving without an intervening blank line
			// still begins a new table; drop the previous table's
			// accumulated annotations before folding this one in.
			p.state = stateStart
			p.resetPendingAnnotations()
			p.errorTable = false
		}
		switch marker {
		case annotationDatatype:
			p.pendingDatatypes = fields[1:]
			p.haveDatatypes = true
			p.state = stateAwaitingAnnotations
			continue
		case annotationGroup:
			p.pendingGroups = fields[1:]
			p.haveGroups = true
			p.state = stateAwaitingAnnotations
			continue
		case annotationDefault:
			p.pendingDefaults = fields[1:]
			p.haveDefaults = true
			p.state = stateAwaitingAnnotations
			continue
		}

		if marker == "" && p.state != stateInTable {
			names := fields[1:]
			meta, err := p.buildTableMetadata(names)
			if err != nil {
				return Record{}, err
			}
			p.meta = meta
			p.state = stateInTable
			p.recordIndex = 0
			p.errorTable = isErrorTableHeader(names)
			continue
		}

		if p.state != stateInTable {
			return Record{}, malformedRowError("data row seen before a header row was established")
		}

		if p.errorTable {
			return Record{}, buildQueryError(fields)
		}

		rec, err := p.buildRecord(fields)
		if err != nil {
			return Record{}, err
		}
		p.recordIndex++
		return rec, nil
	}
}

// isErrorTableHeader reports whether a header names an in-band query-error
// table rather than an ordinary data table: the server signals a query that
// failed after the response had already started streaming with a 2xx status
// by emitting a table whose first declared column is literally "error"
// (conventionally paired with a second "reference" column).
func isErrorTableHeader(names []string) bool {
	return len(names) > 0 && names[0] == "error"
}

// buildQueryError turns a data row of an error table into an ErrQueryError,
// taking the message from the "error" column and the reference from the
// "reference" column when present. It never falls through to ordinary value
// decoding: an in-band query error always terminates the stream.
func buildQueryError(fields []string) error {
	message := ""
	if len(fields) > 1 {
		message = fields[1]
	}
	reference := ""
	if len(fields) > 2 {
		reference = fields[2]
	}
	return queryErrorError(message, reference)
}

func (p *Parser) handleEOF() error {
	p.done = true
	switch p.state {
	case stateStart:
		return io.EOF
	case stateAwaitingAnnotations:
		return incompleteTableError(p.tableIndex, "stream ended while annotation rows were still pending a header row")
	case stateInTable:
		// A table with no trailing blank line before EOF is complete; the
		// records already emitted stand. Treat this as a clean end.
		return io.EOF
	default:
		return io.EOF
	}
}

func (p *Parser) resetPendingAnnotations() {
	p.pendingDatatypes = nil
	p.pendingGroups = nil
	p.pendingDefaults = nil
	p.haveDatatypes = false
	p.haveGroups = false
	p.haveDefaults = false
}

func (p *Parser) buildTableMetadata(names []string) (TableMetadata, error) {
	defer func() {
		p.tableIndex++
	}()

	if !p.haveDatatypes {
		return TableMetadata{}, incompleteTableError(p.tableIndex, "header row seen without a preceding #datatype row")
	}
	n := len(names)
	if len(p.pendingDatatypes) != n {
		return TableMetadata{}, schemaMismatchError(p.tableIndex, -1, n, len(p.pendingDatatypes))
	}
	if p.haveGroups && len(p.pendingGroups) != n {
		return TableMetadata{}, schemaMismatchError(p.tableIndex, -1, n, len(p.pendingGroups))
	}
	if p.haveDefaults && len(p.pendingDefaults) != n {
		return TableMetadata{}, schemaMismatchError(p.tableIndex, -1, n, len(p.pendingDefaults))
	}

	seen := make(map[string]bool, n)
	columns := make([]Column, n)
	for i, name := range names {
		if seen[name] {
			return TableMetadata{}, duplicateColumnError(name)
		}
		seen[name] = true

		dt, err := parseDataType(p.pendingDatatypes[i])
		if err != nil {
			return TableMetadata{}, err
		}

		col := Column{Name: name, Type: dt, Position: i}
		if p.haveGroups {
			col.IsGroup = p.pendingGroups[i] == "true"
		}
		if p.haveDefaults {
			col.Default = p.pendingDefaults[i]
		}
		columns[i] = col
	}

	return newTableMetadata(columns), nil
}

func (p *Parser) buildRecord(fields []string) (Record, error) {
	want := len(p.meta.Columns)
	if len(fields)-1 != want {
		return Record{}, schemaMismatchError(p.tableIndex-1, p.recordIndex, want, len(fields)-1)
	}

	values := make([]Value, want)
	for i, col := range p.meta.Columns {
		v, err := decodeValue(fields[i+1], col.Type, col.Default, col.Name, p.tableIndex-1, p.recordIndex)
		if err != nil {
			return Record{}, err
		}
		values[i] = v
	}

	return Record{Meta: p.meta, Values: values, TableIndex: p.tableIndex - 1}, nil
}
