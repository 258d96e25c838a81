package influxstream

import "strings"

// splitCSVRow splits one logical CSV line into fields per the RFC 4180
// quoting rules the wire dialect uses: a field may be wrapped in double
// quotes, an embedded double quote is escaped as "", and a comma inside a
// quoted field is taken literally. A double quote in the middle of an
// unquoted field is reported as ErrMalformedRow. A byte other than a
// separator immediately following a closing quote is malformed (bare
// quote) and reported as ErrMalformedRow rather than silently absorbed
// into the field. A trailing separator yields a final empty field, and
// whitespace is preserved verbatim (never trimmed).
func splitCSVRow(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder

	inQuotes := false
	justClosedQuote := false
	i := 0
	n := len(line)

	for i < n {
		c := line[i]

		if justClosedQuote && c != ',' {
			return nil, malformedRowError("unexpected character after closing quote")
		}

		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < n && line[i+1] == '"' {
					cur.WriteByte('"')
					i += 2
					continue
				}
				inQuotes = false
				justClosedQuote = true
				i++
				continue
			}
			cur.WriteByte(c)
			i++
		case c == '"':
			if cur.Len() != 0 {
				return nil, malformedRowError("unexpected quote in the middle of an unquoted field")
			}
			inQuotes = true
			i++
		case c == ',':
			fields = append(fields, cur.String())
			cur.Reset()
			justClosedQuote = false
			i++
		default:
			cur.WriteByte(c)
			i++
		}
	}

	if inQuotes {
		return nil, malformedRowError("unterminated quoted field")
	}

	fields = append(fields, cur.String())
	return fields, nil
}
