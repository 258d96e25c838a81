package logger

import "regexp"

// tokenPattern matches an Authorization header carrying our bearer scheme so
// RedactToken can scrub it out of a log line or formatted error before it
// reaches any handler, default or caller-supplied.
var tokenPattern = regexp.MustCompile(`(?i)(Authorization:\s*Token\s+)([^\s"]+)`)

// RedactToken replaces any bearer token appearing in an Authorization header
// within s with a fixed placeholder, leaving everything else untouched.
func RedactToken(s string) string {
	return tokenPattern.ReplaceAllString(s, "${1}***REDACTED***")
}
