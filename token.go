package influxstream

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLooksExpired performs a best-effort, unverified parse of token as a
// JWT and reports whether its exp claim has already passed. No signature
// check is performed — the signature is the server's concern, and asserting
// on it here is not this library's job. A token that doesn't parse as a JWT
// at all (e.g. an opaque database token) returns (false, err): it is simply
// not inspected, not treated as expired.
func tokenLooksExpired(token string) (bool, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return false, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, nil
	}
	return exp.Before(time.Now()), nil
}
