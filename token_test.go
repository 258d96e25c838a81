package influxstream

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

func makeJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := map[string]any{"alg": "HS256", "typ": "JWT"}
	claims := map[string]any{"exp": exp.Unix(), "sub": "test"}

	headerJSON, err := json.Marshal(header)
	assertNilF(t, err)
	claimsJSON, err := json.Marshal(claims)
	assertNilF(t, err)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(headerJSON) + "." + enc.EncodeToString(claimsJSON) + "." + enc.EncodeToString([]byte("sig"))
}

func TestTokenLooksExpiredPastExp(t *testing.T) {
	token := makeJWT(t, time.Now().Add(-1*time.Hour))
	expired, err := tokenLooksExpired(token)
	assertNilF(t, err)
	assertTrueF(t, expired)
}

func TestTokenLooksExpiredFutureExp(t *testing.T) {
	token := makeJWT(t, time.Now().Add(1*time.Hour))
	expired, err := tokenLooksExpired(token)
	assertNilF(t, err)
	assertTrueF(t, !expired)
}

func TestTokenLooksExpiredOpaqueToken(t *testing.T) {
	_, err := tokenLooksExpired("not-a-jwt-at-all")
	assertNotNilF(t, err)
}
