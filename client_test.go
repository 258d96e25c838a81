package influxstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientQueryEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, Org: "o", Token: "t"})
	assertNilF(t, err)

	records, err := c.Query(context.Background(), `from(bucket:"x") |> range(start:-1h)`)
	assertNilF(t, err)
	assertEqualF(t, 3, len(records))
}

func TestClientQueryStreamIsLazy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, Org: "o", Token: "t"})
	assertNilF(t, err)

	stream, err := c.QueryStream(context.Background(), "query")
	assertNilF(t, err)
	defer stream.Close()

	first, err := stream.Next(context.Background())
	assertNilF(t, err)
	v, ok := first.Get("_field")
	assertTrueF(t, ok)
	s, _ := v.AsString()
	assertEqualF(t, "temp", s)
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	_, err := NewClient(Config{})
	assertKindF(t, err, ErrInvalidConfig)
}
