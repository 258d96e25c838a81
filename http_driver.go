package influxstream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/almightychang/influxdb-stream/internal/logger"
)

// sniffLen is how many leading bytes of a 2xx response body mimetype.Detect
// inspects; it is small enough that buffering it costs nothing relative to
// the rest of the stream, which is never buffered.
const sniffLen = 512

// queryPath is the fixed endpoint this client speaks; it is never
// parameterized, matching the wire contract exactly.
const queryPath = "/api/v2/query"

// executeQuery issues the POST request for a Flux query and returns the
// response body ready for the parser, having already checked for a non-2xx
// status. The returned ReadCloser's Close must be called by the caller once
// streaming is done or abandoned.
func executeQuery(ctx context.Context, cfg Config, query string) (io.ReadCloser, error) {
	log := cfg.logger()
	guid := uuid.NewString()
	ctx = logger.WithRequestGUID(ctx, guid)
	log = log.WithContext(ctx)

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + queryPath + "?" + url.Values{"org": {cfg.Org}}.Encode()

	log.Debugf("issuing query request to %s", endpointDescription(cfg))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(query))
	if err != nil {
		return nil, transportError(err)
	}
	req.Header.Set("Authorization", "Token "+cfg.Token)
	req.Header.Set("Content-Type", "application/vnd.flux")
	req.Header.Set("Accept", "application/csv")

	resp, err := cfg.httpClient().Do(req)
	if err != nil {
		log.Errorf("query request failed: %v", err)
		return nil, transportError(err)
	}

	log.Debugf("query request returned status %d", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, int64(cfg.maxErrorBody())))
		return nil, httpError(resp.StatusCode, string(body))
	}

	return sniffedBody(resp, log), nil
}

// sniffedBody wraps a 2xx response body so the first sniffLen bytes are
// inspected for diagnostic logging without disturbing the bytes the parser
// will see; it never changes how those bytes are parsed.
func sniffedBody(resp *http.Response, log StreamLogger) io.ReadCloser {
	br := bufio.NewReaderSize(resp.Body, sniffLen)
	peek, _ := br.Peek(sniffLen)

	declared := resp.Header.Get("Content-Type")
	if declared == "" || !strings.Contains(declared, "csv") {
		detected := mimetype.Detect(peek)
		log.Debugf("response Content-Type is %q; body sniffs as %q — parsing as CSV regardless", declared, detected.String())
	}

	return &readCloser{Reader: br, closer: resp.Body}
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r *readCloser) Close() error { return r.closer.Close() }

func endpointDescription(cfg Config) string {
	return fmt.Sprintf("%s%s (org=%s)", strings.TrimRight(cfg.BaseURL, "/"), queryPath, cfg.Org)
}
