package influxstream

import (
	"context"
	"io"
)

// Client executes streaming Flux queries against a server and decodes their
// annotated-CSV responses lazily, one Record at a time.
type Client struct {
	cfg Config
}

// NewClient constructs a Client from cfg after validating it.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{cfg: cfg}, nil
}

// NewClientFromTOML loads a Config from a TOML file and constructs a Client
// from it, mirroring NewClient's validation.
func NewClientFromTOML(path string) (*Client, error) {
	cfg, err := LoadConfigTOML(path)
	if err != nil {
		return nil, err
	}
	return NewClient(cfg)
}

// ResultStream is a pull-driven sequence of Records produced by one query.
// Exactly two operations on it can block: the HTTP round trip that produced
// it (already complete by the time QueryStream returns) and each call to
// Next, which may wait on the next chunk of the response body. Close must
// always be called, including after an error from Next, to release the
// underlying connection.
type ResultStream struct {
	body   io.ReadCloser
	parser *Parser
}

// Next decodes and returns the next Record. It returns io.EOF when the
// result set is exhausted.
func (s *ResultStream) Next(ctx context.Context) (Record, error) {
	return s.parser.Next(ctx)
}

// Close releases the underlying HTTP response body. It is safe to call more
// than once and after Next has already returned io.EOF.
func (s *ResultStream) Close() error {
	return s.body.Close()
}

// QueryStream executes query and returns a ResultStream that decodes its
// response lazily. The caller must Close the returned stream.
//
// No retry is attempted on failure at any layer: a query whose body has
// started streaming cannot be safely replayed, since the server has no
// concept of resuming a partially consumed result set.
func (c *Client) QueryStream(ctx context.Context, query string) (*ResultStream, error) {
	body, err := executeQuery(ctx, c.cfg, query)
	if err != nil {
		return nil, err
	}
	return &ResultStream{
		body:   body,
		parser: NewParser(body, c.cfg.maxLineBytes()),
	}, nil
}

// Query executes query and collects every Record into a slice.
//
// This loads the entire result set into memory; prefer QueryStream for
// anything large enough that memory use matters.
func (c *Client) Query(ctx context.Context, query string) ([]Record, error) {
	stream, err := c.QueryStream(ctx, query)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var records []Record
	for {
		rec, err := stream.Next(ctx)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
