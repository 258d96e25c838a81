package influxstream

import (
	"net/http"

	"github.com/BurntSushi/toml"

	"github.com/almightychang/influxdb-stream/internal/logger"
)

// StreamLogger is the logging interface Config.Logger accepts. It is a thin
// re-export of the internal default so callers can implement their own
// logger without reaching into an internal package.
type StreamLogger = logger.StreamLogger

// DefaultMaxErrorBody bounds how much of a non-2xx response body is read
// into a StreamError's HTTPBody field.
const DefaultMaxErrorBody = 64 << 10 // 64 KiB

// Config holds everything needed to issue streaming queries against a
// server. The zero value is not usable; construct one with the fields
// below or load one from a TOML file with LoadConfigTOML.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:8086".
	BaseURL string
	// Org is the organization name sent as the "org" query parameter.
	Org string
	// Token is the bearer credential sent as "Authorization: Token <Token>".
	Token string

	// HTTP is the client used to issue requests. http.DefaultClient, which
	// sets no timeout, is used if nil.
	HTTP *http.Client

	// MaxLineBytes bounds a single logical CSV line. Defaults to
	// DefaultMaxLineBytes.
	MaxLineBytes int
	// MaxErrorBody bounds how much of an error response body is captured.
	// Defaults to DefaultMaxErrorBody.
	MaxErrorBody int

	// Logger receives this client's internal log lines. Defaults to a
	// log/slog-backed logger writing to stderr.
	Logger StreamLogger
}

// tomlConfig mirrors the file format LoadConfigTOML accepts: a flat table of
// snake_case keys, following the same shape the teacher's TOML-driven
// connection example reads.
type tomlConfig struct {
	BaseURL      string `toml:"base_url"`
	Org          string `toml:"org"`
	Token        string `toml:"token"`
	MaxLineBytes int    `toml:"max_line_bytes"`
	MaxErrorBody int    `toml:"max_error_body"`
}

// LoadConfigTOML reads a Config out of a TOML file at path. It is a
// convenience over constructing Config directly; it does not change query
// semantics.
func LoadConfigTOML(path string) (Config, error) {
	var tc tomlConfig
	if _, err := toml.DecodeFile(path, &tc); err != nil {
		return Config{}, invalidConfigError("reading TOML config: " + err.Error())
	}
	return Config{
		BaseURL:      tc.BaseURL,
		Org:          tc.Org,
		Token:        tc.Token,
		MaxLineBytes: tc.MaxLineBytes,
		MaxErrorBody: tc.MaxErrorBody,
	}, nil
}

// Validate rejects a Config missing the fields required to address a
// server, and performs the best-effort token-expiry preflight check
// described for the token inspector.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return invalidConfigError("BaseURL must not be empty")
	}
	if c.Org == "" {
		return invalidConfigError("Org must not be empty")
	}
	if c.Token == "" {
		return invalidConfigError("Token must not be empty")
	}
	if expired, err := tokenLooksExpired(c.Token); err == nil && expired {
		return invalidConfigError("Token is a JWT whose exp claim has already passed")
	}
	return nil
}

func (c Config) maxLineBytes() int {
	if c.MaxLineBytes > 0 {
		return c.MaxLineBytes
	}
	return DefaultMaxLineBytes
}

func (c Config) maxErrorBody() int {
	if c.MaxErrorBody > 0 {
		return c.MaxErrorBody
	}
	return DefaultMaxErrorBody
}

func (c Config) logger() StreamLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.Default()
}

func (c Config) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}
