package client

import (
	"context"
	"os"

	"github.com/google/uuid"
)

// QuerySource is either literal query text or a file to read it from,
// with the source location it came from.
type QuerySource struct {
	text    string
	hasText bool
	path    string
	source  string
}

// QueryText builds a source from literal query text. source names where
// the text came from, for diagnostics.
func QueryText(text, source string) QuerySource {
	return QuerySource{text: text, hasText: true, source: source}
}

// QueryFile builds a source that reads the query from a file.
func QueryFile(path, source string) QuerySource {
	return QuerySource{path: path, source: source}
}

// Resolve returns the query text, reading the file for file sources.
func (s QuerySource) Resolve() (string, error) {
	if s.hasText {
		return s.text, nil
	}
	if s.path != "" {
		text, err := os.ReadFile(s.path)
		if err != nil {
			return "", &QuerySourceError{Path: s.path, Reason: "query file unreadable", Cause: err}
		}
		return string(text), nil
	}
	return "", &QuerySourceError{Reason: "no query or file specified"}
}

// Query resolves the query text, borrows or creates the pooled connection
// for the parameters, and starts executing in the background. It returns
// the consumer-side iterator immediately; rows are buffered up to the
// params' buffer size and the producer blocks once it is full.
//
// Connection-phase failures are returned directly, before any row is
// produced. Row-phase failures surface through Rows.Err.
func (p *Pool) Query(ctx context.Context, params ConnectionParams, source QuerySource) (*Rows, error) {
	text, err := source.Resolve()
	if err != nil {
		return nil, err
	}

	conn, err := p.GetOrCreate(ctx, params)
	if err != nil {
		return nil, err
	}

	traceID := uuid.New().String()
	logger := p.logger.WithFields(
		String("trace", traceID),
		String("key", conn.key.String()))
	logger.Debug("starting query", Int("bufferSize", params.bufferSize()))

	sink := make(chan rowItem, params.bufferSize())
	done := make(chan struct{})

	go func() {
		defer close(sink)
		defer p.Release(conn)
		conn.RunQuery(ctx, text, sink, done)
		logger.Debug("query producer finished")
	}()

	return newRows(sink, done), nil
}
