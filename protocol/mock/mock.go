// Package mock provides scripted protocol implementations for tests.
package mock

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sqlstream/mssql/protocol"
)

// NewRow builds a wire row from column names and cells, deriving column
// kinds from the cells. Names and cells must have equal length.
func NewRow(names []string, cells []protocol.Cell) protocol.Row {
	if len(names) != len(cells) {
		panic(fmt.Sprintf("mock: %d names for %d cells", len(names), len(cells)))
	}
	cols := make([]protocol.Column, len(names))
	for i, name := range names {
		cols[i] = protocol.Column{Name: name, Kind: cells[i].Kind}
	}
	return protocol.Row{Columns: cols, Cells: cells}
}

// Connector is a scripted protocol.Connector. By default every Connect
// returns a fresh empty Session; tests override the session, the error,
// or the whole connect function.
type Connector struct {
	mu       sync.Mutex
	session  *Session
	err      error
	connects int
	configs  []protocol.Config

	// ConnectFn, when set, replaces the scripted behavior entirely.
	ConnectFn func(ctx context.Context, cfg protocol.Config) (protocol.Session, error)

	// BeforeConnect, when set, runs before each connect completes. Used
	// by concurrency tests to hold all callers at the dial point.
	BeforeConnect func()
}

// NewConnector returns a connector that hands out the given session.
func NewConnector(session *Session) *Connector {
	return &Connector{session: session}
}

// FailWith makes every Connect return err.
func (c *Connector) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Connect implements protocol.Connector.
func (c *Connector) Connect(ctx context.Context, cfg protocol.Config) (protocol.Session, error) {
	c.mu.Lock()
	c.connects++
	c.configs = append(c.configs, cfg)
	fn := c.ConnectFn
	before := c.BeforeConnect
	session := c.session
	err := c.err
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, cfg)
	}
	if before != nil {
		before()
	}
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}
	return NewSession(), nil
}

// Connects returns how many times Connect was called.
func (c *Connector) Connects() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connects
}

// Configs returns the configurations passed to Connect, in order.
func (c *Connector) Configs() []protocol.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]protocol.Config, len(c.configs))
	copy(out, c.configs)
	return out
}

// Session is a scripted protocol.Session replaying a fixed result set.
type Session struct {
	mu        sync.Mutex
	rows      []protocol.Row
	queryErr  error
	failAfter int
	failWith  error
	closeErr  error
	closed    bool
	queries   []string
}

// NewSession returns a session whose queries replay the given rows.
func NewSession(rows ...protocol.Row) *Session {
	return &Session{rows: rows, failAfter: -1}
}

// SetQueryErr makes Query itself fail.
func (s *Session) SetQueryErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryErr = err
}

// FailAfter injects a mid-stream error after n rows have been yielded.
func (s *Session) FailAfter(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
	s.failWith = err
}

// SetCloseErr makes Close fail.
func (s *Session) SetCloseErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeErr = err
}

// Query implements protocol.Session.
func (s *Session) Query(ctx context.Context, sql string) (protocol.RowStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, sql)
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return &stream{rows: s.rows, failAfter: s.failAfter, failWith: s.failWith}, nil
}

// Close implements protocol.Session.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.closeErr
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Queries returns the query texts seen by the session, in order.
func (s *Session) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

type stream struct {
	rows      []protocol.Row
	pos       int
	failAfter int
	failWith  error
}

// Next implements protocol.RowStream.
func (st *stream) Next(ctx context.Context) (*protocol.Row, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if st.failAfter >= 0 && st.pos == st.failAfter {
		return nil, st.failWith
	}
	if st.pos >= len(st.rows) {
		return nil, io.EOF
	}
	row := &st.rows[st.pos]
	st.pos++
	return row, nil
}
