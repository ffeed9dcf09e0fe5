package client

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sqlstream/mssql/mapper"
	"github.com/sqlstream/mssql/protocol"
)

// Connection owns one live, authenticated session. The pool shares a
// Connection between callers; the exec mutex serializes queries so at
// most one is in flight per physical session at any instant. The
// reference count tracks outstanding borrowers but does not enforce
// exclusivity.
type Connection struct {
	key     PoolKey
	session protocol.Session
	auth    protocol.AuthMethod
	logger  Logger

	execMu sync.Mutex
	refs   atomic.Int32
}

func newConnection(key PoolKey, session protocol.Session, auth protocol.AuthMethod, logger Logger) *Connection {
	return &Connection{
		key:     key,
		session: session,
		auth:    auth,
		logger:  logger,
	}
}

// Key returns the pool key this connection was created for.
func (c *Connection) Key() PoolKey { return c.key }

// Refs returns the current borrower count.
func (c *Connection) Refs() int32 { return c.refs.Load() }

func (c *Connection) acquire() { c.refs.Add(1) }

func (c *Connection) release() { c.refs.Add(-1) }

// RunQuery takes exclusive execution access to the connection, issues the
// query, and streams marshalled rows to the sink in server order. A
// row-phase failure is delivered as one final error item and the stream
// stops; no partial row is ever emitted. When done is closed (the
// consumer abandoned the result) the producer stops without error.
//
// RunQuery does not close the sink; the caller owns the channel.
func (c *Connection) RunQuery(ctx context.Context, query string, sink chan<- rowItem, done <-chan struct{}) {
	c.execMu.Lock()
	defer c.execMu.Unlock()

	stream, err := c.session.Query(ctx, query)
	if err != nil {
		emit(ctx, sink, done, rowItem{err: &ConnectionError{Server: c.key.Server, Cause: err}})
		return
	}

	for {
		wireRow, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			emit(ctx, sink, done, rowItem{err: &ConnectionError{Server: c.key.Server, Cause: err}})
			return
		}

		row := newRow(len(wireRow.Cells))
		for i, cell := range wireRow.Cells {
			name := wireRow.Columns[i].Name
			value, err := mapper.MarshalCell(cell)
			if err != nil {
				emit(ctx, sink, done, rowItem{err: &MarshalError{Column: name, Kind: cell.Kind, Cause: err}})
				return
			}
			row.set(name, value)
		}

		if !emit(ctx, sink, done, rowItem{row: row}) {
			c.logger.Debug("consumer abandoned result, stopping producer",
				String("key", c.key.String()))
			return
		}
	}
}

// emit sends one item, backing off if the sink is full. It returns false
// once the consumer has closed the done channel or the caller's context
// is cancelled, so a blocked producer never outlives its query.
func emit(ctx context.Context, sink chan<- rowItem, done <-chan struct{}, item rowItem) bool {
	select {
	case sink <- item:
		return true
	case <-done:
		return false
	case <-ctx.Done():
		return false
	}
}

// close waits for any in-flight query to finish, then closes the session.
func (c *Connection) close(ctx context.Context) error {
	c.execMu.Lock()
	defer c.execMu.Unlock()
	return c.session.Close(ctx)
}
