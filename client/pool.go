package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sqlstream/mssql/protocol"
	"github.com/sqlstream/mssql/transport"
)

// PoolStats tracks connection pool counters.
type PoolStats struct {
	Hits    atomic.Int64
	Misses  atomic.Int64
	Created atomic.Int64
	Closed  atomic.Int64
}

// Pool is a registry of live connections keyed by connection identity.
// Entries are created lazily and shared between callers; the pool mutex
// guards only map access, never network I/O. A Pool is explicitly
// constructed and explicitly torn down with Close.
type Pool struct {
	mu        sync.Mutex
	conns     map[PoolKey]*Connection
	closed    bool
	held      bool
	connector protocol.Connector
	logger    Logger
	onHold    func(bool)
	stats     PoolStats
}

// NewPool creates an empty pool.
func NewPool(opts PoolOptions) *Pool {
	logger := opts.Logger
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &Pool{
		conns:     make(map[PoolKey]*Connection),
		connector: opts.Connector,
		logger:    logger,
		onHold:    opts.OnHold,
	}
}

// Get looks up an existing connection for the key and borrows it. It
// never blocks on network I/O.
func (p *Pool) Get(key PoolKey) (*Connection, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, false
	}
	conn, ok := p.conns[key]
	if !ok {
		p.stats.Misses.Add(1)
		return nil, false
	}
	conn.acquire()
	p.stats.Hits.Add(1)
	return conn, true
}

// Create performs the full connect-and-authenticate sequence for the
// parameters and registers the connection. The network I/O runs outside
// the pool lock; when two callers race to create the same key, the first
// writer wins and later creators close their session and reuse the
// registered one.
func (p *Pool) Create(ctx context.Context, params ConnectionParams) (*Connection, error) {
	if p.connector == nil {
		return nil, fmt.Errorf("pool has no connector")
	}

	cfg, err := BuildConfig(params)
	if err != nil {
		return nil, err
	}
	key := params.PoolKey()

	session, err := p.connector.Connect(ctx, cfg)
	if err != nil {
		return nil, classifyConnectError(cfg, err)
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		if cerr := session.Close(ctx); cerr != nil {
			p.logger.Warn("failed to close session for closed pool", Err(cerr))
		}
		return nil, &PoolClosedError{}
	}
	if existing, ok := p.conns[key]; ok {
		existing.acquire()
		p.mu.Unlock()
		// Lost the creation race; discard our session and reuse.
		if cerr := session.Close(ctx); cerr != nil {
			p.logger.Warn("failed to close redundant session", Err(cerr), String("key", key.String()))
		}
		return existing, nil
	}

	conn := newConnection(key, session, cfg.Auth, p.logger)
	conn.acquire()
	p.conns[key] = conn
	first := !p.held
	p.held = true
	p.stats.Created.Add(1)
	p.mu.Unlock()

	p.logger.Info("connection established",
		String("key", key.String()),
		String("database", cfg.Database),
		String("auth", cfg.Auth.String()))

	if first && p.onHold != nil {
		p.onHold(true)
	}
	return conn, nil
}

// GetOrCreate returns the pooled connection for the parameters, creating
// it on first use.
func (p *Pool) GetOrCreate(ctx context.Context, params ConnectionParams) (*Connection, error) {
	if conn, ok := p.Get(params.PoolKey()); ok {
		return conn, nil
	}
	return p.Create(ctx, params)
}

// Release returns a borrowed connection. The connection stays pooled.
func (p *Pool) Release(conn *Connection) {
	if conn == nil {
		return
	}
	conn.release()
}

// Len returns the number of pooled connections.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() (hits, misses, created, closed int64) {
	return p.stats.Hits.Load(), p.stats.Misses.Load(), p.stats.Created.Load(), p.stats.Closed.Load()
}

// Close tears the pool down: every session is closed gracefully, waiting
// for its in-flight query to finish first. Close failures are logged, not
// propagated, since the pool usually closes on shutdown. Close is
// idempotent.
func (p *Pool) Close(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	wasHeld := p.held
	p.held = false
	conns := make([]*Connection, 0, len(p.conns))
	for _, conn := range p.conns {
		conns = append(conns, conn)
	}
	p.conns = make(map[PoolKey]*Connection)
	p.mu.Unlock()

	for _, conn := range conns {
		if err := conn.close(ctx); err != nil {
			p.logger.Warn("failed to close pooled connection",
				Err(err), String("key", conn.key.String()))
		}
		p.stats.Closed.Add(1)
	}

	if wasHeld && p.onHold != nil {
		p.onHold(false)
	}
	p.logger.Info("connection pool closed", Int("connections", len(conns)))
}

// classifyConnectError sorts a connect failure into the error taxonomy:
// transport setup, authentication rejection, or any other handshake
// failure.
func classifyConnectError(cfg protocol.Config, err error) error {
	var dialErr *transport.DialError
	if errors.As(err, &dialErr) {
		return &SetupError{Server: cfg.Host, Instance: cfg.Instance, Cause: err}
	}

	var srvErr *protocol.ServerError
	if errors.As(err, &srvErr) && srvErr.LoginFailed() {
		return &LoginFailedError{Auth: cfg.Auth, User: cfg.User, Cause: err}
	}

	return &ConnectionError{Server: cfg.Host, Cause: err}
}
