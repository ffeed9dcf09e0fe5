// Package transport establishes the TCP stream a session runs over:
// direct dialing, named-instance resolution through the SQL Browser
// service, and socket tuning.
package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sqlstream/mssql/protocol"
)

const (
	// DefaultPort is the default SQL Server TCP port.
	DefaultPort = 1433

	// BrowserPort is the UDP port of the SQL Browser service used for
	// named-instance resolution.
	BrowserPort = 1434

	// DefaultDialTimeout bounds stream setup when the caller's context
	// carries no deadline.
	DefaultDialTimeout = 15 * time.Second
)

// DialError reports a failure to establish the transport stream, before
// any protocol handshake took place.
type DialError struct {
	Host     string
	Instance string
	Cause    error
}

// Error implements the error interface.
func (e *DialError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("failed to open stream to instance %s on %s: %v", e.Instance, e.Host, e.Cause)
	}
	return fmt.Sprintf("failed to open stream to %s: %v", e.Host, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *DialError) Unwrap() error { return e.Cause }

// Dial opens the TCP stream for cfg. When cfg.Instance is set the port is
// resolved by name through the SQL Browser service, otherwise cfg.Port is
// dialed directly. Send coalescing is disabled on the stream for latency.
func Dial(ctx context.Context, cfg protocol.Config) (net.Conn, error) {
	port := cfg.Port
	if cfg.Instance != "" {
		resolved, err := ResolveInstance(ctx, cfg.Host, cfg.Instance)
		if err != nil {
			return nil, &DialError{Host: cfg.Host, Instance: cfg.Instance, Cause: err}
		}
		port = resolved
	}
	if port == 0 {
		port = DefaultPort
	}

	d := net.Dialer{Timeout: DefaultDialTimeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(port)))
	if err != nil {
		return nil, &DialError{Host: cfg.Host, Instance: cfg.Instance, Cause: err}
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			conn.Close()
			return nil, &DialError{Host: cfg.Host, Instance: cfg.Instance, Cause: err}
		}
	}

	return conn, nil
}

// ResolveInstance asks the SQL Browser service on host for the TCP port of
// the named instance (SSRP CLNT_UCAST_INST exchange).
func ResolveInstance(ctx context.Context, host, instance string) (int, error) {
	d := net.Dialer{Timeout: DefaultDialTimeout}
	conn, err := d.DialContext(ctx, "udp", net.JoinHostPort(host, strconv.Itoa(BrowserPort)))
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	deadline := time.Now().Add(DefaultDialTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return 0, err
	}

	// CLNT_UCAST_INST: 0x04 followed by the instance name.
	req := append([]byte{0x04}, instance...)
	if _, err := conn.Write(req); err != nil {
		return 0, err
	}

	resp := make([]byte, 4096)
	n, err := conn.Read(resp)
	if err != nil {
		return 0, err
	}
	if n < 3 || resp[0] != 0x05 {
		return 0, fmt.Errorf("malformed browser response for instance %s", instance)
	}

	return parseBrowserResponse(string(resp[3:n]), instance)
}

// parseBrowserResponse extracts the tcp port from a SVR_RESP payload, a
// semicolon-delimited key/value list such as
// "ServerName;HOST;InstanceName;SQL2022;IsClustered;No;Version;16.0;tcp;1433;;".
func parseBrowserResponse(payload, instance string) (int, error) {
	fields := strings.Split(payload, ";")
	for i := 0; i+1 < len(fields); i += 2 {
		if !strings.EqualFold(fields[i], "tcp") {
			continue
		}
		port, err := strconv.Atoi(fields[i+1])
		if err != nil || port <= 0 || port > 65535 {
			return 0, fmt.Errorf("invalid tcp port %q in browser response", fields[i+1])
		}
		return port, nil
	}
	return 0, fmt.Errorf("instance %s not advertised by browser service", instance)
}

// HandshakeFunc performs the wire protocol handshake and authentication on
// an established stream. It is the seam to the TDS codec, which lives
// outside this module.
type HandshakeFunc func(ctx context.Context, conn net.Conn, cfg protocol.Config) (protocol.Session, error)

// Connector implements protocol.Connector by composing Dial with an
// injected handshake.
type Connector struct {
	Handshake HandshakeFunc
}

// NewConnector returns a Connector using the given handshake.
func NewConnector(handshake HandshakeFunc) *Connector {
	return &Connector{Handshake: handshake}
}

// Connect opens the stream and runs the handshake. Stream setup failures
// are reported as *DialError; handshake failures pass through untouched so
// the caller can classify them.
func (c *Connector) Connect(ctx context.Context, cfg protocol.Config) (protocol.Session, error) {
	if c.Handshake == nil {
		return nil, fmt.Errorf("transport: no handshake registered")
	}

	conn, err := Dial(ctx, cfg)
	if err != nil {
		return nil, err
	}

	session, err := c.Handshake(ctx, conn, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return session, nil
}
