package client

import "github.com/sqlstream/mssql/protocol"

const (
	// DefaultBufferSize is the row buffer capacity used when the caller
	// does not request one.
	DefaultBufferSize = 10

	// DefaultServer is used when no server is given.
	DefaultServer = "localhost"

	// DefaultDatabase is used when no database is given.
	DefaultDatabase = "master"

	// DefaultUser is the username assumed when only a password is given.
	DefaultUser = "sa"
)

// ConnectionParams are the caller-supplied parameters identifying a
// connection target and the per-call streaming options. Zero values mean
// "not specified"; defaults are applied by BuildConfig.
type ConnectionParams struct {
	// Server is the host to connect to. Default: "localhost".
	Server string

	// Instance is a named instance. When set, the port is resolved by
	// name lookup instead of using the default port.
	Instance string

	// Database is the initial database. Default: "master".
	Database string

	// User and Password select the authentication method; see BuildConfig.
	User     string
	Password string

	// TrustCert accepts the server certificate without verification.
	TrustCert bool

	// BufferSize is the row buffer capacity for this call. It is not
	// part of connection identity. Values < 1 mean DefaultBufferSize.
	BufferSize int

	// FallbackAuth overrides the platform default used when neither
	// user nor password is given.
	FallbackAuth protocol.AuthMethod

	// Source names where the parameters came from (a flag, a profile
	// entry); it is carried into credential errors for diagnostics.
	Source string
}

// bufferSize returns the effective row buffer capacity.
func (p ConnectionParams) bufferSize() int {
	if p.BufferSize < 1 {
		return DefaultBufferSize
	}
	return p.BufferSize
}

// PoolOptions configure a connection pool.
type PoolOptions struct {
	// Connector establishes sessions. Required.
	Connector protocol.Connector

	// Logger receives pool and query diagnostics. Defaults to a noop
	// logger.
	Logger Logger

	// OnHold, when set, is invoked with true when the pool starts
	// holding live sessions and with false once it no longer does. Hosts
	// use it to suspend automatic resource reclamation while sessions
	// are open.
	OnHold func(holding bool)
}
