package client

import (
	"fmt"

	"github.com/sqlstream/mssql/protocol"
)

// Stable error codes for the client error taxonomy.
const (
	CodeUserWithoutPassword = "E_USER_WITHOUT_PASSWORD"
	CodeLoginFailed         = "E_LOGIN_FAILED"
	CodeSetupFailed         = "E_SETUP_FAILED"
	CodeConnectionFailed    = "E_CONNECTION_FAILED"
	CodeMarshalFailed       = "E_MARSHAL_FAILED"
	CodeQuerySource         = "E_QUERY_SOURCE"
	CodePoolClosed          = "E_POOL_CLOSED"
)

// UserWithoutPasswordError is a credential shape error: a username was
// supplied without a password.
type UserWithoutPasswordError struct {
	// User is the offending username.
	User string

	// Source names where the username came from, e.g. a flag or a
	// profile file entry.
	Source string
}

// Error implements the error interface.
func (e *UserWithoutPasswordError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: username %q specified without a password (from %s)",
			CodeUserWithoutPassword, e.User, e.Source)
	}
	return fmt.Sprintf("%s: username %q specified without a password", CodeUserWithoutPassword, e.User)
}

// LoginFailedError is an authentication rejection from the server. It
// records the method attempted and never carries the password.
type LoginFailedError struct {
	Auth  protocol.AuthMethod
	User  string
	Cause error
}

// Error implements the error interface.
func (e *LoginFailedError) Error() string {
	if e.User != "" {
		return fmt.Sprintf("%s: login rejected for user %q (%s authentication)",
			CodeLoginFailed, e.User, e.Auth)
	}
	return fmt.Sprintf("%s: login rejected (%s authentication)", CodeLoginFailed, e.Auth)
}

// Unwrap returns the server error that triggered the rejection.
func (e *LoginFailedError) Unwrap() error { return e.Cause }

// SetupError is a failure to establish the transport stream, before any
// protocol handshake took place.
type SetupError struct {
	Server   string
	Instance string
	Cause    error
}

// Error implements the error interface.
func (e *SetupError) Error() string {
	if e.Instance != "" {
		return fmt.Sprintf("%s: could not reach instance %s on %s: %v",
			CodeSetupFailed, e.Instance, e.Server, e.Cause)
	}
	return fmt.Sprintf("%s: could not reach %s: %v", CodeSetupFailed, e.Server, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *SetupError) Unwrap() error { return e.Cause }

// ConnectionError is a protocol or handshake failure other than an
// authentication rejection, or a transport drop mid-stream.
type ConnectionError struct {
	Server string
	Cause  error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: connection to %s failed: %v", CodeConnectionFailed, e.Server, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ConnectionError) Unwrap() error { return e.Cause }

// MarshalError is a row-phase failure: one cell's wire representation
// could not be converted. The whole query fails; rows already delivered
// remain valid.
type MarshalError struct {
	Column string
	Kind   protocol.CellKind
	Cause  error
}

// Error implements the error interface.
func (e *MarshalError) Error() string {
	return fmt.Sprintf("%s: column %q (%s): %v", CodeMarshalFailed, e.Column, e.Kind, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *MarshalError) Unwrap() error { return e.Cause }

// QuerySourceError reports that no query was specified or that a query
// file could not be read.
type QuerySourceError struct {
	Path   string
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *QuerySourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", CodeQuerySource, e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s", CodeQuerySource, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *QuerySourceError) Unwrap() error { return e.Cause }

// PoolClosedError is returned for operations on a closed pool.
type PoolClosedError struct{}

// Error implements the error interface.
func (e *PoolClosedError) Error() string {
	return fmt.Sprintf("%s: connection pool is closed", CodePoolClosed)
}
