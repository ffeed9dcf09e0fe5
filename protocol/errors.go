package protocol

import "fmt"

// Server error numbers with dedicated handling in the client.
const (
	// ErrNumberLoginFailed is raised by the server when the handshake
	// authentication is rejected.
	ErrNumberLoginFailed = 18456
)

// ServerError is an error token sent by the server, either during the
// handshake or mid-stream.
type ServerError struct {
	Number  int
	State   uint8
	Class   uint8
	Message string
	Server  string
	Line    int
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d (class %d): %s", e.Number, e.Class, e.Message)
}

// LoginFailed reports whether the error is an authentication rejection.
func (e *ServerError) LoginFailed() bool {
	return e.Number == ErrNumberLoginFailed
}
