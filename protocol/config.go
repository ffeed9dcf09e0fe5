package protocol

// AuthMethod selects how a session authenticates during the handshake.
type AuthMethod int

const (
	// AuthUnspecified means no method was chosen; the client applies the
	// platform default before connecting.
	AuthUnspecified AuthMethod = iota

	// AuthSQLServer is username/password authentication.
	AuthSQLServer

	// AuthIntegrated is Windows integrated (trusted) authentication.
	AuthIntegrated

	// AuthNone performs the handshake without credentials.
	AuthNone
)

// String returns the method name. It never includes credential material.
func (m AuthMethod) String() string {
	switch m {
	case AuthSQLServer:
		return "sql-server"
	case AuthIntegrated:
		return "integrated"
	case AuthNone:
		return "none"
	default:
		return "unspecified"
	}
}

// Config carries everything a Connector needs to establish and
// authenticate a session.
type Config struct {
	// Host is the server to connect to.
	Host string

	// Port is the TCP port for a direct connection. Ignored when
	// Instance is set; the port is then resolved by instance lookup.
	Port int

	// Instance is the named instance to resolve, or empty.
	Instance string

	// Database is the initial database for the session.
	Database string

	Auth     AuthMethod
	User     string
	Password string

	// TrustCert accepts the server certificate without verification.
	TrustCert bool
}
