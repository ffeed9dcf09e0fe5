package client

import (
	"github.com/sqlstream/mssql/protocol"
	"github.com/sqlstream/mssql/transport"
)

// BuildConfig applies defaults to the connection parameters and selects
// the authentication method:
//
//   - user and password present: SQL Server authentication as user.
//   - password only: SQL Server authentication as "sa".
//   - user only: UserWithoutPasswordError.
//   - neither: the params' FallbackAuth, or the platform default
//     (integrated on Windows, none elsewhere).
//
// When an instance is named, port selection is deferred to instance
// resolution; otherwise the default port is used.
func BuildConfig(p ConnectionParams) (protocol.Config, error) {
	cfg := protocol.Config{
		Host:      DefaultServer,
		Database:  DefaultDatabase,
		TrustCert: p.TrustCert,
	}

	if p.Server != "" {
		cfg.Host = p.Server
	}
	if p.Database != "" {
		cfg.Database = p.Database
	}

	if p.Instance != "" {
		cfg.Instance = p.Instance
	} else {
		cfg.Port = transport.DefaultPort
	}

	switch {
	case p.User != "" && p.Password != "":
		cfg.Auth = protocol.AuthSQLServer
		cfg.User = p.User
		cfg.Password = p.Password
	case p.Password != "":
		cfg.Auth = protocol.AuthSQLServer
		cfg.User = DefaultUser
		cfg.Password = p.Password
	case p.User != "":
		return protocol.Config{}, &UserWithoutPasswordError{User: p.User, Source: p.Source}
	case p.FallbackAuth != protocol.AuthUnspecified:
		cfg.Auth = p.FallbackAuth
	default:
		cfg.Auth = platformAuth
	}

	return cfg, nil
}
