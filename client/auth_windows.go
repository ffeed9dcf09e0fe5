//go:build windows

package client

import "github.com/sqlstream/mssql/protocol"

// platformAuth is the method used when no credentials are given.
const platformAuth = protocol.AuthIntegrated
