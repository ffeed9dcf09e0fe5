package client

import (
	"fmt"

	"github.com/cespare/xxhash"
)

// PoolKey identifies a distinct logical connection target. Two keys are
// equal iff every identity field is equal; the password and per-call
// options such as the buffer size deliberately do not participate, so
// repeated queries against the same server identity reuse one physical
// connection.
type PoolKey struct {
	Server    string
	Instance  string
	Database  string
	User      string
	TrustCert bool
}

// PoolKey derives the pool lookup key from the parameters, normalizing
// defaulted fields so that an omitted server or database matches its
// explicit default.
func (p ConnectionParams) PoolKey() PoolKey {
	key := PoolKey{
		Server:    p.Server,
		Instance:  p.Instance,
		Database:  p.Database,
		User:      p.User,
		TrustCert: p.TrustCert,
	}
	if key.Server == "" {
		key.Server = DefaultServer
	}
	if key.Database == "" {
		key.Database = DefaultDatabase
	}
	if key.User == "" && p.Password != "" {
		key.User = DefaultUser
	}
	return key
}

// Fingerprint returns a stable 64-bit digest of the key, usable in logs
// and stats without echoing server or user details.
func (k PoolKey) Fingerprint() uint64 {
	d := xxhash.New()
	for _, part := range []string{k.Server, k.Instance, k.Database, k.User} {
		d.Write([]byte(part))
		d.Write([]byte{0})
	}
	if k.TrustCert {
		d.Write([]byte{1})
	}
	return d.Sum64()
}

// String renders the fingerprint in hex.
func (k PoolKey) String() string {
	return fmt.Sprintf("%016x", k.Fingerprint())
}
