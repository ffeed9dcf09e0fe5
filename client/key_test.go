package client

import "testing"

// TestPoolKeyExcludesVolatileFields verifies that the password and the
// row buffer size do not participate in connection identity.
func TestPoolKeyExcludesVolatileFields(t *testing.T) {
	base := ConnectionParams{Server: "db1", Database: "orders", User: "alice", Password: "p1", BufferSize: 10}
	other := ConnectionParams{Server: "db1", Database: "orders", User: "alice", Password: "p2", BufferSize: 500}

	if base.PoolKey() != other.PoolKey() {
		t.Fatal("keys differing only in password and buffer size must be equal")
	}
}

func TestPoolKeyNormalizesDefaults(t *testing.T) {
	implicit := ConnectionParams{}
	explicit := ConnectionParams{Server: "localhost", Database: "master"}

	if implicit.PoolKey() != explicit.PoolKey() {
		t.Fatal("omitted server/database must match the explicit defaults")
	}

	// Password-only credentials authenticate as "sa"; the key reflects that.
	passOnly := ConnectionParams{Password: "p"}
	saUser := ConnectionParams{User: "sa", Password: "p"}
	if passOnly.PoolKey() != saUser.PoolKey() {
		t.Fatal("password-only key must match explicit sa user")
	}
}

func TestPoolKeyIdentityFields(t *testing.T) {
	base := ConnectionParams{Server: "db1", Database: "orders", User: "alice"}

	variants := []ConnectionParams{
		{Server: "db2", Database: "orders", User: "alice"},
		{Server: "db1", Instance: "SQL2022", Database: "orders", User: "alice"},
		{Server: "db1", Database: "sales", User: "alice"},
		{Server: "db1", Database: "orders", User: "bob"},
		{Server: "db1", Database: "orders", User: "alice", TrustCert: true},
	}

	for i, v := range variants {
		if base.PoolKey() == v.PoolKey() {
			t.Errorf("variant %d: identity fields must distinguish keys", i)
		}
	}
}

func TestPoolKeyFingerprintStable(t *testing.T) {
	key := ConnectionParams{Server: "db1", User: "alice"}.PoolKey()
	if key.Fingerprint() != key.Fingerprint() {
		t.Fatal("fingerprint must be deterministic")
	}

	other := ConnectionParams{Server: "db2", User: "alice"}.PoolKey()
	if key.Fingerprint() == other.Fingerprint() {
		t.Fatal("distinct keys should not collide in this test set")
	}

	if len(key.String()) != 16 {
		t.Fatalf("String() = %q, want 16 hex digits", key.String())
	}
}
