package client

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sqlstream/mssql/testutil"
)

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	testutil.RequireNoError(t, os.WriteFile(path, []byte(`
prod:
  server: db.example.com
  database: orders
  user: reporting
  password: hunter2
  trust_cert: true
  row_buffer: 50
local:
  instance: SQL2022
`), 0o600))

	profiles, err := LoadProfiles(path)
	testutil.RequireNoError(t, err)
	if len(profiles) != 2 {
		t.Fatalf("loaded %d profiles, want 2", len(profiles))
	}

	prod := profiles["prod"]
	want := ConnectionParams{
		Server:     "db.example.com",
		Database:   "orders",
		User:       "reporting",
		Password:   "hunter2",
		TrustCert:  true,
		BufferSize: 50,
		Source:     fmt.Sprintf("%s: profile %q", path, "prod"),
	}
	if prod != want {
		t.Fatalf("prod = %+v, want %+v", prod, want)
	}

	local := profiles["local"]
	if local.Instance != "SQL2022" || local.Server != "" {
		t.Fatalf("local = %+v", local)
	}
}

func TestLoadProfilesMissingFile(t *testing.T) {
	_, err := LoadProfiles(filepath.Join(t.TempDir(), "nope.yaml"))
	testutil.RequireError(t, err)
}

func TestLoadProfilesBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	testutil.RequireNoError(t, os.WriteFile(path, []byte("prod: [not a mapping"), 0o600))

	_, err := LoadProfiles(path)
	testutil.RequireError(t, err)
}
