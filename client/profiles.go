package client

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// profile is the YAML shape of one named connection profile.
type profile struct {
	Server    string `yaml:"server"`
	Instance  string `yaml:"instance"`
	Database  string `yaml:"database"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	TrustCert bool   `yaml:"trust_cert"`
	RowBuffer int    `yaml:"row_buffer"`
}

// LoadProfiles reads named connection profiles from a YAML file:
//
//	prod:
//	  server: db.example.com
//	  database: orders
//	  user: reporting
//	  password: hunter2
//	  trust_cert: true
//	local:
//	  instance: SQL2022
//
// Each profile's Source field records the file and profile name so
// credential errors can point back at the offending entry.
func LoadProfiles(path string) (map[string]ConnectionParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read profiles file %s: %w", path, err)
	}

	var profiles map[string]profile
	if err := yaml.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("cannot parse profiles file %s: %w", path, err)
	}

	params := make(map[string]ConnectionParams, len(profiles))
	for name, pr := range profiles {
		params[name] = ConnectionParams{
			Server:     pr.Server,
			Instance:   pr.Instance,
			Database:   pr.Database,
			User:       pr.User,
			Password:   pr.Password,
			TrustCert:  pr.TrustCert,
			BufferSize: pr.RowBuffer,
			Source:     fmt.Sprintf("%s: profile %q", path, name),
		}
	}
	return params, nil
}
