package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sqlstream/mssql/client"
	"github.com/sqlstream/mssql/transport"
)

const version = "1.0.0"

var (
	flagServer    string
	flagInstance  string
	flagDatabase  string
	flagUser      string
	flagPassword  string
	flagTrustCert bool
	flagRowBuffer int
	flagQuery     string
	flagFile      string
	flagProfiles  string
	flagProfile   string
)

func main() {
	root := &cobra.Command{
		Use:     "mssql-stream",
		Short:   "SQL Server connection tooling",
		Version: version,
		Long: "mssql-stream inspects SQL Server connectivity: named-instance\n" +
			"resolution through the Browser service, reachability checks, and\n" +
			"connection profile management.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flagServer, "server", "s", "", "Server host (default: localhost)")
	pf.StringVarP(&flagInstance, "instance", "i", "", "Named instance to resolve")
	pf.StringVarP(&flagDatabase, "database", "d", "", "Initial database (default: master)")
	pf.StringVarP(&flagUser, "user", "u", "", "SQL login user")
	pf.StringVarP(&flagPassword, "password", "p", "", "SQL login password")
	pf.BoolVarP(&flagTrustCert, "trust-cert", "t", false, "Accept the server certificate without verification")
	pf.IntVarP(&flagRowBuffer, "row-buffer", "b", 0, "Row buffer size for streaming queries")
	pf.StringVarP(&flagQuery, "query", "q", "", "Literal query text to validate")
	pf.StringVarP(&flagFile, "file", "f", "", "File to read the query from")
	pf.StringVar(&flagProfiles, "profiles", os.Getenv("MSSQL_STREAM_PROFILES"), "Path to the connection profiles file")
	pf.StringVar(&flagProfile, "profile", "", "Named profile to load connection parameters from")

	root.AddCommand(newResolveCmd(), newCheckCmd(), newProfilesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// connectionParams assembles parameters from the selected profile, then
// applies flag overrides on top.
func connectionParams() (client.ConnectionParams, error) {
	var params client.ConnectionParams
	params.Source = "command line flags"

	if flagProfile != "" {
		if flagProfiles == "" {
			return params, fmt.Errorf("--profile requires --profiles or MSSQL_STREAM_PROFILES")
		}
		profiles, err := client.LoadProfiles(flagProfiles)
		if err != nil {
			return params, err
		}
		p, ok := profiles[flagProfile]
		if !ok {
			return params, fmt.Errorf("profile %q not found in %s", flagProfile, flagProfiles)
		}
		params = p
	}

	if flagServer != "" {
		params.Server = flagServer
	}
	if flagInstance != "" {
		params.Instance = flagInstance
	}
	if flagDatabase != "" {
		params.Database = flagDatabase
	}
	if flagUser != "" {
		params.User = flagUser
	}
	if flagPassword != "" {
		params.Password = flagPassword
	}
	if flagTrustCert {
		params.TrustCert = true
	}
	if flagRowBuffer > 0 {
		params.BufferSize = flagRowBuffer
	}
	return params, nil
}

// querySource builds a query source from the -q/-f flags, or reports
// that none was given.
func querySource() (client.QuerySource, bool, error) {
	switch {
	case flagQuery != "" && flagFile != "":
		return client.QuerySource{}, false, fmt.Errorf("--query and --file are mutually exclusive")
	case flagQuery != "":
		return client.QueryText(flagQuery, "--query flag"), true, nil
	case flagFile != "":
		return client.QueryFile(flagFile, "--file flag"), true, nil
	default:
		return client.QuerySource{}, false, nil
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <host> <instance>",
		Short: "Resolve a named instance's TCP port via the Browser service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, instance := args[0], args[1]

			port, err := transport.ResolveInstance(cmd.Context(), host, instance)
			if err != nil {
				printError(fmt.Sprintf("Resolution failed: %v", err))
				return err
			}

			printSuccess(fmt.Sprintf("Instance %s on %s listens on tcp port %d", instance, host, port))
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the server's stream endpoint is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := connectionParams()
			if err != nil {
				printError(err.Error())
				return err
			}

			cfg, err := client.BuildConfig(params)
			if err != nil {
				printError(fmt.Sprintf("Invalid parameters: %v", err))
				return err
			}

			printHeader("Connection Check")
			fmt.Println()
			target := cfg.Host
			if cfg.Instance != "" {
				target += "\\" + cfg.Instance
			}
			fmt.Println("  Target:   " + colorCyan(target))
			fmt.Println("  Database: " + colorCyan(cfg.Database))
			fmt.Println("  Auth:     " + colorCyan(cfg.Auth.String()))
			fmt.Println()

			start := time.Now()
			conn, err := transport.Dial(cmd.Context(), cfg)
			if err != nil {
				printError(fmt.Sprintf("Unreachable: %v", err))
				return err
			}
			elapsed := time.Since(start)
			addr := conn.RemoteAddr()
			conn.Close()

			printSuccess(fmt.Sprintf("Reachable at %s (%dms)", addr, elapsed.Milliseconds()))

			// Validate the query source when one was given; execution
			// needs the protocol handshake, which the host provides.
			source, given, err := querySource()
			if err != nil {
				printError(err.Error())
				return err
			}
			if given {
				text, err := source.Resolve()
				if err != nil {
					printError(fmt.Sprintf("Query source invalid: %v", err))
					return err
				}
				printSuccess(fmt.Sprintf("Query source resolved (%d bytes)", len(text)))
			}
			return nil
		},
	}
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the connection profiles in the profiles file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagProfiles == "" {
				err := fmt.Errorf("no profiles file; pass --profiles or set MSSQL_STREAM_PROFILES")
				printError(err.Error())
				return err
			}

			profiles, err := client.LoadProfiles(flagProfiles)
			if err != nil {
				printError(err.Error())
				return err
			}

			names := make([]string, 0, len(profiles))
			for name := range profiles {
				names = append(names, name)
			}
			sort.Strings(names)

			printHeader("Connection Profiles")
			fmt.Println()
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				p := profiles[name]
				target := p.Server
				if p.Instance != "" {
					target += "\\" + p.Instance
				}
				user := p.User
				if user == "" && p.Password != "" {
					user = client.DefaultUser
				}
				rows = append(rows, []string{
					name, target, p.Database, user,
					strconv.FormatBool(p.TrustCert),
					colorDim(p.PoolKey().String()),
				})
			}
			printTable([]string{"NAME", "SERVER", "DATABASE", "USER", "TRUST CERT", "POOL KEY"}, rows)
			return nil
		},
	}
}
