// Package main provides the ldbtest CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/ldbtools/ldbtest/internal/config"
	"github.com/ldbtools/ldbtest/internal/store"
	"github.com/ldbtools/ldbtest/internal/store/leveldb"
	"github.com/ldbtools/ldbtest/internal/store/memorydb"
	"github.com/ldbtools/ldbtest/internal/store/sqlite"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// dbPath and backendName override the config file and environment.
	dbPath      string
	backendName string

	// jsonOutput switches every command to structured output.
	jsonOutput bool
)

func main() {
	// No command at all is a usage error, not a help request.
	if len(os.Args) < 2 {
		_ = rootCmd.Help()
		os.Exit(ExitError)
	}

	if err := rootCmd.Execute(); err != nil {
		// Errors surface here, after the command's deferred cleanup has
		// run, since we have SilenceErrors: true.
		if jsonOutput {
			outputJSON(ErrorResponse{Error: err.Error()})
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ldbtest",
	Short: "Single-operation test harness for embedded key-value stores",
	Long: `ldbtest opens an embedded key-value store, performs one operation,
prints the result, and exits.

Backends:
  leveldb (default) - LSM engine via goleveldb
  sqlite            - single kv table in a SQLite file
  memory            - ephemeral in-process map

The database path comes from --db, the LDBTEST_DB environment variable,
or db_path in ~/.config/ldbtest/config.yml, in that order.

Examples:
  ldbtest --db ./testdb put hello world
  ldbtest --db ./testdb get hello
  ldbtest --db ./testdb scan
  ldbtest --db ./testdb scan user: user:9999 10
  ldbtest --db ./testdb perf 1000`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: LDBTEST_DB or the config file)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "Store backend: leveldb, sqlite, or memory")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of human-readable output")
	rootCmd.Version = Version
}

// mustLoadConfig resolves configuration with flag overrides, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitError, "loading config: %v", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if backendName != "" {
		cfg.Backend = backendName
	}
	return cfg
}

// mustOpenStore opens the configured store, exits on error.
// The caller is responsible for calling Close() on the returned store.
func mustOpenStore() store.KeyValueStore {
	cfg := mustLoadConfig()
	if cfg.DBPath == "" && cfg.Backend != "memory" {
		exitWithError(ExitError, "no database path: pass --db, set LDBTEST_DB, or set db_path in %s", config.GlobalConfigPath())
	}
	db, err := openStore(cfg)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// openStore maps a backend name to its adapter.
func openStore(cfg *config.Config) (store.KeyValueStore, error) {
	switch cfg.Backend {
	case "", "leveldb":
		return leveldb.New(cfg.DBPath, cfg.CacheMB, cfg.Handles)
	case "sqlite":
		return sqlite.Open(cfg.DBPath)
	case "memory":
		return memorydb.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want leveldb, sqlite, or memory)", cfg.Backend)
	}
}
