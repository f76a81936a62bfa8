// Package entrypoint holds the startup steps shared by the commands.
package entrypoint

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/MJE43/eclipse-combat/internal/catalog"
	"github.com/MJE43/eclipse-combat/internal/config"
	"github.com/MJE43/eclipse-combat/internal/logging"
	"github.com/MJE43/eclipse-combat/internal/store"
)

// ParseConfig loads environment defaults into cfg and registers the shared
// flags, so flag defaults reflect the environment.
func ParseConfig(fs *flag.FlagSet, cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if err := config.ParseEnv(cfg); err != nil {
		return err
	}
	BindShared(fs, cfg)
	return nil
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// BindShared registers the flags every command accepts.
func BindShared(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite ship catalog (env ECLIPSE_COMBAT_DB)")
	fs.StringVar(&cfg.CatalogFile, "catalog", cfg.CatalogFile, "YAML ship library merged over the defaults (env ECLIPSE_COMBAT_CATALOG)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log encoding: console or json")
}

// NewLogger builds the command logger from cfg.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.LogLevel, cfg.LogFormat)
}

// LoadCatalog resolves the ship catalog: the sqlite store when a database is
// configured, otherwise a YAML library over the defaults, otherwise the
// defaults alone.
func LoadCatalog(cfg config.Config) (*catalog.Registry, error) {
	switch {
	case cfg.DBPath != "":
		db, err := OpenStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.Registry()
	case cfg.CatalogFile != "":
		return catalog.LoadFile(cfg.CatalogFile)
	default:
		return catalog.Defaults(), nil
	}
}

// OpenStore opens and migrates the sqlite ship catalog.
func OpenStore(path string) (*store.SQLiteDB, error) {
	db, err := store.NewSQLiteDB(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}
	return db, nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
