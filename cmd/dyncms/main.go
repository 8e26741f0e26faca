// Command dyncms runs the dynamic content type engine: an HTTP server plus
// schema and import tooling over a local sqlite database.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/go-dyncms"
	"github.com/goliatone/go-dyncms/internal/di"
	"github.com/goliatone/go-dyncms/internal/logging/console"
	"github.com/goliatone/go-dyncms/internal/runtimeconfig"
	"github.com/goliatone/go-dyncms/pkg/storage"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

const (
	exitSuccess   = 0
	exitUserError = 1
)

var (
	flagConfig   string
	flagDatabase string
	flagLogLevel string
)

var errPostgresUnsupported = errors.New("the CLI only opens sqlite databases; embed dyncms with a *sql.DB for postgres")

// app holds the module opened by PersistentPreRunE.
var app struct {
	settings *settings
	module   *dyncms.Module
	sqlDB    *sql.DB
}

var rootCmd = &cobra.Command{
	Use:           "dyncms",
	Short:         "Dynamic content type engine",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["offline"] == "true" {
			return nil
		}
		return openModule(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeModule()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./dyncms.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDatabase, "db", "", "sqlite database file (overrides the database config key)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "enable logging at this level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(slugCmd)
	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}

func openModule(ctx context.Context) error {
	s, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}
	if flagDatabase != "" {
		s.Database = flagDatabase
	}
	if flagLogLevel != "" {
		s.Engine.Features.Logger = true
		s.Engine.Logging.Level = flagLogLevel
	}

	var opts []di.Option
	if s.Engine.Features.Logger && s.Engine.Logging.Provider == "console" {
		level := console.ParseLevel(s.Engine.Logging.Level)
		opts = append(opts, di.WithLoggerProvider(console.NewProvider(console.Options{Writer: os.Stderr, MinLevel: &level})))
	}
	if s.Engine.StorageProvider() == runtimeconfig.StorageBun {
		if s.Engine.StorageDialect() != runtimeconfig.DialectSQLite {
			return errPostgresUnsupported
		}
		sqlDB, err := sql.Open("sqlite", s.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		db, err := storage.NewBunDB(sqlDB, storage.DialectSQLite)
		if err != nil {
			_ = sqlDB.Close()
			return err
		}
		app.sqlDB = sqlDB
		opts = append(opts, di.WithBunDB(db))
	}

	module, err := dyncms.New(s.Engine, opts...)
	if err != nil {
		return err
	}
	if err := module.Start(ctx); err != nil {
		return err
	}
	app.settings = s
	app.module = module
	return nil
}

func closeModule() error {
	var errs []error
	if app.module != nil {
		errs = append(errs, app.module.Close())
		app.module = nil
	}
	if app.sqlDB != nil {
		errs = append(errs, app.sqlDB.Close())
		app.sqlDB = nil
	}
	return errors.Join(errs...)
}
