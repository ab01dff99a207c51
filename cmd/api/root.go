package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/orcamento/internal/config"
	"github.com/MrJamesThe3rd/orcamento/internal/database"
)

type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "orcamento",
		Short:         "Monthly household budget API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations and start the HTTP API (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.serve(cmd.Context())
			},
		},
		newMigrateCmd(a),
	)

	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(*cobra.Command, []string) error {
				if err := database.Migrate(a.cfg.ConnectionString()); err != nil {
					return a.fail("migration failed", err)
				}

				a.logger.Info("migrations applied")

				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert the last migration",
			RunE: func(*cobra.Command, []string) error {
				if err := database.Rollback(a.cfg.ConnectionString()); err != nil {
					return a.fail("rollback failed", err)
				}

				a.logger.Info("last migration reverted")

				return nil
			},
		},
	)

	return cmd
}

func (a *app) load() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		return err
	}

	a.cfg = cfg
	a.logger = newLogger(cfg)
	slog.SetDefault(a.logger)

	return nil
}

func (a *app) fail(msg string, err error) error {
	a.logger.Error(msg, "error", err)
	return err
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}

	if strings.EqualFold(cfg.App.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)).With("app", cfg.App.Name)
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts)).With("app", cfg.App.Name)
}
