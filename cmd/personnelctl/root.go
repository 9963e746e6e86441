package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"personnel/internal/domain/employee"
	"personnel/internal/platform/config"
	"personnel/internal/platform/db"
	"personnel/internal/platform/logging"
)

// cfg is loaded once per invocation before any subcommand runs.
var cfg config.Config

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "personnelctl",
		Short:        "Personnel records maintenance tools",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg = config.Load(envFile)
			logging.SetupWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newHashPasswordCmd())
	return cmd
}

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return db.Connect(ctx, cfg)
}

func openService(ctx context.Context) (*employee.Service, func(), error) {
	pool, err := connectDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	return employee.NewService(employee.NewStore(pool)), pool.Close, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
