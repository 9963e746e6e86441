package main

import (
	"github.com/spf13/cobra"

	"personnel/internal/platform/db"
)

type migrateOutput struct {
	Applied []string `json:"applied"`
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := connectDB(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := db.Migrate(cmd.Context(), pool, db.Migrations())
			if err != nil {
				return err
			}
			if applied == nil {
				applied = []string{}
			}
			return writeJSON(cmd.OutOrStdout(), migrateOutput{Applied: applied})
		},
	}
}
