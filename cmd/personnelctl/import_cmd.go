package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type importOutput struct {
	File       string `json:"file"`
	Imported   int    `json:"imported"`
	DurationMS int64  `json:"duration_ms"`
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a personnel CSV export; nothing is stored if any row fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			svc, closeFn, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			start := time.Now()
			n, err := svc.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), importOutput{
				File:       args[0],
				Imported:   n,
				DurationMS: time.Since(start).Milliseconds(),
			})
		},
	}
}
