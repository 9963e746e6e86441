package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"personnel/internal/domain/employee"
)

func newExportCmd() *cobra.Command {
	var (
		format  string
		out     string
		headers string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every employee to a CSV, XLSX or PDF file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "xlsx" && format != "pdf" {
				return fmt.Errorf("invalid --format %q: want csv, xlsx or pdf", format)
			}
			style := employee.NativeHeaders
			switch strings.ToLower(headers) {
			case "native":
			case "import":
				style = employee.ExternalHeaders
			default:
				return fmt.Errorf("invalid --headers %q: want native or import", headers)
			}

			svc, closeFn, err := openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if out == "" {
				out = employee.ExportFileName(time.Now(), format)
			}
			if out == "-" {
				return render(cmd.Context(), svc, cmd.OutOrStdout(), format, style)
			}
			return writeFile(out, func(w io.Writer) error {
				return render(cmd.Context(), svc, w, format, style)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv, xlsx or pdf")
	cmd.Flags().StringVar(&out, "out", "", "Output path, - for stdout (default employees_<timestamp>.<format>)")
	cmd.Flags().StringVar(&headers, "headers", "native", "CSV header style: native or import")
	return cmd
}

func render(ctx context.Context, svc *employee.Service, w io.Writer, format string, style employee.HeaderStyle) error {
	switch format {
	case "xlsx":
		return svc.ExportXLSX(ctx, w)
	case "pdf":
		return svc.ExportPDF(ctx, w)
	default:
		return svc.ExportCSV(ctx, w, style)
	}
}

// writeFile renders into a temp file beside path and renames it into place,
// so a failed export never leaves a truncated file behind.
func writeFile(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
