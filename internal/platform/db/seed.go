package db

import (
	"context"
	"fmt"
	"io"
	"os"
)

// SeedImporter is satisfied by the employee service.
type SeedImporter interface {
	Count(ctx context.Context) (int, error)
	Import(ctx context.Context, r io.Reader) (int, error)
}

// Seed imports the CSV at path when the store holds no employees yet. It
// returns the number of rows imported; an empty path is a no-op.
func Seed(ctx context.Context, importer SeedImporter, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	count, err := importer.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	n, err := importer.Import(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", path, err)
	}
	return n, nil
}
