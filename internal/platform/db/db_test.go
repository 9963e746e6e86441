package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/domain/employee"
	"personnel/internal/platform/config"
)

func TestMigrationFilesAreOrdered(t *testing.T) {
	files, err := migrationFiles(Migrations())
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_employees.sql", files[0])
	for i := 1; i < len(files); i++ {
		assert.Less(t, files[i-1], files[i])
	}
}

func TestSeedImportsOnlyIntoEmptyStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seed.csv")
	csv := strings.Join(employee.ImportHeaders(), ",") + "\nP1,Ada,Lovelace,10/12/1815,,,,,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	svc := employee.NewService(employee.NewMemoryStore())

	n, err := Seed(ctx, svc, path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = Seed(ctx, svc, path)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = Seed(ctx, svc, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeedMissingFile(t *testing.T) {
	svc := employee.NewService(employee.NewMemoryStore())
	_, err := Seed(context.Background(), svc, filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestMigrateAgainstDatabase(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, config.Config{DatabaseURL: dbURL})
	require.NoError(t, err)
	defer pool.Close()

	_, err = Migrate(ctx, pool, Migrations())
	require.NoError(t, err)
	again, err := Migrate(ctx, pool, Migrations())
	require.NoError(t, err)
	assert.Empty(t, again)
}
