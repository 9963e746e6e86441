package employee

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*MemoryStore
	bulkCalls int
}

func (f *countingStore) BulkInsert(ctx context.Context, records []Employee) (int, error) {
	f.bulkCalls++
	return f.MemoryStore.BulkInsert(ctx, records)
}

func TestCreateRequiresPayrollNumber(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store)

	for _, payroll := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), Employee{PayrollNumber: payroll, Surname: "X"})
		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
		require.Len(t, validationErr.Issues, 1)
		assert.Equal(t, FieldPayrollNumber, validationErr.Issues[0].Field)
	}

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateAssignsID(t *testing.T) {
	svc := NewService(NewMemoryStore())
	created, err := svc.Create(context.Background(), Employee{ID: 99, PayrollNumber: "P1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "P1", got.PayrollNumber)
}

func TestUpdateReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	created, err := svc.Create(ctx, Employee{PayrollNumber: "P1", Forenames: "Sam", Mobile: "0700"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, Employee{ID: created.ID, PayrollNumber: "P1", Forenames: "Samira"}))
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Samira", got.Forenames)
	assert.Empty(t, got.Mobile)

	var notFound *NotFoundError
	err = svc.Update(ctx, Employee{ID: 42, PayrollNumber: "P1"})
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, int64(42), notFound.ID)

	var validationErr *ValidationError
	err = svc.Update(ctx, Employee{ID: created.ID})
	assert.True(t, errors.As(err, &validationErr))
}

func TestDeleteReportsMissingRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	var notFound *NotFoundError
	require.True(t, errors.As(svc.Delete(ctx, 42), &notFound))

	created, err := svc.Create(ctx, Employee{PayrollNumber: "P1"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, errors.As(err, &notFound))
}

func TestImportSingleRow(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	n, err := svc.Import(ctx, strings.NewReader(fullHeader+"\nE1,A,B,01/02/2000,,,,,,,\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	res, err := svc.Search(ctx, NewQuery("", "", "", 1, 5))
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	e := res.Items[0]
	assert.Equal(t, "E1", e.PayrollNumber)
	assert.Equal(t, "A", e.Forenames)
	assert.Equal(t, "B", e.Surname)
	assert.True(t, day(2000, time.February, 1).Equal(e.DateOfBirth))
	assert.True(t, e.StartDate.IsZero())
	assert.Empty(t, e.Telephone)
}

func TestImportHeaderOnlyStoresNothing(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: NewMemoryStore()}
	svc := NewService(store)

	_, err := svc.Import(ctx, strings.NewReader(fullHeader+"\n"))
	var emptyErr *EmptyInputError
	require.True(t, errors.As(err, &emptyErr))
	assert.Zero(t, store.bulkCalls)
}

func TestImportRejectsWholeBatchOnBlankPayroll(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{MemoryStore: NewMemoryStore()}
	svc := NewService(store)

	input := "Personnel_Records.Payroll_Number,Personnel_Records.Surname\nP1,One\n ,Two\nP3,Three\n"
	_, err := svc.Import(ctx, strings.NewReader(input))
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, 2, validationErr.Row)
	assert.Zero(t, store.bulkCalls)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExportCSVRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := NewService(NewMemoryStore())
	for _, e := range sampleEmployees() {
		e.Address = "1, \"Quoted\" Road"
		_, err := source.Create(ctx, e)
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, source.ExportCSV(ctx, &buf, ExternalHeaders))

	target := NewService(NewMemoryStore())
	n, err := target.Import(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, len(sampleEmployees()), n)

	want, err := source.ListAll(ctx)
	require.NoError(t, err)
	got, err := target.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		want[i].ID, got[i].ID = 0, 0
		assert.Equal(t, want[i], got[i])
	}
}
