package employee

import (
	"context"
	"fmt"
	"io"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Search(ctx context.Context, q Query) (PagedResult, error) {
	return s.store.Search(ctx, q.normalized())
}

func (s *Service) ListAll(ctx context.Context) ([]Employee, error) {
	return s.store.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.store.GetEmployee(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Create validates and stores a new record. Any ID on the input is ignored.
func (s *Service) Create(ctx context.Context, e Employee) (Employee, error) {
	e.ID = 0
	if err := Validate(e, 0); err != nil {
		return Employee{}, err
	}
	id, err := s.store.CreateEmployee(ctx, e)
	if err != nil {
		return Employee{}, err
	}
	e.ID = id
	return e, nil
}

// Update replaces every field of the record with the given ID.
func (s *Service) Update(ctx context.Context, e Employee) error {
	if err := Validate(e, 0); err != nil {
		return err
	}
	return s.store.UpdateEmployee(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteEmployee(ctx, id)
}

// Import parses a personnel CSV, validates every row and stores the batch in
// one call. Nothing is stored when any row fails.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	records, err := ParseCSV(r)
	if err != nil {
		return 0, err
	}
	for i, e := range records {
		if err := Validate(e, i+1); err != nil {
			return 0, err
		}
	}
	n, err := s.store.BulkInsert(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("bulk insert: %w", err)
	}
	return n, nil
}

func (s *Service) ExportCSV(ctx context.Context, w io.Writer, style HeaderStyle) error {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return err
	}
	return WriteCSV(w, records, style)
}

func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return err
	}
	return WriteXLSX(w, records)
}

func (s *Service) ExportPDF(ctx context.Context, w io.Writer) error {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return err
	}
	return WritePDF(w, records, s.now())
}

// ExportFileName names a download, e.g. employees_20250131142500.csv.
func ExportFileName(at time.Time, ext string) string {
	return fmt.Sprintf("employees_%s.%s", at.Format("20060102150405"), ext)
}
