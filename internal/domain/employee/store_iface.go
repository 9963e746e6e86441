package employee

import "context"

// StoreAPI is the persistence contract for employee records. Every call is
// an immediate commit.
type StoreAPI interface {
	Search(ctx context.Context, q Query) (PagedResult, error)
	ListAll(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	CreateEmployee(ctx context.Context, e Employee) (int64, error)
	UpdateEmployee(ctx context.Context, e Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
	BulkInsert(ctx context.Context, records []Employee) (int, error)
	Count(ctx context.Context) (int, error)
}
