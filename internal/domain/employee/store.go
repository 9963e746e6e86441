package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `
    SELECT id, payroll_number, forenames, surname, date_of_birth,
           telephone, mobile, address, address2, postcode, email_home, start_date
    FROM employees`

var copyColumns = []string{
	"payroll_number", "forenames", "surname", "date_of_birth",
	"telephone", "mobile", "address", "address2", "postcode", "email_home", "start_date",
}

// Store is the PostgreSQL implementation of StoreAPI.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.PayrollNumber, &e.Forenames, &e.Surname, &e.DateOfBirth,
		&e.Telephone, &e.Mobile, &e.Address, &e.Address2, &e.Postcode, &e.EmailHome, &e.StartDate,
	)
	return e, err
}

func (s *Store) Search(ctx context.Context, q Query) (PagedResult, error) {
	q = q.normalized()
	where, args := q.whereSQL(1)

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(*) FROM employees"+where, args...).Scan(&total); err != nil {
		return PagedResult{}, fmt.Errorf("count employees: %w", err)
	}

	limitIdx := len(args) + 1
	pageSQL := selectColumns + where + q.orderBySQL() + fmt.Sprintf(" LIMIT $%d OFFSET $%d", limitIdx, limitIdx+1)
	args = append(args, q.PageSize, q.Offset())

	rows, err := s.DB.Query(ctx, pageSQL, args...)
	if err != nil {
		return PagedResult{}, fmt.Errorf("search employees: %w", err)
	}
	defer rows.Close()

	items := make([]Employee, 0, q.PageSize)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return PagedResult{}, fmt.Errorf("scan employee: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return PagedResult{}, fmt.Errorf("search employees: %w", err)
	}
	return q.result(items, total), nil
}

func (s *Store) ListAll(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, selectColumns+` ORDER BY surname COLLATE "C", id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	out := make([]Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, selectColumns+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get employee %d: %w", id, err)
	}
	return &e, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (payroll_number, forenames, surname, date_of_birth,
                           telephone, mobile, address, address2, postcode, email_home, start_date)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    RETURNING id
  `, e.PayrollNumber, e.Forenames, e.Surname, e.DateOfBirth,
		e.Telephone, e.Mobile, e.Address, e.Address2, e.Postcode, e.EmailHome, e.StartDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert employee: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET payroll_number = $2, forenames = $3, surname = $4, date_of_birth = $5,
        telephone = $6, mobile = $7, address = $8, address2 = $9, postcode = $10,
        email_home = $11, start_date = $12, updated_at = now()
    WHERE id = $1
  `, e.ID, e.PayrollNumber, e.Forenames, e.Surname, e.DateOfBirth,
		e.Telephone, e.Mobile, e.Address, e.Address2, e.Postcode, e.EmailHome, e.StartDate)
	if err != nil {
		return fmt.Errorf("update employee %d: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{ID: e.ID}
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// BulkInsert writes the whole batch with a single COPY, so either every row
// lands or none does.
func (s *Store) BulkInsert(ctx context.Context, records []Employee) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	rows := make([][]any, len(records))
	for i, e := range records {
		rows[i] = []any{
			e.PayrollNumber, e.Forenames, e.Surname, e.DateOfBirth,
			e.Telephone, e.Mobile, e.Address, e.Address2, e.Postcode, e.EmailHome, e.StartDate,
		}
	}
	n, err := s.DB.CopyFrom(ctx, pgx.Identifier{"employees"}, copyColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy employees: %w", err)
	}
	return int(n), nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return total, nil
}
