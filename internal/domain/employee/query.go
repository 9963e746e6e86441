package employee

import (
	"math"
	"sort"
	"strings"
	"time"
)

const (
	DefaultSortColumn = FieldSurname
	DefaultPageSize   = 5
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection returns SortDesc only for "desc" in any letter case.
func ParseSortDirection(raw string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(raw), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

type sortField struct {
	column string
	less   func(a, b Employee) bool
}

func textLess(get func(Employee) string) func(a, b Employee) bool {
	return func(a, b Employee) bool { return get(a) < get(b) }
}

func dateLess(get func(Employee) time.Time) func(a, b Employee) bool {
	return func(a, b Employee) bool { return get(a).Before(get(b)) }
}

// sortFields is the closed set of orderable fields. Text columns are ordered
// bytewise in both executions so the memory and SQL stores agree.
var sortFields = map[string]sortField{
	FieldID:            {column: "id", less: func(a, b Employee) bool { return a.ID < b.ID }},
	FieldPayrollNumber: {column: `payroll_number COLLATE "C"`, less: textLess(func(e Employee) string { return e.PayrollNumber })},
	FieldForenames:     {column: `forenames COLLATE "C"`, less: textLess(func(e Employee) string { return e.Forenames })},
	FieldSurname:       {column: `surname COLLATE "C"`, less: textLess(func(e Employee) string { return e.Surname })},
	FieldDateOfBirth:   {column: "date_of_birth", less: dateLess(func(e Employee) time.Time { return e.DateOfBirth })},
	FieldTelephone:     {column: `telephone COLLATE "C"`, less: textLess(func(e Employee) string { return e.Telephone })},
	FieldMobile:        {column: `mobile COLLATE "C"`, less: textLess(func(e Employee) string { return e.Mobile })},
	FieldAddress:       {column: `address COLLATE "C"`, less: textLess(func(e Employee) string { return e.Address })},
	FieldAddress2:      {column: `address2 COLLATE "C"`, less: textLess(func(e Employee) string { return e.Address2 })},
	FieldPostcode:      {column: `postcode COLLATE "C"`, less: textLess(func(e Employee) string { return e.Postcode })},
	FieldEmailHome:     {column: `email_home COLLATE "C"`, less: textLess(func(e Employee) string { return e.EmailHome })},
	FieldStartDate:     {column: "start_date", less: dateLess(func(e Employee) time.Time { return e.StartDate })},
}

// Query is a normalised listing request. Build it with NewQuery.
type Query struct {
	Search        string
	SortColumn    string
	SortDirection SortDirection
	Page          int
	PageSize      int
}

// NewQuery normalises raw listing parameters. An empty or unknown sort column
// becomes ascending surname whatever the requested direction; page below 1
// becomes 1 and page size below 1 becomes DefaultPageSize. Page is capped so
// the offset fits in an int; such a page is always past the end.
func NewQuery(search, sortColumn, sortDirection string, page, pageSize int) Query {
	if _, ok := sortFields[sortColumn]; !ok {
		sortColumn = DefaultSortColumn
		sortDirection = string(SortAsc)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if maxPage := math.MaxInt/pageSize + 1; page > maxPage {
		page = maxPage
	}
	return Query{
		Search:        search,
		SortColumn:    sortColumn,
		SortDirection: ParseSortDirection(sortDirection),
		Page:          page,
		PageSize:      pageSize,
	}
}

func (q Query) normalized() Query {
	return NewQuery(q.Search, q.SortColumn, string(q.SortDirection), q.Page, q.PageSize)
}

// Offset is the number of matching records skipped before the page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

func (q Query) needle() string {
	return strings.ToLower(q.Search)
}

// Matches reports whether the record contains the search text, ignoring case,
// in any text field or in the YYYY-MM-DD rendering of either date.
func (q Query) Matches(e Employee) bool {
	needle := q.needle()
	if needle == "" {
		return true
	}
	haystack := []string{
		e.PayrollNumber,
		e.Forenames,
		e.Surname,
		e.Telephone,
		e.Mobile,
		e.Address,
		e.Address2,
		e.Postcode,
		e.EmailHome,
		searchableDate(e.DateOfBirth),
		searchableDate(e.StartDate),
	}
	for _, value := range haystack {
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

// Less orders two records by the query's sort field and direction, breaking
// ties by ascending id.
func (q Query) Less(a, b Employee) bool {
	field, ok := sortFields[q.SortColumn]
	if !ok {
		field = sortFields[DefaultSortColumn]
	}
	if q.SortDirection == SortDesc {
		if field.less(b, a) {
			return true
		}
		if field.less(a, b) {
			return false
		}
	} else {
		if field.less(a, b) {
			return true
		}
		if field.less(b, a) {
			return false
		}
	}
	return a.ID < b.ID
}

// Apply runs the query over an in-memory collection. The input is not modified.
func (q Query) Apply(records []Employee) PagedResult {
	q = q.normalized()

	matched := make([]Employee, 0, len(records))
	for _, e := range records {
		if q.Matches(e) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return q.Less(matched[i], matched[j]) })

	total := len(matched)
	start := q.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := total
	if q.PageSize < total-start {
		end = start + q.PageSize
	}
	items := make([]Employee, end-start)
	copy(items, matched[start:end])

	return q.result(items, total)
}

func (q Query) result(items []Employee, total int) PagedResult {
	if items == nil {
		items = []Employee{}
	}
	return PagedResult{
		Items:      items,
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: TotalPagesFor(total, q.PageSize),
		Search:     q.Search,
		SortColumn: q.SortColumn,
		SortOrder:  string(q.SortDirection),
	}
}
