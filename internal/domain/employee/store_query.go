package employee

import (
	"fmt"
	"strings"
)

var searchColumns = []string{
	"payroll_number",
	"forenames",
	"surname",
	"telephone",
	"mobile",
	"address",
	"address2",
	"postcode",
	"email_home",
	"to_char(date_of_birth, 'YYYY-MM-DD')",
	"to_char(start_date, 'YYYY-MM-DD')",
}

// whereSQL compiles the search filter. The needle is bound once and shared by
// every predicate.
func (q Query) whereSQL(argIdx int) (string, []any) {
	needle := q.needle()
	if needle == "" {
		return "", nil
	}
	preds := make([]string, len(searchColumns))
	for i, col := range searchColumns {
		preds[i] = fmt.Sprintf("strpos(lower(%s), $%d) > 0", col, argIdx)
	}
	return " WHERE (" + strings.Join(preds, " OR ") + ")", []any{needle}
}

func (q Query) orderBySQL() string {
	field, ok := sortFields[q.SortColumn]
	if !ok {
		field = sortFields[DefaultSortColumn]
	}
	dir := "ASC"
	if q.SortDirection == SortDesc {
		dir = "DESC"
	}
	if q.SortColumn == FieldID {
		return " ORDER BY id " + dir
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", field.column, dir)
}
