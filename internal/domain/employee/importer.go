package employee

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a personnel export into records. The first row is the
// header; columns are matched by exact external header name, unknown columns
// are ignored and missing ones leave the field at its zero value. Rows are
// numbered from 1 for the first data row.
//
// A date that matches no accepted layout aborts the parse with a
// *FormatError. Input without any data row yields an *EmptyInputError.
func ParseCSV(r io.Reader) ([]Employee, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &EmptyInputError{Reason: "no header row"}
	}
	if err != nil {
		return nil, &EmptyInputError{Reason: err.Error()}
	}

	type boundColumn struct {
		index  int
		header string
		field  string
	}
	bound := make([]boundColumn, 0, len(importColumns))
	for i, h := range headers {
		if field, ok := FieldForHeader(h); ok {
			bound = append(bound, boundColumn{index: i, header: h, field: field})
		}
	}

	records := make([]Employee, 0)
	for row := 1; ; row++ {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &EmptyInputError{Reason: err.Error()}
		}
		var e Employee
		for _, col := range bound {
			if col.index >= len(cells) {
				continue
			}
			if err := setField(&e, col.field, cells[col.index]); err != nil {
				var formatErr *FormatError
				if errors.As(err, &formatErr) {
					formatErr.Row = row
					formatErr.Column = col.header
				}
				return nil, err
			}
		}
		records = append(records, e)
	}

	if len(records) == 0 {
		return nil, &EmptyInputError{Reason: "no data rows"}
	}
	return records, nil
}
