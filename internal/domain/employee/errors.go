package employee

import (
	"errors"
	"fmt"
	"strings"
)

// FieldIssue describes one failed rule on one field.
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports missing or invalid business fields. Row is the
// 1-based data row of an import, or zero outside an import.
type ValidationError struct {
	Row    int
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+" "+issue.Reason)
	}
	msg := strings.Join(parts, "; ")
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	return msg
}

// NotFoundError reports an operation on an id the store does not hold.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("employee %d not found", e.ID)
}

// FormatError reports date text that matches none of the accepted layouts.
type FormatError struct {
	Row      int
	Column   string
	Text     string
	Patterns []string
}

func (e *FormatError) Error() string {
	var b strings.Builder
	if e.Row > 0 {
		fmt.Fprintf(&b, "row %d: ", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, "%s: ", e.Column)
	}
	fmt.Fprintf(&b, "invalid date format: %q. Supported formats: %s", e.Text, strings.Join(e.Patterns, ", "))
	return b.String()
}

// EmptyInputError reports an import that produced no records.
type EmptyInputError struct {
	Reason string
}

func (e *EmptyInputError) Error() string {
	if e.Reason == "" {
		return "csv file is empty or invalid"
	}
	return "csv file is empty or invalid: " + e.Reason
}

func withColumn(err error, column string) error {
	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		formatErr.Column = column
	}
	return err
}
