package employeeshandler

import (
	"errors"
	"net/http"

	"personnel/internal/domain/employee"
	"personnel/internal/platform/logging"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())

	var validationErr *employee.ValidationError
	var notFound *employee.NotFoundError
	var formatErr *employee.FormatError
	var emptyErr *employee.EmptyInputError

	switch {
	case errors.As(err, &validationErr):
		issues := make([]shared.ValidationIssue, 0, len(validationErr.Issues))
		for _, issue := range validationErr.Issues {
			issues = append(issues, shared.ValidationIssue{Field: issue.Field, Reason: issue.Reason})
		}
		if validationErr.Row == 0 {
			shared.FailValidation(w, reqID, issues)
			return
		}
		shared.FailRowValidation(w, reqID, validationErr.Row, validationErr.Error(), issues)
	case errors.As(err, &notFound):
		api.Fail(w, http.StatusNotFound, "not_found", notFound.Error(), reqID)
	case errors.As(err, &formatErr):
		api.FailWithDetails(w, http.StatusUnprocessableEntity, "invalid_format", formatErr.Error(), map[string]any{
			"row":      formatErr.Row,
			"column":   formatErr.Column,
			"text":     formatErr.Text,
			"patterns": formatErr.Patterns,
		}, reqID)
	case errors.As(err, &emptyErr):
		api.Fail(w, http.StatusBadRequest, "empty_input", emptyErr.Error(), reqID)
	default:
		logging.FromContext(r.Context()).Error("employee request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "request failed", reqID)
	}
}

func failureKind(err error) string {
	var validationErr *employee.ValidationError
	var formatErr *employee.FormatError
	var emptyErr *employee.EmptyInputError
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &formatErr):
		return "format"
	case errors.As(err, &emptyErr):
		return "empty_input"
	default:
		return "internal"
	}
}
