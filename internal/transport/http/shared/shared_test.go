package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, PageSize: 5}},
		{"?page=3&pageSize=20", Pagination{Page: 3, PageSize: 20}},
		{"?page=0&pageSize=-1", Pagination{Page: 1, PageSize: 5}},
		{"?page=abc&pageSize=xyz", Pagination{Page: 1, PageSize: 5}},
		{"?pageSize=5000", Pagination{Page: 1, PageSize: 100}},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/employees"+tc.query, nil)
		assert.Equal(t, tc.want, ParsePagination(r, 5, 100), tc.query)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}

func TestValidatorRejectSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("username", " ")
	assert.Empty(t, v.OneOf("headers", "weird", "native", "native", "import"))
	v.Required("password", "pw")
	require.True(t, v.HasIssues())

	rec := httptest.NewRecorder()
	require.True(t, v.Reject(rec, "req-9"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "validation_error", env.Error.Code)
	assert.Equal(t, []ValidationIssue{
		{Field: "headers", Reason: "must be one of native, import"},
		{Field: "username", Reason: "is required"},
	}, env.Error.Details.Fields)
}

func TestValidatorOneOfNormalises(t *testing.T) {
	v := NewValidator()
	assert.Equal(t, "native", v.OneOf("headers", "", "native", "native", "import"))
	assert.Equal(t, "xlsx", v.OneOf("format", " XLSX ", "csv", "csv", "xlsx", "pdf"))
	assert.False(t, v.HasIssues())
	assert.False(t, v.Reject(httptest.NewRecorder(), ""))
}

func TestFailRowValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	FailRowValidation(rec, "req-1", 3, "row 3: payrollNumber is required", []ValidationIssue{{Field: "payrollNumber", Reason: "is required"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Error struct {
			Message string `json:"message"`
			Details struct {
				Row    int               `json:"row"`
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 3, env.Error.Details.Row)
	assert.Equal(t, "row 3: payrollNumber is required", env.Error.Message)
	assert.Len(t, env.Error.Details.Fields, 1)
}
