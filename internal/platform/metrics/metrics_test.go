package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecordCountsByRouteAndStatus(t *testing.T) {
	c := New()
	c.Record("/api/v1/employees", http.MethodGet, 200, 15*time.Millisecond)
	c.Record("/api/v1/employees", http.MethodGet, 200, 5*time.Millisecond)
	c.Record("/api/v1/employees/import", http.MethodPost, 429, time.Millisecond)
	c.Record("", http.MethodGet, 404, time.Millisecond)

	body := scrape(t, c)
	assert.Contains(t, body, `personnel_http_requests_total{method="GET",route="/api/v1/employees",status="200"} 2`)
	assert.Contains(t, body, `personnel_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, `personnel_http_rate_limited_total 1`)
}

func TestImportAndExportCounters(t *testing.T) {
	c := New()
	c.ImportSucceeded(12)
	c.ImportSucceeded(3)
	c.ImportFailed("format")
	c.ExportRendered("csv")

	body := scrape(t, c)
	assert.Contains(t, body, `personnel_import_rows_total 15`)
	assert.Contains(t, body, `personnel_import_failures_total{kind="format"} 1`)
	assert.Contains(t, body, `personnel_exports_total{format="csv"} 1`)
}
