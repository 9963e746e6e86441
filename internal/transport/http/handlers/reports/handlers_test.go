package reportshandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/auth"
	"personnel/internal/domain/employee"
	"personnel/internal/platform/jobs"
	reportshandler "personnel/internal/transport/http/handlers/reports"
	"personnel/internal/transport/http/middleware"
)

func newRouter(t *testing.T, role string) (http.Handler, *jobs.Service) {
	t.Helper()
	ctx := context.Background()
	store := employee.NewMemoryStore()
	_, err := store.BulkInsert(ctx, []employee.Employee{{PayrollNumber: "E1"}, {PayrollNumber: "E2"}})
	require.NoError(t, err)

	log := audit.NewMemory()
	require.NoError(t, log.Record(ctx, "admin", "employee.import", "employee", "batch", "", "", nil, nil))
	require.NoError(t, log.Record(ctx, "admin", "employee.delete", "employee", "1", "", "", nil, nil))

	jobService := jobs.New()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", RoleName: role})))
		})
	})
	reportshandler.NewHandler(employee.NewService(store), log, jobService, auth.StaticPermissions{}).RegisterRoutes(r)
	return r, jobService
}

func TestDashboardCounts(t *testing.T) {
	router, _ := newRouter(t, auth.RoleHR)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"employees":2,"auditEvents":2,"imports":1}`, string(dataOf(t, rec)))
}

func TestJobsReportsLastRuns(t *testing.T) {
	router, jobService := newRouter(t, auth.RoleHR)
	_, err := jobService.RunNow(context.Background(), jobs.JobIdempotencyPurge, func(context.Context) (any, error) {
		return map[string]int{"deleted": 3}, nil
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/jobs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var runs []struct {
		Type      string          `json:"type"`
		StartedAt time.Time       `json:"startedAt"`
		Details   json.RawMessage `json:"details"`
	}
	require.NoError(t, json.Unmarshal(dataOf(t, rec), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, jobs.JobIdempotencyPurge, runs[0].Type)
	assert.JSONEq(t, `{"deleted":3}`, string(runs[0].Details))
}

func TestViewerCannotReadReports(t *testing.T) {
	router, _ := newRouter(t, auth.RoleViewer)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func dataOf(t *testing.T, rec *httptest.ResponseRecorder) json.RawMessage {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}
