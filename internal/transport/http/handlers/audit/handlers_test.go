package audithandler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/auth"
	audithandler "personnel/internal/transport/http/handlers/audit"
	"personnel/internal/transport/http/middleware"
)

func newRouter(log audit.Log, role string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{UserID: "u1", RoleName: role})))
		})
	})
	audithandler.NewHandler(log, auth.StaticPermissions{}).RegisterRoutes(r)
	return r
}

func seededLog(t *testing.T) *audit.Memory {
	t.Helper()
	log := audit.NewMemory()
	ctx := context.Background()
	require.NoError(t, log.Record(ctx, "admin", "employee.create", "employee", "1", "r1", "10.0.0.1", nil, map[string]string{"surname": "A"}))
	require.NoError(t, log.Record(ctx, "admin", "employee.create", "employee", "2", "r2", "10.0.0.1", nil, nil))
	require.NoError(t, log.Record(ctx, "admin", "employee.delete", "employee", "1", "r3", "10.0.0.1", nil, nil))
	return log
}

func TestListEventsFiltersAndCounts(t *testing.T) {
	router := newRouter(seededLog(t), auth.RoleHR)

	req := httptest.NewRequest(http.MethodGet, "/audit/events?entityId=1&includeDetails=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))

	var env struct {
		Data []audit.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 2)
	assert.Equal(t, "employee.delete", env.Data[0].Action)
	assert.JSONEq(t, `{"surname":"A"}`, string(env.Data[1].After))
}

func TestExportEventsCSV(t *testing.T) {
	router := newRouter(seededLog(t), auth.RoleHR)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events/export?action=employee.create", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=audit-events.csv", rec.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "actor_id", rows[0][1])
}

func TestViewerCannotReadAudit(t *testing.T) {
	router := newRouter(seededLog(t), auth.RoleViewer)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit/events", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
