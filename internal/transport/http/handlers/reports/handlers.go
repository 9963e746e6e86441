package reportshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/auth"
	"personnel/internal/domain/employee"
	"personnel/internal/platform/jobs"
	"personnel/internal/platform/logging"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
)

var reportedJobs = []string{jobs.JobIdempotencyPurge, jobs.JobAuditRetention}

type Handler struct {
	Employees *employee.Service
	Audit     audit.Log
	Jobs      *jobs.Service
	Perms     middleware.PermissionStore
}

func NewHandler(employees *employee.Service, auditLog audit.Log, jobService *jobs.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Employees: employees, Audit: auditLog, Jobs: jobService, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/jobs", h.handleJobs)
	})
}

type dashboard struct {
	Employees   int `json:"employees"`
	AuditEvents int `json:"auditEvents"`
	Imports     int `json:"imports"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	var out dashboard

	employees, err := h.Employees.Count(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to count employees", middleware.GetRequestID(r.Context()))
		return
	}
	out.Employees = employees

	if out.AuditEvents, err = h.Audit.Count(r.Context(), audit.Filter{}); err != nil {
		logger.Warn("audit event count failed", "err", err)
	}
	if out.Imports, err = h.Audit.Count(r.Context(), audit.Filter{Action: "employee.import"}); err != nil {
		logger.Warn("import count failed", "err", err)
	}

	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

type jobRun struct {
	Type       string    `json:"type"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMS int64     `json:"durationMs"`
	Details    any       `json:"details,omitempty"`
	Error      string    `json:"error,omitempty"`
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	runs := make([]jobRun, 0, len(reportedJobs))
	if h.Jobs != nil {
		for _, jobType := range reportedJobs {
			run, ok := h.Jobs.LastRun(jobType)
			if !ok {
				continue
			}
			out := jobRun{
				Type:       run.Type,
				StartedAt:  run.StartedAt,
				DurationMS: run.Duration.Milliseconds(),
				Details:    run.Details,
			}
			if run.Err != nil {
				out.Error = run.Err.Error()
			}
			runs = append(runs, out)
		}
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}
