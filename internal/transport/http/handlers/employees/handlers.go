package employeeshandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"personnel/internal/domain/audit"
	"personnel/internal/domain/auth"
	"personnel/internal/domain/employee"
	"personnel/internal/platform/logging"
	"personnel/internal/transport/http/api"
	"personnel/internal/transport/http/middleware"
	"personnel/internal/transport/http/shared"
)

const importEndpoint = "employees.import"

// Stats receives import and export outcomes.
type Stats interface {
	ImportSucceeded(rows int)
	ImportFailed(kind string)
	ExportRendered(format string)
}

type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxBodyBytes    int64
	MaxUploadBytes  int64
}

type Handler struct {
	Service     *employee.Service
	Audit       audit.Recorder
	Idempotency middleware.IdempotencyKeys
	Stats       Stats
	Perms       middleware.PermissionStore
	Limits      Limits
	Now         func() time.Time
}

func NewHandler(service *employee.Service, recorder audit.Recorder, keys middleware.IdempotencyKeys, stats Stats, perms middleware.PermissionStore, limits Limits) *Handler {
	return &Handler{
		Service:     service,
		Audit:       recorder,
		Idempotency: keys,
		Stats:       stats,
		Perms:       perms,
		Limits:      limits,
		Now:         time.Now,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)
	write := middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)
	importer := middleware.RequirePermission(auth.PermEmployeesImport, h.Perms)
	exporter := middleware.RequirePermission(auth.PermEmployeesExport, h.Perms)
	body := middleware.BodyLimit(h.Limits.MaxBodyBytes)
	upload := middleware.BodyLimit(h.Limits.MaxUploadBytes)

	r.Route("/employees", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(write, body).Post("/", h.handleCreate)
		r.With(importer, upload).Post("/import", h.handleImport)
		r.With(exporter).Get("/export/{format}", h.handleExport)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(read).Get("/", h.handleGet)
			r.With(write, body).Put("/", h.handleUpdate)
			r.With(write).Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := shared.ParsePagination(r, h.Limits.DefaultPageSize, h.Limits.MaxPageSize)
	query := employee.NewQuery(q.Get("search"), q.Get("sortColumn"), q.Get("sortDirection"), page.Page, page.PageSize)

	result, err := h.Service.Search(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}
	emp, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeEmployee(w, r)
	if !ok {
		return
	}

	created, err := h.Service.Create(r.Context(), payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.record(r, "employee.create", strconv.FormatInt(created.ID, 10), nil, created)
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}
	payload, ok := h.decodeEmployee(w, r)
	if !ok {
		return
	}
	payload.ID = id

	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Service.Update(r.Context(), payload); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.record(r, "employee.update", strconv.FormatInt(id, 10), before, payload)
	api.Success(w, payload, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	before, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.record(r, "employee.delete", strconv.FormatInt(id, 10), before, nil)
	api.Success(w, map[string]any{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	payload, err := readUpload(r, h.Limits.MaxUploadBytes)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "upload too large", reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unable to read csv payload", reqID)
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash(payload)
	if idempotencyKey != "" && h.Idempotency != nil {
		stored, found, err := h.Idempotency.Check(r.Context(), user.UserID, importEndpoint, idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different payload", reqID)
			return
		}
		if err != nil {
			logging.FromContext(r.Context()).Warn("idempotency check failed", "err", err)
		}
		if found {
			api.Success(w, stored, reqID)
			return
		}
	}

	batchID := uuid.NewString()
	logger := logging.WithFields(r.Context(), "import_id", batchID, "bytes", len(payload))

	imported, err := h.Service.Import(r.Context(), bytes.NewReader(payload))
	if err != nil {
		kind := failureKind(err)
		if h.Stats != nil {
			h.Stats.ImportFailed(kind)
		}
		logger.Info("employee import rejected", "kind", kind, "err", err)
		h.writeError(w, r, err)
		return
	}
	if h.Stats != nil {
		h.Stats.ImportSucceeded(imported)
	}
	logger.Info("employee import stored", "rows", imported)

	response := map[string]any{"imported": imported}
	h.record(r, "employee.import", batchID, nil, response)

	if idempotencyKey != "" && h.Idempotency != nil {
		encoded, err := json.Marshal(response)
		if err != nil {
			logger.Warn("idempotency response marshal failed", "err", err)
		} else if err := h.Idempotency.Save(r.Context(), user.UserID, importEndpoint, idempotencyKey, requestHash, encoded); err != nil {
			logger.Warn("idempotency save failed", "err", err)
		}
	}
	api.Success(w, response, reqID)
}

// readUpload accepts a multipart form with a "file" field or a raw body.
func readUpload(r *http.Request, maxBytes int64) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, err
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

var exportFormats = []string{"csv", "xlsx", "pdf"}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	v := shared.NewValidator()
	format := v.OneOf("format", chi.URLParam(r, "format"), "csv", exportFormats...)
	headers := v.OneOf("headers", r.URL.Query().Get("headers"), "native", "native", "import")
	if v.Reject(w, reqID) {
		return
	}

	var buf bytes.Buffer
	var contentType string
	var err error
	switch format {
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = h.Service.ExportXLSX(r.Context(), &buf)
	case "pdf":
		contentType = "application/pdf"
		err = h.Service.ExportPDF(r.Context(), &buf)
	default:
		contentType = "text/csv; charset=utf-8"
		style := employee.NativeHeaders
		if headers == "import" {
			style = employee.ExternalHeaders
		}
		err = h.Service.ExportCSV(r.Context(), &buf, style)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if h.Stats != nil {
		h.Stats.ExportRendered(format)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+employee.ExportFileName(h.Now(), format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Warn("export write failed", "format", format, "err", err)
	}
}

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "employee id must be a positive integer", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeEmployee(w http.ResponseWriter, r *http.Request) (employee.Employee, bool) {
	var payload employee.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var formatErr *employee.FormatError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &formatErr):
			h.writeError(w, r, err)
		case errors.As(err, &tooLarge):
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", middleware.GetRequestID(r.Context()))
		default:
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		}
		return employee.Employee{}, false
	}
	return payload, true
}

func (h *Handler) record(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, "employee", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		logging.FromContext(r.Context()).Warn("audit record failed", "action", action, "err", err)
	}
}
