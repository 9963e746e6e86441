package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and pageSize. Missing or malformed values take
// the defaults; pageSize is capped at maxPageSize.
func ParsePagination(r *http.Request, defaultPageSize, maxPageSize int) Pagination {
	page := 1
	pageSize := defaultPageSize
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			pageSize = v
		}
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}
