package shared

import (
	"net/http"
	"strconv"
)

// Pagination is page-number based: pages are 1-indexed and capped per page.
type Pagination struct {
	Page    int
	PerPage int
}

func ParsePagination(r *http.Request, defaultPerPage, maxPerPage int) Pagination {
	page := 1
	perPage := defaultPerPage
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			perPage = v
		}
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

func (p Pagination) Skip() int64 {
	return int64(p.Page-1) * int64(p.PerPage)
}

func (p Pagination) Limit() int64 {
	return int64(p.PerPage)
}

// Pages reports the page count for a total, never less than 1.
func Pages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		return 1
	}
	return pages
}
