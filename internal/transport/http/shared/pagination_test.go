package shared

import (
	"net/http/httptest"
	"testing"
)

func TestParsePaginationDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/search", nil)
	p := ParsePagination(req, 20, 100)
	if p.Page != 1 || p.PerPage != 20 {
		t.Fatalf("defaults = %+v, want page 1 per_page 20", p)
	}
	if p.Skip() != 0 || p.Limit() != 20 {
		t.Fatalf("skip/limit = %d/%d, want 0/20", p.Skip(), p.Limit())
	}
}

func TestParsePaginationExplicit(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/search?page=3&per_page=25", nil)
	p := ParsePagination(req, 20, 100)
	if p.Page != 3 || p.PerPage != 25 {
		t.Fatalf("got %+v, want page 3 per_page 25", p)
	}
	if p.Skip() != 50 {
		t.Fatalf("skip = %d, want 50", p.Skip())
	}
}

func TestParsePaginationClampsAndIgnoresJunk(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/search?page=-2&per_page=9999", nil)
	p := ParsePagination(req, 20, 100)
	if p.Page != 1 {
		t.Fatalf("negative page should fall back to 1, got %d", p.Page)
	}
	if p.PerPage != 100 {
		t.Fatalf("per_page should be capped at 100, got %d", p.PerPage)
	}

	req = httptest.NewRequest("GET", "/api/search?page=abc", nil)
	p = ParsePagination(req, 20, 100)
	if p.Page != 1 {
		t.Fatalf("non-numeric page should fall back to 1, got %d", p.Page)
	}
}

func TestPages(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
		{5, 0, 1},
	}
	for _, tc := range tests {
		tc := tc
		if got := Pages(tc.total, tc.perPage); got != tc.want {
			t.Fatalf("Pages(%d, %d) = %d, want %d", tc.total, tc.perPage, got, tc.want)
		}
	}
}
