// Package listing implements search, sort and pagination over in-memory
// slices for the dashboard grids.
package listing

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// Query holds the list parameters sent by a grid
type Query struct {
	Page     int
	PageSize int
	Search   string
	SortBy   string
	Desc     bool
}

// Page is one page of results
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// Fields names the searchable and sortable string projections of T
type Fields[T any] map[string]func(T) string

// FromValues reads page, pageSize, q, sort and order from query parameters.
// A sort value prefixed with "-" means descending.
func FromValues(v url.Values) Query {
	q := Query{
		Search: strings.TrimSpace(v.Get("q")),
		SortBy: strings.TrimSpace(v.Get("sort")),
	}
	q.Page, _ = strconv.Atoi(v.Get("page"))
	q.PageSize, _ = strconv.Atoi(v.Get("pageSize"))

	if strings.HasPrefix(q.SortBy, "-") {
		q.SortBy = strings.TrimPrefix(q.SortBy, "-")
		q.Desc = true
	}
	if strings.EqualFold(v.Get("order"), "desc") {
		q.Desc = true
	}
	return q.normalized()
}

func (q Query) normalized() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Apply filters items whose fields contain the search term (case-insensitive),
// sorts them stably by the requested field and cuts the requested page.
// Unknown sort fields keep the input order. The input slice is not modified.
func Apply[T any](items []T, q Query, fields Fields[T]) Page[T] {
	q = q.normalized()

	filtered := make([]T, 0, len(items))
	term := strings.ToLower(q.Search)
	for _, item := range items {
		if term == "" || matches(item, term, fields) {
			filtered = append(filtered, item)
		}
	}

	if key, ok := fields[q.SortBy]; ok {
		slices.SortStableFunc(filtered, func(a, b T) int {
			c := strings.Compare(strings.ToLower(key(a)), strings.ToLower(key(b)))
			if q.Desc {
				return -c
			}
			return c
		})
	}

	total := len(filtered)
	start := (q.Page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      filtered[start:end],
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: (total + q.PageSize - 1) / q.PageSize,
	}
}

func matches[T any](item T, term string, fields Fields[T]) bool {
	for _, get := range fields {
		if strings.Contains(strings.ToLower(get(item)), term) {
			return true
		}
	}
	return false
}
