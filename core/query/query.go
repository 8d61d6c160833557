// Package query turns a descriptor and request parameters into the list
// parameters handed to a record store. Executing the query is the store's
// job; this package only resolves what to ask for.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/artpar/modeladmin/core/descriptor"
)

// Request parameter names understood by FromValues.
const (
	ParamPage   = "page"
	ParamSearch = "q"
	ParamSort   = "sort"
	ParamDir    = "dir"
)

// ListQuery describes one page of a list view.
type ListQuery struct {
	// Page is 1-based.
	Page    int
	PerPage int

	SortField string
	Ascending bool

	// Search is empty when the model has no search fields.
	Search       string
	SearchFields []string
}

// Default returns the first page in the descriptor's default order.
func Default(d descriptor.Erased) ListQuery {
	return ListQuery{
		Page:         1,
		PerPage:      d.ItemsPerPage(),
		SortField:    d.DefaultSortField(),
		Ascending:    d.DefaultSortAscending(),
		SearchFields: d.SearchFields(),
	}
}

// FromValues resolves request parameters against d. Unknown sort fields
// fall back to the default sort, a page below 1 becomes 1, a page whose
// offset would not fit in an int becomes the last page that does, and the
// search term is dropped when d has no search fields.
func FromValues(d descriptor.Erased, v url.Values) ListQuery {
	q := Default(d)

	if p, err := strconv.Atoi(v.Get(ParamPage)); err == nil && p > 1 {
		q.Page = min(p, maxPage(q.PerPage))
	}

	if field := v.Get(ParamSort); field != "" && d.HasField(field) {
		q.SortField = field
		// An explicit field without a direction sorts ascending.
		q.Ascending = true
	}
	switch strings.ToLower(v.Get(ParamDir)) {
	case "asc":
		q.Ascending = true
	case "desc":
		q.Ascending = false
	}

	if d.Searchable() {
		q.Search = strings.TrimSpace(v.Get(ParamSearch))
	}

	return q
}

// maxPage is the largest page whose offset and following page number
// still fit in an int.
func maxPage(perPage int) int {
	if perPage <= 0 {
		return math.MaxInt - 1
	}
	return (math.MaxInt-perPage)/perPage + 1
}

// Offset returns the number of records before the page. It saturates at
// math.MaxInt instead of overflowing.
func (q ListQuery) Offset() int {
	if q.Page < 1 || q.PerPage <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PerPage {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PerPage
}

// Limit returns the page size.
func (q ListQuery) Limit() int {
	return q.PerPage
}

// Pages returns the number of pages needed for total records, at least 1.
func (q ListQuery) Pages(total int64) int {
	if q.PerPage <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
}

// Values encodes q back into request parameters, omitting defaults of d.
func (q ListQuery) Values(d descriptor.Erased) url.Values {
	v := url.Values{}
	if q.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		v.Set(ParamSearch, q.Search)
	}
	if q.SortField != d.DefaultSortField() || q.Ascending != d.DefaultSortAscending() {
		v.Set(ParamSort, q.SortField)
		if q.Ascending {
			v.Set(ParamDir, "asc")
		} else {
			v.Set(ParamDir, "desc")
		}
	}
	return v
}

// WithPage returns a copy of q for another page.
func (q ListQuery) WithPage(page int) ListQuery {
	q.Page = page
	return q
}
