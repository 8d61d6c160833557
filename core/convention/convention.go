// Package convention derives the defaults of a model descriptor.
// Every default is a pure function of the descriptor's own data and is
// applied once, when the descriptor is erased for registration.
package convention

import (
	"maps"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultSortField is the implicit identity field lists sort on.
	DefaultSortField = "id"

	// DefaultSortAscending is false: lists show newest first.
	DefaultSortAscending = false

	// DefaultItemsPerPage is the page size of list views.
	DefaultItemsPerPage = 25
)

// URLPath derives the URL path segment of a model from its plural name:
// lower-cased, with every space replaced by a hyphen. "Blog Posts" becomes
// "blog-posts". Nothing else is rewritten.
func URLPath(plural string) string {
	return strings.ReplaceAll(strings.ToLower(plural), " ", "-")
}

// Header derives a list column header from a field name by upper-casing
// the first letter and lower-casing the rest: "title" becomes "Title" and
// "createdAt" becomes "Createdat". Embedded capitals are not treated as
// word boundaries; downstream consumers rely on this exact string.
func Header(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(field[size:])
}

// ListHeaders returns a copy of explicit when it is non-nil: an explicit
// map replaces the derived one as a whole and is never merged with it.
// Otherwise every list field gets the header derived by Header.
func ListHeaders(listFields []string, explicit map[string]string) map[string]string {
	if explicit != nil {
		return maps.Clone(explicit)
	}
	headers := make(map[string]string, len(listFields))
	for _, name := range listFields {
		headers[name] = Header(name)
	}
	return headers
}

// SortField returns field, or DefaultSortField when field is empty.
func SortField(field string) string {
	if field == "" {
		return DefaultSortField
	}
	return field
}

// ItemsPerPage returns n, or DefaultItemsPerPage when n is not positive.
func ItemsPerPage(n int) int {
	if n <= 0 {
		return DefaultItemsPerPage
	}
	return n
}
