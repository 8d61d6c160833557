package descriptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/artpar/modeladmin/core/convention"
	"github.com/artpar/modeladmin/core/schema"
)

// ErrInvalidDescriptor is wrapped by every Erase failure.
var ErrInvalidDescriptor = errors.New("invalid descriptor")

// Erased is a point-in-time snapshot of a ModelDescriptor with every
// default resolved. It keeps no reference to the concrete model type, so
// unrelated models can be stored side by side.
//
// An Erased value never changes after Erase returns: accessors hand out
// copies of its slices and maps. Erased itself implements ModelDescriptor,
// and erasing it again yields an equal value.
type Erased struct {
	modelName       string
	modelNamePlural string
	urlPath         string
	listFields      []string
	editFields      []schema.Field
	searchFields    []string
	sortField       string
	sortAscending   bool
	itemsPerPage    int
	listHeaders     map[string]string
}

var _ ModelDescriptor = Erased{}

// Erase copies every attribute of d and applies the conventional defaults.
// The copy is eager: later changes to whatever backs d are not seen.
// It fails if d is nil, has no plural name, resolves to an unusable URL
// path, or carries a malformed field schema.
func Erase(d ModelDescriptor) (Erased, error) {
	if d == nil {
		return Erased{}, fmt.Errorf("%w: nil descriptor", ErrInvalidDescriptor)
	}

	e := Erased{
		modelName:       d.ModelName(),
		modelNamePlural: d.ModelNamePlural(),
		urlPath:         d.URLPath(),
		listFields:      cloneStrings(d.ListFields()),
		editFields:      schema.CloneFields(d.EditFields()),
		searchFields:    cloneStrings(d.SearchFields()),
		sortField:       convention.SortField(d.DefaultSortField()),
		sortAscending:   d.DefaultSortAscending(),
		itemsPerPage:    convention.ItemsPerPage(d.ItemsPerPage()),
	}
	if e.urlPath == "" {
		e.urlPath = convention.URLPath(e.modelNamePlural)
	}
	if e.editFields == nil {
		e.editFields = []schema.Field{}
	}
	e.listHeaders = convention.ListHeaders(e.listFields, d.ListHeaders())

	if err := e.validate(); err != nil {
		return Erased{}, err
	}
	return e, nil
}

// MustErase is like Erase but panics on a malformed descriptor.
func MustErase(d ModelDescriptor) Erased {
	e, err := Erase(d)
	if err != nil {
		panic(err)
	}
	return e
}

func (e Erased) validate() error {
	var errs []string

	if e.modelNamePlural == "" {
		errs = append(errs, "plural model name is required")
	}
	if e.urlPath == "" {
		errs = append(errs, "url path is empty")
	} else if strings.ContainsAny(e.urlPath, "/?#") {
		errs = append(errs, fmt.Sprintf("url path %q must be a single path segment", e.urlPath))
	}
	for _, name := range e.listFields {
		if name == "" {
			errs = append(errs, "list fields contain an empty name")
			break
		}
	}
	for _, name := range e.searchFields {
		if name == "" {
			errs = append(errs, "search fields contain an empty name")
			break
		}
	}
	if err := schema.ValidateFields(e.editFields); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidDescriptor, e.modelName, strings.Join(errs, "; "))
	}
	return nil
}

func (e Erased) ModelName() string       { return e.modelName }
func (e Erased) ModelNamePlural() string { return e.modelNamePlural }
func (e Erased) URLPath() string         { return e.urlPath }

func (e Erased) ListFields() []string           { return cloneStrings(e.listFields) }
func (e Erased) EditFields() []schema.Field     { return schema.CloneFields(e.editFields) }
func (e Erased) SearchFields() []string         { return cloneStrings(e.searchFields) }
func (e Erased) ListHeaders() map[string]string { return maps.Clone(e.listHeaders) }

func (e Erased) DefaultSortField() string   { return e.sortField }
func (e Erased) DefaultSortAscending() bool { return e.sortAscending }
func (e Erased) ItemsPerPage() int          { return e.itemsPerPage }

// IsZero reports whether e is the zero value, as returned for misses.
func (e Erased) IsZero() bool {
	return e.urlPath == ""
}

// Searchable reports whether the model has at least one search field.
func (e Erased) Searchable() bool {
	return len(e.searchFields) > 0
}

// Header returns the list header of a field, falling back to the
// conventional header for fields without an entry.
func (e Erased) Header(field string) string {
	if h, ok := e.listHeaders[field]; ok {
		return h
	}
	return convention.Header(field)
}

// Field returns the edit field with the given name.
func (e Erased) Field(name string) (schema.Field, bool) {
	for _, f := range e.editFields {
		if f.Name == name {
			return f.Clone(), true
		}
	}
	return schema.Field{}, false
}

// HasField reports whether name is a list field, an edit field or the
// default sort field.
func (e Erased) HasField(name string) bool {
	if name == e.sortField || slices.Contains(e.listFields, name) {
		return true
	}
	_, ok := e.Field(name)
	return ok
}

// Equal reports whether e and other hold the same configuration.
func (e Erased) Equal(other Erased) bool {
	return e.modelName == other.modelName &&
		e.modelNamePlural == other.modelNamePlural &&
		e.urlPath == other.urlPath &&
		slices.Equal(e.listFields, other.listFields) &&
		slices.EqualFunc(e.editFields, other.editFields, schema.Field.Equal) &&
		slices.Equal(e.searchFields, other.searchFields) &&
		e.sortField == other.sortField &&
		e.sortAscending == other.sortAscending &&
		e.itemsPerPage == other.itemsPerPage &&
		maps.Equal(e.listHeaders, other.listHeaders)
}

type erasedJSON struct {
	ModelName            string            `json:"modelName"`
	ModelNamePlural      string            `json:"modelNamePlural"`
	URLPath              string            `json:"urlPath"`
	ListFields           []string          `json:"listFields"`
	EditFields           []schema.Field    `json:"editFields"`
	SearchFields         []string          `json:"searchFields"`
	DefaultSortField     string            `json:"defaultSortField"`
	DefaultSortAscending bool              `json:"defaultSortAscending"`
	ItemsPerPage         int               `json:"itemsPerPage"`
	ListHeaders          map[string]string `json:"listHeaders"`
}

// MarshalJSON encodes every attribute under its camel-cased name.
func (e Erased) MarshalJSON() ([]byte, error) {
	return json.Marshal(erasedJSON{
		ModelName:            e.modelName,
		ModelNamePlural:      e.modelNamePlural,
		URLPath:              e.urlPath,
		ListFields:           e.listFields,
		EditFields:           e.editFields,
		SearchFields:         e.searchFields,
		DefaultSortField:     e.sortField,
		DefaultSortAscending: e.sortAscending,
		ItemsPerPage:         e.itemsPerPage,
		ListHeaders:          e.listHeaders,
	})
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
