// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"errors"
	"time"

	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/query"
)

// ErrNotFound is returned by stores for unknown record IDs.
var ErrNotFound = errors.New("not found")

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Records
// -----------------------------------------------------------------------------

// Values holds the attribute values of a record keyed by field name.
// Single-valued kinds hold one element; multi-select and tag-list fields
// hold one element per value.
type Values map[string][]string

// Get returns the first value of a field, or "".
func (v Values) Get(name string) string {
	if vs := v[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Set replaces a field with a single value.
func (v Values) Set(name, value string) {
	v[name] = []string{value}
}

// Has reports whether the field is present.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Clone returns a deep copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Record is one stored instance of a model.
type Record struct {
	ID        string
	Values    Values
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Get returns a column value for list rendering. The implicit id,
// createdAt and updatedAt columns are served from the record itself.
func (r Record) Get(name string) string {
	switch name {
	case "id":
		return r.ID
	case "createdAt", "created_at":
		if r.Values.Has(name) {
			return r.Values.Get(name)
		}
		return formatTime(r.CreatedAt)
	case "updatedAt", "updated_at":
		if r.Values.Has(name) {
			return r.Values.Get(name)
		}
		return formatTime(r.UpdatedAt)
	}
	return r.Values.Get(name)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Page is one page of a list query.
type Page struct {
	Records []Record
	Total   int64
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// RecordStore persists records of registered models. Every call names the
// model through its erased descriptor; stores must not keep descriptors
// beyond what they need to address storage.
type RecordStore interface {
	// Ensure prepares storage for a model. It is called on registration
	// and must be idempotent.
	Ensure(ctx context.Context, d descriptor.Erased) error

	// List returns one page filtered, sorted and paginated per q.
	List(ctx context.Context, d descriptor.Erased, q query.ListQuery) (Page, error)

	// Get returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, d descriptor.Erased, id string) (Record, error)

	Create(ctx context.Context, d descriptor.Erased, values Values) (Record, error)

	// Update replaces the given values; fields absent from values keep
	// their stored value.
	Update(ctx context.Context, d descriptor.Erased, id string, values Values) (Record, error)

	Delete(ctx context.Context, d descriptor.Erased, id string) error
}
