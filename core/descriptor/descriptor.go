// Package descriptor defines the capability a model must implement to be
// administrable, and the erased snapshot the registry stores.
package descriptor

import "github.com/artpar/modeladmin/core/schema"

// ModelDescriptor is implemented by every administrable model.
//
// ModelName, ModelNamePlural, ListFields and EditFields carry the model's
// own data. The remaining methods may return their zero value to ask for
// the conventional default, which is resolved once by Erase:
//
//	URLPath              ""    -> plural name, lower-cased, spaces to hyphens
//	SearchFields         nil   -> no search
//	DefaultSortField     ""    -> "id"
//	DefaultSortAscending false -> newest first
//	ItemsPerPage         0     -> 25
//	ListHeaders          nil   -> capitalized field name per list field
//
// A non-nil ListHeaders map is kept exactly as returned; it replaces the
// derived headers instead of being merged with them. Erased.Header still
// derives a header for any field the map leaves out.
//
// Embed Defaults to get all of those for free.
type ModelDescriptor interface {
	ModelName() string
	ModelNamePlural() string
	URLPath() string

	// ListFields are the field names shown as list columns, in order.
	ListFields() []string

	// EditFields is the schema of the create/edit form, in order. It is
	// independent of ListFields.
	EditFields() []schema.Field

	SearchFields() []string
	DefaultSortField() string
	DefaultSortAscending() bool
	ItemsPerPage() int
	ListHeaders() map[string]string
}

// Defaults supplies the zero value of every optional ModelDescriptor
// method. Embed it and override only what differs.
type Defaults struct{}

func (Defaults) URLPath() string                { return "" }
func (Defaults) SearchFields() []string         { return nil }
func (Defaults) DefaultSortField() string       { return "" }
func (Defaults) DefaultSortAscending() bool     { return false }
func (Defaults) ItemsPerPage() int              { return 0 }
func (Defaults) ListHeaders() map[string]string { return nil }
