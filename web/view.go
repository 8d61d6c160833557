package web

import (
	"net/url"
	"strings"

	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/query"
	"github.com/artpar/modeladmin/core/schema"
	"github.com/artpar/modeladmin/ports"
)

// DeleteConfirmation is the prompt shown before a delete is submitted.
const DeleteConfirmation = "Are you sure you want to delete this?"

// Column is one list column header.
type Column struct {
	Field     string
	Header    string
	SortURL   string
	Sorted    bool
	Ascending bool
}

// Row is one record in a list.
type Row struct {
	ID        string
	Cells     []string
	EditURL   string
	DeleteURL string
}

// ListPage is the data for a model's list view.
type ListPage struct {
	PageData
	Model   descriptor.Erased
	NewURL  string
	Columns []Column
	Rows    []Row

	Searchable bool
	Search     string
	Total      int64
	Page       int
	Pages      int
	PrevURL    string
	NextURL    string

	ConfirmMessage string
}

// FieldView is one form control.
type FieldView struct {
	schema.Field
	InputType string
	Value     string
	Values    []string
	Checked   bool
	Disabled  bool
	Error     string
}

// Selected reports whether an option value is currently chosen.
func (f FieldView) Selected(value string) bool {
	for _, v := range f.Values {
		if v == value {
			return true
		}
	}
	return false
}

// Control names the widget the form template renders for the field.
func (f FieldView) Control() string {
	switch f.Kind {
	case schema.KindMultiline:
		return "textarea"
	case schema.KindRichText:
		return "richtext"
	case schema.KindBoolean:
		return "checkbox"
	case schema.KindSelect:
		return "select"
	case schema.KindMultiSelect:
		return "multiselect"
	case schema.KindHidden:
		return "hidden"
	}
	return "input"
}

// FormPage is the data for the new and edit views.
type FormPage struct {
	PageData
	Model     descriptor.Erased
	IsNew     bool
	RecordID  string
	Action    string
	CancelURL string
	DeleteURL string
	Fields    []FieldView
	Errors    []string

	ConfirmMessage string
}

func (h *Handler) modelURL(d descriptor.Erased) string {
	return h.prefix + "/" + url.PathEscape(d.URLPath())
}

func (h *Handler) recordURL(d descriptor.Erased, id, action string) string {
	return h.modelURL(d) + "/" + url.PathEscape(id) + "/" + action
}

func (h *Handler) listURL(d descriptor.Erased, q query.ListQuery) string {
	u := h.modelURL(d)
	if v := q.Values(d); len(v) > 0 {
		u += "?" + v.Encode()
	}
	return u
}

func (h *Handler) buildListPage(data PageData, d descriptor.Erased, q query.ListQuery, page ports.Page) ListPage {
	lp := ListPage{
		PageData:       data,
		Model:          d,
		NewURL:         h.modelURL(d) + "/new",
		Searchable:     d.Searchable(),
		Search:         q.Search,
		Total:          page.Total,
		Page:           q.Page,
		Pages:          q.Pages(page.Total),
		ConfirmMessage: DeleteConfirmation,
	}

	list := d.ListFields()
	for _, name := range list {
		col := Column{Field: name, Header: d.Header(name)}
		if d.HasField(name) {
			next := q.WithPage(1)
			next.SortField = name
			next.Ascending = !(q.SortField == name && q.Ascending)
			col.SortURL = h.listURL(d, next)
		}
		if q.SortField == name {
			col.Sorted, col.Ascending = true, q.Ascending
		}
		lp.Columns = append(lp.Columns, col)
	}

	for _, rec := range page.Records {
		row := Row{
			ID:        rec.ID,
			EditURL:   h.recordURL(d, rec.ID, "edit"),
			DeleteURL: h.recordURL(d, rec.ID, "delete"),
		}
		for _, name := range list {
			row.Cells = append(row.Cells, cellText(d, rec, name))
		}
		lp.Rows = append(lp.Rows, row)
	}

	if q.Page > 1 {
		lp.PrevURL = h.listURL(d, q.WithPage(q.Page-1))
	}
	if q.Page < lp.Pages {
		lp.NextURL = h.listURL(d, q.WithPage(q.Page+1))
	}
	return lp
}

// cellText renders a record value as list text using the field's kind when
// the column is also an edit field.
func cellText(d descriptor.Erased, rec ports.Record, name string) string {
	f, ok := d.Field(name)
	if !ok {
		return rec.Get(name)
	}

	vs := rec.Values[name]
	switch f.Kind {
	case schema.KindBoolean:
		if rec.Get(name) == "true" {
			return "Yes"
		}
		return "No"
	case schema.KindPassword:
		if rec.Get(name) == "" {
			return ""
		}
		return "••••••"
	case schema.KindSelect:
		return f.OptionLabel(rec.Get(name))
	case schema.KindMultiSelect:
		labels := make([]string, 0, len(vs))
		for _, v := range vs {
			labels = append(labels, f.OptionLabel(v))
		}
		return strings.Join(labels, ", ")
	case schema.KindTagList:
		return strings.Join(vs, ", ")
	case schema.KindRichText:
		return truncate(strings.TrimSpace(plainText.Sanitize(rec.Get(name))), 80)
	}
	return rec.Get(name)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func inputType(k schema.Kind) string {
	switch k {
	case schema.KindEmail:
		return "email"
	case schema.KindURL:
		return "url"
	case schema.KindPassword:
		return "password"
	case schema.KindNumber:
		return "number"
	case schema.KindDate:
		return "date"
	case schema.KindDateTime:
		return "datetime-local"
	case schema.KindHidden:
		return "hidden"
	}
	return "text"
}

// buildFields prepares form controls. values are the stored or submitted
// values; nil values on a new record fall back to each field's default.
func buildFields(d descriptor.Erased, values ports.Values, errs FieldErrors, existing bool) []FieldView {
	fields := d.EditFields()
	out := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		vs, ok := values[f.Name]
		if !ok && !existing && f.DefaultValue != "" {
			vs = []string{f.DefaultValue}
		}

		fv := FieldView{
			Field:     f,
			InputType: inputType(f.Kind),
			Values:    vs,
			Disabled:  existing && f.ReadOnly,
			Error:     errs[f.Name],
		}
		switch {
		case f.Kind == schema.KindTagList:
			fv.Value = strings.Join(vs, ", ")
		case f.Kind == schema.KindPassword:
			// never echoed back
		case len(vs) > 0:
			fv.Value = vs[0]
		}
		fv.Checked = f.Kind == schema.KindBoolean && fv.Value == "true"
		out = append(out, fv)
	}
	return out
}
