package web

import (
	"errors"
	"net/http"

	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/query"
	"github.com/artpar/modeladmin/ports"
	"github.com/go-chi/chi/v5"
)

// -----------------------------------------------------------------------------
// Dashboard
// -----------------------------------------------------------------------------

// DashboardModel is one registered model on the dashboard.
type DashboardModel struct {
	Plural string
	Path   string
	URL    string
	NewURL string
	Fields int
}

// DashboardPage is the data for the dashboard.
type DashboardPage struct {
	PageData
	Models []DashboardModel
}

// Dashboard lists every registered model.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := DashboardPage{PageData: h.newPageData(r, "Dashboard")}
	for _, d := range h.registry.All() {
		data.Models = append(data.Models, DashboardModel{
			Plural: d.ModelNamePlural(),
			Path:   d.URLPath(),
			URL:    h.modelURL(d),
			NewURL: h.modelURL(d) + "/new",
			Fields: len(d.EditFields()),
		})
	}
	h.render(w, http.StatusOK, "dashboard", data)
}

// -----------------------------------------------------------------------------
// List
// -----------------------------------------------------------------------------

// ListPage shows one page of records.
func (h *Handler) ListPage(w http.ResponseWriter, r *http.Request) {
	d, _ := getModel(r.Context())
	q := query.FromValues(d, r.URL.Query())

	page, err := h.store.List(r.Context(), d, q)
	if err != nil {
		h.serverError(w, r, d, "list records", err)
		return
	}

	data := h.buildListPage(h.newPageData(r, d.ModelNamePlural()), d, q, page)
	h.render(w, http.StatusOK, "list", data)
}

// -----------------------------------------------------------------------------
// Create
// -----------------------------------------------------------------------------

// NewPage renders an empty form with field defaults.
func (h *Handler) NewPage(w http.ResponseWriter, r *http.Request) {
	d, _ := getModel(r.Context())
	h.renderForm(w, r, http.StatusOK, d, "", nil, nil)
}

// Create stores a submitted record and redirects to the list.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	d, _ := getModel(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	values, errs := ParseForm(d, r.PostForm, false)
	if errs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, d, "", values, errs)
		return
	}

	rec, err := h.store.Create(r.Context(), d, values)
	h.observe(d, "create", err)
	if err != nil {
		h.serverError(w, r, d, "create record", err)
		return
	}

	h.logger.Info().Str("model", d.URLPath()).Str("id", rec.ID).Msg("record created")
	http.Redirect(w, r, h.modelURL(d), http.StatusSeeOther)
}

// -----------------------------------------------------------------------------
// Update
// -----------------------------------------------------------------------------

// EditPage renders the form for an existing record.
func (h *Handler) EditPage(w http.ResponseWriter, r *http.Request) {
	d, _ := getModel(r.Context())
	id := chi.URLParam(r, "id")

	rec, err := h.store.Get(r.Context(), d, id)
	if errors.Is(err, ports.ErrNotFound) {
		h.notFound(w, r, d.ModelName()+" not found.")
		return
	}
	if err != nil {
		h.serverError(w, r, d, "get record", err)
		return
	}

	h.renderForm(w, r, http.StatusOK, d, rec.ID, rec.Values, nil)
}

// Update merges a submitted form into an existing record.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	d, _ := getModel(r.Context())
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	current, err := h.store.Get(r.Context(), d, id)
	if errors.Is(err, ports.ErrNotFound) {
		h.notFound(w, r, d.ModelName()+" not found.")
		return
	}
	if err != nil {
		h.serverError(w, r, d, "get record", err)
		return
	}

	values, errs := ParseForm(d, r.PostForm, true)
	if errs != nil {
		// Show submitted values over stored ones, keeping read-only fields.
		shown := current.Values.Clone()
		for k, vs := range values {
			shown[k] = vs
		}
		h.renderForm(w, r, http.StatusUnprocessableEntity, d, id, shown, errs)
		return
	}

	_, err = h.store.Update(r.Context(), d, id, values)
	h.observe(d, "update", err)
	if errors.Is(err, ports.ErrNotFound) {
		h.notFound(w, r, d.ModelName()+" not found.")
		return
	}
	if err != nil {
		h.serverError(w, r, d, "update record", err)
		return
	}

	h.logger.Info().Str("model", d.URLPath()).Str("id", id).Msg("record updated")
	http.Redirect(w, r, h.modelURL(d), http.StatusSeeOther)
}

// -----------------------------------------------------------------------------
// Delete
// -----------------------------------------------------------------------------

// Delete removes a record. It is only routed for POST; the confirmation
// happens client-side before the form is submitted.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	d, _ := getModel(r.Context())
	id := chi.URLParam(r, "id")

	err := h.store.Delete(r.Context(), d, id)
	h.observe(d, "delete", err)
	if errors.Is(err, ports.ErrNotFound) {
		h.notFound(w, r, d.ModelName()+" not found.")
		return
	}
	if err != nil {
		h.serverError(w, r, d, "delete record", err)
		return
	}

	h.logger.Info().Str("model", d.URLPath()).Str("id", id).Msg("record deleted")
	http.Redirect(w, r, h.modelURL(d), http.StatusSeeOther)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, d descriptor.Erased, id string, values ports.Values, errs FieldErrors) {
	existing := id != ""
	data := FormPage{
		Model:          d,
		IsNew:          !existing,
		RecordID:       id,
		Action:         h.modelURL(d) + "/new",
		CancelURL:      h.modelURL(d),
		Fields:         buildFields(d, values, errs, existing),
		Errors:         errs.Messages(),
		ConfirmMessage: DeleteConfirmation,
	}
	if existing {
		data.PageData = h.newPageData(r, "Edit "+d.ModelName())
		data.Action = h.recordURL(d, id, "edit")
		data.DeleteURL = h.recordURL(d, id, "delete")
	} else {
		data.PageData = h.newPageData(r, "New "+d.ModelName())
	}
	h.render(w, status, "form", data)
}

type notFoundPage struct {
	PageData
	Message string
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, message string) {
	h.render(w, http.StatusNotFound, "not_found", notFoundPage{
		PageData: h.newPageData(r, "Not Found"),
		Message:  message,
	})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, d descriptor.Erased, action string, err error) {
	h.logger.Error().Err(err).Str("model", d.URLPath()).Msg(action + " failed")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (h *Handler) observe(d descriptor.Erased, op string, err error) {
	if h.observer != nil {
		h.observer.ObserveRecordOp(d.URLPath(), op, err)
	}
}
