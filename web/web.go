// Package web provides the SSR administrator panel.
// All templates and static files are embedded in the binary.
// Pages are generated from registered model descriptors; there is no
// per-model handler code.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/artpar/modeladmin/core/registry"
	"github.com/artpar/modeladmin/ports"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

//go:embed templates/* static/*
var assets embed.FS

// Defaults applied by NewHandler.
const (
	DefaultPrefix = "/administrator"
	DefaultTitle  = "Administrator"
)

// RecordObserver is notified of record writes. adapters/metrics.Collector
// implements it.
type RecordObserver interface {
	ObserveRecordOp(model, op string, err error)
}

// Handler provides the admin UI endpoints.
type Handler struct {
	templates map[string]*template.Template // One template per page
	registry  *registry.Registry
	store     ports.RecordStore
	observer  RecordObserver
	logger    zerolog.Logger
	prefix    string
	title     string
}

// Deps contains dependencies for the web handler.
type Deps struct {
	Registry *registry.Registry
	Store    ports.RecordStore
	Observer RecordObserver // optional
	Logger   zerolog.Logger

	// Prefix is the path the router is mounted under; links include it.
	Prefix string
	Title  string
}

// NewHandler creates a new admin UI handler.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Registry == nil {
		return nil, fmt.Errorf("web: registry is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("web: record store is required")
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	prefix := strings.TrimSuffix(deps.Prefix, "/")
	if deps.Prefix == "" {
		prefix = DefaultPrefix
	}
	title := deps.Title
	if title == "" {
		title = DefaultTitle
	}

	return &Handler{
		templates: tmpl,
		registry:  deps.Registry,
		store:     deps.Store,
		observer:  deps.Observer,
		logger:    deps.Logger,
		prefix:    prefix,
		title:     title,
	}, nil
}

// Prefix returns the mount path of the router.
func (h *Handler) Prefix() string {
	return h.prefix
}

// Router returns the admin UI router. Mount it under Prefix.
//
//	GET  /                      dashboard
//	GET  /{path}                list
//	GET  /{path}/new            new form
//	POST /{path}/new            create
//	GET  /{path}/{id}/edit      edit form
//	POST /{path}/{id}/edit      update
//	POST /{path}/{id}/delete    delete
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	staticFS, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", http.StripPrefix(h.prefix+"/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", h.Dashboard)

	r.Route("/{path}", func(r chi.Router) {
		r.Use(h.ModelMiddleware)

		r.Get("/", h.ListPage)
		r.Get("/new", h.NewPage)
		r.Post("/new", h.Create)
		r.Get("/{id}/edit", h.EditPage)
		r.Post("/{id}/edit", h.Update)
		r.Post("/{id}/delete", h.Delete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.notFound(w, r, "The page you requested does not exist.")
	})

	return r
}

// ModelMiddleware resolves the {path} URL parameter against the registry
// and responds 404 for unregistered paths.
func (h *Handler) ModelMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := chi.URLParam(r, "path")
		d, ok := h.registry.Lookup(path)
		if !ok {
			h.notFound(w, r, fmt.Sprintf("No model is registered at %q.", path))
			return
		}
		next.ServeHTTP(w, r.WithContext(withModel(r.Context(), d)))
	})
}

type deleteControl struct {
	URL     string
	Message string
}

// Helper to parse all templates with layouts
func parseTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"deleteControl": func(url, message string) deleteControl {
			return deleteControl{URL: url, Message: message}
		},
	}

	pages := []string{"dashboard", "list", "form", "not_found"}
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(assets,
			"templates/base.html",
			"templates/components.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return templates, nil
}

// Helper to render templates
// The name should be the page name (e.g., "dashboard", "list", "form")
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := h.templates[name]
	if !ok {
		h.logger.Error().Str("template", name).Msg("template not found")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("template render error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, buf.String())
}
