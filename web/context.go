package web

import (
	"context"
	"net/http"

	"github.com/artpar/modeladmin/core/descriptor"
)

type ctxKey string

const modelKey ctxKey = "model"

// withModel adds the resolved descriptor to the context.
func withModel(ctx context.Context, d descriptor.Erased) context.Context {
	return context.WithValue(ctx, modelKey, d)
}

// getModel retrieves the resolved descriptor from context.
func getModel(ctx context.Context) (descriptor.Erased, bool) {
	d, ok := ctx.Value(modelKey).(descriptor.Erased)
	return d, ok
}

// PageData holds common data for all pages.
type PageData struct {
	Title    string
	SiteName string
	Prefix   string
	Nav      []NavItem
	Active   string
}

// NavItem is one entry of the model navigation.
type NavItem struct {
	Label string
	URL   string
	Path  string
}

// newPageData creates base page data with the navigation built from the
// registry at request time.
func (h *Handler) newPageData(r *http.Request, title string) PageData {
	data := PageData{
		Title:    title,
		SiteName: h.title,
		Prefix:   h.prefix,
	}
	for _, d := range h.registry.All() {
		data.Nav = append(data.Nav, NavItem{
			Label: d.ModelNamePlural(),
			URL:   h.modelURL(d),
			Path:  d.URLPath(),
		})
	}
	if d, ok := getModel(r.Context()); ok {
		data.Active = d.URLPath()
	}
	return data
}
