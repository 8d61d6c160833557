package http

import (
	"fmt"
	"net/http"

	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/registry"
	"github.com/go-chi/chi/v5"
)

// ModelsResponse is the body of GET /api/models.
type ModelsResponse struct {
	Models []descriptor.Erased `json:"models"`
	Total  int                 `json:"total" example:"2"`
}

// ModelsHandler serves registered descriptors as JSON.
type ModelsHandler struct {
	registry *registry.Registry
}

// NewModelsHandler creates a models handler reading from reg.
func NewModelsHandler(reg *registry.Registry) *ModelsHandler {
	return &ModelsHandler{registry: reg}
}

// Router returns the models API routes. Mount it at /api/models.
func (h *ModelsHandler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{path}", h.Get)
	return r
}

// List returns every registered model.
//
//	@Summary		List registered models
//	@Description	Returns every registered model descriptor ordered by plural name
//	@Tags			Models
//	@Produce		json
//	@Success		200	{object}	ModelsResponse	"Registered models"
//	@Router			/api/models [get]
func (h *ModelsHandler) List(w http.ResponseWriter, r *http.Request) {
	models := h.registry.All()
	writeJSON(w, http.StatusOK, ModelsResponse{Models: models, Total: len(models)})
}

// Get returns one registered model.
//
//	@Summary		Get a registered model
//	@Description	Returns the descriptor registered at the given URL path
//	@Tags			Models
//	@Produce		json
//	@Param			path	path		string				true	"Model URL path"
//	@Success		200		{object}	descriptor.Erased	"Model descriptor"
//	@Failure		404		{object}	ErrorResponseBody	"No model registered at path"
//	@Router			/api/models/{path} [get]
func (h *ModelsHandler) Get(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")
	d, ok := h.registry.Lookup(path)
	if !ok {
		writeError(w, http.StatusNotFound, "model_not_found",
			fmt.Sprintf("no model is registered at %q", path))
		return
	}
	writeJSON(w, http.StatusOK, d)
}
