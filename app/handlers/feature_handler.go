package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/andrisetya/go-catalog/app/helpers"
	"github.com/andrisetya/go-catalog/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type FeatureHandler struct {
	catalog   *services.CatalogService
	validator *validator.Validate
	render    *render.Render
	pageSize  int
}

func NewFeatureHandler(catalog *services.CatalogService, v *validator.Validate, r *render.Render, pageSize int) *FeatureHandler {
	return &FeatureHandler{catalog: catalog, validator: v, render: r, pageSize: pageSize}
}

// ByCategory handles GET /feature/category/{id}/: the distinct feature keys
// of a category, each with its selectable options.
func (h *FeatureHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	page := helpers.PageParam(r)

	groups, total, err := h.catalog.ListCategoryFeatures(r.Context(), pathID(r, "id"), h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	if helpers.InvalidPage(total, page, h.pageSize) {
		writeInvalidPage(h.render, w)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, helpers.NewPage(r, total, page, h.pageSize, groups))
}

// Create handles POST /feature/ (staff only).
func (h *FeatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateFeatureInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(h.render, w, "Invalid request body.")
		return
	}
	if err := h.validator.Struct(input); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	item, err := h.catalog.CreateFeature(r.Context(), input)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, item)
}
