package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/andrisetya/go-catalog/app/middlewares"
	"github.com/andrisetya/go-catalog/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	catalog   *services.CatalogService
	validator *validator.Validate
	render    *render.Render
}

func NewProductHandler(catalog *services.CatalogService, v *validator.Validate, r *render.Render) *ProductHandler {
	return &ProductHandler{catalog: catalog, validator: v, render: r}
}

// Detail handles GET /product/{id}/: one product with features, media and
// the rating block for the current viewer (anonymous viewers get a null
// current_user_rating).
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.GetProduct(r.Context(), pathID(r, "id"), middlewares.UserID(r.Context()))
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, detail)
}

// Create handles POST /product/ (staff only).
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(h.render, w, "Invalid request body.")
		return
	}
	if err := h.validator.Struct(input); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	detail, err := h.catalog.CreateProduct(r.Context(), input)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, detail)
}
