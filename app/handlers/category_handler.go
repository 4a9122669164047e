package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/andrisetya/go-catalog/app/helpers"
	"github.com/andrisetya/go-catalog/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	catalog   *services.CatalogService
	validator *validator.Validate
	render    *render.Render
	pageSize  int
}

func NewCategoryHandler(catalog *services.CatalogService, v *validator.Validate, r *render.Render, pageSize int) *CategoryHandler {
	return &CategoryHandler{catalog: catalog, validator: v, render: r, pageSize: pageSize}
}

// List handles GET /category/.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page := helpers.PageParam(r)

	items, total, err := h.catalog.ListCategories(r.Context(), h.pageSize, (page-1)*h.pageSize)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	if helpers.InvalidPage(total, page, h.pageSize) {
		writeInvalidPage(h.render, w)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, helpers.NewPage(r, total, page, h.pageSize, items))
}

// Products handles GET /category/{id}/: the paginated, feature-filtered,
// sorted product listing for one category.
func (h *CategoryHandler) Products(w http.ResponseWriter, r *http.Request) {
	categoryID := pathID(r, "id")
	page := helpers.PageParam(r)
	query := r.URL.Query()

	items, total, err := h.catalog.ListProductsByCategory(
		r.Context(),
		categoryID,
		query.Get("sort_by"),
		query.Get("sort_dict"),
		filterIDs(r),
		h.pageSize,
		(page-1)*h.pageSize,
	)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	if helpers.InvalidPage(total, page, h.pageSize) {
		writeInvalidPage(h.render, w)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, helpers.NewPage(r, total, page, h.pageSize, items))
}

// Create handles POST /category/ (staff only).
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateCategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(h.render, w, "Invalid request body.")
		return
	}
	if err := h.validator.Struct(input); err != nil {
		writeBadRequest(h.render, w, err.Error())
		return
	}

	item, err := h.catalog.CreateCategory(r.Context(), input)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, item)
}

// filterIDs collects the repeated filter query parameters. Values that are
// not numbers are dropped, matching the unknown-feature-id policy: one bad
// filter never fails the listing.
func filterIDs(r *http.Request) []uint {
	raw := r.URL.Query()["filter"]
	ids := make([]uint, 0, len(raw))
	for _, value := range raw {
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// pathID reads a numeric mux path variable. Routes constrain the pattern to
// digits, so parse failures cannot happen past the router.
func pathID(r *http.Request, name string) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	return uint(id)
}
