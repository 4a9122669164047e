package handlers

import (
	"net/http"

	"github.com/andrisetya/go-catalog/app/helpers"
	"github.com/andrisetya/go-catalog/app/middlewares"
	"github.com/andrisetya/go-catalog/app/services"
	"github.com/unrolled/render"
)

type RatingHandler struct {
	ratings *services.RatingService
	render  *render.Render
}

func NewRatingHandler(ratings *services.RatingService, r *render.Render) *RatingHandler {
	return &RatingHandler{ratings: ratings, render: r}
}

// Like handles POST and DELETE /rating/{productId}/like/. Both verbs apply
// the same vote: repeating an existing grade toggles it off, so the DELETE
// form needs no separate handler.
func (h *RatingHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, true)
}

// Dislike handles POST and DELETE /rating/{productId}/dislike/.
func (h *RatingHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, false)
}

func (h *RatingHandler) vote(w http.ResponseWriter, r *http.Request, grade bool) {
	userID := middlewares.UserID(r.Context())
	if userID == nil {
		// unreachable behind the Required middleware, kept as a guard
		_ = h.render.JSON(w, http.StatusUnauthorized, helpers.Detail{Detail: "Authentication credentials were not provided."})
		return
	}

	block, err := h.ratings.Vote(r.Context(), pathID(r, "productId"), *userID, grade)
	if err != nil {
		writeServiceError(h.render, w, err)
		return
	}
	_ = h.render.JSON(w, http.StatusOK, block)
}
