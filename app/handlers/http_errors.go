package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/andrisetya/go-catalog/app/helpers"
	"github.com/andrisetya/go-catalog/app/services"
	"github.com/unrolled/render"
)

// writeServiceError is the single translation point from service outcomes to
// HTTP statuses and the {"detail": ...} body.
func writeServiceError(rnd *render.Render, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		_ = rnd.JSON(w, http.StatusNotFound, helpers.Detail{Detail: "Not found."})
	case errors.Is(err, services.ErrAlreadyExists):
		_ = rnd.JSON(w, http.StatusBadRequest, helpers.Detail{Detail: "Already exists."})
	default:
		log.Printf("handlers: internal error: %v", err)
		_ = rnd.JSON(w, http.StatusInternalServerError, helpers.Detail{Detail: "Internal server error."})
	}
}

func writeBadRequest(rnd *render.Render, w http.ResponseWriter, detail string) {
	_ = rnd.JSON(w, http.StatusBadRequest, helpers.Detail{Detail: detail})
}

func writeInvalidPage(rnd *render.Render, w http.ResponseWriter) {
	_ = rnd.JSON(w, http.StatusNotFound, helpers.Detail{Detail: "Invalid page."})
}
