package api

import (
	"net/http"

	"github.com/okian/rating/pkg/logger"
)

// RatingHandler handles rating requests.
type RatingHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(deps Dependencies, l logger.Logger) *RatingHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &RatingHandler{deps: deps, logger: l}
}

// HandleGetRating handles GET /rating requests.
func (h *RatingHandler) HandleGetRating(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rating"
	entries, err := h.deps.Rating(r.Context())
	if err != nil {
		respondError(w, r, h.logger, Wrap(op, err))
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
