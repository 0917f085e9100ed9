package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"gearshare-backend/internal/apperr"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type RatingHandler struct {
	ratings service.RatingService
}

func NewRatingHandler(ratings service.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

type deliveryRatingBody struct {
	Delivery      int32 `json:"delivery"`
	ItemCondition int32 `json:"item_condition"`
	Communication int32 `json:"communication"`
}

func (h *RatingHandler) RateDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	var body deliveryRatingBody
	if !decodeBody(w, r, &body) {
		return
	}

	rating, err := h.ratings.RateDelivery(r.Context(), UserFromContext(r.Context()), id,
		body.Delivery, body.ItemCondition, body.Communication)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rating)
}

type userRatingBody struct {
	RequestID int64  `json:"request_id"`
	Rating    int32  `json:"rating"`
	Review    string `json:"review"`
}

func (h *RatingHandler) RateUser(w http.ResponseWriter, r *http.Request) {
	var body userRatingBody
	if !decodeBody(w, r, &body) {
		return
	}
	if body.RequestID <= 0 {
		writeError(w, apperr.Validation("request_id is required"))
		return
	}

	rating, err := h.ratings.RateUser(r.Context(), UserFromContext(r.Context()),
		body.RequestID, body.Rating, body.Review)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rating)
}

func (h *RatingHandler) ListUserRatings(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userType := domain.UserType(vars["type"])
	if userType != domain.UserTypeGoogle && userType != domain.UserTypePhone {
		writeError(w, apperr.Validation("user type must be google or phone"))
		return
	}
	rated := domain.UserRef{Type: userType, ID: vars["id"]}

	ratings, err := h.ratings.ListUserRatings(r.Context(), rated)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ratings": ratings})
}
