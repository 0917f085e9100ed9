package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gearshare-backend/internal/apperr"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type ListingHandler struct {
	listings service.ListingService
}

func NewListingHandler(listings service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

type createListingBody struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	PricePerDay float64 `json:"price_per_day"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createListingBody
	if !decodeBody(w, r, &body) {
		return
	}

	listing := &domain.Listing{
		Title:       body.Title,
		Category:    body.Category,
		Description: body.Description,
		PricePerDay: body.PricePerDay,
		Lat:         body.Lat,
		Lng:         body.Lng,
	}
	created, err := h.listings.CreateListing(r.Context(), UserFromContext(r.Context()), listing, body.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apperr.Validation("invalid listing id"))
		return
	}

	listing, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	listings, total, err := h.listings.ListAvailable(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"listings":  listings,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
