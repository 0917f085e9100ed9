package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gearshare-backend/internal/apperr"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/service"
)

type RentalHandler struct {
	rentals  service.RentalService
	tracking service.TrackingService
}

func NewRentalHandler(rentals service.RentalService, tracking service.TrackingService) *RentalHandler {
	return &RentalHandler{rentals: rentals, tracking: tracking}
}

type submitRequestBody struct {
	ListingID int64  `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Message   string `json:"message"`
}

func (h *RentalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var body submitRequestBody
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := h.rentals.SubmitRequest(r.Context(), UserFromContext(r.Context()),
		body.ListingID, body.StartDate, body.EndDate, body.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	req, err := h.rentals.GetRequest(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type listResponse struct {
	Requests []domain.RentalRequest `json:"requests"`
	Total    int32                  `json:"total"`
	Page     int32                  `json:"page"`
	PageSize int32                  `json:"page_size"`
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := UserFromContext(r.Context())
	status := r.URL.Query().Get("status")
	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	var (
		requests []domain.RentalRequest
		total    int32
		err      error
	)
	switch role := r.URL.Query().Get("role"); role {
	case "", "renter":
		requests, total, err = h.rentals.ListForRenter(r.Context(), actor, status, page, pageSize)
	case "owner":
		requests, total, err = h.rentals.ListForOwner(r.Context(), actor, status, page, pageSize)
	default:
		writeError(w, apperr.Validation("role must be renter or owner"))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Requests: requests, Total: total, Page: page, PageSize: pageSize})
}

type decideBody struct {
	Status       string `json:"status"`
	DenialReason string `json:"denial_reason"`
}

func (h *RentalHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	var body decideBody
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := h.rentals.Decide(r.Context(), UserFromContext(r.Context()), id,
		domain.RequestStatus(body.Status), body.DenialReason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type paymentBody struct {
	Method        string `json:"method"`
	TransactionID string `json:"transaction_id"`
}

func (h *RentalHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	var body paymentBody
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := h.rentals.Pay(r.Context(), UserFromContext(r.Context()), id, body.Method, body.TransactionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type deliveryOptionBody struct {
	Option  string `json:"option"`
	Address string `json:"address"`
}

type deliveryOptionResponse struct {
	Request         *domain.RentalRequest `json:"request"`
	PaymentRequired bool                  `json:"payment_required"`
}

func (h *RentalHandler) ChooseDelivery(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	var body deliveryOptionBody
	if !decodeBody(w, r, &body) {
		return
	}

	req, paymentRequired, err := h.rentals.ChooseDelivery(r.Context(), UserFromContext(r.Context()), id,
		domain.DeliveryOption(body.Option), body.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deliveryOptionResponse{Request: req, PaymentRequired: paymentRequired})
}

func (h *RentalHandler) PayDeliveryFee(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.rentals.PayDeliveryFee)
}

func (h *RentalHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.rentals.ConfirmPickup)
}

func (h *RentalHandler) InitiateReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	var body deliveryOptionBody
	if !decodeBody(w, r, &body) {
		return
	}

	req, err := h.rentals.InitiateReturn(r.Context(), UserFromContext(r.Context()), id,
		domain.DeliveryOption(body.Option), body.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (h *RentalHandler) PayReturnDeliveryFee(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.rentals.PayReturnDeliveryFee)
}

func (h *RentalHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	h.simpleTransition(w, r, h.rentals.ConfirmReturn)
}

func (h *RentalHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	snap, err := h.tracking.GetTracking(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *RentalHandler) simpleTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error)) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	req, err := op(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func requestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apperr.Validation("invalid request id"))
		return 0, false
	}
	return id, true
}

func queryInt32(r *http.Request, key string, def int32) int32 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return def
	}
	return int32(n)
}
