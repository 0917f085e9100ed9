package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"gearshare-backend/internal/security"
	"gearshare-backend/internal/service"
)

// NewRouter wires the HTTP surface. Every /api/v1 route except the health
// check sits behind the auth middleware.
func NewRouter(
	tokens security.TokenManager,
	listings service.ListingService,
	rentals service.RentalService,
	tracking service.TrackingService,
	ratings service.RatingService,
) *mux.Router {
	listingHandler := NewListingHandler(listings)
	rentalHandler := NewRentalHandler(rentals, tracking)
	ratingHandler := NewRatingHandler(ratings)

	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/listings", listingHandler.Create).Methods("POST")
	api.HandleFunc("/listings", listingHandler.List).Methods("GET")
	api.HandleFunc("/listings/{id:[0-9]+}", listingHandler.Get).Methods("GET")

	api.HandleFunc("/rental-requests", rentalHandler.Submit).Methods("POST")
	api.HandleFunc("/rental-requests", rentalHandler.List).Methods("GET")
	api.HandleFunc("/rental-requests/{id:[0-9]+}", rentalHandler.Get).Methods("GET")
	api.HandleFunc("/rental-requests/{id:[0-9]+}", rentalHandler.Decide).Methods("PATCH")
	api.HandleFunc("/rental-requests/{id:[0-9]+}/payment", rentalHandler.Pay).Methods("POST")
	api.HandleFunc("/rental-requests/{id:[0-9]+}/delivery-option", rentalHandler.ChooseDelivery).Methods("POST")
	api.HandleFunc("/rental-requests/{id:[0-9]+}/delivery-payment", rentalHandler.PayDeliveryFee).Methods("POST")
	api.HandleFunc("/rental-requests/{id:[0-9]+}/confirm-pickup", rentalHandler.ConfirmPickup).Methods("POST")
	api.HandleFunc("/rental-requests/{id:[0-9]+}/initiate-return", rentalHandler.InitiateReturn).Methods("POST")
	api.HandleFunc("/rental-requests/{id:[0-9]+}/return-payment", rentalHandler.PayReturnDeliveryFee).Methods("POST")
	api.HandleFunc("/rental-requests/{id:[0-9]+}/confirm-return", rentalHandler.ConfirmReturn).Methods("POST")
	api.HandleFunc("/rental-requests/{id:[0-9]+}/tracking", rentalHandler.Tracking).Methods("GET")
	api.HandleFunc("/rental-requests/{id:[0-9]+}/rate", ratingHandler.RateDelivery).Methods("POST")

	api.HandleFunc("/ratings/users", ratingHandler.RateUser).Methods("POST")
	api.HandleFunc("/users/{type}/{id}/ratings", ratingHandler.ListUserRatings).Methods("GET")

	return router
}
