package postgres

import (
	"database/sql"

	"gearshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ListingRepository
	repository.RentalRequestRepository
	repository.DeliveryEventRepository
	repository.RatingRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		UserRepository:          NewUserRepository(db),
		ListingRepository:       NewListingRepository(db),
		RentalRequestRepository: NewRentalRequestRepository(db),
		DeliveryEventRepository: NewDeliveryEventRepository(db),
		RatingRepository:        NewRatingRepository(db),
	}
}
