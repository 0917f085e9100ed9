package service

import (
	"context"
	"errors"

	"gearshare-backend/internal/apperr"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/geocode"
	"gearshare-backend/internal/repository"
)

type listingService struct {
	listingRepo repository.ListingRepository
	geocoder    geocode.Geocoder
}

func NewListingService(listingRepo repository.ListingRepository, geocoder geocode.Geocoder) ListingService {
	return &listingService{listingRepo: listingRepo, geocoder: geocoder}
}

func (s *listingService) CreateListing(ctx context.Context, owner domain.UserRef, listing *domain.Listing, address string) (*domain.Listing, error) {
	if listing.Title == "" {
		return nil, apperr.Validation("listing title is required")
	}
	if listing.Category == "" {
		return nil, apperr.Validation("listing category is required")
	}
	if listing.PricePerDay <= 0 {
		return nil, apperr.Validation("price_per_day must be positive")
	}
	if address != "" {
		lat, lng, err := s.geocoder.Geocode(ctx, address)
		if err != nil {
			return nil, err
		}
		listing.Lat = lat
		listing.Lng = lng
	}
	if listing.Lat == 0 && listing.Lng == 0 {
		return nil, apperr.Validation("a location (address or lat/lng) is required")
	}

	listing.Owner = owner
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *listingService) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("listing")
		}
		return nil, err
	}
	return listing, nil
}

func (s *listingService) ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	page, pageSize = normalizePaging(page, pageSize)
	return s.listingRepo.ListAvailable(ctx, page, pageSize)
}
