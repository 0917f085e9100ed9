package service

import (
	"context"
	"errors"

	"gearshare-backend/internal/apperr"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/repository"
)

type ratingService struct {
	ratingRepo repository.RatingRepository
	rentalRepo repository.RentalRequestRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, rentalRepo repository.RentalRequestRepository) RatingService {
	return &ratingService{ratingRepo: ratingRepo, rentalRepo: rentalRepo}
}

func (s *ratingService) RateDelivery(ctx context.Context, actor domain.UserRef, requestID int64, delivery, itemCondition, communication int32) (*domain.DeliveryRating, error) {
	for _, score := range []int32{delivery, itemCondition, communication} {
		if score < 1 || score > 5 {
			return nil, apperr.Validation("rating scores must be between 1 and 5")
		}
	}

	req, role, err := s.loadForRating(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !req.HandedOver() {
		return nil, apperr.InvalidTransition("the item has not been delivered yet", string(req.Status))
	}

	rating := &domain.DeliveryRating{
		RequestID:     requestID,
		RaterRole:     role,
		Delivery:      delivery,
		ItemCondition: itemCondition,
		Communication: communication,
	}
	if err := s.ratingRepo.UpsertDeliveryRating(ctx, rating); err != nil {
		return nil, err
	}
	if !req.DeliveryRated {
		if err := s.rentalRepo.MarkDeliveryRated(ctx, requestID); err != nil {
			logger.Warn("failed to mark request delivery-rated", "request_id", requestID, "error", err)
		}
	}
	return rating, nil
}

func (s *ratingService) RateUser(ctx context.Context, actor domain.UserRef, requestID int64, score int32, review string) (*domain.UserRating, error) {
	if score < 1 || score > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	req, role, err := s.loadForRating(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !req.HandedOver() {
		return nil, apperr.InvalidTransition("the item has not been delivered yet", string(req.Status))
	}

	rated := req.Owner
	if role == domain.RoleLister {
		rated = req.Renter
	}
	rating := &domain.UserRating{
		Rater:     actor,
		Rated:     rated,
		ListingID: req.ListingID,
		Rating:    score,
		Review:    review,
	}
	if err := s.ratingRepo.InsertUserRating(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("you have already rated this user for this listing")
		}
		return nil, err
	}
	if role == domain.RoleRenter && !req.OwnerRated {
		if err := s.rentalRepo.MarkOwnerRated(ctx, requestID); err != nil {
			logger.Warn("failed to mark request owner-rated", "request_id", requestID, "error", err)
		}
	}
	return rating, nil
}

func (s *ratingService) ListUserRatings(ctx context.Context, rated domain.UserRef) ([]domain.UserRating, error) {
	return s.ratingRepo.ListUserRatings(ctx, rated)
}

func (s *ratingService) loadForRating(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, domain.ActorRole, error) {
	req, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.NotFound("rental request")
		}
		return nil, "", err
	}
	role, ok := req.RoleOf(actor)
	if !ok {
		return nil, "", apperr.NotFound("rental request")
	}
	return req, role, nil
}
