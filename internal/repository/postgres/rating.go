package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type ratingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) UpsertDeliveryRating(ctx context.Context, rating *domain.DeliveryRating) error {
	now := time.Now()
	query := `INSERT INTO delivery_ratings
	          (request_id, rater_role, delivery, item_condition, communication, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $6)
	          ON CONFLICT (request_id, rater_role) DO UPDATE
	          SET delivery = EXCLUDED.delivery,
	              item_condition = EXCLUDED.item_condition,
	              communication = EXCLUDED.communication,
	              updated_on = EXCLUDED.updated_on
	          RETURNING id, created_on`
	return r.db.QueryRowContext(ctx, query,
		rating.RequestID, rating.RaterRole, rating.Delivery, rating.ItemCondition, rating.Communication, now,
	).Scan(&rating.ID, &rating.CreatedOn)
}

func (r *ratingRepository) ListDeliveryRatings(ctx context.Context, requestID int64) ([]domain.DeliveryRating, error) {
	query := `SELECT id, request_id, rater_role, delivery, item_condition, communication, created_on, updated_on
	          FROM delivery_ratings WHERE request_id = $1 ORDER BY rater_role`
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []domain.DeliveryRating
	for rows.Next() {
		var dr domain.DeliveryRating
		if err := rows.Scan(&dr.ID, &dr.RequestID, &dr.RaterRole, &dr.Delivery, &dr.ItemCondition, &dr.Communication, &dr.CreatedOn, &dr.UpdatedOn); err != nil {
			return nil, err
		}
		ratings = append(ratings, dr)
	}
	return ratings, rows.Err()
}

func (r *ratingRepository) InsertUserRating(ctx context.Context, rating *domain.UserRating) error {
	now := time.Now()
	query := `INSERT INTO user_ratings
	          (rater_id, rater_type, rated_id, rated_type, listing_id, rating, review, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		rating.Rater.ID, rating.Rater.Type, rating.Rated.ID, rating.Rated.Type,
		rating.ListingID, rating.Rating, rating.Review, now,
	).Scan(&rating.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return err
	}
	rating.CreatedOn = now
	return nil
}

func (r *ratingRepository) ListUserRatings(ctx context.Context, rated domain.UserRef) ([]domain.UserRating, error) {
	query := `SELECT id, rater_id, rater_type, rated_id, rated_type, listing_id, rating, review, created_on
	          FROM user_ratings WHERE rated_id = $1 AND rated_type = $2 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, rated.ID, rated.Type)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []domain.UserRating
	for rows.Next() {
		var ur domain.UserRating
		if err := rows.Scan(&ur.ID, &ur.Rater.ID, &ur.Rater.Type, &ur.Rated.ID, &ur.Rated.Type, &ur.ListingID, &ur.Rating, &ur.Review, &ur.CreatedOn); err != nil {
			return nil, err
		}
		ratings = append(ratings, ur)
	}
	return ratings, rows.Err()
}
