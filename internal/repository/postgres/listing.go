package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

const listingColumns = `id, owner_id, owner_type, title, category, description, price_per_day, lat, lng, is_available, rental_status, created_on, updated_on`

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (owner_id, owner_type, title, category, description, price_per_day, lat, lng, is_available, rental_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, 'available', $9, $9) RETURNING id`
	now := time.Now()
	l.IsAvailable = true
	l.RentalStatus = domain.ListingStatusAvailable
	l.CreatedOn = now
	l.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		l.Owner.ID, l.Owner.Type, l.Title, l.Category, l.Description, l.PricePerDay, l.Lat, l.Lng, now,
	).Scan(&l.ID)
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	l := &domain.Listing{}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Owner.ID, &l.Owner.Type, &l.Title, &l.Category, &l.Description,
		&l.PricePerDay, &l.Lat, &l.Lng, &l.IsAvailable, &l.RentalStatus, &l.CreatedOn, &l.UpdatedOn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) ListAvailable(ctx context.Context, page, pageSize int32) ([]domain.Listing, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM listings WHERE is_available = TRUE`,
	).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + listingColumns + ` FROM listings WHERE is_available = TRUE ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := rows.Scan(
			&l.ID, &l.Owner.ID, &l.Owner.Type, &l.Title, &l.Category, &l.Description,
			&l.PricePerDay, &l.Lat, &l.Lng, &l.IsAvailable, &l.RentalStatus, &l.CreatedOn, &l.UpdatedOn,
		); err != nil {
			return nil, 0, err
		}
		listings = append(listings, l)
	}
	return listings, count, rows.Err()
}

func (r *listingRepository) SetAvailability(ctx context.Context, id int64, isAvailable bool, status domain.ListingRentalStatus) error {
	query := `UPDATE listings SET is_available = $1, rental_status = $2, updated_on = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, isAvailable, status, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
