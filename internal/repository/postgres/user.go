package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (user_id, user_type, name, email, phone, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (user_id, user_type) DO UPDATE SET name = $3, email = $4, phone = $5`
	_, err := r.db.ExecContext(ctx, query, u.Ref.ID, u.Ref.Type, u.Name, u.Email, u.Phone, time.Now())
	return err
}

func (r *userRepository) GetByRef(ctx context.Context, ref domain.UserRef) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT user_id, user_type, name, email, phone FROM users WHERE user_id = $1 AND user_type = $2`
	err := r.db.QueryRowContext(ctx, query, ref.ID, ref.Type).
		Scan(&u.Ref.ID, &u.Ref.Type, &u.Name, &u.Email, &u.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
