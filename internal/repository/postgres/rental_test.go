package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

func newRentalRepo(t *testing.T) (repository.RentalRequestRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRentalRequestRepository(db), mock
}

func TestRentalRepository_UpdateDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("PendingRowUpdated", func(t *testing.T) {
		repo, mock := newRentalRepo(t)
		mock.ExpectExec(`UPDATE rental_requests SET status = \$1, denial_reason = \$2`).
			WithArgs(domain.RequestStatusApproved, "", sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateDecision(ctx, 42, domain.RequestStatusApproved, "")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyDecidedReturnsStale", func(t *testing.T) {
		repo, mock := newRentalRepo(t)
		mock.ExpectExec(`UPDATE rental_requests SET status = \$1, denial_reason = \$2`).
			WithArgs(domain.RequestStatusApproved, "", sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateDecision(ctx, 42, domain.RequestStatusApproved, "")
		assert.ErrorIs(t, err, repository.ErrStale)
	})
}

func TestRentalRepository_UpdatePayment(t *testing.T) {
	ctx := context.Background()
	paidAt := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)

	t.Run("ApprovedRowPaid", func(t *testing.T) {
		repo, mock := newRentalRepo(t)
		mock.ExpectExec(`UPDATE rental_requests\s+SET status = 'paid', payment_status = 'paid'`).
			WithArgs("upi", "txn-1", 30.0, paidAt, int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdatePayment(ctx, 42, repository.PaymentUpdate{
			Method: "upi", TransactionID: "txn-1", PlatformFee: 30, PaidAt: paidAt,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ConcurrentPaymentReturnsStale", func(t *testing.T) {
		repo, mock := newRentalRepo(t)
		mock.ExpectExec(`UPDATE rental_requests\s+SET status = 'paid', payment_status = 'paid'`).
			WithArgs("upi", "txn-1", 30.0, paidAt, int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdatePayment(ctx, 42, repository.PaymentUpdate{
			Method: "upi", TransactionID: "txn-1", PlatformFee: 30, PaidAt: paidAt,
		})
		assert.ErrorIs(t, err, repository.ErrStale)
	})
}

func TestRentalRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRentalRepo(t)
	mock.ExpectQuery(`SELECT .+ FROM rental_requests WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRentalRepository_HasOpenRequest(t *testing.T) {
	repo, mock := newRentalRepo(t)
	renter := domain.UserRef{Type: domain.UserTypeGoogle, ID: "renter-1"}
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(7), renter.ID, renter.Type).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	open, err := repo.HasOpenRequest(context.Background(), 7, renter)
	assert.NoError(t, err)
	assert.True(t, open)
}

func TestRentalRepository_ConfirmPickup(t *testing.T) {
	ctx := context.Background()

	t.Run("RenterColumn", func(t *testing.T) {
		repo, mock := newRentalRepo(t)
		mock.ExpectExec(`UPDATE rental_requests SET pickup_confirmed_by_renter = TRUE`).
			WithArgs(sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.ConfirmPickup(ctx, 42, domain.RoleRenter))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListerColumn", func(t *testing.T) {
		repo, mock := newRentalRepo(t)
		mock.ExpectExec(`UPDATE rental_requests SET pickup_confirmed_by_lister = TRUE`).
			WithArgs(sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.ConfirmPickup(ctx, 42, domain.RoleLister))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentalRepository_ExpireStalePending(t *testing.T) {
	repo, mock := newRentalRepo(t)
	asOf := time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`UPDATE rental_requests SET status = 'expired'`).
		WithArgs(sqlmock.AnyArg(), asOf).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.ExpireStalePending(context.Background(), asOf)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
