package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type rentalRequestRepository struct {
	db *sql.DB
}

func NewRentalRequestRepository(db *sql.DB) repository.RentalRequestRepository {
	return &rentalRequestRepository{db: db}
}

const rentalColumns = `id, listing_id, renter_id, renter_type, owner_id, owner_type,
	start_date, end_date, total_days, total_price, platform_fee,
	status, denial_reason, message,
	payment_status, payment_method, transaction_id, payment_date,
	delivery_option, delivery_cost, delivery_distance_km, delivery_address, delivery_lat, delivery_lng,
	delivery_paid, delivery_status, delivery_shipped_at, delivery_en_route_at, delivery_delivered_at,
	expected_en_route_at, expected_delivered_at, delivery_confirmed,
	pickup_confirmed_by_renter, pickup_confirmed_by_lister,
	return_initiated, return_option, return_cost, return_distance_km, return_address, return_lat, return_lng,
	return_paid, return_status, return_shipped_at, return_en_route_at, return_delivered_at,
	expected_return_en_route_at, expected_return_delivered_at,
	return_confirmed_by_renter, return_confirmed_by_lister,
	return_overdue, current_late_fee, late_fee_days, delivery_rated, owner_rated,
	created_on, updated_on`

func scanRental(row interface{ Scan(...any) error }) (*domain.RentalRequest, error) {
	rr := &domain.RentalRequest{}
	err := row.Scan(
		&rr.ID, &rr.ListingID, &rr.Renter.ID, &rr.Renter.Type, &rr.Owner.ID, &rr.Owner.Type,
		&rr.StartDate, &rr.EndDate, &rr.TotalDays, &rr.TotalPrice, &rr.PlatformFee,
		&rr.Status, &rr.DenialReason, &rr.Message,
		&rr.PaymentStatus, &rr.PaymentMethod, &rr.TransactionID, &rr.PaymentDate,
		&rr.Delivery.Option, &rr.Delivery.Cost, &rr.Delivery.DistanceKm, &rr.Delivery.Address, &rr.Delivery.Lat, &rr.Delivery.Lng,
		&rr.Delivery.Paid, &rr.Delivery.Status, &rr.Delivery.ShippedAt, &rr.Delivery.EnRouteAt, &rr.Delivery.DeliveredAt,
		&rr.Delivery.ExpectedEnRouteAt, &rr.Delivery.ExpectedDeliveredAt, &rr.DeliveryConfirmed,
		&rr.Pickup.RenterConfirmed, &rr.Pickup.ListerConfirmed,
		&rr.ReturnInitiated, &rr.Return.Option, &rr.Return.Cost, &rr.Return.DistanceKm, &rr.Return.Address, &rr.Return.Lat, &rr.Return.Lng,
		&rr.Return.Paid, &rr.Return.Status, &rr.Return.ShippedAt, &rr.Return.EnRouteAt, &rr.Return.DeliveredAt,
		&rr.Return.ExpectedEnRouteAt, &rr.Return.ExpectedDeliveredAt,
		&rr.ReturnHandshake.RenterConfirmed, &rr.ReturnHandshake.ListerConfirmed,
		&rr.ReturnOverdue, &rr.CurrentLateFee, &rr.LateFeeDays, &rr.DeliveryRated, &rr.OwnerRated,
		&rr.CreatedOn, &rr.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return rr, nil
}

func (r *rentalRequestRepository) Create(ctx context.Context, rr *domain.RentalRequest) error {
	query := `INSERT INTO rental_requests
	          (listing_id, renter_id, renter_type, owner_id, owner_type, start_date, end_date,
	           total_days, total_price, status, payment_status, message, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13) RETURNING id`
	now := time.Now()
	rr.CreatedOn = now
	rr.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		rr.ListingID, rr.Renter.ID, rr.Renter.Type, rr.Owner.ID, rr.Owner.Type,
		rr.StartDate, rr.EndDate, rr.TotalDays, rr.TotalPrice, rr.Status, rr.PaymentStatus, rr.Message, now,
	).Scan(&rr.ID)
}

func (r *rentalRequestRepository) GetByID(ctx context.Context, id int64) (*domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE id = $1`
	rr, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rr, nil
}

func (r *rentalRequestRepository) HasOpenRequest(ctx context.Context, listingID int64, renter domain.UserRef) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM rental_requests
	          WHERE listing_id = $1 AND renter_id = $2 AND renter_type = $3 AND status = 'pending')`
	err := r.db.QueryRowContext(ctx, query, listingID, renter.ID, renter.Type).Scan(&exists)
	return exists, err
}

func (r *rentalRequestRepository) listByParty(ctx context.Context, idCol, typeCol string, party domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	offset := (page - 1) * pageSize
	base := `FROM rental_requests WHERE ` + idCol + ` = $1 AND ` + typeCol + ` = $2`
	args := []any{party.ID, party.Type}
	argIdx := 3
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_on DESC LIMIT $%d OFFSET $%d", rentalColumns, base, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []domain.RentalRequest
	for rows.Next() {
		rr, err := scanRental(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *rr)
	}
	return requests, count, rows.Err()
}

func (r *rentalRequestRepository) ListByRenter(ctx context.Context, renter domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	return r.listByParty(ctx, "renter_id", "renter_type", renter, status, page, pageSize)
}

func (r *rentalRequestRepository) ListByOwner(ctx context.Context, owner domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	return r.listByParty(ctx, "owner_id", "owner_type", owner, status, page, pageSize)
}

// execConditional runs a state-scoped UPDATE and maps "no row matched" to
// ErrStale.
func (r *rentalRequestRepository) execConditional(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrStale
	}
	return nil
}

func (r *rentalRequestRepository) UpdateDecision(ctx context.Context, id int64, status domain.RequestStatus, denialReason string) error {
	query := `UPDATE rental_requests SET status = $1, denial_reason = $2, updated_on = $3
	          WHERE id = $4 AND status = 'pending'`
	return r.execConditional(ctx, query, status, denialReason, time.Now(), id)
}

func (r *rentalRequestRepository) UpdatePayment(ctx context.Context, id int64, p repository.PaymentUpdate) error {
	query := `UPDATE rental_requests
	          SET status = 'paid', payment_status = 'paid', payment_method = $1, transaction_id = $2,
	              platform_fee = $3, payment_date = $4, updated_on = $4
	          WHERE id = $5 AND status = 'approved'`
	return r.execConditional(ctx, query, p.Method, p.TransactionID, p.PlatformFee, p.PaidAt, id)
}

func (r *rentalRequestRepository) SetDeliveryOption(ctx context.Context, id int64, leg domain.DeliveryLeg) error {
	query := `UPDATE rental_requests
	          SET delivery_option = $1, delivery_cost = $2, delivery_distance_km = $3,
	              delivery_address = $4, delivery_lat = $5, delivery_lng = $6, delivery_paid = $7, updated_on = $8
	          WHERE id = $9 AND status = 'paid' AND delivery_option = ''`
	return r.execConditional(ctx, query,
		leg.Option, leg.Cost, leg.DistanceKm, leg.Address, leg.Lat, leg.Lng, leg.Paid, time.Now(), id)
}

func (r *rentalRequestRepository) MarkDeliveryPaid(ctx context.Context, id int64, shippedAt, expectedEnRouteAt, expectedDeliveredAt time.Time) error {
	query := `UPDATE rental_requests
	          SET delivery_paid = TRUE, delivery_status = 'shipped', delivery_shipped_at = $1,
	              expected_en_route_at = $2, expected_delivered_at = $3, updated_on = $1
	          WHERE id = $4 AND delivery_option = 'delivery' AND delivery_paid = FALSE`
	return r.execConditional(ctx, query, shippedAt, expectedEnRouteAt, expectedDeliveredAt, id)
}

func (r *rentalRequestRepository) ConfirmPickup(ctx context.Context, id int64, role domain.ActorRole) error {
	col := "pickup_confirmed_by_renter"
	if role == domain.RoleLister {
		col = "pickup_confirmed_by_lister"
	}
	query := fmt.Sprintf(`UPDATE rental_requests SET %s = TRUE, updated_on = $1
	          WHERE id = $2 AND status = 'paid' AND delivery_option = 'pickup'`, col)
	return r.execConditional(ctx, query, time.Now(), id)
}

func (r *rentalRequestRepository) SetPickupComplete(ctx context.Context, id int64, deliveredAt time.Time) error {
	query := `UPDATE rental_requests
	          SET delivery_status = 'delivered', delivery_delivered_at = $1, updated_on = $1
	          WHERE id = $2 AND pickup_confirmed_by_renter = TRUE AND pickup_confirmed_by_lister = TRUE
	            AND delivery_status <> 'delivered'`
	return r.execConditional(ctx, query, deliveredAt, id)
}

func (r *rentalRequestRepository) SetDeliveryConfirmed(ctx context.Context, id int64) error {
	query := `UPDATE rental_requests SET delivery_confirmed = TRUE, updated_on = $1
	          WHERE id = $2 AND delivery_status = 'delivered' AND delivery_confirmed = FALSE`
	return r.execConditional(ctx, query, time.Now(), id)
}

func (r *rentalRequestRepository) InitiateReturn(ctx context.Context, id int64, leg domain.DeliveryLeg, overdue bool, lateFee, lateFeeDays float64) error {
	query := `UPDATE rental_requests
	          SET return_initiated = TRUE, return_option = $1, return_cost = $2, return_distance_km = $3,
	              return_address = $4, return_lat = $5, return_lng = $6, return_paid = $7,
	              return_overdue = $8, current_late_fee = $9, late_fee_days = $10, updated_on = $11
	          WHERE id = $12 AND status = 'paid' AND return_initiated = FALSE`
	return r.execConditional(ctx, query,
		leg.Option, leg.Cost, leg.DistanceKm, leg.Address, leg.Lat, leg.Lng, leg.Paid,
		overdue, lateFee, lateFeeDays, time.Now(), id)
}

func (r *rentalRequestRepository) MarkReturnPaid(ctx context.Context, id int64, shippedAt, expectedEnRouteAt, expectedDeliveredAt time.Time) error {
	query := `UPDATE rental_requests
	          SET return_paid = TRUE, return_status = 'shipped', return_shipped_at = $1,
	              expected_return_en_route_at = $2, expected_return_delivered_at = $3, updated_on = $1
	          WHERE id = $4 AND return_option = 'delivery' AND return_paid = FALSE`
	return r.execConditional(ctx, query, shippedAt, expectedEnRouteAt, expectedDeliveredAt, id)
}

func (r *rentalRequestRepository) ConfirmReturn(ctx context.Context, id int64, role domain.ActorRole) error {
	col := "return_confirmed_by_renter"
	if role == domain.RoleLister {
		col = "return_confirmed_by_lister"
	}
	query := fmt.Sprintf(`UPDATE rental_requests SET %s = TRUE, updated_on = $1
	          WHERE id = $2 AND return_initiated = TRUE AND status = 'paid'`, col)
	return r.execConditional(ctx, query, time.Now(), id)
}

func (r *rentalRequestRepository) Complete(ctx context.Context, id int64) error {
	query := `UPDATE rental_requests SET status = 'completed', updated_on = $1
	          WHERE id = $2 AND status = 'paid'
	            AND return_confirmed_by_renter = TRUE AND return_confirmed_by_lister = TRUE`
	return r.execConditional(ctx, query, time.Now(), id)
}

func (r *rentalRequestRepository) MarkDeliveryRated(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rental_requests SET delivery_rated = TRUE, updated_on = $1 WHERE id = $2`, time.Now(), id)
	return err
}

func (r *rentalRequestRepository) MarkOwnerRated(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rental_requests SET owner_rated = TRUE, updated_on = $1 WHERE id = $2`, time.Now(), id)
	return err
}

func (r *rentalRequestRepository) listWhere(ctx context.Context, where string, args ...any) ([]domain.RentalRequest, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_requests WHERE ` + where
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.RentalRequest
	for rows.Next() {
		rr, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *rr)
	}
	return requests, rows.Err()
}

func (r *rentalRequestRepository) ListActiveDeliveries(ctx context.Context) ([]domain.RentalRequest, error) {
	return r.listWhere(ctx, `delivery_paid = TRUE AND delivery_status IN ('shipped', 'en_route')`)
}

func (r *rentalRequestRepository) ListActiveReturnDeliveries(ctx context.Context) ([]domain.RentalRequest, error) {
	return r.listWhere(ctx, `return_paid = TRUE AND return_status IN ('shipped', 'en_route')`)
}

func (r *rentalRequestRepository) MarkDeliveryEnRoute(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE rental_requests SET delivery_status = 'en_route', delivery_en_route_at = $1, updated_on = $2
	          WHERE id = $3 AND delivery_status = 'shipped'`
	return r.execConditional(ctx, query, at, time.Now(), id)
}

func (r *rentalRequestRepository) MarkDeliveryDelivered(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE rental_requests SET delivery_status = 'delivered', delivery_delivered_at = $1, updated_on = $2
	          WHERE id = $3 AND delivery_status IN ('shipped', 'en_route')`
	return r.execConditional(ctx, query, at, time.Now(), id)
}

func (r *rentalRequestRepository) MarkReturnEnRoute(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE rental_requests SET return_status = 'en_route', return_en_route_at = $1, updated_on = $2
	          WHERE id = $3 AND return_status = 'shipped'`
	return r.execConditional(ctx, query, at, time.Now(), id)
}

func (r *rentalRequestRepository) MarkReturnDelivered(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE rental_requests SET return_status = 'delivered', return_delivered_at = $1, updated_on = $2
	          WHERE id = $3 AND return_status IN ('shipped', 'en_route')`
	return r.execConditional(ctx, query, at, time.Now(), id)
}

func (r *rentalRequestRepository) ListReturnOverdueCandidates(ctx context.Context, asOf time.Time) ([]domain.RentalRequest, error) {
	return r.listWhere(ctx, `status = 'paid' AND end_date < $1 AND return_initiated = FALSE
	          AND (delivery_confirmed = TRUE OR (pickup_confirmed_by_renter = TRUE AND pickup_confirmed_by_lister = TRUE))`, asOf)
}

func (r *rentalRequestRepository) MarkReturnOverdue(ctx context.Context, id int64, lateFee, lateFeeDays float64) error {
	query := `UPDATE rental_requests
	          SET return_overdue = TRUE, current_late_fee = $1, late_fee_days = $2, updated_on = $3
	          WHERE id = $4 AND return_initiated = FALSE`
	return r.execConditional(ctx, query, lateFee, lateFeeDays, time.Now(), id)
}

func (r *rentalRequestRepository) ExpireStalePending(ctx context.Context, asOf time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rental_requests SET status = 'expired', updated_on = $1 WHERE status = 'pending' AND start_date <= $2`,
		time.Now(), asOf)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
