package postgres

import (
	"context"
	"database/sql"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type deliveryEventRepository struct {
	db *sql.DB
}

func NewDeliveryEventRepository(db *sql.DB) repository.DeliveryEventRepository {
	return &deliveryEventRepository{db: db}
}

func (r *deliveryEventRepository) Append(ctx context.Context, ev *domain.DeliveryEvent) error {
	if ev.EventTime.IsZero() {
		ev.EventTime = time.Now()
	}
	query := `INSERT INTO delivery_events (request_id, event_type, description, event_time)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		ev.RequestID, ev.EventType, ev.Description, ev.EventTime,
	).Scan(&ev.ID)
}

func (r *deliveryEventRepository) ListByRequest(ctx context.Context, requestID int64) ([]domain.DeliveryEvent, error) {
	query := `SELECT id, request_id, event_type, description, event_time
	          FROM delivery_events WHERE request_id = $1 ORDER BY event_time ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.DeliveryEvent
	for rows.Next() {
		var ev domain.DeliveryEvent
		if err := rows.Scan(&ev.ID, &ev.RequestID, &ev.EventType, &ev.Description, &ev.EventTime); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
