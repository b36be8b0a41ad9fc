package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminapay/railsync/internal/apperrors"
	"github.com/luminapay/railsync/internal/core/domain"
	portsrepo "github.com/luminapay/railsync/internal/core/ports/repositories"
	"github.com/luminapay/railsync/internal/models"
	"github.com/luminapay/railsync/internal/utils/mapping"
	"github.com/luminapay/railsync/internal/utils/pagination"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment and event data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT payment_id, organization_id, reference, amount, currency_code, status, description,
			created_at, created_by, last_updated_at, last_updated_by
		FROM payments
		WHERE payment_id = $1;
	`
	var m models.Payment
	err := r.Pool.QueryRow(ctx, query, paymentID).Scan(
		&m.PaymentID,
		&m.OrganizationID,
		&m.Reference,
		&m.Amount,
		&m.CurrencyCode,
		&m.Status,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find payment "+paymentID, err)
	}

	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

func (r *PgxPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, updatedAt time.Time) error {
	query := `
		UPDATE payments
		SET status = $2, last_updated_at = $3
		WHERE payment_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, paymentID, string(status), updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPaymentRepository) SaveEvent(ctx context.Context, event domain.PaymentEvent) error {
	m, err := mapping.ToModelPaymentEvent(event)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO payment_events (
			event_id, payment_id, organization_id, event_type, rail, amount,
			currency_code, external_ref, metadata, occurred_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.EventID,
		m.PaymentID,
		m.OrganizationID,
		m.EventType,
		m.Rail,
		m.Amount,
		m.CurrencyCode,
		m.ExternalRef,
		m.Metadata,
		m.OccurredAt,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payment event "+m.EventID, err)
	}
	return nil
}

// FindLatestConfirmedEvent returns the most recent CONFIRMED event. Payments
// can accumulate multiple confirmation events; downstream logic must only ever
// see the newest one.
func (r *PgxPaymentRepository) FindLatestConfirmedEvent(ctx context.Context, paymentID string) (*domain.PaymentEvent, error) {
	query := `
		SELECT event_id, payment_id, organization_id, event_type, rail, amount,
			currency_code, external_ref, metadata, occurred_at, created_at
		FROM payment_events
		WHERE payment_id = $1 AND event_type = 'CONFIRMED'
		ORDER BY occurred_at DESC, created_at DESC
		LIMIT 1;
	`
	var m models.PaymentEvent
	err := r.Pool.QueryRow(ctx, query, paymentID).Scan(
		&m.EventID,
		&m.PaymentID,
		&m.OrganizationID,
		&m.EventType,
		&m.Rail,
		&m.Amount,
		&m.CurrencyCode,
		&m.ExternalRef,
		&m.Metadata,
		&m.OccurredAt,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find confirmed event for payment "+paymentID, err)
	}

	event, err := mapping.ToDomainPaymentEvent(m)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEventsByPayment retrieves a paginated list of the payment's events using
// token-based pagination. Ordering is newest first with created_at as a stable
// tie-breaker; one extra row is fetched to decide whether a next page exists.
func (r *PgxPaymentRepository) ListEventsByPayment(ctx context.Context, paymentID string, limit int, nextToken *string) ([]domain.PaymentEvent, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `
		SELECT event_id, payment_id, organization_id, event_type, rail, amount,
			currency_code, external_ref, metadata, occurred_at, created_at
		FROM payment_events
		WHERE payment_id = $1
	`
	args := []any{paymentID}

	if nextToken != nil && *nextToken != "" {
		lastOccurredAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (occurred_at, created_at) < ($2, $3)`
		args = append(args, lastOccurredAt, lastCreatedAt)
	}
	query += ` ORDER BY occurred_at DESC, created_at DESC LIMIT ` + strconv.Itoa(fetchLimit) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list events for payment "+paymentID, err)
	}
	defer rows.Close()

	modelEvents := make([]models.PaymentEvent, 0, fetchLimit)
	for rows.Next() {
		var m models.PaymentEvent
		if err := rows.Scan(
			&m.EventID,
			&m.PaymentID,
			&m.OrganizationID,
			&m.EventType,
			&m.Rail,
			&m.Amount,
			&m.CurrencyCode,
			&m.ExternalRef,
			&m.Metadata,
			&m.OccurredAt,
			&m.CreatedAt,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan payment event", err)
		}
		modelEvents = append(modelEvents, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating event rows for payment "+paymentID, err)
	}

	var nextTokenVal *string
	if len(modelEvents) > limit {
		last := modelEvents[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.CreatedAt)
		nextTokenVal = &token
		modelEvents = modelEvents[:limit]
	}

	events := make([]domain.PaymentEvent, 0, len(modelEvents))
	for _, m := range modelEvents {
		event, err := mapping.ToDomainPaymentEvent(m)
		if err != nil {
			return nil, nil, err
		}
		events = append(events, event)
	}
	return events, nextTokenVal, nil
}
