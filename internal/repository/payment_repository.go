package repository

import (
	"context"

	"github.com/Masomatta/Afg-egov-portal/internal/domain"
)

// PaymentRepository manages the simulated fee records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByRequest(ctx context.Context, requestID string) (*domain.Payment, error)
	// Complete marks a pending payment completed; returns false when no
	// pending row matched (already completed or absent).
	Complete(ctx context.Context, requestID string) (bool, error)
}

type paymentRepository struct {
	q Querier
}

// NewPaymentRepository builds the repository.
func NewPaymentRepository(q Querier) PaymentRepository {
	return &paymentRepository{q: q}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (request_id, amount, status)
        VALUES ($1,$2,$3)
        RETURNING id`
	return r.q.QueryRow(ctx, query,
		payment.RequestID,
		payment.Amount,
		payment.Status,
	).Scan(&payment.ID)
}

func (r *paymentRepository) GetByRequest(ctx context.Context, requestID string) (*domain.Payment, error) {
	const query = `
        SELECT id, request_id, amount, status, payment_date
        FROM payments WHERE request_id=$1`
	var payment domain.Payment
	if err := r.q.QueryRow(ctx, query, requestID).Scan(
		&payment.ID,
		&payment.RequestID,
		&payment.Amount,
		&payment.Status,
		&payment.PaymentDate,
	); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Complete(ctx context.Context, requestID string) (bool, error) {
	const query = `
        UPDATE payments SET status='completed', payment_date=NOW()
        WHERE request_id=$1 AND status='pending'`
	cmd, err := r.q.Exec(ctx, query, requestID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
