package repository

import (
	"context"

	"github.com/avdeyev/flightbook/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	Recent(ctx context.Context, limit int) ([]domain.Payment, error)
	TotalAmountCents(ctx context.Context) (int64, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) Recent(ctx context.Context, limit int) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_ref, amount_cents, card_last4, payment_method, status, paid_at
		FROM billing.payments ORDER BY paid_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.BookingRef, &p.AmountCents, &p.CardLast4, &p.Method, &p.Status, &p.PaidAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PGPaymentRepository) TotalAmountCents(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount_cents), 0) FROM billing.payments`).Scan(&total)
	return total, err
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
