package repository

import (
	"context"
	"time"

	"clinic-parking/internal/infra"
	"clinic-parking/internal/infra/db"
	"clinic-parking/internal/usecase/shared"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// Create records a checkout attempt before the user has paid. checkout_ref
// is unique: one row per provider checkout, never re-created.
func (r *PaymentRepository) Create(ctx context.Context, q db.DBTX, checkoutRef string, amountCents int64) error {
	const query = `INSERT INTO payments (checkout_ref, amount_cents, status) VALUES ($1, $2, 'initiated')`

	if _, err := q.Exec(ctx, query, checkoutRef, amountCents); err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("payment already recorded", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

// MarkPaid transitions initiated -> paid and reports whether this call won
// the transition. False means the event is a replay (or the row is missing)
// and the caller must skip all side effects.
func (r *PaymentRepository) MarkPaid(ctx context.Context, q db.DBTX, checkoutRef string, paidAt time.Time) (bool, error) {
	const query = `
		UPDATE payments SET status = 'paid', paid_at = $2
		WHERE checkout_ref = $1 AND status = 'initiated'`

	tag, err := q.Exec(ctx, query, checkoutRef, paidAt)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark payment paid", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PaymentRepository) RevenueByDay(ctx context.Context, q db.DBTX, from, to time.Time) ([]shared.RevenueRow, error) {
	const query = `
		SELECT date_trunc('day', paid_at) AS day, COALESCE(SUM(amount_cents), 0), COUNT(*)
		FROM payments
		WHERE status = 'paid' AND paid_at >= $1 AND paid_at < $2
		GROUP BY day
		ORDER BY day`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query revenue", err)
	}
	defer rows.Close()

	var result []shared.RevenueRow
	for rows.Next() {
		var row shared.RevenueRow
		if err := rows.Scan(&row.Day, &row.TotalCents, &row.Payments); err != nil {
			return nil, infra.WrapRepoErr("failed to scan revenue row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate revenue rows", err)
	}
	return result, nil
}
