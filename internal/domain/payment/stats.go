package payment

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) TotalsByStatus(ctx context.Context) ([]StatusTotal, error) {
	const q = `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
		FROM payments
		GROUP BY status`

	var rows []StatusTotal
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}

// RevenueByMethod sums completed payments per method.
func (r *StatsRepository) RevenueByMethod(ctx context.Context) ([]MethodTotal, error) {
	q := r.db.Rebind(`
		SELECT payment_method AS method, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
		FROM payments
		WHERE status = ?
		GROUP BY payment_method
		ORDER BY payment_method`)

	var rows []MethodTotal
	if err := r.db.SelectContext(ctx, &rows, q, StatusCompleted); err != nil {
		return nil, err
	}
	return rows, nil
}
