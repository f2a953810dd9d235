package reservation

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// StatsRepository runs the reporting aggregates through sqlx.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	const q = `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue
		FROM reservations
		GROUP BY status`

	var rows []StatusCount
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	return rows, nil
}
