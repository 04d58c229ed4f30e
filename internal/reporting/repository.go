package reporting

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/printdesk/printdesk/internal/orders"
)

// PlanRow is one aggregated payment row.
type PlanRow struct {
	Plan  orders.PlanType
	Count int
	Total float64
}

// StatusCounts carries the day's order movement.
type StatusCounts struct {
	Opened    int
	Delivered int
	Cancelled int
}

type Repository interface {
	PaymentsByPlan(ctx context.Context, from, to time.Time) ([]PlanRow, error)
	MovementCounts(ctx context.Context, from, to time.Time) (StatusCounts, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) PaymentsByPlan(ctx context.Context, from, to time.Time) ([]PlanRow, error) {
	query := `SELECT type, COUNT(*), COALESCE(SUM(amount), 0)
FROM order_payments
WHERE created_at >= $1 AND created_at < $2
GROUP BY type
ORDER BY type`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlanRow
	for rows.Next() {
		var row PlanRow
		if err := rows.Scan(&row.Plan, &row.Count, &row.Total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) MovementCounts(ctx context.Context, from, to time.Time) (StatusCounts, error) {
	var counts StatusCounts
	err := r.db.QueryRow(ctx, `SELECT
	COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
	COUNT(*) FILTER (WHERE status = $3 AND updated_at >= $1 AND updated_at < $2),
	COUNT(*) FILTER (WHERE status = $4 AND updated_at >= $1 AND updated_at < $2)
FROM orders`,
		from, to, string(orders.StatusDelivered), string(orders.StatusCancelled),
	).Scan(&counts.Opened, &counts.Delivered, &counts.Cancelled)
	return counts, err
}
