package procurement

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a request id has no row.
var ErrNotFound = errors.New("procurement: not found")

// ListFilters narrows the purchase request list.
type ListFilters struct {
	OrderID *int64
	Status  *PRStatus
	Limit   int
	Offset  int
}

type Repository interface {
	Create(ctx context.Context, pr PurchaseRequest) (PurchaseRequest, error)
	Get(ctx context.Context, id int64) (PurchaseRequest, error)
	List(ctx context.Context, filters ListFilters) ([]PurchaseRequest, error)
	UpdateStatus(ctx context.Context, id int64, status PRStatus) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const prColumns = `id, order_id, product_id, description, quantity, status, requested_by, created_at, updated_at`

func scanPR(row pgx.Row) (PurchaseRequest, error) {
	var pr PurchaseRequest
	err := row.Scan(&pr.ID, &pr.OrderID, &pr.ProductID, &pr.Description, &pr.Quantity, &pr.Status, &pr.RequestedBy, &pr.CreatedAt, &pr.UpdatedAt)
	if err == pgx.ErrNoRows {
		return PurchaseRequest{}, ErrNotFound
	}
	return pr, err
}

func (r *repository) Create(ctx context.Context, pr PurchaseRequest) (PurchaseRequest, error) {
	query := `INSERT INTO purchase_requests (order_id, product_id, description, quantity, status, requested_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	if pr.Status == "" {
		pr.Status = PRStatusPending
	}
	err := r.db.QueryRow(ctx, query,
		pr.OrderID, pr.ProductID, pr.Description, pr.Quantity, pr.Status, pr.RequestedBy, now, now,
	).Scan(&pr.ID)
	if err != nil {
		return PurchaseRequest{}, err
	}
	pr.CreatedAt = now
	pr.UpdatedAt = now
	return pr, nil
}

func (r *repository) Get(ctx context.Context, id int64) (PurchaseRequest, error) {
	return scanPR(r.db.QueryRow(ctx, `SELECT `+prColumns+` FROM purchase_requests WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]PurchaseRequest, error) {
	query := `SELECT ` + prColumns + ` FROM purchase_requests WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.OrderID != nil {
		argCount++
		query += ` AND order_id = $` + strconv.Itoa(argCount)
		args = append(args, *filters.OrderID)
	}
	if filters.Status != nil {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, *filters.Status)
	}
	query += ` ORDER BY created_at DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)
		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []PurchaseRequest
	for rows.Next() {
		pr, err := scanPR(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, pr)
	}
	return list, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status PRStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE purchase_requests SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
