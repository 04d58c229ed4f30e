package clients

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a client id has no row.
var ErrNotFound = errors.New("clients: not found")

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Client, int, error)
	Get(ctx context.Context, id int64) (Client, error)
	Create(ctx context.Context, client Client) (Client, error)
	Update(ctx context.Context, id int64, client Client) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const clientColumns = `id, name, phone, email, tax_id, tax_usage_code, postal_code, notes, created_at, updated_at`

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.TaxID, &c.TaxUsageCode, &c.PostalCode, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err == pgx.ErrNoRows {
		return Client{}, ErrNotFound
	}
	return c, err
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Client, int, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM clients WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		clause := ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR phone ILIKE $` + strconv.Itoa(argCount) + `)`
		query += clause
		countQuery += clause
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY name ASC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Client, error) {
	return scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, client Client) (Client, error) {
	query := `INSERT INTO clients (name, phone, email, tax_id, tax_usage_code, postal_code, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query,
		client.Name, client.Phone, client.Email, client.TaxID,
		client.TaxUsageCode, client.PostalCode, client.Notes, now, now,
	).Scan(&client.ID)
	if err != nil {
		return Client{}, err
	}
	client.CreatedAt = now
	client.UpdatedAt = now
	return client, nil
}

func (r *repository) Update(ctx context.Context, id int64, client Client) error {
	query := `UPDATE clients SET name = $1, phone = $2, email = $3, tax_id = $4, tax_usage_code = $5, postal_code = $6, notes = $7, updated_at = $8 WHERE id = $9`
	tag, err := r.db.Exec(ctx, query,
		client.Name, client.Phone, client.Email, client.TaxID,
		client.TaxUsageCode, client.PostalCode, client.Notes, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
